package customizer

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

type ControlType string

const (
	ControlText     ControlType = "text"
	ControlTextarea ControlType = "textarea"
	ControlColor    ControlType = "color"
	ControlCheckbox ControlType = "checkbox"
	ControlSelect   ControlType = "select"
	ControlRange    ControlType = "range"
)

// ControlTypes lists all supported control types
var ControlTypes = []ControlType{
	ControlText, ControlTextarea, ControlColor, ControlCheckbox, ControlSelect, ControlRange,
}

const (
	// ToolbarSection holds the undo/redo controls and is never reset
	ToolbarSection = "customify_toolbar"
	controlSuffix  = "_control"
)

var colorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

type Choice struct {
	Value string
	Label string
}

type Setting struct {
	ID          string
	Label       string
	Description string
	Type        ControlType
	Default     string
	Choices     []Choice
	Min         float64
	Max         float64
	Step        float64
	Section     string
}

type Section struct {
	ID       string
	Title    string
	Panel    string
	Settings []string
}

type Panel struct {
	ID       string
	Title    string
	Sections []string
}

// ControlID returns the ID of the control that edits s
func (s Setting) ControlID() string {
	return s.ID + controlSuffix
}

// SettingIDFromControl strips the control suffix from a control ID
func SettingIDFromControl(controlID string) string {
	return strings.TrimSuffix(controlID, controlSuffix)
}

// ChoiceLabel returns the label for a select value, or the value itself
func (s Setting) ChoiceLabel(value string) string {
	for _, c := range s.Choices {
		if c.Value == value {
			if len(c.Label) == 0 {
				return c.Value
			}
			return c.Label
		}
	}
	return value
}

// Normalize converts raw input into the canonical stored form for the
// setting's control type.
func (s Setting) Normalize(raw string) (string, error) {
	switch s.Type {
	case ControlText, ControlTextarea, "":
		return raw, nil
	case ControlCheckbox:
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "true", "1", "yes", "on":
			return "true", nil
		case "false", "0", "no", "off", "":
			return "false", nil
		}
		return "", fmt.Errorf("'%s' is not a boolean", raw)
	case ControlSelect:
		for _, c := range s.Choices {
			if c.Value == raw {
				return raw, nil
			}
		}
		return "", fmt.Errorf("'%s' is not a choice of '%s'", raw, s.ID)
	case ControlColor:
		raw = strings.TrimSpace(raw)
		if !colorPattern.MatchString(raw) {
			return "", fmt.Errorf("'%s' is not a hex color", raw)
		}
		return strings.ToLower(raw), nil
	case ControlRange:
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return "", fmt.Errorf("'%s' is not a number", raw)
		}
		return formatNumber(s.snap(v), s.Step), nil
	}
	return "", fmt.Errorf("Unknown control type '%s'", s.Type)
}

// Nudge moves a range value by n steps, or cycles a select by n choices.
// Checkboxes are toggled. Other types are returned unchanged.
func (s Setting) Nudge(value string, n int) string {
	switch s.Type {
	case ControlRange:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			v = s.Min
		}
		return formatNumber(s.snap(v+float64(n)*s.Step), s.Step)
	case ControlSelect:
		if len(s.Choices) == 0 {
			return value
		}
		index := 0
		for i, c := range s.Choices {
			if c.Value == value {
				index = i
				break
			}
		}
		count := len(s.Choices)
		return s.Choices[((index+n)%count+count)%count].Value
	case ControlCheckbox:
		if value == "true" {
			return "false"
		}
		return "true"
	}
	return value
}

func (s Setting) snap(v float64) float64 {
	if v < s.Min {
		v = s.Min
	}
	if v > s.Max {
		v = s.Max
	}
	if s.Step > 0 {
		v = s.Min + math.Round((v-s.Min)/s.Step)*s.Step
		if v > s.Max {
			v -= s.Step
		}
	}
	return v
}

// formatNumber rounds v to the precision of step and drops trailing zeros
func formatNumber(v, step float64) string {
	decimals := 0
	if s := strconv.FormatFloat(step, 'f', -1, 64); strings.Contains(s, ".") {
		decimals = len(s) - strings.Index(s, ".") - 1
	}
	rounded, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', decimals, 64), 64)
	if rounded == 0 {
		rounded = 0 // drop negative zero
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}
