// Package schema loads the files that describe what can be customized and
// builds a registry from them.
package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pixelgrade/customify/src/customizer"
)

type File struct {
	Panels   []Panel   `yaml:"panels" validate:"dive"`
	Sections []Section `yaml:"sections" validate:"dive"`
}

type Panel struct {
	ID       string    `yaml:"id" validate:"required,schema_id"`
	Title    string    `yaml:"title"`
	Sections []Section `yaml:"sections" validate:"dive"`
}

type Section struct {
	ID       string    `yaml:"id" validate:"required,schema_id"`
	Title    string    `yaml:"title"`
	Settings []Setting `yaml:"settings" validate:"dive"`
}

type Setting struct {
	ID          string   `yaml:"id" validate:"required,schema_id"`
	Label       string   `yaml:"label"`
	Description string   `yaml:"description"`
	Type        string   `yaml:"type" validate:"required,oneof=text textarea color checkbox select range"`
	Default     string   `yaml:"default"`
	Choices     []Choice `yaml:"choices" validate:"required_if=Type select,dive"`
	Min         float64  `yaml:"min"`
	Max         float64  `yaml:"max"`
	Step        float64  `yaml:"step"`
}

type Choice struct {
	Value string `yaml:"value" validate:"required"`
	Label string `yaml:"label"`
}

// Load reads and validates a schema file. The format is picked by extension.
func Load(path string) (*File, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f *File
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		f, err = ParseYAML(content)
	case ".xml":
		f, err = ParseXML(content)
	default:
		return nil, fmt.Errorf("Unsupported schema format '%s'", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parse schema '%s': %w", path, err)
	}
	if err := Validate(f); err != nil {
		return nil, fmt.Errorf("invalid schema '%s': %w", path, err)
	}
	return f, nil
}

// Build registers everything in f with a new registry. Settings default to
// the text control.
func Build(f *File) (*customizer.Registry, error) {
	r := customizer.NewRegistry()
	for _, p := range f.Panels {
		if err := r.AddPanel(customizer.Panel{ID: p.ID, Title: p.Title}); err != nil {
			return nil, err
		}
		for _, s := range p.Sections {
			if err := addSection(r, s, p.ID); err != nil {
				return nil, err
			}
		}
	}
	for _, s := range f.Sections {
		if err := addSection(r, s, customizer.GeneralPanel); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func addSection(r *customizer.Registry, s Section, panelID string) error {
	if err := r.AddSection(customizer.Section{ID: s.ID, Title: s.Title, Panel: panelID}); err != nil {
		return err
	}
	for _, setting := range s.Settings {
		if err := r.AddSetting(setting.toRegistry(s.ID)); err != nil {
			return err
		}
	}
	return nil
}

func (s Setting) toRegistry(sectionID string) customizer.Setting {
	choices := make([]customizer.Choice, 0, len(s.Choices))
	for _, c := range s.Choices {
		choices = append(choices, customizer.Choice{Value: c.Value, Label: c.Label})
	}
	controlType := customizer.ControlType(s.Type)
	if len(controlType) == 0 {
		controlType = customizer.ControlText
	}
	return customizer.Setting{
		ID:          s.ID,
		Label:       s.Label,
		Description: s.Description,
		Type:        controlType,
		Default:     s.Default,
		Choices:     choices,
		Min:         s.Min,
		Max:         s.Max,
		Step:        s.Step,
		Section:     sectionID,
	}
}
