package customizer

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

// newTestRegistry builds a small registry with one panel, two sections in
// the panel, one section without panel and the toolbar section.
func newTestRegistry(t *testing.T) *Registry {
	r := NewRegistry()
	must := func(err error) {
		if err != nil {
			t.Fatal(err)
		}
	}
	must(r.AddPanel(Panel{ID: "theme", Title: "Theme"}))
	must(r.AddSection(Section{ID: "colors", Title: "Colors", Panel: "theme"}))
	must(r.AddSection(Section{ID: "layout", Title: "Layout", Panel: "theme"}))
	must(r.AddSection(Section{ID: "footer", Title: "Footer"}))
	must(r.AddSection(Section{ID: ToolbarSection, Title: "Toolbar"}))

	must(r.AddSetting(Setting{ID: "accent", Label: "Accent", Type: ControlColor, Default: "#FF0000", Section: "colors"}))
	must(r.AddSetting(Setting{ID: "dark", Label: "Dark mode", Type: ControlCheckbox, Default: "no", Section: "colors"}))
	must(r.AddSetting(Setting{ID: "width", Label: "Width", Type: ControlRange, Default: "960", Min: 600, Max: 1400, Step: 20, Section: "layout"}))
	must(r.AddSetting(Setting{ID: "sidebar", Label: "Sidebar", Type: ControlSelect, Default: "left", Section: "layout",
		Choices: []Choice{{"left", "Left"}, {"right", "Right"}, {"none", ""}}}))
	must(r.AddSetting(Setting{ID: "copyright", Label: "Copyright", Type: ControlText, Default: "(c) me", Section: "footer"}))
	must(r.AddSetting(Setting{ID: "undo_customify", Label: "Undo", Type: ControlText, Default: "", Section: ToolbarSection}))
	return r
}

func TestNormalize(t *testing.T) {
	assert := assert.New(t)

	tests := []struct {
		name    string
		setting Setting
		in      string
		want    string
		wantErr bool
	}{
		{"text", Setting{Type: ControlText}, " anything ", " anything ", false},
		{"checkbox yes", Setting{Type: ControlCheckbox}, "Yes", "true", false},
		{"checkbox empty", Setting{Type: ControlCheckbox}, "", "false", false},
		{"checkbox invalid", Setting{Type: ControlCheckbox}, "maybe", "", true},
		{"color short", Setting{Type: ControlColor}, "#ABC", "#abc", false},
		{"color invalid", Setting{Type: ControlColor}, "red", "", true},
		{"select", Setting{Type: ControlSelect, Choices: []Choice{{"a", ""}}}, "a", "a", false},
		{"select invalid", Setting{Type: ControlSelect, Choices: []Choice{{"a", ""}}}, "b", "", true},
		{"range clamp high", Setting{Type: ControlRange, Min: 0, Max: 10, Step: 1}, "42", "10", false},
		{"range clamp low", Setting{Type: ControlRange, Min: 0, Max: 10, Step: 1}, "-3", "0", false},
		{"range snap", Setting{Type: ControlRange, Min: 0, Max: 10, Step: 2}, "4.9", "4", false},
		{"range fraction", Setting{Type: ControlRange, Min: 0, Max: 1, Step: 0.1}, "0.3", "0.3", false},
		{"range snap below max", Setting{Type: ControlRange, Min: 0, Max: 9, Step: 2}, "9", "8", false},
		{"range invalid", Setting{Type: ControlRange, Min: 0, Max: 10, Step: 1}, "ten", "", true},
		{"unknown type", Setting{Type: "typography"}, "x", "", true},
	}
	for _, tt := range tests {
		got, err := tt.setting.Normalize(tt.in)
		if tt.wantErr {
			assert.Error(err, tt.name)
			continue
		}
		if assert.NoError(err, tt.name) {
			assert.Equal(tt.want, got, tt.name)
		}
	}
}

func TestNudge(t *testing.T) {
	assert := assert.New(t)

	r := Setting{Type: ControlRange, Min: 0, Max: 1, Step: 0.25}
	assert.Equal("0.75", r.Nudge("0.5", 1))
	assert.Equal("1", r.Nudge("1", 1))
	assert.Equal("0", r.Nudge("0.25", -3))

	s := Setting{Type: ControlSelect, Choices: []Choice{{"a", ""}, {"b", ""}, {"c", ""}}}
	assert.Equal("b", s.Nudge("a", 1))
	assert.Equal("c", s.Nudge("a", -1))
	assert.Equal("b", s.Nudge("a", -5))

	c := Setting{Type: ControlCheckbox}
	assert.Equal("true", c.Nudge("false", 1))
	assert.Equal("false", c.Nudge("true", 1))

	assert.Equal("x", Setting{Type: ControlText}.Nudge("x", 1))
}

func TestSettingIDFromControl(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("accent", SettingIDFromControl("accent_control"))
	assert.Equal("accent", SettingIDFromControl("accent"))
	assert.Equal("accent_control", Setting{ID: "accent"}.ControlID())
}

func TestRegistryStructure(t *testing.T) {
	assert := assert.New(t)
	r := newTestRegistry(t)

	panels := r.Panels()
	if assert.Len(panels, 2) {
		assert.Equal(GeneralPanel, panels[0].ID)
		assert.Equal(GeneralPanelTitle, panels[0].Title)
		assert.Equal("theme", panels[1].ID)
	}
	sections := r.Sections("theme")
	if assert.Len(sections, 2) {
		assert.Equal("colors", sections[0].ID)
		assert.Equal("layout", sections[1].ID)
	}
	settings := r.SettingsIn("layout")
	if assert.Len(settings, 2) {
		assert.Equal("width", settings[0].ID)
	}
	assert.Len(r.AllSettings(), 6)

	v, ok := r.Value("accent")
	assert.True(ok)
	assert.Equal("#ff0000", v)
	v, _ = r.Value("dark")
	assert.Equal("false", v)
}

func TestRegistryErrors(t *testing.T) {
	assert := assert.New(t)
	r := newTestRegistry(t)

	err := r.AddPanel(Panel{ID: "theme"})
	assert.True(errors.Is(err, ErrDuplicate))

	err = r.AddSection(Section{ID: "x", Panel: "missing"})
	assert.True(errors.Is(err, ErrNotFound))

	err = r.AddSetting(Setting{ID: "y", Type: ControlText, Section: "missing"})
	assert.True(errors.Is(err, ErrNotFound))

	err = r.AddSetting(Setting{ID: "z", Type: ControlColor, Default: "blue", Section: "colors"})
	assert.Error(err)

	_, err = r.Update("missing", "1")
	assert.True(errors.Is(err, ErrNotFound))
}

func TestSetNotifiesObservers(t *testing.T) {
	assert := assert.New(t)
	r := newTestRegistry(t)

	seen := []string{}
	r.Bind(func(id, value string) { seen = append(seen, id+"="+value) })

	assert.True(r.Set("width", "1000"))
	assert.False(r.Set("width", "1000"))
	assert.False(r.Set("width", "not a number"))
	assert.False(r.Set("missing", "1"))
	assert.True(r.Set("sidebar", "none"))

	assert.Equal([]string{"width=1000", "sidebar=none"}, seen)
}

func TestDirtyTracking(t *testing.T) {
	assert := assert.New(t)
	r := newTestRegistry(t)

	r.Set("width", "1000")
	r.Set("accent", "#000")
	assert.Equal([]string{"accent", "width"}, r.Dirty())
	assert.True(r.IsDirty("width"))

	r.Set("width", "960")
	assert.Equal([]string{"accent"}, r.Dirty())

	r.MarkSaved()
	assert.Empty(r.Dirty())
	r.Set("accent", "#ff0000")
	assert.Equal([]string{"accent"}, r.Dirty())
}

func TestMarkSavedValues(t *testing.T) {
	assert := assert.New(t)
	r := newTestRegistry(t)

	r.Set("width", "1000")
	snapshot := r.Values()
	r.Set("accent", "#000")

	r.MarkSavedValues(snapshot)
	assert.Equal([]string{"accent"}, r.Dirty())
	r.Set("width", "960")
	assert.Equal([]string{"accent", "width"}, r.Dirty())
}

func TestResetSection(t *testing.T) {
	assert := assert.New(t)
	r := newTestRegistry(t)

	r.Set("accent", "#000")
	r.Set("dark", "on")
	r.Set("width", "1200")

	changed := r.ResetSection("colors")
	assert.Equal([]string{"accent", "dark"}, changed)
	v, _ := r.Value("width")
	assert.Equal("1200", v)

	assert.Empty(r.ResetSection("colors"))
	assert.Empty(r.ResetSection("missing"))
}

func TestResetSkipsToolbar(t *testing.T) {
	assert := assert.New(t)
	r := newTestRegistry(t)

	r.Set("undo_customify", "pressed")
	assert.Empty(r.ResetSection(ToolbarSection))
	assert.Empty(r.ResetPanel(GeneralPanel))
	v, _ := r.Value("undo_customify")
	assert.Equal("pressed", v)
}

func TestResetPanel(t *testing.T) {
	assert := assert.New(t)
	r := newTestRegistry(t)

	r.Set("accent", "#000")
	r.Set("sidebar", "right")
	r.Set("copyright", "someone")

	assert.Equal([]string{"accent", "sidebar"}, r.ResetPanel("theme"))
	v, _ := r.Value("copyright")
	assert.Equal("someone", v)
	assert.True(r.ResetSetting("copyright"))
	assert.False(r.ResetSetting("missing"))
}

func TestLoadValues(t *testing.T) {
	assert := assert.New(t)
	r := newTestRegistry(t)

	notified := 0
	r.Bind(func(string, string) { notified++ })

	skipped := r.LoadValues(map[string]string{
		"width":   "1000",
		"accent":  "not a color",
		"unknown": "x",
	})
	assert.Equal([]string{"accent", "unknown"}, skipped)
	assert.Equal(0, notified)

	v, _ := r.Value("width")
	assert.Equal("1000", v)
	assert.Empty(r.Dirty())
}

func TestValuesFile(t *testing.T) {
	assert := assert.New(t)
	path := filepath.Join(t.TempDir(), "values.yaml")

	values, err := ReadValuesFile(path)
	if assert.NoError(err) {
		assert.Empty(values)
	}

	r := newTestRegistry(t)
	r.Set("width", "1100")
	assert.NoError(WriteValuesFile(path, r.Values()))

	values, err = ReadValuesFile(path)
	if assert.NoError(err) {
		assert.Equal(r.Values(), values)
	}
}
