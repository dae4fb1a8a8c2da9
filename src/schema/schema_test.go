package schema

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pixelgrade/customify/src/customizer"
	"github.com/stretchr/testify/assert"
)

func loadBuild(t *testing.T, path string) *customizer.Registry {
	f, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	r, err := Build(f)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestLoadYAML(t *testing.T) {
	assert := assert.New(t)

	r := loadBuild(t, "testdata/theme.yaml")

	panels := r.Panels()
	if assert.Len(panels, 2) {
		assert.Equal(customizer.GeneralPanel, panels[0].ID)
		assert.Equal("theme_options", panels[1].ID)
		assert.Equal("Theme Options", panels[1].Title)
	}

	width, ok := r.Setting("content_width")
	if assert.True(ok) {
		assert.Equal(customizer.ControlRange, width.Type)
		assert.Equal(600.0, width.Min)
		assert.Equal(1400.0, width.Max)
		assert.Equal(20.0, width.Step)
		assert.Equal("layout", width.Section)
	}

	v, _ := r.Value("accent_color")
	assert.Equal("#3f51b5", v)
	v, _ = r.Value("dark_mode")
	assert.Equal("false", v)

	sidebar, _ := r.Setting("sidebar")
	assert.Equal("No sidebar", sidebar.ChoiceLabel("none"))
}

func TestYAMLAndXMLAgree(t *testing.T) {
	assert := assert.New(t)

	fromYAML := loadBuild(t, "testdata/theme.yaml")
	fromXML := loadBuild(t, "testdata/theme.xml")

	assert.Equal(fromYAML.Panels(), fromXML.Panels())
	assert.Equal(fromYAML.AllSettings(), fromXML.AllSettings())
	assert.Equal(fromYAML.Values(), fromXML.Values())
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.json")
	os.WriteFile(path, []byte("{}"), 0o600)
	_, err := Load(path)
	assert.ErrorContains(t, err, "Unsupported schema format")
}

func TestValidation(t *testing.T) {
	assert := assert.New(t)

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"missing id", "sections:\n  - title: x\n", "sections[0].id: failed 'required'"},
		{"bad id", "sections:\n  - id: Bad ID\n", "sections[0].id: failed 'schema_id'"},
		{"bad type", "sections:\n  - id: s\n    settings:\n      - id: a\n        type: typography\n", "type: failed 'oneof"},
		{"select without choices", "sections:\n  - id: s\n    settings:\n      - id: a\n        type: select\n", "choices: failed 'required_if"},
		{"range bounds", "sections:\n  - id: s\n    settings:\n      - id: a\n        type: range\n        min: 5\n        max: 5\n        step: 1\n", "max: failed 'gtfield_min'"},
		{"range step", "sections:\n  - id: s\n    settings:\n      - id: a\n        type: range\n        max: 5\n", "step: failed 'gt_zero'"},
		{"bad default", "sections:\n  - id: s\n    settings:\n      - id: a\n        type: color\n        default: blue\n", "default of setting 'a'"},
	}
	for _, tt := range tests {
		f, err := ParseYAML([]byte(tt.content))
		if !assert.NoError(err, tt.name) {
			continue
		}
		err = Validate(f)
		assert.ErrorContains(err, tt.want, tt.name)
	}
}

func TestBuildRejectsDuplicates(t *testing.T) {
	f, err := ParseYAML([]byte("sections:\n  - id: s\n    settings:\n      - id: a\n        type: text\n      - id: a\n        type: text\n"))
	if !assert.NoError(t, err) {
		return
	}
	_, err = Build(f)
	assert.ErrorIs(t, err, customizer.ErrDuplicate)
}

func TestParseXMLErrors(t *testing.T) {
	assert := assert.New(t)

	_, err := ParseXML([]byte("<other/>"))
	assert.ErrorContains(err, "<customizer>")

	_, err = ParseXML([]byte(`<customizer><section id="s"><setting id="a" type="range" min="x"/></section></customizer>`))
	assert.ErrorContains(err, "attribute min")
}

func TestWatcherSignalsOnWrite(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "schema.yaml")
	if err := os.WriteFile(path, []byte("sections: []\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(path, 20*time.Millisecond)
	if !assert.NoError(err) {
		return
	}
	defer w.Stop()
	changed, err := w.Start()
	if !assert.NoError(err) {
		return
	}

	// Unrelated files in the same directory are ignored
	os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o600)
	select {
	case <-changed:
		t.Fatal("signal for unrelated file")
	case <-time.After(100 * time.Millisecond):
	}

	os.WriteFile(path, []byte("sections: []\n# edit\n"), 0o600)
	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("no signal after write")
	}
}
