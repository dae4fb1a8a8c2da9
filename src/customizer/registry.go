// Package customizer holds the settings model edited by customify: panels,
// sections and settings with their current values, plus the tracker that
// turns settled value changes into undoable commands.
package customizer

import (
	"errors"
	"fmt"
	"sort"

	"github.com/pixelgrade/customify/src/util/set"
)

var (
	ErrDuplicate = errors.New("duplicate id")
	ErrNotFound  = errors.New("not found")
)

// GeneralPanel is the ID of the implicit panel that owns sections declared
// without one.
const GeneralPanel = ""

const GeneralPanelTitle = "(General)"

type Observer func(id, value string)

type Registry struct {
	panels     map[string]*Panel
	panelOrder []string
	sections   map[string]*Section
	settings   map[string]*Setting

	values map[string]string
	saved  map[string]string
	dirty  set.Set[string]

	observers []Observer
}

func NewRegistry() *Registry {
	r := &Registry{
		panels:   map[string]*Panel{},
		sections: map[string]*Section{},
		settings: map[string]*Setting{},
		values:   map[string]string{},
		saved:    map[string]string{},
		dirty:    set.New[string](),
	}
	r.panels[GeneralPanel] = &Panel{ID: GeneralPanel, Title: GeneralPanelTitle}
	r.panelOrder = []string{GeneralPanel}
	return r
}

func (r *Registry) AddPanel(p Panel) error {
	if len(p.ID) == 0 {
		return fmt.Errorf("panel without id: %w", ErrNotFound)
	}
	if _, ok := r.panels[p.ID]; ok {
		return fmt.Errorf("panel '%s': %w", p.ID, ErrDuplicate)
	}
	p.Sections = nil
	r.panels[p.ID] = &p
	r.panelOrder = append(r.panelOrder, p.ID)
	return nil
}

func (r *Registry) AddSection(s Section) error {
	if _, ok := r.sections[s.ID]; ok {
		return fmt.Errorf("section '%s': %w", s.ID, ErrDuplicate)
	}
	panel, ok := r.panels[s.Panel]
	if !ok {
		return fmt.Errorf("panel '%s' of section '%s': %w", s.Panel, s.ID, ErrNotFound)
	}
	s.Settings = nil
	r.sections[s.ID] = &s
	panel.Sections = append(panel.Sections, s.ID)
	return nil
}

// AddSetting registers a setting and initializes its value to the default.
func (r *Registry) AddSetting(s Setting) error {
	if _, ok := r.settings[s.ID]; ok {
		return fmt.Errorf("setting '%s': %w", s.ID, ErrDuplicate)
	}
	section, ok := r.sections[s.Section]
	if !ok {
		return fmt.Errorf("section '%s' of setting '%s': %w", s.Section, s.ID, ErrNotFound)
	}
	def, err := s.Normalize(s.Default)
	if err != nil {
		return fmt.Errorf("default of setting '%s': %w", s.ID, err)
	}
	s.Default = def
	r.settings[s.ID] = &s
	section.Settings = append(section.Settings, s.ID)
	r.values[s.ID] = def
	r.saved[s.ID] = def
	return nil
}

// Panels returns all panels in declaration order. The general panel is only
// included if it has sections.
func (r *Registry) Panels() []Panel {
	panels := make([]Panel, 0, len(r.panelOrder))
	for _, id := range r.panelOrder {
		p := r.panels[id]
		if id == GeneralPanel && len(p.Sections) == 0 {
			continue
		}
		panels = append(panels, *p)
	}
	return panels
}

func (r *Registry) Panel(id string) (Panel, bool) {
	p, ok := r.panels[id]
	if !ok {
		return Panel{}, false
	}
	return *p, true
}

func (r *Registry) Section(id string) (Section, bool) {
	s, ok := r.sections[id]
	if !ok {
		return Section{}, false
	}
	return *s, true
}

func (r *Registry) Setting(id string) (Setting, bool) {
	s, ok := r.settings[id]
	if !ok {
		return Setting{}, false
	}
	return *s, true
}

// Sections returns the sections of a panel in declaration order
func (r *Registry) Sections(panelID string) []Section {
	p, ok := r.panels[panelID]
	if !ok {
		return nil
	}
	sections := make([]Section, 0, len(p.Sections))
	for _, id := range p.Sections {
		sections = append(sections, *r.sections[id])
	}
	return sections
}

// SettingsIn returns the settings of a section in declaration order
func (r *Registry) SettingsIn(sectionID string) []Setting {
	s, ok := r.sections[sectionID]
	if !ok {
		return nil
	}
	settings := make([]Setting, 0, len(s.Settings))
	for _, id := range s.Settings {
		settings = append(settings, *r.settings[id])
	}
	return settings
}

// AllSettings returns every setting, ordered by panel, section and declaration
func (r *Registry) AllSettings() []Setting {
	all := []Setting{}
	for _, panelID := range r.panelOrder {
		for _, sectionID := range r.panels[panelID].Sections {
			all = append(all, r.SettingsIn(sectionID)...)
		}
	}
	return all
}

func (r *Registry) Value(id string) (string, bool) {
	v, ok := r.values[id]
	return v, ok
}

// Values returns a copy of all current values
func (r *Registry) Values() map[string]string {
	out := make(map[string]string, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// Bind registers an observer that is called synchronously after every change
func (r *Registry) Bind(o Observer) {
	r.observers = append(r.observers, o)
}

// Set stores a value and notifies observers. It returns false if the setting
// is unknown, the value is invalid or nothing changed.
func (r *Registry) Set(id, value string) bool {
	changed, _ := r.Update(id, value)
	return changed
}

// Update behaves like Set but reports why a value was rejected
func (r *Registry) Update(id, value string) (bool, error) {
	setting, ok := r.settings[id]
	if !ok {
		return false, fmt.Errorf("setting '%s': %w", id, ErrNotFound)
	}
	normalized, err := setting.Normalize(value)
	if err != nil {
		return false, err
	}
	if r.values[id] == normalized {
		return false, nil
	}
	r.values[id] = normalized
	if r.saved[id] == normalized {
		r.dirty.Delete(id)
	} else {
		r.dirty.Insert(id)
	}
	for _, o := range r.observers {
		o(id, normalized)
	}
	return true, nil
}

func (r *Registry) ResetSetting(id string) bool {
	setting, ok := r.settings[id]
	if !ok {
		return false
	}
	return r.Set(id, setting.Default)
}

// ResetSection sets every setting of a section back to its default and
// returns the IDs that changed. The toolbar section is left alone.
func (r *Registry) ResetSection(id string) []string {
	changed := []string{}
	section, ok := r.sections[id]
	if !ok || id == ToolbarSection {
		return changed
	}
	for _, settingID := range section.Settings {
		if r.ResetSetting(settingID) {
			changed = append(changed, settingID)
		}
	}
	return changed
}

func (r *Registry) ResetPanel(id string) []string {
	changed := []string{}
	panel, ok := r.panels[id]
	if !ok {
		return changed
	}
	for _, sectionID := range panel.Sections {
		changed = append(changed, r.ResetSection(sectionID)...)
	}
	return changed
}

// LoadValues applies stored values without notifying observers and marks
// them as saved. IDs that are unknown or hold invalid values are skipped
// and returned.
func (r *Registry) LoadValues(values map[string]string) []string {
	skipped := []string{}
	for id, raw := range values {
		setting, ok := r.settings[id]
		if !ok {
			skipped = append(skipped, id)
			continue
		}
		normalized, err := setting.Normalize(raw)
		if err != nil {
			skipped = append(skipped, id)
			continue
		}
		r.values[id] = normalized
		r.saved[id] = normalized
		r.dirty.Delete(id)
	}
	sort.Strings(skipped)
	return skipped
}

// MarkSaved records the current values as the saved state
func (r *Registry) MarkSaved() {
	for id, v := range r.values {
		r.saved[id] = v
	}
	r.dirty.Clear()
}

// MarkSavedValues records values as the saved state. Settings changed since
// values were taken stay dirty.
func (r *Registry) MarkSavedValues(values map[string]string) {
	for id, v := range values {
		if _, ok := r.settings[id]; !ok {
			continue
		}
		r.saved[id] = v
		if r.values[id] == v {
			r.dirty.Delete(id)
		} else {
			r.dirty.Insert(id)
		}
	}
}

func (r *Registry) IsDirty(id string) bool {
	return r.dirty.Contains(id)
}

// Dirty returns the IDs of settings changed since the last save, sorted
func (r *Registry) Dirty() []string {
	return r.dirty.Sorted(func(a, b string) bool { return a < b })
}
