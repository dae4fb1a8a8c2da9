// Package tui is the terminal front end of customify, built on bubbletea.
package tui

import (
	"fmt"
	"time"

	"github.com/pixelgrade/customify/src/customizer"
	"github.com/pixelgrade/customify/src/logging"
	"github.com/pixelgrade/customify/src/schema"
	"github.com/pixelgrade/customify/src/session"
	"github.com/pixelgrade/customify/src/undo"

	tea "github.com/charmbracelet/bubbletea"
)

// Options carries everything the UI works on. Recorder, SchemaChanges and
// SchemaErrors may be nil.
type Options struct {
	Registry *customizer.Registry
	History  *undo.Manager
	Tracker  *customizer.Tracker
	Recorder *session.Recorder
	Logger   *logging.Logger

	SchemaPath string
	ValuesPath string

	Debounce            time.Duration
	ClipboardClearDelay time.Duration

	// Receives a value whenever the schema file changed on disk
	SchemaChanges <-chan struct{}
	SchemaErrors  <-chan error
}

type MainModel struct {
	opts     Options
	navigate Navigate

	windowWidth  int
	windowHeight int
}

func NewMainModel(opts Options) MainModel {
	return MainModel{opts: opts, navigate: NewNavigate(opts, 0, 0)}
}

func (m MainModel) Init() tea.Cmd {
	return tea.Batch(
		m.navigate.Init(),
		waitForSchemaChange(m.opts.SchemaChanges),
		waitForWatchError(m.opts.SchemaErrors),
	)
}

func (m MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
	case globalResizeMsg:
		m.windowWidth = msg.width
		m.windowHeight = msg.height
		return m, nil
	case schemaChangedMsg:
		m.reloadSchema()
		return m, waitForSchemaChange(m.opts.SchemaChanges)
	case schemaWatchErrorMsg:
		m.opts.Logger.Error(msg.err, "watching schema failed", "path", m.opts.SchemaPath)
		m.navigate.cmdLine.SetMessage(fmt.Sprintf("Error while watching schema: %s", msg.err))
		return m, waitForWatchError(m.opts.SchemaErrors)
	}

	m.navigate, cmd = m.navigate.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// reloadSchema rebuilds the registry from the schema file. Values are carried
// over, unsaved ones stay unsaved. The history refers to the old registry and
// is cleared.
func (m *MainModel) reloadSchema() {
	logger := m.opts.Logger
	file, err := schema.Load(m.opts.SchemaPath)
	if err == nil {
		var registry *customizer.Registry
		registry, err = schema.Build(file)
		if err == nil {
			m.swapRegistry(registry)
		}
	}
	if err != nil {
		logger.Error(err, "could not reload schema", "path", m.opts.SchemaPath)
		m.navigate.cmdLine.SetMessage(fmt.Sprintf("Error while reloading schema: %s", err))
		return
	}
	logger.Info("reloaded schema", "path", m.opts.SchemaPath)
	m.navigate.cmdLine.SetMessage("Schema reloaded")
}

func (m *MainModel) swapRegistry(registry *customizer.Registry) {
	old := m.opts.Registry
	m.opts.Tracker.Flush()

	saved, err := customizer.ReadValuesFile(m.opts.ValuesPath)
	if err != nil {
		m.opts.Logger.Warn(err, "could not read values file", "path", m.opts.ValuesPath)
	}
	if skipped := registry.LoadValues(saved); len(skipped) > 0 {
		m.opts.Logger.Warn(nil, "skipped stored values", "ids", skipped)
	}
	for _, id := range old.Dirty() {
		value, _ := old.Value(id)
		registry.Set(id, value)
	}

	m.opts.History.Clear()
	m.opts.Registry = registry
	m.opts.Tracker = customizer.NewTracker(registry, m.opts.History, m.opts.Logger)
	seq := m.navigate.settleSeq
	m.navigate = NewNavigate(m.opts, m.windowWidth, m.windowHeight)
	m.navigate.settleSeq = seq
}

func (m MainModel) View() string {
	return m.navigate.View()
}
