package tui

import (
	"time"

	"github.com/pixelgrade/customify/src/customizer"
	tea "github.com/charmbracelet/bubbletea"
)

type commandInputMsg struct {
	cmd []string
}

type searchInputMsg struct {
	query string
}

type editInputMsg struct {
	id    string
	value string
}

// settleMsg is delivered once the debounce delay after a change has passed.
// Only the tick carrying the latest sequence number commits.
type settleMsg struct {
	seq int
}

func settleCmd(delay time.Duration, seq int) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return settleMsg{seq}
	})
}

// saveValuesCmd writes a snapshot of the values to path
func saveValuesCmd(path string, values map[string]string, andThen tea.Cmd) tea.Cmd {
	return func() tea.Msg {
		expanded, err := expand(path)
		if err != nil {
			return saveFailedMsg{err}
		}
		if err := customizer.WriteValuesFile(expanded, values); err != nil {
			return saveFailedMsg{err}
		}
		return saveDoneMsg{path, values, andThen}
	}
}

type saveDoneMsg struct {
	path   string
	values map[string]string
	// Should be executed after saving
	andThen tea.Cmd
}

type saveFailedMsg struct {
	err error
}

func scheduleClearClipboard(delay time.Duration, notify <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-notify:
			return nil
		case <-time.After(delay):
			return clearClipboardMsg{}
		}
	}
}

type clearClipboardMsg struct{}

type clearClipboardAndQuitMsg struct{}

// waitForSchemaChange blocks until the watcher reports a change of the
// schema file
func waitForSchemaChange(changes <-chan struct{}) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return schemaChangedMsg{}
	}
}

type schemaChangedMsg struct{}

// waitForWatchError blocks until the watcher reports a failure
func waitForWatchError(errs <-chan error) tea.Cmd {
	if errs == nil {
		return nil
	}
	return func() tea.Msg {
		err, ok := <-errs
		if !ok {
			return nil
		}
		return schemaWatchErrorMsg{err}
	}
}

type schemaWatchErrorMsg struct {
	err error
}

/* When any model receives a tea.WindowSizeMsg, it should emit this command
in order to alert the main model of the resize. The main model will store the new
window size and pass it to models it creates later on */
func globalResizeCmd(width, height int) tea.Cmd {
	return func() tea.Msg {
		return globalResizeMsg{width, height}
	}
}

type globalResizeMsg struct {
	width  int
	height int
}

type setCommandLineMessageMsg struct {
	msg string
}
