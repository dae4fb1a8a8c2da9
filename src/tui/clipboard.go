package tui

import (
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.design/x/clipboard"
)

// The clipboard is only initialized once something is copied, so running
// without a display works as long as nothing is.
var initClipboard = sync.OnceValue(clipboard.Init)

// Set once something was copied, so quitting only touches a clipboard we wrote to
var clipboardUsed bool

func copyToClipboard(value string, clearDelay time.Duration) tea.Cmd {
	if err := initClipboard(); err != nil {
		return setMessageCmd(fmt.Sprintf("Clipboard unavailable: %s", err))
	}
	clipboardUsed = true
	notifyChangeChan := clipboard.Write(clipboard.FmtText, []byte(value))

	commandLineMsg := "Copied to clipboard."
	var clearClipboardCmd tea.Cmd = nil
	if clearDelay > 0 {
		commandLineMsg += fmt.Sprintf(" (Clearing in %s)", clearDelay)
		clearClipboardCmd = scheduleClearClipboard(clearDelay, notifyChangeChan)
	}
	return tea.Batch(setMessageCmd(commandLineMsg), clearClipboardCmd)
}

func setMessageCmd(msg string) tea.Cmd {
	return func() tea.Msg {
		return setCommandLineMessageMsg{msg}
	}
}

func clearClipboard() {
	if !clipboardUsed || initClipboard() != nil {
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(""))
}
