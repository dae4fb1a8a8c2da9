package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const DEFAULT_MESSAGE = "Ready."

type inputMode int

const (
	inputNone inputMode = iota
	inputCommand
	inputSearch
	inputEdit
)

type CommandLine struct {
	input     textinput.Model
	inputMode inputMode
	message   string
	// ID of the setting being edited in inputEdit mode
	editing string
}

func NewCommandLine() CommandLine {
	input := textinput.New()
	input.Prompt = ""
	return CommandLine{
		input:     input,
		inputMode: inputNone,
		message:   DEFAULT_MESSAGE,
	}
}

func (c CommandLine) Init() tea.Cmd {
	return nil
}

func (c CommandLine) Update(msg tea.Msg) (CommandLine, tea.Cmd) {
	var cmd tea.Cmd
	if msg, ok := msg.(tea.KeyMsg); ok {
		if c.inputMode == inputNone {
			switch msg.String() {
			case ":":
				c.startInput(inputCommand)
			case "/":
				c.startInput(inputSearch)
			}
			return c, nil
		}

		switch msg.String() {
		case "esc", "ctrl+c":
			c.endInputMode()
			return c, nil
		case "enter":
			return c, c.onEnter()
		case "tab":
			if c.inputMode == inputCommand {
				c.completeCommandPath()
			}
			return c, nil
		}

		c.input, cmd = c.input.Update(msg)

		if c.inputMode == inputEdit {
			return c, cmd
		}
		switch msg.String() {
		case "backspace":
			if len(c.input.Value()) == 0 {
				c.endInputMode()
				return c, nil
			}
		case "ctrl+w":
			if len(c.input.Value()) == 0 {
				c.resetPrompt()
				return c, nil
			}
		}

		return c, cmd
	}
	return c, nil
}

func (c *CommandLine) startInput(mode inputMode) {
	c.inputMode = mode
	c.input.Focus()
	c.resetPrompt()
}

// StartEdit opens the command line prefilled with the value of a setting
func (c *CommandLine) StartEdit(id, label, value string) {
	c.inputMode = inputEdit
	c.editing = id
	c.input.Prompt = label + ": "
	c.input.SetValue(value)
	c.input.CursorEnd()
	c.input.Focus()
}

func (c *CommandLine) resetPrompt() {
	switch c.inputMode {
	case inputCommand:
		c.input.SetValue(":")
		c.input.SetCursor(1)
	case inputSearch:
		c.input.SetValue("/")
		c.input.SetCursor(1)
	}
}

func (c *CommandLine) onEnter() tea.Cmd {
	switch c.inputMode {
	case inputCommand:
		return c.onCommandInput()
	case inputSearch:
		return c.onSearchInput()
	case inputEdit:
		return c.onEditInput()
	}
	return nil
}

func (c *CommandLine) onCommandInput() tea.Cmd {
	input := c.input.Value()
	c.endInputMode()
	cmdAsStrings, err := parseInputAsCommand(input)
	if err != nil {
		c.message = err.Error()
		return nil
	}
	return func() tea.Msg { return commandInputMsg{cmdAsStrings} }
}

func (c *CommandLine) onSearchInput() tea.Cmd {
	input := c.input.Value()
	c.endInputMode()
	inputAsSearch, err := parseInputAsSearch(input)
	if err != nil {
		c.message = err.Error()
		return nil
	}
	return func() tea.Msg { return searchInputMsg{inputAsSearch} }
}

func (c *CommandLine) onEditInput() tea.Cmd {
	id, value := c.editing, c.input.Value()
	c.endInputMode()
	return func() tea.Msg { return editInputMsg{id, value} }
}

// completeCommandPath completes the path argument of :w and :wq
func (c *CommandLine) completeCommandPath() {
	cmd, err := parseInputAsCommand(c.input.Value())
	if err != nil || len(cmd) != 2 {
		return
	}
	switch cmd[0] {
	case "w", "wq", "x":
	default:
		return
	}
	matches, err := completePath(cmd[1])
	if err != nil || len(matches) == 0 {
		return
	}
	arg := cmd[1]
	head := arg[:strings.LastIndexByte(arg, filepath.Separator)+1]
	if arg == "~" {
		head = "~/"
	}
	completed := head + commonPrefix(matches)
	c.input.SetValue(fmt.Sprintf(":%s %s", cmd[0], completed))
	c.input.CursorEnd()
}

func parseInputAsCommand(input string) ([]string, error) {
	if len(input) == 0 || input[0] != byte(':') {
		return nil, fmt.Errorf("Commands must start with ':', got '%s'", input)
	}
	return strings.Fields(input[1:]), nil
}

func parseInputAsSearch(input string) (string, error) {
	if len(input) == 0 || input[0] != byte('/') {
		return "", fmt.Errorf("Search must start with '/', got '%s'", input)
	}
	return input[1:], nil
}

func (c *CommandLine) endInputMode() {
	c.inputMode = inputNone
	c.editing = ""
	c.input.Prompt = ""
	c.input.Blur()
	c.message = DEFAULT_MESSAGE
}

func (c CommandLine) View() string {
	switch c.inputMode {
	case inputNone:
		return c.message
	case inputCommand, inputSearch, inputEdit:
		return c.input.View()
	default:
		panic(fmt.Sprintf("ERROR: Invalid input mode %d", c.inputMode))
	}
}

func (c *CommandLine) SetMessage(msg string) {
	c.message = msg
}

func (c CommandLine) Message() string {
	return c.message
}

func (c CommandLine) IsInputActive() bool {
	return c.inputMode != inputNone
}

func (c CommandLine) GetHeight() int {
	return 1
}
