package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pixelgrade/customify/src/customizer"
	"github.com/pixelgrade/customify/src/logging"
	"github.com/pixelgrade/customify/src/undo"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

/* Model for navigating panels and sections in order to view and edit settings */

const TABLE_SPACING = 1

var tablePadding lipgloss.Style = lipgloss.NewStyle().PaddingRight(TABLE_SPACING)

type column int

const (
	panelColumn column = iota
	sectionColumn
	controlColumn
)

type Navigate struct {
	panels   listTable
	sections listTable
	controls listTable
	focus    column
	// Last selected row per panel and per section
	lastCursor map[string]string
	cmdLine    CommandLine
	toolbar    *toolbar

	search       []string
	searchIndex  int
	searchColumn column

	registry *customizer.Registry
	tracker  *customizer.Tracker
	history  *undo.Manager
	logger   *logging.Logger

	valuesPath string
	debounce   time.Duration
	clearDelay time.Duration
	settleSeq  int

	windowWidth  int
	windowHeight int
}

func NewNavigate(opts Options, windowWidth, windowHeight int) Navigate {
	tableStyles := table.Styles{
		Header: lipgloss.NewStyle().Bold(true),
		Cell:   lipgloss.NewStyle(),
		Selected: lipgloss.NewStyle().
			Reverse(true).
			Bold(true).
			Foreground(lipgloss.Color("#9dcbf4")),
	}
	tableStylesBlurred := table.Styles{
		Header:   tableStyles.Header,
		Cell:     tableStyles.Cell,
		Selected: lipgloss.NewStyle().Bold(true),
	}
	n := Navigate{
		lastCursor:   make(map[string]string),
		toolbar:      &toolbar{},
		registry:     opts.Registry,
		tracker:      opts.Tracker,
		history:      opts.History,
		logger:       opts.Logger,
		valuesPath:   opts.ValuesPath,
		debounce:     opts.Debounce,
		clearDelay:   opts.ClipboardClearDelay,
		windowWidth:  windowWidth,
		windowHeight: windowHeight,
	}
	n.cmdLine = NewCommandLine()
	n.panels = newListTable(tableStyles, tableStylesBlurred, false)
	n.sections = newListTable(tableStyles, tableStylesBlurred, false)
	n.controls = newListTable(tableStyles, tableStylesBlurred, true)
	n.panels.Focus()

	tb, history, recorder := n.toolbar, n.history, opts.Recorder
	history.SetCallback(func() {
		if recorder != nil {
			recorder.Record()
		}
		tb.refresh(history)
	})
	tb.refresh(history)

	n.resizeAll()
	n.updateAll()
	return n
}

func (n *Navigate) resizeAll() {
	totalWidth := n.windowWidth - 2*TABLE_SPACING
	totalHeight := n.windowHeight - n.cmdLine.GetHeight() - 1
	panelWidth := int(float64(totalWidth) * 0.2)
	sectionWidth := int(float64(totalWidth) * 0.25)
	controlWidth := totalWidth - panelWidth - sectionWidth

	n.panels.Resize(panelWidth, totalHeight)
	n.sections.Resize(sectionWidth, totalHeight)
	n.controls.Resize(controlWidth, totalHeight)
}

// updateAll reloads all columns from the registry
func (n *Navigate) updateAll() {
	panels := n.registry.Panels()
	items := make([]listItem, 0, len(panels))
	for _, p := range panels {
		title := p.Title
		if len(title) == 0 {
			title = p.ID
		}
		items = append(items, listItem{id: p.ID, cells: []string{title}, search: title + " " + p.ID})
	}
	n.panels.SetItems(items, n.panels.FocusedID())
	n.updateSections()
}

func (n *Navigate) updateSections() {
	panelID := n.panels.FocusedID()
	sections := n.registry.Sections(panelID)
	items := make([]listItem, 0, len(sections))
	for _, s := range sections {
		// The toolbar row stands in for the toolbar section
		if s.ID == customizer.ToolbarSection {
			continue
		}
		title := s.Title
		if len(title) == 0 {
			title = s.ID
		}
		items = append(items, listItem{id: s.ID, cells: []string{title}, search: title + " " + s.ID})
	}
	n.sections.SetItems(items, n.lastCursor[panelID])
	n.updateControls()
}

func (n *Navigate) updateControls() {
	sectionID := n.sections.FocusedID()
	if len(sectionID) == 0 {
		n.controls.Clear()
		return
	}
	settings := n.registry.SettingsIn(sectionID)
	items := make([]listItem, 0, len(settings))
	for _, s := range settings {
		label := s.Label
		if len(label) == 0 {
			label = s.ID
		}
		if n.registry.IsDirty(s.ID) {
			label = DIRTY_MARK + label
		}
		value, _ := n.registry.Value(s.ID)
		items = append(items, listItem{
			id:     s.ID,
			cells:  []string{label, displayValue(s, value)},
			search: label + " " + s.ID,
		})
	}
	selected := n.controls.FocusedID()
	if remembered, ok := n.lastCursor[sectionID]; ok && n.focus != controlColumn {
		selected = remembered
	}
	n.controls.SetItems(items, selected)
}

func displayValue(s customizer.Setting, value string) string {
	switch s.Type {
	case customizer.ControlCheckbox:
		if value == "true" {
			return "[x]"
		}
		return "[ ]"
	case customizer.ControlSelect:
		return s.ChoiceLabel(value)
	case customizer.ControlTextarea:
		return strings.ReplaceAll(value, "\n", "⏎")
	}
	return value
}

func (n *Navigate) focusedTable() *listTable {
	switch n.focus {
	case sectionColumn:
		return &n.sections
	case controlColumn:
		return &n.controls
	}
	return &n.panels
}

func (n *Navigate) setFocus(c column) {
	n.focusedTable().Blur()
	n.focus = c
	n.focusedTable().Focus()
}

func (n *Navigate) moveLeft() {
	switch n.focus {
	case controlColumn:
		n.rememberSelected()
		n.setFocus(sectionColumn)
	case sectionColumn:
		n.rememberSelected()
		n.setFocus(panelColumn)
	}
}

func (n *Navigate) moveRight() tea.Cmd {
	switch n.focus {
	case panelColumn:
		if len(n.sections.FocusedID()) > 0 {
			n.setFocus(sectionColumn)
		}
	case sectionColumn:
		if len(n.controls.FocusedID()) > 0 {
			n.setFocus(controlColumn)
		}
	case controlColumn:
		n.startEdit()
	}
	return nil
}

func (n *Navigate) rememberSelected() {
	switch n.focus {
	case controlColumn:
		n.lastCursor[n.sections.FocusedID()] = n.controls.FocusedID()
	case sectionColumn:
		n.lastCursor[n.panels.FocusedID()] = n.sections.FocusedID()
	}
}

// cursorMoved refreshes the columns right of the focused one
func (n *Navigate) cursorMoved() {
	switch n.focus {
	case panelColumn:
		n.updateSections()
	case sectionColumn:
		n.updateControls()
	}
}

func (n *Navigate) focusedSetting() (customizer.Setting, bool) {
	if n.focus != controlColumn {
		return customizer.Setting{}, false
	}
	return n.registry.Setting(n.controls.FocusedID())
}

func (n *Navigate) startEdit() {
	setting, ok := n.focusedSetting()
	if !ok {
		return
	}
	value, _ := n.registry.Value(setting.ID)
	label := setting.Label
	if len(label) == 0 {
		label = setting.ID
	}
	n.cmdLine.StartEdit(setting.ID, label, value)
}

// change applies a value and schedules the commit of the resulting history
// entry once no further change arrived for the debounce delay
func (n *Navigate) change(id, value string) tea.Cmd {
	changed, err := n.registry.Update(id, value)
	if err != nil {
		n.cmdLine.SetMessage(fmt.Sprintf("Error: %s", err))
		return nil
	}
	if !changed {
		return nil
	}
	n.updateControls()
	return n.settle()
}

func (n *Navigate) settle() tea.Cmd {
	if n.debounce <= 0 {
		n.commit()
		return nil
	}
	n.settleSeq++
	return settleCmd(n.debounce, n.settleSeq)
}

func (n *Navigate) commit() {
	n.tracker.Flush()
}

func (n *Navigate) nudgeFocused(steps int) tea.Cmd {
	setting, ok := n.focusedSetting()
	if !ok {
		return nil
	}
	value, _ := n.registry.Value(setting.ID)
	return n.change(setting.ID, setting.Nudge(value, steps))
}

func (n *Navigate) resetFocused() tea.Cmd {
	setting, ok := n.focusedSetting()
	if !ok {
		return nil
	}
	return n.change(setting.ID, setting.Default)
}

func (n *Navigate) copyToClipboard() tea.Cmd {
	setting, ok := n.focusedSetting()
	if !ok {
		return nil
	}
	value, _ := n.registry.Value(setting.ID)
	return copyToClipboard(value, n.clearDelay)
}

func (n *Navigate) undo() {
	n.tracker.Flush()
	if !n.history.HasUndo() {
		n.cmdLine.SetMessage("Already at oldest change")
		return
	}
	command := n.history.Commands()[n.history.Cursor()]
	n.tracker.Undo()
	n.cmdLine.SetMessage("Undo: " + describe(command))
	n.updateControls()
}

func (n *Navigate) redo() {
	n.tracker.Flush()
	if !n.history.HasRedo() {
		n.cmdLine.SetMessage("Already at newest change")
		return
	}
	command := n.history.Commands()[n.history.Cursor()+1]
	n.tracker.Redo()
	n.cmdLine.SetMessage("Redo: " + describe(command))
	n.updateControls()
}

func describe(command undo.Command) string {
	if d, ok := command.(undo.Describer); ok {
		return d.Description()
	}
	return "change"
}

func (n *Navigate) save(path string, andThen tea.Cmd) tea.Cmd {
	n.tracker.Flush()
	if len(path) == 0 {
		path = n.valuesPath
	}
	n.cmdLine.SetMessage("Saving...")
	return saveValuesCmd(path, n.registry.Values(), andThen)
}

func (n *Navigate) handleCommand(cmd []string) tea.Cmd {
	if len(cmd) == 0 {
		return nil
	}
	switch cmd[0] {
	case "q":
		return n.handleQuitCmd(cmd, false)
	case "q!":
		return n.handleQuitCmd(cmd, true)
	case "w":
		return n.handleSaveCmd(cmd, false)
	case "wq", "x":
		return n.handleSaveCmd(cmd, true)
	case "undo":
		n.undo()
	case "redo":
		n.redo()
	case "reset":
		return n.handleResetCmd(cmd)
	case "clear":
		n.tracker.Rebase()
		n.history.Clear()
		n.cmdLine.SetMessage("History cleared")
	case "limit":
		n.handleLimitCmd(cmd)
	case "history":
		n.cmdLine.SetMessage(n.historyStatus())
	default:
		n.cmdLine.SetMessage(fmt.Sprintf("Not a command: %s", cmd[0]))
	}
	return nil
}

func (n *Navigate) handleQuitCmd(cmd []string, force bool) tea.Cmd {
	if len(cmd) > 1 {
		n.cmdLine.SetMessage("Error: Too many arguments")
		return nil
	}
	n.tracker.Flush()
	if dirty := n.registry.Dirty(); !force && len(dirty) > 0 {
		n.cmdLine.SetMessage(fmt.Sprintf("%d unsaved changes (add ! to override)", len(dirty)))
		return nil
	}
	return func() tea.Msg { return clearClipboardAndQuitMsg{} }
}

func (n *Navigate) handleSaveCmd(cmd []string, quit bool) tea.Cmd {
	if len(cmd) > 2 {
		n.cmdLine.SetMessage("Error: Too many arguments")
		return nil
	}
	var andThen tea.Cmd
	if quit {
		andThen = func() tea.Msg { return clearClipboardAndQuitMsg{} }
	}
	path := ""
	if len(cmd) == 2 {
		path = cmd[1]
	}
	return n.save(path, andThen)
}

func (n *Navigate) handleResetCmd(cmd []string) tea.Cmd {
	if len(cmd) != 2 {
		n.cmdLine.SetMessage("Usage: reset section|panel|setting")
		return nil
	}
	n.tracker.Flush()
	var changed []string
	var name string
	switch cmd[1] {
	case "section":
		id := n.sections.FocusedID()
		changed = n.registry.ResetSection(id)
		name = fmt.Sprintf("Reset section '%s'", id)
	case "panel":
		id := n.panels.FocusedID()
		changed = n.registry.ResetPanel(id)
		name = fmt.Sprintf("Reset panel '%s'", id)
	case "setting":
		id := n.controls.FocusedID()
		if n.registry.ResetSetting(id) {
			changed = []string{id}
		}
		name = fmt.Sprintf("Reset setting '%s'", id)
	default:
		n.cmdLine.SetMessage(fmt.Sprintf("Cannot reset '%s'", cmd[1]))
		return nil
	}
	if len(changed) == 0 {
		n.cmdLine.SetMessage("Nothing to reset")
		return nil
	}
	n.tracker.FlushAs(name)
	n.updateControls()
	n.cmdLine.SetMessage(fmt.Sprintf("%s: %d settings", name, len(changed)))
	return nil
}

func (n *Navigate) handleLimitCmd(cmd []string) {
	if len(cmd) == 1 {
		n.cmdLine.SetMessage(fmt.Sprintf("limit=%d", n.history.Limit()))
		return
	}
	limit, err := strconv.Atoi(cmd[1])
	if err != nil || len(cmd) > 2 {
		n.cmdLine.SetMessage("Usage: limit N")
		return
	}
	n.history.SetLimit(limit)
	n.cmdLine.SetMessage(fmt.Sprintf("limit=%d", n.history.Limit()))
}

func (n *Navigate) historyStatus() string {
	limit := "unlimited"
	if n.history.Limit() > 0 {
		limit = strconv.Itoa(n.history.Limit())
	}
	return fmt.Sprintf("Change %d of %d (limit %s)", n.history.Cursor()+1, n.history.Len(), limit)
}

func (n *Navigate) handleSearch(query string) tea.Cmd {
	n.search = n.focusedTable().FindAll(query)
	n.searchColumn = n.focus
	if len(n.search) == 0 {
		n.cmdLine.SetMessage(fmt.Sprintf("Not found: %s", query))
		return nil
	}
	n.searchIndex = 0
	n.jumpToSearchResult()
	return nil
}

func (n *Navigate) nextSearchResult() {
	if len(n.search) == 0 || n.searchColumn != n.focus {
		return
	}
	n.searchIndex = (n.searchIndex + 1) % len(n.search)
	n.jumpToSearchResult()
}

func (n *Navigate) previousSearchResult() {
	if len(n.search) == 0 || n.searchColumn != n.focus {
		return
	}
	n.searchIndex = mod(n.searchIndex-1, len(n.search))
	n.jumpToSearchResult()
}

func (n *Navigate) jumpToSearchResult() {
	if !n.focusedTable().SetCursorToID(n.search[n.searchIndex]) {
		n.logger.Warn(nil, "search result vanished", "id", n.search[n.searchIndex])
		return
	}
	n.cursorMoved()
}

func (n Navigate) Init() tea.Cmd {
	return nil
}

func (n Navigate) Update(msg tea.Msg) (Navigate, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case clearClipboardMsg:
		clearClipboard()
		return n, nil
	case clearClipboardAndQuitMsg:
		clearClipboard()
		return n, tea.Quit
	case setCommandLineMessageMsg:
		n.cmdLine.SetMessage(msg.msg)
		return n, nil
	case settleMsg:
		if msg.seq == n.settleSeq {
			n.commit()
		}
		return n, nil
	case commandInputMsg:
		cmd = n.handleCommand(msg.cmd)
		return n, cmd
	case searchInputMsg:
		cmd = n.handleSearch(msg.query)
		return n, cmd
	case editInputMsg:
		cmd = n.change(msg.id, msg.value)
		return n, cmd
	case saveDoneMsg:
		if msg.path == n.valuesPath {
			n.registry.MarkSavedValues(msg.values)
			n.updateControls()
		}
		n.cmdLine.SetMessage(fmt.Sprintf("Saved to %s", msg.path))
		n.logger.Info("saved values", "path", msg.path)
		return n, msg.andThen
	case saveFailedMsg:
		n.cmdLine.SetMessage(fmt.Sprintf("Error while saving: %s", msg.err))
		n.logger.Error(msg.err, "could not save values")
		return n, nil
	case tea.WindowSizeMsg:
		n.windowWidth = msg.Width
		n.windowHeight = msg.Height
		n.resizeAll()
		return n, globalResizeCmd(msg.Width, msg.Height)
	case tea.KeyMsg:
		if n.cmdLine.IsInputActive() {
			// Key events should not be handled by Navigate in case the command line is active
			break
		}
		if handled, cmd := n.handleCtrlC(msg); handled {
			return n, cmd
		}
		if handled, cmd := n.handleKeyGlobal(msg); handled {
			return n, cmd
		}
		if handled, cmd := n.handleKeyCmdLineTrigger(msg); handled {
			return n, cmd
		}
		if n.focus == controlColumn {
			if handled, cmd := n.handleKeyControls(msg); handled {
				return n, cmd
			}
		}
		if handled, cmd := n.handleKeyDefault(msg); handled {
			return n, cmd
		}
	}

	if n.cmdLine.IsInputActive() {
		n.cmdLine, cmd = n.cmdLine.Update(msg)
		return n, cmd
	}
	focused := n.focusedTable()
	before := focused.FocusedID()
	*focused, cmd = focused.Update(msg)
	if focused.FocusedID() != before {
		n.cursorMoved()
	}
	return n, cmd
}

func (n *Navigate) handleCtrlC(msg tea.KeyMsg) (bool, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		n.cmdLine.SetMessage("Type  :q  and press <Enter> to exit customify")
		return true, nil
	}
	return false, nil
}

func (n *Navigate) handleKeyGlobal(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "u":
		n.undo()
		return true, nil
	case "ctrl+r":
		n.redo()
		return true, nil
	case "ctrl+s":
		return true, n.save("", nil)
	}
	return false, nil
}

// handleKeyControls handles keys acting on the focused setting
func (n *Navigate) handleKeyControls(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "enter":
		n.startEdit()
		return true, nil
	case " ":
		setting, ok := n.focusedSetting()
		if ok && (setting.Type == customizer.ControlCheckbox || setting.Type == customizer.ControlSelect) {
			return true, n.nudgeFocused(1)
		}
		return true, nil
	case "+", "right":
		return true, n.nudgeFocused(1)
	case "-", "left":
		return true, n.nudgeFocused(-1)
	case "d":
		return true, n.resetFocused()
	case "y":
		return true, n.copyToClipboard()
	}
	return false, nil
}

// handleKeyDefault handles navigation keys when no other component is focused
func (n *Navigate) handleKeyDefault(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "l", "enter":
		return true, n.moveRight()
	case "h", "esc":
		n.moveLeft()
		return true, nil
	case "n":
		n.nextSearchResult()
		return true, nil
	case "N":
		n.previousSearchResult()
		return true, nil
	}
	return false, nil
}

func (n *Navigate) handleKeyCmdLineTrigger(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case ":", "/":
		var cmd tea.Cmd
		n.cmdLine, cmd = n.cmdLine.Update(msg)
		return true, cmd
	}
	return false, nil
}

func (n Navigate) View() string {
	tables := lipgloss.JoinHorizontal(
		lipgloss.Top,
		tablePadding.Render(n.panels.View()),
		tablePadding.Render(n.sections.View()),
		n.controls.View(),
	)
	canSave := len(n.registry.Dirty()) > 0
	return lipgloss.JoinVertical(lipgloss.Left, tables, n.toolbar.View(canSave), n.cmdLine.View())
}
