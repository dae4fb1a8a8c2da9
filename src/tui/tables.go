package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	EMPTY_PLACEH = "(Empty)"
	DIRTY_MARK   = "*"
)

type listItem struct {
	id     string
	cells  []string
	search string
}

// listTable is a bubbles table whose rows are identified by an ID. It shows
// either a single title column or a label and a value column.
type listTable struct {
	model         table.Model
	stylesFocused table.Styles
	stylesBlurred table.Styles
	stylesEmpty   table.Styles
	valueColumn   bool

	items []listItem
}

func newListTable(stylesFocused, stylesBlurred table.Styles, valueColumn bool) listTable {
	stylesEmpty := stylesBlurred
	stylesEmpty.Selected = stylesFocused.Selected.
		Foreground(stylesFocused.Cell.GetForeground()).
		Bold(false)
	return listTable{
		model:         table.New(table.WithStyles(stylesBlurred)),
		stylesFocused: stylesFocused,
		stylesBlurred: stylesBlurred,
		stylesEmpty:   stylesEmpty,
		valueColumn:   valueColumn,
	}
}

func (t *listTable) Resize(width, height int) {
	t.model.SetWidth(width)
	t.model.SetHeight(height)
	frameWidth, _ := t.stylesFocused.Header.GetFrameSize()
	if !t.valueColumn {
		t.model.SetColumns([]table.Column{
			{Title: "Name", Width: width - frameWidth},
		})
		return
	}
	firstColWidth := (width - frameWidth) * 4 / 10
	secondColWidth := width - firstColWidth - 2*frameWidth
	t.model.SetColumns([]table.Column{
		// Headers are truncated, titles are never shown
		{Title: "Label", Width: firstColWidth},
		{Title: "Value", Width: secondColWidth},
	})
}

func (t *listTable) emptyRow() table.Row {
	if t.valueColumn {
		return table.Row{EMPTY_PLACEH, ""}
	}
	return table.Row{EMPTY_PLACEH}
}

func (t *listTable) Clear() {
	// An empty row keeps truncateHeader working
	t.items = nil
	t.model.SetRows([]table.Row{t.emptyRow()})
	t.model.SetStyles(t.stylesEmpty)
}

// SetItems replaces the rows, keeping the cursor on selected if present
func (t *listTable) SetItems(items []listItem, selected string) {
	if len(items) == 0 {
		t.Clear()
		return
	}
	t.items = items
	rows := make([]table.Row, 0, len(items))
	cursor := 0
	for i, item := range items {
		rows = append(rows, table.Row(item.cells))
		if item.id == selected {
			cursor = i
		}
	}
	t.model.SetRows(rows)
	t.model.SetCursor(cursor)
	t.applyStyles()
	tableFocusCursor(&t.model)
}

func (t *listTable) FocusedID() string {
	if len(t.items) == 0 {
		return ""
	}
	return t.items[t.model.Cursor()].id
}

func (t *listTable) SetCursorToID(id string) bool {
	for i, item := range t.items {
		if item.id == id {
			t.model.SetCursor(i)
			tableFocusCursor(&t.model)
			return true
		}
	}
	return false
}

// FindAll returns the IDs of rows whose search text contains query,
// ignoring case
func (t *listTable) FindAll(query string) []string {
	query = strings.ToLower(query)
	found := []string{}
	for _, item := range t.items {
		if strings.Contains(strings.ToLower(item.search), query) {
			found = append(found, item.id)
		}
	}
	return found
}

func (t listTable) Update(msg tea.Msg) (listTable, tea.Cmd) {
	var cmd tea.Cmd
	t.model, cmd = t.model.Update(msg)
	return t, cmd
}

func (t *listTable) Focus() {
	t.model.Focus()
	t.applyStyles()
}

func (t *listTable) Blur() {
	t.model.Blur()
	t.applyStyles()
}

func (t *listTable) Focused() bool {
	return t.model.Focused()
}

func (t *listTable) applyStyles() {
	switch {
	case len(t.items) == 0:
		t.model.SetStyles(t.stylesEmpty)
	case t.model.Focused():
		t.model.SetStyles(t.stylesFocused)
	default:
		t.model.SetStyles(t.stylesBlurred)
	}
}

func (t listTable) View() string {
	return truncateHeader(t.model.View())
}

// truncateHeader removes the header of a bubbles table by
// deleting everything up to (and including) the first newline
func truncateHeader(s string) string {
	split := strings.SplitN(s, "\n", 2)
	if len(split) < 2 {
		return split[0]
	}
	return split[1]
}

var (
	toolbarStyle  = lipgloss.NewStyle().Bold(true)
	disabledStyle = lipgloss.NewStyle().Faint(true)
)

// toolbar mirrors the state of the history. It is shared by pointer, so the
// history callback can refresh it outside of Update.
type toolbar struct {
	canUndo bool
	canRedo bool
	cursor  int
	size    int
}

type historyState interface {
	HasUndo() bool
	HasRedo() bool
	Cursor() int
	Len() int
}

func (tb *toolbar) refresh(h historyState) {
	tb.canUndo = h.HasUndo()
	tb.canRedo = h.HasRedo()
	tb.cursor = h.Cursor()
	tb.size = h.Len()
}

func (tb *toolbar) View(canSave bool) string {
	button := func(label string, enabled bool) string {
		if enabled {
			return toolbarStyle.Render(label)
		}
		return disabledStyle.Render(label)
	}
	return strings.Join([]string{
		button("[u] undo", tb.canUndo),
		button("[ctrl+r] redo", tb.canRedo),
		button("[ctrl+s] save", canSave),
	}, "  ")
}
