package undo

// Command is a reversible action. The manager only ever calls these two
// methods and never looks at anything else a command carries.
type Command interface {
	Undo()
	Redo()
}

type Manager struct {
	commands []Command
	// cursor is the index of the last applied command, -1 if none is applied
	cursor int
	// limit <= 0 means the history is unbounded
	limit     int
	executing bool
	callback  func()
}

func NewManager() *Manager {
	return &Manager{
		commands: []Command{},
		cursor:   -1,
	}
}

// Add pushes a command that has already been applied by the caller.
// Anything after the cursor is discarded. Calls made while a command of this
// manager is running are ignored.
func (m *Manager) Add(command Command) *Manager {
	if m.executing {
		return m
	}
	m.commands = append(m.commands[:m.cursor+1], command)

	if m.limit > 0 && len(m.commands) > m.limit {
		excess := len(m.commands) - m.limit
		// Copy instead of reslicing so evicted commands can be collected
		m.commands = append([]Command{}, m.commands[excess:]...)
	}

	m.cursor = len(m.commands) - 1
	m.notify()
	return m
}

func (m *Manager) Undo() *Manager {
	command := m.at(m.cursor)
	if command == nil {
		return m
	}
	m.execute(command.Undo)
	m.cursor--
	m.notify()
	return m
}

func (m *Manager) Redo() *Manager {
	command := m.at(m.cursor + 1)
	if command == nil {
		return m
	}
	m.execute(command.Redo)
	m.cursor++
	m.notify()
	return m
}

// Clear drops all commands. The callback only fires if there was anything to drop.
func (m *Manager) Clear() {
	prevSize := len(m.commands)

	m.commands = []Command{}
	m.cursor = -1

	if prevSize > 0 {
		m.notify()
	}
}

func (m *Manager) HasUndo() bool {
	return m.cursor != -1
}

func (m *Manager) HasRedo() bool {
	return m.cursor < len(m.commands)-1
}

// SetLimit sets the capacity used by future calls to Add. Values <= 0 mean
// no limit. The current history is not trimmed.
func (m *Manager) SetLimit(limit int) {
	if limit < 0 {
		limit = 0
	}
	m.limit = limit
}

func (m *Manager) Limit() int {
	return m.limit
}

// SetCallback registers the single change observer, replacing any previous one.
func (m *Manager) SetCallback(callback func()) {
	m.callback = callback
}

// Commands returns the live history. Callers must not modify it.
func (m *Manager) Commands() []Command {
	return m.commands
}

func (m *Manager) Len() int {
	return len(m.commands)
}

func (m *Manager) Cursor() int {
	return m.cursor
}

// Executing reports whether a command's Undo or Redo is currently running.
func (m *Manager) Executing() bool {
	return m.executing
}

func (m *Manager) at(index int) Command {
	if index < 0 || index >= len(m.commands) {
		return nil
	}
	return m.commands[index]
}

func (m *Manager) execute(action func()) {
	m.executing = true
	defer func() { m.executing = false }()
	action()
}

func (m *Manager) notify() {
	if m.callback != nil {
		m.callback()
	}
}
