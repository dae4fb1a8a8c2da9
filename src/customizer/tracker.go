package customizer

import (
	"github.com/pixelgrade/customify/src/logging"
	"github.com/pixelgrade/customify/src/undo"
)

// Tracker records registry changes and commits them to the history once the
// caller decides they have settled. Changes made by the history itself
// (undo and redo writing through the registry) only move the baseline.
type Tracker struct {
	registry *Registry
	history  *undo.Manager
	logger   *logging.Logger

	// baseline holds the last committed value of every setting
	baseline  map[string]string
	pending   []string
	suspended bool
}

func NewTracker(registry *Registry, history *undo.Manager, logger *logging.Logger) *Tracker {
	t := &Tracker{
		registry: registry,
		history:  history,
		logger:   logger,
		baseline: registry.Values(),
	}
	registry.Bind(t.observe)
	return t
}

func (t *Tracker) observe(id, value string) {
	if t.suspended || t.history.Executing() {
		t.baseline[id] = value
		return
	}
	for _, p := range t.pending {
		if p == id {
			return
		}
	}
	t.pending = append(t.pending, id)
}

func (t *Tracker) Pending() bool {
	return len(t.pending) > 0
}

// Flush commits pending changes as one history entry
func (t *Tracker) Flush() bool {
	return t.FlushAs("")
}

// FlushAs commits pending changes. Several changes become a single batch
// named name. Settings that ended up back at their baseline are dropped.
func (t *Tracker) FlushAs(name string) bool {
	if len(t.pending) == 0 {
		return false
	}
	commands := make([]undo.Command, 0, len(t.pending))
	for _, id := range t.pending {
		current, _ := t.registry.Value(id)
		old := t.baseline[id]
		if old == current {
			continue
		}
		commands = append(commands, undo.NewSetValue(t.registry, id, old, current))
		t.baseline[id] = current
	}
	t.pending = nil

	switch len(commands) {
	case 0:
		return false
	case 1:
		t.history.Add(commands[0])
	default:
		t.history.Add(undo.NewBatch(name, commands...))
	}
	t.logger.Debug("committed change", "commands", len(commands), "cursor", t.history.Cursor())
	return true
}

// Undo commits anything pending before stepping back
func (t *Tracker) Undo() {
	t.Flush()
	t.history.Undo()
}

func (t *Tracker) Redo() {
	t.Flush()
	t.history.Redo()
}

// Rebase drops pending changes and takes the current values as the baseline
func (t *Tracker) Rebase() {
	t.pending = nil
	t.baseline = t.registry.Values()
}

// Restore rebuilds the history from recorded steps, of which the first
// applied are in effect. Steps for unknown settings are dropped. All steps
// are replayed forward, then undone back to the recorded position, so the
// registry ends up holding the values of that position.
func (t *Tracker) Restore(steps []undo.Step, applied int) int {
	t.suspended = true
	defer func() { t.suspended = false }()

	// Replay unbounded so no step is evicted before the rewind. Restoring the
	// limit afterwards does not trim.
	limit := t.history.Limit()
	t.history.SetLimit(0)
	defer t.history.SetLimit(limit)

	t.pending = nil
	t.history.Clear()

	restored, inEffect := 0, 0
	for i, step := range steps {
		if _, ok := t.registry.Setting(step.ID); !ok {
			t.logger.Warn(nil, "dropping step for unknown setting", "id", step.ID)
			continue
		}
		t.registry.Set(step.ID, step.NewValue)
		t.history.Add(undo.NewSetValue(t.registry, step.ID, step.OldValue, step.NewValue))
		restored++
		if i < applied {
			inEffect++
		}
	}
	for i := 0; i < restored-inEffect; i++ {
		t.history.Undo()
	}
	t.logger.Info("restored history", "steps", restored, "cursor", t.history.Cursor())
	return restored
}
