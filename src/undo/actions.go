package undo

import "fmt"

// Setter writes a named value. It reports whether the stored value changed.
type Setter interface {
	Set(id, value string) bool
}

// Step describes a single value change.
type Step struct {
	ID       string `json:"id"`
	OldValue string `json:"old_value"`
	NewValue string `json:"new_value"`
}

// SetValue changes one setting between two values.
type SetValue struct {
	target Setter
	step   Step
}

// NewSetValue creates the command for a change already applied to target.
// Without a target the command records its step but does nothing.
func NewSetValue(target Setter, id, oldValue, newValue string) SetValue {
	return SetValue{target: target, step: Step{ID: id, OldValue: oldValue, NewValue: newValue}}
}

func (a SetValue) Undo() {
	if a.target == nil {
		return
	}
	a.target.Set(a.step.ID, a.step.OldValue)
}

func (a SetValue) Redo() {
	if a.target == nil {
		return
	}
	a.target.Set(a.step.ID, a.step.NewValue)
}

func (a SetValue) Steps() []Step {
	return []Step{a.step}
}

func (a SetValue) Description() string {
	return fmt.Sprintf("Change '%s' from '%s' to '%s'", a.step.ID, a.step.OldValue, a.step.NewValue)
}

// Batch groups commands into one history entry. Undo runs in reverse order.
type Batch struct {
	Name     string
	Commands []Command
}

func NewBatch(name string, commands ...Command) Batch {
	return Batch{Name: name, Commands: commands}
}

func (b Batch) Undo() {
	for i := len(b.Commands) - 1; i >= 0; i-- {
		b.Commands[i].Undo()
	}
}

func (b Batch) Redo() {
	for _, command := range b.Commands {
		command.Redo()
	}
}

// Steps flattens the steps of all grouped commands that record any.
func (b Batch) Steps() []Step {
	steps := []Step{}
	for _, command := range b.Commands {
		if s, ok := command.(Stepper); ok {
			steps = append(steps, s.Steps()...)
		}
	}
	return steps
}

func (b Batch) Description() string {
	if len(b.Name) > 0 {
		return b.Name
	}
	return fmt.Sprintf("%d changes", len(b.Commands))
}

// Stepper is implemented by commands that can describe themselves as value changes.
type Stepper interface {
	Steps() []Step
}

// Describer is implemented by commands with a human readable description.
type Describer interface {
	Description() string
}
