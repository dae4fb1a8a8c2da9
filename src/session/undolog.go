package session

import (
	"encoding/json"
	"fmt"

	"github.com/pixelgrade/customify/src/logging"
	"github.com/pixelgrade/customify/src/undo"
)

const UndoLogKey = "customify_undo_manager"

// seedStepID marks the placeholder at index 0 of every log
const seedStepID = "0"

// UndoLog is the persisted mirror of the history. Steps[0] is a seed entry,
// so CurrentStep is the number of steps in effect.
type UndoLog struct {
	CurrentStep int         `json:"current_step"`
	Steps       []undo.Step `json:"steps"`
}

func NewUndoLog() *UndoLog {
	return &UndoLog{CurrentStep: 0, Steps: []undo.Step{{ID: seedStepID}}}
}

func (l *UndoLog) valid() bool {
	return len(l.Steps) > 0 && l.CurrentStep >= 0 && l.CurrentStep < len(l.Steps)
}

// Recorded returns the steps without the seed entry
func (l *UndoLog) Recorded() []undo.Step {
	return l.Steps[1:]
}

// LoadUndoLog reads the log from storage. A missing, unreadable or
// malformed log is replaced by a fresh one, which is written back.
func LoadUndoLog(storage Storage, logger *logging.Logger) *UndoLog {
	raw, found, err := storage.Get(UndoLogKey)
	if err != nil {
		logger.Warn(err, "session storage unavailable, starting a fresh undo log")
		return NewUndoLog()
	}
	if found {
		log := &UndoLog{}
		err := json.Unmarshal([]byte(raw), log)
		if err == nil && log.valid() {
			return log
		}
		if err == nil {
			err = fmt.Errorf("current step %d out of range for %d steps", log.CurrentStep, len(log.Steps))
		}
		logger.Warn(err, "discarding malformed undo log")
	}
	log := NewUndoLog()
	if err := SaveUndoLog(storage, log); err != nil {
		logger.Warn(err, "could not write undo log")
	}
	return log
}

func SaveUndoLog(storage Storage, log *UndoLog) error {
	encoded, err := json.Marshal(log)
	if err != nil {
		return err
	}
	return storage.Set(UndoLogKey, string(encoded))
}

// Snapshot builds the log that mirrors the given history. Commands that do
// not describe themselves as steps are left out.
func Snapshot(history *undo.Manager) *UndoLog {
	log := NewUndoLog()
	for i, command := range history.Commands() {
		stepper, ok := command.(undo.Stepper)
		if !ok {
			continue
		}
		steps := stepper.Steps()
		log.Steps = append(log.Steps, steps...)
		if i <= history.Cursor() {
			log.CurrentStep += len(steps)
		}
	}
	return log
}
