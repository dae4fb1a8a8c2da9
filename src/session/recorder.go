package session

import (
	"github.com/pixelgrade/customify/src/logging"
	"github.com/pixelgrade/customify/src/undo"
)

// Recorder writes the undo log whenever the history changes. Call Record
// from the history callback.
type Recorder struct {
	storage Storage
	history *undo.Manager
	logger  *logging.Logger
}

func NewRecorder(storage Storage, history *undo.Manager, logger *logging.Logger) *Recorder {
	return &Recorder{storage: storage, history: history, logger: logger}
}

// Record stores a snapshot of the history. Storage errors are logged and
// otherwise ignored.
func (r *Recorder) Record() {
	log := Snapshot(r.history)
	if err := SaveUndoLog(r.storage, log); err != nil {
		r.logger.Warn(err, "could not write undo log")
		return
	}
	r.logger.Debug("recorded undo log", "steps", len(log.Steps)-1, "current_step", log.CurrentStep)
}
