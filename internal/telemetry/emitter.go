// Package telemetry records agent fault events to storage.
package telemetry

import (
	"context"
	"time"

	"github.com/louisbranch/liarsdice/internal/storage"
)

// Emitter records operational fault events.
type Emitter struct {
	store storage.FaultStore
	clock func() time.Time
	runID string
}

// NewEmitter creates a new fault emitter tagging events with runID.
func NewEmitter(store storage.FaultStore, runID string) *Emitter {
	return &Emitter{store: store, clock: time.Now, runID: runID}
}

// Emit records a fault event. It is a no-op when the store is nil.
func (e *Emitter) Emit(ctx context.Context, evt storage.FaultEvent) error {
	if e == nil || e.store == nil {
		return nil
	}
	if evt.Timestamp.IsZero() {
		if e.clock == nil {
			evt.Timestamp = time.Now().UTC()
		} else {
			evt.Timestamp = e.clock().UTC()
		}
	}
	if evt.RunID == "" {
		evt.RunID = e.runID
	}
	return e.store.AppendFaultEvent(ctx, evt)
}
