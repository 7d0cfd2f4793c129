package audit

import (
	"context"
	"log/slog"
)

// Mirror forwards persisted events to an external stream. Best effort: a
// failed mirror is logged, never retried here, and never fails the append.
type Mirror interface {
	Publish(ctx context.Context, event Event) error
}

// Worker consumes audit events from a channel and persists them, optionally
// mirroring to Kafka. It keeps background processing off the scan path.
type Worker struct {
	store  Store
	mirror Mirror // nil when Kafka is not configured
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(store Store, mirror Mirror, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{store: store, mirror: mirror, inbox: inbox, logger: logger}
}

// Run processes events until ctx is cancelled or the inbox is closed.
// Closing the inbox is the graceful path: buffered events are drained before
// Run returns. Store failures are logged and skipped; the worker must
// outlive any single bad event.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.inbox:
			if !ok {
				return nil
			}
			if err := w.store.Append(ctx, event); err != nil {
				w.logger.Error("audit append failed",
					"action", string(event.Action),
					"error", err.Error(),
				)
				continue
			}
			if w.mirror != nil {
				if err := w.mirror.Publish(ctx, event); err != nil {
					w.logger.Warn("audit mirror publish failed",
						"action", string(event.Action),
						"error", err.Error(),
					)
				}
			}
		}
	}
}
