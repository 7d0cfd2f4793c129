package audit

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"eventops/pkg/requestcontext"
)

// Publisher hands audit events to the background worker. Emit never blocks
// the scan pipeline: if the inbox is full the event is dropped and counted in
// the log. Audit is an observability trail; usage records remain the
// authoritative facts either way.
type Publisher struct {
	inbox  chan<- Event
	logger *slog.Logger
}

func NewPublisher(inbox chan<- Event, logger *slog.Logger) *Publisher {
	return &Publisher{inbox: inbox, logger: logger}
}

// Emit stamps identity fields from context and enqueues the event.
func (p *Publisher) Emit(ctx context.Context, event Event) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.ActorID.IsNil() {
		event.ActorID = requestcontext.ActorID(ctx)
	}
	if event.StationID == "" {
		event.StationID = requestcontext.StationID(ctx)
	}
	if event.StationDevice == "" {
		event.StationDevice = requestcontext.StationDevice(ctx)
	}

	select {
	case p.inbox <- event:
	default:
		p.logger.Warn("audit inbox full, event dropped",
			"action", string(event.Action),
			"registration_id", event.RegistrationID.String(),
		)
	}
}
