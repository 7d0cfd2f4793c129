package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"eventops/pkg/domain"
)

// Action enumerates the auditable facts of the redemption pipeline.
type Action string

const (
	ActionUsageRecorded     Action = "usage_recorded"
	ActionForcedReissue     Action = "forced_reissue"
	ActionDuplicateDetected Action = "duplicate_detected"
	ActionIssuanceBlocked   Action = "issuance_blocked"
	ActionDocumentGenerated Action = "document_generated"
)

// Event is one append-only audit fact. Usage records are the source of truth
// for statistics; audit events add operator context (who, from where) and
// cover outcomes that write no record (duplicates, blocked issuance).
type Event struct {
	ID             uuid.UUID             `json:"id"`
	Action         Action                `json:"action"`
	EventID        domain.EventID        `json:"event_id"`
	RegistrationID domain.RegistrationID `json:"registration_id"`
	OptionID       domain.OptionID       `json:"option_id,omitempty"`
	RecordID       string                `json:"record_id,omitempty"`
	ActorID        domain.ActorID        `json:"actor_id"`
	StationID      string                `json:"station_id,omitempty"`
	StationDevice  string                `json:"station_device,omitempty"`
	Timestamp      time.Time             `json:"timestamp"`
	Detail         string                `json:"detail,omitempty"`
}

// Store persists audit events. It is append-only; there is no delete.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByRegistration(ctx context.Context, registrationID domain.RegistrationID) ([]Event, error)
}
