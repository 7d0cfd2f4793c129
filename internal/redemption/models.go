package redemption

import (
	"time"

	"eventops/pkg/domain"
)

// UsageRecord is the immutable, append-only fact that a resource option was
// handed to a registration. Records are created exclusively by the recorder
// at scan time, never mutated, never deleted. They are the sole source of
// truth for statistics and duplicate detection.
//
// Invariant: for a (RegistrationID, OptionID) pair at most one record exists
// with Forced=false. Any number of Forced=true records may exist, each an
// explicit operator override.
type UsageRecord struct {
	ID             domain.RecordID       `json:"id"`
	EventID        domain.EventID        `json:"event_id"`
	RegistrationID domain.RegistrationID `json:"registration_id"`
	OptionID       domain.OptionID       `json:"option_id"`
	Type           domain.ResourceType   `json:"resource_type"`
	Timestamp      time.Time             `json:"timestamp"`
	ActorID        domain.ActorID        `json:"actor_id"`
	StationID      string                `json:"station_id,omitempty"`
	StationDevice  string                `json:"station_device,omitempty"`
	Forced         bool                  `json:"forced"`
}

// RecordStatus classifies the outcome of a record attempt.
type RecordStatus string

const (
	// StatusRecorded means a new record was written.
	StatusRecorded RecordStatus = "recorded"
	// StatusDuplicate means a non-forced attempt found an existing record.
	// This is the expected re-scan path, not a failure.
	StatusDuplicate RecordStatus = "duplicate"
)

// RecordResult is the recorder's answer. Existing is set only on duplicates.
type RecordResult struct {
	Status   RecordStatus `json:"status"`
	Record   *UsageRecord `json:"record,omitempty"`
	Existing *UsageRecord `json:"existing_record,omitempty"`
}

// Stats is the on-demand aggregate for one resource option.
type Stats struct {
	Count           int `json:"count"`
	Today           int `json:"today"`
	UniqueAttendees int `json:"unique_attendees"`
}
