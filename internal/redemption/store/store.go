// Package store persists usage records. The postgres implementation is the
// production one: its partial unique index is the single place in the system
// where concurrent identical scans are serialized.
package store

import (
	"context"
	"time"

	"eventops/internal/redemption"
	"eventops/pkg/domain"
)

// Store is the usage-record persistence contract.
//
// Insert must be atomic: a non-forced insert that collides with an existing
// non-forced record for the same (registration, option) pair returns
// sentinel.ErrConflict and writes nothing. Forced inserts always append.
type Store interface {
	Insert(ctx context.Context, rec *redemption.UsageRecord) error
	// FindNonForced returns the single non-forced record for the pair, or
	// sentinel.ErrNotFound.
	FindNonForced(ctx context.Context, registrationID domain.RegistrationID, optionID domain.OptionID) (*redemption.UsageRecord, error)
	// ListByOption returns every record for an option within an event,
	// forced and non-forced alike, ordered by timestamp.
	ListByOption(ctx context.Context, eventID domain.EventID, optionID domain.OptionID) ([]*redemption.UsageRecord, error)
	// Aggregate computes option statistics in the store. todayStart bounds
	// the "today" bucket (local midnight in the event timezone).
	Aggregate(ctx context.Context, eventID domain.EventID, optionID domain.OptionID, todayStart time.Time) (*redemption.Stats, error)
}
