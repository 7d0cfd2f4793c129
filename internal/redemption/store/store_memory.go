package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"eventops/internal/redemption"
	"eventops/pkg/domain"
	"eventops/pkg/platform/sentinel"
)

// MemoryStore implements Store with an in-memory append-only log guarded by a
// mutex, mirroring the postgres partial-unique-index semantics. Used by unit
// tests and local development; not distributed.
type MemoryStore struct {
	mu      sync.RWMutex
	records []*redemption.UsageRecord
	// nonForced indexes the at-most-one non-forced record per pair.
	nonForced map[pairKey]*redemption.UsageRecord
}

type pairKey struct {
	registrationID domain.RegistrationID
	optionID       domain.OptionID
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nonForced: make(map[pairKey]*redemption.UsageRecord)}
}

func (s *MemoryStore) Insert(ctx context.Context, rec *redemption.UsageRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey{rec.RegistrationID, rec.OptionID}
	if !rec.Forced {
		if _, exists := s.nonForced[key]; exists {
			return sentinel.ErrConflict
		}
		s.nonForced[key] = rec
	}
	s.records = append(s.records, rec)
	return nil
}

func (s *MemoryStore) FindNonForced(ctx context.Context, registrationID domain.RegistrationID, optionID domain.OptionID) (*redemption.UsageRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.nonForced[pairKey{registrationID, optionID}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return rec, nil
}

func (s *MemoryStore) ListByOption(ctx context.Context, eventID domain.EventID, optionID domain.OptionID) ([]*redemption.UsageRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*redemption.UsageRecord
	for _, rec := range s.records {
		if rec.EventID == eventID && rec.OptionID == optionID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (s *MemoryStore) Aggregate(ctx context.Context, eventID domain.EventID, optionID domain.OptionID, todayStart time.Time) (*redemption.Stats, error) {
	records, err := s.ListByOption(ctx, eventID, optionID)
	if err != nil {
		return nil, err
	}
	stats := &redemption.Stats{}
	attendees := make(map[domain.RegistrationID]struct{})
	for _, rec := range records {
		stats.Count++
		if !rec.Timestamp.Before(todayStart) {
			stats.Today++
		}
		attendees[rec.RegistrationID] = struct{}{}
	}
	stats.UniqueAttendees = len(attendees)
	return stats, nil
}
