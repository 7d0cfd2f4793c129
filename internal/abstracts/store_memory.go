package abstracts

import (
	"context"
	"sort"
	"sync"

	"eventops/pkg/domain"
	"eventops/pkg/platform/sentinel"
)

// MemoryStore is an in-memory abstract lookup for tests and local development.
type MemoryStore struct {
	mu        sync.RWMutex
	abstracts []*Abstract
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Add seeds an abstract.
func (s *MemoryStore) Add(a *Abstract) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.abstracts = append(s.abstracts, a)
}

func (s *MemoryStore) ListApproved(ctx context.Context, eventID domain.EventID, registrationID domain.RegistrationID) ([]*Abstract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Abstract
	for _, a := range s.abstracts {
		if a.EventID == eventID && a.RegistrationID == registrationID && a.Status == StatusApproved {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (s *MemoryStore) FindApproved(ctx context.Context, eventID domain.EventID, abstractID domain.AbstractID) (*Abstract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.abstracts {
		if a.EventID == eventID && a.ID == abstractID && a.Status == StatusApproved {
			return a, nil
		}
	}
	return nil, sentinel.ErrNotFound
}
