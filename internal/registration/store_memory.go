package registration

import (
	"context"
	"sync"

	"eventops/pkg/domain"
	"eventops/pkg/platform/sentinel"
)

// MemoryStore is an in-memory registration lookup for tests and local
// development. Production uses PostgresStore.
type MemoryStore struct {
	mu     sync.RWMutex
	byCode map[string]*Registration
	byID   map[domain.RegistrationID]*Registration
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byCode: make(map[string]*Registration),
		byID:   make(map[domain.RegistrationID]*Registration),
	}
}

// Add seeds a registration. Later adds with the same code overwrite.
func (s *MemoryStore) Add(reg *Registration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byCode[codeKey(reg.EventID, reg.Code)] = reg
	s.byID[reg.ID] = reg
}

func (s *MemoryStore) FindByCode(ctx context.Context, eventID domain.EventID, code string) (*Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reg, ok := s.byCode[codeKey(eventID, code)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return reg, nil
}

func (s *MemoryStore) FindByID(ctx context.Context, eventID domain.EventID, regID domain.RegistrationID) (*Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reg, ok := s.byID[regID]
	if !ok || reg.EventID != eventID {
		return nil, sentinel.ErrNotFound
	}
	return reg, nil
}

func codeKey(eventID domain.EventID, code string) string {
	return eventID.String() + ":" + code
}
