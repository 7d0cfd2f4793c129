package certificate

import (
	"context"
	"sync"

	"eventops/pkg/domain"
	"eventops/pkg/platform/sentinel"
)

// MemoryStore is an in-memory template lookup for tests and local development.
type MemoryStore struct {
	mu        sync.RWMutex
	templates map[domain.TemplateID]*Template
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{templates: make(map[domain.TemplateID]*Template)}
}

// Add seeds a template.
func (s *MemoryStore) Add(t *Template) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates[t.ID] = t
}

func (s *MemoryStore) FindTemplate(ctx context.Context, eventID domain.EventID, templateID domain.TemplateID) (*Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.templates[templateID]
	if !ok || t.EventID != eventID {
		return nil, sentinel.ErrNotFound
	}
	return t, nil
}
