package memory

import (
	"context"
	"sync"

	"formledger/pkg/platform/audit"
)

// InMemoryStore keeps audit events in process memory for tests and single-node
// deployments.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []audit.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// List returns a snapshot of all recorded events in append order.
func (s *InMemoryStore) List() []audit.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event(nil), s.events...)
}

// ListByActor returns events recorded for one actor, in append order.
func (s *InMemoryStore) ListByActor(actor string) []audit.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []audit.Event
	for _, e := range s.events {
		if e.Actor == actor {
			out = append(out, e)
		}
	}
	return out
}
