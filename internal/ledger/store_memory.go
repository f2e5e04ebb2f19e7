package ledger

import (
	"context"
	"sync"

	"formledger/pkg/platform/sentinel"
)

// MemoryStore keeps records in process memory. It favors clarity over
// performance and backs unit tests and single-node deployments.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[Address][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[Address][]byte)}
}

func (s *MemoryStore) Create(_ context.Context, addr Address, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[addr]; ok {
		return sentinel.ErrConflict
	}
	s.records[addr] = append([]byte(nil), payload...)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, addr Address) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	payload, ok := s.records[addr]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return append([]byte(nil), payload...), nil
}

func (s *MemoryStore) Put(_ context.Context, addr Address, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[addr]; !ok {
		return sentinel.ErrNotFound
	}
	s.records[addr] = append([]byte(nil), payload...)
	return nil
}
