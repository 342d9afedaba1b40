package idempotency

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/taller-api/internal/application/ports"
)

var _ ports.IdempotencyStore = (*MemoryStore)(nil)

// MemoryStore claves en memoria para una sola instancia (y tests). Las vencidas se descartan al reclamar.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     ports.Clock
}

// NewMemoryStore construye el store. now nil = time.Now.
func NewMemoryStore(now ports.Clock) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{entries: make(map[string]time.Time), now: now}
}

// Claim true si la clave no existía o ya venció.
func (s *MemoryStore) Claim(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if exp, ok := s.entries[key]; ok && now.Before(exp) {
		return false, nil
	}
	s.entries[key] = now.Add(ttl)
	s.purge(now)
	return true, nil
}

// Release libera la clave.
func (s *MemoryStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) purge(now time.Time) {
	for k, exp := range s.entries {
		if !now.Before(exp) {
			delete(s.entries, k)
		}
	}
}
