// Package store keeps annotated batch workbooks until they are downloaded.
package store

import (
	"context"
	"sync"
	"time"

	"passenger-satisfaction-go/internal/apperrors"
)

// Store saves result bytes under an id for a limited time. Load returns
// apperrors.ErrResultNotFound for unknown or expired ids.
type Store interface {
	Save(ctx context.Context, id string, data []byte, ttl time.Duration) error
	Load(ctx context.Context, id string) ([]byte, error)
	Close() error
}

type memoryEntry struct {
	data    []byte
	expires time.Time
}

// Memory is a process-local Store, used when no Redis address is configured.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{entries: map[string]memoryEntry{}, now: time.Now}
}

func (m *Memory) Save(_ context.Context, id string, data []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweep()
	cp := make([]byte, len(data))
	copy(cp, data)
	m.entries[id] = memoryEntry{data: cp, expires: m.now().Add(ttl)}
	return nil
}

func (m *Memory) Load(_ context.Context, id string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok || !m.now().Before(e.expires) {
		delete(m.entries, id)
		return nil, apperrors.ErrResultNotFound
	}
	return e.data, nil
}

func (m *Memory) Close() error { return nil }

// sweep drops expired entries; callers hold mu.
func (m *Memory) sweep() {
	now := m.now()
	for id, e := range m.entries {
		if !now.Before(e.expires) {
			delete(m.entries, id)
		}
	}
}
