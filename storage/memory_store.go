package storage

import (
	"context"
	"sync"

	"github.com/uyouii/littlesprout/model"
)

// MemoryStore keeps the encoded blob in memory, so Load always returns a
// fresh copy just like the persistent backends.
type MemoryStore struct {
	mu   sync.Mutex
	Data []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(ctx context.Context) (*model.AppState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return decodeState(ctx, m.Data), nil
}

func (m *MemoryStore) Save(ctx context.Context, state *model.AppState) error {
	data, err := encodeState(state)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.Data = data
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	m.Data = nil
	m.mu.Unlock()
	return nil
}
