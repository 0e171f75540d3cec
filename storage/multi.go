package storage

import (
	"sync"

	"github.com/parlex-ai/parlex/core"
)

// MultiStore lazily allocates one InMemoryStore per bot. It is the default
// storage provider for development and tests.
type MultiStore struct {
	mu   sync.Mutex
	bots map[string]*InMemoryStore
}

// NewMultiStore creates an empty multi-tenant store.
func NewMultiStore() *MultiStore {
	return &MultiStore{bots: make(map[string]*InMemoryStore)}
}

// Bot returns the bot's store, creating it on first use.
func (m *MultiStore) Bot(botID string) core.Storage {
	m.mu.Lock()
	defer m.mu.Unlock()
	store, ok := m.bots[botID]
	if !ok {
		store = NewInMemoryStore()
		m.bots[botID] = store
	}
	return store
}

// Provider returns a core.StorageProvider backed by this store.
func (m *MultiStore) Provider() core.StorageProvider {
	return func(botID string) (core.Storage, error) {
		return m.Bot(botID), nil
	}
}
