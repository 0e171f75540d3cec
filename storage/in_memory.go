package storage

import (
	"context"
	"sync"

	"github.com/parlex-ai/parlex/core"
)

// InMemoryStore is a trivial in-process Storage implementation useful for
// tests, examples and single-process prototypes. Definitions and model
// artifacts live in maps guarded by an RWMutex; artifact bytes are copied on
// save and retrieval to avoid accidental external mutation of internal
// buffers.
//
// This implementation is intentionally minimal; it does not enforce retention
// limits or persist anything across restarts. For production, prefer the
// SQLite or Redis stores.
type InMemoryStore struct {
	mu       sync.RWMutex
	intents  map[string]core.IntentDefinition
	order    []string
	entities map[string]core.EntityDefinition
	models   map[string][]byte // artifact name -> raw bytes
}

var _ core.Storage = (*InMemoryStore)(nil)

// NewInMemoryStore returns an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		intents:  make(map[string]core.IntentDefinition),
		entities: make(map[string]core.EntityDefinition),
		models:   make(map[string][]byte),
	}
}

// Intents returns all intent definitions in authoring order.
func (s *InMemoryStore) Intents(context.Context) ([]core.IntentDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.IntentDefinition, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.intents[name])
	}
	return out, nil
}

// Intent returns one definition by name or ErrNotFound.
func (s *InMemoryStore) Intent(_ context.Context, name string) (core.IntentDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	in, ok := s.intents[name]
	if !ok {
		return core.IntentDefinition{}, ErrNotFound
	}
	return in, nil
}

// CustomEntities returns all custom entity definitions.
func (s *InMemoryStore) CustomEntities(context.Context) ([]core.EntityDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.EntityDefinition, 0, len(s.entities))
	for _, def := range s.entities {
		out = append(out, def)
	}
	return out, nil
}

// ModelExists reports whether an artifact for the fingerprint is stored.
func (s *InMemoryStore) ModelExists(_ context.Context, fingerprint string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for name := range s.models {
		if matchesFingerprint(name, fingerprint) {
			return true, nil
		}
	}
	return false, nil
}

// ModelBuffer returns a copy of the newest artifact for the fingerprint or
// ErrNotFound.
func (s *InMemoryStore) ModelBuffer(_ context.Context, fingerprint string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var best string
	for name := range s.models {
		if matchesFingerprint(name, fingerprint) && (best == "" || newer(name, best)) {
			best = name
		}
	}
	if best == "" {
		return nil, ErrNotFound
	}
	data := s.models[best]
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

// PersistModel stores (never overwrites) an artifact under the given name.
func (s *InMemoryStore) PersistModel(_ context.Context, data []byte, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	s.models[name] = cp
	return nil
}

// SaveIntent stores (or overwrites) an intent definition.
func (s *InMemoryStore) SaveIntent(_ context.Context, intent core.IntentDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.intents[intent.Name]; !exists {
		s.order = append(s.order, intent.Name)
	}
	s.intents[intent.Name] = intent
	return nil
}

// DeleteIntent removes an intent definition or returns ErrNotFound.
func (s *InMemoryStore) DeleteIntent(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.intents[name]; !exists {
		return ErrNotFound
	}
	delete(s.intents, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// SaveCustomEntity stores (or overwrites) a custom entity definition.
func (s *InMemoryStore) SaveCustomEntity(_ context.Context, def core.EntityDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entities[def.Name] = def
	return nil
}
