package engine

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps bot IDs to mounted engines. All methods are safe for
// concurrent use.
type Registry struct {
	mu      sync.RWMutex
	engines map[string]*Engine
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{engines: make(map[string]*Engine)}
}

// Mount registers the engine under its bot ID, replacing any previously
// mounted engine for that bot.
func (r *Registry) Mount(e *Engine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.engines[e.BotID()] = e
}

// Unmount removes the engine for the given bot. It returns an error if no
// engine is mounted.
func (r *Registry) Unmount(botID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.engines[botID]; !ok {
		return fmt.Errorf("no engine mounted for bot %q", botID)
	}
	delete(r.engines, botID)
	return nil
}

// Get returns the engine for the given bot.
func (r *Registry) Get(botID string) (*Engine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.engines[botID]
	if !ok {
		return nil, fmt.Errorf("no engine mounted for bot %q", botID)
	}
	return e, nil
}

// Len returns the number of mounted engines.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.engines)
}

// BotIDs returns the IDs of all mounted bots in sorted order.
func (r *Registry) BotIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.engines))
	for id := range r.engines {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
