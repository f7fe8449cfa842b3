package store

import "sync"

// MemoryBackend is a concurrency-safe in-memory Backend. It keeps a private
// copy of the ledger so callers cannot mutate stored state.
type MemoryBackend struct {
	mu    sync.RWMutex
	data  Tallies
	saves int
}

// NewMemoryBackend creates an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(Tallies)}
}

func (m *MemoryBackend) Load() (Tallies, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyTallies(m.data), nil
}

func (m *MemoryBackend) Save(t Tallies) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = copyTallies(t)
	m.saves++
	return nil
}

// Saves reports how many times the ledger has been persisted.
func (m *MemoryBackend) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

func copyTallies(t Tallies) Tallies {
	out := make(Tallies, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}
