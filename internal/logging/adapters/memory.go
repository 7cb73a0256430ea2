package adapters

import (
	"sync"

	"resume-tailor/internal/logging/types"
)

// MemoryAdapter keeps entries in memory, newest last. Used by tests and the
// status endpoint's recent-error view.
type MemoryAdapter struct {
	name    string
	limit   int
	entries []types.LogEntry
	mu      sync.Mutex
}

// NewMemoryAdapter keeps at most limit entries (0 keeps everything)
func NewMemoryAdapter(name string, limit int) *MemoryAdapter {
	return &MemoryAdapter{name: name, limit: limit}
}

func (a *MemoryAdapter) Write(entry *types.LogEntry) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.entries = append(a.entries, *entry)
	if a.limit > 0 && len(a.entries) > a.limit {
		a.entries = a.entries[len(a.entries)-a.limit:]
	}
	return nil
}

// Entries returns a copy of the retained entries
func (a *MemoryAdapter) Entries() []types.LogEntry {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]types.LogEntry, len(a.entries))
	copy(out, a.entries)
	return out
}

func (a *MemoryAdapter) Close() error { return nil }

func (a *MemoryAdapter) Health() error { return nil }

func (a *MemoryAdapter) Name() string { return a.name }
