// Package history persists the newest-first log of tailoring results in a
// single named storage slot.
package history

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"resume-tailor/internal/config"
)

// ErrSlotEmpty is returned by Read when nothing has been stored yet
var ErrSlotEmpty = errors.New("history slot is empty")

// Slot is one named, durable value
type Slot interface {
	// Read returns the stored bytes or ErrSlotEmpty
	Read(ctx context.Context) ([]byte, error)
	// Write replaces the stored bytes
	Write(ctx context.Context, data []byte) error
	// Delete erases the slot. Deleting an empty slot is not an error.
	Delete(ctx context.Context) error
	// Ping reports whether the backend can currently serve reads and writes
	Ping(ctx context.Context) error
	// Name identifies the backend in logs and health output
	Name() string
	Close() error
}

// NewSlot creates the slot selected by history.backend
func NewSlot(cfg *config.Config) (Slot, error) {
	switch cfg.History.Backend {
	case "file":
		return NewFileSlot(cfg.History.FilePath, cfg.History.Key), nil
	case "redis":
		return NewRedisSlot(cfg), nil
	case "sqlite":
		return NewSQLiteSlot(cfg.History.SQLitePath, cfg.History.Key)
	case "memory":
		return NewMemorySlot(), nil
	default:
		return nil, fmt.Errorf("unsupported history backend: %s", cfg.History.Backend)
	}
}

// MemorySlot keeps the value in process memory
type MemorySlot struct {
	mu   sync.RWMutex
	data []byte
	set  bool
}

// NewMemorySlot creates an empty in-memory slot
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{}
}

func (s *MemorySlot) Read(_ context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.set {
		return nil, ErrSlotEmpty
	}
	return append([]byte(nil), s.data...), nil
}

func (s *MemorySlot) Write(_ context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append([]byte(nil), data...)
	s.set = true
	return nil
}

func (s *MemorySlot) Delete(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
	s.set = false
	return nil
}

func (s *MemorySlot) Ping(_ context.Context) error { return nil }

func (s *MemorySlot) Name() string { return "memory" }

func (s *MemorySlot) Close() error { return nil }
