package history

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"resume-tailor/internal/logging"
	"resume-tailor/pkg/models"
	"resume-tailor/pkg/utils"
)

// Store loads, appends to and clears the persisted HistoryLog.
// Persisted state matches the returned log after every successful mutation.
type Store struct {
	slot       Slot
	maxEntries int
	logger     logging.Logger

	// serializes Record so read-modify-persist is atomic
	mu sync.Mutex
}

// NewStore creates a store over slot. maxEntries caps Record; 0 means unbounded.
func NewStore(slot Slot, maxEntries int) *Store {
	return &Store{
		slot:       slot,
		maxEntries: maxEntries,
		logger:     logging.GetGlobalLogger().WithField("component", "history"),
	}
}

// Load returns the persisted log. An absent or unreadable slot yields an empty log.
func (s *Store) Load(ctx context.Context) models.HistoryLog {
	data, err := s.slot.Read(ctx)
	if errors.Is(err, ErrSlotEmpty) {
		return models.HistoryLog{}
	}
	if err != nil {
		s.swallow(utils.NewPersistenceError(err.Error(), err))
		return models.HistoryLog{}
	}

	var log models.HistoryLog
	if err := json.Unmarshal(data, &log); err != nil {
		s.swallow(utils.NewPersistenceError("history slot is corrupt: "+err.Error(), err))
		return models.HistoryLog{}
	}
	if log == nil {
		log = models.HistoryLog{}
	}
	return log
}

func (s *Store) swallow(err error) {
	s.logger.Warn("History state discarded", map[string]interface{}{
		"slot":  s.slot.Name(),
		"error": err.Error(),
	})
}

// Append returns a new log with result first and persists it before returning.
// The input log is not modified.
func (s *Store) Append(ctx context.Context, result models.TailoringResult, log models.HistoryLog) (models.HistoryLog, error) {
	next := make(models.HistoryLog, 0, len(log)+1)
	next = append(next, result)
	next = append(next, log...)

	if err := s.persist(ctx, next); err != nil {
		return log, err
	}
	return next, nil
}

// Clear erases the persisted state and returns an empty log
func (s *Store) Clear(ctx context.Context) (models.HistoryLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.slot.Delete(ctx); err != nil {
		return nil, utils.NewPersistenceError(err.Error(), err)
	}

	s.logger.Info("History cleared", map[string]interface{}{"slot": s.slot.Name()})
	return models.HistoryLog{}, nil
}

// Record loads, prepends result, applies the entry cap and persists, as one step
func (s *Store) Record(ctx context.Context, result models.TailoringResult) (models.HistoryLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.Load(ctx)
	if s.maxEntries > 0 && len(current) >= s.maxEntries {
		current = current[:s.maxEntries-1]
	}

	next, err := s.Append(ctx, result, current)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("History entry recorded", map[string]interface{}{
		"result_id": result.ID,
		"entries":   len(next),
	})
	return next, nil
}

// Find returns the entry with the given id
func (s *Store) Find(ctx context.Context, id string) (models.TailoringResult, error) {
	result, ok := s.Load(ctx).Find(id)
	if !ok {
		return models.TailoringResult{}, utils.NewNotFoundError("history entry " + id + " not found")
	}
	return result, nil
}

// Ping checks the slot backend
func (s *Store) Ping(ctx context.Context) error {
	if err := s.slot.Ping(ctx); err != nil {
		return utils.NewPersistenceError("history backend unavailable", err)
	}
	return nil
}

// Backend names the slot in use
func (s *Store) Backend() string {
	return s.slot.Name()
}

// Close releases the slot
func (s *Store) Close() error {
	return s.slot.Close()
}

func (s *Store) persist(ctx context.Context, log models.HistoryLog) error {
	data, err := json.Marshal(log)
	if err != nil {
		return utils.NewPersistenceError("failed to encode history", err)
	}
	if err := s.slot.Write(ctx, data); err != nil {
		return utils.NewPersistenceError(err.Error(), err)
	}
	return nil
}
