package memory

import (
	"context"
	"sync"

	monitoring "storewatch/internal/monitoring/domain"
)

// TimezoneStore is an in-memory store/timezone catalog for demo/testing.
type TimezoneStore struct {
	mu   sync.RWMutex
	rows []monitoring.StoreTimezone
}

// NewTimezoneStore constructs an empty catalog.
func NewTimezoneStore() *TimezoneStore {
	return &TimezoneStore{}
}

// Put appends store/timezone records in insertion order.
func (s *TimezoneStore) Put(rows ...monitoring.StoreTimezone) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, rows...)
}

// List returns up to limit records in insertion order; limit <= 0 returns
// all.
func (s *TimezoneStore) List(ctx context.Context, limit int) ([]monitoring.StoreTimezone, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := len(s.rows)
	if limit > 0 && limit < count {
		count = limit
	}
	result := make([]monitoring.StoreTimezone, count)
	copy(result, s.rows[:count])
	return result, nil
}
