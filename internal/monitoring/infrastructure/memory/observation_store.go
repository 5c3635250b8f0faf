package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	monitoring "storewatch/internal/monitoring/domain"
)

// ObservationStore is an in-memory observation store for demo/testing.
type ObservationStore struct {
	mu     sync.RWMutex
	byID   map[string][]monitoring.Observation
	latest time.Time
}

// NewObservationStore constructs an empty store.
func NewObservationStore() *ObservationStore {
	return &ObservationStore{byID: make(map[string][]monitoring.Observation)}
}

// Append records observations, keeping per-store order stable by timestamp.
func (s *ObservationStore) Append(observations ...monitoring.Observation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, observation := range observations {
		s.byID[observation.StoreID] = append(s.byID[observation.StoreID], observation)
		if observation.Timestamp.After(s.latest) {
			s.latest = observation.Timestamp
		}
	}
	for storeID := range s.byID {
		list := s.byID[storeID]
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Timestamp.Before(list[j].Timestamp)
		})
	}
}

// LatestTimestamp returns the newest observation instant across all stores.
func (s *ObservationStore) LatestTimestamp(ctx context.Context) (time.Time, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest.IsZero() {
		return time.Time{}, monitoring.ErrNoObservations
	}
	return s.latest, nil
}

// Since returns observations for a store at or after since, ascending.
func (s *ObservationStore) Since(ctx context.Context, storeID string, since time.Time) ([]monitoring.Observation, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []monitoring.Observation
	for _, observation := range s.byID[storeID] {
		if observation.Timestamp.Before(since) {
			continue
		}
		result = append(result, observation)
	}
	return result, nil
}
