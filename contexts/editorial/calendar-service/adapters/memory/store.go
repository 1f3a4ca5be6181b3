package memory

import (
	"context"
	"sync"
	"time"

	"vellum/contexts/editorial/calendar-service/ports"
)

// Store keeps the activity feed and event dedup window in memory. The feed is
// a bounded ring so long-running processes do not grow without limit.
type Store struct {
	mu        sync.RWMutex
	activity  []ports.ActivityEntry
	processed map[string]time.Time
	capacity  int
}

func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = 1000
	}
	return &Store{
		processed: make(map[string]time.Time),
		capacity:  capacity,
	}
}

func (s *Store) AppendActivity(_ context.Context, entry ports.ActivityEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activity = append(s.activity, entry)
	if len(s.activity) > s.capacity {
		s.activity = s.activity[len(s.activity)-s.capacity:]
	}
	return nil
}

func (s *Store) ListRecentActivity(_ context.Context, limit int) ([]ports.ActivityEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit > len(s.activity) {
		limit = len(s.activity)
	}
	result := make([]ports.ActivityEntry, 0, limit)
	for i := len(s.activity) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, s.activity[i])
	}
	return result, nil
}

func (s *Store) HasProcessedEvent(_ context.Context, eventID string, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	expiresAt, exists := s.processed[eventID]
	if !exists {
		return false, nil
	}
	if now.After(expiresAt) {
		delete(s.processed, eventID)
		return false, nil
	}
	return true, nil
}

func (s *Store) MarkProcessedEvent(_ context.Context, eventID string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processed[eventID] = expiresAt
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}
