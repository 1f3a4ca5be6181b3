package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"vellum/contexts/editorial/workflow-service/domain/entities"
	domainerrors "vellum/contexts/editorial/workflow-service/domain/errors"
	"vellum/contexts/editorial/workflow-service/ports"
	"vellum/internal/shared/events"
)

type outboxRow struct {
	message     ports.OutboxMessage
	published   bool
	publishedAt time.Time
}

// Store is an in-memory content repository for tests and local runs. It also
// satisfies the Clock and IDGenerator ports.
type Store struct {
	mu       sync.RWMutex
	contents map[string]entities.ContentItem
	outbox   []outboxRow
}

func NewStore(seed []entities.ContentItem) *Store {
	store := &Store{contents: make(map[string]entities.ContentItem, len(seed))}
	for _, item := range seed {
		store.contents[item.ContentID] = item
	}
	return store
}

func (s *Store) CreateContent(_ context.Context, item entities.ContentItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.contents[item.ContentID]; exists {
		return domainerrors.ErrInvalidContentInput
	}
	s.contents[item.ContentID] = item
	return nil
}

func (s *Store) UpdateContent(_ context.Context, item entities.ContentItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.contents[item.ContentID]; !exists {
		return domainerrors.ErrContentNotFound
	}
	s.contents[item.ContentID] = item
	return nil
}

func (s *Store) GetContent(_ context.Context, contentID string) (entities.ContentItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, exists := s.contents[contentID]
	if !exists {
		return entities.ContentItem{}, domainerrors.ErrContentNotFound
	}
	return item, nil
}

func (s *Store) ListContent(_ context.Context, filter ports.ContentFilter) ([]entities.ContentItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.ContentItem, 0, len(s.contents))
	for _, item := range s.contents {
		if !matchesFilter(item, filter) {
			continue
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].SubmittedAt.Equal(items[j].SubmittedAt) {
			return items[i].SubmittedAt.Before(items[j].SubmittedAt)
		}
		return items[i].ContentID < items[j].ContentID
	})
	return items, nil
}

func matchesFilter(item entities.ContentItem, filter ports.ContentFilter) bool {
	if filter.State != "" && item.State != filter.State {
		return false
	}
	if filter.ContentType != "" && string(item.ContentType) != filter.ContentType {
		return false
	}
	if filter.Priority != "" && string(item.Priority) != filter.Priority {
		return false
	}
	if !filter.SubmittedFrom.IsZero() && item.SubmittedAt.Before(filter.SubmittedFrom) {
		return false
	}
	if !filter.SubmittedTo.IsZero() && item.SubmittedAt.After(filter.SubmittedTo) {
		return false
	}
	return true
}

func (s *Store) AppendOutbox(_ context.Context, envelope events.Envelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outbox = append(s.outbox, outboxRow{
		message: ports.OutboxMessage{
			OutboxID:  envelope.EventID,
			EventType: envelope.EventType,
			Payload:   payload,
			CreatedAt: envelope.OccurredAtUTC,
		},
	})
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pending := make([]ports.OutboxMessage, 0, limit)
	for _, row := range s.outbox {
		if row.published {
			continue
		}
		pending = append(pending, row.message)
		if len(pending) == limit {
			break
		}
	}
	return pending, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.outbox {
		if s.outbox[i].message.OutboxID == outboxID {
			s.outbox[i].published = true
			s.outbox[i].publishedAt = publishedAt
			return nil
		}
	}
	return domainerrors.ErrContentNotFound
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
