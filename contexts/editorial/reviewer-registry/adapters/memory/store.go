package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"vellum/contexts/editorial/reviewer-registry/domain/entities"
	domainerrors "vellum/contexts/editorial/reviewer-registry/domain/errors"
	"vellum/contexts/editorial/reviewer-registry/ports"

	"github.com/google/uuid"
)

type Store struct {
	mu sync.RWMutex

	reviewers map[string]entities.Reviewer
}

func NewStore(seed []entities.Reviewer) *Store {
	reviewers := make(map[string]entities.Reviewer, len(seed))
	for _, item := range seed {
		reviewers[item.ReviewerID] = item
	}
	return &Store{reviewers: reviewers}
}

func (s *Store) CreateReviewer(_ context.Context, reviewer entities.Reviewer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.reviewers[reviewer.ReviewerID]; exists {
		return domainerrors.ErrInvalidReviewerInput
	}
	s.reviewers[reviewer.ReviewerID] = reviewer
	return nil
}

func (s *Store) UpdateReviewer(_ context.Context, reviewer entities.Reviewer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.reviewers[reviewer.ReviewerID]; !exists {
		return domainerrors.ErrReviewerNotFound
	}
	s.reviewers[reviewer.ReviewerID] = reviewer
	return nil
}

func (s *Store) GetReviewer(_ context.Context, reviewerID string) (entities.Reviewer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.reviewers[strings.TrimSpace(reviewerID)]
	if !exists {
		return entities.Reviewer{}, domainerrors.ErrReviewerNotFound
	}
	return item, nil
}

func (s *Store) ListReviewers(_ context.Context, filter ports.ReviewerFilter) ([]entities.Reviewer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Reviewer, 0, len(s.reviewers))
	for _, item := range s.reviewers {
		if filter.AvailableOnly && !item.Available {
			continue
		}
		if filter.MaxWorkload >= 0 && item.Workload > filter.MaxWorkload {
			continue
		}
		if strings.TrimSpace(filter.Expertise) != "" && !item.HasExpertise(filter.Expertise) {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *Store) AdjustWorkload(_ context.Context, reviewerID string, delta int, ceiling int) (entities.Reviewer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, exists := s.reviewers[strings.TrimSpace(reviewerID)]
	if !exists {
		return entities.Reviewer{}, domainerrors.ErrReviewerNotFound
	}

	if delta > 0 && !item.Available {
		return entities.Reviewer{}, domainerrors.ErrReviewerUnavailable
	}
	next := item.Workload + delta
	if delta > 0 && next > ceiling {
		return entities.Reviewer{}, domainerrors.ErrCapacityExceeded
	}
	if next < 0 {
		next = 0
	}
	item.Workload = next
	item.UpdatedAt = time.Now().UTC()
	s.reviewers[item.ReviewerID] = item
	return item, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
