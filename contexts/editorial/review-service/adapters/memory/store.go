package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"vellum/contexts/editorial/review-service/domain/entities"
	domainerrors "vellum/contexts/editorial/review-service/domain/errors"
)

type identity struct {
	assignmentID string
	reviewerID   string
}

// Store is an in-memory review repository for tests and local runs. It also
// satisfies the Clock and IDGenerator ports.
type Store struct {
	mu      sync.RWMutex
	reviews map[identity]entities.Review
}

func NewStore(seed []entities.Review) *Store {
	store := &Store{reviews: make(map[identity]entities.Review, len(seed))}
	for _, review := range seed {
		store.reviews[identity{review.AssignmentID, review.ReviewerID}] = review
	}
	return store
}

func (s *Store) UpsertReview(_ context.Context, review entities.Review) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := identity{review.AssignmentID, review.ReviewerID}
	_, replaced := s.reviews[key]
	s.reviews[key] = cloneReview(review)
	return replaced, nil
}

func (s *Store) GetReviewByIdentity(_ context.Context, assignmentID, reviewerID string) (entities.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	review, exists := s.reviews[identity{assignmentID, reviewerID}]
	if !exists {
		return entities.Review{}, domainerrors.ErrReviewNotFound
	}
	return cloneReview(review), nil
}

func (s *Store) ListByAssignment(_ context.Context, assignmentID string) ([]entities.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]entities.Review, 0, len(s.reviews))
	for key, review := range s.reviews {
		if key.assignmentID != assignmentID {
			continue
		}
		result = append(result, cloneReview(review))
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].SubmittedAt.Equal(result[j].SubmittedAt) {
			return result[i].SubmittedAt.Before(result[j].SubmittedAt)
		}
		return result[i].ReviewerID < result[j].ReviewerID
	})
	return result, nil
}

func cloneReview(review entities.Review) entities.Review {
	if review.Scores != nil {
		scores := make(map[string]float64, len(review.Scores))
		for dimension, score := range review.Scores {
			scores[dimension] = score
		}
		review.Scores = scores
	}
	return review
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
