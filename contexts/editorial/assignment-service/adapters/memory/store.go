package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"vellum/contexts/editorial/assignment-service/domain/entities"
	domainerrors "vellum/contexts/editorial/assignment-service/domain/errors"
	"vellum/contexts/editorial/assignment-service/ports"
)

// Store is an in-memory assignment repository for tests and local runs. It
// also satisfies the Clock and IDGenerator ports.
type Store struct {
	mu          sync.RWMutex
	assignments map[string]entities.Assignment
}

func NewStore(seed []entities.Assignment) *Store {
	store := &Store{assignments: make(map[string]entities.Assignment, len(seed))}
	for _, assignment := range seed {
		store.assignments[assignment.AssignmentID] = assignment
	}
	return store
}

func (s *Store) CreateAssignment(_ context.Context, assignment entities.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.assignments[assignment.AssignmentID]; exists {
		return domainerrors.ErrInvalidAssignmentInput
	}
	if assignment.Active() {
		for _, existing := range s.assignments {
			if existing.ContentID == assignment.ContentID && existing.Active() {
				return domainerrors.ErrActiveAssignmentExists
			}
		}
	}
	s.assignments[assignment.AssignmentID] = cloneAssignment(assignment)
	return nil
}

func (s *Store) UpdateAssignment(_ context.Context, assignment entities.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.assignments[assignment.AssignmentID]; !exists {
		return domainerrors.ErrAssignmentNotFound
	}
	s.assignments[assignment.AssignmentID] = cloneAssignment(assignment)
	return nil
}

func (s *Store) GetAssignment(_ context.Context, assignmentID string) (entities.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	assignment, exists := s.assignments[assignmentID]
	if !exists {
		return entities.Assignment{}, domainerrors.ErrAssignmentNotFound
	}
	return cloneAssignment(assignment), nil
}

func (s *Store) GetActiveByContent(_ context.Context, contentID string) (entities.Assignment, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, assignment := range s.assignments {
		if assignment.ContentID == contentID && assignment.Active() {
			return cloneAssignment(assignment), true, nil
		}
	}
	return entities.Assignment{}, false, nil
}

func (s *Store) ListAssignments(_ context.Context, filter ports.AssignmentFilter) ([]entities.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]entities.Assignment, 0, len(s.assignments))
	for _, assignment := range s.assignments {
		if !matchesFilter(assignment, filter) {
			continue
		}
		result = append(result, cloneAssignment(assignment))
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Deadline.Equal(result[j].Deadline) {
			return result[i].Deadline.Before(result[j].Deadline)
		}
		return result[i].AssignmentID < result[j].AssignmentID
	})
	return result, nil
}

func matchesFilter(assignment entities.Assignment, filter ports.AssignmentFilter) bool {
	if filter.Status != "" && assignment.Status != filter.Status {
		return false
	}
	if !filter.DueFrom.IsZero() && assignment.Deadline.Before(filter.DueFrom) {
		return false
	}
	if !filter.DueTo.IsZero() && assignment.Deadline.After(filter.DueTo) {
		return false
	}
	if filter.OverdueOnly && !assignment.Overdue {
		return false
	}
	return true
}

func cloneAssignment(assignment entities.Assignment) entities.Assignment {
	assignment.ReviewerIDs = append([]string(nil), assignment.ReviewerIDs...)
	return assignment
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
