package queries

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"vellum/contexts/editorial/assignment-service/domain/entities"
	domainerrors "vellum/contexts/editorial/assignment-service/domain/errors"
	"vellum/contexts/editorial/assignment-service/ports"
)

type QueryUseCase struct {
	Repository ports.Repository
	Clock      ports.Clock
	Logger     *slog.Logger
}

func (uc QueryUseCase) Get(ctx context.Context, assignmentID string) (entities.Assignment, error) {
	return uc.Repository.GetAssignment(ctx, strings.TrimSpace(assignmentID))
}

func (uc QueryUseCase) ActiveByContent(ctx context.Context, contentID string) (entities.Assignment, error) {
	assignment, exists, err := uc.Repository.GetActiveByContent(ctx, strings.TrimSpace(contentID))
	if err != nil {
		return entities.Assignment{}, err
	}
	if !exists {
		return entities.Assignment{}, domainerrors.ErrNoActiveAssignment
	}
	return assignment, nil
}

// DueBetween lists active assignments whose deadline falls in the window,
// feeding the review calendar.
func (uc QueryUseCase) DueBetween(ctx context.Context, from, to time.Time) ([]entities.Assignment, error) {
	return uc.Repository.ListAssignments(ctx, ports.AssignmentFilter{
		Status:  entities.StatusActive,
		DueFrom: from,
		DueTo:   to,
	})
}

// ListOverdue lists active assignments past their deadline.
func (uc QueryUseCase) ListOverdue(ctx context.Context) ([]entities.Assignment, error) {
	return uc.Repository.ListAssignments(ctx, ports.AssignmentFilter{
		Status:      entities.StatusActive,
		DueTo:       uc.Clock.Now().UTC(),
		OverdueOnly: false,
	})
}
