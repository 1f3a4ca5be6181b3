package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "vellum/contexts/editorial/assignment-service/application"
	"vellum/contexts/editorial/assignment-service/domain/entities"
	domainerrors "vellum/contexts/editorial/assignment-service/domain/errors"
	"vellum/contexts/editorial/assignment-service/ports"
	"vellum/internal/shared/locking"
)

type ExtendDeadlineCommand struct {
	AssignmentID string
	NewDeadline  time.Time
}

type ExtendDeadlineUseCase struct {
	Repository ports.Repository
	Clock      ports.Clock
	Locks      *locking.KeyedMutex
	Logger     *slog.Logger
}

// Execute pushes an active assignment's deadline out and clears any overdue
// marker the sweep set.
func (uc ExtendDeadlineUseCase) Execute(ctx context.Context, cmd ExtendDeadlineCommand) (entities.Assignment, error) {
	logger := application.ResolveLogger(uc.Logger)
	assignment, err := uc.Repository.GetAssignment(ctx, strings.TrimSpace(cmd.AssignmentID))
	if err != nil {
		return entities.Assignment{}, err
	}

	unlock := uc.Locks.Lock(assignment.ContentID)
	defer unlock()

	assignment, err = uc.Repository.GetAssignment(ctx, assignment.AssignmentID)
	if err != nil {
		return entities.Assignment{}, err
	}
	if !assignment.Active() {
		return entities.Assignment{}, domainerrors.ErrNoActiveAssignment
	}
	if !cmd.NewDeadline.UTC().After(assignment.Deadline) {
		return entities.Assignment{}, domainerrors.ErrDeadlineNotExtended
	}

	assignment.Deadline = cmd.NewDeadline.UTC()
	assignment.Overdue = false
	assignment.UpdatedAt = uc.Clock.Now().UTC()
	if err := uc.Repository.UpdateAssignment(ctx, assignment); err != nil {
		return entities.Assignment{}, err
	}

	logger.Info("assignment deadline extended",
		"event", "assignment_deadline_extended",
		"module", "editorial/assignment-service",
		"layer", "application",
		"assignment_id", assignment.AssignmentID,
		"content_id", assignment.ContentID,
		"deadline", assignment.Deadline.Format(time.RFC3339),
	)
	return assignment, nil
}
