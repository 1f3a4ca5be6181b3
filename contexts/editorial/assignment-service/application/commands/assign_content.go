package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	application "vellum/contexts/editorial/assignment-service/application"
	"vellum/contexts/editorial/assignment-service/domain/entities"
	domainerrors "vellum/contexts/editorial/assignment-service/domain/errors"
	"vellum/contexts/editorial/assignment-service/ports"
	"vellum/internal/shared/locking"
)

const (
	defaultReviewWindow = 7 * 24 * time.Hour
	defaultWorkloadCost = 10

	assignableContentState = "queued"
)

type AssignContentCommand struct {
	ContentID   string
	ReviewerIDs []string
	Notes       string
	// Deadline overrides the default review window when set.
	Deadline time.Time
}

// AssignUseCase creates assignments with all-or-nothing workload reservation:
// either every reviewer is reserved and the content moves to assigned, or no
// reservation survives.
type AssignUseCase struct {
	Repository ports.Repository
	Content    ports.ContentGateway
	Reviewers  ports.ReviewerGateway
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Locks      *locking.KeyedMutex
	Logger     *slog.Logger

	// ReviewWindow is the default time reviewers get; zero means seven days.
	ReviewWindow time.Duration
	// WorkloadCost is the workload units one assignment adds per reviewer.
	WorkloadCost int
}

func (uc AssignUseCase) Execute(ctx context.Context, cmd AssignContentCommand) (entities.Assignment, error) {
	logger := application.ResolveLogger(uc.Logger)
	contentID := strings.TrimSpace(cmd.ContentID)
	if contentID == "" {
		return entities.Assignment{}, domainerrors.ErrInvalidAssignmentInput
	}

	reviewerIDs, err := normalizeReviewerIDs(cmd.ReviewerIDs)
	if err != nil {
		return entities.Assignment{}, err
	}

	unlock := uc.Locks.Lock(contentID)
	defer unlock()

	info, err := uc.Content.GetContentInfo(ctx, contentID)
	if err != nil {
		return entities.Assignment{}, err
	}
	if info.State != assignableContentState {
		return entities.Assignment{}, fmt.Errorf("%w: content %s is %s", domainerrors.ErrInvalidContentState, contentID, info.State)
	}
	if _, exists, err := uc.Repository.GetActiveByContent(ctx, contentID); err != nil {
		return entities.Assignment{}, err
	} else if exists {
		return entities.Assignment{}, domainerrors.ErrActiveAssignmentExists
	}

	if err := uc.reserveAll(ctx, reviewerIDs); err != nil {
		return entities.Assignment{}, err
	}

	now := uc.Clock.Now().UTC()
	deadline := cmd.Deadline.UTC()
	if cmd.Deadline.IsZero() {
		deadline = now.Add(uc.reviewWindow())
	}
	assignmentID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		uc.releaseAll(ctx, reviewerIDs)
		return entities.Assignment{}, err
	}
	assignment := entities.Assignment{
		AssignmentID: assignmentID,
		ContentID:    contentID,
		ReviewerIDs:  reviewerIDs,
		Notes:        strings.TrimSpace(cmd.Notes),
		Deadline:     deadline,
		Status:       entities.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.Repository.CreateAssignment(ctx, assignment); err != nil {
		uc.releaseAll(ctx, reviewerIDs)
		return entities.Assignment{}, err
	}
	if err := uc.Content.MarkAssigned(ctx, contentID); err != nil {
		assignment.Status = entities.StatusWithdrawn
		assignment.UpdatedAt = uc.Clock.Now().UTC()
		released := assignment.UpdatedAt
		assignment.ReleasedAt = &released
		if updateErr := uc.Repository.UpdateAssignment(ctx, assignment); updateErr != nil {
			logger.Error("assignment rollback update failed",
				"event", "assignment_rollback_failed",
				"module", "editorial/assignment-service",
				"layer", "application",
				"assignment_id", assignment.AssignmentID,
				"error", updateErr.Error(),
			)
		}
		uc.releaseAll(ctx, reviewerIDs)
		return entities.Assignment{}, err
	}

	logger.Info("content assigned",
		"event", "content_assigned",
		"module", "editorial/assignment-service",
		"layer", "application",
		"assignment_id", assignment.AssignmentID,
		"content_id", contentID,
		"reviewer_count", len(reviewerIDs),
		"deadline", deadline.Format(time.RFC3339),
	)
	return assignment, nil
}

// Unassign withdraws the active assignment before review starts and requeues
// the content.
func (uc AssignUseCase) Unassign(ctx context.Context, contentID string) (entities.Assignment, error) {
	logger := application.ResolveLogger(uc.Logger)
	contentID = strings.TrimSpace(contentID)

	unlock := uc.Locks.Lock(contentID)
	defer unlock()

	assignment, exists, err := uc.Repository.GetActiveByContent(ctx, contentID)
	if err != nil {
		return entities.Assignment{}, err
	}
	if !exists {
		return entities.Assignment{}, domainerrors.ErrNoActiveAssignment
	}

	if err := uc.Content.MarkQueued(ctx, contentID); err != nil {
		return entities.Assignment{}, err
	}
	now := uc.Clock.Now().UTC()
	assignment.Status = entities.StatusWithdrawn
	assignment.UpdatedAt = now
	assignment.ReleasedAt = &now
	if err := uc.Repository.UpdateAssignment(ctx, assignment); err != nil {
		return entities.Assignment{}, err
	}
	uc.releaseAll(ctx, assignment.ReviewerIDs)

	logger.Info("content unassigned",
		"event", "content_unassigned",
		"module", "editorial/assignment-service",
		"layer", "application",
		"assignment_id", assignment.AssignmentID,
		"content_id", contentID,
	)
	return assignment, nil
}

// ReleaseForContent closes the active assignment when the workflow reaches an
// editorial decision. Reason "completed" marks normal completion; anything
// else withdraws. The workflow holds the content lock, so no lock here.
func (uc AssignUseCase) ReleaseForContent(ctx context.Context, contentID string, reason string) error {
	logger := application.ResolveLogger(uc.Logger)
	assignment, exists, err := uc.Repository.GetActiveByContent(ctx, strings.TrimSpace(contentID))
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	now := uc.Clock.Now().UTC()
	if reason == "completed" {
		assignment.Status = entities.StatusCompleted
	} else {
		assignment.Status = entities.StatusWithdrawn
	}
	assignment.UpdatedAt = now
	assignment.ReleasedAt = &now
	if err := uc.Repository.UpdateAssignment(ctx, assignment); err != nil {
		return err
	}
	uc.releaseAll(ctx, assignment.ReviewerIDs)

	logger.Info("assignment released",
		"event", "assignment_released",
		"module", "editorial/assignment-service",
		"layer", "application",
		"assignment_id", assignment.AssignmentID,
		"content_id", assignment.ContentID,
		"reason", reason,
	)
	return nil
}

func (uc AssignUseCase) reserveAll(ctx context.Context, reviewerIDs []string) error {
	reserved := make([]string, 0, len(reviewerIDs))
	for _, reviewerID := range reviewerIDs {
		if err := uc.Reviewers.Reserve(ctx, reviewerID, uc.workloadCost()); err != nil {
			uc.releaseAll(ctx, reserved)
			return fmt.Errorf("%w: reviewer %s", domainerrors.ErrReviewerUnavailable, reviewerID)
		}
		reserved = append(reserved, reviewerID)
	}
	return nil
}

func (uc AssignUseCase) releaseAll(ctx context.Context, reviewerIDs []string) {
	logger := application.ResolveLogger(uc.Logger)
	for _, reviewerID := range reviewerIDs {
		if err := uc.Reviewers.Release(ctx, reviewerID, uc.workloadCost()); err != nil {
			logger.Error("reviewer workload release failed",
				"event", "reviewer_release_failed",
				"module", "editorial/assignment-service",
				"layer", "application",
				"reviewer_id", reviewerID,
				"error", err.Error(),
			)
		}
	}
}

func (uc AssignUseCase) reviewWindow() time.Duration {
	if uc.ReviewWindow > 0 {
		return uc.ReviewWindow
	}
	return defaultReviewWindow
}

func (uc AssignUseCase) workloadCost() int {
	if uc.WorkloadCost > 0 {
		return uc.WorkloadCost
	}
	return defaultWorkloadCost
}

func normalizeReviewerIDs(ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, domainerrors.ErrNoReviewers
	}
	seen := make(map[string]struct{}, len(ids))
	result := make([]string, 0, len(ids))
	for _, raw := range ids {
		id := strings.TrimSpace(raw)
		if id == "" {
			return nil, domainerrors.ErrInvalidAssignmentInput
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: %s", domainerrors.ErrDuplicateReviewer, id)
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result, nil
}
