package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	application "vellum/contexts/editorial/review-service/application"
	"vellum/contexts/editorial/review-service/domain/entities"
	domainerrors "vellum/contexts/editorial/review-service/domain/errors"
	"vellum/contexts/editorial/review-service/ports"
	"vellum/internal/shared/locking"
)

type SubmitReviewCommand struct {
	AssignmentID   string
	ReviewerID     string
	Recommendation string
	Scores         map[string]float64
	Comments       string
}

type SubmitReviewResult struct {
	Review entities.Review
	// WasUpdate is true when the reviewer overwrote an earlier verdict.
	WasUpdate bool
}

// SubmitReviewUseCase records one reviewer's verdict. Only reviewers on the
// active assignment may submit; the first verdict moves the content into
// review and each distinct verdict updates the reviewer's track record.
type SubmitReviewUseCase struct {
	Repository  ports.Repository
	Assignments ports.AssignmentGateway
	Workflow    ports.WorkflowGateway
	Reviewers   ports.ReviewerGateway
	Clock       ports.Clock
	IDGen       ports.IDGenerator
	Locks       *locking.KeyedMutex
	Logger      *slog.Logger
}

func (uc SubmitReviewUseCase) Execute(ctx context.Context, cmd SubmitReviewCommand) (SubmitReviewResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	assignmentID := strings.TrimSpace(cmd.AssignmentID)
	reviewerID := strings.TrimSpace(cmd.ReviewerID)
	if assignmentID == "" || reviewerID == "" {
		return SubmitReviewResult{}, domainerrors.ErrInvalidReviewInput
	}
	recommendation := entities.Recommendation(strings.ToLower(strings.TrimSpace(cmd.Recommendation)))
	if !recommendation.Valid() {
		return SubmitReviewResult{}, fmt.Errorf("%w: unknown recommendation %q", domainerrors.ErrInvalidReviewInput, cmd.Recommendation)
	}

	assignment, err := uc.Assignments.GetAssignment(ctx, assignmentID)
	if err != nil {
		return SubmitReviewResult{}, err
	}
	if !assignment.Active {
		return SubmitReviewResult{}, domainerrors.ErrNotAssigned
	}
	assigned := false
	for _, id := range assignment.ReviewerIDs {
		if id == reviewerID {
			assigned = true
			break
		}
	}
	if !assigned {
		return SubmitReviewResult{}, fmt.Errorf("%w: reviewer %s on assignment %s", domainerrors.ErrNotAssigned, reviewerID, assignmentID)
	}

	unlock := uc.Locks.Lock(assignment.ContentID)
	defer unlock()

	now := uc.Clock.Now().UTC()
	review := entities.Review{
		AssignmentID:   assignmentID,
		ReviewerID:     reviewerID,
		Recommendation: recommendation,
		Scores:         cmd.Scores,
		Comments:       strings.TrimSpace(cmd.Comments),
		SubmittedAt:    now,
		UpdatedAt:      now,
	}
	if !review.ScoresInRange() {
		return SubmitReviewResult{}, domainerrors.ErrScoreOutOfRange
	}

	existing, err := uc.Repository.GetReviewByIdentity(ctx, assignmentID, reviewerID)
	switch {
	case err == nil:
		review.ReviewID = existing.ReviewID
		review.SubmittedAt = existing.SubmittedAt
	case errors.Is(err, domainerrors.ErrReviewNotFound):
		reviewID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return SubmitReviewResult{}, err
		}
		review.ReviewID = reviewID
	default:
		return SubmitReviewResult{}, err
	}

	replaced, err := uc.Repository.UpsertReview(ctx, review)
	if err != nil {
		return SubmitReviewResult{}, err
	}

	if !replaced {
		if err := uc.Workflow.StartReview(ctx, assignment.ContentID); err != nil {
			return SubmitReviewResult{}, err
		}
		rejected := recommendation == entities.RecommendationReject
		if err := uc.Reviewers.RecordCompletedReview(ctx, reviewerID, rejected); err != nil {
			logger.Error("reviewer track record update failed",
				"event", "reviewer_track_record_failed",
				"module", "editorial/review-service",
				"layer", "application",
				"reviewer_id", reviewerID,
				"error", err.Error(),
			)
		}
	}

	logger.Info("review submitted",
		"event", "review_submitted",
		"module", "editorial/review-service",
		"layer", "application",
		"review_id", review.ReviewID,
		"assignment_id", assignmentID,
		"reviewer_id", reviewerID,
		"recommendation", string(recommendation),
		"was_update", replaced,
	)
	return SubmitReviewResult{Review: review, WasUpdate: replaced}, nil
}
