package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	application "vellum/contexts/editorial/workflow-service/application"
	"vellum/contexts/editorial/workflow-service/domain/entities"
	domainerrors "vellum/contexts/editorial/workflow-service/domain/errors"
	"vellum/contexts/editorial/workflow-service/ports"
	"vellum/internal/shared/locking"
)

const (
	releaseReasonCompleted = "completed"
	releaseReasonWithdrawn = "withdrawn"

	defaultApprovalThreshold = "minor_revision"
)

// recommendationSeverity orders recommendations from most permissive to most
// conservative for threshold gating.
var recommendationSeverity = map[string]int{
	"accept":         0,
	"minor_revision": 1,
	"major_revision": 2,
	"reject":         3,
}

type ApproveContentCommand struct {
	ContentID string
	EditorID  string
	Notes     string
}

type RejectContentCommand struct {
	ContentID string
	EditorID  string
	Notes     string
}

type RequestRevisionCommand struct {
	ContentID string
	EditorID  string
	Notes     string
}

// EditorialDecisionUseCase gates approve/reject/request-revision on the
// consolidated recommendation and the review quorum. Workload release and
// event publication happen after the state transition commits.
type EditorialDecisionUseCase struct {
	Repository  ports.Repository
	Assignments ports.AssignmentGateway
	Reviews     ports.ReviewGateway
	Clock       ports.Clock
	IDGen       ports.IDGenerator
	Locks       *locking.KeyedMutex
	Logger      *slog.Logger

	// Quorum is the number of reviews required before approve; zero means
	// every assigned reviewer must have submitted.
	Quorum int
	// ApprovalThreshold is the most conservative consolidated recommendation
	// that still permits approval.
	ApprovalThreshold string
}

func (uc EditorialDecisionUseCase) Approve(ctx context.Context, cmd ApproveContentCommand) (entities.ContentItem, error) {
	logger := application.ResolveLogger(uc.Logger)
	contentID := strings.TrimSpace(cmd.ContentID)
	if strings.TrimSpace(cmd.Notes) == "" {
		return entities.ContentItem{}, domainerrors.ErrNotesRequired
	}

	unlock := uc.Locks.Lock(contentID)
	defer unlock()

	item, err := uc.Repository.GetContent(ctx, contentID)
	if err != nil {
		return entities.ContentItem{}, err
	}
	if item.State != entities.StateInReview {
		return entities.ContentItem{}, domainerrors.NewTransitionError(contentID, string(item.State), string(entities.TriggerApprove))
	}

	assignment, found, err := uc.Assignments.ActiveAssignment(ctx, contentID)
	if err != nil {
		return entities.ContentItem{}, err
	}
	if !found {
		return entities.ContentItem{}, fmt.Errorf("%w: no active assignment for content %s", domainerrors.ErrInsufficientReviews, contentID)
	}

	summary, err := uc.Reviews.Consolidated(ctx, assignment.AssignmentID)
	if err != nil {
		return entities.ContentItem{}, err
	}
	quorum := uc.Quorum
	if quorum <= 0 || quorum > len(assignment.ReviewerIDs) {
		quorum = len(assignment.ReviewerIDs)
	}
	if summary.ReviewCount < quorum {
		return entities.ContentItem{}, fmt.Errorf("%w: %d of %d required reviews submitted for content %s",
			domainerrors.ErrInsufficientReviews, summary.ReviewCount, quorum, contentID)
	}
	if recommendationSeverity[summary.Overall] > recommendationSeverity[uc.approvalThreshold()] {
		return entities.ContentItem{}, fmt.Errorf("%w: consolidated %q for content %s",
			domainerrors.ErrRecommendationTooLow, summary.Overall, contentID)
	}

	if err := applyTransition(&item, entities.TriggerApprove); err != nil {
		return entities.ContentItem{}, err
	}
	now := uc.Clock.Now().UTC()
	item.ApprovedAt = &now
	item.ApprovedByUserID = strings.TrimSpace(cmd.EditorID)
	item.ApprovalNotes = strings.TrimSpace(cmd.Notes)
	item.UpdatedAt = now
	if err := uc.Repository.UpdateContent(ctx, item); err != nil {
		return entities.ContentItem{}, err
	}
	if err := uc.finishAssignment(ctx, item, "content.approved", releaseReasonCompleted); err != nil {
		return entities.ContentItem{}, err
	}

	logger.Info("content approved",
		"event", "content_approved",
		"module", "editorial/workflow-service",
		"layer", "application",
		"content_id", item.ContentID,
		"editor_id", item.ApprovedByUserID,
		"consolidated", summary.Overall,
	)
	return item, nil
}

// Reject is always permitted from in_review regardless of the consolidated
// recommendation: the editor retains override authority.
func (uc EditorialDecisionUseCase) Reject(ctx context.Context, cmd RejectContentCommand) (entities.ContentItem, error) {
	logger := application.ResolveLogger(uc.Logger)
	contentID := strings.TrimSpace(cmd.ContentID)
	if strings.TrimSpace(cmd.Notes) == "" {
		return entities.ContentItem{}, domainerrors.ErrNotesRequired
	}

	unlock := uc.Locks.Lock(contentID)
	defer unlock()

	item, err := uc.Repository.GetContent(ctx, contentID)
	if err != nil {
		return entities.ContentItem{}, err
	}
	if err := applyTransition(&item, entities.TriggerReject); err != nil {
		return entities.ContentItem{}, err
	}
	now := uc.Clock.Now().UTC()
	item.RejectedAt = &now
	item.RejectedByUserID = strings.TrimSpace(cmd.EditorID)
	item.RejectionNotes = strings.TrimSpace(cmd.Notes)
	item.UpdatedAt = now
	if err := uc.Repository.UpdateContent(ctx, item); err != nil {
		return entities.ContentItem{}, err
	}
	if err := uc.finishAssignment(ctx, item, "content.rejected", releaseReasonCompleted); err != nil {
		return entities.ContentItem{}, err
	}

	logger.Info("content rejected",
		"event", "content_rejected",
		"module", "editorial/workflow-service",
		"layer", "application",
		"content_id", item.ContentID,
		"editor_id", item.RejectedByUserID,
	)
	return item, nil
}

// RequestRevision hands content back to the author and frees the reviewers.
func (uc EditorialDecisionUseCase) RequestRevision(ctx context.Context, cmd RequestRevisionCommand) (entities.ContentItem, error) {
	logger := application.ResolveLogger(uc.Logger)
	contentID := strings.TrimSpace(cmd.ContentID)
	if strings.TrimSpace(cmd.Notes) == "" {
		return entities.ContentItem{}, domainerrors.ErrNotesRequired
	}

	unlock := uc.Locks.Lock(contentID)
	defer unlock()

	item, err := uc.Repository.GetContent(ctx, contentID)
	if err != nil {
		return entities.ContentItem{}, err
	}
	if err := applyTransition(&item, entities.TriggerRequestRevision); err != nil {
		return entities.ContentItem{}, err
	}
	now := uc.Clock.Now().UTC()
	item.RevisionRequestedAt = &now
	item.EditorialNotes = strings.TrimSpace(cmd.Notes)
	item.UpdatedAt = now
	if err := uc.Repository.UpdateContent(ctx, item); err != nil {
		return entities.ContentItem{}, err
	}
	if err := uc.finishAssignment(ctx, item, "content.revision_requested", releaseReasonWithdrawn); err != nil {
		return entities.ContentItem{}, err
	}

	logger.Info("content revision requested",
		"event", "content_revision_requested",
		"module", "editorial/workflow-service",
		"layer", "application",
		"content_id", item.ContentID,
	)
	return item, nil
}

func (uc EditorialDecisionUseCase) finishAssignment(
	ctx context.Context,
	item entities.ContentItem,
	eventType string,
	releaseReason string,
) error {
	if err := uc.Assignments.ReleaseForContent(ctx, item.ContentID, releaseReason); err != nil {
		return err
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	return uc.Repository.AppendOutbox(ctx, newContentEnvelope(eventID, eventType, item.ContentID, item.UpdatedAt, map[string]any{
		"content_id": item.ContentID,
		"state":      string(item.State),
	}))
}

func (uc EditorialDecisionUseCase) approvalThreshold() string {
	threshold := strings.TrimSpace(uc.ApprovalThreshold)
	if _, known := recommendationSeverity[threshold]; !known {
		return defaultApprovalThreshold
	}
	return threshold
}
