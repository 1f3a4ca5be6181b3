package commands

import (
	"context"
	"log/slog"
	"strings"

	application "vellum/contexts/editorial/workflow-service/application"
	"vellum/contexts/editorial/workflow-service/domain/entities"
	"vellum/contexts/editorial/workflow-service/ports"
)

// LifecycleUseCase executes transitions driven by the assignment engine and
// the review aggregator. Callers already hold the per-content lock, so these
// methods never acquire it themselves.
type LifecycleUseCase struct {
	Repository ports.Repository
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

// MarkAssigned moves queued content to assigned when an assignment is created.
func (uc LifecycleUseCase) MarkAssigned(ctx context.Context, contentID string) error {
	return uc.fire(ctx, contentID, entities.TriggerAssign, "content.assigned")
}

// MarkQueued returns assigned content to the queue when an editor clears the
// reviewer selection before review begins.
func (uc LifecycleUseCase) MarkQueued(ctx context.Context, contentID string) error {
	return uc.fire(ctx, contentID, entities.TriggerUnassign, "content.unassigned")
}

// StartReview fires once the first review is posted. It is idempotent:
// content already in review is left untouched so later reviews do not fail.
func (uc LifecycleUseCase) StartReview(ctx context.Context, contentID string) error {
	item, err := uc.Repository.GetContent(ctx, strings.TrimSpace(contentID))
	if err != nil {
		return err
	}
	if item.State == entities.StateInReview {
		return nil
	}
	return uc.fire(ctx, contentID, entities.TriggerStartReview, "content.review_started")
}

func (uc LifecycleUseCase) fire(ctx context.Context, contentID string, trigger entities.Trigger, eventType string) error {
	logger := application.ResolveLogger(uc.Logger)
	item, err := uc.Repository.GetContent(ctx, strings.TrimSpace(contentID))
	if err != nil {
		return err
	}
	if err := applyTransition(&item, trigger); err != nil {
		return err
	}
	item.UpdatedAt = uc.Clock.Now().UTC()
	if err := uc.Repository.UpdateContent(ctx, item); err != nil {
		return err
	}

	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	if err := uc.Repository.AppendOutbox(ctx, newContentEnvelope(eventID, eventType, item.ContentID, item.UpdatedAt, map[string]any{
		"content_id": item.ContentID,
		"state":      string(item.State),
	})); err != nil {
		return err
	}

	logger.Info("content lifecycle transition applied",
		"event", "content_lifecycle_transition",
		"module", "editorial/workflow-service",
		"layer", "application",
		"content_id", item.ContentID,
		"trigger", string(trigger),
		"state", string(item.State),
	)
	return nil
}
