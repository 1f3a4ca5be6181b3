package commands

import (
	"context"
	"log/slog"
	"strings"

	application "vellum/contexts/editorial/workflow-service/application"
	"vellum/contexts/editorial/workflow-service/domain/entities"
	domainerrors "vellum/contexts/editorial/workflow-service/domain/errors"
	"vellum/contexts/editorial/workflow-service/ports"
	"vellum/internal/shared/locking"
)

type SubmitContentCommand struct {
	Title       string
	ContentType string
	Category    string
	AuthorID    string
	Priority    string
	Notes       string
}

// SubmitContentUseCase creates content items and walks them through
// draft -> submitted -> queued. Enqueue fires automatically on submission.
type SubmitContentUseCase struct {
	Repository ports.Repository
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Locks      *locking.KeyedMutex
	Logger     *slog.Logger
}

func (uc SubmitContentUseCase) Execute(ctx context.Context, cmd SubmitContentCommand) (entities.ContentItem, error) {
	logger := application.ResolveLogger(uc.Logger)
	now := uc.Clock.Now().UTC()

	contentID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.ContentItem{}, err
	}
	item := entities.ContentItem{
		ContentID:      contentID,
		Title:          strings.TrimSpace(cmd.Title),
		ContentType:    entities.ContentType(strings.ToLower(strings.TrimSpace(cmd.ContentType))),
		Category:       strings.ToLower(strings.TrimSpace(cmd.Category)),
		AuthorID:       strings.TrimSpace(cmd.AuthorID),
		Priority:       entities.Priority(strings.ToLower(strings.TrimSpace(cmd.Priority))),
		State:          entities.StateDraft,
		EditorialNotes: strings.TrimSpace(cmd.Notes),
		SubmittedAt:    now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if !item.ValidateSubmit() {
		return entities.ContentItem{}, domainerrors.ErrInvalidContentInput
	}
	if err := applyTransition(&item, entities.TriggerSubmit); err != nil {
		return entities.ContentItem{}, err
	}
	if err := applyTransition(&item, entities.TriggerEnqueue); err != nil {
		return entities.ContentItem{}, err
	}
	if err := uc.Repository.CreateContent(ctx, item); err != nil {
		return entities.ContentItem{}, err
	}
	if err := uc.appendLifecycleEvent(ctx, "content.submitted", item); err != nil {
		return entities.ContentItem{}, err
	}

	logger.Info("content submitted",
		"event", "content_submitted",
		"module", "editorial/workflow-service",
		"layer", "application",
		"content_id", item.ContentID,
		"content_type", string(item.ContentType),
		"priority", string(item.Priority),
	)
	return item, nil
}

// Resubmit re-enters revised content at submitted and requeues it.
func (uc SubmitContentUseCase) Resubmit(ctx context.Context, contentID string) (entities.ContentItem, error) {
	logger := application.ResolveLogger(uc.Logger)
	contentID = strings.TrimSpace(contentID)
	unlock := uc.Locks.Lock(contentID)
	defer unlock()

	item, err := uc.Repository.GetContent(ctx, contentID)
	if err != nil {
		return entities.ContentItem{}, err
	}
	if err := applyTransition(&item, entities.TriggerResubmit); err != nil {
		return entities.ContentItem{}, err
	}
	if err := applyTransition(&item, entities.TriggerSubmit); err != nil {
		return entities.ContentItem{}, err
	}
	if err := applyTransition(&item, entities.TriggerEnqueue); err != nil {
		return entities.ContentItem{}, err
	}

	now := uc.Clock.Now().UTC()
	item.SubmittedAt = now
	item.UpdatedAt = now
	item.RevisionCount++
	item.RevisionRequestedAt = nil
	if err := uc.Repository.UpdateContent(ctx, item); err != nil {
		return entities.ContentItem{}, err
	}
	if err := uc.appendLifecycleEvent(ctx, "content.resubmitted", item); err != nil {
		return entities.ContentItem{}, err
	}

	logger.Info("content resubmitted",
		"event", "content_resubmitted",
		"module", "editorial/workflow-service",
		"layer", "application",
		"content_id", item.ContentID,
		"revision_count", item.RevisionCount,
	)
	return item, nil
}

func (uc SubmitContentUseCase) appendLifecycleEvent(ctx context.Context, eventType string, item entities.ContentItem) error {
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	occurredAt := uc.Clock.Now().UTC()
	return uc.Repository.AppendOutbox(ctx, newContentEnvelope(eventID, eventType, item.ContentID, occurredAt, map[string]any{
		"content_id":   item.ContentID,
		"title":        item.Title,
		"content_type": string(item.ContentType),
		"category":     item.Category,
		"priority":     string(item.Priority),
		"state":        string(item.State),
	}))
}
