package queries

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"vellum/contexts/editorial/workflow-service/domain/entities"
	"vellum/contexts/editorial/workflow-service/ports"
)

type ListQueueQuery struct {
	ContentType   string
	Priority      string
	SubmittedFrom time.Time
	SubmittedTo   time.Time
}

type EditorialStats struct {
	Pending  int
	Assigned int
	InReview int
	Approved int
	Rejected int
}

type QueryUseCase struct {
	Repository ports.Repository
	Logger     *slog.Logger
}

func (uc QueryUseCase) GetContent(ctx context.Context, contentID string) (entities.ContentItem, error) {
	return uc.Repository.GetContent(ctx, strings.TrimSpace(contentID))
}

// ListQueue returns queued content awaiting assignment, optionally filtered
// by content type, priority, and submission date range.
func (uc QueryUseCase) ListQueue(ctx context.Context, query ListQueueQuery) ([]entities.ContentItem, error) {
	return uc.Repository.ListContent(ctx, ports.ContentFilter{
		State:         entities.StateQueued,
		ContentType:   strings.ToLower(strings.TrimSpace(query.ContentType)),
		Priority:      strings.ToLower(strings.TrimSpace(query.Priority)),
		SubmittedFrom: query.SubmittedFrom,
		SubmittedTo:   query.SubmittedTo,
	})
}

// Stats aggregates lifecycle counts for the editorial dashboard. Pending
// covers submitted and queued items plus revision round-trips in flight.
func (uc QueryUseCase) Stats(ctx context.Context) (EditorialStats, error) {
	items, err := uc.Repository.ListContent(ctx, ports.ContentFilter{})
	if err != nil {
		return EditorialStats{}, err
	}
	var stats EditorialStats
	for _, item := range items {
		switch item.State {
		case entities.StateSubmitted, entities.StateQueued, entities.StateDraft, entities.StateRevisionRequested:
			stats.Pending++
		case entities.StateAssigned:
			stats.Assigned++
		case entities.StateInReview:
			stats.InReview++
		case entities.StateApproved:
			stats.Approved++
		case entities.StateRejected:
			stats.Rejected++
		}
	}
	return stats, nil
}
