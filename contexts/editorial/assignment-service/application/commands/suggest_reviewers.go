package commands

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	application "vellum/contexts/editorial/assignment-service/application"
	"vellum/contexts/editorial/assignment-service/ports"
)

// SuggestReviewersUseCase ranks reviewers for a content item: expertise must
// match the content category, then lighter workload wins, then higher rating,
// then longer idle time, then reviewer ID for a stable order.
type SuggestReviewersUseCase struct {
	Content   ports.ContentGateway
	Reviewers ports.ReviewerGateway
	Logger    *slog.Logger

	WorkloadCost int
}

func (uc SuggestReviewersUseCase) Execute(ctx context.Context, contentID string, limit int) ([]ports.ReviewerInfo, error) {
	logger := application.ResolveLogger(uc.Logger)
	info, err := uc.Content.GetContentInfo(ctx, strings.TrimSpace(contentID))
	if err != nil {
		return nil, err
	}

	cost := uc.WorkloadCost
	if cost <= 0 {
		cost = defaultWorkloadCost
	}
	candidates, err := uc.Reviewers.AvailableReviewers(ctx, info.Category, cost)
	if err != nil {
		return nil, err
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Workload != b.Workload {
			return a.Workload < b.Workload
		}
		if a.Rating != b.Rating {
			return a.Rating > b.Rating
		}
		if !a.LastActiveAt.Equal(b.LastActiveAt) {
			return a.LastActiveAt.Before(b.LastActiveAt)
		}
		return a.ReviewerID < b.ReviewerID
	})
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	logger.Info("reviewer suggestions computed",
		"event", "reviewer_suggestions_computed",
		"module", "editorial/assignment-service",
		"layer", "application",
		"content_id", info.ContentID,
		"category", info.Category,
		"candidate_count", len(candidates),
	)
	return candidates, nil
}
