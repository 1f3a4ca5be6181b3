package ports

import (
	"context"
	"time"

	"vellum/contexts/editorial/reviewer-registry/domain/entities"
)

type ReviewerFilter struct {
	Expertise     string
	AvailableOnly bool
	MaxWorkload   int // inclusive bound; negative means unbounded
}

type Repository interface {
	CreateReviewer(ctx context.Context, reviewer entities.Reviewer) error
	UpdateReviewer(ctx context.Context, reviewer entities.Reviewer) error
	GetReviewer(ctx context.Context, reviewerID string) (entities.Reviewer, error)
	ListReviewers(ctx context.Context, filter ReviewerFilter) ([]entities.Reviewer, error)
	// AdjustWorkload applies delta atomically per reviewer. Positive deltas
	// fail with ErrReviewerUnavailable when the reviewer is unavailable and
	// with ErrCapacityExceeded when the result would pass ceiling; negative
	// deltas clamp at zero.
	AdjustWorkload(ctx context.Context, reviewerID string, delta int, ceiling int) (entities.Reviewer, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
