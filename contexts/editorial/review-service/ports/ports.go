package ports

import (
	"context"
	"time"

	"vellum/contexts/editorial/review-service/domain/entities"
)

type Repository interface {
	// UpsertReview stores the review, replacing any earlier review by the
	// same reviewer on the same assignment. The boolean reports whether an
	// existing review was overwritten.
	UpsertReview(ctx context.Context, review entities.Review) (bool, error)
	GetReviewByIdentity(ctx context.Context, assignmentID, reviewerID string) (entities.Review, error)
	ListByAssignment(ctx context.Context, assignmentID string) ([]entities.Review, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// AssignmentInfo is the assignment engine's view needed to admit a review.
type AssignmentInfo struct {
	AssignmentID string
	ContentID    string
	ReviewerIDs  []string
	Active       bool
}

type AssignmentGateway interface {
	GetAssignment(ctx context.Context, assignmentID string) (AssignmentInfo, error)
}

type WorkflowGateway interface {
	// StartReview moves the content into review when the first verdict lands.
	StartReview(ctx context.Context, contentID string) error
}

type ReviewerGateway interface {
	// RecordCompletedReview updates the reviewer's track record once per
	// distinct review; overwrites do not count again.
	RecordCompletedReview(ctx context.Context, reviewerID string, rejected bool) error
}
