package ports

import (
	"context"
	"time"

	"vellum/contexts/editorial/assignment-service/domain/entities"
)

type AssignmentFilter struct {
	Status      entities.AssignmentStatus
	DueFrom     time.Time
	DueTo       time.Time
	OverdueOnly bool
}

type Repository interface {
	CreateAssignment(ctx context.Context, assignment entities.Assignment) error
	UpdateAssignment(ctx context.Context, assignment entities.Assignment) error
	GetAssignment(ctx context.Context, assignmentID string) (entities.Assignment, error)
	// GetActiveByContent returns the single active assignment for the content
	// item; the boolean is false when none exists.
	GetActiveByContent(ctx context.Context, contentID string) (entities.Assignment, bool, error)
	ListAssignments(ctx context.Context, filter AssignmentFilter) ([]entities.Assignment, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// ContentInfo is the slice of workflow state this service needs to decide
// whether content can be assigned.
type ContentInfo struct {
	ContentID string
	State     string
	Category  string
	Priority  string
}

type ContentGateway interface {
	GetContentInfo(ctx context.Context, contentID string) (ContentInfo, error)
	MarkAssigned(ctx context.Context, contentID string) error
	MarkQueued(ctx context.Context, contentID string) error
}

// ReviewerInfo mirrors the registry's view of a reviewer for matching.
type ReviewerInfo struct {
	ReviewerID   string
	Expertise    []string
	Available    bool
	Workload     int
	Rating       float64
	LastActiveAt time.Time
}

type ReviewerGateway interface {
	// AvailableReviewers lists available reviewers matching the expertise tag
	// with at least minCapacity workload headroom.
	AvailableReviewers(ctx context.Context, expertise string, minCapacity int) ([]ReviewerInfo, error)
	// Reserve adds workload for an accepted assignment; it fails without side
	// effects when the reviewer is unavailable or the ceiling would be crossed.
	Reserve(ctx context.Context, reviewerID string, cost int) error
	Release(ctx context.Context, reviewerID string, cost int) error
}
