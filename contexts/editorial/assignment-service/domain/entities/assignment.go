package entities

import "time"

type AssignmentStatus string

const (
	StatusActive    AssignmentStatus = "active"
	StatusCompleted AssignmentStatus = "completed"
	StatusWithdrawn AssignmentStatus = "withdrawn"
)

func (s AssignmentStatus) Valid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusWithdrawn:
		return true
	default:
		return false
	}
}

// Assignment binds a content item to the reviewers responsible for it. At most
// one active assignment exists per content item.
type Assignment struct {
	AssignmentID string
	ContentID    string
	ReviewerIDs  []string
	Notes        string
	Deadline     time.Time
	Status       AssignmentStatus
	Overdue      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	ReleasedAt   *time.Time
}

func (a Assignment) Active() bool {
	return a.Status == StatusActive
}

// HasReviewer reports whether the reviewer participates in this assignment.
func (a Assignment) HasReviewer(reviewerID string) bool {
	for _, id := range a.ReviewerIDs {
		if id == reviewerID {
			return true
		}
	}
	return false
}

// DueBefore reports whether the deadline has passed at the given instant.
func (a Assignment) DueBefore(now time.Time) bool {
	return !a.Deadline.IsZero() && a.Deadline.Before(now)
}
