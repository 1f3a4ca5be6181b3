package entities

import (
	"strings"
	"time"
)

// Reviewer tracks capability data consumed by assignment: expertise tags,
// availability, and a normalized 0-100 workload counter.
type Reviewer struct {
	ReviewerID       string
	DisplayName      string
	Expertise        []string
	Available        bool
	Workload         int
	Rating           float64
	CompletedReviews int
	RejectedReviews  int
	LastActiveAt     time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (r Reviewer) ValidateRegister() bool {
	return strings.TrimSpace(r.DisplayName) != ""
}

func (r Reviewer) HasExpertise(tag string) bool {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return false
	}
	for _, item := range r.Expertise {
		if strings.ToLower(strings.TrimSpace(item)) == tag {
			return true
		}
	}
	return false
}

// RejectionRate is the lifetime share of this reviewer's reviews that
// recommended rejection.
func (r Reviewer) RejectionRate() float64 {
	if r.CompletedReviews == 0 {
		return 0
	}
	return float64(r.RejectedReviews) / float64(r.CompletedReviews)
}
