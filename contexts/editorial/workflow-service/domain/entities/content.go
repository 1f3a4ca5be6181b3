package entities

import (
	"strings"
	"time"
)

type ContentState string

const (
	StateDraft             ContentState = "draft"
	StateSubmitted         ContentState = "submitted"
	StateQueued            ContentState = "queued"
	StateAssigned          ContentState = "assigned"
	StateInReview          ContentState = "in_review"
	StateApproved          ContentState = "approved"
	StateRejected          ContentState = "rejected"
	StateRevisionRequested ContentState = "revision_requested"
)

// Terminal states are retained for audit and accept no further transitions.
func (s ContentState) Terminal() bool {
	return s == StateApproved || s == StateRejected
}

type ContentType string

const (
	ContentTypeVideo    ContentType = "video"
	ContentTypeDocument ContentType = "document"
	ContentTypeBook     ContentType = "book"
	ContentTypeArticle  ContentType = "article"
	ContentTypeCourse   ContentType = "course"
)

func (t ContentType) Valid() bool {
	switch t {
	case ContentTypeVideo, ContentTypeDocument, ContentTypeBook, ContentTypeArticle, ContentTypeCourse:
		return true
	default:
		return false
	}
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

type Trigger string

const (
	TriggerSubmit          Trigger = "submit"
	TriggerEnqueue         Trigger = "enqueue"
	TriggerAssign          Trigger = "assign"
	TriggerUnassign        Trigger = "unassign"
	TriggerStartReview     Trigger = "start_review"
	TriggerApprove         Trigger = "approve"
	TriggerReject          Trigger = "reject"
	TriggerRequestRevision Trigger = "request_revision"
	TriggerResubmit        Trigger = "resubmit"
)

type edge struct {
	from ContentState
	to   ContentState
}

// transitions is the canonical lifecycle graph. Every mutation must follow
// one of these edges; nothing skips a state.
var transitions = map[Trigger]edge{
	TriggerSubmit:          {from: StateDraft, to: StateSubmitted},
	TriggerEnqueue:         {from: StateSubmitted, to: StateQueued},
	TriggerAssign:          {from: StateQueued, to: StateAssigned},
	TriggerUnassign:        {from: StateAssigned, to: StateQueued},
	TriggerStartReview:     {from: StateAssigned, to: StateInReview},
	TriggerApprove:         {from: StateInReview, to: StateApproved},
	TriggerReject:          {from: StateInReview, to: StateRejected},
	TriggerRequestRevision: {from: StateInReview, to: StateRevisionRequested},
	TriggerResubmit:        {from: StateRevisionRequested, to: StateDraft},
}

// NextState resolves the target state for trigger fired from the given state.
// The second return is false when the edge is not part of the graph.
func NextState(from ContentState, trigger Trigger) (ContentState, bool) {
	e, exists := transitions[trigger]
	if !exists || e.from != from {
		return "", false
	}
	return e.to, true
}

type ContentItem struct {
	ContentID           string
	Title               string
	ContentType         ContentType
	Category            string
	AuthorID            string
	Priority            Priority
	State               ContentState
	EditorialNotes      string
	SubmittedAt         time.Time
	ApprovedAt          *time.Time
	ApprovedByUserID    string
	ApprovalNotes       string
	RejectedAt          *time.Time
	RejectedByUserID    string
	RejectionNotes      string
	RevisionRequestedAt *time.Time
	RevisionCount       int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (c ContentItem) ValidateSubmit() bool {
	return strings.TrimSpace(c.Title) != "" &&
		strings.TrimSpace(c.AuthorID) != "" &&
		strings.TrimSpace(c.Category) != "" &&
		c.ContentType.Valid() &&
		c.Priority.Valid()
}
