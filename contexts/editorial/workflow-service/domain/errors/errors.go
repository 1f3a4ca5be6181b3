package errors

import (
	"errors"
	"fmt"
)

var (
	ErrContentNotFound      = errors.New("content item not found")
	ErrInvalidContentInput  = errors.New("invalid content input")
	ErrInvalidTransition    = errors.New("invalid content state transition")
	ErrNotesRequired        = errors.New("editorial notes are required")
	ErrInsufficientReviews  = errors.New("review quorum not met")
	ErrRecommendationTooLow = errors.New("consolidated recommendation below approval threshold")
)

// TransitionError reports the offending content item, its current state, and
// the attempted trigger so callers can render a meaningful message. It
// unwraps to ErrInvalidTransition.
type TransitionError struct {
	ContentID string
	From      string
	Trigger   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid content state transition: content %s cannot %s from %s", e.ContentID, e.Trigger, e.From)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

func NewTransitionError(contentID string, from string, trigger string) error {
	return &TransitionError{ContentID: contentID, From: from, Trigger: trigger}
}
