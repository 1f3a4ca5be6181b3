package errors

import "errors"

var (
	ErrAssignmentNotFound     = errors.New("assignment not found")
	ErrNoActiveAssignment     = errors.New("no active assignment for content")
	ErrActiveAssignmentExists = errors.New("content already has an active assignment")
	ErrInvalidContentState    = errors.New("content is not in an assignable state")
	ErrReviewerUnavailable    = errors.New("reviewer unavailable or at capacity")
	ErrDuplicateReviewer      = errors.New("duplicate reviewer in assignment")
	ErrNoReviewers            = errors.New("assignment requires at least one reviewer")
	ErrInvalidAssignmentInput = errors.New("invalid assignment input")
	ErrDeadlineNotExtended    = errors.New("new deadline must be after the current one")
)
