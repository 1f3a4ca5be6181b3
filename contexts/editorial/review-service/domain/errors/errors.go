package errors

import "errors"

var (
	ErrReviewNotFound     = errors.New("review not found")
	ErrNotAssigned        = errors.New("reviewer is not assigned to this content")
	ErrInvalidReviewInput = errors.New("invalid review input")
	ErrScoreOutOfRange    = errors.New("score outside the 0-10 range")
)
