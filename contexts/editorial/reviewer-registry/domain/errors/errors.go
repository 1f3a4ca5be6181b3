package errors

import "errors"

var (
	ErrReviewerNotFound     = errors.New("reviewer not found")
	ErrInvalidReviewerInput = errors.New("invalid reviewer input")
	ErrCapacityExceeded     = errors.New("reviewer workload capacity exceeded")
	ErrReviewerUnavailable  = errors.New("reviewer is not available")
)
