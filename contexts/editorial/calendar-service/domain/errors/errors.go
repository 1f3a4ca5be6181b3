package errors

import "errors"

var ErrInvalidRequest = errors.New("invalid calendar request")
