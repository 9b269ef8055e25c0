package client

import (
	"errors"

	"github.com/dmitrijs2005/zeroos/internal/common"
)

var (
	ErrConfiguration = errors.New("configuration error")
	ErrUnavailable   = errors.New("server unavailable")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrNotFound      = errors.New("not found")
)

// RejectedError is an explicit failure result returned by the service.
// Error returns the service message unchanged.
type RejectedError struct {
	Op      string
	Message string
}

func (e *RejectedError) Error() string {
	return e.Message
}

// Is matches ErrNotFound when the service reports a missing record.
func (e *RejectedError) Is(target error) bool {
	return target == ErrNotFound && common.IsNotFoundMessage(e.Message)
}
