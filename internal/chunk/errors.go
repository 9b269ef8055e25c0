package chunk

import "errors"

var (
	ErrInvalidSize        = errors.New("chunk size must be positive")
	ErrIncompleteTransfer = errors.New("incomplete transfer")
)
