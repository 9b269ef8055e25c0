package common

import "errors"

// ErrorNotFound is the suffix the remote service uses for missing records.
var ErrorNotFound = errors.New("not found")
