package client

// result is the wire form of a service reply that either succeeds with a
// payload ({"Ok": ...}) or fails with a message ({"Err": "..."}).
type result[T any] struct {
	Ok  *T      `json:"Ok,omitempty"`
	Err *string `json:"Err,omitempty"`
}

// empty is the payload of replies that carry nothing on success.
type empty struct{}

func (r result[T]) unwrap(op string) (T, error) {
	var zero T
	if r.Err != nil {
		return zero, &RejectedError{Op: op, Message: *r.Err}
	}
	if r.Ok == nil {
		return zero, nil
	}
	return *r.Ok, nil
}
