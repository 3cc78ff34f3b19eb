package fare

import (
	"errors"
	"fmt"
)

// ErrNoFare means the source answered but found no fare for the requested
// flights. Not retryable within a cycle.
var ErrNoFare = errors.New("no fare found for the requested flights")

// ValidationError marks malformed fetch input. Never retried.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// TransientError marks a retryable fetch failure: timeout, rate limiting,
// or a transport problem on the way to the source.
type TransientError struct {
	Reason string
	Err    error
}

func (e *TransientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// IsPermanent reports whether an error must not be retried.
func IsPermanent(err error) bool {
	var v *ValidationError
	return errors.As(err, &v) || errors.Is(err, ErrNoFare)
}
