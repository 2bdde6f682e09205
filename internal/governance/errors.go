package governance

import (
	"errors"
	"fmt"
)

// ErrTimedOut marks a scoring call that exceeded the configured deadline.
// The upstream service's latency is unbounded, so every call carries one.
var ErrTimedOut = errors.New("scoring request timed out")

// ErrMalformedResponse marks a 2xx response whose body could not be parsed
// as the expected shape. Surfaced to users as a generic unknown error.
var ErrMalformedResponse = errors.New("malformed scoring response")

// ServiceError is a non-success status from the scoring service. Message is
// taken from the response's {error} body when present and is surfaced to the
// user verbatim.
type ServiceError struct {
	Status  int
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("scoring service returned %d: %s", e.Status, e.Message)
}

// NetworkError is a transport-level failure: the request never produced a
// response. The operation is abandoned; there are no automatic retries.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("scoring service unreachable: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
