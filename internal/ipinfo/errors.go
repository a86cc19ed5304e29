package ipinfo

import (
	"errors"
	"fmt"
)

// RequestFailedMessage is reported for any lookup answered with a non-2xx status.
const RequestFailedMessage = "Failed to fetch IP information"

// ErrRequestFailed matches every [*StatusError].
var ErrRequestFailed = errors.New("request failed")

var errNoRecord = errors.New("response holds no IP information record")

// StatusError reports a lookup answered with a non-2xx HTTP status.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return RequestFailedMessage
}

func (e *StatusError) Is(target error) bool {
	return target == ErrRequestFailed
}

// Status describes the HTTP status that caused the failure.
func (e *StatusError) Status() string {
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// TransportError reports a lookup that could not reach the backend or decode its answer.
// Its message is the message of the underlying error.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
