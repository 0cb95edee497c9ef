package collaborators

import (
	"errors"
	"fmt"
)

// ErrTransportFailure matches every network, HTTP status or decode failure
// returned by the collaborator clients.
var ErrTransportFailure = errors.New("transport failure")

// TransportError describes a failed collaborator request.
type TransportError struct {
	Endpoint   string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transport failure: %s (HTTP %d): %v", e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("transport failure: %s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransportFailure }
