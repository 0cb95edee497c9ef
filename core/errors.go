package orchestration

import (
	"errors"
	"fmt"

	"github.com/koscakluka/ema-console/core/capture"
	"github.com/koscakluka/ema-console/core/collaborators"
)

type ErrorKind string

const (
	KindNone              ErrorKind = ""
	KindRejected          ErrorKind = "rejected"
	KindDeviceUnavailable ErrorKind = "device_unavailable"
	KindTransportFailure  ErrorKind = "transport_failure"
)

var (
	ErrBusy          = errors.New("another request is in flight")
	ErrInvalidState  = errors.New("action not allowed in current state")
	ErrMissingInput  = errors.New("missing input")
	ErrNotConfigured = errors.New("collaborator not configured")

	ErrNoAudio         = fmt.Errorf("%w: no captured audio", ErrMissingInput)
	ErrEmptyTranscript = fmt.Errorf("%w: transcript is empty", ErrMissingInput)
	ErrEmptyManualText = fmt.Errorf("%w: manual text is empty", ErrMissingInput)
	ErrNoPendingDraft  = fmt.Errorf("%w: no pending draft", ErrMissingInput)
)

// TransitionError is returned for every rejected or failed action.
type TransitionError struct {
	Action Action
	State  State
	Err    error
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s from %s: %v", e.Action, e.State, e.Err)
}

func (e *TransitionError) Unwrap() error { return e.Err }

// KindOf classifies err. Failures that are neither device nor transport
// related count as rejections.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, capture.ErrDeviceUnavailable):
		return KindDeviceUnavailable
	case errors.Is(err, collaborators.ErrTransportFailure):
		return KindTransportFailure
	}
	return KindRejected
}

// Result reports the outcome of one action. From and To are equal for
// rejections and failures.
type Result struct {
	Action Action
	From   State
	To     State
	Kind   ErrorKind
	Err    error
}

func (r Result) OK() bool { return r.Err == nil }
