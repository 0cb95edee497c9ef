package events

import "time"

const (
	// KindCaptureStarted identifies the start of microphone capture.
	KindCaptureStarted Kind = "capture.started"
	// KindCaptureStopped identifies the end of microphone capture.
	KindCaptureStopped Kind = "capture.stopped"
)

// CaptureStarted marks the start of a capture session.
type CaptureStarted struct{ Base }

// NewCaptureStarted creates a capture started event.
func NewCaptureStarted() CaptureStarted {
	return CaptureStarted{Base: NewBase(KindCaptureStarted)}
}

// CaptureStopped marks the end of a capture session.
type CaptureStopped struct {
	Base
	Duration time.Duration
	Bytes    int
}

// NewCaptureStopped creates a capture stopped event.
func NewCaptureStopped(duration time.Duration, bytes int) CaptureStopped {
	return CaptureStopped{Base: NewBase(KindCaptureStopped), Duration: duration, Bytes: bytes}
}
