package capture

import "errors"

var (
	// ErrDeviceUnavailable is returned when the platform denies or lacks a
	// capture device.
	ErrDeviceUnavailable = errors.New("capture device unavailable")
	// ErrCaptureActive is returned by Begin while a capture session is
	// already holding the device.
	ErrCaptureActive = errors.New("capture session already active")
)
