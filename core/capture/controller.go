package capture

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/koscakluka/ema-console/core/audio"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Device is a capture device with explicit start/stop controls.
type Device interface {
	StartCapture(ctx context.Context, onAudio func(audio []byte)) error
	StopCapture() error
	EncodingInfo() audio.EncodingInfo
}

// Controller manages the lifecycle of a single capture-device session and
// turns the buffered chunks into one recording when the session ends.
type Controller struct {
	device Device
	now    func() time.Time

	mu      sync.Mutex
	active  bool
	session int
	chunks  [][]byte
}

type Option func(*Controller)

func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// NewController creates a controller for device. A nil device is allowed: every
// Begin then fails with ErrDeviceUnavailable.
func NewController(device Device, opts ...Option) *Controller {
	c := &Controller{device: device, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) IsActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Begin acquires the device and starts buffering audio.
func (c *Controller) Begin(ctx context.Context) error {
	_, span := tracer.Start(ctx, "begin capture")
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active {
		span.RecordError(ErrCaptureActive)
		span.SetStatus(codes.Error, ErrCaptureActive.Error())
		return ErrCaptureActive
	}
	if c.device == nil {
		err := fmt.Errorf("%w: no capture device configured", ErrDeviceUnavailable)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	c.session++
	session := c.session
	c.chunks = nil
	c.active = true
	c.mu.Unlock()

	// The session outlives this call; cancelling ctx must not stop capture.
	err := c.device.StartCapture(context.WithoutCancel(ctx), func(chunk []byte) { c.buffer(session, chunk) })

	c.mu.Lock()
	if err != nil {
		c.active = false
		c.chunks = nil
		err = fmt.Errorf("%w: %w", ErrDeviceUnavailable, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	logger.Debug("capture started", "session", session)
	return nil
}

// End stops buffering, releases the device and returns the finished
// recording. Calling End without an active session is a no-op that returns a
// nil recording. A device that fails to stop cleanly still yields the audio
// captured so far, alongside the error.
func (c *Controller) End(ctx context.Context) (*audio.Recording, error) {
	_, span := tracer.Start(ctx, "end capture")
	defer span.End()

	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return nil, nil
	}
	c.active = false
	c.mu.Unlock()

	stopErr := c.device.StopCapture()

	c.mu.Lock()
	chunks := c.chunks
	c.chunks = nil
	c.session++
	c.mu.Unlock()

	recording := audio.NewRecording(chunks, c.device.EncodingInfo(), c.now())
	span.SetAttributes(
		attribute.Int("capture.chunks", len(chunks)),
		attribute.Int("capture.bytes", len(recording.Data)),
	)
	if stopErr != nil {
		stopErr = fmt.Errorf("failed to stop capture device: %w", stopErr)
		span.RecordError(stopErr)
		span.SetStatus(codes.Error, stopErr.Error())
		return recording, stopErr
	}

	logger.Debug("capture ended", "bytes", len(recording.Data), "duration", recording.Duration())
	return recording, nil
}

func (c *Controller) buffer(session int, chunk []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Late callbacks from a finished session are dropped.
	if !c.active || session != c.session {
		return
	}

	// Drivers reuse their buffers between callbacks.
	c.chunks = append(c.chunks, append([]byte(nil), chunk...))
}
