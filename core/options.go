package orchestration

import (
	"context"
	"time"

	"github.com/koscakluka/ema-console/core/activitylog"
	"github.com/koscakluka/ema-console/core/audio"
	"github.com/koscakluka/ema-console/core/events"
	"github.com/koscakluka/ema-console/core/replies"
	"github.com/koscakluka/ema-console/core/styles"
)

type OrchestratorOption func(*Orchestrator)

type CaptureController interface {
	Begin(ctx context.Context) error
	End(ctx context.Context) (*audio.Recording, error)
	IsActive() bool
}

// WithCaptureController sets the microphone session owner. Without one every
// capture attempt fails as device unavailable.
func WithCaptureController(controller CaptureController) OrchestratorOption {
	return func(o *Orchestrator) {
		if controller != nil {
			o.capture = controller
		}
	}
}

type Transcriber interface {
	Transcribe(ctx context.Context, recording *audio.Recording) (replies.Reply, error)
}

func WithTranscriber(client Transcriber) OrchestratorOption {
	return func(o *Orchestrator) { o.transcriber = client }
}

// Relay routes text through the message relay. Forward takes transcripts and
// confirmation tokens; Submit takes raw manual input.
type Relay interface {
	Forward(ctx context.Context, text, source string) (replies.Reply, error)
	Submit(ctx context.Context, text, source string) (replies.Reply, error)
}

func WithRelay(client Relay) OrchestratorOption {
	return func(o *Orchestrator) { o.relay = client }
}

type Drafter interface {
	Restyle(ctx context.Context, style styles.Style) (replies.Reply, error)
}

func WithDrafter(client Drafter) OrchestratorOption {
	return func(o *Orchestrator) { o.drafter = client }
}

func WithLogCapacity(capacity int) OrchestratorOption {
	return func(o *Orchestrator) { o.logCapacity = capacity }
}

// WithRequestTimeout bounds every collaborator request. By default requests
// are not bounded and an unresolved request keeps the session busy.
func WithRequestTimeout(timeout time.Duration) OrchestratorOption {
	return func(o *Orchestrator) { o.requestTimeout = timeout }
}

func WithDefaultStyle(style styles.Style) OrchestratorOption {
	return func(o *Orchestrator) {
		if style.IsValid() {
			o.session.SelectedStyle = style
		}
	}
}

func WithClock(now func() time.Time) OrchestratorOption {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// WithEventHandler receives every session event after the change it
// describes was committed.
func WithEventHandler(handler func(events.Event)) OrchestratorOption {
	return func(o *Orchestrator) {
		if handler != nil {
			o.emitters = append(o.emitters, handler)
		}
	}
}

type callbackOptions struct {
	onStateChanged      func(from, to State)
	onBusyChanged       func(busy bool)
	onTranscriptUpdated func(transcript string)
	onDraftUpdated      func(draft *replies.Draft)
	onActivity          func(entry activitylog.Entry)
}

type CallbackOption func(*callbackOptions)

func WithCallbacks(opts ...CallbackOption) OrchestratorOption {
	return func(o *Orchestrator) {
		options := callbackOptions{}
		for _, opt := range opts {
			opt(&options)
		}
		o.emitters = append(o.emitters, newCallbackEventEmitter(options))
	}
}

func WithStateChangedCallback(callback func(from, to State)) CallbackOption {
	return func(o *callbackOptions) { o.onStateChanged = callback }
}

func WithBusyChangedCallback(callback func(busy bool)) CallbackOption {
	return func(o *callbackOptions) { o.onBusyChanged = callback }
}

func WithTranscriptCallback(callback func(transcript string)) CallbackOption {
	return func(o *callbackOptions) { o.onTranscriptUpdated = callback }
}

// WithDraftCallback is called with nil when the pending draft is cleared.
func WithDraftCallback(callback func(draft *replies.Draft)) CallbackOption {
	return func(o *callbackOptions) { o.onDraftUpdated = callback }
}

func WithActivityCallback(callback func(entry activitylog.Entry)) CallbackOption {
	return func(o *callbackOptions) { o.onActivity = callback }
}
