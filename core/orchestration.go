package orchestration

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/koscakluka/ema-console/core/activitylog"
	"github.com/koscakluka/ema-console/core/audio"
	"github.com/koscakluka/ema-console/core/capture"
	"github.com/koscakluka/ema-console/core/collaborators"
	"github.com/koscakluka/ema-console/core/events"
	"github.com/koscakluka/ema-console/core/replies"
	"github.com/koscakluka/ema-console/core/styles"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Orchestrator drives one voice-to-email session. Every method may be called
// from any goroutine; collaborator requests run outside the session lock and
// the in-flight gate admits one state-changing action at a time.
type Orchestrator struct {
	mu      sync.Mutex
	session Session
	gate    inflight
	log     *activitylog.Log

	capture     CaptureController
	transcriber Transcriber
	relay       Relay
	drafter     Drafter

	emitters       []eventEmitter
	logCapacity    int
	requestTimeout time.Duration
	now            func() time.Time
}

func NewOrchestrator(opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		session: Session{
			ID:            uuid.NewString(),
			State:         StateIdle,
			SelectedStyle: styles.Default,
		},
		capture:     capture.NewController(nil),
		logCapacity: activitylog.DefaultCapacity,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.log = activitylog.New(o.logCapacity, activitylog.WithClock(o.now))

	return o
}

func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.session.State
}

// Activity returns the activity log, newest first.
func (o *Orchestrator) Activity() []activitylog.Entry { return o.log.Entries() }

// Can reports whether action would currently be admitted.
func (o *Orchestrator) Can(action Action) bool {
	t, ok := transitions[action]
	if !ok || !o.configured(action) {
		return false
	}
	if action != ActionEditTranscript && o.gate.isHeld() {
		return false
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	return t.allows(&o.session) == nil
}

func (o *Orchestrator) BeginCapture(ctx context.Context) Result {
	ctx, span := tracer.Start(ctx, "begin capture")
	defer span.End()

	from, release, err := o.start(ActionBeginCapture, nil)
	if err != nil {
		return o.reject(ActionBeginCapture, from, err)
	}
	defer release()

	if err := o.capture.Begin(ctx); err != nil {
		return o.fail(ctx, ActionBeginCapture, from, release, err, "Could not start recording")
	}

	return o.commit(ActionBeginCapture, from, release, nil, func(*Session) change {
		return change{
			level:   activitylog.LevelInfo,
			message: "Recording started",
			events:  []events.Event{events.NewCaptureStarted()},
		}
	})
}

// EndCapture stops the microphone. A recording with audio replaces any
// earlier one; an empty or missing recording keeps the earlier one. Without
// any audio to transcribe the session returns to idle.
func (o *Orchestrator) EndCapture(ctx context.Context) Result {
	ctx, span := tracer.Start(ctx, "end capture")
	defer span.End()

	from, release, err := o.start(ActionEndCapture, nil)
	if err != nil {
		return o.reject(ActionEndCapture, from, err)
	}
	defer release()

	recording, stopErr := o.capture.End(ctx)
	if recording == nil && stopErr != nil {
		return o.fail(ctx, ActionEndCapture, from, release, stopErr, "Could not stop recording")
	}
	if stopErr != nil {
		span.RecordError(stopErr)
	}

	return o.commit(ActionEndCapture, from, release, nil, func(s *Session) change {
		if recording == nil {
			return change{draft: s.PendingDraft, level: activitylog.LevelWarn, message: "No active recording; keeping previous audio"}
		}

		c := change{
			draft:   s.PendingDraft,
			level:   activitylog.LevelInfo,
			message: fmt.Sprintf("Recording stopped (%s captured)", recording.Duration().Round(100*time.Millisecond)),
			events:  []events.Event{events.NewCaptureStopped(recording.Duration(), len(recording.Data))},
		}
		if recording.IsEmpty() {
			c.level, c.message = activitylog.LevelWarn, "Recording stopped but no audio was captured"
			if !s.CapturedAudio.IsEmpty() {
				c.message += "; keeping previous audio"
			}
		} else {
			s.CapturedAudio = recording
		}
		if stopErr != nil {
			c.level = activitylog.LevelWarn
			c.message += fmt.Sprintf("; device did not stop cleanly: %v", stopErr)
		}
		return c
	})
}

func (o *Orchestrator) Transcribe(ctx context.Context) Result {
	ctx, span := tracer.Start(ctx, "transcribe")
	defer span.End()

	if o.transcriber == nil {
		return o.reject(ActionTranscribe, o.State(), fmt.Errorf("%w: transcriber", ErrNotConfigured))
	}

	var recording *audio.Recording
	from, release, err := o.start(ActionTranscribe, func(s *Session) { recording = s.CapturedAudio })
	if err != nil {
		return o.reject(ActionTranscribe, from, err)
	}
	defer release()

	requestCtx, cancel := o.requestContext(ctx)
	defer cancel()
	reply, err := o.transcriber.Transcribe(requestCtx, recording)
	if err != nil {
		return o.fail(ctx, ActionTranscribe, from, release, transportFailure(err), "Transcription failed")
	}

	transcript := replies.ExtractTranscript(reply)
	draft := replies.ExtractDraft(reply)
	span.SetAttributes(attribute.Int("transcript.length", len(transcript)))

	return o.commit(ActionTranscribe, from, release, reply, func(s *Session) change {
		s.Transcript = transcript
		s.OriginalTranscript = transcript
		s.PendingDraft = nil

		if draft.Actionable() {
			s.PendingDraft = draft
			return change{draft: draft, level: activitylog.LevelInfo, message: "Draft ready: " + describeDraft(draft)}
		}
		if transcript == "" {
			return change{level: activitylog.LevelWarn, message: "Transcription returned no transcript"}
		}
		return change{level: activitylog.LevelInfo, message: fmt.Sprintf("Transcribed: %q", transcript)}
	})
}

// Forward sends the (possibly edited) transcript to the relay.
func (o *Orchestrator) Forward(ctx context.Context) Result {
	ctx, span := tracer.Start(ctx, "forward transcript")
	defer span.End()

	if o.relay == nil {
		return o.reject(ActionForward, o.State(), fmt.Errorf("%w: relay", ErrNotConfigured))
	}

	var text string
	from, release, err := o.start(ActionForward, func(s *Session) { text = strings.TrimSpace(s.Transcript) })
	if err != nil {
		return o.reject(ActionForward, from, err)
	}
	defer release()

	requestCtx, cancel := o.requestContext(ctx)
	defer cancel()
	reply, err := o.relay.Forward(requestCtx, text, collaborators.SourceVoice)
	if err != nil {
		return o.fail(ctx, ActionForward, from, release, transportFailure(err), "Forward failed")
	}

	draft := replies.ExtractDraft(reply)
	return o.commit(ActionForward, from, release, reply, func(s *Session) change {
		return adoptDraft(s, draft, "Transcript forwarded")
	})
}

// SubmitManual posts the manual text through the relay's webhook entry
// point, independently of the voice path. Submitted while recording, the
// session stays in recording and a returned draft waits for the capture to
// end.
func (o *Orchestrator) SubmitManual(ctx context.Context) Result {
	ctx, span := tracer.Start(ctx, "submit manual text")
	defer span.End()

	if o.relay == nil {
		return o.reject(ActionSubmitManual, o.State(), fmt.Errorf("%w: relay", ErrNotConfigured))
	}

	var text string
	from, release, err := o.start(ActionSubmitManual, func(s *Session) { text = strings.TrimSpace(s.ManualText) })
	if err != nil {
		return o.reject(ActionSubmitManual, from, err)
	}
	defer release()

	requestCtx, cancel := o.requestContext(ctx)
	defer cancel()
	reply, err := o.relay.Submit(requestCtx, text, collaborators.SourceManual)
	if err != nil {
		return o.fail(ctx, ActionSubmitManual, from, release, transportFailure(err), "Submit failed")
	}

	draft := replies.ExtractDraft(reply)
	return o.commit(ActionSubmitManual, from, release, reply, func(s *Session) change {
		s.ManualText = ""
		return adoptDraft(s, draft, "Manual message submitted")
	})
}

// ApplyStyle restyles the pending draft with the selected style. Only the
// styled body and applied styles of the draft change.
func (o *Orchestrator) ApplyStyle(ctx context.Context) Result {
	ctx, span := tracer.Start(ctx, "apply style")
	defer span.End()

	if o.drafter == nil {
		return o.reject(ActionApplyStyle, o.State(), fmt.Errorf("%w: drafter", ErrNotConfigured))
	}

	var current *replies.Draft
	var style styles.Style
	from, release, err := o.start(ActionApplyStyle, func(s *Session) {
		current = s.PendingDraft
		style = s.SelectedStyle
	})
	if err != nil {
		return o.reject(ActionApplyStyle, from, err)
	}
	defer release()
	span.SetAttributes(attribute.String("draft.style", style.String()))

	requestCtx, cancel := o.requestContext(ctx)
	defer cancel()
	reply, err := o.drafter.Restyle(requestCtx, style)
	if err != nil {
		return o.fail(ctx, ActionApplyStyle, from, release, transportFailure(err), "Styling failed")
	}

	styled := replies.ExtractStyledDraft(reply)
	return o.commit(ActionApplyStyle, from, release, reply, func(s *Session) change {
		if styled == nil {
			return change{draft: current, level: activitylog.LevelWarn, message: fmt.Sprintf("Style %s returned no draft", style)}
		}

		body := styled.StyledBody
		if body == "" {
			body = styled.RawBody
		}
		applied := styled.AppliedStyles
		if len(applied) == 0 {
			applied = appendStyle(current.AppliedStyles, style)
		}

		s.PendingDraft = current.WithStyle(body, applied)
		return change{draft: s.PendingDraft, level: activitylog.LevelInfo, message: fmt.Sprintf("Applied %s style", style)}
	})
}

// Decide sends "yes" or "no" for the pending draft. A reply carrying a new
// actionable draft keeps the session awaiting a decision.
func (o *Orchestrator) Decide(ctx context.Context, confirm bool) Result {
	ctx, span := tracer.Start(ctx, "decide draft")
	defer span.End()
	span.SetAttributes(attribute.Bool("draft.confirm", confirm))

	if o.relay == nil {
		return o.reject(ActionDecide, o.State(), fmt.Errorf("%w: relay", ErrNotConfigured))
	}

	from, release, err := o.start(ActionDecide, nil)
	if err != nil {
		return o.reject(ActionDecide, from, err)
	}
	defer release()

	token := "no"
	if confirm {
		token = "yes"
	}

	requestCtx, cancel := o.requestContext(ctx)
	defer cancel()
	reply, err := o.relay.Forward(requestCtx, token, collaborators.SourceVoice)
	if err != nil {
		return o.fail(ctx, ActionDecide, from, release, transportFailure(err), "Confirmation failed")
	}

	draft := replies.ExtractDraft(reply)
	return o.commit(ActionDecide, from, release, reply, func(s *Session) change {
		if draft.Actionable() {
			s.PendingDraft = draft
			return change{draft: draft, level: activitylog.LevelInfo, message: "Follow-up draft: " + describeDraft(draft)}
		}

		s.PendingDraft = nil
		if confirm {
			return change{level: activitylog.LevelInfo, message: "Draft confirmed"}
		}
		return change{level: activitylog.LevelInfo, message: "Draft cancelled"}
	})
}

// SelectStyle is available in every state, including while busy.
func (o *Orchestrator) SelectStyle(style styles.Style) error {
	if !style.IsValid() {
		return fmt.Errorf("unknown style %q", style)
	}

	o.mu.Lock()
	o.session.SelectedStyle = style
	o.mu.Unlock()
	return nil
}

// CycleStyle selects the style after the current one and returns it.
func (o *Orchestrator) CycleStyle() styles.Style {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.session.SelectedStyle = o.session.SelectedStyle.Next()
	return o.session.SelectedStyle
}

// SetManualText is available in every state, including while busy.
func (o *Orchestrator) SetManualText(text string) {
	o.mu.Lock()
	o.session.ManualText = text
	o.mu.Unlock()
}

// SetTranscript replaces the transcript before it is forwarded. The original
// transcript is kept.
func (o *Orchestrator) SetTranscript(text string) error {
	o.mu.Lock()
	from := o.session.State
	if err := transitions[ActionEditTranscript].allows(&o.session); err != nil {
		o.mu.Unlock()
		return &TransitionError{Action: ActionEditTranscript, State: from, Err: err}
	}
	changed := o.session.Transcript != text
	o.session.Transcript = text
	o.mu.Unlock()

	if changed {
		o.emit(events.NewTranscriptUpdated(text))
	}
	return nil
}

// Close releases the capture device if a recording is still running.
func (o *Orchestrator) Close(ctx context.Context) error {
	if !o.capture.IsActive() {
		return nil
	}
	_, err := o.capture.End(ctx)
	return err
}

// change describes a successful completion. draft is the actionable draft the
// session holds afterwards, if any; it selects the resulting state.
type change struct {
	draft   *replies.Draft
	level   activitylog.Level
	message string
	events  []events.Event
}

// start claims the gate and validates action against the session. Network
// actions move the session to their in-flight state and mark it busy. read
// runs under the session lock to capture the request inputs.
func (o *Orchestrator) start(action Action, read func(*Session)) (State, func(), error) {
	t := transitions[action]

	release, ok := o.gate.acquire()
	if !ok {
		return o.State(), nil, ErrBusy
	}

	o.mu.Lock()
	from := o.session.State
	if err := t.allows(&o.session); err != nil {
		o.mu.Unlock()
		release()
		return from, nil, err
	}
	if read != nil {
		read(&o.session)
	}
	if !t.isNetwork() {
		o.mu.Unlock()
		return from, release, nil
	}
	inFlight := t.inFlightFrom(from)
	o.session.State = inFlight
	o.session.Busy = true
	o.session.InFlight = action
	o.mu.Unlock()

	pending := []events.Event{}
	if inFlight != from {
		pending = append(pending, events.NewStateChanged(action.String(), from.String(), inFlight.String()))
	}
	o.emit(append(pending, events.NewBusyChanged(action.String(), true))...)
	return from, release, nil
}

func (o *Orchestrator) commit(action Action, from State, release func(), reply replies.Reply, apply func(*Session) change) Result {
	t := transitions[action]

	o.mu.Lock()
	current := o.session.State
	previousTranscript := o.session.Transcript
	previousDraft := o.session.PendingDraft

	c := apply(&o.session)
	to := t.settle(current, &o.session, c.draft)
	wasBusy := o.session.Busy
	o.session.State = to
	o.session.Busy = false
	o.session.InFlight = ""
	if reply != nil {
		o.session.LastResult = reply
	}
	transcript := o.session.Transcript
	draft := o.session.PendingDraft
	o.mu.Unlock()
	release()

	pending := []events.Event{}
	if reply != nil {
		pending = append(pending, events.NewReplyReceived(action.String(), reply))
	}
	if transcript != previousTranscript {
		pending = append(pending, events.NewTranscriptUpdated(transcript))
	}
	if draft != previousDraft {
		pending = append(pending, events.NewDraftUpdated(draft))
	}
	pending = append(pending, c.events...)
	if current != to {
		pending = append(pending, events.NewStateChanged(action.String(), current.String(), to.String()))
	}
	if wasBusy {
		pending = append(pending, events.NewBusyChanged(action.String(), false))
	}
	if c.message != "" {
		pending = append(pending, events.NewActivityLogged(o.log.Append(c.level, c.message)))
	}
	o.emit(pending...)

	logger.Debug("action completed", "action", action, "from", from, "to", to)
	return Result{Action: action, From: from, To: to}
}

// fail restores the state held before action started and logs err.
func (o *Orchestrator) fail(ctx context.Context, action Action, from State, release func(), err error, message string) Result {
	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	o.mu.Lock()
	current := o.session.State
	wasBusy := o.session.Busy
	o.session.State = from
	o.session.Busy = false
	o.session.InFlight = ""
	o.mu.Unlock()
	release()

	pending := []events.Event{}
	if current != from {
		pending = append(pending, events.NewStateChanged(action.String(), current.String(), from.String()))
	}
	if wasBusy {
		pending = append(pending, events.NewBusyChanged(action.String(), false))
	}
	pending = append(pending, events.NewActivityLogged(o.log.Errorf("%s: %v", message, err)))
	o.emit(pending...)

	return Result{
		Action: action,
		From:   from,
		To:     from,
		Kind:   KindOf(err),
		Err:    &TransitionError{Action: action, State: from, Err: err},
	}
}

// reject reports an action that was not admitted. Rejections leave the
// session and the activity log untouched.
func (o *Orchestrator) reject(action Action, from State, err error) Result {
	logger.Debug("action rejected", "action", action, "state", from, "error", err)
	return Result{
		Action: action,
		From:   from,
		To:     from,
		Kind:   KindRejected,
		Err:    &TransitionError{Action: action, State: from, Err: err},
	}
}

func (o *Orchestrator) configured(action Action) bool {
	switch action {
	case ActionTranscribe:
		return o.transcriber != nil
	case ActionForward, ActionSubmitManual, ActionDecide:
		return o.relay != nil
	case ActionApplyStyle:
		return o.drafter != nil
	}
	return true
}

func (o *Orchestrator) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.requestTimeout > 0 {
		return context.WithTimeout(ctx, o.requestTimeout)
	}
	return context.WithCancel(ctx)
}

func adoptDraft(s *Session, draft *replies.Draft, settled string) change {
	if draft.Actionable() {
		s.PendingDraft = draft
		return change{draft: draft, level: activitylog.LevelInfo, message: "Draft ready: " + describeDraft(draft)}
	}
	s.PendingDraft = nil
	return change{level: activitylog.LevelInfo, message: settled}
}

func describeDraft(draft *replies.Draft) string {
	subject := draft.Subject
	if subject == "" {
		subject = "(no subject)"
	}
	if len(draft.Recipients) == 0 {
		return fmt.Sprintf("%q", subject)
	}
	return fmt.Sprintf("%q to %s", subject, strings.Join(draft.Recipients, ", "))
}

// appendStyle records style after the styles applied so far, in order.
func appendStyle(applied []string, style styles.Style) []string {
	return append(slices.Clone(applied), style.String())
}

// transportFailure classifies every collaborator error as a transport
// failure.
func transportFailure(err error) error {
	if errors.Is(err, collaborators.ErrTransportFailure) {
		return err
	}
	return fmt.Errorf("%w: %w", collaborators.ErrTransportFailure, err)
}
