package orchestration

import (
	"slices"
	"strings"

	"github.com/koscakluka/ema-console/core/replies"
)

// transition is one row of the session state table.
type transition struct {
	from []State
	// inFlight is held while the request is pending; empty for local
	// actions, which never mark the session busy.
	inFlight State
	// settled is entered on success; withDraft replaces it when the reply
	// carried an actionable draft.
	settled   State
	withDraft State
	// withoutAudio replaces the outcome when the session holds no audio
	// afterwards.
	withoutAudio State
	// alongside lists states the action runs in without leaving them.
	alongside []State
	// requires is checked together with from, under the session lock.
	requires func(*Session) error
}

var transitions = map[Action]transition{
	ActionBeginCapture: {
		from:    []State{StateIdle, StateAudioCaptured, StateTranscriptReady},
		settled: StateRecording,
	},
	ActionEndCapture: {
		from:         []State{StateRecording},
		settled:      StateAudioCaptured,
		withDraft:    StateAwaitingDraftDecision,
		withoutAudio: StateIdle,
	},
	ActionTranscribe: {
		from:      []State{StateAudioCaptured},
		inFlight:  StateTranscribing,
		settled:   StateTranscriptReady,
		withDraft: StateAwaitingDraftDecision,
		requires:  requireAudio,
	},
	ActionForward: {
		from:      []State{StateTranscriptReady},
		inFlight:  StateSubmitting,
		settled:   StateIdle,
		withDraft: StateAwaitingDraftDecision,
		requires:  requireTranscript,
	},
	ActionSubmitManual: {
		from:      []State{StateIdle, StateRecording, StateAudioCaptured, StateTranscriptReady, StateAwaitingDraftDecision},
		inFlight:  StateSubmitting,
		settled:   StateIdle,
		withDraft: StateAwaitingDraftDecision,
		alongside: []State{StateRecording},
		requires:  requireManualText,
	},
	ActionApplyStyle: {
		from:      []State{StateAwaitingDraftDecision},
		inFlight:  StateStyling,
		settled:   StateAwaitingDraftDecision,
		withDraft: StateAwaitingDraftDecision,
		requires:  requireDraft,
	},
	ActionDecide: {
		from:      []State{StateAwaitingDraftDecision},
		inFlight:  StateFinalizing,
		settled:   StateIdle,
		withDraft: StateAwaitingDraftDecision,
		requires:  requireDraft,
	},
	ActionEditTranscript: {
		from:    []State{StateTranscriptReady},
		settled: StateTranscriptReady,
	},
}

func (t transition) allows(s *Session) error {
	if !slices.Contains(t.from, s.State) {
		return ErrInvalidState
	}
	if t.requires != nil {
		return t.requires(s)
	}
	return nil
}

func (t transition) isNetwork() bool { return t.inFlight != "" }

// outcome picks the resulting state for a successful completion.
func (t transition) outcome(draft *replies.Draft) State {
	if t.withDraft != "" && draft.Actionable() {
		return t.withDraft
	}
	return t.settled
}

// settle is outcome with the session taken into account: an action started
// alongside a state returns to it, and withoutAudio applies when nothing is
// left to transcribe.
func (t transition) settle(current State, s *Session, draft *replies.Draft) State {
	if slices.Contains(t.alongside, current) {
		return current
	}
	to := t.outcome(draft)
	if to == t.settled && t.withoutAudio != "" && s.CapturedAudio.IsEmpty() {
		return t.withoutAudio
	}
	return to
}

// inFlightFrom is the state held while the request started from from is
// pending.
func (t transition) inFlightFrom(from State) State {
	if slices.Contains(t.alongside, from) {
		return from
	}
	return t.inFlight
}

func requireAudio(s *Session) error {
	if s.CapturedAudio.IsEmpty() {
		return ErrNoAudio
	}
	return nil
}

func requireTranscript(s *Session) error {
	if strings.TrimSpace(s.Transcript) == "" {
		return ErrEmptyTranscript
	}
	return nil
}

func requireManualText(s *Session) error {
	if strings.TrimSpace(s.ManualText) == "" {
		return ErrEmptyManualText
	}
	return nil
}

func requireDraft(s *Session) error {
	if !s.PendingDraft.Actionable() {
		return ErrNoPendingDraft
	}
	return nil
}
