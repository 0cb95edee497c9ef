package orchestration

type State string

const (
	StateIdle                  State = "idle"
	StateRecording             State = "recording"
	StateAudioCaptured         State = "audio_captured"
	StateTranscribing          State = "transcribing"
	StateTranscriptReady       State = "transcript_ready"
	StateSubmitting            State = "submitting"
	StateAwaitingDraftDecision State = "awaiting_draft_decision"
	StateStyling               State = "styling"
	StateFinalizing            State = "finalizing"
)

func (s State) String() string { return string(s) }

// InFlight reports whether the state only exists while a request is pending.
func (s State) InFlight() bool {
	switch s {
	case StateTranscribing, StateSubmitting, StateStyling, StateFinalizing:
		return true
	}
	return false
}

type Action string

const (
	ActionBeginCapture   Action = "begin_capture"
	ActionEndCapture     Action = "end_capture"
	ActionTranscribe     Action = "transcribe"
	ActionForward        Action = "forward"
	ActionSubmitManual   Action = "submit_manual"
	ActionApplyStyle     Action = "apply_style"
	ActionDecide         Action = "decide"
	ActionEditTranscript Action = "edit_transcript"
)

func (a Action) String() string { return string(a) }
