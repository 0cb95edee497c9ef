package events

import "github.com/koscakluka/ema-console/core/replies"

const (
	// KindStateChanged identifies session state transitions.
	KindStateChanged Kind = "session.state_changed"
	// KindBusyChanged identifies changes of the in-flight action.
	KindBusyChanged Kind = "session.busy_changed"
	// KindTranscriptUpdated identifies transcript replacements.
	KindTranscriptUpdated Kind = "session.transcript_updated"
	// KindDraftUpdated identifies pending draft changes.
	KindDraftUpdated Kind = "session.draft_updated"
	// KindReplyReceived identifies collaborator replies.
	KindReplyReceived Kind = "session.reply_received"
)

// StateChanged reports a committed session state transition.
type StateChanged struct {
	Base
	From   string
	To     string
	Action string
}

// NewStateChanged creates a state changed event.
func NewStateChanged(action, from, to string) StateChanged {
	return StateChanged{Base: NewBase(KindStateChanged), Action: action, From: from, To: to}
}

// BusyChanged reports the start (Busy) or end of a network action.
type BusyChanged struct {
	Base
	Busy   bool
	Action string
}

// NewBusyChanged creates a busy changed event.
func NewBusyChanged(action string, busy bool) BusyChanged {
	return BusyChanged{Base: NewBase(KindBusyChanged), Action: action, Busy: busy}
}

// TranscriptUpdated carries the new editable transcript.
type TranscriptUpdated struct {
	Base
	Transcript string
}

// NewTranscriptUpdated creates a transcript updated event.
func NewTranscriptUpdated(transcript string) TranscriptUpdated {
	return TranscriptUpdated{Base: NewBase(KindTranscriptUpdated), Transcript: transcript}
}

// DraftUpdated carries the pending draft, or nil when it was cleared.
type DraftUpdated struct {
	Base
	Draft *replies.Draft
}

// NewDraftUpdated creates a draft updated event.
func NewDraftUpdated(draft *replies.Draft) DraftUpdated {
	return DraftUpdated{Base: NewBase(KindDraftUpdated), Draft: draft}
}

// ReplyReceived carries a raw collaborator reply.
type ReplyReceived struct {
	Base
	Action string
	Reply  replies.Reply
}

// NewReplyReceived creates a reply received event.
func NewReplyReceived(action string, reply replies.Reply) ReplyReceived {
	return ReplyReceived{Base: NewBase(KindReplyReceived), Action: action, Reply: reply}
}
