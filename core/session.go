package orchestration

import (
	"time"

	"github.com/jinzhu/copier"
	"github.com/koscakluka/ema-console/core/activitylog"
	"github.com/koscakluka/ema-console/core/audio"
	"github.com/koscakluka/ema-console/core/replies"
	"github.com/koscakluka/ema-console/core/styles"
)

// Session is the single aggregate the orchestrator owns. Drafts and
// recordings are replaced, never mutated in place.
type Session struct {
	ID                 string
	State              State
	CapturedAudio      *audio.Recording
	Transcript         string
	OriginalTranscript string
	ManualText         string
	PendingDraft       *replies.Draft
	LastResult         replies.Reply
	SelectedStyle      styles.Style
	Busy               bool
	InFlight           Action
}

// Snapshot is a detached copy of the session for presentation.
type Snapshot struct {
	ID                 string
	State              State
	Transcript         string
	OriginalTranscript string
	ManualText         string
	PendingDraft       *replies.Draft
	LastResult         replies.Reply
	SelectedStyle      styles.Style
	Busy               bool
	InFlight           Action

	HasAudio      bool
	AudioDuration time.Duration
	// Activity is newest first.
	Activity []activitylog.Entry
}

// TranscriptEdited reports whether the operator changed the transcript since
// it was received.
func (s Snapshot) TranscriptEdited() bool {
	return s.OriginalTranscript != "" && s.Transcript != s.OriginalTranscript
}

func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	snapshot := Snapshot{}
	if err := copier.CopyWithOption(&snapshot, &o.session, copier.Option{DeepCopy: true}); err != nil {
		logger.Warn("failed to copy session", "error", err)
	}
	snapshot.HasAudio = !o.session.CapturedAudio.IsEmpty()
	snapshot.AudioDuration = o.session.CapturedAudio.Duration()
	o.mu.Unlock()

	snapshot.Activity = o.log.Entries()
	return snapshot
}
