// Package events defines the typed session event contract.
//
// Event kinds are grouped by receiver-facing namespaces:
//
//   - session.*
//   - capture.*
//   - activity.*
//
// Events are emitted after the session has committed the change they
// describe, so a receiver reading a snapshot in response always observes it.
//
// session events
//
//   - StateChanged (session.state_changed): the session moved between states.
//   - BusyChanged (session.busy_changed): a network action started or
//     finished.
//   - TranscriptUpdated (session.transcript_updated): the editable transcript
//     was replaced.
//   - DraftUpdated (session.draft_updated): the pending draft was adopted,
//     restyled or cleared.
//   - ReplyReceived (session.reply_received): a collaborator answered.
//
// capture events
//
//   - CaptureStarted (capture.started): the microphone is recording.
//   - CaptureStopped (capture.stopped): recording ended; includes the
//     captured duration.
//
// activity events
//
//   - ActivityLogged (activity.logged): an entry was appended to the
//     activity log.
package events
