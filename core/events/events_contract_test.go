package events

import (
	"testing"
	"time"

	"github.com/koscakluka/ema-console/core/activitylog"
)

func TestConstructorsEmitExpectedKinds(t *testing.T) {
	testCases := []struct {
		name     string
		event    Event
		expected Kind
	}{
		{name: "state changed", event: NewStateChanged("begin_capture", "idle", "recording"), expected: KindStateChanged},
		{name: "busy changed", event: NewBusyChanged("transcribe", true), expected: KindBusyChanged},
		{name: "transcript updated", event: NewTranscriptUpdated("text"), expected: KindTranscriptUpdated},
		{name: "draft updated", event: NewDraftUpdated(nil), expected: KindDraftUpdated},
		{name: "reply received", event: NewReplyReceived("forward", nil), expected: KindReplyReceived},
		{name: "capture started", event: NewCaptureStarted(), expected: KindCaptureStarted},
		{name: "capture stopped", event: NewCaptureStopped(time.Second, 32000), expected: KindCaptureStopped},
		{name: "activity logged", event: NewActivityLogged(activitylog.Entry{}), expected: KindActivityLogged},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := testCase.event.Kind(); got != testCase.expected {
				t.Fatalf("expected kind %q, got %q", testCase.expected, got)
			}
			if testCase.event.Timestamp().IsZero() {
				t.Fatalf("expected timestamp to be set")
			}
		})
	}
}

func TestCaptureStartedAndStoppedKindsAreDistinct(t *testing.T) {
	started := NewCaptureStarted()
	stopped := NewCaptureStopped(0, 0)

	if started.Kind() == stopped.Kind() {
		t.Fatalf("expected capture started and stopped kinds to differ, both were %q", started.Kind())
	}
}
