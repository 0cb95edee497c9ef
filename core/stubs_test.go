package orchestration

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/koscakluka/ema-console/core/audio"
	"github.com/koscakluka/ema-console/core/replies"
	"github.com/koscakluka/ema-console/core/styles"
)

type stubCapture struct {
	mu        sync.Mutex
	active    bool
	beginErr  error
	endErr    error
	recording *audio.Recording
}

func newStubCapture() *stubCapture {
	return &stubCapture{
		recording: audio.NewRecording([][]byte{{1, 2, 3, 4}}, audio.GetDefaultEncodingInfo(), time.Now()),
	}
}

func (c *stubCapture) Begin(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.beginErr != nil {
		return c.beginErr
	}
	c.active = true
	return nil
}

func (c *stubCapture) End(context.Context) (*audio.Recording, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active {
		return nil, nil
	}
	c.active = false
	return c.recording, c.endErr
}

func (c *stubCapture) IsActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

type stubTranscriber struct {
	reply   replies.Reply
	err     error
	calls   atomic.Int32
	started chan struct{}
	block   chan struct{}
}

func (s *stubTranscriber) Transcribe(ctx context.Context, _ *audio.Recording) (replies.Reply, error) {
	s.calls.Add(1)
	if s.started != nil {
		s.started <- struct{}{}
	}
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.reply, s.err
}

type stubRelay struct {
	mu        sync.Mutex
	replies   []replies.Reply
	err       error
	forwarded []string
	submitted []string
}

func (r *stubRelay) Forward(_ context.Context, text, _ string) (replies.Reply, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.forwarded = append(r.forwarded, text)
	return r.next()
}

func (r *stubRelay) Submit(_ context.Context, text, _ string) (replies.Reply, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.submitted = append(r.submitted, text)
	return r.next()
}

func (r *stubRelay) next() (replies.Reply, error) {
	if r.err != nil {
		return nil, r.err
	}
	if len(r.replies) == 0 {
		return replies.Reply{}, nil
	}
	reply := r.replies[0]
	r.replies = r.replies[1:]
	return reply, nil
}

type stubDrafter struct {
	reply  replies.Reply
	err    error
	styles []styles.Style
}

func (d *stubDrafter) Restyle(_ context.Context, style styles.Style) (replies.Reply, error) {
	d.styles = append(d.styles, style)
	return d.reply, d.err
}

func pendingDraftReply(subject string, to ...string) replies.Reply {
	recipients := make([]any, 0, len(to))
	for _, address := range to {
		recipients = append(recipients, address)
	}
	return replies.Reply{
		"result": map[string]any{
			"email": map[string]any{
				"status":  "pending_confirmation",
				"subject": subject,
				"to":      recipients,
				"body":    "Hi Bob, the meeting is at noon.",
			},
		},
	}
}
