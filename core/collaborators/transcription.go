package collaborators

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/textproto"

	"github.com/koscakluka/ema-console/core/audio"
	"github.com/koscakluka/ema-console/core/replies"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultTranscriptionURL = "http://localhost:8003/voice/command"

	recordingFilename = "recording.wav"
)

// TranscriptionClient uploads recordings to the voice agent.
type TranscriptionClient struct {
	endpoint string
	options  clientOptions
}

func NewTranscriptionClient(endpoint string, opts ...Option) *TranscriptionClient {
	if endpoint == "" {
		endpoint = DefaultTranscriptionURL
	}
	return &TranscriptionClient{endpoint: endpoint, options: newClientOptions(opts)}
}

// Transcribe posts the recording as a multipart form (file + user_id).
func (c *TranscriptionClient) Transcribe(ctx context.Context, recording *audio.Recording) (replies.Reply, error) {
	ctx, span := tracer.Start(ctx, "transcribe recording")
	defer span.End()

	if recording == nil {
		err := &TransportError{Endpoint: c.endpoint, Err: errors.New("no recording to upload")}
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("recording.bytes", len(recording.Data)),
		attribute.String("recording.duration", recording.Duration().String()),
	)

	body := bytes.Buffer{}
	form := multipart.NewWriter(&body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, recordingFilename))
	header.Set("Content-Type", "audio/wav")
	part, err := form.CreatePart(header)
	if err != nil {
		return nil, &TransportError{Endpoint: c.endpoint, Err: fmt.Errorf("error creating form file: %w", err)}
	}
	if _, err := part.Write(recording.WAV()); err != nil {
		return nil, &TransportError{Endpoint: c.endpoint, Err: fmt.Errorf("error writing form file: %w", err)}
	}
	if err := form.WriteField("user_id", c.options.operatorID); err != nil {
		return nil, &TransportError{Endpoint: c.endpoint, Err: fmt.Errorf("error writing form field: %w", err)}
	}
	if err := form.Close(); err != nil {
		return nil, &TransportError{Endpoint: c.endpoint, Err: fmt.Errorf("error closing form: %w", err)}
	}

	return post(ctx, c.options.httpClient, c.endpoint, form.FormDataContentType(), &body)
}
