package deepgram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	api "github.com/deepgram/deepgram-go-sdk/pkg/api/listen/v1/websocket/interfaces"
	"github.com/gorilla/websocket"
	"github.com/koscakluka/ema-console/core/audio"
	"github.com/koscakluka/ema-console/core/collaborators"
	"github.com/koscakluka/ema-console/core/replies"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type readResult struct {
	transcript string
	err        error
}

// Transcribe streams the whole recording, asks Deepgram to flush, and joins
// the final transcript segments into a {"transcript": ...} reply.
func (t *Transcriber) Transcribe(ctx context.Context, recording *audio.Recording) (replies.Reply, error) {
	ctx, span := tracer.Start(ctx, "transcribe recording with deepgram")
	defer span.End()

	fail := func(err error) (replies.Reply, error) {
		err = &collaborators.TransportError{Endpoint: t.listenURL, Err: err}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if recording.IsEmpty() {
		return fail(errors.New("no recording to transcribe"))
	}
	span.SetAttributes(attribute.Int("recording.bytes", len(recording.Data)))

	encoding, err := convertEncoding(recording.EncodingInfo)
	if err != nil {
		return fail(fmt.Errorf("invalid encoding: %w", err))
	}

	listenURL, err := t.buildListenURL(encoding)
	if err != nil {
		return fail(err)
	}

	conn, resp, err := t.dialer.DialContext(ctx, listenURL, http.Header{"Authorization": {"Token " + t.apiKey}})
	if err != nil {
		if resp != nil {
			return fail(fmt.Errorf("failed to open socket connection to deepgram (HTTP %d): %w", resp.StatusCode, err))
		}
		return fail(fmt.Errorf("failed to open socket connection to deepgram: %w", err))
	}
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	results := make(chan readResult, 1)
	go func() {
		transcript, err := readTranscript(conn)
		results <- readResult{transcript: transcript, err: err}
	}()

	chunkSize := recording.EncodingInfo.BytesPerSecond() / framesPerSecond
	if err := sendAudio(conn, recording.Data, chunkSize); err != nil {
		return fail(err)
	}
	if err := conn.WriteJSON(struct {
		Type string `json:"type"`
	}{Type: string(api.TypeCloseStreamResponse)}); err != nil {
		return fail(fmt.Errorf("failed to close deepgram stream: %w", err))
	}

	select {
	case result := <-results:
		if result.err != nil {
			return fail(result.err)
		}
		span.SetAttributes(attribute.Int("transcript.length", len(result.transcript)))
		return replies.Reply{"transcript": result.transcript}, nil
	case <-ctx.Done():
		return fail(ctx.Err())
	}
}

func (t *Transcriber) buildListenURL(encoding encodingInfo) (string, error) {
	listenURL, err := url.Parse(t.listenURL)
	if err != nil {
		return "", fmt.Errorf("invalid listen url: %w", err)
	}

	queryParams := listenURL.Query()
	queryParams.Set("encoding", encoding.Format.Name())
	queryParams.Set("sample_rate", strconv.Itoa(encoding.SampleRate))
	queryParams.Set("channels", strconv.Itoa(audio.DefaultChannels))
	queryParams.Set("model", t.model)
	queryParams.Set("language", t.language)
	queryParams.Set("smart_format", "true")
	listenURL.RawQuery = queryParams.Encode()

	return listenURL.String(), nil
}

func sendAudio(conn *websocket.Conn, data []byte, chunkSize int) error {
	if chunkSize <= 0 {
		chunkSize = len(data)
	}
	for start := 0; start < len(data); start += chunkSize {
		end := min(start+chunkSize, len(data))
		if err := conn.WriteMessage(websocket.BinaryMessage, data[start:end]); err != nil {
			return fmt.Errorf("failed to write to deepgram client: %w", err)
		}
	}
	return nil
}

// readTranscript collects final segments until the server closes normally.
func readTranscript(conn *websocket.Conn) (string, error) {
	segments := []string{}
	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return strings.Join(segments, " "), nil
			}
			return "", fmt.Errorf("failed to read deepgram websocket message: %w", err)
		}
		if msgType == websocket.BinaryMessage {
			continue
		}

		segment, err := parseFinalSegment(msg)
		if err != nil {
			logger.Warn("failed to unmarshal deepgram message", "error", err)
			continue
		}
		if segment != "" {
			segments = append(segments, segment)
		}
	}
}

func parseFinalSegment(msg []byte) (string, error) {
	var parsedMsg struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(msg, &parsedMsg); err != nil {
		return "", err
	}
	if api.TypeResponse(parsedMsg.Type) != api.TypeMessageResponse {
		return "", nil
	}

	var msgResp api.MessageResponse
	if err := json.Unmarshal(msg, &msgResp); err != nil {
		return "", err
	}
	if !msgResp.IsFinal || len(msgResp.Channel.Alternatives) == 0 {
		return "", nil
	}
	return strings.TrimSpace(msgResp.Channel.Alternatives[0].Transcript), nil
}
