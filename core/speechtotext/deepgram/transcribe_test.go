package deepgram

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/koscakluka/ema-console/core/audio"
	"github.com/koscakluka/ema-console/core/collaborators"
)

func newTestServer(t *testing.T, segments []string, received *int, query *string) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Token test-key" {
			t.Errorf("unexpected authorization header %q", got)
		}
		*query = r.URL.RawQuery
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		for {
			msgType, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if msgType == websocket.BinaryMessage {
				*received += len(msg)
				continue
			}
			if strings.Contains(string(msg), "CloseStream") {
				break
			}
		}

		conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"Results","is_final":false,"channel":{"alternatives":[{"transcript":"ignored interim"}]}}`))
		for _, segment := range segments {
			conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"Results","is_final":true,"channel":{"alternatives":[{"transcript":"`+segment+`"}]}}`))
		}
		conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"Metadata"}`))
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		time.Sleep(50 * time.Millisecond)
	}))
}

func TestTranscribeJoinsFinalSegments(t *testing.T) {
	received := 0
	query := ""
	server := newTestServer(t, []string{"send the report", " to alice "}, &received, &query)
	defer server.Close()

	transcriber, err := NewTranscriber("test-key", WithListenURL("ws"+strings.TrimPrefix(server.URL, "http")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data := make([]byte, 16000)
	recording := audio.NewRecording([][]byte{data}, audio.GetDefaultEncodingInfo(), time.Now())
	reply, err := transcriber.Transcribe(context.Background(), recording)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := reply["transcript"]; got != "send the report to alice" {
		t.Fatalf("unexpected transcript %q", got)
	}
	if received != len(data) {
		t.Fatalf("expected %d audio bytes streamed, got %d", len(data), received)
	}
	for _, param := range []string{"encoding=linear16", "sample_rate=16000", "model=nova-3"} {
		if !strings.Contains(query, param) {
			t.Fatalf("expected query to contain %q, got %q", param, query)
		}
	}
}

func TestTranscribeEmptyRecordingIsTransportFailure(t *testing.T) {
	transcriber, err := NewTranscriber("test-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = transcriber.Transcribe(context.Background(), audio.NewRecording(nil, audio.EncodingInfo{}, time.Now()))
	if !errors.Is(err, collaborators.ErrTransportFailure) {
		t.Fatalf("expected transport failure, got %v", err)
	}
}

func TestTranscribeUnreachableServerIsTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	listenURL := "ws" + strings.TrimPrefix(server.URL, "http")
	server.Close()

	transcriber, err := NewTranscriber("test-key", WithListenURL(listenURL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	recording := audio.NewRecording([][]byte{{0, 0}}, audio.GetDefaultEncodingInfo(), time.Now())
	if _, err := transcriber.Transcribe(context.Background(), recording); !errors.Is(err, collaborators.ErrTransportFailure) {
		t.Fatalf("expected transport failure, got %v", err)
	}
}

func TestNewTranscriberRequiresAPIKey(t *testing.T) {
	t.Setenv("DEEPGRAM_API_KEY", "")
	if _, err := NewTranscriber(""); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected missing api key error, got %v", err)
	}
}

func TestConvertEncodingRejectsUnsupportedRates(t *testing.T) {
	if _, err := convertEncoding(audio.EncodingInfo{SampleRate: 44100, Format: audio.EncodingLinear16}); err == nil {
		t.Fatalf("expected error for 44.1kHz")
	}
	if _, err := convertEncoding(audio.EncodingInfo{SampleRate: 16000, Format: audio.EncodingMulaw}); err == nil {
		t.Fatalf("expected error for 16kHz mulaw")
	}
	got, err := convertEncoding(audio.EncodingInfo{SampleRate: 8000, Format: audio.EncodingMulaw})
	if err != nil || got.Format != encodingMulaw {
		t.Fatalf("expected mulaw at 8kHz, got %+v (%v)", got, err)
	}
}
