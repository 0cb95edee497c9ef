package collaborators

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/koscakluka/ema-console/core/audio"
	"github.com/koscakluka/ema-console/core/styles"
)

func TestTranscribeUploadsMultipartRecording(t *testing.T) {
	var gotUser string
	var gotFile []byte
	var gotFilename string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("failed to parse multipart form: %v", err)
		}
		gotUser = r.FormValue("user_id")
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("missing file part: %v", err)
			return
		}
		defer file.Close()
		gotFilename = header.Filename
		gotFile, _ = io.ReadAll(file)
		w.Write([]byte(`{"transcript":"hello world"}`))
	}))
	defer server.Close()

	client := NewTranscriptionClient(server.URL, WithOperatorID("alice"))
	recording := audio.NewRecording([][]byte{{1, 2}, {3, 4}}, audio.GetDefaultEncodingInfo(), time.Now())
	reply, err := client.Transcribe(context.Background(), recording)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if reply["transcript"] != "hello world" {
		t.Fatalf("expected transcript in reply, got %v", reply)
	}
	if gotUser != "alice" {
		t.Fatalf("expected user_id alice, got %q", gotUser)
	}
	if gotFilename != recordingFilename {
		t.Fatalf("expected filename %q, got %q", recordingFilename, gotFilename)
	}
	if string(gotFile[:4]) != "RIFF" {
		t.Fatalf("expected WAV upload, got header %q", gotFile[:4])
	}
}

func TestTranscribeWithoutRecordingFails(t *testing.T) {
	client := NewTranscriptionClient("http://127.0.0.1:0")
	_, err := client.Transcribe(context.Background(), nil)
	if !errors.Is(err, ErrTransportFailure) {
		t.Fatalf("expected transport failure, got %v", err)
	}
}

func TestForwardPostsNormalizedMessage(t *testing.T) {
	var got map[string]any
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON content type, got %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	fixed := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	client := NewRelayClient(server.URL+"/orchestrator", server.URL+"/webhook/voice", WithClock(func() time.Time { return fixed }))
	if _, err := client.Forward(context.Background(), "send the report", SourceVoice); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/orchestrator" {
		t.Fatalf("expected forward endpoint, got %q", gotPath)
	}
	if got["text"] != "send the report" || got["source"] != SourceVoice || got["user_id"] != DefaultOperatorID {
		t.Fatalf("unexpected message: %v", got)
	}
	if got["timestamp"] != "2024-03-01T12:30:00.000000" {
		t.Fatalf("unexpected timestamp: %v", got["timestamp"])
	}
	attachments, ok := got["attachments"].([]any)
	if !ok || len(attachments) != 0 {
		t.Fatalf("expected empty attachments list, got %#v", got["attachments"])
	}
}

func TestSubmitUsesWebhookEndpoint(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewRelayClient(server.URL+"/orchestrator", server.URL+"/webhook/voice")
	if _, err := client.Submit(context.Background(), "hi", SourceManual); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/webhook/voice" {
		t.Fatalf("expected webhook endpoint, got %q", gotPath)
	}
}

func TestRestyleSendsOnlyStyle(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"status":"pending_confirmation","styled_body":"Hi.","applied_styles":["concise"]}`))
	}))
	defer server.Close()

	client := NewDraftingClient(server.URL, WithOperatorID("alice"))
	reply, err := client.Restyle(context.Background(), styles.Concise)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got["style"] != "concise" {
		t.Fatalf("expected a body of just {style: concise}, got %v", got)
	}
	if reply["styled_body"] != "Hi." {
		t.Fatalf("unexpected reply: %v", reply)
	}
}

func TestNonOKStatusIsTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewRelayClient(server.URL, server.URL)
	_, err := client.Forward(context.Background(), "x", SourceVoice)
	if !errors.Is(err, ErrTransportFailure) {
		t.Fatalf("expected transport failure, got %v", err)
	}
	var transportErr *TransportError
	if !errors.As(err, &transportErr) || transportErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected status 502 on transport error, got %v", err)
	}
}

func TestNonObjectReplyIsTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := NewDraftingClient(server.URL)
	if _, err := client.Restyle(context.Background(), styles.Formal); !errors.Is(err, ErrTransportFailure) {
		t.Fatalf("expected transport failure, got %v", err)
	}
}

func TestUnreachableEndpointIsTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewRelayClient(url, url, WithTimeout(time.Second))
	if _, err := client.Submit(context.Background(), "x", SourceManual); !errors.Is(err, ErrTransportFailure) {
		t.Fatalf("expected transport failure, got %v", err)
	}
}
