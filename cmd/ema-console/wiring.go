package main

import (
	"fmt"
	"log/slog"

	orchestration "github.com/koscakluka/ema-console/core"
	"github.com/koscakluka/ema-console/core/audio/miniaudio"
	"github.com/koscakluka/ema-console/core/audio/portaudio"
	"github.com/koscakluka/ema-console/core/capture"
	"github.com/koscakluka/ema-console/core/collaborators"
	"github.com/koscakluka/ema-console/core/speechtotext/deepgram"
	"github.com/koscakluka/ema-console/internal/config"
	"github.com/koscakluka/ema-console/internal/console"
)

// newSession builds the orchestrator and its collaborators from cfg. cleanup
// releases the capture device.
func newSession(cfg *config.Config, relay *console.EventRelay) (*orchestration.Orchestrator, func(), error) {
	device, cleanup := newCaptureDevice(cfg.Capture)

	transcriber, err := newTranscriber(cfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	clientOpts := []collaborators.Option{
		collaborators.WithOperatorID(cfg.OperatorID),
		collaborators.WithTimeout(cfg.Timeout()),
	}
	orchestrator := orchestration.NewOrchestrator(
		orchestration.WithCaptureController(capture.NewController(device)),
		orchestration.WithTranscriber(transcriber),
		orchestration.WithRelay(collaborators.NewRelayClient(cfg.Endpoints.Forward, cfg.Endpoints.Webhook, clientOpts...)),
		orchestration.WithDrafter(collaborators.NewDraftingClient(cfg.Endpoints.Style, clientOpts...)),
		orchestration.WithLogCapacity(cfg.LogCapacity),
		orchestration.WithRequestTimeout(cfg.Timeout()),
		orchestration.WithDefaultStyle(cfg.Style()),
		orchestration.WithEventHandler(relay.Handle),
	)
	return orchestrator, cleanup, nil
}

// newCaptureDevice returns a nil device when no backend is usable; capture
// then reports the device as unavailable instead of failing at startup.
func newCaptureDevice(cfg config.CaptureConfig) (capture.Device, func()) {
	switch cfg.Backend {
	case config.CaptureMiniaudio:
		client, err := miniaudio.NewClient()
		if err != nil {
			slog.Warn("miniaudio unavailable, capture disabled", "error", err)
			return nil, func() {}
		}
		return client, client.Close
	case config.CapturePortaudio:
		client := portaudio.NewClient(cfg.BufferSize)
		return client, client.Close
	default:
		return nil, func() {}
	}
}

func newTranscriber(cfg *config.Config) (orchestration.Transcriber, error) {
	if cfg.Transcription.Backend != config.TranscriptionDeepgram {
		return collaborators.NewTranscriptionClient(cfg.Endpoints.Transcription,
			collaborators.WithOperatorID(cfg.OperatorID),
			collaborators.WithTimeout(cfg.Timeout()),
		), nil
	}

	dg := cfg.Transcription.Deepgram
	var opts []deepgram.Option
	if dg.ListenURL != "" {
		opts = append(opts, deepgram.WithListenURL(dg.ListenURL))
	}
	if dg.Model != "" {
		opts = append(opts, deepgram.WithModel(dg.Model))
	}
	if dg.Language != "" {
		opts = append(opts, deepgram.WithLanguage(dg.Language))
	}
	transcriber, err := deepgram.NewTranscriber(dg.APIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating deepgram transcriber: %w", err)
	}
	return transcriber, nil
}
