// Package deepgram transcribes finished recordings by streaming them to the
// Deepgram live transcription websocket.
package deepgram

import (
	"errors"
	"os"

	"github.com/gorilla/websocket"
)

const (
	DefaultListenURL = "wss://api.deepgram.com/v1/listen"
	DefaultModel     = "nova-3"
	DefaultLanguage  = "en-US"

	// framesPerSecond controls how the recording is split into websocket
	// frames.
	framesPerSecond = 10
)

var ErrMissingAPIKey = errors.New("deepgram api key not found")

type Transcriber struct {
	apiKey    string
	listenURL string
	model     string
	language  string
	dialer    *websocket.Dialer
}

type Option func(*Transcriber)

func WithListenURL(listenURL string) Option {
	return func(t *Transcriber) { t.listenURL = listenURL }
}

func WithModel(model string) Option {
	return func(t *Transcriber) { t.model = model }
}

func WithLanguage(language string) Option {
	return func(t *Transcriber) { t.language = language }
}

func WithDialer(dialer *websocket.Dialer) Option {
	return func(t *Transcriber) { t.dialer = dialer }
}

// NewTranscriber falls back to DEEPGRAM_API_KEY when apiKey is empty.
func NewTranscriber(apiKey string, opts ...Option) (*Transcriber, error) {
	if apiKey == "" {
		apiKey = os.Getenv("DEEPGRAM_API_KEY")
	}
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	t := &Transcriber{
		apiKey:    apiKey,
		listenURL: DefaultListenURL,
		model:     DefaultModel,
		language:  DefaultLanguage,
		dialer:    websocket.DefaultDialer,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}
