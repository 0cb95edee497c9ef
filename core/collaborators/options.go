package collaborators

import (
	"net/http"
	"time"
)

const DefaultOperatorID = "voice_user"

type clientOptions struct {
	httpClient *http.Client
	timeout    time.Duration
	operatorID string
	now        func() time.Time
}

type Option func(*clientOptions)

func defaultClientOptions() clientOptions {
	return clientOptions{operatorID: DefaultOperatorID, now: time.Now}
}

// WithHTTPClient replaces the instrumented default client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) { o.httpClient = client }
}

// WithTimeout bounds each request. Zero, the default, waits indefinitely.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) { o.timeout = timeout }
}

// WithOperatorID sets the user_id sent with every request.
func WithOperatorID(operatorID string) Option {
	return func(o *clientOptions) {
		if operatorID != "" {
			o.operatorID = operatorID
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *clientOptions) {
		if now != nil {
			o.now = now
		}
	}
}

func newClientOptions(opts []Option) clientOptions {
	options := defaultClientOptions()
	for _, opt := range opts {
		opt(&options)
	}
	if options.httpClient == nil {
		options.httpClient = newInstrumentedHTTPClient(options.timeout)
	}
	return options
}
