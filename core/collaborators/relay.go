package collaborators

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/koscakluka/ema-console/core/replies"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultForwardURL = "http://localhost:8002/orchestrator"
	DefaultWebhookURL = "http://localhost:8001/webhook/voice"

	SourceVoice  = "voice"
	SourceManual = "manual"

	// timestampLayout is ISO-8601 without a zone suffix, always in UTC.
	timestampLayout = "2006-01-02T15:04:05.000000"
)

// Message is the normalized message shape the relay accepts.
type Message struct {
	Text        string   `json:"text"`
	UserID      string   `json:"user_id"`
	Source      string   `json:"source"`
	Attachments []string `json:"attachments"`
	Timestamp   string   `json:"timestamp"`
}

// RelayClient posts text to the relay. Forward is the entry point for text
// that is already transcribed (and for confirmations); Submit is the raw
// webhook-style entry point.
type RelayClient struct {
	forwardURL string
	webhookURL string
	options    clientOptions
}

func NewRelayClient(forwardURL, webhookURL string, opts ...Option) *RelayClient {
	if forwardURL == "" {
		forwardURL = DefaultForwardURL
	}
	if webhookURL == "" {
		webhookURL = DefaultWebhookURL
	}
	return &RelayClient{forwardURL: forwardURL, webhookURL: webhookURL, options: newClientOptions(opts)}
}

func (c *RelayClient) Forward(ctx context.Context, text, source string) (replies.Reply, error) {
	ctx, span := tracer.Start(ctx, "forward message")
	defer span.End()

	return c.send(ctx, c.forwardURL, text, source)
}

func (c *RelayClient) Submit(ctx context.Context, text, source string) (replies.Reply, error) {
	ctx, span := tracer.Start(ctx, "submit message")
	defer span.End()

	return c.send(ctx, c.webhookURL, text, source)
}

func (c *RelayClient) NewMessage(text, source string) Message {
	return Message{
		Text:        text,
		UserID:      c.options.operatorID,
		Source:      source,
		Attachments: []string{},
		Timestamp:   c.options.now().UTC().Format(timestampLayout),
	}
}

func (c *RelayClient) send(ctx context.Context, endpoint, text, source string) (replies.Reply, error) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("message.source", source))

	message := c.NewMessage(text, source)
	body, err := json.Marshal(message)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: fmt.Errorf("error marshalling JSON: %w", err)}
	}

	logger.Debug("sending message to relay", "endpoint", endpoint, "source", source, "length", len(text))
	reply, err := post(ctx, c.options.httpClient, endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	return reply, nil
}
