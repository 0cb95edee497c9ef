package collaborators

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/koscakluka/ema-console/core/replies"
	"github.com/koscakluka/ema-console/core/styles"
	"go.opentelemetry.io/otel/attribute"
)

const DefaultStyleURL = "http://localhost:8002/email/style"

type restyleRequest struct {
	Style string `json:"style"`
}

// DraftingClient asks the orchestrator to restyle the pending draft.
type DraftingClient struct {
	endpoint string
	options  clientOptions
}

func NewDraftingClient(endpoint string, opts ...Option) *DraftingClient {
	if endpoint == "" {
		endpoint = DefaultStyleURL
	}
	return &DraftingClient{endpoint: endpoint, options: newClientOptions(opts)}
}

func (c *DraftingClient) Restyle(ctx context.Context, style styles.Style) (replies.Reply, error) {
	ctx, span := tracer.Start(ctx, "restyle draft")
	defer span.End()
	span.SetAttributes(attribute.String("draft.style", string(style)))

	body, err := json.Marshal(restyleRequest{Style: string(style)})
	if err != nil {
		return nil, &TransportError{Endpoint: c.endpoint, Err: fmt.Errorf("error marshalling JSON: %w", err)}
	}

	return post(ctx, c.options.httpClient, c.endpoint, "application/json", bytes.NewReader(body))
}
