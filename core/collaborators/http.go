package collaborators

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/koscakluka/ema-console/core/replies"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// maxReplySize caps how much of a reply body is read.
const maxReplySize = 4 << 20

func newInstrumentedHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport,
			otelhttp.WithSpanNameFormatter(func(operationName string, request *http.Request) string {
				return operationName + " " + request.URL.Path
			}),
		),
	}
}

// post sends body to endpoint and decodes the reply. Every failure is a
// *TransportError.
func post(ctx context.Context, client *http.Client, endpoint, contentType string, body io.Reader) (replies.Reply, error) {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(attribute.String("request.url", endpoint))

	fail := func(statusCode int, err error) (replies.Reply, error) {
		err = &TransportError{Endpoint: endpoint, StatusCode: statusCode, Err: err}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return fail(0, fmt.Errorf("error creating HTTP request: %w", err))
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fail(0, fmt.Errorf("error sending request: %w", err))
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("response.status_code", resp.StatusCode))
	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxReplySize))
	if err != nil {
		return fail(resp.StatusCode, fmt.Errorf("error reading response body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		span.SetAttributes(attribute.String("response.error", string(respBody)))
		return fail(resp.StatusCode, fmt.Errorf("non-OK HTTP status: %s", resp.Status))
	}

	reply, err := replies.Decode(respBody)
	if err != nil {
		return fail(resp.StatusCode, err)
	}

	return reply, nil
}
