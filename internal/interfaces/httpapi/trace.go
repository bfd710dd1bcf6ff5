package httpapi

import (
	"context"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	handlerSpanPrefix = "httpapi.Handler."
	gameIDAttribute   = attribute.Key("hockey.game_id")
)

var (
	apiTracer = otel.Tracer("hockey-dashboard/internal/interfaces/httpapi")
	noopSpan  = trace.SpanFromContext(context.Background())
)

// startSpan opens a handler span under the request span opened by
// RequestTracing. Untraced requests (health checks) get the noop span.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if !isHandlerSpan(name) || !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, noopSpan
	}
	return apiTracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindInternal))
}

func isHandlerSpan(name string) bool {
	return strings.HasPrefix(name, handlerSpanPrefix) && len(name) > len(handlerSpanPrefix)
}

// tracedGameID parses the gameID path value and tags span with it.
func tracedGameID(span trace.Span, r *http.Request) (int64, error) {
	gameID, err := pathID(r, "gameID")
	if err != nil {
		return 0, err
	}
	span.SetAttributes(gameIDAttribute.Int64(gameID))
	return gameID, nil
}
