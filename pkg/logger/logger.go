// Package logger provides the slog handler shared by the catalog components.
// Every record logged with a request context carries the trace and request IDs,
// so a single HTTP call can be followed through rest, service and search logs.
package logger

import (
	"context"
	"log/slog"

	"github.com/abgdnv/productcatalog/pkg/web"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys added by ContextHandler and Component.
const (
	TraceIDKey   = "trace_id"
	RequestIDKey = "request_id"
	ComponentKey = "component"
)

// Component returns a logger whose records are tagged with the component name.
func Component(l *slog.Logger, name string) *slog.Logger {
	return l.With(ComponentKey, name)
}

// ContextHandler is a wrapper around slog.Handler that adds context information.
type ContextHandler struct {
	slog.Handler
}

// NewContextHandler creates a new ContextHandler.
func NewContextHandler(handler slog.Handler) *ContextHandler {
	return &ContextHandler{
		Handler: handler,
	}
}

// Handle adds the trace ID of the active span and the request ID, if any.
// The request ID set by chi's RequestID middleware wins over the one stored by web.RequestIDInjector.
func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		r.AddAttrs(slog.String(TraceIDKey, span.SpanContext().TraceID().String()))
	}
	if reqID := requestID(ctx); reqID != "" {
		r.AddAttrs(slog.String(RequestIDKey, reqID))
	}
	return h.Handler.Handle(ctx, r)
}

func requestID(ctx context.Context) string {
	if id := middleware.GetReqID(ctx); id != "" {
		return id
	}
	id, _ := web.GetRequestID(ctx)
	return id
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{
		Handler: h.Handler.WithAttrs(attrs),
	}
}

func (h *ContextHandler) WithGroup(group string) slog.Handler {
	return &ContextHandler{
		Handler: h.Handler.WithGroup(group),
	}
}
