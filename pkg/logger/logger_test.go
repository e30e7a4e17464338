package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/abgdnv/productcatalog/pkg/web"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestContextHandler_AddsContextAttributes(t *testing.T) {
	// given
	var buf bytes.Buffer
	log := Component(slog.New(NewContextHandler(slog.NewJSONHandler(&buf, nil))), "test")

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	}))
	ctx = context.WithValue(ctx, middleware.RequestIDKey, "req-1")

	// when
	log.InfoContext(ctx, "hello")

	// then
	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", record["trace_id"])
	assert.Equal(t, "req-1", record["request_id"])
	assert.Equal(t, "test", record["component"])
}

func TestContextHandler_PlainContext(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewContextHandler(slog.NewJSONHandler(&buf, nil)))

	log.Info("hello")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.NotContains(t, record, "trace_id")
	assert.NotContains(t, record, "request_id")
}

func TestContextHandler_FallsBackToInjectedRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewContextHandler(slog.NewJSONHandler(&buf, nil)))

	log.InfoContext(web.WithRequestID(context.Background(), "req-2"), "hello")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "req-2", record["request_id"])
}

func TestStructuredLogger_RequestIDLoggedOnce(t *testing.T) {
	// given
	var buf bytes.Buffer
	log := slog.New(NewContextHandler(slog.NewJSONHandler(&buf, nil)))
	h := middleware.RequestID(web.RequestIDInjector(web.StructuredLogger(log)(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }),
	)))
	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-3")

	// when
	h.ServeHTTP(httptest.NewRecorder(), req)

	// then
	line := strings.TrimSpace(buf.String())
	assert.Equal(t, 1, strings.Count(line, `"request_id"`), "log line: %s", line)
	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &record))
	assert.Equal(t, "req-3", record["request_id"])
	assert.Equal(t, "Request completed", record["msg"])
}
