package app

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_SetupHttpHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("shadow_write_failures_total 0\n"))
	})

	testCases := []struct {
		name         string
		metrics      http.Handler
		path         string
		expectedCode int
	}{
		{name: "health check", path: "/healthz", expectedCode: http.StatusOK},
		{name: "metrics mounted", metrics: metrics, path: "/metrics", expectedCode: http.StatusOK},
		{name: "metrics disabled", path: "/metrics", expectedCode: http.StatusNotFound},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			handler := SetupHttpHandler(&Dependencies{Logger: logger, Metrics: tc.metrics})

			// when
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tc.path, nil))

			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
			assert.NotEmpty(t, rr.Header().Get("X-Request-Id"), "request ID should be echoed")
		})
	}
}
