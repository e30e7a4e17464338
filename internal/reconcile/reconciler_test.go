package reconcile

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/abgdnv/productcatalog/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingReindexer struct {
	calls atomic.Int32
	err   error
}

func (c *countingReindexer) Reindex(context.Context) (service.ReindexStats, error) {
	c.calls.Add(1)
	return service.ReindexStats{Total: 1, Indexed: 1}, c.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestReconciler_Disabled(t *testing.T) {
	testCases := []struct {
		name      string
		onStartup bool
		wantCalls int32
	}{
		{name: "no runs", onStartup: false, wantCalls: 0},
		{name: "startup run only", onStartup: true, wantCalls: 1},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := &countingReindexer{}

			err := NewReconciler(r, 0, tc.onStartup, discardLogger()).Run(context.Background())

			require.NoError(t, err)
			assert.Equal(t, tc.wantCalls, r.calls.Load())
		})
	}
}

func TestReconciler_RunsPeriodicallyUntilCancelled(t *testing.T) {
	// given
	r := &countingReindexer{err: errors.New("index unavailable")}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	// when
	go func() {
		done <- NewReconciler(r, 10*time.Millisecond, false, discardLogger()).Run(ctx)
	}()

	// then
	assert.Eventually(t, func() bool { return r.calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("reconciler did not stop after cancellation")
	}
}
