package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	perrors "github.com/abgdnv/productcatalog/internal/errors"
	"github.com/abgdnv/productcatalog/pkg/config"
	"github.com/sony/gobreaker/v2"
)

// BreakerIndex wraps a ProductIndex in a circuit breaker.
// Only ErrIndexUnavailable counts as a failure; while the breaker is open
// calls fail fast with ErrIndexUnavailable without reaching the engine.
type BreakerIndex struct {
	next ProductIndex
	cb   *gobreaker.CircuitBreaker[any]
}

var _ ProductIndex = (*BreakerIndex)(nil)

// NewBreakerIndex creates a BreakerIndex around next.
func NewBreakerIndex(next ProductIndex, cfg config.CircuitBreakerConfig, logger *slog.Logger) *BreakerIndex {
	st := gobreaker.Settings{
		Name:        "search-index-cb",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			total := counts.TotalSuccesses + counts.TotalFailures
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures ||
				(total > cfg.ConsecutiveFailures &&
					float64(counts.TotalFailures)/float64(total)*100 > float64(cfg.ErrorRatePercent))
		},
		IsSuccessful: func(err error) bool {
			// Rejected requests and missing documents are not engine failures.
			return err == nil || !errors.Is(err, perrors.ErrIndexUnavailable)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	}
	return &BreakerIndex{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[any](st),
	}
}

// State returns the current breaker state.
func (b *BreakerIndex) State() gobreaker.State {
	return b.cb.State()
}

func (b *BreakerIndex) Upsert(ctx context.Context, id string, doc Document) error {
	_, err := execute(b, func() (struct{}, error) {
		return struct{}{}, b.next.Upsert(ctx, id, doc)
	})
	return err
}

func (b *BreakerIndex) DeleteByID(ctx context.Context, id string) (bool, error) {
	return execute(b, func() (bool, error) {
		return b.next.DeleteByID(ctx, id)
	})
}

func (b *BreakerIndex) Match(ctx context.Context, field, text string) ([]string, error) {
	return execute(b, func() ([]string, error) {
		return b.next.Match(ctx, field, text)
	})
}

func (b *BreakerIndex) Average(ctx context.Context, field string) (float64, bool, error) {
	type avg struct {
		value float64
		ok    bool
	}
	res, err := execute(b, func() (avg, error) {
		v, ok, err := b.next.Average(ctx, field)
		return avg{value: v, ok: ok}, err
	})
	return res.value, res.ok, err
}

// execute runs fn through the breaker and maps breaker rejections to ErrIndexUnavailable.
func execute[T any](b *BreakerIndex, fn func() (T, error)) (T, error) {
	var zero T
	res, err := b.cb.Execute(func() (any, error) {
		return fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return zero, fmt.Errorf("%w: %w", perrors.ErrIndexUnavailable, err)
	}
	v, ok := res.(T)
	if !ok {
		return zero, err
	}
	return v, err
}
