// Package analytics builds the catalog report from aggregates of the primary store and the search index.
package analytics

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abgdnv/productcatalog/internal/money"
	"github.com/abgdnv/productcatalog/internal/search"
	"github.com/abgdnv/productcatalog/internal/store"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// NotAvailable is reported for aggregates over an empty catalog.
const NotAvailable = "N/A"

// Report is the analytics summary of the catalog.
type Report struct {
	TotalProducts           int64   `json:"total_products"`
	PopularCategory         string  `json:"popular_category"`
	AvgPrice                Amount  `json:"avg_price"`
	AvgDescriptionWordCount float64 `json:"avg_description_word_count"`
}

// Amount is an optional money amount rendered as a number, or as "N/A" when absent.
type Amount struct {
	Value decimal.Decimal
	Valid bool
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return json.Marshal(NotAvailable)
	}
	return []byte(a.Value.StringFixed(2)), nil
}

// Aggregator computes the Report.
type Aggregator struct {
	store store.ProductStore
	index search.ProductIndex
}

// NewAggregator creates a new Aggregator over the given stores.
func NewAggregator(st store.ProductStore, idx search.ProductIndex) *Aggregator {
	return &Aggregator{store: st, index: idx}
}

// GenerateReport runs the aggregates concurrently. Any gateway error fails the report.
func (a *Aggregator) GenerateReport(ctx context.Context) (*Report, error) {
	var report Report
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		count, err := a.store.CountAll(gCtx)
		if err != nil {
			return fmt.Errorf("failed to count products: %w", err)
		}
		report.TotalProducts = count
		return nil
	})
	g.Go(func() error {
		category, ok, err := a.store.MostFrequent(gCtx, store.FieldCategory)
		if err != nil {
			return fmt.Errorf("failed to find popular category: %w", err)
		}
		report.PopularCategory = NotAvailable
		if ok {
			report.PopularCategory = category
		}
		return nil
	})
	g.Go(func() error {
		avg, ok, err := a.store.Average(gCtx, store.FieldPrice)
		if err != nil {
			return fmt.Errorf("failed to average prices: %w", err)
		}
		if ok {
			report.AvgPrice = Amount{Value: money.ToDecimal(money.RoundCents(avg)), Valid: true}
		}
		return nil
	})
	g.Go(func() error {
		avg, ok, err := a.index.Average(gCtx, search.FieldWordCount)
		if err != nil {
			return fmt.Errorf("failed to average description word count: %w", err)
		}
		if ok {
			report.AvgDescriptionWordCount = avg
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &report, nil
}
