// Package service coordinates the primary store and the search index for product operations.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	perrors "github.com/abgdnv/productcatalog/internal/errors"
	"github.com/abgdnv/productcatalog/internal/product"
	"github.com/abgdnv/productcatalog/internal/search"
	"github.com/abgdnv/productcatalog/internal/store"
	applog "github.com/abgdnv/productcatalog/pkg/logger"
	"github.com/abgdnv/productcatalog/pkg/messaging"
	"github.com/abgdnv/productcatalog/pkg/messaging/events"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
)

// ProductService defines the methods for managing products.
// The primary store is authoritative; search shadows are written on a best effort basis.
type ProductService interface {
	// Create validates the request, stores the product and indexes its shadow.
	// Returns the new product ID, or a ValidationError if the request is incomplete.
	Create(ctx context.Context, req product.CreateRequest) (string, error)

	// FindByID retrieves a single product by its identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id string) (*product.Response, error)

	// FindAll returns all products in store order.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]product.Response, error)

	// Update applies a partial update and re-indexes the shadow.
	// Returns false without error if the stored values did not change.
	// Returns ErrProductNotFound if the product does not exist.
	Update(ctx context.Context, id string, patch product.Patch) (bool, error)

	// Delete removes the product from both stores and reports each outcome.
	Delete(ctx context.Context, id string) (DeleteResult, error)

	// Search returns the products whose description matches query, most relevant first.
	Search(ctx context.Context, query string) ([]product.Response, error)

	// Reindex rewrites the shadow of every stored product.
	Reindex(ctx context.Context) (ReindexStats, error)
}

// Service implements ProductService.
type Service struct {
	store          store.ProductStore
	index          search.ProductIndex
	publisher      messaging.Publisher
	validate       *validator.Validate
	logger         *slog.Logger
	shadowFailures metric.Int64Counter
}

var _ ProductService = (*Service)(nil)

// NewService creates a new instance of ProductService.
func NewService(st store.ProductStore, idx search.ProductIndex, publisher messaging.Publisher, logger *slog.Logger) *Service {
	meter := otel.Meter("catalog-service")
	shadowFailures, err := meter.Int64Counter("shadow_write_failures",
		metric.WithDescription("Total number of failed search shadow writes"))
	if err != nil {
		panic(fmt.Sprintf("failed to create shadow_write_failures counter: %v", err))
	}
	if publisher == nil {
		publisher = messaging.NoopPublisher{}
	}
	return &Service{
		store:          st,
		index:          idx,
		publisher:      publisher,
		validate:       validator.New(),
		logger:         applog.Component(logger, "service"),
		shadowFailures: shadowFailures,
	}
}

// Create stores a new product. Only the primary insert must succeed;
// a failed shadow write is logged and counted.
func (s *Service) Create(ctx context.Context, req product.CreateRequest) (string, error) {
	p, err := req.ToProduct(s.validate)
	if err != nil {
		return "", err
	}
	id, err := s.store.Insert(ctx, p.ToStoreRecord())
	if err != nil {
		return "", fmt.Errorf("failed to create product: %w", err)
	}
	p.ID = id
	s.writeShadow(ctx, "create", id, p)
	s.publish(ctx, events.NewProductCreated(id, p.Name, p.Category, p.PriceCents))
	return id, nil
}

// FindByID retrieves a product by its ID.
func (s *Service) FindByID(ctx context.Context, id string) (*product.Response, error) {
	record, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	if record == nil {
		return nil, perrors.ErrProductNotFound
	}
	resp := product.FromStoreRecord(*record).ToResponse()
	return &resp, nil
}

// FindAll retrieves all products.
func (s *Service) FindAll(ctx context.Context) ([]product.Response, error) {
	records, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	products := make([]product.Response, len(records))
	for i, r := range records {
		products[i] = product.FromStoreRecord(r).ToResponse()
	}
	return products, nil
}

// Update applies the allowed fields of patch to the stored product.
func (s *Service) Update(ctx context.Context, id string, patch product.Patch) (bool, error) {
	record, err := s.store.FindByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to find product: %w", err)
	}
	if record == nil {
		return false, perrors.ErrProductNotFound
	}
	p := product.FromStoreRecord(*record)
	if err := p.Apply(patch); err != nil {
		return false, err
	}
	res, err := s.store.UpdateByID(ctx, id, p.ToStoreRecord())
	if err != nil {
		return false, fmt.Errorf("failed to update product: %w", err)
	}
	if !res.Matched {
		// deleted after it was read
		return false, perrors.ErrProductNotFound
	}
	// The shadow is rewritten on every matched update, so an unchanged PUT repairs a missing shadow.
	s.writeShadow(ctx, "update", id, p)
	if !res.Modified {
		return false, nil
	}
	s.publish(ctx, events.NewProductUpdated(id, p.Name, p.Category, p.PriceCents))
	return true, nil
}

// Delete removes the primary record, then the shadow.
// A primary store failure is returned as an error; a shadow failure is reported in the result.
func (s *Service) Delete(ctx context.Context, id string) (DeleteResult, error) {
	primary, err := s.store.DeleteByID(ctx, id)
	if err != nil {
		return DeleteResult{}, fmt.Errorf("failed to delete product: %w", err)
	}
	result := DeleteResult{Primary: primary}
	result.Index, result.IndexErr = s.index.DeleteByID(ctx, id)
	if result.IndexErr != nil {
		s.shadowFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", "delete")))
		s.logger.WarnContext(ctx, "Failed to delete search shadow", "id", id, "error", result.IndexErr)
	}
	if primary {
		s.publish(ctx, events.NewProductDeleted(id))
	}
	return result, nil
}

// Search resolves the IDs matched by the index against the primary store.
// IDs without a primary record are stale shadows and are skipped.
func (s *Service) Search(ctx context.Context, query string) ([]product.Response, error) {
	if strings.TrimSpace(query) == "" {
		return nil, &perrors.ValidationError{
			Kind:    perrors.KindMissingField,
			Field:   "query",
			Message: perrors.ErrEmptyQuery.Error(),
		}
	}
	ids, err := s.index.Match(ctx, search.FieldDescription, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	products := make([]product.Response, 0, len(ids))
	for _, id := range ids {
		record, err := s.store.FindByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve search hit %s: %w", id, err)
		}
		if record == nil {
			s.logger.DebugContext(ctx, "Skipping stale search shadow", "id", id)
			continue
		}
		products = append(products, product.FromStoreRecord(*record).ToResponse())
	}
	return products, nil
}

// Reindex rewrites the shadow of every stored product.
// It stops early once the index reports that it is unavailable.
func (s *Service) Reindex(ctx context.Context) (ReindexStats, error) {
	records, err := s.store.FindAll(ctx)
	if err != nil {
		return ReindexStats{}, fmt.Errorf("failed to load products for reindex: %w", err)
	}
	stats := ReindexStats{Total: len(records)}
	for _, r := range records {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		p := product.FromStoreRecord(r)
		if err := s.index.Upsert(ctx, p.ID, p.ToSearchDocument()); err != nil {
			stats.Failed++
			if errors.Is(err, perrors.ErrIndexUnavailable) {
				return stats, fmt.Errorf("reindex aborted after %d documents: %w", stats.Indexed, err)
			}
			s.logger.WarnContext(ctx, "Failed to reindex product", "id", p.ID, "error", err)
			continue
		}
		stats.Indexed++
	}
	return stats, nil
}

// writeShadow upserts the search shadow of r. Failures never fail the caller.
func (s *Service) writeShadow(ctx context.Context, op, id string, r product.Requestable) {
	if err := s.index.Upsert(ctx, id, r.ToSearchDocument()); err != nil {
		s.shadowFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", op)))
		s.logger.WarnContext(ctx, "Failed to write search shadow", "operation", op, "id", id, "error", err)
	}
}

// publish sends a lifecycle event with the current trace context. Failures are logged only.
func (s *Service) publish(ctx context.Context, event events.ProductEvent) {
	carrier := make(propagation.MapCarrier)
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	event.Carrier = carrier
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish product event", "subject", event.Subject(), "id", event.ProductID, "error", err)
	}
}
