package app

import (
	"context"
	"log/slog"

	"github.com/abgdnv/productcatalog/internal/config"
	"github.com/abgdnv/productcatalog/internal/search"
	"github.com/abgdnv/productcatalog/internal/store"
	"github.com/abgdnv/productcatalog/pkg/bootstrap"
	"go.mongodb.org/mongo-driver/mongo"
)

// NewStore opens the products collection and creates its indexes.
func NewStore(ctx context.Context, client *mongo.Client, cfg *config.Config) (*store.MongoStore, error) {
	coll := client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection)
	st := store.NewMongoStore(coll)
	if err := st.EnsureIndexes(ctx); err != nil {
		return nil, err
	}
	return st, nil
}

// NewIndex connects to Elasticsearch, creates the index if needed and wraps it in a circuit breaker.
func NewIndex(ctx context.Context, cfg *config.Config, logger *slog.Logger) (search.ProductIndex, error) {
	esClient, err := bootstrap.NewElasticClient(ctx, cfg.Elastic, cfg.Resilience.Retry)
	if err != nil {
		return nil, err
	}
	elastic := search.NewElasticIndex(esClient, search.ElasticConfig{
		Index:      cfg.Elastic.Index,
		Timeout:    cfg.Elastic.Timeout,
		Refresh:    cfg.Elastic.Refresh,
		MaxResults: cfg.Elastic.MaxResults,
	})
	if err := elastic.EnsureIndex(ctx); err != nil {
		return nil, err
	}
	logger.Info("Search index ready", slog.String("index", cfg.Elastic.Index))
	return search.NewBreakerIndex(elastic, cfg.Resilience.CircuitBreaker, logger), nil
}
