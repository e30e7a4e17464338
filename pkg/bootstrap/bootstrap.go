package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/abgdnv/productcatalog/pkg/config"
	"github.com/abgdnv/productcatalog/pkg/logger"
	"github.com/elastic/go-elasticsearch/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NewLogger creates a new slog.Logger writing to stdout with the configured level and format.
// Records carry the request and trace IDs found in their context.
func NewLogger(cfg config.LogConfig) *slog.Logger {
	return slog.New(logger.NewContextHandler(newHandler(os.Stdout, cfg)))
}

func newHandler(w io.Writer, cfg config.LogConfig) slog.Handler {
	logLevel := toLevel(cfg.Level)
	loggerOpts := &slog.HandlerOptions{
		AddSource: logLevel == slog.LevelDebug,
		Level:     logLevel,
	}
	if cfg.Format == "text" {
		return slog.NewTextHandler(w, loggerOpts)
	}
	return slog.NewJSONHandler(w, loggerOpts)
}

// NewMongoClient connects to MongoDB and pings it to fail early.
// cfg.Timeout bounds the connection attempt and every later operation of the client.
func NewMongoClient(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetTimeout(cfg.Timeout).
		SetServerSelectionTimeout(cfg.Timeout)
	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return client, nil
}

// NewElasticClient creates an Elasticsearch client and checks that the cluster answers.
// Requests answered with 502, 503 or 504 are retried with exponential backoff.
func NewElasticClient(ctx context.Context, cfg config.ElasticConfig, retry config.RetryConfig) (*elasticsearch.Client, error) {
	esCfg := elasticsearch.Config{
		Addresses:     cfg.Addresses,
		Username:      cfg.Username,
		Password:      cfg.Password,
		MaxRetries:    int(retry.MaxAttempts),
		RetryOnStatus: []int{http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout},
		RetryBackoff:  backoff(retry.InitialBackoff),
	}
	if cfg.CACertFile != "" {
		caCert, err := os.ReadFile(cfg.CACertFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read elasticsearch CA certificate: %w", err)
		}
		esCfg.CACert = caCert
	}
	client, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	res, err := client.Ping(client.Ping.WithContext(pingCtx))
	if err != nil {
		return nil, fmt.Errorf("failed to ping elasticsearch: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("failed to ping elasticsearch: %s", res.Status())
	}
	return client, nil
}

// backoff returns an exponential backoff starting at initial.
func backoff(initial time.Duration) func(attempt int) time.Duration {
	if initial <= 0 {
		initial = 100 * time.Millisecond
	}
	return func(attempt int) time.Duration {
		if attempt < 1 {
			attempt = 1
		}
		return initial << (attempt - 1)
	}
}

// toLevel converts a string representation of a log level to slog.Level.
func toLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
