// Command seed inserts a small set of sample products into an empty catalog.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/abgdnv/productcatalog/internal/app"
	"github.com/abgdnv/productcatalog/internal/config"
	"github.com/abgdnv/productcatalog/internal/product"
	"github.com/abgdnv/productcatalog/pkg/bootstrap"
	"github.com/abgdnv/productcatalog/pkg/config/configloader"
	"github.com/abgdnv/productcatalog/pkg/messaging"
	"github.com/shopspring/decimal"
)

const serviceName = "catalog"

type sample struct {
	name, category, price, quantity, description string
}

var samples = []sample{
	{name: "Product 1", category: "tech", price: "10.99", quantity: "10", description: "This is the first product"},
	{name: "Product 2", category: "tech", price: "19.99", quantity: "5", description: "This is the second product"},
	{name: "Product 3", category: "marketing", price: "5.99", quantity: "7", description: "This is the third product"},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Printf("seeding failed: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := configloader.Load[*config.Config](serviceName)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := bootstrap.NewLogger(cfg.Log)

	mongoClient, err := bootstrap.NewMongoClient(ctx, cfg.Mongo)
	if err != nil {
		return err
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	st, err := app.NewStore(ctx, mongoClient, cfg)
	if err != nil {
		return err
	}
	idx, err := app.NewIndex(ctx, cfg, logger)
	if err != nil {
		return err
	}
	deps := app.SetupDependencies(st, idx, messaging.NoopPublisher{}, logger)

	existing, err := deps.ProductService.FindAll(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		logger.Info("Catalog is not empty, skipping seed", slog.Int("count", len(existing)))
		return nil
	}

	logger.Info("Seeding the catalog...")
	for _, s := range samples {
		price := decimal.RequireFromString(s.price)
		id, err := deps.ProductService.Create(ctx, product.CreateRequest{
			Name:        s.name,
			Category:    s.category,
			Price:       &price,
			Quantity:    product.Text(s.quantity),
			Description: s.description,
		})
		if err != nil {
			return fmt.Errorf("failed to create %q: %w", s.name, err)
		}
		logger.Info("Product created", slog.String("ID", id), slog.String("name", s.name))
	}
	return nil
}
