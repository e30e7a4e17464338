package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "net/http/pprof"

	"github.com/abgdnv/productcatalog/internal/app"
	"github.com/abgdnv/productcatalog/internal/config"
	"github.com/abgdnv/productcatalog/internal/reconcile"
	"github.com/abgdnv/productcatalog/pkg/bootstrap"
	"github.com/abgdnv/productcatalog/pkg/config/configloader"
	"github.com/abgdnv/productcatalog/pkg/messaging"
	natsclient "github.com/abgdnv/productcatalog/pkg/nats"
	"github.com/abgdnv/productcatalog/pkg/telemetry"
	"github.com/nats-io/nats.go"
	"golang.org/x/sync/errgroup"
)

const serviceName = "catalog"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Printf("application run failed: %v", err)
		os.Exit(1)
	}
	log.Println("application stopped gracefully")
}

// run loads the configuration, connects the stores and runs the HTTP server,
// the pprof server and the reconciler until ctx is cancelled.
func run(ctx context.Context) error {
	cfg, cfgErr := configloader.Load[*config.Config](serviceName)
	if cfgErr != nil {
		return fmt.Errorf("failed to load configuration: %w", cfgErr)
	}
	log.Printf("Configuration loaded: %v", cfg)

	logger := bootstrap.NewLogger(cfg.Log)
	slog.SetDefault(logger)

	shutdownTelemetry, metricsHandler, err := setupTelemetry(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer shutdownTelemetry()

	mongoClient, err := bootstrap.NewMongoClient(ctx, cfg.Mongo)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
		defer cancel()
		if err := mongoClient.Disconnect(shutdownCtx); err != nil {
			logger.Error("Failed to disconnect from MongoDB", slog.String("error", err.Error()))
		} else {
			logger.Info("MongoDB connection closed")
		}
	}()
	logger.Info("Successfully connected to MongoDB", slog.String("database", cfg.Mongo.Database))

	st, err := app.NewStore(ctx, mongoClient, cfg)
	if err != nil {
		return err
	}
	idx, err := app.NewIndex(ctx, cfg, logger)
	if err != nil {
		return err
	}

	publisher, closePublisher, err := newPublisher(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closePublisher()

	deps := app.SetupDependencies(st, idx, publisher, logger)
	deps.Metrics = metricsHandler
	httpServer := app.SetupHttpServer(deps, cfg)
	pprofServer := &http.Server{
		Addr: cfg.PProf.Addr,
	}
	reconciler := reconcile.NewReconciler(deps.ProductService, cfg.Reindex.Interval, cfg.Reindex.OnStartup, logger)

	g, gCtx := errgroup.WithContext(ctx)

	// Start the HTTP server
	g.Go(func() error {
		logger.Info("HTTP server listening", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})
	// gracefully shutdown HTTP server on context cancellation
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	// Start the pprof server if enabled
	if cfg.PProf.Enabled {
		g.Go(func() error {
			logger.Info("Pprof server listening", slog.String("addr", pprofServer.Addr))
			if err := pprofServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("pprof server failed: %w", err)
			}
			return nil
		})
		// gracefully shutdown pprof server on context cancellation
		g.Go(func() error {
			<-gCtx.Done()
			logger.Info("Shutting down pprof server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
			defer cancel()
			return pprofServer.Shutdown(shutdownCtx)
		})
	}

	// Rebuild search shadows in the background
	g.Go(func() error {
		return reconciler.Run(gCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("errgroup encountered an error: %w", err)
	}
	return nil
}

// setupTelemetry installs the tracer provider when an OTLP endpoint is configured
// and always installs the Prometheus backed meter provider.
func setupTelemetry(ctx context.Context, cfg *config.Config, logger *slog.Logger) (func(), http.Handler, error) {
	meterProvider, metricsHandler, err := telemetry.NewMeterProvider(serviceName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create meter provider: %w", err)
	}
	shutdowns := []func(context.Context) error{meterProvider.Shutdown}

	if cfg.Telemetry.Enabled() {
		tracerProvider, err := telemetry.NewTracerProvider(ctx, serviceName, cfg.Telemetry)
		if err != nil {
			logger.Error("error creating tracer provider", slog.Any("error", err))
			return nil, nil, err
		}
		shutdowns = append(shutdowns, tracerProvider.Shutdown)
	} else {
		logger.Info("Tracing is disabled")
	}

	return func() {
		logger.Info("Shutting down telemetry providers")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
		defer cancel()
		for _, shutdown := range shutdowns {
			if err := shutdown(shutdownCtx); err != nil {
				logger.Error("Failed to shutdown telemetry provider", slog.Any("error", err))
			}
		}
	}, metricsHandler, nil
}

// newPublisher connects to NATS JetStream when enabled; otherwise events are dropped.
func newPublisher(ctx context.Context, cfg *config.Config, logger *slog.Logger) (messaging.Publisher, func(), error) {
	if !cfg.Nats.Enabled {
		logger.Info("Event publishing is disabled")
		return messaging.NoopPublisher{}, func() {}, nil
	}
	nc, err := natsclient.NewClient(cfg.Nats.Url, cfg.Nats.Timeout)
	if err != nil {
		return nil, nil, err
	}
	js, err := natsclient.NewJetStreamContext(nc)
	if err != nil {
		return nil, nil, err
	}
	if err := natsclient.EnsureStream(ctx, js, messaging.ProductsStream, messaging.ProductsSubjects); err != nil {
		nc.Close()
		return nil, nil, err
	}
	logger.Info("Connected to NATS", slog.String("url", cfg.Nats.Url))
	return natsclient.NewNatsPublisher(js), func() { drain(nc, logger) }, nil
}

func drain(nc *nats.Conn, logger *slog.Logger) {
	if err := nc.Drain(); err != nil {
		logger.Error("Failed to drain NATS connection", slog.String("error", err.Error()))
	}
}
