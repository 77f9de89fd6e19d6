package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/joao-fontenele/storefront/internal/api"
	"github.com/joao-fontenele/storefront/internal/cart"
	"github.com/joao-fontenele/storefront/internal/catalog"
	"github.com/joao-fontenele/storefront/internal/checkout"
	"github.com/joao-fontenele/storefront/internal/config"
	"github.com/joao-fontenele/storefront/internal/httpjson"
	"github.com/joao-fontenele/storefront/internal/messaging"
	"github.com/joao-fontenele/storefront/internal/telemetry"
)

const serviceName = "storefront"

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.TracingEnabled {
		shutdownTracer, err := telemetry.InitTracerProvider(ctx, telemetry.TracerConfig{
			Endpoint:       cfg.OTLPEndpoint,
			ServiceName:    serviceName,
			ServiceVersion: api.Version,
			Environment:    cfg.Environment,
			SampleRatio:    cfg.TraceSampleRatio,
		})
		if err != nil {
			logger.Error("failed to initialize tracer", "error", err)
			os.Exit(1)
		}
		defer func() { _ = shutdownTracer(ctx) }()
	}

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider(serviceName, api.Version)
	if err != nil {
		logger.Error("failed to initialize meter provider", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownMeter(ctx) }()

	metrics, err := telemetry.NewStoreMetrics()
	if err != nil {
		logger.Error("failed to create instruments", "error", err)
		os.Exit(1)
	}

	db, err := telemetry.OpenPostgres(ctx, cfg.PostgresURL, cfg.DBSchema)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	productRepo := catalog.NewProductRepository(db)
	cartRepo := cart.NewCartRepository(db)
	orderRepo := checkout.NewOrderRepository(db)

	if cfg.SeedCatalog {
		seedCatalog(ctx, productRepo, logger)
	}

	var publisher checkout.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		producer := messaging.NewProducer(cfg.KafkaBrokers, cfg.OrderTopic)
		defer func() { _ = producer.Close() }()
		publisher = producer
		logger.Info("publishing order events", "brokers", cfg.KafkaBrokers, "topic", cfg.OrderTopic)
	} else {
		logger.Info("KAFKA_BROKERS not set, order events disabled")
	}

	out := httpjson.NewWriter(logger, cfg.ExposeErrorDetails)
	processor := checkout.NewProcessor(orderRepo, cartRepo, publisher, metrics, logger)

	router := api.NewRouter(api.Handlers{
		Catalog:  catalog.NewHandler(productRepo, out, logger),
		Cart:     cart.NewHandler(cartRepo, metrics, out, logger),
		Checkout: checkout.NewHandler(processor, orderRepo, out, logger),
		Metrics:  metricsHandler,
	}, out, logger, api.Options{AllowedOrigins: cfg.CORSAllowedOrigins})

	server := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: otelhttp.NewHandler(router, serviceName,
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				if r.Pattern != "" {
					return r.Pattern
				}
				return r.Method + " " + r.URL.Path
			}),
		),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting storefront service", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}

// seedCatalog loads the starter products into an empty catalog. A failure
// is logged and the server keeps starting.
func seedCatalog(ctx context.Context, repo *catalog.ProductRepository, logger *slog.Logger) {
	inserted, err := catalog.Seed(ctx, repo, catalog.DefaultProducts())
	if err != nil {
		logger.Error("failed to seed catalog", "error", err)
		return
	}
	if inserted > 0 {
		logger.Info("seeded catalog", "products", inserted)
	}
}
