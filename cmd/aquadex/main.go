package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aquadex/aquadex/internal/catalog"
	"github.com/aquadex/aquadex/internal/engine"
	"github.com/aquadex/aquadex/internal/engine/synonyms"
	"github.com/aquadex/aquadex/internal/server"
	"github.com/aquadex/aquadex/pkg/config"
	"github.com/aquadex/aquadex/pkg/health"
	"github.com/aquadex/aquadex/pkg/kafka"
	"github.com/aquadex/aquadex/pkg/logger"
	"github.com/aquadex/aquadex/pkg/metrics"
	"github.com/aquadex/aquadex/pkg/middleware"
	"github.com/aquadex/aquadex/pkg/postgres"
)

// Source supplies the corpus the index is rebuilt from.
type Source interface {
	Load(ctx context.Context) ([]catalog.Record, error)
}

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting aquadex", "port", cfg.Server.Port, "catalog_source", cfg.Catalog.Source)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var source Source
	var pgClient *postgres.Client
	switch cfg.Catalog.Source {
	case "postgres":
		pgClient, err = postgres.New(cfg.Catalog.Postgres)
		if err != nil {
			slog.Error("failed to connect to catalog database", "error", err)
			os.Exit(1)
		}
		defer pgClient.Close()
		source = &catalog.PostgresSource{Client: pgClient, Table: cfg.Catalog.Postgres.Table}
	default:
		source = &catalog.FileSource{Path: cfg.Catalog.FilePath}
	}

	m := metrics.New()
	eng := engine.New(cfg.Fields, synonyms.Default(),
		engine.WithCacheTTL(cfg.Search.CacheTTL),
		engine.WithMetrics(m),
	)

	var rebuiltProducer *kafka.Producer
	if cfg.Kafka.Enabled {
		rebuiltProducer = kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.IndexRebuilt)
		defer rebuiltProducer.Close()
	}

	rebuild := func(ctx context.Context) error {
		corpus, err := source.Load(ctx)
		if err != nil {
			m.IndexRebuildsTotal.WithLabelValues("error").Inc()
			return err
		}
		eng.BuildIndex(corpus)
		if rebuiltProducer != nil {
			snap := eng.Snapshot()
			event := kafka.Event{
				Key: "index-rebuilt",
				Value: catalog.RebuiltEvent{
					Documents: snap.DocCount(),
					Terms:     snap.TermCount(),
					Timestamp: time.Now().UTC(),
				},
			}
			if err := rebuiltProducer.Publish(ctx, event); err != nil {
				slog.Warn("failed to publish index-rebuilt event", "error", err)
			}
		}
		return nil
	}

	if err := rebuild(ctx); err != nil {
		slog.Error("initial index build failed", "error", err)
		os.Exit(1)
	}

	if cfg.Kafka.Enabled {
		consumer := kafka.NewConsumer(cfg.Kafka, cfg.Kafka.Topics.CatalogChanged, catalog.HandleChange(rebuild))
		go func() {
			if err := consumer.Start(ctx); err != nil {
				slog.Error("catalog consumer error", "error", err)
			}
		}()
		slog.Info("catalog change consumer started", "topic", cfg.Kafka.Topics.CatalogChanged)
	}

	checker := health.NewChecker()
	checker.Register("index", func(ctx context.Context) health.ComponentHealth {
		snap := eng.Snapshot()
		if snap == nil {
			return health.ComponentHealth{Status: health.StatusDown, Message: "index not built"}
		}
		return health.ComponentHealth{
			Status:  health.StatusUp,
			Message: fmt.Sprintf("%d documents, %d terms", snap.DocCount(), snap.TermCount()),
		}
	})
	if pgClient != nil {
		checker.Register("catalog", func(ctx context.Context) health.ComponentHealth {
			if err := pgClient.Ping(ctx); err != nil {
				return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
			}
			return health.ComponentHealth{Status: health.StatusUp}
		})
	}

	h := server.New(eng, cfg.Search, rebuild)
	mux := http.NewServeMux()
	h.Register(mux)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	var chain http.Handler = mux
	chain = middleware.Timeout(cfg.Server.WriteTimeout)(chain)
	chain = middleware.Metrics(m)(chain)
	chain = middleware.RequestID(chain)

	var stopMetrics func(context.Context) error
	if cfg.Metrics.Enabled {
		stopMetrics = metrics.StartServer(cfg.Metrics.Port)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
		if stopMetrics != nil {
			if err := stopMetrics(shutdownCtx); err != nil {
				slog.Error("metrics server shutdown error", "error", err)
			}
		}
	}()

	slog.Info("aquadex listening", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	slog.Info("aquadex stopped")
}
