// Package main provides the FluentMind HTTP API server.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	charmlog "github.com/charmbracelet/log"

	memcatalog "github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/adapters/catalog/memory"
	pgcatalog "github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/adapters/catalog/postgres"
	sqlitecatalog "github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/adapters/catalog/sqlite"
	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/adapters/embedding/openai"
	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/adapters/execution"
	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/api"
	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/app/services"
	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/config"
)

func main() {
	if err := run(); err != nil {
		charmlog.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	level, err := charmlog.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		level = charmlog.InfoLevel
	}
	logger := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: true,
		Level:           level,
	})

	store, closeStore, err := openCatalog(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	var embedder services.Embedder
	if cfg.EmbeddingEnabled() {
		embedder = openai.NewClient(openai.Config{
			APIKey:         cfg.OpenAI.APIKey,
			BaseURL:        cfg.OpenAI.BaseURL,
			EmbeddingModel: cfg.OpenAI.EmbeddingModel,
			RequestTimeout: cfg.OpenAI.RequestTimeout,
		})
	} else {
		logger.Warn("OPENAI_API_KEY not set, similarity search disabled")
	}

	var submitter services.FlowSubmitter
	if cfg.SubmissionEnabled() {
		client, err := execution.NewClient(execution.Config{
			BaseURL: cfg.Execution.BaseURL,
			APIKey:  cfg.Execution.APIKey,
			Timeout: cfg.Execution.Timeout,
		})
		if err != nil {
			return err
		}
		submitter = client
	} else {
		logger.Warn("EXECUTION_BASE_URL not set, flow submission disabled")
	}

	templates, err := services.NewTemplateService(store, embedder)
	if err != nil {
		return err
	}

	if cfg.App.SeedOnStart {
		resp, err := templates.Seed(ctx)
		if err != nil {
			return fmt.Errorf("seeding templates: %w", err)
		}
		logger.Info("seeded built-in templates", "count", resp.Seeded)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.ServerPort),
		Handler:      api.NewServer(services.NewFlowService(submitter), templates, logger).Router(),
		ReadTimeout:  cfg.App.RequestTimeout,
		WriteTimeout: cfg.App.RequestTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting FluentMind server", "addr", srv.Addr, "catalog", cfg.Catalog.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openCatalog builds the template store named by CATALOG_BACKEND and
// returns it with its cleanup function.
func openCatalog(ctx context.Context, cfg *config.Config) (services.TemplateStore, func(), error) {
	switch cfg.Catalog.Backend {
	case config.BackendPostgres:
		cat, err := pgcatalog.NewCatalog(ctx, pgcatalog.Config{
			DatabaseURL: cfg.GetDatabaseURL(),
			Dimensions:  cfg.Catalog.Dimensions,
			MaxConns:    cfg.Catalog.MaxConnections,
			MinConns:    cfg.Catalog.MinConnections,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("opening postgres catalog: %w", err)
		}
		return cat, cat.Close, nil

	case config.BackendSQLite:
		db, err := sql.Open("sqlite", cfg.Catalog.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite catalog: %w", err)
		}
		cat := sqlitecatalog.NewCatalog(db, nil)
		if err := cat.CreateTables(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("initializing sqlite schema: %w", err)
		}
		return cat, func() { _ = cat.Close() }, nil

	default:
		return memcatalog.NewCatalog(memcatalog.Config{MaxMemoryMB: cfg.Catalog.MaxMemoryMB}), func() {}, nil
	}
}
