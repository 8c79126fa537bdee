package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/lapakhq/lapak/internal/advisor"
	"github.com/lapakhq/lapak/internal/config"
	"github.com/lapakhq/lapak/internal/database"
	apphttp "github.com/lapakhq/lapak/internal/http"
	"github.com/lapakhq/lapak/internal/http/audit"
	"github.com/lapakhq/lapak/internal/http/export"
	"github.com/lapakhq/lapak/internal/http/importcsv"
	"github.com/lapakhq/lapak/internal/http/products"
	"github.com/lapakhq/lapak/internal/http/transactions"
	"github.com/lapakhq/lapak/internal/importer"
	"github.com/lapakhq/lapak/internal/ledger"
	"github.com/lapakhq/lapak/internal/report"
	"github.com/lapakhq/lapak/internal/store"
	"github.com/lapakhq/lapak/internal/store/memory"
	"github.com/lapakhq/lapak/internal/store/postgres"
	"github.com/lapakhq/lapak/internal/store/sqlite"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	kv, err := openKV(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}

	svc := ledger.NewService(store.New(kv))

	var adv advisor.HealthAdvisor
	if cfg.Advisor.APIKey != "" {
		adv = advisor.NewGemini(advisor.GeminiConfig{
			APIKey:     cfg.Advisor.APIKey,
			Model:      cfg.Advisor.Model,
			HTTPClient: &http.Client{Timeout: cfg.Advisor.Timeout},
		})

		slog.Info("advisor configured", "model", cfg.Advisor.Model)
	} else {
		adv = advisor.NewRules()

		slog.Info("advisor running offline heuristics")
	}

	handler := apphttp.New(
		transactions.NewHandler(svc),
		products.NewHandler(svc),
		audit.NewHandler(svc, adv),
		importcsv.NewHandler(importer.NewParser(), svc),
		export.NewHandler(report.NewService(svc)),
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	slog.Info("starting server",
		"app", cfg.App.Name,
		"port", cfg.App.Port,
		"store", cfg.Store.Driver,
	)

	return server.ListenAndServe()
}

// openKV builds the persistence driver selected by STORE_DRIVER.
func openKV(ctx context.Context, cfg *config.Config) (store.KV, error) {
	switch cfg.Store.Driver {
	case "memory":
		return memory.New(), nil
	case "postgres":
		db, err := database.New("pgx", cfg.DSN())
		if err != nil {
			return nil, err
		}

		kv := postgres.New(db)
		if err := kv.Ensure(ctx); err != nil {
			return nil, err
		}

		return kv, nil
	case "sqlite":
		db, err := database.New("sqlite", cfg.DSN())
		if err != nil {
			return nil, err
		}

		kv := sqlite.New(db)
		if err := kv.Ensure(ctx); err != nil {
			return nil, err
		}

		return kv, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
