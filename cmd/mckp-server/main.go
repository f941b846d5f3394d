// Package main is the entry point for the mckp HTTP server.
//
// The server exposes the loadout optimizer over a JSON API (see
// internal/api) and Prometheus metrics at /metrics.
//
// # Configuration
//
// Settings are read from mckp.yaml (or the file named by MCKP_CONFIG) and
// MCKP_* environment variables. The most common ones:
//   - MCKP_ADDR: listen address (default :8080)
//   - MCKP_DATASET_PATH: dataset served to requests that carry none
//   - MCKP_STRATEGY: table, diagram or bruteforce
//   - MCKP_CACHE_TTL: result cache lifetime, 0 disables caching
//   - MCKP_LOG_LEVEL, MCKP_LOG_FORMAT: logging
//
// # Signal Handling
//
// SIGINT and SIGTERM stop accepting connections and give in-flight
// requests shutdownTimeout to finish.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zzenonn/go-mckp"
	"github.com/zzenonn/go-mckp/internal/api"
	"github.com/zzenonn/go-mckp/internal/config"
	"github.com/zzenonn/go-mckp/internal/dataset"
	"github.com/zzenonn/go-mckp/internal/logging"
	"github.com/zzenonn/go-mckp/internal/metrics"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load("")
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stdout,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, cfg); err != nil {
		logging.Fatal().Err(err).Msg("Server stopped with error")
	}
	logging.Info().Msg("Server stopped gracefully")
}

// serve runs the HTTP server until ctx is canceled.
func serve(ctx context.Context, cfg *config.Config) error {
	solverOpts, err := cfg.SolverOptions(logging.WithComponent("solver"), metrics.SolveObserver{})
	if err != nil {
		return err
	}

	var ds *mckp.Dataset
	if cfg.Dataset.Path != "" {
		loaded, err := dataset.Load(cfg.Dataset.Path)
		if err != nil {
			return err
		}
		ds = &loaded
		logging.Info().
			Str("path", cfg.Dataset.Path).
			Int("categories", len(loaded.Categories)).
			Msg("Default dataset loaded")
	}

	handler := api.NewHandler(api.Options{
		SolverOptions: solverOpts,
		Dataset:       ds,
		Formatter:     cfg.Formatter(),
		Schema:        cfg.SchemaDef(),
		CacheTTL:      cfg.Server.CacheTTL,
		MaxBodyBytes:  cfg.Server.MaxBodyBytes,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.NewRouter(handler),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logging.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logging.Info().Msg("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
