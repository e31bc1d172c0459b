// Command joinbench times client-side reference resolution against a
// server-side lookup aggregation at every configured scale.
//
// It takes no flags. Set JOINBENCH_CONFIG to a YAML file or use JOINBENCH_*
// environment variables to override the defaults.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"pollex.nl/joinbench/bench"
	"pollex.nl/joinbench/config"
	"pollex.nl/joinbench/metrics"
	"pollex.nl/joinbench/mongostore"
	"pollex.nl/joinbench/sqlstore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "joinbench: %v\n", err)
		os.Exit(1)
	}

	logger := cfg.Log.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error("benchmark failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	logger.Info("store connected", "driver", cfg.Store.Driver)

	recorder := metrics.NewRecorder()
	runner := bench.NewRunner(store,
		bench.WithScales(cfg.BenchScales()...),
		bench.WithRegenerate(cfg.Regenerate),
		bench.WithRecorder(recorder),
		bench.WithLogger(logger),
		bench.WithOutput(os.Stdout),
	)

	summary, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	runner.RenderSummary(summary)

	if cfg.Metrics.Textfile != "" {
		if err := recorder.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
		logger.Info("metrics written", "path", cfg.Metrics.Textfile)
	}

	return nil
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (bench.Store, error) {
	switch cfg.Store.Driver {
	case config.DriverMongoDB:
		return mongostore.Connect(ctx, cfg.Store.URI, cfg.Store.Database,
			mongostore.WithBatchSize(cfg.BatchSize),
			mongostore.WithLogger(logger),
		)
	case config.DriverSQLite:
		return sqlstore.Open(ctx, sqlstore.SQLite, cfg.Store.URI,
			sqlstore.WithBatchSize(cfg.BatchSize),
			sqlstore.WithLogger(logger),
		)
	case config.DriverPostgres:
		return sqlstore.Open(ctx, sqlstore.Postgres, cfg.Store.URI,
			sqlstore.WithBatchSize(cfg.BatchSize),
			sqlstore.WithLogger(logger),
		)
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}
