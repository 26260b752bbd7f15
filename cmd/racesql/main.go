package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/racesql/internal/config"
	"github.com/JonMunkholm/racesql/internal/core"
	_ "github.com/JonMunkholm/racesql/internal/core/variants" // Register all variants
	"github.com/JonMunkholm/racesql/internal/logging"
	"github.com/JonMunkholm/racesql/internal/storage/postgres"
	"github.com/JonMunkholm/racesql/internal/storage/sqlite"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err == nil {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("conversion failed", "error", err, "user_message", core.FormatUserError(err))
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	v, err := core.Lookup(cfg.Convert.Variant)
	if err != nil {
		slog.Info("available variants", "names", core.Names())
		return err
	}
	if v, err = config.ApplyRules(v, cfg.Convert.RulesFile); err != nil {
		return err
	}

	policy, err := core.ParseConflictPolicy(cfg.Convert.ConflictPolicy)
	if err != nil {
		return err
	}

	output := cfg.Convert.OutputFile
	if output == "" {
		output = v.Output
	}

	job := core.Job{
		Variant:     v,
		ResultsPath: cfg.Convert.ResultsFile,
		ExitsPath:   cfg.Convert.ExitsFile,
		OutputPath:  output,
		Options: core.Options{
			ConflictPolicy: policy,
			NullEmptyInts:  cfg.Convert.NullEmptyIntsOverride(),
		},
	}

	res, err := job.Run(ctx)
	if err != nil {
		return err
	}
	slog.Info("script written",
		"output", output,
		"statements", len(res.Script.Statements()),
		"checksum", res.Script.Checksum(),
		"conflicts", len(res.Conflicts),
	)

	if cfg.Convert.Verify {
		report, err := sqlite.Verify(ctx, v, res.Script)
		if err != nil {
			return err
		}
		slog.Info("script verified", "statements", report.Statements, "rows", report.Rows)
	}

	if cfg.Convert.Apply {
		pool, err := postgres.Connect(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer pool.Close()

		report, err := postgres.Apply(ctx, pool, res.Script)
		if err != nil {
			return err
		}
		slog.Info("script applied",
			"database", postgres.DatabaseName(cfg.Database.URL),
			"statements", report.Statements,
			"rows", report.Rows,
		)
	}
	return nil
}
