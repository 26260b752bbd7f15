// Package postgres applies generated scripts to a PostgreSQL database.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/JonMunkholm/racesql/internal/config"
	"github.com/JonMunkholm/racesql/internal/core"
	"github.com/JonMunkholm/racesql/internal/logging"
	"github.com/JonMunkholm/racesql/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNoDatabase is returned when applying without a configured database.
var ErrNoDatabase = errors.New("no database configured")

// TxBeginner starts transactions. *pgxpool.Pool and *pgx.Conn satisfy it.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Connect opens and pings a pool sized from cfg.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	if cfg.URL == "" {
		return nil, ErrNoDatabase
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// DatabaseName returns the database name from a connection URL, or "".
func DatabaseName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Path, "/")
}

// Apply executes every statement of script in one transaction. Any failure
// rolls the whole script back.
func Apply(ctx context.Context, db TxBeginner, script *core.Script) (*storage.Report, error) {
	if db == nil {
		return nil, ErrNoDatabase
	}
	logger := logging.WithFields(ctx, "stage", "apply")

	tx, err := db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	report := &storage.Report{Rows: make(map[string]int)}
	for _, step := range storage.Steps(script) {
		tag, err := tx.Exec(ctx, step.Statement)
		if err != nil {
			logger.Warn("statement rejected, rolling back",
				"index", step.Index+1,
				"section", step.Section,
				"error", err,
			)
			return nil, &storage.StatementError{Index: step.Index, Section: step.Section, Statement: step.Statement, Err: err}
		}
		report.Rows[step.Table] += int(tag.RowsAffected())
		report.Statements++
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	logger.Info("script applied", "statements", report.Statements)
	return report, nil
}
