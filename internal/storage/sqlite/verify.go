// Package sqlite dry-runs generated scripts against an in-memory SQLite
// database whose schema is derived from the variant's tables.
//
// A successful run shows the script is syntactically valid and that no key
// was emitted twice. It says nothing about how a production schema's
// foreign keys or column types would react.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/JonMunkholm/racesql/internal/core"
	"github.com/JonMunkholm/racesql/internal/logging"
	"github.com/JonMunkholm/racesql/internal/storage"

	_ "modernc.org/sqlite"
)

// Open returns a single-connection in-memory database. Each call yields an
// independent database.
func Open(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	// :memory: databases are per connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}
	return db, nil
}

// Bootstrap creates one table per section of v.
func Bootstrap(ctx context.Context, db *sql.DB, v core.Variant) error {
	for _, sec := range v.Sections {
		ddl, err := BuildCreateTableSQL(sec.Table)
		if err != nil {
			return err
		}
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("sqlite: create %s: %w", sec.Table.Name, err)
		}
	}
	return nil
}

// Verify executes script inside a transaction on a fresh database built from
// v. The transaction is always rolled back.
func Verify(ctx context.Context, v core.Variant, script *core.Script) (*storage.Report, error) {
	logger := logging.WithFields(ctx, "variant", v.Name, "stage", "verify")

	db, err := Open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if err := Bootstrap(ctx, db, v); err != nil {
		return nil, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite: begin: %w", err)
	}
	defer tx.Rollback()

	report := &storage.Report{Rows: make(map[string]int)}
	for _, step := range storage.Steps(script) {
		res, err := tx.ExecContext(ctx, step.Statement)
		if err != nil {
			logger.Warn("statement rejected",
				"index", step.Index+1,
				"section", step.Section,
				"error", err,
			)
			return nil, &storage.StatementError{Index: step.Index, Section: step.Section, Statement: step.Statement, Err: err}
		}
		n, _ := res.RowsAffected()
		report.Rows[step.Table] += int(n)
		report.Statements++
	}

	logger.Info("script verified", slog.Int("statements", report.Statements))
	return report, nil
}
