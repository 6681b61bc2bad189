// Package migrator applies compiled migration documents to PostgreSQL.
//
// The migrator is the database boundary: it never constructs DDL itself,
// it only transports documents produced by pkg/compiler. Applied
// documents are recorded in a strata_migrations table keyed by filename
// with a content checksum, so re-running a migrations directory is
// idempotent and edited documents are detected rather than silently
// re-applied.
//
// # Usage
//
//	db, _ := sql.Open("pgx", dsn)
//	m := migrator.NewMigrator(db, "migrations")
//	applied, err := m.Migrate(ctx, migrator.MigrateOptions{})
package migrator

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/strata-db/strata/pkg/compiler"
	"github.com/strata-db/strata/schema"
)

// bookkeepingDDL creates the migrator's own tables. Idempotent; applied
// before every migration run.
//
// strata_policies snapshots the policy set last applied per table so the
// CLI can reconcile a new schema against the live-applied one without
// parsing SQL back out of the database.
const bookkeepingDDL = `CREATE TABLE IF NOT EXISTS strata_migrations (
    name text PRIMARY KEY,
    checksum text NOT NULL,
    applied_at timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS strata_policies (
    table_name text NOT NULL,
    policy_name text NOT NULL,
    action text NOT NULL,
    condition text NOT NULL,
    roles text[],
    with_check text NOT NULL DEFAULT '',
    position integer NOT NULL DEFAULT 0,
    PRIMARY KEY (table_name, policy_name)
);`

// ErrChecksumMismatch is returned when an already-applied migration file
// has been edited. Use Force to re-apply it anyway.
var ErrChecksumMismatch = errors.New("strata/migrator: applied migration changed on disk")

// MigrateOptions controls migration behavior.
type MigrateOptions struct {
	// DryRun streams SQL to the writer without applying anything.
	DryRun io.Writer

	// Force re-applies documents whose checksum differs from the
	// recorded one instead of failing.
	Force bool
}

// Migrator applies migration documents from a directory in lexical
// filename order. Timestamped filenames from the compile command sort
// chronologically.
type Migrator struct {
	db  Execer
	dir string
	log zerolog.Logger
}

// NewMigrator creates a migrator over a migrations directory.
func NewMigrator(db Execer, dir string) *Migrator {
	return &Migrator{db: db, dir: dir, log: zerolog.Nop()}
}

// WithLogger returns a copy of the migrator that logs progress.
func (m *Migrator) WithLogger(log zerolog.Logger) *Migrator {
	c := *m
	c.log = log
	return &c
}

// ApplyDDL creates the migrator's bookkeeping tables. Idempotent.
func (m *Migrator) ApplyDDL(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, bookkeepingDDL); err != nil {
		return fmt.Errorf("creating bookkeeping tables: %w", err)
	}
	return nil
}

// Documents returns the migration filenames in apply order.
func (m *Migrator) Documents() ([]string, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("reading migrations directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Migrate applies all pending documents and returns how many were
// applied. Already-applied documents (matching name and checksum) are
// skipped.
func (m *Migrator) Migrate(ctx context.Context, opts MigrateOptions) (int, error) {
	if opts.DryRun == nil {
		if err := m.ApplyDDL(ctx); err != nil {
			return 0, err
		}
	}

	names, err := m.Documents()
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, name := range names {
		didApply, err := m.applyDocument(ctx, name, opts)
		if err != nil {
			return applied, fmt.Errorf("migration %s: %w", name, err)
		}
		if didApply {
			applied++
		}
	}
	return applied, nil
}

func (m *Migrator) applyDocument(ctx context.Context, name string, opts MigrateOptions) (bool, error) {
	doc, err := os.ReadFile(filepath.Join(m.dir, name))
	if err != nil {
		return false, fmt.Errorf("reading document: %w", err)
	}

	sum := sha256.Sum256(doc)
	checksum := hex.EncodeToString(sum[:])

	if opts.DryRun != nil {
		if _, err := fmt.Fprintf(opts.DryRun, "-- %s\n%s\n", name, doc); err != nil {
			return false, err
		}
		return true, nil
	}

	var recorded string
	err = m.db.QueryRowContext(ctx,
		`SELECT checksum FROM strata_migrations WHERE name = $1`, name).Scan(&recorded)
	switch {
	case err == nil:
		if recorded == checksum {
			m.log.Debug().Str("migration", name).Msg("unchanged, skipping")
			return false, nil
		}
		if !opts.Force {
			return false, ErrChecksumMismatch
		}
		m.log.Warn().Str("migration", name).Msg("checksum changed, re-applying (force)")
	case errors.Is(err, sql.ErrNoRows):
		// Not yet applied.
	default:
		return false, fmt.Errorf("checking migration record: %w", err)
	}

	if _, err := m.db.ExecContext(ctx, string(doc)); err != nil {
		return false, fmt.Errorf("applying document: %w", err)
	}

	_, err = m.db.ExecContext(ctx, `
		INSERT INTO strata_migrations (name, checksum) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET checksum = EXCLUDED.checksum, applied_at = now()`,
		name, checksum)
	if err != nil {
		return false, fmt.Errorf("recording migration: %w", err)
	}

	m.log.Info().Str("migration", name).Msg("applied")
	return true, nil
}

// SavePolicyState records the policy set just applied for a table,
// replacing any previous snapshot. Role lists are stored as text[].
func (m *Migrator) SavePolicyState(ctx context.Context, table string, policies []schema.Policy) error {
	if _, err := m.db.ExecContext(ctx,
		`DELETE FROM strata_policies WHERE table_name = $1`, table); err != nil {
		return fmt.Errorf("clearing policy state for %s: %w", table, err)
	}

	for i, p := range policies {
		name := compiler.PolicyName(table, p)
		_, err := m.db.ExecContext(ctx, `
			INSERT INTO strata_policies (table_name, policy_name, action, condition, roles, with_check, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			table, name, string(p.Action), p.Condition, pq.Array(p.For), p.WithCheck, i)
		if err != nil {
			return fmt.Errorf("saving policy %s.%s: %w", table, name, err)
		}
	}

	m.log.Debug().Str("table", table).Int("policies", len(policies)).Msg("policy state saved")
	return nil
}

// LoadPolicyState returns the last-applied policy set for a table, in
// the order it was saved. Returns nil when no snapshot exists.
func (m *Migrator) LoadPolicyState(ctx context.Context, table string) ([]schema.Policy, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT policy_name, action, condition, roles, with_check
		FROM strata_policies
		WHERE table_name = $1
		ORDER BY position`, table)
	if err != nil {
		return nil, fmt.Errorf("loading policy state for %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	var policies []schema.Policy
	for rows.Next() {
		var p schema.Policy
		var action string
		var roles pq.StringArray
		if err := rows.Scan(&p.Name, &action, &p.Condition, &roles, &p.WithCheck); err != nil {
			return nil, fmt.Errorf("scanning policy row: %w", err)
		}
		p.Action = schema.PolicyAction(action)
		p.For = roles
		policies = append(policies, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading policy rows: %w", err)
	}
	return policies, nil
}

// Migrate is a convenience wrapper for the common case.
func Migrate(ctx context.Context, db Execer, dir string) (int, error) {
	return NewMigrator(db, dir).Migrate(ctx, MigrateOptions{})
}
