package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"

	"github.com/strata-db/strata/internal/cli"
	"github.com/strata-db/strata/parser"
	"github.com/strata-db/strata/pkg/migrator"
)

var (
	migrateDB     string
	migrateDir    string
	migrateSchema string
	migrateDryRun bool
	migrateForce  bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply migrations to database",
	Long: `Apply compiled migration documents to a PostgreSQL database.

Documents are applied in filename order and recorded with a checksum so
unchanged documents are skipped on re-runs.
When --schema is given, the schema's policy set is also recorded so later
"strata diff --db" runs can diff against it.`,
	Example: `  # Apply pending migrations
  strata migrate --db postgres://localhost/mydb

  # Preview SQL without applying
  strata migrate --db postgres://localhost/mydb --dry-run

  # Re-apply a changed document
  strata migrate --db postgres://localhost/mydb --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := resolveString(migrateDir, cfg.Migrate.Dir, cfg.MigrationsDir)
		dryRun := resolveBool(migrateDryRun, cfg.Migrate.DryRun)
		force := resolveBool(migrateForce, cfg.Migrate.Force)

		dsn, err := resolveDSN(migrateDB)
		if err != nil {
			return err
		}

		return runMigrate(cmd.Context(), dsn, dir, migrateSchema, dryRun, force)
	},
}

func init() {
	f := migrateCmd.Flags()
	f.StringVar(&migrateDB, "db", "", "database URL")
	f.StringVar(&migrateDir, "dir", "", "directory containing compiled migrations")
	f.StringVar(&migrateSchema, "schema", "", "schema file whose policy state to record after applying")
	f.BoolVar(&migrateDryRun, "dry-run", false, "output migration SQL without applying")
	f.BoolVar(&migrateForce, "force", false, "re-apply documents whose checksum changed")
}

// resolveDSN gets the database DSN from flag or config.
func resolveDSN(flagDSN string) (string, error) {
	if flagDSN != "" {
		return flagDSN, nil
	}

	dsn, err := cfg.DSN()
	if err != nil {
		return "", cli.ConfigError("database configuration", err)
	}
	if dsn == "" {
		return "", cli.ConfigError("database URL is required (use --db or set in config)", nil)
	}
	return dsn, nil
}

func runMigrate(ctx context.Context, dsn, dir, schemaPath string, dryRun, force bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return cli.DBConnectError("connecting to database", err)
	}
	defer func() { _ = db.Close() }()

	m := migrator.NewMigrator(db, dir).WithLogger(log)

	opts := migrator.MigrateOptions{
		Force: force,
	}

	if dryRun {
		opts.DryRun = os.Stdout
		if !quiet {
			fmt.Fprintln(os.Stderr, "-- Dry-run mode: SQL will be output but not applied")
			fmt.Fprintln(os.Stderr, "")
		}
	} else if !quiet {
		fmt.Println("Applying migrations...")
	}

	applied, err := m.Migrate(ctx, opts)
	if err != nil {
		return cli.GeneralError("migration failed", err)
	}

	if dryRun {
		return nil
	}

	if !quiet {
		if applied == 0 {
			fmt.Println("Nothing to apply, all migrations up to date.")
		} else {
			fmt.Printf("Applied %d migration(s).\n", applied)
		}
	}

	if schemaPath == "" {
		return nil
	}

	s, err := parser.ParseFile(schemaPath)
	if err != nil {
		return cli.SchemaParseError("parsing schema", err)
	}
	for _, t := range s.Tables {
		if err := m.SavePolicyState(ctx, t.Name, t.Policies); err != nil {
			return cli.GeneralError(fmt.Sprintf("recording policy state for %s", t.Name), err)
		}
	}
	if !quiet {
		fmt.Printf("Recorded policy state for %d table(s).\n", len(s.Tables))
	}

	return nil
}
