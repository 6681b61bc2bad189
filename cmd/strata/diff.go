package main

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"

	"github.com/strata-db/strata/internal/cli"
	"github.com/strata-db/strata/parser"
	"github.com/strata-db/strata/pkg/compiler"
	"github.com/strata-db/strata/pkg/migrator"
	"github.com/strata-db/strata/schema"
)

var (
	diffOld   string
	diffNew   string
	diffTable string
	diffDB    string
)

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Show policy changes between schema versions",
	Long: `Show the DROP/CREATE POLICY statements needed to move from one schema
version to another.

With --old, diffs two schema files. With --db, diffs the new schema against
the policy state recorded in the database by a previous migrate run.`,
	Example: `  # Diff two schema files
  strata diff --old schema_v1.yaml --new schema_v2.yaml

  # Diff a schema against recorded database state
  strata diff --new schema.yaml --db postgres://localhost/mydb

  # Limit the diff to one table
  strata diff --old old.yaml --new new.yaml --table users`,
	RunE: func(cmd *cobra.Command, args []string) error {
		newPath := resolveString(diffNew, cfg.Schema)

		newSchema, err := parser.ParseFile(newPath)
		if err != nil {
			return cli.SchemaParseError("parsing new schema", err)
		}

		var oldPolicies func(table string) ([]schema.Policy, error)
		if diffOld != "" {
			oldSchema, err := parser.ParseFile(diffOld)
			if err != nil {
				return cli.SchemaParseError("parsing old schema", err)
			}
			oldPolicies = schemaPolicySource(oldSchema)
		} else {
			dsn, err := resolveDSN(diffDB)
			if err != nil {
				return err
			}
			db, err := sql.Open("pgx", dsn)
			if err != nil {
				return cli.DBConnectError("connecting to database", err)
			}
			defer func() { _ = db.Close() }()

			m := migrator.NewMigrator(db, "").WithLogger(log)
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			oldPolicies = func(table string) ([]schema.Policy, error) {
				return m.LoadPolicyState(ctx, table)
			}
		}

		changed := false
		for _, t := range newSchema.Tables {
			if diffTable != "" && t.Name != diffTable {
				continue
			}
			old, err := oldPolicies(t.Name)
			if err != nil {
				return cli.GeneralError(fmt.Sprintf("loading policy state for %s", t.Name), err)
			}
			stmts := compiler.PolicyChanges(t.Name, old, t.Policies)
			if len(stmts) == 0 {
				continue
			}
			changed = true
			if !quiet {
				fmt.Printf("-- %s\n", t.Name)
			}
			for _, stmt := range stmts {
				fmt.Println(stmt)
			}
			fmt.Println()
		}

		if !changed && !quiet {
			fmt.Println("No policy changes.")
		}

		return nil
	},
}

// schemaPolicySource adapts a parsed schema to the policy lookup the diff
// uses. Tables absent from the old schema have no prior policies, so every
// policy in the new schema surfaces as a create.
func schemaPolicySource(s *schema.Schema) func(table string) ([]schema.Policy, error) {
	return func(table string) ([]schema.Policy, error) {
		if t, ok := s.Table(table); ok {
			return t.Policies, nil
		}
		return nil, nil
	}
}

func init() {
	f := diffCmd.Flags()
	f.StringVar(&diffOld, "old", "", "path to the old schema file")
	f.StringVar(&diffNew, "new", "", "path to the new schema file (default: configured schema)")
	f.StringVar(&diffTable, "table", "", "limit the diff to a single table")
	f.StringVar(&diffDB, "db", "", "database URL to diff against recorded policy state")
}
