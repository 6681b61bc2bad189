package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/strata-db/strata/internal/cli"
	"github.com/strata-db/strata/parser"
	"github.com/strata-db/strata/pkg/compiler"
)

var (
	compileSchema string
	compileOutDir string
	compileName   string
	compileDesc   string
	compileStdout bool
)

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile schema to a SQL migration",
	Long:  `Compile a declarative schema file into a PostgreSQL migration document.`,
	Example: `  # Compile schema.yaml into the migrations directory
  strata compile --schema schema.yaml --name initial_schema

  # Write the migration to stdout
  strata compile --schema schema.yaml --stdout`,
	RunE: func(cmd *cobra.Command, args []string) error {
		schemaPath := resolveString(compileSchema, cfg.Compile.Schema, cfg.Schema)
		outDir := resolveString(compileOutDir, cfg.Compile.OutDir, cfg.MigrationsDir)
		name := resolveString(compileName, "schema")
		desc := resolveString(compileDesc, "Schema migration")

		s, err := parser.ParseFile(schemaPath)
		if err != nil {
			return cli.SchemaParseError("parsing schema", err)
		}

		doc, err := compiler.Compile(s, desc)
		if err != nil {
			return cli.SchemaParseError("compiling schema", err)
		}

		if compileStdout {
			fmt.Print(doc)
			return nil
		}

		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return cli.GeneralError("creating migrations directory", err)
		}

		filename := fmt.Sprintf("%s_%s.sql", time.Now().UTC().Format("20060102150405"), name)
		outPath := filepath.Join(outDir, filename)
		if err := os.WriteFile(outPath, []byte(doc), 0o644); err != nil {
			return cli.GeneralError(fmt.Sprintf("writing %s", outPath), err)
		}

		if !quiet {
			fmt.Printf("Compiled %s -> %s\n", schemaPath, outPath)
		}
		log.Debug().Str("schema", schemaPath).Str("migration", outPath).Msg("compiled schema")

		return nil
	},
}

func init() {
	f := compileCmd.Flags()
	f.StringVar(&compileSchema, "schema", "", "path to schema file")
	f.StringVar(&compileOutDir, "out-dir", "", "migrations output directory")
	f.StringVar(&compileName, "name", "", "migration name (default: schema)")
	f.StringVar(&compileDesc, "description", "", "migration description for the document header")
	f.BoolVar(&compileStdout, "stdout", false, "write migration to stdout instead of a file")
}
