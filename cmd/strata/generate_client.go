package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/strata-db/strata/internal/cli"
	"github.com/strata-db/strata/internal/clientgen"
	_ "github.com/strata-db/strata/internal/clientgen/golang"
	_ "github.com/strata-db/strata/internal/clientgen/typescript"
	"github.com/strata-db/strata/parser"
)

var (
	genClientRuntime string
	genClientSchema  string
	genClientOutput  string
	genClientPackage string
	genClientFilter  string
)

var generateClientCmd = &cobra.Command{
	Use:   "client",
	Short: "Generate type-safe client code",
	Long:  `Generate table, column, and policy name constants from a schema.`,
	Example: `  # Generate Go code to a directory
  strata generate client --runtime go --schema schema.yaml --output internal/dbschema/

  # Generate with custom package name
  strata generate client --runtime go --schema schema.yaml --output . --package mydb

  # Output to stdout
  strata generate client --runtime go --schema schema.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Resolve values: flags > config > defaults
		runtime := resolveString(genClientRuntime, cfg.Generate.Client.Runtime, "go")
		schemaPath := resolveString(genClientSchema, cfg.Generate.Client.Schema, cfg.Schema)
		output := resolveString(genClientOutput, cfg.Generate.Client.Output)
		pkg := resolveString(genClientPackage, cfg.Generate.Client.Package, "dbschema")

		if schemaPath == "" {
			return cli.ConfigError("--schema is required", nil)
		}

		gen := clientgen.Get(runtime)
		if gen == nil {
			return cli.ConfigError(
				fmt.Sprintf("unknown runtime %q", runtime),
				fmt.Errorf("supported runtimes: %s", strings.Join(clientgen.List(), ", ")),
			)
		}

		if _, err := os.Stat(schemaPath); err != nil {
			return cli.SchemaParseError(fmt.Sprintf("schema not found: %s", schemaPath), nil)
		}

		s, err := parser.ParseFile(schemaPath)
		if err != nil {
			return cli.SchemaParseError("parsing schema", err)
		}

		genCfg := gen.DefaultConfig()
		genCfg.Package = pkg
		genCfg.TableFilter = genClientFilter

		files, err := gen.Generate(s, genCfg)
		if err != nil {
			return cli.GeneralError("generation failed", err)
		}

		if output == "" {
			if len(files) > 1 {
				return cli.ConfigError("--output is required for multi-file generation", nil)
			}
			for _, content := range files {
				if _, err := os.Stdout.Write(content); err != nil {
					return cli.GeneralError("writing to stdout", err)
				}
			}
			return nil
		}

		if err := os.MkdirAll(output, 0o755); err != nil {
			return cli.GeneralError("creating output directory", err)
		}
		for filename, content := range files {
			outPath := filepath.Join(output, filename)
			if err := os.WriteFile(outPath, content, 0o644); err != nil {
				return cli.GeneralError(fmt.Sprintf("writing %s", outPath), err)
			}
			if !quiet {
				fmt.Printf("Generated %s\n", outPath)
			}
		}

		return nil
	},
}

func init() {
	f := generateClientCmd.Flags()
	f.StringVar(&genClientRuntime, "runtime", "", "target runtime (default: go)")
	f.StringVar(&genClientSchema, "schema", "", "path to schema file")
	f.StringVar(&genClientOutput, "output", "", "output directory (default: stdout)")
	f.StringVar(&genClientPackage, "package", "", "package name for generated code (default: dbschema)")
	f.StringVar(&genClientFilter, "filter", "", "table name prefix filter")
}
