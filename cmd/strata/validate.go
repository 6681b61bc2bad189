package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/strata-db/strata/internal/cli"
	"github.com/strata-db/strata/parser"
	"github.com/strata-db/strata/schema"
)

var validateSchemaPath string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate schema file",
	Long:  `Validate schema file syntax and semantic rules without compiling.`,
	Example: `  # Validate a specific schema file
  strata validate --schema schema.yaml

  # Validate using config file settings
  strata validate`,
	RunE: func(cmd *cobra.Command, args []string) error {
		schemaPath := resolveString(validateSchemaPath, cfg.Schema)

		if _, err := os.Stat(schemaPath); err != nil {
			return cli.SchemaParseError(fmt.Sprintf("schema not found: %s", schemaPath), nil)
		}

		s, err := parser.ParseFile(schemaPath)
		if err != nil {
			return cli.SchemaParseError("parsing schema", err)
		}

		if err := schema.Validate(s); err != nil {
			return cli.SchemaParseError("invalid schema", err)
		}

		if !quiet {
			fmt.Printf("Schema is valid. Found %d tables:\n", len(s.Tables))
			for _, t := range s.Tables {
				fmt.Printf("  - %s (%d fields, %d policies)\n", t.Name, len(t.Fields), len(t.Policies))
			}
			if n := len(s.Types); n > 0 {
				fmt.Printf("Custom types: %d\n", n)
			}
			if n := len(s.Functions); n > 0 {
				fmt.Printf("Functions: %d\n", n)
			}
			if n := len(s.Views); n > 0 {
				fmt.Printf("Views: %d\n", n)
			}
			if n := len(s.Buckets); n > 0 {
				fmt.Printf("Storage buckets: %d\n", n)
			}
		}

		return nil
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateSchemaPath, "schema", "", "path to schema file")
}
