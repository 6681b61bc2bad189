// Package golang implements the Go client code generator.
//
// The generated file contains string constants for table names, column names,
// and row-level security policy names, so application code can reference
// schema identifiers without hand-maintained string literals.
package golang

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/strata-db/strata/internal/clientgen"
	"github.com/strata-db/strata/internal/sqlgen"
	"github.com/strata-db/strata/schema"
)

func init() {
	clientgen.Register(&Generator{})
}

// Generator implements clientgen.Generator for Go.
type Generator struct{}

// Name returns "go" as the runtime identifier.
func (g *Generator) Name() string { return "go" }

// DefaultConfig returns default configuration for Go code generation.
func (g *Generator) DefaultConfig() *clientgen.Config {
	return &clientgen.Config{
		Package: "dbschema",
		Options: make(map[string]any),
	}
}

// Generate produces a single schema_gen.go file with identifier constants.
func (g *Generator) Generate(s *schema.Schema, cfg *clientgen.Config) (map[string][]byte, error) {
	if cfg == nil {
		cfg = g.DefaultConfig()
	}
	pkg := cfg.Package
	if pkg == "" {
		pkg = "dbschema"
	}

	f := jen.NewFile(pkg)
	f.HeaderComment("Code generated by strata. DO NOT EDIT.")

	tables := s.Tables
	if cfg.TableFilter != "" {
		filtered := make([]schema.Table, 0, len(tables))
		for _, t := range tables {
			if strings.HasPrefix(t.Name, cfg.TableFilter) {
				filtered = append(filtered, t)
			}
		}
		tables = filtered
	}

	if len(tables) > 0 {
		f.Comment("Table names.")
		f.Const().DefsFunc(func(grp *jen.Group) {
			for _, t := range tables {
				grp.Id("Table" + exportName(t.Name)).Op("=").Lit(t.Name)
			}
		})
	}

	for _, t := range tables {
		if len(t.Fields) == 0 {
			continue
		}
		f.Commentf("Columns of %s.", t.Name)
		tablePrefix := "Col" + exportName(t.Name)
		f.Const().DefsFunc(func(grp *jen.Group) {
			for _, fld := range t.Fields {
				grp.Id(tablePrefix + exportName(fld.Name)).Op("=").Lit(fld.Name)
			}
		})
	}

	var policyDefs []jen.Code
	for _, t := range tables {
		for _, p := range t.Policies {
			name := sqlgen.PolicyName(t.Name, p)
			policyDefs = append(policyDefs,
				jen.Id("Policy"+exportName(name)).Op("=").Lit(name))
		}
	}
	if len(policyDefs) > 0 {
		f.Comment("Row-level security policy names.")
		f.Const().Defs(policyDefs...)
	}

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("rendering generated code: %w", err)
	}

	return map[string][]byte{"schema_gen.go": buf.Bytes()}, nil
}

// exportName converts a snake_case identifier to an exported Go name.
// "user_profiles" becomes "UserProfiles".
func exportName(s string) string {
	var b strings.Builder
	upper := true
	for _, r := range s {
		switch {
		case r == '_' || r == '-' || r == ' ':
			upper = true
		case upper:
			b.WriteRune(toUpper(r))
			upper = false
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func toUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - 'a' + 'A'
	}
	return r
}
