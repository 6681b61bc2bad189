package sqlgen

import (
	"fmt"
	"strings"
	"time"

	"github.com/strata-db/strata/schema"
)

// GeneratorName appears in the migration document header.
const GeneratorName = "strata"

// StatementsFor renders every entity of a schema in the fixed document
// order: custom types first (so later statements may reference them),
// then per-table blocks, then functions, then views, then storage
// buckets, each bucket followed immediately by its policies.
//
// Within a per-table block the order is CREATE TABLE, ENABLE ROW LEVEL
// SECURITY when flagged, policies, indexes, triggers.
func StatementsFor(s *schema.Schema) []string {
	var stmts []string

	for _, ct := range s.Types {
		stmts = append(stmts, CreateType(ct))
	}

	for _, t := range s.Tables {
		stmts = append(stmts, CreateTable(t)...)
		if t.EnableRLS {
			stmts = append(stmts, EnableRowLevelSecurity(t.Name))
		}
		for _, p := range t.Policies {
			stmts = append(stmts, CreatePolicy(t.Name, p)...)
		}
		for _, idx := range t.Indexes {
			stmts = append(stmts, CreateIndex(t.Name, idx)...)
		}
		for _, tr := range t.Triggers {
			stmts = append(stmts, CreateTrigger(t.Name, tr)...)
		}
	}

	for _, fn := range s.Functions {
		stmts = append(stmts, CreateFunction(fn))
	}

	for _, v := range s.Views {
		stmts = append(stmts, CreateView(v)...)
	}

	for _, b := range s.Buckets {
		stmts = append(stmts, CreateBucket(b))
		for _, p := range b.Policies {
			stmts = append(stmts, CreateStoragePolicy(b.Name, p)...)
		}
	}

	return stmts
}

// Assemble joins statements into a migration document under the standard
// three-line header. Empty fragments are filtered out; remaining
// statements are separated by one blank line. The timestamp is rendered
// in RFC 3339 UTC so documents are reproducible given a fixed clock.
func Assemble(description string, stmts []string, at time.Time) string {
	parts := []string{
		fmt.Sprintf("-- %s\n-- Created: %s\n-- Generated by: %s",
			description,
			at.UTC().Format(time.RFC3339),
			GeneratorName,
		),
	}
	for _, s := range stmts {
		if strings.TrimSpace(s) == "" {
			continue
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, "\n\n") + "\n"
}

// CompileAt validates a schema and compiles it into a migration document
// with the given creation timestamp. Compilation is all-or-nothing: any
// validation failure aborts the whole document.
func CompileAt(s *schema.Schema, description string, at time.Time) (string, error) {
	if err := schema.Validate(s); err != nil {
		return "", fmt.Errorf("compiling schema: %w", err)
	}
	return Assemble(description, StatementsFor(s), at), nil
}

// Compile is CompileAt with the current time.
func Compile(s *schema.Schema, description string) (string, error) {
	return CompileAt(s, description, time.Now())
}
