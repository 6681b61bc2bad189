// Package main provides the strata CLI for compiling declarative database
// schemas into PostgreSQL migrations.
//
// The CLI supports:
//   - compile: Compile a schema file into a SQL migration document
//   - validate: Check schema file syntax and semantic rules
//   - diff: Show policy changes between two schema versions
//   - migrate: Apply compiled migrations to PostgreSQL
//   - generate: Produce type-safe client code from a schema
//
// Commands that require database access (migrate, diff --db) need a
// configured database URL. File-only commands (compile, validate, generate)
// do not.
package main

func main() {
	Execute()
}
