// Package compiler provides the public API for compiling declarative
// schemas to PostgreSQL DDL.
//
// This is a thin wrapper around internal/sqlgen that exposes only the
// types and functions external consumers need. For applying compiled
// documents to a database, use pkg/migrator instead.
package compiler

import (
	"github.com/strata-db/strata/internal/sqlgen"
)

// Compile validates a schema and compiles it into a migration document.
var Compile = sqlgen.Compile

// CompileAt is Compile with an explicit creation timestamp, for
// reproducible output.
var CompileAt = sqlgen.CompileAt

// StatementsFor renders every schema entity in document order without
// the migration header.
var StatementsFor = sqlgen.StatementsFor

// PolicyChanges computes the drop/create statements to move a table from
// one policy set to another.
var PolicyChanges = sqlgen.PolicyChanges

// PolicyName resolves a policy's name (explicit or derived).
var PolicyName = sqlgen.PolicyName

// TypeName maps an abstract field type to its PostgreSQL type name.
var TypeName = sqlgen.TypeName

// ParseFileSize converts a file-size value to a byte count.
var ParseFileSize = sqlgen.ParseFileSize

// GeneratorName appears in migration document headers.
const GeneratorName = sqlgen.GeneratorName
