package sqlgen

import (
	"fmt"
	"strings"

	"github.com/strata-db/strata/schema"
)

// referentialActions maps model actions to their SQL keyword phrases.
var referentialActions = map[schema.ReferentialAction]string{
	schema.ActionCascade:    "CASCADE",
	schema.ActionRestrict:   "RESTRICT",
	schema.ActionSetNull:    "SET NULL",
	schema.ActionSetDefault: "SET DEFAULT",
}

// CreateTable renders a table declaration into its CREATE TABLE statement
// plus an optional COMMENT ON TABLE statement.
//
// Field clauses appear in declaration order. When two or more fields are
// marked primary key, the inline PRIMARY KEY token is stripped from each
// and a single trailing table-level constraint is emitted instead.
func CreateTable(t schema.Table) []string {
	pk := t.PrimaryKey()
	inlinePK := len(pk) == 1

	clauses := make([]string, 0, len(t.Fields)+1)
	for _, f := range t.Fields {
		clauses = append(clauses, fieldSQL(f, inlinePK))
	}
	if len(pk) > 1 {
		clauses = append(clauses, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pk, ", ")))
	}

	b := NewBuilder()
	b.Line("CREATE TABLE %s (", t.Name)
	b.Block(func(b *SQLBuilder) {
		for i, c := range clauses {
			b.Line("%s%s", c, optf(i < len(clauses)-1, ","))
		}
	})
	b.Line(");")

	stmts := []string{b.String()}
	if t.Comment != "" {
		stmts = append(stmts, fmt.Sprintf("COMMENT ON TABLE %s IS %s;", t.Name, quoteLiteral(t.Comment)))
	}
	return stmts
}

// fieldSQL renders one column clause: name, mapped type, then constraints
// in fixed order: PRIMARY KEY, NOT NULL, UNIQUE, DEFAULT, REFERENCES
// (with ON DELETE / ON UPDATE), GENERATED ALWAYS AS ... STORED.
func fieldSQL(f schema.Field, inlinePK bool) string {
	var b strings.Builder
	b.WriteString(f.Name)
	b.WriteString(" ")
	b.WriteString(TypeName(f.Type))

	if f.PrimaryKey && inlinePK {
		b.WriteString(" PRIMARY KEY")
	}
	if f.NotNull {
		b.WriteString(" NOT NULL")
	}
	if f.Unique {
		b.WriteString(" UNIQUE")
	}
	if f.Default != nil {
		b.WriteString(" DEFAULT ")
		b.WriteString(DefaultValue(f.Default))
	}
	if f.References != "" {
		b.WriteString(" REFERENCES ")
		b.WriteString(f.References)
		if action, ok := referentialActions[f.OnDelete]; ok {
			b.WriteString(" ON DELETE ")
			b.WriteString(action)
		}
		if action, ok := referentialActions[f.OnUpdate]; ok {
			b.WriteString(" ON UPDATE ")
			b.WriteString(action)
		}
	}
	if f.Generated != "" {
		b.WriteString(" GENERATED ALWAYS AS (")
		b.WriteString(f.Generated)
		b.WriteString(") STORED")
	}

	return b.String()
}

// DefaultValue formats a default value for a DEFAULT clause.
//
// Numeric and boolean literals render unquoted. A string ending in "()"
// (a function call such as now()) or containing parentheses or whitespace
// (an expression) renders unquoted; any other string renders as a quoted
// SQL literal. The heuristic lets callers pass either literal values or
// raw SQL expressions through the same field without an "is expression"
// flag, so it must not be replaced by semantic SQL parsing.
func DefaultValue(v any) string {
	switch val := v.(type) {
	case string:
		if strings.HasSuffix(val, "()") || strings.ContainsAny(val, "() \t\n") {
			return val
		}
		return quoteLiteral(val)
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", val)
	}
}
