package sqlgen

import (
	"fmt"
	"strings"

	"github.com/strata-db/strata/schema"
)

// IndexName returns the explicit index name, or the derived default
// "<table>_<field1>_..._<fieldN>_<unique|idx>".
func IndexName(table string, idx schema.Index) string {
	if idx.Name != "" {
		return idx.Name
	}
	suffix := "idx"
	if idx.Unique {
		suffix = "unique"
	}
	return fmt.Sprintf("%s_%s_%s", table, strings.Join(idx.Fields, "_"), suffix)
}

// CreateIndex renders one CREATE INDEX statement (CREATE UNIQUE INDEX
// when unique) plus an optional COMMENT ON INDEX statement.
func CreateIndex(table string, idx schema.Index) []string {
	name := IndexName(table, idx)
	stmt := fmt.Sprintf("CREATE %sINDEX %s ON %s%s (%s)%s;",
		optf(idx.Unique, "UNIQUE "),
		name,
		table,
		optf(idx.Using != "", " USING %s", idx.Using),
		strings.Join(idx.Fields, ", "),
		optf(idx.Where != "", " WHERE %s", idx.Where),
	)

	stmts := []string{stmt}
	if idx.Comment != "" {
		stmts = append(stmts, fmt.Sprintf("COMMENT ON INDEX %s IS %s;", name, quoteLiteral(idx.Comment)))
	}
	return stmts
}

// CreateTrigger renders a trigger as a backing plpgsql function followed
// by the CREATE TRIGGER statement binding it. Events are upper-cased and
// OR-joined; timing defaults to BEFORE and scope to FOR EACH ROW.
func CreateTrigger(table string, tr schema.Trigger) []string {
	fnName := fmt.Sprintf("%s_%s_trigger_fn", table, tr.Name)

	fn := NewBuilder()
	fn.Line("CREATE OR REPLACE FUNCTION %s() RETURNS TRIGGER AS $$", fnName)
	fn.Line("BEGIN")
	fn.Block(func(b *SQLBuilder) {
		for _, line := range strings.Split(strings.TrimSpace(tr.Body), "\n") {
			b.Line("%s", strings.TrimSpace(line))
		}
		b.Line("RETURN NEW;")
	})
	fn.Line("END;")
	fn.Line("$$ LANGUAGE plpgsql;")

	events := make([]string, len(tr.Events))
	for i, e := range tr.Events {
		events[i] = strings.ToUpper(e)
	}

	timing := "BEFORE"
	if tr.Timing == schema.TimingAfter {
		timing = "AFTER"
	}
	scope := "ROW"
	if tr.ForEach == schema.ScopeStatement {
		scope = "STATEMENT"
	}

	stmt := fmt.Sprintf("CREATE TRIGGER %s %s %s ON %s FOR EACH %s%s EXECUTE FUNCTION %s();",
		tr.Name,
		timing,
		strings.Join(events, " OR "),
		table,
		scope,
		optf(tr.When != "", " WHEN (%s)", tr.When),
		fnName,
	)

	return []string{fn.String(), stmt}
}

// CreateFunction renders a CREATE OR REPLACE FUNCTION statement. The
// signature lists the mapped argument types; bodies reference arguments
// positionally as $1..$N. Volatility and security clauses, when present,
// follow the RETURNS clause.
func CreateFunction(fn schema.Function) string {
	args := make([]string, len(fn.Args))
	for i, a := range fn.Args {
		args[i] = TypeName(a)
	}

	language := fn.Language
	if language == "" {
		language = "plpgsql"
	}

	b := NewBuilder()
	b.Line("CREATE OR REPLACE FUNCTION %s(%s) RETURNS %s%s%s AS $$",
		fn.Name,
		strings.Join(args, ", "),
		TypeName(fn.Returns),
		optf(fn.Volatility != "", " %s", strings.ToUpper(string(fn.Volatility))),
		optf(fn.Security != "", " SECURITY %s", strings.ToUpper(string(fn.Security))),
	)
	b.Raw(strings.TrimSpace(fn.Body))
	b.Line("$$ LANGUAGE %s;", language)
	return b.String()
}

// CreateView renders a CREATE VIEW (or CREATE MATERIALIZED VIEW)
// statement plus an optional comment.
func CreateView(v schema.View) []string {
	kind := "VIEW"
	if v.Materialized {
		kind = "MATERIALIZED VIEW"
	}

	stmts := []string{fmt.Sprintf("CREATE %s %s AS %s;", kind, v.Name, strings.TrimSpace(v.Query))}
	if v.Comment != "" {
		stmts = append(stmts, fmt.Sprintf("COMMENT ON %s %s IS %s;", kind, v.Name, quoteLiteral(v.Comment)))
	}
	return stmts
}

// CreateType renders a custom type declaration: enums as CREATE TYPE ...
// AS ENUM, composites as CREATE TYPE ... AS (...), and domains as
// CREATE DOMAIN with an optional named CHECK constraint.
func CreateType(ct schema.CustomType) string {
	switch ct.Kind {
	case schema.KindEnum:
		return fmt.Sprintf("CREATE TYPE %s AS ENUM (%s);", ct.Name, quoteLiteralList(ct.Values))
	case schema.KindComposite:
		fields := make([]string, len(ct.Fields))
		for i, f := range ct.Fields {
			fields[i] = f.Name + " " + TypeName(f.Type)
		}
		return fmt.Sprintf("CREATE TYPE %s AS (%s);", ct.Name, strings.Join(fields, ", "))
	case schema.KindDomain:
		return fmt.Sprintf("CREATE DOMAIN %s AS %s%s;",
			ct.Name,
			TypeName(ct.BaseType),
			optf(ct.Constraint != "", " CONSTRAINT %s_check CHECK (%s)", ct.Name, ct.Constraint),
		)
	default:
		return ""
	}
}

// CreateBucket renders an idempotent upsert into storage.buckets. The
// file-size limit is resolved through ParseFileSize, rendering NULL when
// absent or unparsable. Allowed MIME types render as an array literal or
// NULL when absent.
func CreateBucket(b schema.StorageBucket) string {
	sizeLimit := "NULL"
	if b.FileSizeLimit != nil {
		if bytes, ok := ParseFileSize(b.FileSizeLimit); ok {
			sizeLimit = fmt.Sprintf("%d", bytes)
		}
	}

	mimeTypes := "NULL"
	if len(b.AllowedMIMETypes) > 0 {
		mimeTypes = fmt.Sprintf("ARRAY[%s]", quoteLiteralList(b.AllowedMIMETypes))
	}

	public := "false"
	if b.Public {
		public = "true"
	}

	return sqlf(`
		INSERT INTO storage.buckets (id, name, public, file_size_limit, allowed_mime_types)
		VALUES (%s, %s, %s, %s, %s)
		ON CONFLICT (id) DO UPDATE SET
		    public = EXCLUDED.public,
		    file_size_limit = EXCLUDED.file_size_limit,
		    allowed_mime_types = EXCLUDED.allowed_mime_types;`,
		quoteLiteral(b.Name),
		quoteLiteral(b.Name),
		public,
		sizeLimit,
		mimeTypes,
	)
}
