package sqlgen

import (
	"strings"
	"testing"
	"time"

	"github.com/strata-db/strata/schema"
)

func usersSchema() *schema.Schema {
	return &schema.Schema{
		Tables: []schema.Table{
			{
				Name: "users",
				Fields: []schema.Field{
					{Name: "id", Type: schema.TypeUUID, PrimaryKey: true, Default: "gen_random_uuid()"},
					{Name: "email", Type: schema.TypeString, NotNull: true, Unique: true},
				},
				EnableRLS: true,
				Policies: []schema.Policy{
					{Action: schema.PolicySelect, Description: "Users read their own row", Condition: "auth.uid() = id"},
				},
				Indexes: []schema.Index{
					{Fields: []string{"email"}, Unique: true},
				},
			},
		},
	}
}

func TestCompileAt_EndToEnd(t *testing.T) {
	doc, err := CompileAt(usersSchema(), "create users", time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}

	ordered := []string{
		"-- create users",
		"-- Created: 2026-08-30T12:00:00Z",
		"-- Generated by: strata",
		"CREATE TABLE users (",
		"ALTER TABLE users ENABLE ROW LEVEL SECURITY;",
		"CREATE POLICY users_select_users_read_their ON users FOR SELECT USING (auth.uid() = id);",
		"CREATE UNIQUE INDEX users_email_unique ON users (email);",
	}

	pos := 0
	for _, needle := range ordered {
		idx := strings.Index(doc[pos:], needle)
		if idx < 0 {
			t.Fatalf("document missing %q after offset %d:\n%s", needle, pos, doc)
		}
		pos += idx + len(needle)
	}
}

func TestCompileAt_Deterministic(t *testing.T) {
	at := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	s := usersSchema()
	s.Types = []schema.CustomType{
		{Name: "status", Kind: schema.KindEnum, Values: []string{"on", "off"}},
	}
	s.Functions = []schema.Function{
		{Name: "noop", Returns: schema.TypeBoolean, Body: "BEGIN RETURN true; END;"},
	}
	s.Views = []schema.View{
		{Name: "emails", Query: "SELECT email FROM users"},
	}
	s.Buckets = []schema.StorageBucket{
		{
			Name: "avatars",
			Policies: []schema.Policy{
				{Action: schema.PolicySelect, Description: "Public read", Condition: "true"},
			},
		},
	}

	first, err := CompileAt(s, "full", at)
	if err != nil {
		t.Fatal(err)
	}
	second, err := CompileAt(s, "full", at)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("compiling the same schema twice must be byte-identical")
	}
}

func TestStatementsFor_DocumentOrder(t *testing.T) {
	s := &schema.Schema{
		Tables: []schema.Table{
			{Name: "t1", Fields: []schema.Field{{Name: "id", Type: schema.TypeInteger}}},
		},
		Types: []schema.CustomType{
			{Name: "kind", Kind: schema.KindEnum, Values: []string{"a"}},
		},
		Functions: []schema.Function{
			{Name: "f", Returns: schema.TypeBoolean, Body: "BEGIN RETURN true; END;"},
		},
		Views: []schema.View{
			{Name: "v", Query: "SELECT 1"},
		},
		Buckets: []schema.StorageBucket{
			{Name: "b"},
		},
	}

	stmts := StatementsFor(s)
	joined := strings.Join(stmts, "\n")

	order := []string{"CREATE TYPE kind", "CREATE TABLE t1", "FUNCTION f(", "CREATE VIEW v", "storage.buckets"}
	pos := 0
	for _, needle := range order {
		idx := strings.Index(joined[pos:], needle)
		if idx < 0 {
			t.Fatalf("wrong document order, missing %q after offset %d:\n%s", needle, pos, joined)
		}
		pos += idx + len(needle)
	}
}

func TestAssemble_FiltersEmptyFragments(t *testing.T) {
	doc := Assemble("d", []string{"SELECT 1;", "", "  ", "SELECT 2;"}, time.Unix(0, 0))
	if strings.Contains(doc, "\n\n\n") {
		t.Errorf("empty fragments must be filtered:\n%q", doc)
	}
	if !strings.Contains(doc, "SELECT 1;\n\nSELECT 2;") {
		t.Errorf("statements must be separated by one blank line:\n%q", doc)
	}
}

func TestCompile_InvalidSchema(t *testing.T) {
	s := &schema.Schema{
		Tables: []schema.Table{
			{Name: "t", Policies: []schema.Policy{{Action: schema.PolicySelect}}}, // no condition
		},
	}
	if _, err := Compile(s, "bad"); !schema.IsInvalidSchemaErr(err) {
		t.Errorf("expected ErrInvalidSchema, got %v", err)
	}
}
