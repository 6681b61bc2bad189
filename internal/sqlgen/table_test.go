package sqlgen

import (
	"strings"
	"testing"

	"github.com/strata-db/strata/schema"
)

func TestCreateTable_NoPrimaryKey(t *testing.T) {
	stmts := CreateTable(schema.Table{
		Name: "logs",
		Fields: []schema.Field{
			{Name: "message", Type: schema.TypeString},
			{Name: "at", Type: schema.TypeTimestamptz},
		},
	})

	if len(stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(stmts))
	}
	if strings.Contains(stmts[0], "PRIMARY KEY") {
		t.Errorf("table without primary-key fields must not contain PRIMARY KEY:\n%s", stmts[0])
	}
}

func TestCreateTable_SinglePrimaryKey(t *testing.T) {
	stmts := CreateTable(schema.Table{
		Name: "users",
		Fields: []schema.Field{
			{Name: "id", Type: schema.TypeUUID, PrimaryKey: true, Default: "gen_random_uuid()"},
			{Name: "email", Type: schema.TypeString, NotNull: true, Unique: true},
		},
	})

	want := "CREATE TABLE users (\n" +
		"    id uuid PRIMARY KEY DEFAULT gen_random_uuid(),\n" +
		"    email text NOT NULL UNIQUE\n" +
		");"
	if stmts[0] != want {
		t.Errorf("CreateTable mismatch\ngot:\n%s\nwant:\n%s", stmts[0], want)
	}
	if strings.Contains(stmts[0], "PRIMARY KEY (") {
		t.Errorf("single primary key must stay inline, no table-level constraint:\n%s", stmts[0])
	}
}

func TestCreateTable_CompositePrimaryKey(t *testing.T) {
	stmts := CreateTable(schema.Table{
		Name: "memberships",
		Fields: []schema.Field{
			{Name: "user_id", Type: schema.TypeUUID, PrimaryKey: true},
			{Name: "team_id", Type: schema.TypeUUID, PrimaryKey: true},
			{Name: "role", Type: schema.TypeString},
		},
	})

	sql := stmts[0]
	if strings.Contains(sql, "user_id uuid PRIMARY KEY") || strings.Contains(sql, "team_id uuid PRIMARY KEY") {
		t.Errorf("composite key fields must not carry inline PRIMARY KEY:\n%s", sql)
	}
	if !strings.Contains(sql, "PRIMARY KEY (user_id, team_id)") {
		t.Errorf("expected table-level constraint in declaration order:\n%s", sql)
	}
	if strings.Count(sql, "PRIMARY KEY") != 1 {
		t.Errorf("expected exactly one PRIMARY KEY token:\n%s", sql)
	}
}

func TestCreateTable_Comment(t *testing.T) {
	stmts := CreateTable(schema.Table{
		Name:    "users",
		Fields:  []schema.Field{{Name: "id", Type: schema.TypeUUID}},
		Comment: "it's the users table",
	})

	if len(stmts) != 2 {
		t.Fatalf("expected create + comment, got %d statements", len(stmts))
	}
	want := "COMMENT ON TABLE users IS 'it''s the users table';"
	if stmts[1] != want {
		t.Errorf("comment = %q, want %q", stmts[1], want)
	}
}

func TestFieldSQL_References(t *testing.T) {
	got := fieldSQL(schema.Field{
		Name:       "author_id",
		Type:       schema.TypeUUID,
		NotNull:    true,
		References: "users(id)",
		OnDelete:   schema.ActionCascade,
		OnUpdate:   schema.ActionSetNull,
	}, true)

	want := "author_id uuid NOT NULL REFERENCES users(id) ON DELETE CASCADE ON UPDATE SET NULL"
	if got != want {
		t.Errorf("fieldSQL = %q, want %q", got, want)
	}
}

func TestFieldSQL_Generated(t *testing.T) {
	got := fieldSQL(schema.Field{
		Name:      "search",
		Type:      schema.FieldType("tsvector"),
		Generated: "to_tsvector('english', title)",
	}, true)

	want := "search tsvector GENERATED ALWAYS AS (to_tsvector('english', title)) STORED"
	if got != want {
		t.Errorf("fieldSQL = %q, want %q", got, want)
	}
}

func TestDefaultValue(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{"now()", "now()"},
		{"active", "'active'"},
		{42, "42"},
		{3.14, "3.14"},
		{true, "true"},
		{false, "false"},
		{"timezone('utc', now())", "timezone('utc', now())"},
		{"CURRENT_DATE + 1", "CURRENT_DATE + 1"},
		{"it's", "'it''s'"},
	}
	for _, c := range cases {
		if got := DefaultValue(c.in); got != c.want {
			t.Errorf("DefaultValue(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}
