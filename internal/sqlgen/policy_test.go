package sqlgen

import (
	"strings"
	"testing"

	"github.com/strata-db/strata/schema"
)

func TestPolicyName(t *testing.T) {
	t.Run("explicit override", func(t *testing.T) {
		p := schema.Policy{Action: schema.PolicySelect, Name: "custom_name", Description: "ignored here"}
		if got := PolicyName("users", p); got != "custom_name" {
			t.Errorf("got %q, want custom_name", got)
		}
	})

	t.Run("derived from description", func(t *testing.T) {
		p := schema.Policy{Action: schema.PolicySelect, Description: "Users can read their own row"}
		if got := PolicyName("users", p); got != "users_select_users_can_read" {
			t.Errorf("got %q, want users_select_users_can_read", got)
		}
	})

	t.Run("punctuation stripped", func(t *testing.T) {
		p := schema.Policy{Action: schema.PolicyDelete, Description: "Admins (only!) may delete"}
		if got := PolicyName("posts", p); got != "posts_delete_admins_only_may" {
			t.Errorf("got %q, want posts_delete_admins_only_may", got)
		}
	})

	t.Run("short description", func(t *testing.T) {
		p := schema.Policy{Action: schema.PolicyInsert, Description: "Anyone"}
		if got := PolicyName("posts", p); got != "posts_insert_anyone" {
			t.Errorf("got %q, want posts_insert_anyone", got)
		}
	})
}

func TestCreatePolicy_ClauseSelection(t *testing.T) {
	const cond = "auth.uid() = user_id"

	cases := []struct {
		action    schema.PolicyAction
		using     bool
		withCheck bool
	}{
		{schema.PolicyInsert, false, true},
		{schema.PolicySelect, true, false},
		{schema.PolicyDelete, true, false},
		{schema.PolicyUpdate, true, false},
		{schema.PolicyAll, true, true},
	}

	for _, c := range cases {
		t.Run(string(c.action), func(t *testing.T) {
			stmts := CreatePolicy("notes", schema.Policy{
				Action:      c.action,
				Description: "owner access",
				Condition:   cond,
			})
			sql := stmts[0]

			if got := strings.Contains(sql, "USING ("+cond+")"); got != c.using {
				t.Errorf("USING presence = %v, want %v:\n%s", got, c.using, sql)
			}
			if got := strings.Contains(sql, "WITH CHECK ("+cond+")"); got != c.withCheck {
				t.Errorf("WITH CHECK presence = %v, want %v:\n%s", got, c.withCheck, sql)
			}
		})
	}
}

func TestCreatePolicy_UpdateWithCheckOverride(t *testing.T) {
	stmts := CreatePolicy("notes", schema.Policy{
		Action:      schema.PolicyUpdate,
		Description: "owner update",
		Condition:   "auth.uid() = user_id",
		WithCheck:   "auth.uid() = user_id AND NOT locked",
	})

	sql := stmts[0]
	if !strings.Contains(sql, "USING (auth.uid() = user_id)") {
		t.Errorf("update policy missing USING:\n%s", sql)
	}
	if !strings.Contains(sql, "WITH CHECK (auth.uid() = user_id AND NOT locked)") {
		t.Errorf("update policy missing WITH CHECK override:\n%s", sql)
	}
}

func TestCreatePolicy_RoleClause(t *testing.T) {
	base := schema.Policy{Action: schema.PolicySelect, Description: "read", Condition: "true"}

	cases := []struct {
		name  string
		roles []string
		want  string
	}{
		{"no roles", nil, "CREATE POLICY notes_select_read ON notes FOR SELECT USING (true);"},
		{"all sentinel", []string{"all"}, "CREATE POLICY notes_select_read ON notes FOR SELECT USING (true);"},
		{"authenticated", []string{"authenticated"}, "CREATE POLICY notes_select_read ON notes FOR SELECT TO authenticated USING (true);"},
		{"anon", []string{"anon"}, "CREATE POLICY notes_select_read ON notes FOR SELECT TO anon USING (true);"},
		{"custom role", []string{"service_role"}, "CREATE POLICY notes_select_read ON notes FOR SELECT TO service_role USING (true);"},
		{"role list", []string{"authenticated", "service_role"}, "CREATE POLICY notes_select_read ON notes FOR SELECT TO authenticated, service_role USING (true);"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := base
			p.For = c.roles
			stmts := CreatePolicy("notes", p)
			if stmts[0] != c.want {
				t.Errorf("got  %q\nwant %q", stmts[0], c.want)
			}
		})
	}
}

func TestCreatePolicy_Comment(t *testing.T) {
	stmts := CreatePolicy("notes", schema.Policy{
		Action:      schema.PolicySelect,
		Description: "it's the owner's note",
		Condition:   "true",
	})

	if len(stmts) != 2 {
		t.Fatalf("expected policy + comment, got %d statements", len(stmts))
	}
	if !strings.Contains(stmts[1], "IS 'it''s the owner''s note';") {
		t.Errorf("description quotes must be doubled: %q", stmts[1])
	}
}

func TestCreateStoragePolicy(t *testing.T) {
	stmts := CreateStoragePolicy("avatars", schema.Policy{
		Action:      schema.PolicyInsert,
		Description: "Authenticated users upload",
		Condition:   "auth.role() = 'authenticated'",
	})

	sql := stmts[0]
	if !strings.Contains(sql, "ON storage.objects FOR INSERT") {
		t.Errorf("storage policies must target storage.objects:\n%s", sql)
	}
	if !strings.Contains(sql, "USING (bucket_id = 'avatars' AND auth.role() = 'authenticated')") {
		t.Errorf("storage policies always use USING with the bucket guard:\n%s", sql)
	}
	if strings.Contains(sql, "WITH CHECK") {
		t.Errorf("storage policies never use WITH CHECK:\n%s", sql)
	}
	if !strings.HasPrefix(sql, "CREATE POLICY avatars_insert_authenticated_users_upload ON ") {
		t.Errorf("storage policy name derives from the bucket:\n%s", sql)
	}
}

func TestEnableRowLevelSecurity(t *testing.T) {
	want := "ALTER TABLE users ENABLE ROW LEVEL SECURITY;"
	if got := EnableRowLevelSecurity("users"); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
