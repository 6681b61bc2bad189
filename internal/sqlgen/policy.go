package sqlgen

import (
	"fmt"
	"strings"

	"github.com/strata-db/strata/schema"
)

// EnableRowLevelSecurity renders the per-table enable statement. Emitted
// once per table whose RLS flag is set, whether or not it has policies.
func EnableRowLevelSecurity(table string) string {
	return fmt.Sprintf("ALTER TABLE %s ENABLE ROW LEVEL SECURITY;", table)
}

// PolicyName returns the explicit policy name, or the derived default
// "<table>_<action>_<first-3-lowercased-alnum-words-of-description>".
//
// Note the default name embeds the description: reconciliation keys
// policies by resolved name, so changing the description of an unnamed
// policy is indistinguishable from renaming it (drop + create).
func PolicyName(table string, p schema.Policy) string {
	if p.Name != "" {
		return p.Name
	}

	parts := []string{table, string(p.Action)}
	for _, word := range strings.Fields(p.Description) {
		word = alnumOnly(strings.ToLower(word))
		if word == "" {
			continue
		}
		parts = append(parts, word)
		if len(parts) == 5 {
			break
		}
	}
	return strings.Join(parts, "_")
}

func alnumOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// actionKeyword returns the upper-cased FOR clause keyword.
func actionKeyword(a schema.PolicyAction) string {
	return strings.ToUpper(string(a))
}

// roleClause renders the TO clause, or "" when the policy applies to all
// roles (no roles listed, or the single "all" sentinel).
func roleClause(roles []string) string {
	if len(roles) == 0 {
		return ""
	}
	if len(roles) == 1 && roles[0] == schema.RoleAll {
		return ""
	}
	return " TO " + strings.Join(roles, ", ")
}

// policyClauses returns the USING and WITH CHECK expressions for a table
// policy. Insert policies check new rows only; select and delete filter
// visible rows only; update filters with the condition and checks with
// the explicit WithCheck override if present; all-action policies apply
// the condition to both clauses.
func policyClauses(p schema.Policy) (using, withCheck string) {
	switch p.Action {
	case schema.PolicyInsert:
		return "", p.Condition
	case schema.PolicyUpdate:
		return p.Condition, p.WithCheck
	case schema.PolicyAll:
		return p.Condition, p.Condition
	default: // select, delete
		return p.Condition, ""
	}
}

// CreatePolicy renders a CREATE POLICY statement for a table, followed by
// a COMMENT ON POLICY statement when the policy has a description.
func CreatePolicy(table string, p schema.Policy) []string {
	using, withCheck := policyClauses(p)
	return renderPolicy(PolicyName(table, p), table, p, using, withCheck)
}

// CreateStoragePolicy renders a policy for a storage bucket. Storage
// policies always target storage.objects and always use USING, with an
// implicit bucket_id guard prefixed to the condition.
func CreateStoragePolicy(bucket string, p schema.Policy) []string {
	using := fmt.Sprintf("bucket_id = %s AND %s", quoteLiteral(bucket), p.Condition)
	return renderPolicy(PolicyName(bucket, p), "storage.objects", p, using, "")
}

func renderPolicy(name, target string, p schema.Policy, using, withCheck string) []string {
	stmt := fmt.Sprintf("CREATE POLICY %s ON %s FOR %s%s%s%s;",
		name,
		target,
		actionKeyword(p.Action),
		roleClause(p.For),
		optf(using != "", " USING (%s)", using),
		optf(withCheck != "", " WITH CHECK (%s)", withCheck),
	)

	stmts := []string{stmt}
	if p.Description != "" {
		stmts = append(stmts, fmt.Sprintf("COMMENT ON POLICY %s ON %s IS %s;",
			name, target, quoteLiteral(p.Description)))
	}
	return stmts
}

// DropPolicy renders the drop statement for a named policy.
func DropPolicy(table, name string) string {
	return fmt.Sprintf("DROP POLICY %s ON %s;", name, table)
}
