package sqlgen

import "github.com/strata-db/strata/schema"

// PolicyChanges computes the statements needed to move a table from an
// old policy set to a new one. Policies are keyed by resolved name; a
// name present in both sets whose (action, condition, options) triple
// differs is dropped and recreated.
//
// Output order is fixed: drops for removed policies (old-list order),
// then drops for changed policies, then creates for new and changed
// policies (both in new-list order). The diff is name-keyed rather than
// a general graph diff; policies are independent named objects with no
// inter-policy dependencies, so this bounded form is sufficient.
func PolicyChanges(table string, old, new []schema.Policy) []string {
	oldByName := make(map[string]schema.Policy, len(old))
	for _, p := range old {
		oldByName[PolicyName(table, p)] = p
	}
	newNames := make(map[string]bool, len(new))
	for _, p := range new {
		newNames[PolicyName(table, p)] = true
	}

	var stmts []string

	// Removed policies, in old-list order.
	for _, p := range old {
		name := PolicyName(table, p)
		if !newNames[name] {
			stmts = append(stmts, DropPolicy(table, name))
		}
	}

	// Drops for changed policies, in new-list order.
	for _, p := range new {
		name := PolicyName(table, p)
		if prev, ok := oldByName[name]; ok && !equalAs(name, prev, p) {
			stmts = append(stmts, DropPolicy(table, name))
		}
	}

	// Creates for new and changed policies, in new-list order.
	for _, p := range new {
		name := PolicyName(table, p)
		prev, existed := oldByName[name]
		if !existed || !equalAs(name, prev, p) {
			stmts = append(stmts, CreatePolicy(table, p)...)
		}
	}

	return stmts
}

// equalAs compares two policies that resolve to the same name. The raw
// Name field is normalized first: a snapshot loaded from the database
// carries the materialized name while an authored policy may derive it,
// and that difference alone is not a change.
func equalAs(name string, a, b schema.Policy) bool {
	a.Name = name
	b.Name = name
	return a.Equal(b)
}
