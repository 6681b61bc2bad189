package schema

import "fmt"

// Validate checks a schema for the structural problems the compiler
// assumes away: duplicate names, policies without conditions, custom
// types missing their kind-specific fields, triggers without events or
// bodies, indexes without fields.
//
// Validation is deliberately shallow. It does not verify PostgreSQL
// semantics (referenced tables, expression syntax); that is the
// database's job when the migration is applied.
//
// All returned errors wrap ErrInvalidSchema.
func Validate(s *Schema) error {
	tables := make(map[string]bool)
	for _, t := range s.Tables {
		if t.Name == "" {
			return invalidf("table with empty name")
		}
		if tables[t.Name] {
			return invalidf("duplicate table %q", t.Name)
		}
		tables[t.Name] = true

		if err := validateTable(t); err != nil {
			return err
		}
	}

	for _, ct := range s.Types {
		if err := validateCustomType(ct); err != nil {
			return err
		}
	}

	for _, fn := range s.Functions {
		if fn.Name == "" {
			return invalidf("function with empty name")
		}
		if fn.Body == "" {
			return invalidf("function %q has no body", fn.Name)
		}
	}

	for _, v := range s.Views {
		if v.Name == "" {
			return invalidf("view with empty name")
		}
		if v.Query == "" {
			return invalidf("view %q has no query", v.Name)
		}
	}

	for _, b := range s.Buckets {
		if b.Name == "" {
			return invalidf("storage bucket with empty name")
		}
		for _, p := range b.Policies {
			if err := validatePolicy(b.Name, p); err != nil {
				return err
			}
		}
	}

	return nil
}

func validateTable(t Table) error {
	fields := make(map[string]bool)
	for _, f := range t.Fields {
		if f.Name == "" {
			return invalidf("table %q: field with empty name", t.Name)
		}
		if fields[f.Name] {
			return invalidf("table %q: duplicate field %q", t.Name, f.Name)
		}
		fields[f.Name] = true
	}

	for _, idx := range t.Indexes {
		if len(idx.Fields) == 0 {
			return invalidf("table %q: index with no fields", t.Name)
		}
		for _, fname := range idx.Fields {
			if !fields[fname] {
				return invalidf("table %q: index references unknown field %q", t.Name, fname)
			}
		}
	}

	for _, p := range t.Policies {
		if err := validatePolicy(t.Name, p); err != nil {
			return err
		}
	}

	for _, tr := range t.Triggers {
		if tr.Name == "" {
			return invalidf("table %q: trigger with empty name", t.Name)
		}
		if len(tr.Events) == 0 {
			return invalidf("table %q: trigger %q has no events", t.Name, tr.Name)
		}
		if tr.Body == "" {
			return invalidf("table %q: trigger %q has no body", t.Name, tr.Name)
		}
	}

	return nil
}

func validatePolicy(owner string, p Policy) error {
	switch p.Action {
	case PolicySelect, PolicyInsert, PolicyUpdate, PolicyDelete, PolicyAll:
	default:
		return invalidf("%q: policy has unknown action %q", owner, p.Action)
	}
	if p.Condition == "" {
		return invalidf("%q: policy %q has no condition", owner, p.Description)
	}
	return nil
}

func validateCustomType(ct CustomType) error {
	if ct.Name == "" {
		return invalidf("custom type with empty name")
	}
	switch ct.Kind {
	case KindEnum:
		if len(ct.Values) == 0 {
			return invalidf("enum type %q has no values", ct.Name)
		}
	case KindComposite:
		if len(ct.Fields) == 0 {
			return invalidf("composite type %q has no fields", ct.Name)
		}
	case KindDomain:
		if ct.BaseType == "" {
			return invalidf("domain type %q has no base type", ct.Name)
		}
	default:
		return invalidf("custom type %q has unknown kind %q", ct.Name, ct.Kind)
	}
	return nil
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidSchema, fmt.Sprintf(format, args...))
}
