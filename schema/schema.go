// Package schema defines the in-memory model for a declarative PostgreSQL
// schema: tables, fields, indexes, row-level-security policies, triggers,
// functions, views, custom types and storage buckets.
//
// A Schema is a plain value built once by an authoring layer (the parser
// package, a builder, or struct literals) and then handed to the compiler.
// Nothing in this package mutates a Schema after construction, and every
// collection is an ordered slice: declaration order is significant and is
// preserved all the way into the generated SQL.
//
// # Key Types
//
// Table is the central entity. Its Fields, Indexes, Policies and Triggers
// compile into per-table statement blocks. Relationships are informational
// only and never reach the generated SQL.
//
// Policy captures one row-level-security rule: an action, a boolean
// condition, and optional role restrictions. Policies are named objects;
// when no explicit name is given the compiler derives one from the table,
// action and description.
//
// StorageBucket describes an object-storage bucket plus its access
// policies, compiled against the fixed storage.buckets/storage.objects
// tables.
//
// # Relationship to Other Packages
//
// This package is dependency-free (stdlib only) and imported by the
// rendering layer (internal/sqlgen), the YAML authoring adapter (parser)
// and the public wrappers under pkg/. Keeping it light means consumers can
// construct schemas without pulling in any of the compiler's stack.
package schema

// FieldType is an abstract type identifier. The compiler maps a fixed set
// of common identifiers (TypeString, TypeInteger, ...) to canonical
// PostgreSQL type names; any other value passes through verbatim, so raw
// PostgreSQL types like "varchar(120)" or "vector(1536)" are valid.
type FieldType string

// Common abstract field types with a canonical PostgreSQL mapping.
const (
	TypeString      FieldType = "string"
	TypeInteger     FieldType = "integer"
	TypeBigint      FieldType = "bigint"
	TypeFloat       FieldType = "float"
	TypeDecimal     FieldType = "decimal"
	TypeBoolean     FieldType = "boolean"
	TypeUUID        FieldType = "uuid"
	TypeTimestamp   FieldType = "timestamp"
	TypeTimestamptz FieldType = "timestamptz"
	TypeDate        FieldType = "date"
	TypeTime        FieldType = "time"
	TypeJSON        FieldType = "json"
	TypeJSONB       FieldType = "jsonb"
)

// ReferentialAction is an ON DELETE / ON UPDATE action.
type ReferentialAction string

const (
	ActionCascade    ReferentialAction = "cascade"
	ActionRestrict   ReferentialAction = "restrict"
	ActionSetNull    ReferentialAction = "set_null"
	ActionSetDefault ReferentialAction = "set_default"
)

// Field is a single column declaration.
//
// Default accepts either a literal (string, number, bool) or a raw SQL
// expression string. A string ending in "()" or containing parentheses or
// whitespace renders unquoted; any other string renders as a quoted SQL
// literal. Generated and Default are mutually exclusive by convention,
// though the compiler does not enforce this.
type Field struct {
	Name string
	Type FieldType

	// NotNull adds NOT NULL. The zero value keeps the column nullable,
	// which is the authoring default (null: true).
	NotNull    bool
	PrimaryKey bool
	Unique     bool
	Default    any

	// References is a foreign key target in "table(column)" form.
	References string
	OnDelete   ReferentialAction
	OnUpdate   ReferentialAction

	// Generated makes this a stored generated column with the given
	// SQL expression.
	Generated string

	Comment string
}

// Index is a secondary index declaration. When Name is empty the compiler
// derives "<table>_<field1>_..._<fieldN>_<unique|idx>".
type Index struct {
	Fields  []string
	Name    string
	Unique  bool
	Using   string // index method: btree, gin, gist, ...
	Where   string // partial-index predicate
	Comment string
}

// PolicyAction is the statement class a policy applies to.
type PolicyAction string

const (
	PolicySelect PolicyAction = "select"
	PolicyInsert PolicyAction = "insert"
	PolicyUpdate PolicyAction = "update"
	PolicyDelete PolicyAction = "delete"
	PolicyAll    PolicyAction = "all"
)

// RoleAll is the sentinel role meaning "no TO clause" (applies to all roles).
const RoleAll = "all"

// Policy is one row-level-security rule.
//
// Condition is a SQL boolean expression. Which clause it lands in depends
// on the action: insert policies get WITH CHECK, select/delete/update get
// USING, and all-action policies get both. WithCheck overrides the WITH
// CHECK expression for update policies only.
type Policy struct {
	Action      PolicyAction
	Description string
	Condition   string

	// Name overrides the derived policy name.
	Name string
	// For restricts the policy to the listed roles. Empty or the single
	// sentinel RoleAll means no TO clause.
	For []string
	// WithCheck is an alternate WITH CHECK expression, meaningful only
	// for update policies.
	WithCheck string
}

// Equal reports exact structural equality of the (action, condition,
// options) triple. This is the identity the policy reconciliation uses;
// there is no semantic SQL comparison.
func (p Policy) Equal(o Policy) bool {
	if p.Action != o.Action || p.Condition != o.Condition {
		return false
	}
	if p.Name != o.Name || p.WithCheck != o.WithCheck {
		return false
	}
	if len(p.For) != len(o.For) {
		return false
	}
	for i := range p.For {
		if p.For[i] != o.For[i] {
			return false
		}
	}
	return true
}

// TriggerTiming is when a trigger fires relative to its event.
type TriggerTiming string

const (
	TimingBefore TriggerTiming = "before"
	TimingAfter  TriggerTiming = "after"
)

// TriggerScope is the FOR EACH granularity.
type TriggerScope string

const (
	ScopeRow       TriggerScope = "row"
	ScopeStatement TriggerScope = "statement"
)

// Trigger declares a trigger plus its backing plpgsql function. Events are
// lower-case event names ("insert", "update", "delete", "truncate");
// the compiler upper-cases and OR-joins them.
type Trigger struct {
	Name   string
	Events []string
	Body   string

	Timing  TriggerTiming // default before
	ForEach TriggerScope  // default row
	When    string        // guard expression
}

// Volatility is a function volatility class.
type Volatility string

const (
	VolatilityImmutable Volatility = "immutable"
	VolatilityStable    Volatility = "stable"
	VolatilityVolatile  Volatility = "volatile"
)

// Security is a function security mode.
type Security string

const (
	SecurityDefiner Security = "definer"
	SecurityInvoker Security = "invoker"
)

// Function declares a SQL function. Arguments are positional; bodies
// reference them as $1..$N.
type Function struct {
	Name    string
	Args    []FieldType
	Returns FieldType
	Body    string

	Language   string // default plpgsql
	Volatility Volatility
	Security   Security
}

// View declares a (possibly materialized) view.
type View struct {
	Name         string
	Query        string
	Materialized bool
	Comment      string
}

// TypeKind discriminates custom type declarations.
type TypeKind string

const (
	KindEnum      TypeKind = "enum"
	KindComposite TypeKind = "composite"
	KindDomain    TypeKind = "domain"
)

// CompositeField is one name/type pair of a composite type.
type CompositeField struct {
	Name string
	Type FieldType
}

// CustomType declares an enum, composite type or domain. Exactly the
// fields for its kind are consulted: Values for enums, Fields for
// composites, BaseType/Constraint for domains.
type CustomType struct {
	Name string
	Kind TypeKind

	Values     []string
	Fields     []CompositeField
	BaseType   FieldType
	Constraint string // domain CHECK expression
}

// StorageBucket declares an object-storage bucket. It compiles to an
// idempotent upsert into storage.buckets; its policies compile against
// storage.objects with an implicit bucket_id guard.
//
// FileSizeLimit accepts an integer byte count or a human string like
// "5MB" (1024-based units). An unparsable limit renders as NULL.
type StorageBucket struct {
	Name     string
	Policies []Policy

	Public           bool
	FileSizeLimit    any
	AllowedMIMETypes []string
}

// RelationshipKind labels an informational relationship.
type RelationshipKind string

const (
	HasMany   RelationshipKind = "has_many"
	HasOne    RelationshipKind = "has_one"
	BelongsTo RelationshipKind = "belongs_to"
)

// Relationship is informational metadata about how tables relate. It is
// carried through the model for tooling (docs, client generation) but is
// never compiled to SQL; foreign keys come from Field.References.
type Relationship struct {
	Kind  RelationshipKind
	Table string
}

// Table is one table declaration with everything that compiles into its
// per-table statement block.
type Table struct {
	Name          string
	Fields        []Field
	Indexes       []Index
	Policies      []Policy
	Triggers      []Trigger
	Relationships []Relationship

	// EnableRLS emits ALTER TABLE ... ENABLE ROW LEVEL SECURITY,
	// independent of whether the table has policies.
	EnableRLS bool
	Comment   string
}

// PrimaryKey returns the names of all fields marked primary key, in
// declaration order. With two or more the compiler strips the inline
// PRIMARY KEY tokens and emits a single table-level constraint instead.
func (t Table) PrimaryKey() []string {
	var cols []string
	for _, f := range t.Fields {
		if f.PrimaryKey {
			cols = append(cols, f.Name)
		}
	}
	return cols
}

// Field returns the field with the given name, if present.
func (t Table) Field(name string) (Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Schema is the top-level container handed to the compiler. All child
// entities are exclusively owned by the Schema and must not be mutated
// once compilation starts.
//
// Slice order is declaration order. Authoring layers that accumulate
// entities in reverse (prepend-style builders) must reverse once before
// constructing the Schema; the compiler trusts the order it is given.
type Schema struct {
	Tables    []Table
	Types     []CustomType
	Functions []Function
	Views     []View
	Buckets   []StorageBucket
}

// Table returns the table with the given name, if present.
func (s *Schema) Table(name string) (Table, bool) {
	for _, t := range s.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}
