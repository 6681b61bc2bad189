// Package parser loads declarative YAML schema documents into the schema
// model.
//
// This is the authoring adapter: whatever builds a schema.Schema is outside
// the compiler's scope, and this package is one such builder for projects
// that keep their schema in a YAML file. It is the only package that
// imports the YAML dependency; consumers of parsed schemas work with
// schema types, which have no external dependencies.
//
// Document slices are decoded in file order, so the declaration order the
// compiler requires is exactly the order entities appear in the document.
//
// # Basic Usage
//
//	s, err := parser.ParseFile("schema.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	doc, err := compiler.Compile(s, "initial schema")
package parser

import (
	"encoding/json"
	"fmt"
	"os"

	"sigs.k8s.io/yaml"

	"github.com/strata-db/strata/schema"
)

// roleList accepts either a single string or a list of strings and
// normalizes to a []string. sigs.k8s.io/yaml routes through JSON, so only
// the JSON unmarshaler is needed.
type roleList []string

func (r *roleList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*r = roleList{single}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("expected role string or list of roles: %w", err)
	}
	*r = list
	return nil
}

// Document shapes mirror the schema model with authoring spellings:
// "nullable: false" instead of NotNull, "rls" for the RLS flag, "for"
// accepting a bare role string.

type fieldDoc struct {
	Name       string          `json:"name"`
	Type       string          `json:"type"`
	// An unquoted "null" map key decodes as the YAML null scalar and
	// breaks the YAML-to-JSON conversion, so the option is spelled
	// "nullable".
	Nullable   *bool           `json:"nullable"`
	PrimaryKey bool            `json:"primary_key"`
	Unique     bool            `json:"unique"`
	Default    json.RawMessage `json:"default"`
	References string          `json:"references"`
	OnDelete   string          `json:"on_delete"`
	OnUpdate   string          `json:"on_update"`
	Generated  string          `json:"generated"`
	Comment    string          `json:"comment"`
}

type indexDoc struct {
	Fields  []string `json:"fields"`
	Name    string   `json:"name"`
	Unique  bool     `json:"unique"`
	Using   string   `json:"using"`
	Where   string   `json:"where"`
	Comment string   `json:"comment"`
}

type policyDoc struct {
	Action      string   `json:"action"`
	Description string   `json:"description"`
	Condition   string   `json:"condition"`
	Name        string   `json:"name"`
	For         roleList `json:"for"`
	WithCheck   string   `json:"with_check"`
}

type triggerDoc struct {
	Name    string   `json:"name"`
	Events  []string `json:"events"`
	Body    string   `json:"body"`
	Timing  string   `json:"timing"`
	ForEach string   `json:"for_each"`
	When    string   `json:"when"`
}

type relationshipDoc struct {
	Kind  string `json:"kind"`
	Table string `json:"table"`
}

type tableDoc struct {
	Name          string            `json:"name"`
	Fields        []fieldDoc        `json:"fields"`
	Indexes       []indexDoc        `json:"indexes"`
	Policies      []policyDoc       `json:"policies"`
	Triggers      []triggerDoc      `json:"triggers"`
	Relationships []relationshipDoc `json:"relationships"`
	RLS           bool              `json:"rls"`
	Comment       string            `json:"comment"`
}

type compositeFieldDoc struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type customTypeDoc struct {
	Name       string              `json:"name"`
	Kind       string              `json:"kind"`
	Values     []string            `json:"values"`
	Fields     []compositeFieldDoc `json:"fields"`
	BaseType   string              `json:"base_type"`
	Constraint string              `json:"constraint"`
}

type functionDoc struct {
	Name       string   `json:"name"`
	Args       []string `json:"args"`
	Returns    string   `json:"returns"`
	Body       string   `json:"body"`
	Language   string   `json:"language"`
	Volatility string   `json:"volatility"`
	Security   string   `json:"security"`
}

type viewDoc struct {
	Name         string `json:"name"`
	Query        string `json:"query"`
	Materialized bool   `json:"materialized"`
	Comment      string `json:"comment"`
}

type bucketDoc struct {
	Name             string          `json:"name"`
	Policies         []policyDoc     `json:"policies"`
	Public           bool            `json:"public"`
	FileSizeLimit    json.RawMessage `json:"file_size_limit"`
	AllowedMIMETypes []string        `json:"allowed_mime_types"`
}

type schemaDoc struct {
	Tables    []tableDoc      `json:"tables"`
	Types     []customTypeDoc `json:"types"`
	Functions []functionDoc   `json:"functions"`
	Views     []viewDoc       `json:"views"`
	Buckets   []bucketDoc     `json:"buckets"`
}

// Parse decodes a YAML schema document into a schema.Schema.
func Parse(data []byte) (*schema.Schema, error) {
	var doc schemaDoc
	if err := yaml.UnmarshalStrict(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing schema document: %w", err)
	}
	return doc.toSchema()
}

// ParseFile reads and parses a YAML schema document from disk.
func ParseFile(path string) (*schema.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema file: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func (d schemaDoc) toSchema() (*schema.Schema, error) {
	s := &schema.Schema{}

	for _, td := range d.Tables {
		t := schema.Table{
			Name:      td.Name,
			EnableRLS: td.RLS,
			Comment:   td.Comment,
		}
		for _, fd := range td.Fields {
			f, err := fd.toField()
			if err != nil {
				return nil, fmt.Errorf("table %q: %w", td.Name, err)
			}
			t.Fields = append(t.Fields, f)
		}
		for _, id := range td.Indexes {
			t.Indexes = append(t.Indexes, schema.Index{
				Fields:  id.Fields,
				Name:    id.Name,
				Unique:  id.Unique,
				Using:   id.Using,
				Where:   id.Where,
				Comment: id.Comment,
			})
		}
		for _, pd := range td.Policies {
			t.Policies = append(t.Policies, pd.toPolicy())
		}
		for _, trd := range td.Triggers {
			t.Triggers = append(t.Triggers, schema.Trigger{
				Name:    trd.Name,
				Events:  trd.Events,
				Body:    trd.Body,
				Timing:  schema.TriggerTiming(trd.Timing),
				ForEach: schema.TriggerScope(trd.ForEach),
				When:    trd.When,
			})
		}
		for _, rd := range td.Relationships {
			t.Relationships = append(t.Relationships, schema.Relationship{
				Kind:  schema.RelationshipKind(rd.Kind),
				Table: rd.Table,
			})
		}
		s.Tables = append(s.Tables, t)
	}

	for _, ctd := range d.Types {
		ct := schema.CustomType{
			Name:       ctd.Name,
			Kind:       schema.TypeKind(ctd.Kind),
			Values:     ctd.Values,
			BaseType:   schema.FieldType(ctd.BaseType),
			Constraint: ctd.Constraint,
		}
		for _, fd := range ctd.Fields {
			ct.Fields = append(ct.Fields, schema.CompositeField{
				Name: fd.Name,
				Type: schema.FieldType(fd.Type),
			})
		}
		s.Types = append(s.Types, ct)
	}

	for _, fd := range d.Functions {
		fn := schema.Function{
			Name:       fd.Name,
			Returns:    schema.FieldType(fd.Returns),
			Body:       fd.Body,
			Language:   fd.Language,
			Volatility: schema.Volatility(fd.Volatility),
			Security:   schema.Security(fd.Security),
		}
		for _, a := range fd.Args {
			fn.Args = append(fn.Args, schema.FieldType(a))
		}
		s.Functions = append(s.Functions, fn)
	}

	for _, vd := range d.Views {
		s.Views = append(s.Views, schema.View{
			Name:         vd.Name,
			Query:        vd.Query,
			Materialized: vd.Materialized,
			Comment:      vd.Comment,
		})
	}

	for _, bd := range d.Buckets {
		b := schema.StorageBucket{
			Name:             bd.Name,
			Public:           bd.Public,
			AllowedMIMETypes: bd.AllowedMIMETypes,
		}
		if len(bd.FileSizeLimit) > 0 {
			limit, err := decodeScalar(bd.FileSizeLimit)
			if err != nil {
				return nil, fmt.Errorf("bucket %q: file_size_limit: %w", bd.Name, err)
			}
			b.FileSizeLimit = limit
		}
		for _, pd := range bd.Policies {
			b.Policies = append(b.Policies, pd.toPolicy())
		}
		s.Buckets = append(s.Buckets, b)
	}

	return s, nil
}

func (d fieldDoc) toField() (schema.Field, error) {
	f := schema.Field{
		Name:       d.Name,
		Type:       schema.FieldType(d.Type),
		PrimaryKey: d.PrimaryKey,
		Unique:     d.Unique,
		References: d.References,
		OnDelete:   schema.ReferentialAction(d.OnDelete),
		OnUpdate:   schema.ReferentialAction(d.OnUpdate),
		Generated:  d.Generated,
		Comment:    d.Comment,
	}

	// The authoring default is nullable: true; only an explicit false
	// adds NOT NULL.
	if d.Nullable != nil && !*d.Nullable {
		f.NotNull = true
	}

	if len(d.Default) > 0 {
		v, err := decodeScalar(d.Default)
		if err != nil {
			return schema.Field{}, fmt.Errorf("field %q: default: %w", d.Name, err)
		}
		f.Default = v
	}

	return f, nil
}

func (d policyDoc) toPolicy() schema.Policy {
	return schema.Policy{
		Action:      schema.PolicyAction(d.Action),
		Description: d.Description,
		Condition:   d.Condition,
		Name:        d.Name,
		For:         d.For,
		WithCheck:   d.WithCheck,
	}
}

// decodeScalar unmarshals a raw JSON value into string, number or bool.
func decodeScalar(raw json.RawMessage) (any, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	switch v.(type) {
	case string, float64, bool, nil:
		return v, nil
	default:
		return nil, fmt.Errorf("expected a scalar value, got %T", v)
	}
}
