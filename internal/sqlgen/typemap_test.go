package sqlgen

import (
	"testing"

	"github.com/strata-db/strata/schema"
)

func TestTypeName(t *testing.T) {
	cases := map[schema.FieldType]string{
		schema.TypeString:      "text",
		schema.TypeInteger:     "integer",
		schema.TypeBigint:      "bigint",
		schema.TypeFloat:       "real",
		schema.TypeDecimal:     "decimal",
		schema.TypeBoolean:     "boolean",
		schema.TypeUUID:        "uuid",
		schema.TypeTimestamp:   "timestamp",
		schema.TypeTimestamptz: "timestamptz",
		schema.TypeDate:        "date",
		schema.TypeTime:        "time",
		schema.TypeJSON:        "json",
		schema.TypeJSONB:       "jsonb",
	}
	for in, want := range cases {
		if got := TypeName(in); got != want {
			t.Errorf("TypeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTypeName_PassThrough(t *testing.T) {
	for _, raw := range []string{"varchar(120)", "vector(1536)", "int4range", "money"} {
		if got := TypeName(schema.FieldType(raw)); got != raw {
			t.Errorf("TypeName(%q) = %q, want pass-through", raw, got)
		}
	}
}

func TestParseFileSize(t *testing.T) {
	cases := []struct {
		in   any
		want int64
		ok   bool
	}{
		{"1MB", 1048576, true},
		{"5 GB", 5368709120, true},
		{"1KB", 1024, true},
		{"2tb", 2199023255552, true},
		{"512", 512, true},
		{"100B", 100, true},
		{"1.5KB", 1536, true},
		{1048576, 1048576, true},
		{int64(42), 42, true},
		{float64(4096), 4096, true},
		{"bogus", 0, false},
		{"5XB", 0, false},
		{"MB", 0, false},
		{"", 0, false},
		{float64(1.5), 0, false},
		{nil, 0, false},
	}
	for _, c := range cases {
		got, ok := ParseFileSize(c.in)
		if ok != c.ok {
			t.Errorf("ParseFileSize(%v) ok = %v, want %v", c.in, ok, c.ok)
			continue
		}
		if ok && got != c.want {
			t.Errorf("ParseFileSize(%v) = %d, want %d", c.in, got, c.want)
		}
	}
}
