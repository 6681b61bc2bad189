package sqlgen

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/strata-db/strata/schema"
)

// typeNames maps the common abstract field types to canonical PostgreSQL
// type names. Anything not in this table passes through verbatim, so
// arbitrary PostgreSQL types never fail to map.
var typeNames = map[schema.FieldType]string{
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

// TypeName maps an abstract field type to its PostgreSQL type name.
// Unrecognized types are returned unchanged.
func TypeName(t schema.FieldType) string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return string(t)
}

// fileSizePattern matches "<number><unit>" with an optional unit and
// optional space between number and unit.
var fileSizePattern = regexp.MustCompile(`^([0-9]+(?:\.[0-9]+)?)\s*([A-Za-z]*)$`)

// fileSizeUnits holds 1024-based multipliers keyed by upper-cased unit.
var fileSizeUnits = map[string]int64{
	"":   1,
	"B":  1,
	"KB": 1 << 10,
	"MB": 1 << 20,
	"GB": 1 << 30,
	"TB": 1 << 40,
}

// ParseFileSize converts a file-size value to a byte count. It accepts an
// integer byte count directly, or a string like "5MB" or "1.5 GB" with a
// case-insensitive unit in B/KB/MB/GB/TB (1024-based, defaulting to B).
//
// Returns ok=false for anything unparsable; callers substitute NULL in
// generated SQL rather than aborting compilation.
func ParseFileSize(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint64:
		return int64(n), true
	case float64:
		// YAML/JSON decoding produces float64 for numbers.
		if n != float64(int64(n)) {
			return 0, false
		}
		return int64(n), true
	case string:
		return parseFileSizeString(n)
	default:
		return 0, false
	}
}

func parseFileSizeString(s string) (int64, bool) {
	m := fileSizePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, false
	}

	mult, ok := fileSizeUnits[strings.ToUpper(m[2])]
	if !ok {
		return 0, false
	}

	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}

	return int64(n * float64(mult)), true
}
