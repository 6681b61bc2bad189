package schema

import "errors"

// ErrInvalidSchema is returned when a schema fails structural validation.
var ErrInvalidSchema = errors.New("strata/schema: invalid schema")

// IsInvalidSchemaErr returns true if err is or wraps ErrInvalidSchema.
func IsInvalidSchemaErr(err error) bool {
	return errors.Is(err, ErrInvalidSchema)
}
