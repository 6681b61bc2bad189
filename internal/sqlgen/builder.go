package sqlgen

import (
	"fmt"
	"strings"
)

// SQLBuilder builds SQL with automatic indentation management.
// Use this for multi-line statement construction where managing
// indentation manually would be error-prone.
type SQLBuilder struct {
	lines     []string
	indent    int
	indentStr string
}

// NewBuilder creates a new SQLBuilder with 4-space indentation.
func NewBuilder() *SQLBuilder {
	return &SQLBuilder{
		indentStr: "    ",
	}
}

// Line adds a line at the current indentation level.
func (b *SQLBuilder) Line(format string, args ...any) *SQLBuilder {
	line := fmt.Sprintf(format, args...)
	if b.indent > 0 && line != "" {
		line = strings.Repeat(b.indentStr, b.indent) + line
	}
	b.lines = append(b.lines, line)
	return b
}

// LineIf adds a line only if the condition is true.
func (b *SQLBuilder) LineIf(cond bool, format string, args ...any) *SQLBuilder {
	if cond {
		return b.Line(format, args...)
	}
	return b
}

// Raw adds a raw string without any indentation modification.
// Useful for multi-line strings that have their own formatting.
func (b *SQLBuilder) Raw(s string) *SQLBuilder {
	if s != "" {
		b.lines = append(b.lines, s)
	}
	return b
}

// Indent increases the indentation level.
func (b *SQLBuilder) Indent() *SQLBuilder {
	b.indent++
	return b
}

// Dedent decreases the indentation level.
func (b *SQLBuilder) Dedent() *SQLBuilder {
	if b.indent > 0 {
		b.indent--
	}
	return b
}

// Block executes a function with increased indentation.
// Automatically handles indent/dedent around the callback.
func (b *SQLBuilder) Block(fn func(*SQLBuilder)) *SQLBuilder {
	b.Indent()
	fn(b)
	b.Dedent()
	return b
}

// String returns the built SQL.
func (b *SQLBuilder) String() string {
	return strings.Join(b.lines, "\n")
}
