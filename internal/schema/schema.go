// Package schema describes the positional column layouts of the race input files.
//
// Both files are comma-separated with a header row. Columns are addressed by
// position; the header names are informational and only used for preview
// diagnostics and template downloads.
package schema

import "strings"

// FieldType represents the expected data type for a CSV field.
type FieldType int

const (
	FieldText FieldType = iota
	FieldNumeric
	FieldDate
)

// FieldSpec defines a single positional CSV column.
type FieldSpec struct {
	Name string    // Header name as exported by the timing provider
	Type FieldType // Expected data type
	Key  bool      // Column participates in an entity key; empty values are suspicious
}

// Header returns the header row for a list of field specs.
func Header(specs []FieldSpec) []string {
	out := make([]string, len(specs))
	for i, s := range specs {
		out[i] = s.Name
	}
	return out
}

// HeaderMismatches reports positions whose header name differs from the
// expected one (case-insensitive). It never fails a conversion; positional
// access is authoritative.
func HeaderMismatches(header []string, specs []FieldSpec) []string {
	var out []string
	for i, s := range specs {
		if i >= len(header) {
			out = append(out, s.Name)
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(header[i]), s.Name) {
			out = append(out, s.Name)
		}
	}
	return out
}

// TypeName returns a human-readable name for a field type.
func (t FieldType) TypeName() string {
	switch t {
	case FieldNumeric:
		return "numeric"
	case FieldDate:
		return "date"
	default:
		return "text"
	}
}
