package core

// validation.go provides advisory row checks used by Preview.
//
// Conversion itself never validates values: numeric strings pass through
// verbatim. These checks only surface likely data problems before a script
// is generated or applied.

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/JonMunkholm/racesql/internal/schema"
)

// numericRegex matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

var dateLayouts = []string{
	"2006-01-02", "2006/01/02", "2006.01.02",
	"02/01/2006", "2/1/2006", "02.01.2006",
	"Jan 2, 2006", "2 Jan 2006",
	"20060102",
}

// ValidationError represents a single advisory problem with a field.
type ValidationError struct {
	Line    int    `json:"line"`
	Field   string `json:"field"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("line %d: %s: %s", e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// ValidateRow checks one raw row against its field specs and returns every
// problem found.
func ValidateRow(row RawRow, specs []schema.FieldSpec) []ValidationError {
	if len(row.Fields) != len(specs) {
		return []ValidationError{{
			Line:    row.Line,
			Message: fmt.Sprintf("column not found: got %d columns, want %d", len(row.Fields), len(specs)),
		}}
	}

	var errs []ValidationError
	for i, spec := range specs {
		v := row.Fields[i]
		if v == "" {
			if spec.Key {
				errs = append(errs, ValidationError{Line: row.Line, Field: spec.Name, Message: "required field is empty"})
			}
			continue
		}
		if err := ValidateCell(v, spec); err != nil {
			errs = append(errs, ValidationError{Line: row.Line, Field: spec.Name, Value: v, Message: err.Error()})
		}
	}
	return errs
}

// ValidateCell validates a single value against its spec.
func ValidateCell(value string, spec schema.FieldSpec) error {
	switch spec.Type {
	case schema.FieldNumeric:
		if !numericRegex.MatchString(strings.TrimSpace(value)) {
			return fmt.Errorf("invalid number format")
		}
	case schema.FieldDate:
		if !isDate(strings.TrimSpace(value)) {
			return fmt.Errorf("invalid date format (use YYYY-MM-DD or similar)")
		}
	}
	return nil
}

func isDate(s string) bool {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}
