package core

import "strings"

// NullLiteral is the SQL literal emitted for absent values.
const NullLiteral = "NULL"

// FormatString renders v as a single-quoted SQL string literal with embedded
// quotes doubled. Empty values render as NULL, which also covers attributes
// absent from a Record.
func FormatString(v string) string {
	if v == "" {
		return NullLiteral
	}
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}

// FormatInt renders v verbatim as an unquoted numeric literal. No numeric
// validation is performed. When nullEmpty is set, an empty value renders as
// NULL; otherwise it is emitted as-is (the empty string).
func FormatInt(v string, nullEmpty bool) string {
	if v == "" && nullEmpty {
		return NullLiteral
	}
	return v
}

// FormatValue dispatches on kind.
func FormatValue(v string, kind ValueKind, nullEmptyInts bool) string {
	if kind == ValueInt {
		return FormatInt(v, nullEmptyInts)
	}
	return FormatString(v)
}
