package core

import "testing"

func TestFormatString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty is NULL", input: "", want: "NULL"},
		{name: "plain", input: "France", want: "'France'"},
		{name: "quote doubled", input: "O'Brien", want: "'O''Brien'"},
		{name: "several quotes", input: "'a''b'", want: "'''a''''b'''"},
		{name: "whitespace kept", input: " x ", want: "' x '"},
		{name: "unicode", input: "Pogačar", want: "'Pogačar'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatString(tt.input); got != tt.want {
				t.Errorf("FormatString(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatString_AbsentAttribute(t *testing.T) {
	rec := Record{AttrName: "O'Brien"}
	if got := FormatString(rec[AttrDOB]); got != NullLiteral {
		t.Errorf("FormatString(absent) = %s, want NULL", got)
	}
	if got := FormatString(rec[AttrName]); got != "'O''Brien'" {
		t.Errorf("FormatString(present) = %s", got)
	}
}

func TestFormatInt(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		nullEmpty bool
		want      string
	}{
		{name: "verbatim", input: "42", want: "42"},
		{name: "no validation", input: "12abc", want: "12abc"},
		{name: "empty kept verbatim", input: "", nullEmpty: false, want: ""},
		{name: "empty to NULL", input: "", nullEmpty: true, want: "NULL"},
		{name: "value ignores flag", input: "7", nullEmpty: true, want: "7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatInt(tt.input, tt.nullEmpty); got != tt.want {
				t.Errorf("FormatInt(%q, %v) = %q, want %q", tt.input, tt.nullEmpty, got, tt.want)
			}
		})
	}
}

func TestFormatValue(t *testing.T) {
	if got := FormatValue("5", ValueInt, false); got != "5" {
		t.Errorf("FormatValue int = %q", got)
	}
	if got := FormatValue("5", ValueString, false); got != "'5'" {
		t.Errorf("FormatValue string = %q", got)
	}
}
