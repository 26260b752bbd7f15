package core

// error_messages.go maps technical errors to user-facing messages with codes
// for support reference.
//
// Error codes are grouped by category:
//
//	DB001-DB099     Database errors raised while verifying or applying a script
//	VAL001-VAL099   Data problems in the input rows
//	FILE001-FILE099 File handling and parsing
//	CNV001-CNV099   Conversion setup (variants, rules)
//	UPL001-UPL099   Request lifecycle and throughput
//	RATE001         Request throttling
//	ERR000          Fallback
//
// PostgreSQL errors are matched on SQLSTATE first; everything else is matched
// case-insensitively on the error text. The first matching pattern wins, so
// specific patterns come before general ones.

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var (
	msgDuplicateKey = UserMessage{
		Message: "A record with this key already exists",
		Action:  "Apply the script to an empty schema or remove the existing rows first",
		Code:    "DB001",
	}
	msgUnique = UserMessage{
		Message: "This value must be unique but already exists",
		Action:  "Check the input for duplicate entries",
		Code:    "DB002",
	}
	msgForeignKey = UserMessage{
		Message: "Referenced record does not exist",
		Action:  "Check that the referenced country, team, location or stage is present in the input",
		Code:    "DB003",
	}
	msgDeadlock = UserMessage{
		Message: "Database was busy with conflicting operations",
		Action:  "Please try again",
		Code:    "DB007",
	}
	msgSyntax = UserMessage{
		Message: "The generated script is not valid SQL",
		Action:  "Check numeric columns for empty values or enable NULL for empty integers",
		Code:    "DB008",
	}
)

// sqlStateMessages maps PostgreSQL SQLSTATE codes to user messages.
var sqlStateMessages = map[string]UserMessage{
	"23505": msgDuplicateKey,
	"23503": msgForeignKey,
	"40P01": msgDeadlock,
	"42601": msgSyntax,
}

var errorPatterns = []errorPattern{
	// Database constraint errors
	{pattern: "duplicate key", msg: msgDuplicateKey},
	{pattern: "unique constraint", msg: msgUnique},
	{pattern: "violates unique", msg: msgUnique},
	{pattern: "foreign key constraint", msg: msgForeignKey},
	{pattern: "violates foreign key", msg: msgForeignKey},
	{pattern: "syntax error", msg: msgSyntax},

	// Database connection errors
	{pattern: "connection refused", msg: UserMessage{
		Message: "Unable to connect to database",
		Action:  "Please try again in a few moments",
		Code:    "DB004",
	}},
	{pattern: "connection reset", msg: UserMessage{
		Message: "Database connection was interrupted",
		Action:  "Please try again",
		Code:    "DB005",
	}},
	{pattern: "timeout", msg: UserMessage{
		Message: "Operation timed out",
		Action:  "Try a smaller file or try again later",
		Code:    "DB006",
	}},
	{pattern: "deadlock", msg: msgDeadlock},
	{pattern: "no database configured", msg: UserMessage{
		Message: "No database is configured for this server",
		Action:  "Download the script and run it yourself, or set DATABASE_URL",
		Code:    "DB009",
	}},

	// Validation errors
	{pattern: "invalid date", msg: UserMessage{
		Message: "Invalid date format detected",
		Action:  "Use YYYY-MM-DD for dates of birth",
		Code:    "VAL001",
	}},
	{pattern: "invalid number", msg: UserMessage{
		Message: "Invalid number format detected",
		Action:  "Use plain integers for stage, bib, rank, time and length",
		Code:    "VAL002",
	}},
	{pattern: "required field", msg: UserMessage{
		Message: "Required field is empty",
		Action:  "Ensure key columns such as stage and bib have values",
		Code:    "VAL003",
	}},
	{pattern: "column not found", msg: UserMessage{
		Message: "Row does not have the expected columns",
		Action:  "Verify the file matches the template column layout",
		Code:    "VAL005",
	}},
	{pattern: "conflicting duplicate", msg: UserMessage{
		Message: "The same key appears with different values",
		Action:  "Fix the input or set CONVERT_CONFLICT_POLICY=warn to keep the first occurrence",
		Code:    "VAL007",
	}},

	// Conversion setup
	{pattern: "unknown variant", msg: UserMessage{
		Message: "The requested variant does not exist",
		Action:  "Choose one of the listed variants",
		Code:    "CNV001",
	}},
	{pattern: "unsupported section kind", msg: UserMessage{
		Message: "The variant declares a section that cannot be produced",
		Action:  "Check the variant definition",
		Code:    "CNV002",
	}},
	{pattern: "rules file", msg: UserMessage{
		Message: "The correction rules file could not be loaded",
		Action:  "Check CONVERT_RULES_FILE points at valid YAML",
		Code:    "CNV003",
	}},
	{pattern: "invalid conflict policy", msg: UserMessage{
		Message: "Unknown conflict policy",
		Action:  "Use ignore, warn or error",
		Code:    "CNV004",
	}},
	{pattern: "invalid null_empty_ints", msg: UserMessage{
		Message: "Unknown setting for empty integers",
		Action:  "Use auto, true or false",
		Code:    "CNV005",
	}},

	// File errors
	{pattern: "file too large", msg: UserMessage{
		Message: "File exceeds maximum size limit",
		Action:  "Split the file into smaller chunks",
		Code:    "FILE001",
	}},
	{pattern: "invalid csv", msg: UserMessage{
		Message: "File is not a valid CSV",
		Action:  "Ensure file is comma-separated with the expected number of columns",
		Code:    "FILE002",
	}},
	{pattern: "encoding error", msg: UserMessage{
		Message: "File contains invalid characters",
		Action:  "Save file as UTF-8 encoding",
		Code:    "FILE003",
	}},
	{pattern: "no file provided", msg: UserMessage{
		Message: "No file was selected",
		Action:  "Please select a results CSV file",
		Code:    "FILE004",
	}},
	{pattern: "empty file", msg: UserMessage{
		Message: "The file is empty",
		Action:  "Please provide a CSV file with a header row",
		Code:    "FILE005",
	}},
	{pattern: "requires an exits file", msg: UserMessage{
		Message: "This variant needs an exits file",
		Action:  "Provide the exits CSV (bib, stage, reason)",
		Code:    "FILE006",
	}},
	{pattern: "no such file", msg: UserMessage{
		Message: "Input file not found",
		Action:  "Check the configured file paths",
		Code:    "FILE007",
	}},

	// Request lifecycle
	{pattern: "too many conversions", msg: UserMessage{
		Message: "Too many conversions in progress",
		Action:  "Please wait a moment and try again",
		Code:    "UPL002",
	}},
	{pattern: "context canceled", msg: UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "UPL004",
	}},
	{pattern: "context deadline exceeded", msg: UserMessage{
		Message: "Request timed out",
		Action:  "Try a smaller file or check your connection",
		Code:    "UPL005",
	}},

	{pattern: "rate limit", msg: UserMessage{
		Message: "Too many requests",
		Action:  "Please wait a moment before trying again",
		Code:    "RATE001",
	}},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// If no pattern matches, a generic fallback message with code ERR000 is
// returned.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if msg, ok := sqlStateMessages[pgErr.Code]; ok {
			return msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern rather than the
// ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
