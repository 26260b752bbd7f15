// Package storage holds what the script executors share.
package storage

import (
	"fmt"

	"github.com/JonMunkholm/racesql/internal/core"
)

// StatementError reports the statement a database rejected.
type StatementError struct {
	Index     int // Position in Script.Statements, from 0
	Section   core.Kind
	Statement string
	Err       error
}

func (e *StatementError) Error() string {
	return fmt.Sprintf("statement %d (%s): %v", e.Index+1, e.Section, e.Err)
}

func (e *StatementError) Unwrap() error { return e.Err }

// Report summarises an executed script.
type Report struct {
	Statements int            `json:"statements"`
	Rows       map[string]int `json:"rows"` // Rows affected per table
}

// Step is one statement with the section it came from.
type Step struct {
	Index     int
	Section   core.Kind
	Table     string
	Statement string
}

// Steps flattens a script in execution order.
func Steps(s *core.Script) []Step {
	var out []Step
	for _, sec := range s.Sections {
		for _, stmt := range sec.Statements {
			out = append(out, Step{Index: len(out), Section: sec.Kind, Table: sec.Table, Statement: stmt})
		}
	}
	return out
}
