// Package core converts race result files into SQL insertion scripts.
// This package has no UI dependencies and can be used by any frontend.
package core

import "time"

// Kind identifies an entity kind emitted into its own script section.
type Kind string

const (
	KindCountry    Kind = "country"
	KindStageType  Kind = "stage_type"
	KindLocation   Kind = "location"
	KindTeam       Kind = "team"
	KindRider      Kind = "rider"
	KindStage      Kind = "stage"
	KindResult     Kind = "result"
	KindExitReason Kind = "exit_reason"
	KindExit       Kind = "exit"
)

// Attribute names carried by a Record. Table columns select from these.
const (
	AttrIOC     = "ioc"
	AttrName    = "name"
	AttrRegion  = "region"
	AttrCountry = "country"
	AttrType    = "type"
	AttrBib     = "bib"
	AttrDOB     = "dob"
	AttrTeam    = "team"
	AttrStage   = "stage"
	AttrDay     = "day"
	AttrLength  = "length"
	AttrStart   = "start_location"
	AttrFinish  = "finish_location"
	AttrRank    = "rank"
	AttrTime    = "time"
	AttrBonus   = "bonus"
	AttrPenalty = "penalty"
	AttrReason  = "reason"
)

// ValueKind selects how a raw attribute is rendered as a SQL literal.
type ValueKind int

const (
	ValueString ValueKind = iota
	ValueInt
)

// Column maps one attribute of a record onto a table column.
type Column struct {
	Name string    // Database column name
	Attr string    // Record attribute supplying the value
	Kind ValueKind // Literal rendering
}

// Table describes the insertion target of one section.
type Table struct {
	Name    string
	Columns []Column
	Key     []string // Column names forming the row identity (used for DDL bootstrap)
}

// ColumnNames returns the database column names in insertion order.
func (t Table) ColumnNames() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// SectionSpec declares one output section: what it extracts and where it inserts.
type SectionSpec struct {
	Kind   Kind
	Header string // Comment header written before the section's statements
	Table  Table
}

// Variant bundles every per-schema difference of the conversion pipeline.
type Variant struct {
	Name        string
	Description string
	Sections    []SectionSpec // Emission order; must respect foreign key dependencies

	// StageFilter restricts every section to rows of one stage. Empty means all stages.
	StageFilter string

	// NullEmptyInts renders empty integer fields as NULL instead of verbatim.
	NullEmptyInts bool

	// SkipEmptyKeys drops candidates whose dedup key is empty. Rider countries
	// are always optional and skipped when empty regardless of this flag.
	SkipEmptyKeys bool

	// Output is the default output file name.
	Output string

	Rules Rules
}

// Section returns the spec for a kind, if the variant emits it.
func (v Variant) Section(kind Kind) (SectionSpec, bool) {
	for _, s := range v.Sections {
		if s.Kind == kind {
			return s, true
		}
	}
	return SectionSpec{}, false
}

// UsesExits reports whether the variant consumes an exits file.
func (v Variant) UsesExits() bool {
	_, ok := v.Section(KindExit)
	return ok
}

// Record holds the named attributes of one extracted entity.
type Record map[string]string

// Conflict records a later occurrence of a deduplicated key whose attributes
// differ from the first (emitted) occurrence.
type Conflict struct {
	Kind  Kind   `json:"kind"`
	Key   string `json:"key"`
	Field string `json:"field"`
	First string `json:"first"`
	Later string `json:"later"`
	Line  int    `json:"line"`
}

// AppliedCorrection records a rank correction rule that fired.
type AppliedCorrection struct {
	Rule string `json:"rule"`
	Line int    `json:"line"`
	From string `json:"from"`
	To   string `json:"to"`
}

// ExcludedExit records an exit row dropped by an exclusion rule.
type ExcludedExit struct {
	Rule string `json:"rule"`
	Line int    `json:"line"`
	Bib  string `json:"bib"`
}

// Result is the outcome of one conversion run.
type Result struct {
	RunID       string
	Variant     string
	Script      *Script
	Conflicts   []Conflict
	Corrections []AppliedCorrection
	Excluded    []ExcludedExit
	Duration    time.Duration
}
