package core

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/zeebo/xxh3"
)

// Section is one group of statements under a comment header.
type Section struct {
	Kind       Kind
	Header     string
	Table      string
	Statements []string
}

// Script is the ordered output of a conversion.
type Script struct {
	Sections []Section
}

// Emitter accumulates statements into sections in declaration order.
// Sections are opened up front so that empty groups still get their header.
type Emitter struct {
	nullEmptyInts bool
	script        Script
	index         map[Kind]int
}

// NewEmitter opens one section per spec.
func NewEmitter(specs []SectionSpec, nullEmptyInts bool) *Emitter {
	e := &Emitter{nullEmptyInts: nullEmptyInts, index: make(map[Kind]int, len(specs))}
	for i, s := range specs {
		e.script.Sections = append(e.script.Sections, Section{Kind: s.Kind, Header: s.Header, Table: s.Table.Name})
		e.index[s.Kind] = i
	}
	return e
}

// Emit renders rec against table and appends it to the kind's section.
func (e *Emitter) Emit(kind Kind, table Table, rec Record) {
	i, ok := e.index[kind]
	if !ok {
		return
	}
	e.script.Sections[i].Statements = append(e.script.Sections[i].Statements, RenderInsert(table, rec, e.nullEmptyInts))
}

// Script returns the accumulated script.
func (e *Emitter) Script() *Script {
	s := e.script
	return &s
}

// RenderInsert formats one INSERT statement for rec.
func RenderInsert(table Table, rec Record, nullEmptyInts bool) string {
	values := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		values[i] = FormatValue(rec[c.Attr], c.Kind, nullEmptyInts)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s);",
		table.Name, strings.Join(table.ColumnNames(), ", "), strings.Join(values, ", "))
}

// Bytes renders the script: a "-- header" line per section, sections
// separated by a blank line, one statement per line.
func (s *Script) Bytes() []byte {
	var buf bytes.Buffer
	for i, sec := range s.Sections {
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString("-- ")
		buf.WriteString(sec.Header)
		buf.WriteByte('\n')
		for _, stmt := range sec.Statements {
			buf.WriteString(stmt)
			buf.WriteByte('\n')
		}
	}
	return buf.Bytes()
}

// String implements fmt.Stringer.
func (s *Script) String() string { return string(s.Bytes()) }

// Statements returns every statement in emission order.
func (s *Script) Statements() []string {
	var out []string
	for _, sec := range s.Sections {
		out = append(out, sec.Statements...)
	}
	return out
}

// Counts returns the number of statements per section kind.
func (s *Script) Counts() map[Kind]int {
	out := make(map[Kind]int, len(s.Sections))
	for _, sec := range s.Sections {
		out[sec.Kind] += len(sec.Statements)
	}
	return out
}

// Checksum returns the xxh3 hash of the rendered script as 16 hex digits.
// Identical input always yields the identical checksum.
func (s *Script) Checksum() string {
	return fmt.Sprintf("%016x", xxh3.Hash(s.Bytes()))
}
