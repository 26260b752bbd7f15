package core

// reader.go parses delimited input files into raw rows.
//
// Input is decoded through a transform chain that rejects invalid UTF-8 and
// then strips a leading byte order mark, which spreadsheet exports commonly add.
// Rows keep their physical line number so later errors can point at the file.

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrEmptyInput is returned when a file has no header row.
var ErrEmptyInput = errors.New("empty file: no header row")

// RawRow is one parsed CSV record and the line it starts on.
type RawRow struct {
	Line   int
	Fields []string
}

// NewDecodingReader wraps r so that reads fail on invalid UTF-8 and a
// leading UTF-8 BOM is removed.
func NewDecodingReader(r io.Reader) io.Reader {
	return transform.NewReader(r, transform.Chain(
		encoding.UTF8Validator,
		unicode.BOMOverride(transform.Nop),
	))
}

// ReadRows parses every record from r, header included, in file order.
// Rows may have differing field counts; column counts are checked when rows
// are bound to a schema.
func ReadRows(r io.Reader) ([]RawRow, error) {
	cr := csv.NewReader(NewDecodingReader(r))
	cr.FieldsPerRecord = -1

	var rows []RawRow
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if errors.Is(err, encoding.ErrInvalidUTF8) {
				return nil, fmt.Errorf("encoding error: %w", err)
			}
			return nil, fmt.Errorf("invalid csv: %w", err)
		}
		line, _ := cr.FieldPos(0)
		rows = append(rows, RawRow{Line: line, Fields: fields})
	}
	return rows, nil
}

// ReadFile opens path and parses it with ReadRows.
func ReadFile(path string) ([]RawRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := ReadRows(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rows, nil
}

// DropHeader returns the header and the data rows that follow it.
func DropHeader(rows []RawRow) ([]string, []RawRow, error) {
	if len(rows) == 0 {
		return nil, nil, ErrEmptyInput
	}
	return rows[0].Fields, rows[1:], nil
}
