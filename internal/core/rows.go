package core

import (
	"fmt"

	"github.com/JonMunkholm/racesql/internal/schema"
)

// ColumnCountError reports a row whose field count does not match its schema.
type ColumnCountError struct {
	File string
	Line int
	Got  int
	Want int
}

func (e *ColumnCountError) Error() string {
	return fmt.Sprintf("invalid csv: %s line %d: got %d columns, want %d", e.File, e.Line, e.Got, e.Want)
}

// CountryRef is a country as referenced from one role of a result row.
type CountryRef struct {
	Code   string
	Name   string
	Region string
}

// ResultRow is one stage result line with every column bound to a name.
type ResultRow struct {
	Line int

	Day     string
	Stage   string
	Bib     string
	Rank    string
	Time    string
	Bonus   string
	Penalty string

	StartLocation  string
	StartCountry   CountryRef
	FinishLocation string
	FinishCountry  CountryRef

	Length    string
	StageType string

	Rider        string
	Team         string
	DOB          string
	RiderCountry CountryRef
	TeamCountry  CountryRef
}

// ExitRow is one withdrawal or non-start record.
type ExitRow struct {
	Line   int
	Bib    string
	Stage  string
	Reason string
}

// Input is the bound content of one conversion run.
type Input struct {
	Results []ResultRow
	Exits   []ExitRow
}

// ParseResultRows binds data rows (header already dropped) to ResultRow.
func ParseResultRows(rows []RawRow) ([]ResultRow, error) {
	out := make([]ResultRow, 0, len(rows))
	for _, r := range rows {
		f := r.Fields
		if len(f) != schema.ResultColumnCount {
			return nil, &ColumnCountError{File: "results", Line: r.Line, Got: len(f), Want: schema.ResultColumnCount}
		}
		out = append(out, ResultRow{
			Line:           r.Line,
			Day:            f[schema.ColDay],
			Stage:          f[schema.ColStage],
			Bib:            f[schema.ColBib],
			Rank:           f[schema.ColRank],
			Time:           f[schema.ColTime],
			Bonus:          f[schema.ColBonus],
			Penalty:        f[schema.ColPenalty],
			StartLocation:  f[schema.ColStartLocation],
			StartCountry:   countryAt(f, schema.ColStartCountryCode),
			FinishLocation: f[schema.ColFinishLocation],
			FinishCountry:  countryAt(f, schema.ColFinishCountryCode),
			Length:         f[schema.ColLength],
			StageType:      f[schema.ColStageType],
			Rider:          f[schema.ColRider],
			Team:           f[schema.ColTeam],
			DOB:            f[schema.ColDOB],
			RiderCountry:   countryAt(f, schema.ColRiderCountryCode),
			TeamCountry:    countryAt(f, schema.ColTeamCountryCode),
		})
	}
	return out, nil
}

// countryAt reads a code/name/region triple starting at pos.
func countryAt(f []string, pos int) CountryRef {
	return CountryRef{Code: f[pos], Name: f[pos+1], Region: f[pos+2]}
}

// ParseExitRows binds data rows (header already dropped) to ExitRow.
func ParseExitRows(rows []RawRow) ([]ExitRow, error) {
	out := make([]ExitRow, 0, len(rows))
	for _, r := range rows {
		f := r.Fields
		if len(f) != schema.ExitColumnCount {
			return nil, &ColumnCountError{File: "exits", Line: r.Line, Got: len(f), Want: schema.ExitColumnCount}
		}
		out = append(out, ExitRow{
			Line:   r.Line,
			Bib:    f[schema.ColExitBib],
			Stage:  f[schema.ColExitStage],
			Reason: f[schema.ColExitReason],
		})
	}
	return out, nil
}

// LoadInput drops headers and binds both files. exits may be nil.
func LoadInput(results, exits []RawRow) (Input, error) {
	var in Input

	_, data, err := DropHeader(results)
	if err != nil {
		return in, fmt.Errorf("results: %w", err)
	}
	if in.Results, err = ParseResultRows(data); err != nil {
		return in, err
	}

	if exits == nil {
		return in, nil
	}
	_, data, err = DropHeader(exits)
	if err != nil {
		return in, fmt.Errorf("exits: %w", err)
	}
	if in.Exits, err = ParseExitRows(data); err != nil {
		return in, err
	}
	return in, nil
}
