package core

import (
	"context"
	"time"

	"github.com/JonMunkholm/racesql/internal/schema"
)

// MaxPreviewIssues caps the validation samples returned by Preview.
const MaxPreviewIssues = 50

// SectionPreview is the statement count of one section.
type SectionPreview struct {
	Kind       Kind   `json:"kind"`
	Header     string `json:"header"`
	Table      string `json:"table"`
	Statements int    `json:"statements"`
}

// PreviewSummary contains the summary counts for a conversion preview.
type PreviewSummary struct {
	ResultRows    int `json:"resultRows"`
	ExitRows      int `json:"exitRows"`
	Statements    int `json:"statements"`
	Conflicts     int `json:"conflicts"`
	Corrections   int `json:"corrections"`
	ExcludedExits int `json:"excludedExits"`
	Issues        int `json:"issues"`
}

// PreviewResponse is what a conversion would produce, without the script text.
type PreviewResponse struct {
	Variant          string              `json:"variant"`
	Checksum         string              `json:"checksum"`
	Summary          PreviewSummary      `json:"summary"`
	Sections         []SectionPreview    `json:"sections"`
	HeaderMismatches []string            `json:"headerMismatches,omitempty"`
	Conflicts        []Conflict          `json:"conflicts,omitempty"`
	Corrections      []AppliedCorrection `json:"corrections,omitempty"`
	Excluded         []ExcludedExit      `json:"excluded,omitempty"`
	Issues           []ValidationError   `json:"issues,omitempty"`
	ProcessingTimeMs int64               `json:"processingTimeMs"`
}

// Preview validates the raw files and dry-runs the conversion. Conflicts are
// collected rather than logged or raised, whatever opts says.
func Preview(ctx context.Context, v Variant, results, exits []RawRow, opts Options) (*PreviewResponse, error) {
	start := time.Now()
	resp := &PreviewResponse{Variant: v.Name}

	header, data, err := DropHeader(results)
	if err != nil {
		return nil, err
	}
	resp.HeaderMismatches = schema.HeaderMismatches(header, schema.ResultFieldSpecs)
	resp.Summary.ResultRows = len(data)
	for _, row := range data {
		resp.addIssues(ValidateRow(row, schema.ResultFieldSpecs))
	}

	if !v.UsesExits() {
		exits = nil
	}
	if exits != nil {
		_, exitData, err := DropHeader(exits)
		if err != nil {
			return nil, err
		}
		resp.Summary.ExitRows = len(exitData)
		for _, row := range exitData {
			resp.addIssues(ValidateRow(row, schema.ExitFieldSpecs))
		}
	}

	in, err := LoadInput(results, exits)
	if err != nil {
		return nil, err
	}

	opts.ConflictPolicy = ConflictIgnore
	res, err := Convert(ctx, v, in, opts)
	if err != nil {
		return nil, err
	}

	for _, sec := range res.Script.Sections {
		resp.Sections = append(resp.Sections, SectionPreview{
			Kind: sec.Kind, Header: sec.Header, Table: sec.Table, Statements: len(sec.Statements),
		})
		resp.Summary.Statements += len(sec.Statements)
	}
	resp.Checksum = res.Script.Checksum()
	resp.Conflicts = res.Conflicts
	resp.Corrections = res.Corrections
	resp.Excluded = res.Excluded
	resp.Summary.Conflicts = len(res.Conflicts)
	resp.Summary.Corrections = len(res.Corrections)
	resp.Summary.ExcludedExits = len(res.Excluded)
	resp.ProcessingTimeMs = time.Since(start).Milliseconds()

	return resp, nil
}

func (p *PreviewResponse) addIssues(errs []ValidationError) {
	p.Summary.Issues += len(errs)
	for _, e := range errs {
		if len(p.Issues) >= MaxPreviewIssues {
			return
		}
		p.Issues = append(p.Issues, e)
	}
}
