package core

import (
	"context"
	"fmt"
	"time"

	"github.com/JonMunkholm/racesql/internal/logging"
	"github.com/google/uuid"
)

// Options tune a single conversion run.
type Options struct {
	ConflictPolicy ConflictPolicy

	// NullEmptyInts overrides the variant's integer NULL handling when non-nil.
	NullEmptyInts *bool
}

// Convert runs the extraction pipeline of v over in and returns the script.
//
// Sections are produced in the variant's declared order. Deduplicated kinds
// emit one statement per first-seen key; results and exits emit one
// statement per qualifying row. The run is fully in memory: on error no
// script is returned.
func Convert(ctx context.Context, v Variant, in Input, opts Options) (*Result, error) {
	start := time.Now()

	runID := logging.RunIDFromContext(ctx)
	if runID == "" {
		runID = uuid.NewString()
		ctx = logging.WithRunID(ctx, runID)
	}
	logger := logging.WithFields(ctx, "variant", v.Name)

	nullInts := v.NullEmptyInts
	if opts.NullEmptyInts != nil {
		nullInts = *opts.NullEmptyInts
	}

	rows := filterStage(in.Results, v.StageFilter)
	state := NewRunState(opts.ConflictPolicy)
	em := NewEmitter(v.Sections, nullInts)
	res := &Result{RunID: runID, Variant: v.Name}

	logger.Info("conversion started",
		"result_rows", len(in.Results),
		"selected_rows", len(rows),
		"exit_rows", len(in.Exits),
	)

	for _, sec := range v.Sections {
		switch sec.Kind {
		case KindResult:
			for _, row := range rows {
				rec, fired := resultRecord(row, v.Rules)
				if fired != nil {
					res.Corrections = append(res.Corrections, AppliedCorrection{
						Rule: fired.Name, Line: row.Line, From: fired.FromRank, To: fired.ToRank,
					})
					logger.Debug("rank corrected", "rule", fired.Name, "line", row.Line)
				}
				em.Emit(sec.Kind, sec.Table, rec)
			}

		case KindExitReason:
			for _, reason := range v.Rules.ExitReasons {
				first, err := state.Observe(sec.Kind, reason, Record{AttrReason: reason}, 0)
				if err != nil {
					return nil, fmt.Errorf("%s section: %w", sec.Kind, err)
				}
				if first {
					em.Emit(sec.Kind, sec.Table, Record{AttrReason: reason})
				}
			}

		case KindExit:
			for _, row := range in.Exits {
				if rule, ok := v.Rules.ExcludesExit(row.Bib); ok {
					res.Excluded = append(res.Excluded, ExcludedExit{Rule: rule, Line: row.Line, Bib: row.Bib})
					continue
				}
				em.Emit(sec.Kind, sec.Table, exitRecord(row))
			}

		default:
			extract, ok := dedupExtractors[sec.Kind]
			if !ok {
				return nil, fmt.Errorf("unsupported section kind %q", sec.Kind)
			}
			for _, row := range rows {
				for _, c := range extract(row) {
					if c.key == "" && (c.optional || v.SkipEmptyKeys) {
						continue
					}
					first, err := state.Observe(sec.Kind, c.key, c.rec, row.Line)
					if err != nil {
						return nil, fmt.Errorf("%s section: %w", sec.Kind, err)
					}
					if first {
						em.Emit(sec.Kind, sec.Table, c.rec)
					}
				}
			}
		}
	}

	res.Conflicts = state.Conflicts()
	if opts.ConflictPolicy != ConflictIgnore {
		for _, c := range res.Conflicts {
			logger.Warn("conflicting duplicate dropped",
				"kind", c.Kind, "key", c.Key, "field", c.Field,
				"first", c.First, "later", c.Later, "line", c.Line,
			)
		}
	}

	res.Script = em.Script()
	res.Duration = time.Since(start)

	for kind, n := range res.Script.Counts() {
		logger.Debug("section emitted", "kind", kind, "statements", n)
	}
	logger.Info("conversion complete",
		"statements", len(res.Script.Statements()),
		"conflicts", len(res.Conflicts),
		"corrections", len(res.Corrections),
		"excluded_exits", len(res.Excluded),
		"duration_ms", res.Duration.Milliseconds(),
	)

	return res, nil
}

// filterStage keeps rows of one stage. An empty filter keeps everything.
func filterStage(rows []ResultRow, stage string) []ResultRow {
	if stage == "" {
		return rows
	}
	out := make([]ResultRow, 0, len(rows))
	for _, r := range rows {
		if r.Stage == stage {
			out = append(out, r)
		}
	}
	return out
}
