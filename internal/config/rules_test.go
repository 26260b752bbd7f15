package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JonMunkholm/racesql/internal/core"
)

func writeRules(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadRules(t *testing.T) {
	path := writeRules(t, `
rank_corrections:
  - name: fix-tie
    stage: "4"
    bib: "71"
    from_rank: "12"
    to_rank: "13"
exit_exclusions:
  - name: test-riders
    bibs: ["201", "202"]
exit_reasons: [withdrawal, DNS, DSQ]
`)

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules() error = %v", err)
	}

	if len(rules.RankCorrections) != 1 {
		t.Fatalf("RankCorrections = %+v", rules.RankCorrections)
	}
	want := core.RankCorrection{Name: "fix-tie", Stage: "4", Bib: "71", FromRank: "12", ToRank: "13"}
	if rules.RankCorrections[0] != want {
		t.Errorf("RankCorrections[0] = %+v, want %+v", rules.RankCorrections[0], want)
	}
	if _, ok := rules.ExcludesExit("202"); !ok {
		t.Error("bib 202 should be excluded")
	}
	if strings.Join(rules.ExitReasons, ",") != "withdrawal,DNS,DSQ" {
		t.Errorf("ExitReasons = %v", rules.ExitReasons)
	}
}

func TestLoadRules_Errors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{name: "missing file", path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "none.yaml") }},
		{name: "bad yaml", path: func(t *testing.T) string { return writeRules(t, "rank_corrections: [\n") }},
		{name: "incomplete correction", path: func(t *testing.T) string {
			return writeRules(t, "rank_corrections:\n  - name: x\n    to_rank: \"2\"\n")
		}},
		{name: "correction without to_rank", path: func(t *testing.T) string {
			return writeRules(t, "rank_corrections:\n  - name: x\n    stage: \"13\"\n    bib: \"23\"\n    from_rank: \"108\"\n")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadRules(tt.path(t))
			if err == nil {
				t.Fatal("LoadRules() expected error")
			}
			if got := core.MapError(err).Code; got != "CNV003" {
				t.Errorf("MapError code = %q, want CNV003 (%v)", got, err)
			}
		})
	}
}

func TestApplyRules(t *testing.T) {
	v := core.Variant{Name: "x", Rules: core.Rules{ExitReasons: []string{"DNS"}}}

	same, err := ApplyRules(v, "")
	if err != nil || len(same.Rules.ExitReasons) != 1 {
		t.Errorf("ApplyRules(empty) = %+v, %v", same.Rules, err)
	}

	replaced, err := ApplyRules(v, writeRules(t, "exit_reasons: [withdrawal]\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(replaced.Rules.ExitReasons) != 1 || replaced.Rules.ExitReasons[0] != "withdrawal" {
		t.Errorf("ExitReasons = %v", replaced.Rules.ExitReasons)
	}
	if len(v.Rules.ExitReasons) != 1 || v.Rules.ExitReasons[0] != "DNS" {
		t.Error("original variant modified")
	}
}
