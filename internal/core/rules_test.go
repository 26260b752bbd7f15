package core

import "testing"

func TestRules_CorrectRank(t *testing.T) {
	rules := Rules{RankCorrections: []RankCorrection{
		{Name: "fix", Stage: "13", Bib: "23", FromRank: "108", ToRank: "109"},
	}}

	tests := []struct {
		name             string
		stage, bib, rank string
		want             string
		fired            bool
	}{
		{name: "matching row", stage: "13", bib: "23", rank: "108", want: "109", fired: true},
		{name: "other rank", stage: "13", bib: "23", rank: "107", want: "107"},
		{name: "other bib", stage: "13", bib: "24", rank: "108", want: "108"},
		{name: "other stage", stage: "12", bib: "23", rank: "108", want: "108"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rule := rules.CorrectRank(tt.stage, tt.bib, tt.rank)
			if got != tt.want {
				t.Errorf("CorrectRank() = %q, want %q", got, tt.want)
			}
			if (rule != nil) != tt.fired {
				t.Errorf("CorrectRank() rule = %v, fired want %v", rule, tt.fired)
			}
			if rule != nil && rule.Name != "fix" {
				t.Errorf("rule.Name = %q", rule.Name)
			}
		})
	}
}

func TestRules_ExcludesExit(t *testing.T) {
	rules := Rules{ExitExclusions: []ExitExclusion{{Name: "skip", Bibs: []string{"64", "154"}}}}

	for _, bib := range []string{"64", "154"} {
		if name, ok := rules.ExcludesExit(bib); !ok || name != "skip" {
			t.Errorf("ExcludesExit(%q) = %q, %v", bib, name, ok)
		}
	}
	for _, bib := range []string{"65", "", "1540"} {
		if _, ok := rules.ExcludesExit(bib); ok {
			t.Errorf("ExcludesExit(%q) should be false", bib)
		}
	}
}

func TestRules_Empty(t *testing.T) {
	var rules Rules
	if got, rule := rules.CorrectRank("13", "23", "108"); got != "108" || rule != nil {
		t.Errorf("empty rules corrected rank: %q %v", got, rule)
	}
	if _, ok := rules.ExcludesExit("64"); ok {
		t.Error("empty rules excluded an exit")
	}
}
