package schema

import "testing"

func TestResultFieldSpecs_MatchPositions(t *testing.T) {
	if len(ResultFieldSpecs) != ResultColumnCount {
		t.Fatalf("len(ResultFieldSpecs) = %d, want %d", len(ResultFieldSpecs), ResultColumnCount)
	}
	checks := map[int]string{
		ColStage:             "stage",
		ColBib:               "bib",
		ColStartLocation:     "start_location",
		ColFinishCountryCode: "finish_country_code",
		ColStageType:         "type",
		ColTeamRegion:        "team_region",
	}
	for pos, name := range checks {
		if got := ResultFieldSpecs[pos].Name; got != name {
			t.Errorf("ResultFieldSpecs[%d].Name = %q, want %q", pos, got, name)
		}
	}
}

func TestExitFieldSpecs_MatchPositions(t *testing.T) {
	if len(ExitFieldSpecs) != ExitColumnCount {
		t.Fatalf("len(ExitFieldSpecs) = %d, want %d", len(ExitFieldSpecs), ExitColumnCount)
	}
	if ExitFieldSpecs[ColExitReason].Name != "reason" {
		t.Errorf("reason column at %d is %q", ColExitReason, ExitFieldSpecs[ColExitReason].Name)
	}
}

func TestHeaderMismatches(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		want   int
	}{
		{name: "exact", header: []string{"bib", "stage", "reason"}, want: 0},
		{name: "case insensitive", header: []string{"BIB", " Stage ", "Reason"}, want: 0},
		{name: "renamed column", header: []string{"bib", "etape", "reason"}, want: 1},
		{name: "short header", header: []string{"bib"}, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HeaderMismatches(tt.header, ExitFieldSpecs)
			if len(got) != tt.want {
				t.Errorf("HeaderMismatches() = %v, want %d mismatches", got, tt.want)
			}
		})
	}
}

func TestHeader(t *testing.T) {
	got := Header(ExitFieldSpecs)
	want := []string{"bib", "stage", "reason"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Header()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
