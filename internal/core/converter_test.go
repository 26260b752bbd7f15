package core

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/JonMunkholm/racesql/internal/schema"
)

func statementsOf(res *Result, kind Kind) []string {
	for _, sec := range res.Script.Sections {
		if sec.Kind == kind {
			return sec.Statements
		}
	}
	return nil
}

func TestConvert_Scenario(t *testing.T) {
	in := Input{Results: []ResultRow{resultRow(t, 2, nil)}}

	res, err := Convert(context.Background(), testVariant(), in, Options{})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	want := map[Kind][]string{
		KindCountry:   {"INSERT INTO c (ioc, name, region) VALUES ('FR', 'France', 'Europe');"},
		KindStageType: {"INSERT INTO st (type) VALUES ('flat');"},
		KindLocation: {
			"INSERT INTO l (name, country) VALUES ('LOC_A', 'FR');",
			"INSERT INTO l (name, country) VALUES ('LOC_B', 'FR');",
		},
		KindTeam:       {"INSERT INTO t (name, country) VALUES ('Team X', 'FR');"},
		KindRider:      {"INSERT INTO r (bib, name, country) VALUES (10, 'Rider A', 'FR');"},
		KindStage:      {"INSERT INTO s (stage, length) VALUES (1, 180);"},
		KindResult:     {"INSERT INTO res (stage, bib, rank) VALUES (1, 10, 5);"},
		KindExitReason: {"INSERT INTO er (reason) VALUES ('withdrawal');", "INSERT INTO er (reason) VALUES ('DNS');"},
		KindExit:       nil,
	}
	for kind, stmts := range want {
		got := statementsOf(res, kind)
		if strings.Join(got, "\n") != strings.Join(stmts, "\n") {
			t.Errorf("%s statements =\n%v\nwant\n%v", kind, got, stmts)
		}
	}
	if res.RunID == "" {
		t.Error("RunID not set")
	}
}

func TestConvert_CountryAcrossRoles(t *testing.T) {
	rows := []ResultRow{
		resultRow(t, 2, map[int]string{
			schema.ColStartCountryCode: "FRA", schema.ColStartRegion: "Europe",
			schema.ColFinishCountryCode: "BEL", schema.ColFinishCountryName: "Belgium",
			schema.ColRiderCountryCode: "FRA", schema.ColRiderRegion: "Western Europe",
			schema.ColTeamCountryCode: "BEL",
		}),
		resultRow(t, 3, map[int]string{
			schema.ColBib:              "11",
			schema.ColStartCountryCode: "BEL", schema.ColFinishCountryCode: "FRA",
			schema.ColRiderCountryCode: "", schema.ColTeamCountryCode: "FRA",
		}),
	}

	res, err := Convert(context.Background(), testVariant(), Input{Results: rows}, Options{ConflictPolicy: ConflictWarn})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	got := statementsOf(res, KindCountry)
	want := []string{
		"INSERT INTO c (ioc, name, region) VALUES ('FRA', 'France', 'Europe');",
		"INSERT INTO c (ioc, name, region) VALUES ('BEL', 'Belgium', 'Europe');",
	}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("countries =\n%v\nwant\n%v", got, want)
	}

	var regionConflict bool
	for _, c := range res.Conflicts {
		if c.Kind == KindCountry && c.Key == "FRA" && c.Field == AttrRegion && c.Later == "Western Europe" {
			regionConflict = true
		}
	}
	if !regionConflict {
		t.Errorf("expected FRA region conflict, got %+v", res.Conflicts)
	}
}

func TestConvert_OneRiderPerBib(t *testing.T) {
	var rows []ResultRow
	for i, stage := range []string{"1", "2", "3"} {
		rows = append(rows, resultRow(t, i+2, map[int]string{schema.ColStage: stage}))
		rows = append(rows, resultRow(t, i+10, map[int]string{schema.ColStage: stage, schema.ColBib: "11"}))
	}

	res, err := Convert(context.Background(), testVariant(), Input{Results: rows}, Options{})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if n := len(statementsOf(res, KindRider)); n != 2 {
		t.Errorf("rider statements = %d, want 2", n)
	}
	if n := len(statementsOf(res, KindStage)); n != 3 {
		t.Errorf("stage statements = %d, want 3", n)
	}
	if n := len(statementsOf(res, KindResult)); n != 6 {
		t.Errorf("result statements = %d, want 6 (results are never deduplicated)", n)
	}
}

func TestConvert_RankCorrection(t *testing.T) {
	rows := []ResultRow{
		resultRow(t, 2, map[int]string{schema.ColStage: "13", schema.ColBib: "23", schema.ColRank: "108"}),
		resultRow(t, 3, map[int]string{schema.ColStage: "13", schema.ColBib: "24", schema.ColRank: "108"}),
		resultRow(t, 4, map[int]string{schema.ColStage: "12", schema.ColBib: "23", schema.ColRank: "108"}),
	}

	res, err := Convert(context.Background(), testVariant(), Input{Results: rows}, Options{})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	want := []string{
		"INSERT INTO res (stage, bib, rank) VALUES (13, 23, 109);",
		"INSERT INTO res (stage, bib, rank) VALUES (13, 24, 108);",
		"INSERT INTO res (stage, bib, rank) VALUES (12, 23, 108);",
	}
	if got := statementsOf(res, KindResult); strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("results =\n%v\nwant\n%v", got, want)
	}
	if len(res.Corrections) != 1 || res.Corrections[0] != (AppliedCorrection{Rule: "fix", Line: 2, From: "108", To: "109"}) {
		t.Errorf("Corrections = %+v", res.Corrections)
	}
}

func TestConvert_ExitExclusions(t *testing.T) {
	in := Input{
		Results: []ResultRow{resultRow(t, 2, nil)},
		Exits: []ExitRow{
			{Line: 2, Bib: "64", Stage: "3", Reason: "DNS"},
			{Line: 3, Bib: "12", Stage: "4", Reason: "withdrawal"},
			{Line: 4, Bib: "154", Stage: "9", Reason: "withdrawal"},
			{Line: 5, Bib: "7", Stage: "", Reason: ""},
		},
	}

	res, err := Convert(context.Background(), testVariant(), in, Options{})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	want := []string{
		"INSERT INTO ex (bib, stage, reason) VALUES (12, 4, 'withdrawal');",
		"INSERT INTO ex (bib, stage, reason) VALUES (7, NULL, NULL);",
	}
	if got := statementsOf(res, KindExit); strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("exits =\n%v\nwant\n%v", got, want)
	}
	if len(res.Excluded) != 2 || res.Excluded[0].Bib != "64" || res.Excluded[1].Bib != "154" {
		t.Errorf("Excluded = %+v", res.Excluded)
	}
}

func TestConvert_EmptyKeys(t *testing.T) {
	row := resultRow(t, 2, map[int]string{
		schema.ColStartLocation:    "",
		schema.ColStartCountryCode: "",
		schema.ColRiderCountryCode: "",
		schema.ColTeam:             "",
	})

	v := testVariant()
	res, err := Convert(context.Background(), v, Input{Results: []ResultRow{row}}, Options{})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if n := len(statementsOf(res, KindLocation)); n != 1 {
		t.Errorf("skip-empty locations = %d, want 1", n)
	}
	if n := len(statementsOf(res, KindTeam)); n != 0 {
		t.Errorf("skip-empty teams = %d, want 0", n)
	}

	v.SkipEmptyKeys = false
	res, err = Convert(context.Background(), v, Input{Results: []ResultRow{row}}, Options{})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if n := len(statementsOf(res, KindLocation)); n != 2 {
		t.Errorf("keep-empty locations = %d, want 2", n)
	}
	countries := statementsOf(res, KindCountry)
	if len(countries) != 2 {
		t.Fatalf("keep-empty countries = %v, want empty start code and FR", countries)
	}
	if countries[0] != "INSERT INTO c (ioc, name, region) VALUES (NULL, 'France', 'Europe');" {
		t.Errorf("countries[0] = %s", countries[0])
	}
}

func TestConvert_StageFilter(t *testing.T) {
	rows := []ResultRow{
		resultRow(t, 2, map[int]string{schema.ColStage: "2", schema.ColTeam: "Team Y"}),
		resultRow(t, 3, nil),
	}

	v := testVariant()
	v.StageFilter = "1"
	res, err := Convert(context.Background(), v, Input{Results: rows}, Options{})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if got := statementsOf(res, KindTeam); len(got) != 1 || !strings.Contains(got[0], "Team X") {
		t.Errorf("teams = %v, want Team X only", got)
	}
	if n := len(statementsOf(res, KindResult)); n != 1 {
		t.Errorf("results = %d, want 1", n)
	}
}

func TestConvert_NullEmptyIntsOverride(t *testing.T) {
	row := resultRow(t, 2, map[int]string{schema.ColLength: ""})
	in := Input{Results: []ResultRow{row}}

	res, _ := Convert(context.Background(), testVariant(), in, Options{})
	if got := statementsOf(res, KindStage)[0]; got != "INSERT INTO s (stage, length) VALUES (1, NULL);" {
		t.Errorf("variant default = %s", got)
	}

	off := false
	res, _ = Convert(context.Background(), testVariant(), in, Options{NullEmptyInts: &off})
	if got := statementsOf(res, KindStage)[0]; got != "INSERT INTO s (stage, length) VALUES (1, );" {
		t.Errorf("override = %s", got)
	}
}

func TestConvert_ConflictErrorPolicy(t *testing.T) {
	rows := []ResultRow{
		resultRow(t, 2, nil),
		resultRow(t, 3, map[int]string{schema.ColTeamCountryCode: "BE"}),
	}

	_, err := Convert(context.Background(), testVariant(), Input{Results: rows}, Options{ConflictPolicy: ConflictAbort})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("Convert() error = %v, want ErrConflict", err)
	}
	if !strings.Contains(err.Error(), "team section") {
		t.Errorf("error %q should name the section", err)
	}
}

func TestConvert_Deterministic(t *testing.T) {
	var rows []ResultRow
	for i := 0; i < 20; i++ {
		rows = append(rows, resultRow(t, i+2, map[int]string{
			schema.ColBib:   string(rune('a' + i)),
			schema.ColStage: []string{"1", "2"}[i%2],
			schema.ColTeam:  []string{"Team X", "Team Y", "Team Z"}[i%3],
		}))
	}
	in := Input{Results: rows}

	a, err := Convert(context.Background(), testVariant(), in, Options{})
	if err != nil {
		t.Fatal(err)
	}
	b, err := Convert(context.Background(), testVariant(), in, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if a.Script.String() != b.Script.String() || a.Script.Checksum() != b.Script.Checksum() {
		t.Error("two runs over the same input produced different scripts")
	}
	if a.RunID == b.RunID {
		t.Error("each run should get its own run ID")
	}
}

func TestConvert_UnsupportedKind(t *testing.T) {
	v := Variant{Name: "bad", Sections: []SectionSpec{{Kind: "podium", Header: "Podium"}}}
	_, err := Convert(context.Background(), v, Input{Results: []ResultRow{resultRow(t, 2, nil)}}, Options{})
	if err == nil || MapError(err).Code != "CNV002" {
		t.Errorf("Convert() error = %v, want CNV002", err)
	}
}
