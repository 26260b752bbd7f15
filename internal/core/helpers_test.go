package core

import (
	"strings"
	"testing"
)

// scenarioFields is a complete results row: stage 1, bib 10, one French rider.
func scenarioFields() []string {
	return []string{
		"1", "1", "10", "5", "3600", "0", "0",
		"LOC_A", "FR", "France", "Europe",
		"LOC_B", "FR", "France", "Europe",
		"180", "flat", "Rider A", "Team X", "1990-01-01",
		"FR", "France", "Europe",
		"FR", "France", "Europe",
	}
}

// resultRow builds a bound row from scenarioFields with overrides by column.
func resultRow(t *testing.T, line int, overrides map[int]string) ResultRow {
	t.Helper()
	f := scenarioFields()
	for pos, v := range overrides {
		f[pos] = v
	}
	rows, err := ParseResultRows([]RawRow{{Line: line, Fields: f}})
	if err != nil {
		t.Fatalf("ParseResultRows: %v", err)
	}
	return rows[0]
}

// csvLine joins fields for use in CSV fixtures. Fields must not need quoting.
func csvLine(fields []string) string {
	return strings.Join(fields, ",")
}

// testVariant exercises every section kind with short table names.
func testVariant() Variant {
	str := func(name, attr string) Column { return Column{Name: name, Attr: attr} }
	num := func(name, attr string) Column { return Column{Name: name, Attr: attr, Kind: ValueInt} }

	return Variant{
		Name:          "test",
		NullEmptyInts: true,
		SkipEmptyKeys: true,
		Rules: Rules{
			RankCorrections: []RankCorrection{{Name: "fix", Stage: "13", Bib: "23", FromRank: "108", ToRank: "109"}},
			ExitExclusions:  []ExitExclusion{{Name: "skip", Bibs: []string{"64", "154"}}},
			ExitReasons:     []string{"withdrawal", "DNS"},
		},
		Sections: []SectionSpec{
			{Kind: KindCountry, Header: "Countries", Table: Table{Name: "c", Columns: []Column{str("ioc", AttrIOC), str("name", AttrName), str("region", AttrRegion)}}},
			{Kind: KindStageType, Header: "Types", Table: Table{Name: "st", Columns: []Column{str("type", AttrType)}}},
			{Kind: KindLocation, Header: "Locations", Table: Table{Name: "l", Columns: []Column{str("name", AttrName), str("country", AttrCountry)}}},
			{Kind: KindTeam, Header: "Teams", Table: Table{Name: "t", Columns: []Column{str("name", AttrName), str("country", AttrCountry)}}},
			{Kind: KindRider, Header: "Riders", Table: Table{Name: "r", Columns: []Column{num("bib", AttrBib), str("name", AttrName), str("country", AttrCountry)}}},
			{Kind: KindStage, Header: "Stages", Table: Table{Name: "s", Columns: []Column{num("stage", AttrStage), num("length", AttrLength)}}},
			{Kind: KindResult, Header: "Results", Table: Table{Name: "res", Columns: []Column{num("stage", AttrStage), num("bib", AttrBib), num("rank", AttrRank)}}},
			{Kind: KindExitReason, Header: "Reasons", Table: Table{Name: "er", Columns: []Column{str("reason", AttrReason)}}},
			{Kind: KindExit, Header: "Exits", Table: Table{Name: "ex", Columns: []Column{num("bib", AttrBib), num("stage", AttrStage), str("reason", AttrReason)}}},
		},
	}
}
