package variants

import "github.com/JonMunkholm/racesql/internal/core"

// DefaultRules are the corrections applied by the full variant.
//
// Bib 23 is recorded at rank 108 of stage 13 in the source data, a rank that
// is already taken; it finished 109th. Bibs 64 and 154 have exit records the
// target schema must not receive.
func DefaultRules() core.Rules {
	return core.Rules{
		RankCorrections: []core.RankCorrection{
			{Name: "stage13-bib23-rank-collision", Stage: "13", Bib: "23", FromRank: "108", ToRank: "109"},
		},
		ExitExclusions: []core.ExitExclusion{
			{Name: "excluded-exit-bibs", Bibs: []string{"64", "154"}},
		},
		ExitReasons: []string{"withdrawal", "DNS"},
	}
}

// Full emits every stage into the singular-named schema, including stage
// types, exit reasons and exits. Empty integers become NULL and empty keys
// are skipped.
func Full() core.Variant {
	return core.Variant{
		Name:          FullName,
		Description:   "All stages with exits, singular table names",
		NullEmptyInts: true,
		SkipEmptyKeys: true,
		Output:        "P02-data.sql",
		Rules:         DefaultRules(),
		Sections: []core.SectionSpec{
			{
				Kind:   core.KindCountry,
				Header: "Insert Countries",
				Table:  core.Table{Name: "country", Columns: countryColumns, Key: []string{"ioc"}},
			},
			{
				Kind:   core.KindStageType,
				Header: "Insert Stage Types",
				Table: core.Table{
					Name:    "stage_type",
					Columns: []core.Column{{Name: "type", Attr: core.AttrType}},
					Key:     []string{"type"},
				},
			},
			{
				Kind:   core.KindLocation,
				Header: "Insert Locations",
				Table:  core.Table{Name: "location", Columns: namedCountryColumns, Key: []string{"name"}},
			},
			{
				Kind:   core.KindTeam,
				Header: "Insert Teams",
				Table:  core.Table{Name: "team", Columns: namedCountryColumns, Key: []string{"name"}},
			},
			{
				Kind:   core.KindRider,
				Header: "Insert Riders",
				Table: core.Table{
					Name: "rider",
					Columns: []core.Column{
						{Name: "bib_number", Attr: core.AttrBib, Kind: core.ValueInt},
						{Name: "name", Attr: core.AttrName},
						{Name: "dob", Attr: core.AttrDOB},
						{Name: "team", Attr: core.AttrTeam},
						{Name: "country", Attr: core.AttrCountry},
					},
					Key: []string{"bib_number"},
				},
			},
			{
				Kind:   core.KindStage,
				Header: "Insert Stages",
				Table: core.Table{
					Name: "stage",
					Columns: []core.Column{
						{Name: "stage_number", Attr: core.AttrStage, Kind: core.ValueInt},
						{Name: "day", Attr: core.AttrDay},
						{Name: "length", Attr: core.AttrLength, Kind: core.ValueInt},
						{Name: "start_location", Attr: core.AttrStart},
						{Name: "finish_location", Attr: core.AttrFinish},
						{Name: "type", Attr: core.AttrType},
					},
					Key: []string{"stage_number"},
				},
			},
			{
				Kind:   core.KindResult,
				Header: "Insert Results",
				Table: core.Table{
					Name: "result",
					Columns: []core.Column{
						{Name: "stage_number", Attr: core.AttrStage, Kind: core.ValueInt},
						{Name: "bib_number", Attr: core.AttrBib, Kind: core.ValueInt},
						{Name: "rank", Attr: core.AttrRank, Kind: core.ValueInt},
						{Name: "total_time", Attr: core.AttrTime, Kind: core.ValueInt},
						{Name: "bonus", Attr: core.AttrBonus, Kind: core.ValueInt},
						{Name: "penalty", Attr: core.AttrPenalty, Kind: core.ValueInt},
					},
					Key: []string{"stage_number", "bib_number"},
				},
			},
			{
				Kind:   core.KindExitReason,
				Header: "Insert Exit Reasons",
				Table: core.Table{
					Name:    "exit_reason",
					Columns: []core.Column{{Name: "reason", Attr: core.AttrReason}},
					Key:     []string{"reason"},
				},
			},
			{
				Kind:   core.KindExit,
				Header: "Insert Exits",
				Table: core.Table{
					Name: "exits",
					Columns: []core.Column{
						{Name: "bib_number", Attr: core.AttrBib, Kind: core.ValueInt},
						{Name: "stage_number", Attr: core.AttrStage, Kind: core.ValueInt},
						{Name: "reason", Attr: core.AttrReason},
					},
				},
			},
		},
	}
}
