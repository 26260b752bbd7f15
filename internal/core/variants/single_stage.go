package variants

import (
	"fmt"

	"github.com/JonMunkholm/racesql/internal/core"
)

// SingleStage emits one stage's data into the plural-named schema
// (countries, locations, teams, riders, stages, results).
//
// Integers are emitted verbatim, so an empty numeric field produces an empty
// literal. Empty keys are still emitted once, except for rider countries.
func SingleStage(stage string) core.Variant {
	return core.Variant{
		Name:          SingleStageName,
		Description:   fmt.Sprintf("Stage %s only, plural table names", stage),
		StageFilter:   stage,
		NullEmptyInts: false,
		SkipEmptyKeys: false,
		Output:        "P01-data.sql",
		Sections: []core.SectionSpec{
			{
				Kind:   core.KindCountry,
				Header: "Insert Countries",
				Table:  core.Table{Name: "countries", Columns: countryColumns, Key: []string{"ioc"}},
			},
			{
				Kind:   core.KindLocation,
				Header: "Insert Locations",
				Table:  core.Table{Name: "locations", Columns: namedCountryColumns, Key: []string{"name"}},
			},
			{
				Kind:   core.KindTeam,
				Header: "Insert Teams",
				Table:  core.Table{Name: "teams", Columns: namedCountryColumns, Key: []string{"name"}},
			},
			{
				Kind:   core.KindRider,
				Header: "Insert Riders",
				Table: core.Table{
					Name: "riders",
					Columns: []core.Column{
						{Name: "bib_number", Attr: core.AttrBib, Kind: core.ValueInt},
						{Name: "team", Attr: core.AttrTeam},
						{Name: "name", Attr: core.AttrName},
						{Name: "dob", Attr: core.AttrDOB},
						{Name: "country", Attr: core.AttrCountry},
					},
					Key: []string{"bib_number"},
				},
			},
			{
				Kind:   core.KindStage,
				Header: "Insert Stage " + stage,
				Table: core.Table{
					Name: "stages",
					Columns: []core.Column{
						{Name: "stage_number", Attr: core.AttrStage, Kind: core.ValueInt},
						{Name: "start_location", Attr: core.AttrStart},
						{Name: "finish_location", Attr: core.AttrFinish},
						{Name: "type", Attr: core.AttrType},
						{Name: "length", Attr: core.AttrLength, Kind: core.ValueInt},
					},
					Key: []string{"stage_number"},
				},
			},
			{
				Kind:   core.KindResult,
				Header: "Insert Results for Stage " + stage,
				Table: core.Table{
					Name: "results",
					Columns: []core.Column{
						{Name: "stage_number", Attr: core.AttrStage, Kind: core.ValueInt},
						{Name: "bib_number", Attr: core.AttrBib, Kind: core.ValueInt},
						{Name: "time_taken", Attr: core.AttrTime, Kind: core.ValueInt},
						{Name: "bonus", Attr: core.AttrBonus, Kind: core.ValueInt},
						{Name: "penalty", Attr: core.AttrPenalty, Kind: core.ValueInt},
						{Name: "rank", Attr: core.AttrRank, Kind: core.ValueInt},
					},
					Key: []string{"stage_number", "bib_number"},
				},
			},
		},
	}
}
