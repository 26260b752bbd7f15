package core

// candidate is one entity occurrence extracted from a row.
type candidate struct {
	key string
	rec Record

	// optional candidates are skipped when the key is empty, whatever the
	// variant's SkipEmptyKeys setting.
	optional bool
}

// extractor pulls the candidates of one kind out of a result row.
type extractor func(row ResultRow) []candidate

// dedupExtractors cover the kinds emitted once per unique key.
var dedupExtractors = map[Kind]extractor{
	KindCountry:   countries,
	KindStageType: stageTypes,
	KindLocation:  locations,
	KindTeam:      teams,
	KindRider:     riders,
	KindStage:     stages,
}

// countries yields start, finish, rider and team countries in that order.
func countries(row ResultRow) []candidate {
	return []candidate{
		countryCandidate(row.StartCountry, false),
		countryCandidate(row.FinishCountry, false),
		countryCandidate(row.RiderCountry, true),
		countryCandidate(row.TeamCountry, false),
	}
}

func countryCandidate(c CountryRef, optional bool) candidate {
	return candidate{
		key:      c.Code,
		rec:      Record{AttrIOC: c.Code, AttrName: c.Name, AttrRegion: c.Region},
		optional: optional,
	}
}

func stageTypes(row ResultRow) []candidate {
	return []candidate{{key: row.StageType, rec: Record{AttrType: row.StageType}}}
}

func locations(row ResultRow) []candidate {
	return []candidate{
		{key: row.StartLocation, rec: Record{AttrName: row.StartLocation, AttrCountry: row.StartCountry.Code}},
		{key: row.FinishLocation, rec: Record{AttrName: row.FinishLocation, AttrCountry: row.FinishCountry.Code}},
	}
}

func teams(row ResultRow) []candidate {
	return []candidate{{key: row.Team, rec: Record{AttrName: row.Team, AttrCountry: row.TeamCountry.Code}}}
}

func riders(row ResultRow) []candidate {
	return []candidate{{key: row.Bib, rec: Record{
		AttrBib:     row.Bib,
		AttrName:    row.Rider,
		AttrDOB:     row.DOB,
		AttrTeam:    row.Team,
		AttrCountry: row.RiderCountry.Code,
	}}}
}

func stages(row ResultRow) []candidate {
	return []candidate{{key: row.Stage, rec: Record{
		AttrStage:  row.Stage,
		AttrDay:    row.Day,
		AttrLength: row.Length,
		AttrStart:  row.StartLocation,
		AttrFinish: row.FinishLocation,
		AttrType:   row.StageType,
	}}}
}

// resultRecord builds the result for a row after rank corrections.
func resultRecord(row ResultRow, rules Rules) (Record, *RankCorrection) {
	rank, fired := rules.CorrectRank(row.Stage, row.Bib, row.Rank)
	return Record{
		AttrStage:   row.Stage,
		AttrBib:     row.Bib,
		AttrRank:    rank,
		AttrTime:    row.Time,
		AttrBonus:   row.Bonus,
		AttrPenalty: row.Penalty,
	}, fired
}

func exitRecord(row ExitRow) Record {
	return Record{AttrBib: row.Bib, AttrStage: row.Stage, AttrReason: row.Reason}
}
