package schema

// Column positions in the stage results file.
const (
	ColDay = iota
	ColStage
	ColBib
	ColRank
	ColTime
	ColBonus
	ColPenalty
	ColStartLocation
	ColStartCountryCode
	ColStartCountryName
	ColStartRegion
	ColFinishLocation
	ColFinishCountryCode
	ColFinishCountryName
	ColFinishRegion
	ColLength
	ColStageType
	ColRider
	ColTeam
	ColDOB
	ColRiderCountryCode
	ColRiderCountryName
	ColRiderRegion
	ColTeamCountryCode
	ColTeamCountryName
	ColTeamRegion

	ResultColumnCount
)

// ResultFieldSpecs defines the expected columns of the stage results file.
var ResultFieldSpecs = []FieldSpec{
	{Name: "day", Type: FieldText},
	{Name: "stage", Type: FieldNumeric, Key: true},
	{Name: "bib", Type: FieldNumeric, Key: true},
	{Name: "rank", Type: FieldNumeric},
	{Name: "time", Type: FieldNumeric},
	{Name: "bonus", Type: FieldNumeric},
	{Name: "penalty", Type: FieldNumeric},
	{Name: "start_location", Type: FieldText, Key: true},
	{Name: "start_country_code", Type: FieldText, Key: true},
	{Name: "start_country_name", Type: FieldText},
	{Name: "start_region", Type: FieldText},
	{Name: "finish_location", Type: FieldText, Key: true},
	{Name: "finish_country_code", Type: FieldText, Key: true},
	{Name: "finish_country_name", Type: FieldText},
	{Name: "finish_region", Type: FieldText},
	{Name: "length", Type: FieldNumeric},
	{Name: "type", Type: FieldText},
	{Name: "rider", Type: FieldText},
	{Name: "team", Type: FieldText, Key: true},
	{Name: "dob", Type: FieldDate},
	{Name: "rider_country_code", Type: FieldText},
	{Name: "rider_country_name", Type: FieldText},
	{Name: "rider_region", Type: FieldText},
	{Name: "team_country_code", Type: FieldText, Key: true},
	{Name: "team_country_name", Type: FieldText},
	{Name: "team_region", Type: FieldText},
}
