package schema

// Column positions in the exits file.
const (
	ColExitBib = iota
	ColExitStage
	ColExitReason

	ExitColumnCount
)

// ExitFieldSpecs defines the expected columns of the exits file.
var ExitFieldSpecs = []FieldSpec{
	{Name: "bib", Type: FieldNumeric, Key: true},
	{Name: "stage", Type: FieldNumeric, Key: true},
	{Name: "reason", Type: FieldText},
}
