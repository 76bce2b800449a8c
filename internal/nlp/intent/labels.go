// Package intent classifies normalized user text into one of a closed set of
// intent labels using a semantic stage backed by sentence embeddings and a
// lexical keyword stage as fallback.
package intent

// Label identifies one routable intent.
type Label string

const (
	Demand       Label = "demand"
	MOD          Label = "mod"
	IEX          Label = "iex"
	Banking      Label = "banking"
	Procurement  Label = "procurement"
	CostPerBlock Label = "cost_per_block"
	PlantInfo    Label = "plant_info"
	Static       Label = "static"
	None         Label = "none"
)

func (l Label) String() string { return string(l) }

// Stage records which classification stage produced a result.
type Stage string

const (
	StageSemantic Stage = "semantic"
	StageLexical  Stage = "lexical"
	StageNone     Stage = "none"
)

// Result is one classification outcome. Score is meaningful only for the
// semantic stage; the lexical stage reports -1.
type Result struct {
	Label Label
	Score float64
	Stage Stage
}
