// Package scoring turns raw sustainability measurements into normalized
// environmental, social and governance scores and a weighted composite.
//
// The engine is pure: it reads only its immutable Config and the Input it
// is given, performs no I/O and holds no mutable state, so one Engine can be
// shared by any number of goroutines.
package scoring

// Engine computes scores against a fixed Config.
type Engine struct {
	cfg Config
}

// New creates an engine closed over cfg. The config is copied; later
// changes to the caller's value do not affect the engine.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// NewDefault creates an engine with DefaultConfig.
func NewDefault() *Engine {
	return New(DefaultConfig())
}

// Config returns a copy of the tables the engine scores against.
func (e *Engine) Config() Config {
	return e.cfg
}

// ComputeScores scores one input. It never fails: numeric edge cases are
// forced into [0,100] rather than reported.
func (e *Engine) ComputeScores(in Input) Result {
	environmental, calculations := e.environmental(in)
	social := e.social(in.Social)
	governance := e.governance(in.Governance)

	w := e.cfg.Weights.Overall
	overall := ClampScore(
		environmental*w.Environmental +
			social*w.Social +
			governance*w.Governance,
	)

	return Result{
		Scores: Scores{
			EnvironmentalScore: round2(environmental),
			SocialScore:        round2(social),
			GovernanceScore:    round2(governance),
			OverallESGScore:    round2(overall),
		},
		EnvironmentalCalculations: calculations,
	}
}
