package scoring

import (
	"fmt"
	"log/slog"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// weightTolerance is the allowed drift of a weight set from 1.0.
const weightTolerance = 1e-6

// Range is a benchmark interval used for linear normalization.
type Range struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Degenerate reports whether the range cannot be interpolated.
func (r Range) Degenerate() bool { return r.Max <= r.Min }

// EmissionFactors are kg CO2e per unit of activity.
type EmissionFactors struct {
	Diesel      float64 `json:"diesel" yaml:"diesel"`           // per liter
	Petrol      float64 `json:"petrol" yaml:"petrol"`           // per liter
	NaturalGas  float64 `json:"naturalGas" yaml:"naturalGas"`   // per cubic meter
	DefaultGrid float64 `json:"defaultGrid" yaml:"defaultGrid"` // per kWh, global average
}

type EmissionBenchmarks struct {
	FossilFuel  Range `json:"fossilFuel" yaml:"fossilFuel"`
	Electricity Range `json:"electricity" yaml:"electricity"`
	Travel      Range `json:"travel" yaml:"travel"`
	Fugitive    Range `json:"fugitive" yaml:"fugitive"`
}

type WaterBenchmarks struct {
	Usage     Range `json:"usage" yaml:"usage"`
	Intensity Range `json:"intensity" yaml:"intensity"`
}

type WasteBenchmarks struct {
	Generated Range `json:"generated" yaml:"generated"`
}

type SocialBenchmarks struct {
	EmployeeTurnover    Range `json:"employeeTurnover" yaml:"employeeTurnover"`
	InjuryRate          Range `json:"injuryRate" yaml:"injuryRate"`
	GenderDiversity     Range `json:"genderDiversity" yaml:"genderDiversity"`
	TrainingHours       Range `json:"trainingHours" yaml:"trainingHours"`
	CommunityInvestment Range `json:"communityInvestment" yaml:"communityInvestment"`
}

type GovernanceBenchmarks struct {
	BoardIndependence Range `json:"boardIndependence" yaml:"boardIndependence"`
	ExecutivePayRatio Range `json:"executivePayRatio" yaml:"executivePayRatio"`
	ShareholderRights Range `json:"shareholderRights" yaml:"shareholderRights"`
}

// Benchmarks holds every normalization range used by the engine.
type Benchmarks struct {
	Emissions  EmissionBenchmarks   `json:"emissions" yaml:"emissions"`
	Water      WaterBenchmarks      `json:"water" yaml:"water"`
	Waste      WasteBenchmarks      `json:"waste" yaml:"waste"`
	Social     SocialBenchmarks     `json:"social" yaml:"social"`
	Governance GovernanceBenchmarks `json:"governance" yaml:"governance"`
}

type EnvironmentalWeights struct {
	EnergyAndFuel float64 `json:"energyAndFuel" yaml:"energyAndFuel"`
	Travel        float64 `json:"travel" yaml:"travel"`
	Water         float64 `json:"water" yaml:"water"`
	Waste         float64 `json:"waste" yaml:"waste"`
	Fugitive      float64 `json:"fugitive" yaml:"fugitive"`
}

func (w EnvironmentalWeights) sum() float64 {
	return w.EnergyAndFuel + w.Travel + w.Water + w.Waste + w.Fugitive
}

type SocialWeights struct {
	InjuryRate          float64 `json:"injuryRate" yaml:"injuryRate"`
	EmployeeTurnover    float64 `json:"employeeTurnover" yaml:"employeeTurnover"`
	GenderDiversity     float64 `json:"genderDiversity" yaml:"genderDiversity"`
	TrainingHours       float64 `json:"trainingHours" yaml:"trainingHours"`
	CommunityInvestment float64 `json:"communityInvestment" yaml:"communityInvestment"`
}

func (w SocialWeights) sum() float64 {
	return w.InjuryRate + w.EmployeeTurnover + w.GenderDiversity + w.TrainingHours + w.CommunityInvestment
}

type GovernanceWeights struct {
	BoardIndependence float64 `json:"boardIndependence" yaml:"boardIndependence"`
	AuditCommittee    float64 `json:"auditCommittee" yaml:"auditCommittee"`
	AntiCorruption    float64 `json:"antiCorruption" yaml:"antiCorruption"`
	ExecutivePayRatio float64 `json:"executivePayRatio" yaml:"executivePayRatio"`
	ShareholderRights float64 `json:"shareholderRights" yaml:"shareholderRights"`
}

func (w GovernanceWeights) sum() float64 {
	return w.BoardIndependence + w.AuditCommittee + w.AntiCorruption + w.ExecutivePayRatio + w.ShareholderRights
}

type OverallWeights struct {
	Environmental float64 `json:"environmental" yaml:"environmental"`
	Social        float64 `json:"social" yaml:"social"`
	Governance    float64 `json:"governance" yaml:"governance"`
}

func (w OverallWeights) sum() float64 {
	return w.Environmental + w.Social + w.Governance
}

// Weights are the four independent weight sets, each summing to 1.0.
type Weights struct {
	Environmental EnvironmentalWeights `json:"environmental" yaml:"environmental"`
	Social        SocialWeights        `json:"social" yaml:"social"`
	Governance    GovernanceWeights    `json:"governance" yaml:"governance"`
	Overall       OverallWeights       `json:"overall" yaml:"overall"`
}

// Config is the full set of constant tables the engine closes over.
type Config struct {
	EmissionFactors EmissionFactors `json:"emissionFactors" yaml:"emissionFactors"`
	Benchmarks      Benchmarks      `json:"benchmarks" yaml:"benchmarks"`
	Weights         Weights         `json:"weights" yaml:"weights"`

	// ZeroGridFactorUsesDefault treats a grid emission factor of 0 as
	// "not supplied" and substitutes EmissionFactors.DefaultGrid.
	ZeroGridFactorUsesDefault bool `json:"zeroGridFactorUsesDefault" yaml:"zeroGridFactorUsesDefault"`
}

// DefaultConfig returns the built-in illustrative tables.
func DefaultConfig() Config {
	return Config{
		EmissionFactors: EmissionFactors{
			Diesel:      2.68,
			Petrol:      2.31,
			NaturalGas:  1.88,
			DefaultGrid: 0.5,
		},
		Benchmarks: Benchmarks{
			Emissions: EmissionBenchmarks{
				FossilFuel:  Range{Min: 0, Max: 50000},
				Electricity: Range{Min: 0, Max: 100000},
				Travel:      Range{Min: 0, Max: 25000},
				Fugitive:    Range{Min: 0, Max: 10000},
			},
			Water: WaterBenchmarks{
				Usage:     Range{Min: 0, Max: 10000},
				Intensity: Range{Min: 0, Max: 500},
			},
			Waste: WasteBenchmarks{
				Generated: Range{Min: 0, Max: 100000},
			},
			Social: SocialBenchmarks{
				EmployeeTurnover:    Range{Min: 0, Max: 50},
				InjuryRate:          Range{Min: 0, Max: 20},
				GenderDiversity:     Range{Min: 0, Max: 100},
				TrainingHours:       Range{Min: 0, Max: 80},
				CommunityInvestment: Range{Min: 0, Max: 5},
			},
			Governance: GovernanceBenchmarks{
				BoardIndependence: Range{Min: 0, Max: 100},
				ExecutivePayRatio: Range{Min: 1, Max: 500},
				ShareholderRights: Range{Min: 0, Max: 10},
			},
		},
		Weights: Weights{
			Environmental: EnvironmentalWeights{
				EnergyAndFuel: 0.35,
				Travel:        0.20,
				Water:         0.15,
				Waste:         0.15,
				Fugitive:      0.15,
			},
			Social: SocialWeights{
				InjuryRate:          0.25,
				EmployeeTurnover:    0.20,
				GenderDiversity:     0.20,
				TrainingHours:       0.20,
				CommunityInvestment: 0.15,
			},
			Governance: GovernanceWeights{
				BoardIndependence: 0.25,
				AuditCommittee:    0.20,
				AntiCorruption:    0.20,
				ExecutivePayRatio: 0.20,
				ShareholderRights: 0.15,
			},
			Overall: OverallWeights{
				Environmental: 0.40,
				Social:        0.30,
				Governance:    0.30,
			},
		},
		ZeroGridFactorUsesDefault: true,
	}
}

// Validate checks emission factors and weight sums. Degenerate benchmark
// ranges are allowed; the engine scores them as neutral.
func (c Config) Validate() error {
	f := c.EmissionFactors
	for name, v := range map[string]float64{
		"diesel":      f.Diesel,
		"petrol":      f.Petrol,
		"naturalGas":  f.NaturalGas,
		"defaultGrid": f.DefaultGrid,
	} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("emission factor %s must be a non-negative number, got %v", name, v)
		}
	}

	sets := []struct {
		name string
		sum  float64
	}{
		{"environmental", c.Weights.Environmental.sum()},
		{"social", c.Weights.Social.sum()},
		{"governance", c.Weights.Governance.sum()},
		{"overall", c.Weights.Overall.sum()},
	}
	for _, s := range sets {
		if math.Abs(s.sum-1) > weightTolerance {
			return fmt.Errorf("%s weights must sum to 1.0, got %.6f", s.name, s.sum)
		}
	}
	return nil
}

// DegenerateRanges lists benchmark names whose max <= min.
func (c Config) DegenerateRanges() []string {
	b := c.Benchmarks
	ranges := []struct {
		name string
		r    Range
	}{
		{"emissions.fossilFuel", b.Emissions.FossilFuel},
		{"emissions.electricity", b.Emissions.Electricity},
		{"emissions.travel", b.Emissions.Travel},
		{"emissions.fugitive", b.Emissions.Fugitive},
		{"water.usage", b.Water.Usage},
		{"water.intensity", b.Water.Intensity},
		{"waste.generated", b.Waste.Generated},
		{"social.employeeTurnover", b.Social.EmployeeTurnover},
		{"social.injuryRate", b.Social.InjuryRate},
		{"social.genderDiversity", b.Social.GenderDiversity},
		{"social.trainingHours", b.Social.TrainingHours},
		{"social.communityInvestment", b.Social.CommunityInvestment},
		{"governance.boardIndependence", b.Governance.BoardIndependence},
		{"governance.executivePayRatio", b.Governance.ExecutivePayRatio},
		{"governance.shareholderRights", b.Governance.ShareholderRights},
	}
	var out []string
	for _, r := range ranges {
		if r.r.Degenerate() {
			out = append(out, r.name)
		}
	}
	return out
}

// LoadConfig reads a YAML table file layered over DefaultConfig. Keys absent
// from the file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read scoring config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse scoring config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid scoring config %q: %w", path, err)
	}

	if degenerate := cfg.DegenerateRanges(); len(degenerate) > 0 {
		slog.Warn("Scoring config has degenerate benchmark ranges, they will score as neutral",
			"path", path,
			"ranges", degenerate)
	}

	return cfg, nil
}
