package scoring

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// midpointInput supplies social and governance values at the centre of their
// default benchmark ranges so each normalized sub-score is exactly 50.
func midpointInput() Input {
	return Input{
		Social: Social{
			EmployeeTurnoverPercent:    25,
			InjuryRate:                 10,
			GenderDiversityPercent:     50,
			TrainingHoursPerEmployee:   40,
			CommunityInvestmentPercent: 2.5,
		},
		Governance: Governance{
			BoardIndependencePercent: 50,
			ExecutivePayRatio:        250.5,
			ShareholderRightsScore:   5,
		},
	}
}

func TestComputeScores_DieselScenario(t *testing.T) {
	engine := NewDefault()

	in := midpointInput()
	in.FossilFuel.Diesel = 100
	in.Electricity.GridEmissionFactor = 0.5

	result := engine.ComputeScores(in)

	calc := result.EnvironmentalCalculations
	assert.InDelta(t, 268.0, calc.FossilFuelEmissions, 1e-9)
	assert.Equal(t, 0.0, calc.ElectricityEmissions)
	assert.Equal(t, 0.0, calc.FugitiveEmissions)
	assert.Equal(t, 0.0, calc.TravelEmissions)
	assert.InDelta(t, 268.0, calc.TotalEmissions, 1e-9)
	assert.InDelta(t, 268.0, calc.NetEmissions, 1e-9)
	assert.Equal(t, 100.0, calc.WaterImpact)
	assert.InDelta(t, 60.0, calc.WasteImpact, 1e-9)

	assert.Equal(t, 93.94, result.EnvironmentalScore)
	assert.Equal(t, 50.0, result.SocialScore)
	assert.Equal(t, 30.0, result.GovernanceScore)
	assert.Equal(t, 61.57, result.OverallESGScore)
}

func TestElectricityEmissions(t *testing.T) {
	tests := []struct {
		name        string
		electricity Electricity
		useDefault  bool
		expected    float64
	}{
		{
			name:        "fully renewable",
			electricity: Electricity{Consumption: 1000, RenewablePercent: 100, GridEmissionFactor: 0.5},
			useDefault:  true,
			expected:    0,
		},
		{
			name:        "half renewable",
			electricity: Electricity{Consumption: 1000, RenewablePercent: 50, GridEmissionFactor: 0.4},
			useDefault:  true,
			expected:    200,
		},
		{
			name:        "zero factor falls back to default",
			electricity: Electricity{Consumption: 1000, RenewablePercent: 0, GridEmissionFactor: 0},
			useDefault:  true,
			expected:    500,
		},
		{
			name:        "zero factor taken literally",
			electricity: Electricity{Consumption: 1000, RenewablePercent: 0, GridEmissionFactor: 0},
			useDefault:  false,
			expected:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.ZeroGridFactorUsesDefault = tt.useDefault
			engine := New(cfg)

			result := engine.ComputeScores(Input{Electricity: tt.electricity})
			assert.InDelta(t, tt.expected, result.EnvironmentalCalculations.ElectricityEmissions, 1e-9)
		})
	}
}

func TestGovernanceScore(t *testing.T) {
	engine := NewDefault()

	best := engine.ComputeScores(Input{Governance: Governance{
		BoardIndependencePercent: 100,
		AuditCommittee:           true,
		AntiCorruptionPolicy:     true,
		ExecutivePayRatio:        1,
		ShareholderRightsScore:   10,
	}})
	assert.Equal(t, 100.0, best.GovernanceScore)

	worst := engine.ComputeScores(Input{Governance: Governance{
		BoardIndependencePercent: 0,
		ExecutivePayRatio:        500,
		ShareholderRightsScore:   0,
	}})
	assert.Equal(t, 0.0, worst.GovernanceScore)

	policiesOnly := engine.ComputeScores(Input{Governance: Governance{
		AuditCommittee:       true,
		AntiCorruptionPolicy: true,
		ExecutivePayRatio:    500,
	}})
	assert.Equal(t, 40.0, policiesOnly.GovernanceScore)
}

func TestSocialScore(t *testing.T) {
	engine := NewDefault()

	best := engine.ComputeScores(Input{Social: Social{
		EmployeeTurnoverPercent:    0,
		InjuryRate:                 0,
		GenderDiversityPercent:     100,
		TrainingHoursPerEmployee:   80,
		CommunityInvestmentPercent: 5,
	}})
	assert.Equal(t, 100.0, best.SocialScore)

	// zero turnover and injuries score 100 on their own weight
	zero := engine.ComputeScores(Input{})
	assert.Equal(t, 45.0, zero.SocialScore)
}

func TestOffsets(t *testing.T) {
	tests := []struct {
		name          string
		offsets       float64
		expectedScore float64
		expectedNet   float64
	}{
		// base score for 10000 kg travel with everything else zero is 86
		{name: "no offsets", offsets: 0, expectedScore: 86, expectedNet: 10000},
		{name: "half offset", offsets: 5000, expectedScore: 92.45, expectedNet: 5000},
		{name: "fully offset", offsets: 10000, expectedScore: 98.9, expectedNet: 0},
		{name: "over offset is capped at total", offsets: 1e9, expectedScore: 98.9, expectedNet: 0},
	}

	engine := NewDefault()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := engine.ComputeScores(Input{
				Travel:  Travel{BusinessTravelEmissions: 10000},
				Offsets: Offsets{CarbonOffsets: tt.offsets},
			})
			assert.Equal(t, tt.expectedScore, result.EnvironmentalScore)
			assert.InDelta(t, tt.expectedNet, result.EnvironmentalCalculations.NetEmissions, 1e-9)
		})
	}
}

func TestOffsetsWithoutEmissions(t *testing.T) {
	engine := NewDefault()

	result := engine.ComputeScores(Input{Offsets: Offsets{CarbonOffsets: 500}})

	assert.Equal(t, 0.0, result.EnvironmentalCalculations.TotalEmissions)
	assert.Equal(t, 0.0, result.EnvironmentalCalculations.NetEmissions)
	// water, travel, fugitive and energy are at best; waste recycling is 0
	assert.Equal(t, 94.0, result.EnvironmentalScore)
}

func TestApplyOffsetsNeverExceeds100(t *testing.T) {
	for base := 0.0; base <= 100; base += 2.5 {
		for ratio := 0.0; ratio <= 1.0; ratio += 0.05 {
			got := applyOffsets(base, ratio*1000, 1000)
			assert.LessOrEqual(t, got, 100.0, "base %v ratio %v", base, ratio)
			assert.GreaterOrEqual(t, got, base, "base %v ratio %v", base, ratio)
		}
	}
	assert.Equal(t, 100.0, applyOffsets(100, 1, 1))
	assert.Equal(t, 70.0, applyOffsets(70, 0, 1000))
	assert.Equal(t, 70.0, applyOffsets(70, 10, 0))
}

func TestComputeScores_Idempotent(t *testing.T) {
	engine := NewDefault()

	in := midpointInput()
	in.FossilFuel = FossilFuel{Diesel: 1234.5, Petrol: 321, NaturalGas: 77}
	in.Electricity = Electricity{Consumption: 45000, RenewablePercent: 35, GridEmissionFactor: 0.42}
	in.Offsets.CarbonOffsets = 800

	first := engine.ComputeScores(in)
	second := engine.ComputeScores(in)
	assert.Equal(t, first, second)
}

func TestComputeScores_DegenerateBenchmarks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Benchmarks.Social.InjuryRate = Range{Min: 5, Max: 5}
	cfg.Benchmarks.Governance.ShareholderRights = Range{Min: 10, Max: 0}
	engine := New(cfg)

	in := midpointInput()
	// both would be at their best against the default ranges
	in.Social.InjuryRate = 0
	in.Governance.ShareholderRightsScore = 10
	result := engine.ComputeScores(in)

	assert.Equal(t, 50.0, result.SocialScore)
	assert.Equal(t, 30.0, result.GovernanceScore)
}

func TestComputeScores_ScoresStayInRange(t *testing.T) {
	engine := NewDefault()
	rng := rand.New(rand.NewSource(42))

	magnitudes := []float64{0, 1, 100, 1e4, 1e7, 1e12}
	pick := func() float64 {
		return magnitudes[rng.Intn(len(magnitudes))] * rng.Float64()
	}

	for i := 0; i < 500; i++ {
		in := Input{
			FossilFuel:  FossilFuel{Diesel: pick(), Petrol: pick(), NaturalGas: pick()},
			Fugitive:    Fugitive{RefrigerantLeakage: pick(), GasLeakage: pick()},
			Electricity: Electricity{Consumption: pick(), RenewablePercent: rng.Float64() * 100, GridEmissionFactor: rng.Float64()},
			Water:       Water{Usage: pick(), Intensity: pick()},
			Waste:       Waste{Generated: pick(), RecycledPercent: rng.Float64() * 100},
			Travel:      Travel{BusinessTravelEmissions: pick()},
			Offsets:     Offsets{CarbonOffsets: pick()},
			Social: Social{
				EmployeeTurnoverPercent:    rng.Float64() * 100,
				InjuryRate:                 pick(),
				GenderDiversityPercent:     rng.Float64() * 100,
				TrainingHoursPerEmployee:   pick(),
				CommunityInvestmentPercent: rng.Float64() * 100,
			},
			Governance: Governance{
				BoardIndependencePercent: rng.Float64() * 100,
				AuditCommittee:           rng.Intn(2) == 1,
				AntiCorruptionPolicy:     rng.Intn(2) == 1,
				ExecutivePayRatio:        1 + pick(),
				ShareholderRightsScore:   rng.Float64() * 10,
			},
		}

		result := engine.ComputeScores(in)
		for _, score := range []float64{
			result.EnvironmentalScore,
			result.SocialScore,
			result.GovernanceScore,
			result.OverallESGScore,
		} {
			require.False(t, math.IsNaN(score), "input %d produced NaN", i)
			require.GreaterOrEqual(t, score, 0.0, "input %d", i)
			require.LessOrEqual(t, score, 100.0, "input %d", i)
		}
		require.GreaterOrEqual(t, result.EnvironmentalCalculations.NetEmissions, 0.0, "input %d", i)
	}
}

func TestComputeScores_NonFiniteInput(t *testing.T) {
	engine := NewDefault()

	tests := []struct {
		name string
		in   Input
	}{
		{name: "NaN diesel", in: Input{FossilFuel: FossilFuel{Diesel: math.NaN()}}},
		{name: "infinite travel", in: Input{Travel: Travel{BusinessTravelEmissions: math.Inf(1)}}},
		{name: "NaN board independence", in: Input{Governance: Governance{BoardIndependencePercent: math.NaN()}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := engine.ComputeScores(tt.in)
			for _, score := range []float64{
				result.EnvironmentalScore,
				result.SocialScore,
				result.GovernanceScore,
				result.OverallESGScore,
			} {
				assert.False(t, math.IsNaN(score))
				assert.GreaterOrEqual(t, score, 0.0)
				assert.LessOrEqual(t, score, 100.0)
			}
		})
	}
}

func TestEnvironmentalCalculations_Overflow(t *testing.T) {
	engine := NewDefault()

	tests := []struct {
		name     string
		in       Input
		expected string
	}{
		{name: "finite", in: Input{FossilFuel: FossilFuel{Diesel: 100}}, expected: ""},
		{name: "fossil fuel", in: Input{FossilFuel: FossilFuel{Diesel: 1e308}}, expected: "fossilFuel"},
		{
			name:     "electricity",
			in:       Input{Electricity: Electricity{Consumption: 1e308, GridEmissionFactor: 10}},
			expected: "electricity",
		},
		{
			name: "sum only",
			in: Input{
				Travel:   Travel{BusinessTravelEmissions: 1e308},
				Fugitive: Fugitive{RefrigerantLeakage: 1e308},
			},
			expected: "emissions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := engine.ComputeScores(tt.in)
			assert.Equal(t, tt.expected, result.EnvironmentalCalculations.Overflow())
		})
	}
}

func TestNew_CopiesConfig(t *testing.T) {
	cfg := DefaultConfig()
	engine := New(cfg)

	cfg.EmissionFactors.Diesel = 100

	result := engine.ComputeScores(Input{FossilFuel: FossilFuel{Diesel: 1}})
	assert.InDelta(t, 2.68, result.EnvironmentalCalculations.FossilFuelEmissions, 1e-9)
	assert.Equal(t, 2.68, engine.Config().EmissionFactors.Diesel)
}
