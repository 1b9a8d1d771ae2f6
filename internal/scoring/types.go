package scoring

import "math"

// FossilFuel holds fuel volumes burned on site.
type FossilFuel struct {
	Diesel     float64 `json:"diesel" yaml:"diesel" validate:"gte=0"`         // liters
	Petrol     float64 `json:"petrol" yaml:"petrol" validate:"gte=0"`         // liters
	NaturalGas float64 `json:"naturalGas" yaml:"naturalGas" validate:"gte=0"` // cubic meters
}

// Fugitive holds leakage already expressed in kg CO2e.
type Fugitive struct {
	RefrigerantLeakage float64 `json:"refrigerantLeakage" yaml:"refrigerantLeakage" validate:"gte=0"`
	GasLeakage         float64 `json:"gasLeakage" yaml:"gasLeakage" validate:"gte=0"`
}

// Electricity holds purchased power and how clean it is.
type Electricity struct {
	Consumption        float64 `json:"consumption" yaml:"consumption" validate:"gte=0"` // kWh
	RenewablePercent   float64 `json:"renewablePercent" yaml:"renewablePercent" validate:"gte=0,lte=100"`
	GridEmissionFactor float64 `json:"gridEmissionFactor" yaml:"gridEmissionFactor" validate:"gte=0"` // kg CO2e/kWh
}

// Water holds total usage and usage per unit of output.
type Water struct {
	Usage     float64 `json:"usage" yaml:"usage" validate:"gte=0"`         // m³
	Intensity float64 `json:"intensity" yaml:"intensity" validate:"gte=0"` // m³ per unit output
}

// Waste holds generated waste and the share recycled.
type Waste struct {
	Generated       float64 `json:"generated" yaml:"generated" validate:"gte=0"` // kg
	RecycledPercent float64 `json:"recycledPercent" yaml:"recycledPercent" validate:"gte=0,lte=100"`
}

// Travel holds business travel already expressed in kg CO2e.
type Travel struct {
	BusinessTravelEmissions float64 `json:"businessTravelEmissions" yaml:"businessTravelEmissions" validate:"gte=0"`
}

// Offsets holds purchased carbon offsets in kg CO2e.
type Offsets struct {
	CarbonOffsets float64 `json:"carbonOffsets" yaml:"carbonOffsets" validate:"gte=0"`
}

// Social holds workforce and community indicators.
type Social struct {
	EmployeeTurnoverPercent    float64 `json:"employeeTurnoverPercent" yaml:"employeeTurnoverPercent" validate:"gte=0"`
	InjuryRate                 float64 `json:"injuryRate" yaml:"injuryRate" validate:"gte=0"`
	GenderDiversityPercent     float64 `json:"genderDiversityPercent" yaml:"genderDiversityPercent" validate:"gte=0"`
	TrainingHoursPerEmployee   float64 `json:"trainingHoursPerEmployee" yaml:"trainingHoursPerEmployee" validate:"gte=0"`
	CommunityInvestmentPercent float64 `json:"communityInvestmentPercent" yaml:"communityInvestmentPercent" validate:"gte=0"`
}

// Governance holds board, policy and pay indicators.
type Governance struct {
	BoardIndependencePercent float64 `json:"boardIndependencePercent" yaml:"boardIndependencePercent" validate:"gte=0,lte=100"`
	AuditCommittee           bool    `json:"auditCommittee" yaml:"auditCommittee"`
	AntiCorruptionPolicy     bool    `json:"antiCorruptionPolicy" yaml:"antiCorruptionPolicy"`
	ExecutivePayRatio        float64 `json:"executivePayRatio" yaml:"executivePayRatio" validate:"gte=1"`
	ShareholderRightsScore   float64 `json:"shareholderRightsScore" yaml:"shareholderRightsScore" validate:"gte=0,lte=10"`
}

// Input is one submission. All nine sections are required; presence is
// checked by the caller before the engine runs.
type Input struct {
	FossilFuel  FossilFuel  `json:"fossilFuel" yaml:"fossilFuel"`
	Fugitive    Fugitive    `json:"fugitive" yaml:"fugitive"`
	Electricity Electricity `json:"electricity" yaml:"electricity"`
	Water       Water       `json:"water" yaml:"water"`
	Waste       Waste       `json:"waste" yaml:"waste"`
	Travel      Travel      `json:"travel" yaml:"travel"`
	Offsets     Offsets     `json:"offsets" yaml:"offsets"`
	Social      Social      `json:"social" yaml:"social"`
	Governance  Governance  `json:"governance" yaml:"governance"`
}

// EnvironmentalCalculations are the derived quantities behind the
// environmental score. Emissions are kg CO2e, impacts are 0-100 scores.
type EnvironmentalCalculations struct {
	FossilFuelEmissions  float64 `json:"fossilFuelEmissions"`
	ElectricityEmissions float64 `json:"electricityEmissions"`
	FugitiveEmissions    float64 `json:"fugitiveEmissions"`
	TravelEmissions      float64 `json:"travelEmissions"`
	TotalEmissions       float64 `json:"totalEmissions"`
	NetEmissions         float64 `json:"netEmissions"`
	WaterImpact          float64 `json:"waterImpact"`
	WasteImpact          float64 `json:"wasteImpact"`
}

// Overflow reports the input section whose derived emissions did not stay
// finite, or "" when every value is finite. Totals that overflow only after
// summing are reported as "emissions".
func (c EnvironmentalCalculations) Overflow() string {
	checks := []struct {
		section string
		value   float64
	}{
		{"fossilFuel", c.FossilFuelEmissions},
		{"electricity", c.ElectricityEmissions},
		{"fugitive", c.FugitiveEmissions},
		{"travel", c.TravelEmissions},
		{"water", c.WaterImpact},
		{"waste", c.WasteImpact},
		{"emissions", c.TotalEmissions},
		{"emissions", c.NetEmissions},
	}
	for _, check := range checks {
		if math.IsInf(check.value, 0) || math.IsNaN(check.value) {
			return check.section
		}
	}
	return ""
}

// Scores holds the four pillar scores, each in [0,100] with two decimals.
type Scores struct {
	EnvironmentalScore float64 `json:"environmentalScore"`
	SocialScore        float64 `json:"socialScore"`
	GovernanceScore    float64 `json:"governanceScore"`
	OverallESGScore    float64 `json:"overallESGScore"`
}

// Result is the engine output for one Input.
type Result struct {
	Scores
	EnvironmentalCalculations EnvironmentalCalculations `json:"environmentalCalculations"`
}
