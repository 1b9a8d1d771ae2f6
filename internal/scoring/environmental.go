package scoring

import "math"

const (
	// Waste generation outweighs recycling rate.
	wasteGenerationWeight = 0.6
	wasteRecyclingWeight  = 0.4

	// maxOffsetImprovement caps the proportional uplift from fully offset emissions.
	maxOffsetImprovement = 0.15
)

func (e *Engine) fossilFuelEmissions(f FossilFuel) float64 {
	ef := e.cfg.EmissionFactors
	return f.Diesel*ef.Diesel + f.Petrol*ef.Petrol + f.NaturalGas*ef.NaturalGas
}

// gridFactor returns the supplied factor, or the default when the supplied
// value is zero and ZeroGridFactorUsesDefault is set.
func (e *Engine) gridFactor(supplied float64) float64 {
	if supplied == 0 && e.cfg.ZeroGridFactorUsesDefault {
		return e.cfg.EmissionFactors.DefaultGrid
	}
	return supplied
}

func (e *Engine) electricityEmissions(el Electricity) float64 {
	renewableFactor := (100 - el.RenewablePercent) / 100
	return el.Consumption * e.gridFactor(el.GridEmissionFactor) * renewableFactor
}

func fugitiveEmissions(f Fugitive) float64 {
	return f.RefrigerantLeakage + f.GasLeakage
}

func (e *Engine) waterImpact(w Water) float64 {
	b := e.cfg.Benchmarks.Water
	usage := NormalizeLowerIsBetter(w.Usage, b.Usage.Min, b.Usage.Max)
	intensity := NormalizeLowerIsBetter(w.Intensity, b.Intensity.Min, b.Intensity.Max)
	return (usage + intensity) / 2
}

func (e *Engine) wasteImpact(w Waste) float64 {
	b := e.cfg.Benchmarks.Waste
	generation := NormalizeLowerIsBetter(w.Generated, b.Generated.Min, b.Generated.Max)
	recycling := NormalizeHigherIsBetter(w.RecycledPercent, 0, 100)
	return generation*wasteGenerationWeight + recycling*wasteRecyclingWeight
}

// applyOffsets scales base up by at most maxOffsetImprovement in proportion
// to the share of emissions that is offset. The result never exceeds 100.
func applyOffsets(base, effectiveOffsets, totalEmissions float64) float64 {
	if totalEmissions <= 0 || effectiveOffsets <= 0 {
		return base
	}
	ratio := effectiveOffsets / totalEmissions
	return math.Min(100, base+base*ratio*maxOffsetImprovement)
}

// environmental returns the unrounded environmental score and its derived
// calculations.
func (e *Engine) environmental(in Input) (float64, EnvironmentalCalculations) {
	fossil := e.fossilFuelEmissions(in.FossilFuel)
	electricity := e.electricityEmissions(in.Electricity)
	fugitive := fugitiveEmissions(in.Fugitive)
	travel := in.Travel.BusinessTravelEmissions

	total := fossil + electricity + fugitive + travel

	effectiveOffsets := math.Min(in.Offsets.CarbonOffsets, total)
	net := math.Max(0, total-effectiveOffsets)

	eb := e.cfg.Benchmarks.Emissions
	energyAndFuelScore := NormalizeLowerIsBetter(
		fossil+electricity,
		eb.FossilFuel.Min,
		eb.FossilFuel.Max+eb.Electricity.Max,
	)
	travelScore := NormalizeLowerIsBetter(travel, eb.Travel.Min, eb.Travel.Max)
	fugitiveScore := NormalizeLowerIsBetter(fugitive, eb.Fugitive.Min, eb.Fugitive.Max)
	waterScore := e.waterImpact(in.Water)
	wasteScore := e.wasteImpact(in.Waste)

	w := e.cfg.Weights.Environmental
	base := energyAndFuelScore*w.EnergyAndFuel +
		travelScore*w.Travel +
		waterScore*w.Water +
		wasteScore*w.Waste +
		fugitiveScore*w.Fugitive

	score := ClampScore(applyOffsets(base, effectiveOffsets, total))

	return score, EnvironmentalCalculations{
		FossilFuelEmissions:  fossil,
		ElectricityEmissions: electricity,
		FugitiveEmissions:    fugitive,
		TravelEmissions:      travel,
		TotalEmissions:       total,
		NetEmissions:         net,
		WaterImpact:          waterScore,
		WasteImpact:          wasteScore,
	}
}
