package scoring

import "math"

// neutralScore is returned for a benchmark range with max <= min.
const neutralScore = 50.0

// NormalizeHigherIsBetter maps value onto 0-100 where reaching max is best.
func NormalizeHigherIsBetter(value, min, max float64) float64 {
	if max <= min {
		return neutralScore
	}
	if value <= min {
		return 0
	}
	if value >= max {
		return 100
	}
	return ClampScore((value - min) / (max - min) * 100)
}

// NormalizeLowerIsBetter maps value onto 0-100 where staying at min is best.
func NormalizeLowerIsBetter(value, min, max float64) float64 {
	if max <= min {
		return neutralScore
	}
	if value <= min {
		return 100
	}
	if value >= max {
		return 0
	}
	return ClampScore((max - value) / (max - min) * 100)
}

// ClampScore bounds value to [0,100]. NaN and infinities become 0.
func ClampScore(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}

// round2 rounds half away from zero at the second decimal.
func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

func boolScore(b bool) float64 {
	if b {
		return 100
	}
	return 0
}
