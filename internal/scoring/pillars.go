package scoring

func (e *Engine) social(s Social) float64 {
	b := e.cfg.Benchmarks.Social
	w := e.cfg.Weights.Social

	turnover := NormalizeLowerIsBetter(s.EmployeeTurnoverPercent, b.EmployeeTurnover.Min, b.EmployeeTurnover.Max)
	injury := NormalizeLowerIsBetter(s.InjuryRate, b.InjuryRate.Min, b.InjuryRate.Max)
	diversity := NormalizeHigherIsBetter(s.GenderDiversityPercent, b.GenderDiversity.Min, b.GenderDiversity.Max)
	training := NormalizeHigherIsBetter(s.TrainingHoursPerEmployee, b.TrainingHours.Min, b.TrainingHours.Max)
	community := NormalizeHigherIsBetter(s.CommunityInvestmentPercent, b.CommunityInvestment.Min, b.CommunityInvestment.Max)

	return ClampScore(
		turnover*w.EmployeeTurnover +
			injury*w.InjuryRate +
			diversity*w.GenderDiversity +
			training*w.TrainingHours +
			community*w.CommunityInvestment,
	)
}

func (e *Engine) governance(g Governance) float64 {
	b := e.cfg.Benchmarks.Governance
	w := e.cfg.Weights.Governance

	board := NormalizeHigherIsBetter(g.BoardIndependencePercent, b.BoardIndependence.Min, b.BoardIndependence.Max)
	// lower pay ratio is more equitable
	payRatio := NormalizeLowerIsBetter(g.ExecutivePayRatio, b.ExecutivePayRatio.Min, b.ExecutivePayRatio.Max)
	rights := NormalizeHigherIsBetter(g.ShareholderRightsScore, b.ShareholderRights.Min, b.ShareholderRights.Max)

	return ClampScore(
		board*w.BoardIndependence +
			boolScore(g.AuditCommittee)*w.AuditCommittee +
			boolScore(g.AntiCorruptionPolicy)*w.AntiCorruption +
			payRatio*w.ExecutivePayRatio +
			rights*w.ShareholderRights,
	)
}
