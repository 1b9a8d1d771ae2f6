// Package validation checks raw submission bodies before they reach the
// scoring engine: every section and field must be present, values must have
// the right JSON type and lie inside their documented ranges.
package validation

// Section is one required top-level object of a submission.
type Section struct {
	Name   string
	Fields []string
}

// Schema lists the required sections in the order they are checked. The first
// gap found in this order is the one reported.
var Schema = []Section{
	{Name: "fossilFuel", Fields: []string{"diesel", "petrol", "naturalGas"}},
	{Name: "fugitive", Fields: []string{"refrigerantLeakage", "gasLeakage"}},
	{Name: "electricity", Fields: []string{"consumption", "renewablePercent", "gridEmissionFactor"}},
	{Name: "water", Fields: []string{"usage", "intensity"}},
	{Name: "waste", Fields: []string{"generated", "recycledPercent"}},
	{Name: "travel", Fields: []string{"businessTravelEmissions"}},
	{Name: "offsets", Fields: []string{"carbonOffsets"}},
	{Name: "social", Fields: []string{
		"employeeTurnoverPercent",
		"injuryRate",
		"genderDiversityPercent",
		"trainingHoursPerEmployee",
		"communityInvestmentPercent",
	}},
	{Name: "governance", Fields: []string{
		"boardIndependencePercent",
		"auditCommittee",
		"antiCorruptionPolicy",
		"executivePayRatio",
		"shareholderRightsScore",
	}},
}
