package calculator

const (
	femaleMultiplier = 0.85

	KidneyNormal   = "Normal kidney function"
	KidneyMild     = "Mild decrease in kidney function"
	KidneyModerate = "Moderate decrease in kidney function"
	KidneySevere   = "Severe decrease in kidney function"
	KidneyFailure  = "Kidney failure"
)

// CockcroftGault returns the estimated creatinine clearance in mL/min. The
// caller guarantees age < 140 and positive weight and creatinine.
func CockcroftGault(ageYears, weightKg, serumCreatinineMgDl float64, sex Sex) float64 {
	mult := 1.0
	if sex == SexFemale {
		mult = femaleMultiplier
	}
	return ((140 - ageYears) * weightKg * mult) / (72 * serumCreatinineMgDl)
}

// ClassifyClearance maps a clearance to its kidney function stage. Each lower
// bound is inclusive.
func ClassifyClearance(crcl float64) string {
	switch {
	case crcl >= 90:
		return KidneyNormal
	case crcl >= 60:
		return KidneyMild
	case crcl >= 30:
		return KidneyModerate
	case crcl >= 15:
		return KidneySevere
	default:
		return KidneyFailure
	}
}

func clearanceRecommendations(crcl float64) []string {
	recs := make([]string, 0, 3)
	if crcl < 60 {
		recs = append(recs, "Consider dose modifications for renally-cleared drugs")
	} else {
		recs = append(recs, "No dose adjustment typically needed")
	}
	if crcl < 30 {
		recs = append(recs, "Nephrology consultation recommended")
	} else {
		recs = append(recs, "Monitor renal function regularly")
	}
	return append(recs, "Cystatin C or a 24-hour urine collection gives a more accurate measurement when precision matters")
}

// CreatinineClearanceEstimator applies Cockcroft-Gault to the patient's
// actual weight.
type CreatinineClearanceEstimator struct{}

func (CreatinineClearanceEstimator) Descriptor() Descriptor {
	return Descriptor{
		Kind:          KindCreatinineClearance,
		Name:          "Creatinine Clearance",
		Unit:          "mL/min",
		Required:      []Field{FieldAgeYears, FieldWeightKg, FieldSerumCreatinineMgDl, FieldSex},
		EvidenceLevel: "Standard Formula",
		Reference:     "Cockcroft-Gault Equation",
		Prompt:        "please enter a valid age, weight, serum creatinine and sex",
	}
}

func (c CreatinineClearanceEstimator) Compute(m Measurement) Result {
	d := c.Descriptor()
	crcl := roundTo(CockcroftGault(m.AgeYears, m.WeightKg, m.SerumCreatinineMgDl, m.Sex), 1)
	return Result{
		Calculator:      d.Kind,
		Valid:           true,
		Value:           floatPtr(crcl),
		Unit:            d.Unit,
		Interpretation:  ClassifyClearance(crcl),
		EvidenceLevel:   d.EvidenceLevel,
		Reference:       d.Reference,
		Recommendations: clearanceRecommendations(crcl),
	}
}
