package calculator

import "fmt"

const (
	// ReferenceWeightKg replaces the patient's weight in the carboplatin GFR
	// estimate. Actual weight is never used by this calculator.
	ReferenceWeightKg = 70.0

	// CarboplatinDoseCeilingMg is the conventional upper bound of a single
	// carboplatin dose. Doses above it are flagged, not capped.
	CarboplatinDoseCeilingMg = 1000.0

	calvertNonRenalClearance = 25.0
)

var carboplatinRecommendations = []string{
	"Verify actual body weight for a more accurate GFR estimate",
	"Consider dose modification for prior toxicity",
	"Monitor renal function during treatment",
	"Maximum single dose is conventionally 800-1000 mg",
}

// CalvertDose returns the carboplatin dose in mg for a target AUC and GFR.
func CalvertDose(targetAUC, gfr float64) float64 {
	return targetAUC * (gfr + calvertNonRenalClearance)
}

// CarboplatinDoseCalculator derives a Calvert dose from a Cockcroft-Gault GFR
// computed on the fixed reference weight.
type CarboplatinDoseCalculator struct{}

func (CarboplatinDoseCalculator) Descriptor() Descriptor {
	return Descriptor{
		Kind:          KindCarboplatinDose,
		Name:          "Carboplatin Dose (Calvert)",
		Unit:          "mg",
		Required:      []Field{FieldSerumCreatinineMgDl, FieldAgeYears, FieldTargetAUC, FieldSex},
		EvidenceLevel: "Category 1",
		Reference:     "Calvert Formula (NCCN Guidelines)",
		Prompt:        "please enter a valid serum creatinine, age, target AUC and sex",
	}
}

func (c CarboplatinDoseCalculator) Compute(m Measurement) Result {
	d := c.Descriptor()
	gfr := CockcroftGault(m.AgeYears, ReferenceWeightKg, m.SerumCreatinineMgDl, m.Sex)
	dose := roundTo(CalvertDose(m.TargetAUC, gfr), 0)
	shownGFR := roundTo(gfr, 1)

	r := Result{
		Calculator: d.Kind,
		Valid:      true,
		Value:      floatPtr(dose),
		Unit:       d.Unit,
		Interpretation: fmt.Sprintf("Estimated GFR: %.1f mL/min (Cockcroft-Gault with a %.0f kg reference weight, not actual body weight)",
			shownGFR, ReferenceWeightKg),
		EvidenceLevel:   d.EvidenceLevel,
		Reference:       d.Reference,
		Recommendations: append([]string(nil), carboplatinRecommendations...),
		EstimatedGFR:    floatPtr(shownGFR),
	}
	if dose > CarboplatinDoseCeilingMg {
		r.Warnings = append(r.Warnings,
			fmt.Sprintf("Calculated dose %.0f mg exceeds the conventional %.0f mg single-dose maximum", dose, CarboplatinDoseCeilingMg))
	}
	return r
}
