package calculator

import "math"

const (
	bsaLowerNormal = 1.5
	bsaUpperNormal = 2.5

	BSABelowAverage = "Below average BSA"
	BSANormal       = "Normal BSA range"
	BSAAboveAverage = "Above average BSA"
)

var bsaRecommendations = []string{
	"Most cytotoxic chemotherapy is dosed in mg/m² using BSA",
	"Consider capping BSA at 2.0 m² for agents with a dose ceiling",
	"Follow institutional guidelines for dose rounding and obese patients",
}

// Mosteller returns body surface area in m².
func Mosteller(heightCm, weightKg float64) float64 {
	return math.Sqrt(heightCm * weightKg / 3600)
}

// ClassifyBSA maps a BSA value to its band. Both normal-range boundaries are
// inclusive.
func ClassifyBSA(bsa float64) string {
	switch {
	case bsa < bsaLowerNormal:
		return BSABelowAverage
	case bsa > bsaUpperNormal:
		return BSAAboveAverage
	default:
		return BSANormal
	}
}

// BSACalculator computes body surface area from height and weight.
type BSACalculator struct{}

func (BSACalculator) Descriptor() Descriptor {
	return Descriptor{
		Kind:          KindBSA,
		Name:          "Body Surface Area",
		Unit:          "m²",
		Required:      []Field{FieldHeightCm, FieldWeightKg},
		EvidenceLevel: "Standard Formula",
		Reference:     "Mosteller Formula (1987)",
		Prompt:        "please enter a valid height (cm) and weight (kg)",
	}
}

func (c BSACalculator) Compute(m Measurement) Result {
	d := c.Descriptor()
	bsa := roundTo(Mosteller(m.HeightCm, m.WeightKg), 2)
	return Result{
		Calculator:      d.Kind,
		Valid:           true,
		Value:           floatPtr(bsa),
		Unit:            d.Unit,
		Interpretation:  ClassifyBSA(bsa),
		EvidenceLevel:   d.EvidenceLevel,
		Reference:       d.Reference,
		Recommendations: append([]string(nil), bsaRecommendations...),
	}
}
