package calculator

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Kind selects a calculator.
type Kind string

const (
	KindBSA                 Kind = "bsa"
	KindCreatinineClearance Kind = "creatinine_clearance"
	KindCarboplatinDose     Kind = "carboplatin_dose"
)

// Field names a raw input accepted by the validator. The string value is the
// JSON key callers use.
type Field string

const (
	FieldHeightCm            Field = "height_cm"
	FieldWeightKg            Field = "weight_kg"
	FieldAgeYears            Field = "age_years"
	FieldSerumCreatinineMgDl Field = "serum_creatinine_mg_dl"
	FieldSex                 Field = "sex"
	FieldTargetAUC           Field = "target_auc"
)

// Sex is the closed two-variant enumeration used by the Cockcroft-Gault
// multiplier.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// Fields maps field names to raw caller-supplied values (strings from a form,
// numbers from JSON or a test).
type Fields map[string]any

// Measurement is a validated patient measurement. Only the fields required by
// the calculator that produced it are populated.
type Measurement struct {
	HeightCm            float64 `json:"height_cm,omitempty"`
	WeightKg            float64 `json:"weight_kg,omitempty"`
	AgeYears            float64 `json:"age_years,omitempty"`
	SerumCreatinineMgDl float64 `json:"serum_creatinine_mg_dl,omitempty"`
	Sex                 Sex     `json:"sex,omitempty"`
	TargetAUC           float64 `json:"target_auc,omitempty"`
}

// Result is the outcome of one calculator invocation. Valid == false is the
// invalid-input marker: Value is nil and Errors lists every failing field.
type Result struct {
	Calculator      Kind         `json:"calculator"`
	Valid           bool         `json:"valid"`
	Value           *float64     `json:"value"`
	Unit            string       `json:"unit"`
	Interpretation  string       `json:"interpretation"`
	EvidenceLevel   string       `json:"evidence_level"`
	Reference       string       `json:"reference"`
	Recommendations []string     `json:"recommendations"`
	Warnings        []string     `json:"warnings,omitempty"`
	Errors          []FieldError `json:"errors,omitempty"`
	EstimatedGFR    *float64     `json:"estimated_gfr_ml_min,omitempty"`
}

// Descriptor is the static catalogue entry for a calculator.
type Descriptor struct {
	Kind          Kind    `json:"kind"`
	Name          string  `json:"name"`
	Unit          string  `json:"unit"`
	Required      []Field `json:"required_fields"`
	EvidenceLevel string  `json:"evidence_level"`
	Reference     string  `json:"reference"`
	// Prompt is shown when validation fails, ahead of the per-field detail.
	Prompt string `json:"-"`
}

// CalculationRecord maps to the calculation_record table. Raw inputs are never
// stored.
type CalculationRecord struct {
	ID             uuid.UUID `db:"id" json:"id"`
	Calculator     Kind      `db:"calculator" json:"calculator"`
	Valid          bool      `db:"valid" json:"valid"`
	Value          *float64  `db:"value" json:"value,omitempty"`
	Unit           string    `db:"unit" json:"unit"`
	Interpretation string    `db:"interpretation" json:"interpretation"`
	WarningCount   int       `db:"warning_count" json:"warning_count"`
	RequestID      *string   `db:"request_id" json:"request_id,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// NewCalculationRecord builds an audit record from a result.
func NewCalculationRecord(r Result, requestID string) *CalculationRecord {
	rec := &CalculationRecord{
		Calculator:     r.Calculator,
		Valid:          r.Valid,
		Unit:           r.Unit,
		Interpretation: r.Interpretation,
		WarningCount:   len(r.Warnings),
	}
	if r.Value != nil {
		v := *r.Value
		rec.Value = &v
	}
	if requestID != "" {
		rec.RequestID = &requestID
	}
	return rec
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func floatPtr(v float64) *float64 {
	return &v
}
