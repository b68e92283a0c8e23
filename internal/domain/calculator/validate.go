package calculator

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MaxPlausibleAgeYears is the age at which the Cockcroft-Gault numerator
// (140 - age) stops being positive.
const MaxPlausibleAgeYears = 140

// Reason classifies why a field failed validation.
type Reason string

const (
	ReasonMissing      Reason = "missing"
	ReasonNonNumeric   Reason = "non_numeric"
	ReasonNonPositive  Reason = "non_positive"
	ReasonImplausible  Reason = "implausible"
	ReasonUnrecognized Reason = "unrecognized"
)

// FieldError describes one invalid field.
type FieldError struct {
	Field   Field  `json:"field"`
	Reason  Reason `json:"reason"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field.label(), e.Message)
}

// ValidationError lists every invalid field, in the order the fields were
// requested.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Error())
	}
	return strings.Join(parts, "; ")
}

// Has reports whether field failed with reason.
func (e *ValidationError) Has(field Field, reason Reason) bool {
	for _, f := range e.Fields {
		if f.Field == field && f.Reason == reason {
			return true
		}
	}
	return false
}

var fieldLabels = map[Field]string{
	FieldHeightCm:            "height",
	FieldWeightKg:            "weight",
	FieldAgeYears:            "age",
	FieldSerumCreatinineMgDl: "serum creatinine",
	FieldSex:                 "sex",
	FieldTargetAUC:           "target AUC",
}

func (f Field) label() string {
	if l, ok := fieldLabels[f]; ok {
		return l
	}
	return string(f)
}

// Validate parses the requested fields out of raw and returns a Measurement
// holding only those fields. Every failing field is reported, not just the
// first.
func Validate(raw Fields, required ...Field) (Measurement, error) {
	var m Measurement
	var failed []FieldError

	for _, field := range required {
		if field == FieldSex {
			sex, fe := parseSex(raw[string(field)])
			if fe != nil {
				failed = append(failed, *fe)
				continue
			}
			m.Sex = sex
			continue
		}

		v, fe := parsePositive(field, raw[string(field)])
		if fe != nil {
			failed = append(failed, *fe)
			continue
		}
		if field == FieldAgeYears && v >= MaxPlausibleAgeYears {
			failed = append(failed, FieldError{
				Field:   field,
				Reason:  ReasonImplausible,
				Message: fmt.Sprintf("must be below %d years", MaxPlausibleAgeYears),
			})
			continue
		}
		m.set(field, v)
	}

	if len(failed) > 0 {
		return Measurement{}, &ValidationError{Fields: failed}
	}
	return m, nil
}

func (m *Measurement) set(field Field, v float64) {
	switch field {
	case FieldHeightCm:
		m.HeightCm = v
	case FieldWeightKg:
		m.WeightKg = v
	case FieldAgeYears:
		m.AgeYears = v
	case FieldSerumCreatinineMgDl:
		m.SerumCreatinineMgDl = v
	case FieldTargetAUC:
		m.TargetAUC = v
	}
}

func parsePositive(field Field, raw any) (float64, *FieldError) {
	v, reason := toFloat(raw)
	switch reason {
	case ReasonMissing:
		return 0, &FieldError{Field: field, Reason: ReasonMissing, Message: "is required"}
	case ReasonNonNumeric:
		return 0, &FieldError{Field: field, Reason: ReasonNonNumeric, Message: "must be a finite number"}
	}
	if v <= 0 {
		return 0, &FieldError{Field: field, Reason: ReasonNonPositive, Message: "must be greater than zero"}
	}
	return v, nil
}

// toFloat converts a raw value to a finite float64. The empty Reason means
// success.
func toFloat(raw any) (float64, Reason) {
	var v float64
	switch x := raw.(type) {
	case nil:
		return 0, ReasonMissing
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, ReasonMissing
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, ReasonNonNumeric
		}
		v = f
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, ReasonNonNumeric
		}
		v = f
	case float64:
		v = x
	case float32:
		v = float64(x)
	case int:
		v = float64(x)
	case int64:
		v = float64(x)
	case int32:
		v = float64(x)
	default:
		return 0, ReasonNonNumeric
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ReasonNonNumeric
	}
	return v, ""
}

func parseSex(raw any) (Sex, *FieldError) {
	if raw == nil {
		return "", &FieldError{Field: FieldSex, Reason: ReasonMissing, Message: "is required"}
	}
	s, ok := raw.(string)
	if !ok {
		return "", &FieldError{Field: FieldSex, Reason: ReasonUnrecognized, Message: `must be "male" or "female"`}
	}
	switch Sex(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return "", &FieldError{Field: FieldSex, Reason: ReasonMissing, Message: "is required"}
	case SexMale:
		return SexMale, nil
	case SexFemale:
		return SexFemale, nil
	}
	return "", &FieldError{Field: FieldSex, Reason: ReasonUnrecognized, Message: `must be "male" or "female"`}
}
