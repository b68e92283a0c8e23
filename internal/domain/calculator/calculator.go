package calculator

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrUnknownCalculator is returned when a Kind has no registered calculator.
var ErrUnknownCalculator = errors.New("unknown calculator")

// Calculator is a pure formula evaluator. Compute is only ever called with a
// Measurement that passed Validate for Descriptor().Required.
type Calculator interface {
	Descriptor() Descriptor
	Compute(m Measurement) Result
}

// Evaluate validates raw against the calculator's required fields and computes
// the result. Invalid input yields a Result with Valid == false; it never
// panics or returns an error.
func Evaluate(c Calculator, raw Fields) Result {
	d := c.Descriptor()
	m, err := Validate(raw, d.Required...)
	if err != nil {
		return invalidResult(d, err)
	}
	res := c.Compute(m)
	if !plausible(res) {
		return invalidResult(d, outOfRange(d.Required))
	}
	return res
}

// plausible reports whether a computed result can be shown as a number.
// Extreme but finite inputs can overflow to ±Inf, produce NaN, or round to
// zero, none of which is a usable clinical value.
func plausible(r Result) bool {
	for _, v := range []*float64{r.Value, r.EstimatedGFR} {
		if v == nil {
			continue
		}
		if math.IsNaN(*v) || math.IsInf(*v, 0) || *v <= 0 {
			return false
		}
	}
	return true
}

// outOfRange marks every numeric input implausible. An overflowed product
// cannot be traced to one field.
func outOfRange(required []Field) error {
	ve := &ValidationError{}
	for _, f := range required {
		if f == FieldSex {
			continue
		}
		ve.Fields = append(ve.Fields, FieldError{
			Field:   f,
			Reason:  ReasonImplausible,
			Message: "is outside the range the formula can evaluate",
		})
	}
	return ve
}

func invalidResult(d Descriptor, err error) Result {
	r := Result{
		Calculator:      d.Kind,
		Valid:           false,
		Unit:            d.Unit,
		Interpretation:  fmt.Sprintf("Invalid input: %s (%v)", d.Prompt, err),
		EvidenceLevel:   d.EvidenceLevel,
		Reference:       d.Reference,
		Recommendations: []string{},
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		r.Errors = ve.Fields
	}
	return r
}

// Registry looks calculators up by kind.
type Registry struct {
	calculators map[Kind]Calculator
}

// NewRegistry builds a registry from the given calculators. A later
// calculator with the same kind replaces an earlier one.
func NewRegistry(calcs ...Calculator) *Registry {
	r := &Registry{calculators: make(map[Kind]Calculator, len(calcs))}
	for _, c := range calcs {
		r.calculators[c.Descriptor().Kind] = c
	}
	return r
}

// DefaultRegistry holds BSA, creatinine clearance and carboplatin dosing.
func DefaultRegistry() *Registry {
	return NewRegistry(BSACalculator{}, CreatinineClearanceEstimator{}, CarboplatinDoseCalculator{})
}

// Get returns the calculator for kind.
func (r *Registry) Get(kind Kind) (Calculator, error) {
	c, ok := r.calculators[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCalculator, kind)
	}
	return c, nil
}

// Calculate evaluates the calculator selected by kind against raw.
func (r *Registry) Calculate(kind Kind, raw Fields) (Result, error) {
	c, err := r.Get(kind)
	if err != nil {
		return Result{}, err
	}
	return Evaluate(c, raw), nil
}

// Descriptors returns every registered descriptor sorted by kind.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(r.calculators))
	for _, c := range r.calculators {
		out = append(out, c.Descriptor())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}

var defaultRegistry = DefaultRegistry()

// Calculate evaluates one of the built-in calculators.
func Calculate(kind Kind, raw Fields) (Result, error) {
	return defaultRegistry.Calculate(kind, raw)
}
