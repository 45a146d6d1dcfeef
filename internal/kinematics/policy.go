package kinematics

import (
	"fmt"
	"math"
	"strings"
)

// ToothPolicy decides how a real-valued tooth product becomes an integer.
type ToothPolicy int

const (
	// Truncate drops the fractional part, toward zero.
	Truncate ToothPolicy = iota
	// Round rounds half away from zero.
	Round
	// RejectFractional fails the calculation on any fractional product.
	RejectFractional
)

func (p ToothPolicy) String() string {
	switch p {
	case Truncate:
		return "truncate"
	case Round:
		return "round"
	case RejectFractional:
		return "reject"
	default:
		return fmt.Sprintf("ToothPolicy(%d)", int(p))
	}
}

// ParseToothPolicy accepts "truncate", "round" or "reject". The empty
// string selects Truncate.
func ParseToothPolicy(s string) (ToothPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "truncate":
		return Truncate, nil
	case "round":
		return Round, nil
	case "reject":
		return RejectFractional, nil
	}
	return 0, &ValidationError{Field: "tooth_policy", Reason: fmt.Sprintf("unknown tooth policy %q", s)}
}

// MaxTeeth bounds any computed tooth count, positive or negative.
const MaxTeeth = math.MaxInt32

func (p ToothPolicy) apply(index int, product float64) (int, error) {
	if math.Abs(product) > MaxTeeth {
		return 0, &ValidationError{
			Field:  "ratios",
			Reason: fmt.Sprintf("gear %d would have %g teeth, more than %d", index+1, product, MaxTeeth),
		}
	}
	switch p {
	case Round:
		return int(math.Round(product)), nil
	case RejectFractional:
		if product != math.Trunc(product) {
			return 0, &ToothCountError{Index: index, Value: product}
		}
		return int(product), nil
	default:
		return int(math.Trunc(product)), nil
	}
}

// RatioValidation decides which ratios Compute accepts besides zero,
// which is always a DivisionError.
type RatioValidation int

const (
	// AcceptAll lets negative and fractional ratios through unchanged.
	AcceptAll RatioValidation = iota
	// RejectNegative fails on any ratio below zero.
	RejectNegative
)

func (v RatioValidation) String() string {
	switch v {
	case AcceptAll:
		return "accept"
	case RejectNegative:
		return "reject-negative"
	default:
		return fmt.Sprintf("RatioValidation(%d)", int(v))
	}
}

// ParseRatioValidation accepts "accept" or "reject-negative". The empty
// string selects AcceptAll.
func ParseRatioValidation(s string) (RatioValidation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "accept":
		return AcceptAll, nil
	case "reject-negative":
		return RejectNegative, nil
	}
	return 0, &ValidationError{Field: "ratio_validation", Reason: fmt.Sprintf("unknown ratio validation %q", s)}
}

// ParseOptions parses both policies, failing on the first bad one.
func ParseOptions(toothPolicy, ratioValidation string) (Options, error) {
	tp, err := ParseToothPolicy(toothPolicy)
	if err != nil {
		return Options{}, err
	}
	rv, err := ParseRatioValidation(ratioValidation)
	if err != nil {
		return Options{}, err
	}
	return Options{ToothPolicy: tp, RatioValidation: rv}, nil
}
