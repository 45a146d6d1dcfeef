// Package kinematics computes tooth counts, pitch diameters and speeds
// along a chain of gears described by successive ratios.
package kinematics

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseRatios splits s on whitespace and parses every token as a float.
// It stops at the first bad token.
func ParseRatios(s string) ([]float64, error) {
	fields := strings.Fields(s)
	ratios := make([]float64, 0, len(fields))
	for i, tok := range fields {
		r, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, &ParseError{Index: i, Token: tok, Err: err}
		}
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return nil, &ParseError{Index: i, Token: tok, Err: strconv.ErrRange}
		}
		ratios = append(ratios, r)
	}
	return ratios, nil
}

// FormatRatios is the inverse of ParseRatios.
func FormatRatios(ratios []float64) string {
	parts := make([]string, len(ratios))
	for i, r := range ratios {
		parts[i] = strconv.FormatFloat(r, 'g', -1, 64)
	}
	return strings.Join(parts, " ")
}

// Compute builds the gear chain for p. Gear i+1 has teeth[i]*ratio[i]
// teeth (converted per opts.ToothPolicy) and turns at speed[i]/ratio[i].
// The last gear is Driven, a gear behind a ratio of exactly 1 is an
// Idler, and every other gear is a Driver.
func Compute(p Params, opts Options) (Chain, error) {
	if err := validate(p, opts); err != nil {
		return nil, err
	}

	chain := make(Chain, 0, len(p.Ratios)+1)
	chain = append(chain, Gear{
		Label:    Driver,
		Teeth:    p.BaseTeeth,
		Diameter: float64(p.BaseTeeth) * p.Module,
		Speed:    p.InputSpeed,
	})

	last := len(p.Ratios) - 1
	for i, r := range p.Ratios {
		prev := chain[i]

		teeth, err := opts.ToothPolicy.apply(i+1, float64(prev.Teeth)*r)
		if err != nil {
			return nil, err
		}

		label := Driver
		switch {
		case i == last:
			label = Driven
		case r == 1:
			label = Idler
		}

		chain = append(chain, Gear{
			Label:    label,
			Teeth:    teeth,
			Diameter: float64(teeth) * p.Module,
			Speed:    prev.Speed / r,
		})
	}

	return chain, nil
}

func validate(p Params, opts Options) error {
	if !(p.Module > 0) || math.IsInf(p.Module, 0) {
		return &ValidationError{Field: "module", Reason: fmt.Sprintf("must be a positive number, got %g", p.Module)}
	}
	if p.BaseTeeth <= 0 {
		return &ValidationError{Field: "base_teeth", Reason: fmt.Sprintf("must be positive, got %d", p.BaseTeeth)}
	}
	if math.IsNaN(p.InputSpeed) || math.IsInf(p.InputSpeed, 0) {
		return &ValidationError{Field: "input_speed", Reason: "must be a finite number"}
	}

	// Zero is checked across the whole sequence first so no partial
	// chain is ever built.
	for i, r := range p.Ratios {
		if r == 0 {
			return &DivisionError{Index: i}
		}
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return &ValidationError{Field: "ratios", Reason: fmt.Sprintf("ratio %d is not finite", i+1)}
		}
		if opts.RatioValidation == RejectNegative && r < 0 {
			return &ValidationError{Field: "ratios", Reason: fmt.Sprintf("ratio %d is negative (%g)", i+1, r)}
		}
	}
	return nil
}
