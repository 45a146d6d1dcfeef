package geartrain

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"geartrain/internal/kinematics"
)

// Submission is the raw text of one set of inputs, as typed into the form
// or passed as query parameters.
type Submission struct {
	Module          string
	BaseTeeth       string
	InputSpeed      string
	Ratios          string
	ToothPolicy     string
	RatioValidation string
}

// DefaultSubmission holds the values the form starts with.
func DefaultSubmission(defaults kinematics.Options) Submission {
	p := kinematics.DefaultParams()
	return Submission{
		Module:          strconv.FormatFloat(p.Module, 'f', 1, 64),
		BaseTeeth:       strconv.Itoa(p.BaseTeeth),
		InputSpeed:      strconv.FormatFloat(p.InputSpeed, 'f', 1, 64),
		Ratios:          kinematics.DefaultRatios,
		ToothPolicy:     defaults.ToothPolicy.String(),
		RatioValidation: defaults.RatioValidation.String(),
	}
}

// submissionFromValues reads form or query values; a missing key keeps
// the default.
func submissionFromValues(v url.Values, defaults kinematics.Options) Submission {
	s := DefaultSubmission(defaults)
	pick := func(dst *string, key string) {
		if _, ok := v[key]; ok {
			*dst = v.Get(key)
		}
	}
	pick(&s.Module, "module")
	pick(&s.BaseTeeth, "base_teeth")
	pick(&s.InputSpeed, "input_speed")
	pick(&s.Ratios, "ratios")
	pick(&s.ToothPolicy, "tooth_policy")
	pick(&s.RatioValidation, "ratio_validation")
	return s
}

func submissionFromRequest(req ComputeRequest, defaults kinematics.Options) Submission {
	s := Submission{
		Module:          strconv.FormatFloat(req.Module, 'g', -1, 64),
		BaseTeeth:       strconv.Itoa(req.BaseTeeth),
		InputSpeed:      strconv.FormatFloat(req.InputSpeed, 'g', -1, 64),
		Ratios:          req.Ratios,
		ToothPolicy:     req.ToothPolicy,
		RatioValidation: req.RatioValidation,
	}
	if s.ToothPolicy == "" {
		s.ToothPolicy = defaults.ToothPolicy.String()
	}
	if s.RatioValidation == "" {
		s.RatioValidation = defaults.RatioValidation.String()
	}
	return s
}

// Input is a parsed submission, ready for kinematics.Compute.
type Input struct {
	Params  kinematics.Params
	Options kinematics.Options
}

// Parse converts the submission, failing on the first bad field. Ratio
// tokens fail with a *kinematics.ParseError.
func (s Submission) Parse() (Input, error) {
	module, err := strconv.ParseFloat(strings.TrimSpace(s.Module), 64)
	if err != nil {
		return Input{}, &kinematics.ValidationError{Field: "module", Reason: fmt.Sprintf("%q is not a number", s.Module)}
	}
	teeth, err := strconv.Atoi(strings.TrimSpace(s.BaseTeeth))
	if err != nil {
		return Input{}, &kinematics.ValidationError{Field: "base_teeth", Reason: fmt.Sprintf("%q is not a whole number", s.BaseTeeth)}
	}
	speed, err := strconv.ParseFloat(strings.TrimSpace(s.InputSpeed), 64)
	if err != nil {
		return Input{}, &kinematics.ValidationError{Field: "input_speed", Reason: fmt.Sprintf("%q is not a number", s.InputSpeed)}
	}
	ratios, err := kinematics.ParseRatios(s.Ratios)
	if err != nil {
		return Input{}, err
	}
	opts, err := kinematics.ParseOptions(s.ToothPolicy, s.RatioValidation)
	if err != nil {
		return Input{}, err
	}

	return Input{
		Params: kinematics.Params{
			Module:     module,
			BaseTeeth:  teeth,
			InputSpeed: speed,
			Ratios:     ratios,
		},
		Options: opts,
	}, nil
}
