package kinematics

import "fmt"

// Label is the role a gear plays in the chain.
type Label int

const (
	Driver Label = iota
	Idler
	Driven
)

func (l Label) String() string {
	switch l {
	case Driver:
		return "Driver"
	case Idler:
		return "Idler"
	case Driven:
		return "Driven"
	default:
		return fmt.Sprintf("Label(%d)", int(l))
	}
}

// MarshalText lets labels appear by name in JSON payloads.
func (l Label) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText parses a label name as produced by MarshalText.
func (l *Label) UnmarshalText(b []byte) error {
	for _, c := range []Label{Driver, Idler, Driven} {
		if c.String() == string(b) {
			*l = c
			return nil
		}
	}
	return fmt.Errorf("unknown gear label %q", b)
}

// Gear is one computed gear in a chain.
type Gear struct {
	Label    Label   `json:"type"`
	Teeth    int     `json:"teeth"`
	Diameter float64 `json:"diameter"`
	Speed    float64 `json:"speed"`
}

// Chain is the ordered list of gears, driver first.
type Chain []Gear

// Params are the user-supplied inputs of one calculation.
type Params struct {
	Module     float64   `json:"module"`
	BaseTeeth  int       `json:"base_teeth"`
	InputSpeed float64   `json:"input_speed"`
	Ratios     []float64 `json:"ratios"`
}

// DefaultParams mirrors the defaults shown on the input form.
func DefaultParams() Params {
	return Params{
		Module:     2.0,
		BaseTeeth:  20,
		InputSpeed: 1000.0,
		Ratios:     []float64{2, 1.5},
	}
}

// DefaultRatios is the textual form of DefaultParams().Ratios.
const DefaultRatios = "2 1.5"

// Options selects the policies applied by Compute. The zero value
// truncates tooth counts and accepts any non-zero ratio.
type Options struct {
	ToothPolicy     ToothPolicy
	RatioValidation RatioValidation
}

// Diameters returns the pitch diameter of every gear.
func (c Chain) Diameters() []float64 {
	out := make([]float64, len(c))
	for i, g := range c {
		out[i] = g.Diameter
	}
	return out
}

// Labels returns the display name of every gear.
func (c Chain) Labels() []string {
	out := make([]string, len(c))
	for i, g := range c {
		out[i] = g.Label.String()
	}
	return out
}

// Teeth returns the tooth count of every gear.
func (c Chain) Teeth() []int {
	out := make([]int, len(c))
	for i, g := range c {
		out[i] = g.Teeth
	}
	return out
}

// Output returns the last gear in the chain.
func (c Chain) Output() Gear {
	return c[len(c)-1]
}

// OverallRatio is input speed over output speed. It is zero for an empty
// chain or when the input speed is zero.
func (c Chain) OverallRatio() float64 {
	if len(c) == 0 || c.Output().Speed == 0 {
		return 0
	}
	return c[0].Speed / c.Output().Speed
}
