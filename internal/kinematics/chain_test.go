package kinematics

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestComputeSingleRatio(t *testing.T) {
	p := Params{Module: 2.0, BaseTeeth: 20, InputSpeed: 750, Ratios: []float64{2}}

	got, err := Compute(p, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := Chain{
		{Label: Driver, Teeth: 20, Diameter: 40, Speed: 750},
		{Label: Driven, Teeth: 40, Diameter: 80, Speed: 375},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("chain mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeDefaultScenario(t *testing.T) {
	got, err := Compute(DefaultParams(), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []struct {
		label    string
		teeth    int
		diameter string
		speed    string
	}{
		{"Driver", 20, "40.00", "1000.00"},
		{"Driver", 40, "80.00", "500.00"},
		{"Driven", 60, "120.00", "333.33"},
	}

	if len(got) != len(want) {
		t.Fatalf("expected %d gears, got %d", len(want), len(got))
	}
	for i, w := range want {
		g := got[i]
		if g.Label.String() != w.label || g.Teeth != w.teeth ||
			fmt.Sprintf("%.2f", g.Diameter) != w.diameter || fmt.Sprintf("%.2f", g.Speed) != w.speed {
			t.Fatalf("gear %d: expected %v, got %+v", i+1, w, g)
		}
	}
}

func TestComputeEmptyRatios(t *testing.T) {
	got, err := Compute(Params{Module: 1.5, BaseTeeth: 12, InputSpeed: 60}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 gear, got %d", len(got))
	}
	if got[0].Label != Driver {
		t.Fatalf("expected Driver, got %s", got[0].Label)
	}
}

func TestComputeLabels(t *testing.T) {
	tests := []struct {
		name   string
		ratios []float64
		want   []string
	}{
		{name: "idler in the middle", ratios: []float64{2, 1, 3}, want: []string{"Driver", "Driver", "Idler", "Driven"}},
		{name: "unit ratio last is driven", ratios: []float64{2, 1}, want: []string{"Driver", "Driver", "Driven"}},
		{name: "near one is not idler", ratios: []float64{1.0000001, 2}, want: []string{"Driver", "Driver", "Driven"}},
		{name: "all idlers", ratios: []float64{1, 1, 1}, want: []string{"Driver", "Idler", "Idler", "Driven"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			chain, err := Compute(Params{Module: 1, BaseTeeth: 10, InputSpeed: 100, Ratios: tc.ratios}, Options{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tc.want, chain.Labels()); diff != "" {
				t.Fatalf("labels mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestComputeZeroRatioFails(t *testing.T) {
	for _, ratios := range [][]float64{{0}, {2, 0}, {2, 1.5, 0, 3}} {
		chain, err := Compute(Params{Module: 2, BaseTeeth: 20, InputSpeed: 1000, Ratios: ratios}, Options{})

		var divErr *DivisionError
		if !errors.As(err, &divErr) {
			t.Fatalf("ratios %v: expected DivisionError, got %v", ratios, err)
		}
		if chain != nil {
			t.Fatalf("ratios %v: expected no chain, got %v", ratios, chain)
		}
	}
}

func TestComputeDiameterIsTeethTimesModule(t *testing.T) {
	modules := []float64{0.1, 0.3, 1.25, 2, 3.7}
	ratios := []float64{1.7, 0.33, 2.5, 1, 0.9, 3.14159}

	for _, m := range modules {
		chain, err := Compute(Params{Module: m, BaseTeeth: 37, InputSpeed: 1440, Ratios: ratios}, Options{})
		if err != nil {
			t.Fatalf("module %g: unexpected error: %v", m, err)
		}
		for i, g := range chain {
			if g.Diameter != float64(g.Teeth)*m {
				t.Fatalf("module %g gear %d: diameter %v != %d * %g", m, i, g.Diameter, g.Teeth, m)
			}
		}
	}
}

func TestComputeSpeedFollowsRatios(t *testing.T) {
	ratios := []float64{3, 0.5, 1, 7}
	chain, err := Compute(Params{Module: 1, BaseTeeth: 18, InputSpeed: 3000, Ratios: ratios}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(chain); i++ {
		if want := chain[i-1].Speed / ratios[i-1]; chain[i].Speed != want {
			t.Fatalf("gear %d: expected speed %v, got %v", i, want, chain[i].Speed)
		}
	}
}

func TestComputeIsDeterministic(t *testing.T) {
	p := Params{Module: 1.75, BaseTeeth: 23, InputSpeed: 987.6, Ratios: []float64{1.3, 1, 2.71, 0.4}}

	first, err := Compute(p, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Compute(p, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("repeated compute differs (-first +second):\n%s", diff)
	}
}

func TestComputeToothPolicies(t *testing.T) {
	p := Params{Module: 1, BaseTeeth: 15, InputSpeed: 100, Ratios: []float64{1.7}}

	tests := []struct {
		policy ToothPolicy
		want   int
	}{
		{policy: Truncate, want: 25},
		{policy: Round, want: 26},
	}
	for _, tc := range tests {
		t.Run(tc.policy.String(), func(t *testing.T) {
			chain, err := Compute(p, Options{ToothPolicy: tc.policy})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := chain.Output().Teeth; got != tc.want {
				t.Fatalf("expected %d teeth, got %d", tc.want, got)
			}
		})
	}

	t.Run("reject", func(t *testing.T) {
		_, err := Compute(p, Options{ToothPolicy: RejectFractional})
		var tcErr *ToothCountError
		if !errors.As(err, &tcErr) {
			t.Fatalf("expected ToothCountError, got %v", err)
		}
		if tcErr.Index != 1 {
			t.Fatalf("expected gear index 1, got %d", tcErr.Index)
		}
	})

	t.Run("reject accepts whole products", func(t *testing.T) {
		chain, err := Compute(Params{Module: 1, BaseTeeth: 20, InputSpeed: 100, Ratios: []float64{1.5, 2}}, Options{ToothPolicy: RejectFractional})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff([]int{20, 30, 60}, chain.Teeth()); diff != "" {
			t.Fatalf("teeth mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestComputeNegativeRatios(t *testing.T) {
	p := Params{Module: 1, BaseTeeth: 15, InputSpeed: 100, Ratios: []float64{-1.5}}

	chain, err := Compute(p, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// -22.5 truncates toward zero.
	if got := chain.Output().Teeth; got != -22 {
		t.Fatalf("expected -22 teeth, got %d", got)
	}

	_, err = Compute(p, Options{RatioValidation: RejectNegative})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if vErr.Field != "ratios" {
		t.Fatalf("expected field ratios, got %q", vErr.Field)
	}
}

func TestComputeRejectsBadBaseParameters(t *testing.T) {
	tests := []struct {
		name  string
		p     Params
		field string
	}{
		{name: "zero module", p: Params{Module: 0, BaseTeeth: 20}, field: "module"},
		{name: "negative module", p: Params{Module: -1, BaseTeeth: 20}, field: "module"},
		{name: "zero teeth", p: Params{Module: 2, BaseTeeth: 0}, field: "base_teeth"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Compute(tc.p, Options{})
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if vErr.Field != tc.field {
				t.Fatalf("expected field %q, got %q", tc.field, vErr.Field)
			}
		})
	}
}

func TestChainOverallRatio(t *testing.T) {
	chain, err := Compute(DefaultParams(), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := chain.OverallRatio(); got < 2.9999 || got > 3.0001 {
		t.Fatalf("expected overall ratio 3, got %v", got)
	}
}

func TestComputeRejectsToothCountsBeyondMaxTeeth(t *testing.T) {
	tests := []struct {
		name   string
		ratios []float64
		policy ToothPolicy
	}{
		{name: "huge ratio", ratios: []float64{1e12}},
		{name: "huge negative ratio", ratios: []float64{-1e12}},
		{name: "grows along the chain", ratios: []float64{1e5, 1e5}},
		{name: "round policy", ratios: []float64{1e12}, policy: Round},
		{name: "reject policy", ratios: []float64{1e12}, policy: RejectFractional},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := Params{Module: 2, BaseTeeth: 20, InputSpeed: 1000, Ratios: tc.ratios}
			chain, err := Compute(p, Options{ToothPolicy: tc.policy})

			var valErr *ValidationError
			if !errors.As(err, &valErr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if valErr.Field != "ratios" {
				t.Fatalf("expected ratios field, got %q", valErr.Field)
			}
			if chain != nil {
				t.Fatalf("expected no partial chain, got %v", chain)
			}
		})
	}
}

func TestComputeAcceptsMaxTeeth(t *testing.T) {
	p := Params{Module: 1, BaseTeeth: 1, InputSpeed: 1, Ratios: []float64{MaxTeeth}}

	chain, err := Compute(p, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := chain.Output().Teeth; got != MaxTeeth {
		t.Fatalf("expected %d teeth, got %d", MaxTeeth, got)
	}
}
