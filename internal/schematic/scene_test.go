package schematic

import (
	"bytes"
	"errors"
	"image/png"
	"math"
	"strings"
	"testing"

	"geartrain/internal/kinematics"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func defaultChain(t *testing.T) kinematics.Chain {
	t.Helper()
	chain, err := kinematics.Compute(kinematics.DefaultParams(), kinematics.Options{})
	if err != nil {
		t.Fatalf("computing chain: %v", err)
	}
	return chain
}

func TestComposeSceneLayout(t *testing.T) {
	scene, err := ComposeScene(defaultChain(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Diameters 40, 80, 120.
	wantCenters := []float64{20, 20 + 20 + Spacing + 40, 20 + 20 + Spacing + 40 + 40 + Spacing + 60}
	gotCenters := make([]float64, len(scene.Gears))
	for i, g := range scene.Gears {
		gotCenters[i] = g.Center.X
		if g.Center.Y != 0 {
			t.Fatalf("gear %d: expected center on the x axis, got y=%g", i+1, g.Center.Y)
		}
	}
	if diff := cmp.Diff(wantCenters, gotCenters, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Fatalf("centers mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"Driver", "Driver", "Driven"}, []string{scene.Gears[0].Label, scene.Gears[1].Label, scene.Gears[2].Label}); diff != "" {
		t.Fatalf("labels mismatch (-want +got):\n%s", diff)
	}

	if scene.Axis[0].X != -AxisOverhang {
		t.Fatalf("expected axis to start at %g, got %g", -AxisOverhang, scene.Axis[0].X)
	}
	if want := wantCenters[2] + 60 + AxisOverhang; math.Abs(scene.Axis[1].X-want) > 1e-9 {
		t.Fatalf("expected axis to end at %g, got %g", want, scene.Axis[1].X)
	}
}

func TestComposeSceneGearDecorations(t *testing.T) {
	scene, err := ComposeScene(defaultChain(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, g := range scene.Gears {
		if len(g.Outline) != 2*g.Teeth+1 {
			t.Fatalf("gear %d: expected %d outline points, got %d", g.Index, 2*g.Teeth+1, len(g.Outline))
		}
		if g.HubRadius != HubFactor*g.Radius {
			t.Fatalf("gear %d: expected hub radius %g, got %g", g.Index, HubFactor*g.Radius, g.HubRadius)
		}
		if g.Shaft[0].X != g.Center.X-g.HubRadius || g.Shaft[1].X != g.Center.X+g.HubRadius {
			t.Fatalf("gear %d: shaft %v does not span the hub", g.Index, g.Shaft)
		}
		if g.LabelAt.Y != -g.Radius-LabelOffset {
			t.Fatalf("gear %d: expected label at y=%g, got %g", g.Index, -g.Radius-LabelOffset, g.LabelAt.Y)
		}
		tip := math.Hypot(g.Outline[0].X-g.Center.X, g.Outline[0].Y-g.Center.Y)
		if math.Abs(tip-(1+ToothDepthFactor)*g.Radius) > 1e-9 {
			t.Fatalf("gear %d: expected tip radius %g, got %g", g.Index, (1+ToothDepthFactor)*g.Radius, tip)
		}
	}
}

func TestComposeScenePitchCirclesKeepFixedGap(t *testing.T) {
	chain, err := kinematics.Compute(kinematics.Params{Module: 1, BaseTeeth: 9, InputSpeed: 1, Ratios: []float64{3, 0.2, 1, 5}}, kinematics.Options{})
	if err != nil {
		t.Fatalf("computing chain: %v", err)
	}
	scene, err := ComposeScene(chain)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 1; i < len(scene.Gears); i++ {
		prev, cur := scene.Gears[i-1], scene.Gears[i]
		gap := (cur.Center.X - cur.Radius) - (prev.Center.X + prev.Radius)
		if math.Abs(gap-Spacing) > 1e-9 {
			t.Fatalf("gears %d and %d: expected gap %g, got %g", i, i+1, Spacing, gap)
		}
	}
}

func TestComposeSceneLeavesChainUntouched(t *testing.T) {
	chain := defaultChain(t)
	before := append(kinematics.Chain(nil), chain...)

	if _, err := ComposeScene(chain); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(before, chain); diff != "" {
		t.Fatalf("chain modified (-before +after):\n%s", diff)
	}
}

func TestComposeSceneDegenerateGears(t *testing.T) {
	tests := []struct {
		name  string
		chain kinematics.Chain
	}{
		{name: "empty", chain: nil},
		{name: "zero teeth", chain: kinematics.Chain{{Teeth: 20, Diameter: 40}, {Teeth: 0, Diameter: 0}}},
		{name: "negative teeth", chain: kinematics.Chain{{Teeth: 20, Diameter: 40}, {Teeth: -30, Diameter: -60}}},
		{name: "too many teeth", chain: kinematics.Chain{{Teeth: 20, Diameter: 40}, {Teeth: MaxDrawableTeeth + 1, Diameter: 2 * (MaxDrawableTeeth + 1)}}},
		{name: "int32 teeth", chain: kinematics.Chain{{Teeth: 20, Diameter: 40}, {Teeth: math.MaxInt32, Diameter: 2 * math.MaxInt32}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ComposeScene(tc.chain)
			if !errors.Is(err, ErrDegenerateGear) {
				t.Fatalf("expected ErrDegenerateGear, got %v", err)
			}
		})
	}
}

func TestWriteSVG(t *testing.T) {
	scene, err := ComposeScene(defaultChain(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteSVG(&buf, scene, 900); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "<svg") || !strings.Contains(out, "</svg>") {
		t.Fatalf("expected an svg document, got %q", out)
	}
	if got := strings.Count(out, "<polyline"); got != 3 {
		t.Fatalf("expected 3 gear outlines, got %d", got)
	}
	if got := strings.Count(out, "<circle"); got != 3 {
		t.Fatalf("expected 3 hubs, got %d", got)
	}
	for _, want := range []string{"Driver", "Driven", Title, `id="gear-3"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected svg to contain %q", want)
		}
	}
}

func TestWritePNG(t *testing.T) {
	scene, err := ComposeScene(defaultChain(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var buf bytes.Buffer
	if err := WritePNG(&buf, scene, 600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decoding png: %v", err)
	}
	if got := img.Bounds().Dx(); got != 600 {
		t.Fatalf("expected width 600, got %d", got)
	}
}

func TestDefaultWidth(t *testing.T) {
	tests := []struct{ n, want int }{
		{0, minWidthPx},
		{1, 300},
		{3, 900},
		{100, maxWidthPx},
	}
	for _, tc := range tests {
		if got := DefaultWidth(tc.n); got != tc.want {
			t.Fatalf("DefaultWidth(%d): expected %d, got %d", tc.n, tc.want, got)
		}
	}
}

func TestComposeSceneAcceptsMaxDrawableTeeth(t *testing.T) {
	chain := kinematics.Chain{{Teeth: MaxDrawableTeeth, Diameter: 2 * MaxDrawableTeeth}}

	scene, err := ComposeScene(chain)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(scene.Gears[0].Outline); got != 2*MaxDrawableTeeth+1 {
		t.Fatalf("expected %d outline points, got %d", 2*MaxDrawableTeeth+1, got)
	}
}
