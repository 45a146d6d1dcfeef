package schematic

import (
	"errors"
	"fmt"
	"math"

	"geartrain/internal/kinematics"
)

// Layout constants, in scene units (the chain's diameter unit).
const (
	Spacing          = 1.2
	ToothDepthFactor = 0.13
	HubFactor        = 0.15
	LabelOffset      = 0.5
	AxisOverhang     = 0.5
)

// MaxDrawableTeeth is the largest tooth count ComposeScene will outline.
const MaxDrawableTeeth = 10000

// Title is drawn above every scene.
const Title = "Stylized Gear Train (Calculated from Ratios)"

// ErrDegenerateGear is returned for gears that have no drawable outline.
var ErrDegenerateGear = errors.New("gear cannot be drawn")

// SceneGear is one drawn gear.
type SceneGear struct {
	Index     int     `json:"index"`
	Label     string  `json:"label"`
	Teeth     int     `json:"teeth"`
	Center    Point   `json:"center"`
	Radius    float64 `json:"radius"`
	Outline   []Point `json:"outline"`
	HubRadius float64 `json:"hub_radius"`
	// Shaft is the bar drawn across the hub.
	Shaft   [2]Point `json:"shaft"`
	LabelAt Point    `json:"label_at"`
}

// Bounds is an axis-aligned box in scene units.
type Bounds struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

func (b Bounds) Width() float64  { return b.Max.X - b.Min.X }
func (b Bounds) Height() float64 { return b.Max.Y - b.Min.Y }

func (b Bounds) extend(p Point) Bounds {
	b.Min.X = math.Min(b.Min.X, p.X)
	b.Min.Y = math.Min(b.Min.Y, p.Y)
	b.Max.X = math.Max(b.Max.X, p.X)
	b.Max.Y = math.Max(b.Max.Y, p.Y)
	return b
}

// Scene is the drawable layout of one chain.
type Scene struct {
	Title  string      `json:"title"`
	Gears  []SceneGear `json:"gears"`
	Axis   [2]Point    `json:"axis"`
	Bounds Bounds      `json:"bounds"`
}

// ComposeScene places the gears of chain left to right on the x axis.
// The first center sits at its own radius; each following center is
// previous center + previous radius + Spacing + own radius.
func ComposeScene(chain kinematics.Chain) (Scene, error) {
	if len(chain) == 0 {
		return Scene{}, fmt.Errorf("empty chain: %w", ErrDegenerateGear)
	}

	gears := make([]SceneGear, 0, len(chain))
	next := 0.0
	for i, g := range chain {
		if g.Teeth < 1 || g.Teeth > MaxDrawableTeeth || !(g.Diameter > 0) {
			return Scene{}, fmt.Errorf("gear %d (%d teeth, diameter %g): %w", i+1, g.Teeth, g.Diameter, ErrDegenerateGear)
		}

		r := g.Diameter / 2
		c := Point{X: next + r}
		next = c.X + r + Spacing

		hub := HubFactor * r
		gears = append(gears, SceneGear{
			Index:     i + 1,
			Label:     g.Label.String(),
			Teeth:     g.Teeth,
			Center:    c,
			Radius:    r,
			Outline:   Outline(c, r, g.Teeth, ToothDepthFactor*r),
			HubRadius: hub,
			Shaft:     [2]Point{{X: c.X - hub, Y: c.Y}, {X: c.X + hub, Y: c.Y}},
			LabelAt:   Point{X: c.X, Y: c.Y - r - LabelOffset},
		})
	}

	first, last := gears[0], gears[len(gears)-1]
	axis := [2]Point{
		{X: first.Center.X - first.Radius - AxisOverhang},
		{X: last.Center.X + last.Radius + AxisOverhang},
	}

	b := Bounds{Min: axis[0], Max: axis[1]}
	for _, g := range gears {
		for _, p := range g.Outline {
			b = b.extend(p)
		}
		b = b.extend(g.LabelAt)
	}

	return Scene{Title: Title, Gears: gears, Axis: axis, Bounds: b}, nil
}
