// Package schematic lays out a computed gear chain as a stylized drawing
// and renders it as SVG or PNG.
//
// The layout is purely presentational. Pitch circles are separated by a
// fixed gap rather than a meshing center distance, and nothing here feeds
// back into the kinematics.
package schematic

import "math"

// Point is a position in scene units, y pointing up.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Outline approximates a gear silhouette with triangular teeth. The full
// turn is split into toothCount equal steps; each step contributes a tip
// at radius+toothDepth on its start angle and a root at radius-toothDepth
// halfway to the next step. The polygon is closed by repeating the first
// point, so the result has 2*toothCount+1 points. It is nil when
// toothCount is below one.
func Outline(center Point, radius float64, toothCount int, toothDepth float64) []Point {
	if toothCount < 1 {
		return nil
	}

	step := 2 * math.Pi / float64(toothCount)
	tip := radius + toothDepth
	root := radius - toothDepth

	pts := make([]Point, 0, 2*toothCount+1)
	for i := 0; i < toothCount; i++ {
		a := step * float64(i)
		mid := a + step/2
		pts = append(pts,
			Point{X: center.X + tip*math.Cos(a), Y: center.Y + tip*math.Sin(a)},
			Point{X: center.X + root*math.Cos(mid), Y: center.Y + root*math.Sin(mid)},
		)
	}
	return append(pts, pts[0])
}
