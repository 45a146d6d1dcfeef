package schematic

import "math"

// Pixel layout shared by the SVG and PNG renderers.
const (
	marginPx      = 20.0
	titlePx       = 48.0
	labelRoomPx   = 32.0
	titleFontPx   = 16.0
	labelFontPx   = 14.0
	pxPerGear     = 300
	minWidthPx    = 300
	maxWidthPx    = 2400
	outlineStroke = 2.0
	shaftStroke   = 4.0
)

// DefaultWidth picks an image width for a scene of n gears.
func DefaultWidth(n int) int {
	w := n * pxPerGear
	if w < minWidthPx {
		return minWidthPx
	}
	if w > maxWidthPx {
		return maxWidthPx
	}
	return w
}

// viewport maps scene units (y up) to pixels (y down), keeping the
// aspect ratio equal on both axes.
type viewport struct {
	bounds Bounds
	scale  float64
	width  int
	height int
}

func newViewport(b Bounds, width int) viewport {
	if width <= 0 {
		width = minWidthPx
	}
	scale := 1.0
	if b.Width() > 0 {
		scale = (float64(width) - 2*marginPx) / b.Width()
	}
	height := titlePx + b.Height()*scale + labelRoomPx + marginPx
	return viewport{
		bounds: b,
		scale:  scale,
		width:  width,
		height: int(math.Ceil(height)),
	}
}

func (v viewport) x(x float64) float64 { return marginPx + (x-v.bounds.Min.X)*v.scale }
func (v viewport) y(y float64) float64 { return titlePx + (v.bounds.Max.Y-y)*v.scale }

func (v viewport) point(p Point) (float64, float64) { return v.x(p.X), v.y(p.Y) }

func (v viewport) length(d float64) float64 { return d * v.scale }

func round(f float64) int { return int(math.Round(f)) }
