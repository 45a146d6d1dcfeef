package schematic

import (
	"fmt"
	"io"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
)

// labelFont is parsed once and shared by every render.
var labelFont = sync.OnceValues(func() (*text.FontSource, error) {
	return text.NewFontSource(gobold.TTF)
})

// WritePNG rasterises s into a PNG image width pixels wide.
func WritePNG(w io.Writer, s Scene, width int) error {
	source, err := labelFont()
	if err != nil {
		return fmt.Errorf("load label font: %w", err)
	}

	v := newViewport(s.Bounds, width)
	dc := gg.NewContext(v.width, v.height)
	defer dc.Close()

	dc.ClearWithColor(gg.White)
	dc.SetRGB(0, 0, 0)

	dc.SetFont(source.Face(titleFontPx))
	dc.DrawStringAnchored(s.Title, float64(v.width)/2, titlePx/2, 0.5, 0.5)

	dc.SetLineWidth(outlineStroke)
	ax1, ay1 := v.point(s.Axis[0])
	ax2, ay2 := v.point(s.Axis[1])
	dc.DrawLine(ax1, ay1, ax2, ay2)
	if err := dc.Stroke(); err != nil {
		return fmt.Errorf("draw axis: %w", err)
	}

	dc.SetFont(source.Face(labelFontPx))
	for _, g := range s.Gears {
		if err := drawGear(dc, v, g); err != nil {
			return fmt.Errorf("draw gear %d: %w", g.Index, err)
		}
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func drawGear(dc *gg.Context, v viewport, g SceneGear) error {
	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(outlineStroke)
	for i, p := range g.Outline {
		x, y := v.point(p)
		if i == 0 {
			dc.MoveTo(x, y)
			continue
		}
		dc.LineTo(x, y)
	}
	dc.ClosePath()
	if err := dc.Stroke(); err != nil {
		return err
	}

	cx, cy := v.point(g.Center)
	dc.DrawCircle(cx, cy, v.length(g.HubRadius))
	dc.SetRGB(1, 1, 1)
	if err := dc.FillPreserve(); err != nil {
		return err
	}
	dc.SetRGB(0, 0, 0)
	if err := dc.Stroke(); err != nil {
		return err
	}

	dc.SetLineWidth(shaftStroke)
	sx1, sy1 := v.point(g.Shaft[0])
	sx2, sy2 := v.point(g.Shaft[1])
	dc.DrawLine(sx1, sy1, sx2, sy2)
	if err := dc.Stroke(); err != nil {
		return err
	}

	lx, ly := v.point(g.LabelAt)
	dc.DrawStringAnchored(g.Label, lx, ly, 0.5, 1)
	return nil
}
