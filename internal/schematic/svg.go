package schematic

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"
)

const (
	outlineStyle = "fill:none;stroke:black;stroke-width:2;stroke-linejoin:round"
	hubStyle     = "fill:white;stroke:black;stroke-width:2"
	shaftStyle   = "stroke:black;stroke-width:4"
	axisStyle    = "stroke:black;stroke-width:2"
	labelStyle   = "text-anchor:middle;dominant-baseline:hanging;font-family:sans-serif;font-size:14px;font-weight:bold"
	titleStyle   = "text-anchor:middle;font-family:sans-serif;font-size:16px"
)

// errWriter keeps the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

// WriteSVG draws s as a standalone SVG document width pixels wide.
func WriteSVG(w io.Writer, s Scene, width int) error {
	ew := &errWriter{w: w}
	v := newViewport(s.Bounds, width)

	canvas := svg.New(ew)
	canvas.Start(v.width, v.height)
	canvas.Title(s.Title)
	canvas.Rect(0, 0, v.width, v.height, "fill:white")
	canvas.Text(v.width/2, round(titlePx/2), s.Title, titleStyle)

	ax1, ay1 := v.point(s.Axis[0])
	ax2, ay2 := v.point(s.Axis[1])
	canvas.Line(round(ax1), round(ay1), round(ax2), round(ay2), axisStyle)

	for _, g := range s.Gears {
		canvas.Gid(fmt.Sprintf("gear-%d", g.Index))

		xs := make([]int, len(g.Outline))
		ys := make([]int, len(g.Outline))
		for i, p := range g.Outline {
			x, y := v.point(p)
			xs[i], ys[i] = round(x), round(y)
		}
		canvas.Polyline(xs, ys, outlineStyle)

		cx, cy := v.point(g.Center)
		hub := round(v.length(g.HubRadius))
		if hub < 1 {
			hub = 1
		}
		canvas.Circle(round(cx), round(cy), hub, hubStyle)

		sx1, sy1 := v.point(g.Shaft[0])
		sx2, sy2 := v.point(g.Shaft[1])
		canvas.Line(round(sx1), round(sy1), round(sx2), round(sy2), shaftStyle)

		lx, ly := v.point(g.LabelAt)
		canvas.Text(round(lx), round(ly), g.Label, labelStyle)

		canvas.Gend()
	}

	canvas.End()
	if ew.err != nil {
		return fmt.Errorf("write svg: %w", ew.err)
	}
	return nil
}
