package report

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/phpdave11/gofpdf"

	"geartrain/internal/kinematics"
	"geartrain/internal/schematic"
)

const (
	pdfMargin      = 10.0
	pdfSceneHeight = 90.0
	pdfRowHeight   = 7.0
)

var pdfColumnWidths = []float64{20, 30, 25, 45, 45}

// WritePDF renders a one-page report: inputs, the gear table and the
// schematic drawn with PDF line primitives.
func WritePDF(w io.Writer, p kinematics.Params, chain kinematics.Chain, scene schematic.Scene) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Gear Train Report", true)
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Gear Train Report")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	for _, line := range []string{
		fmt.Sprintf("Module: %g", p.Module),
		fmt.Sprintf("Base gear teeth: %d", p.BaseTeeth),
		fmt.Sprintf("Input speed: %.2f RPM", p.InputSpeed),
		fmt.Sprintf("Ratios: %s", kinematics.FormatRatios(p.Ratios)),
		fmt.Sprintf("Overall ratio: %.4f", chain.OverallRatio()),
		fmt.Sprintf("Date: %s", time.Now().Format("2006-01-02")),
	} {
		pdf.Cell(0, 6, line)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range Header {
		pdf.CellFormat(pdfColumnWidths[i], pdfRowHeight, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 11)
	for _, r := range Rows(chain) {
		for i, c := range r.cells() {
			align := "R"
			if i == 1 {
				align = "L"
			}
			pdf.CellFormat(pdfColumnWidths[i], pdfRowHeight, c, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(8)

	drawScene(pdf, scene, pdf.GetY())

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// drawScene fits scene into the page width below top, y flipped.
func drawScene(pdf *gofpdf.Fpdf, scene schematic.Scene, top float64) {
	pageW, _ := pdf.GetPageSize()
	areaW := pageW - 2*pdfMargin

	b := scene.Bounds
	scale := areaW / b.Width()
	if b.Height() > 0 {
		scale = math.Min(scale, pdfSceneHeight/b.Height())
	}
	left := pdfMargin + (areaW-b.Width()*scale)/2
	px := func(p schematic.Point) (float64, float64) {
		return left + (p.X-b.Min.X)*scale, top + (b.Max.Y-p.Y)*scale
	}

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.4)
	x1, y1 := px(scene.Axis[0])
	x2, y2 := px(scene.Axis[1])
	pdf.Line(x1, y1, x2, y2)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(255, 255, 255)
	for _, g := range scene.Gears {
		pts := make([]gofpdf.PointType, len(g.Outline))
		for i, p := range g.Outline {
			pts[i].X, pts[i].Y = px(p)
		}
		pdf.SetLineWidth(0.4)
		pdf.Polygon(pts, "D")

		cx, cy := px(g.Center)
		pdf.Circle(cx, cy, g.HubRadius*scale, "FD")

		pdf.SetLineWidth(0.8)
		sx1, sy1 := px(g.Shaft[0])
		sx2, sy2 := px(g.Shaft[1])
		pdf.Line(sx1, sy1, sx2, sy2)

		lx, ly := px(g.LabelAt)
		pdf.Text(lx-pdf.GetStringWidth(g.Label)/2, ly+3.5, g.Label)
	}
}
