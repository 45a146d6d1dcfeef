// Package report turns a computed gear chain into tables and documents.
package report

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"geartrain/internal/kinematics"
)

// Row is one formatted table line.
type Row struct {
	Gear     int    `json:"gear"`
	Type     string `json:"type"`
	Teeth    int    `json:"teeth"`
	Diameter string `json:"diameter"`
	Speed    string `json:"speed"`
}

// Header names the table columns in order.
var Header = []string{"Gear", "Type", "Teeth", "Diameter (mm)", "Speed (RPM)"}

// Rows formats chain with 1-based gear numbers and two decimals.
func Rows(chain kinematics.Chain) []Row {
	rows := make([]Row, len(chain))
	for i, g := range chain {
		rows[i] = Row{
			Gear:     i + 1,
			Type:     g.Label.String(),
			Teeth:    g.Teeth,
			Diameter: fixed2(g.Diameter),
			Speed:    fixed2(g.Speed),
		}
	}
	return rows
}

func (r Row) cells() []string {
	return []string{strconv.Itoa(r.Gear), r.Type, strconv.Itoa(r.Teeth), r.Diameter, r.Speed}
}

func fixed2(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// WriteMarkdown writes chain as a markdown table.
func WriteMarkdown(w io.Writer, chain kinematics.Chain) error {
	if _, err := io.WriteString(w,
		"| Gear | Type   | Teeth | Diameter (mm) | Speed (RPM) |\n"+
			"|------|--------|-------|---------------|-------------|\n"); err != nil {
		return err
	}
	for _, r := range Rows(chain) {
		if _, err := fmt.Fprintf(w, "| %d | %s | %d | %s | %s |\n", r.Gear, r.Type, r.Teeth, r.Diameter, r.Speed); err != nil {
			return err
		}
	}
	return nil
}

// WriteText writes chain as an aligned plain-text table.
func WriteText(w io.Writer, chain kinematics.Chain) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	writeLine := func(cells []string) {
		for _, c := range cells {
			fmt.Fprintf(tw, "%s\t", c)
		}
		fmt.Fprintln(tw)
	}

	writeLine(Header)
	for _, r := range Rows(chain) {
		writeLine(r.cells())
	}
	return tw.Flush()
}
