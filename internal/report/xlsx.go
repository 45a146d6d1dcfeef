package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"geartrain/internal/kinematics"
)

const (
	chainSheet  = "Gear Train"
	inputsSheet = "Inputs"
	// numFmtFixed2 is excelize's built-in "0.00" format.
	numFmtFixed2 = 2
)

// WriteXLSX writes a workbook with the gear table and the inputs that
// produced it.
func WriteXLSX(w io.Writer, p kinematics.Params, chain kinematics.Chain) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", chainSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(inputsSheet); err != nil {
		return fmt.Errorf("create inputs sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	fixed2, err := f.NewStyle(&excelize.Style{NumFmt: numFmtFixed2})
	if err != nil {
		return fmt.Errorf("create number style: %w", err)
	}

	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(chainSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := f.SetCellStyle(chainSheet, "A1", "E1", bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, g := range chain {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{i + 1, g.Label.String(), g.Teeth, g.Diameter, g.Speed}
		if err := f.SetSheetRow(chainSheet, cell, &row); err != nil {
			return fmt.Errorf("write gear %d: %w", i+1, err)
		}
	}
	if len(chain) > 0 {
		last := strconv.Itoa(len(chain) + 1)
		if err := f.SetCellStyle(chainSheet, "D2", "E"+last, fixed2); err != nil {
			return fmt.Errorf("style numbers: %w", err)
		}
	}

	inputs := [][]any{
		{"Module", p.Module},
		{"Base gear teeth", p.BaseTeeth},
		{"Input speed (RPM)", p.InputSpeed},
		{"Ratios", kinematics.FormatRatios(p.Ratios)},
	}
	for i, row := range inputs {
		if err := f.SetSheetRow(inputsSheet, "A"+strconv.Itoa(i+1), &row); err != nil {
			return fmt.Errorf("write inputs: %w", err)
		}
	}
	if err := f.SetCellStyle(inputsSheet, "A1", "A4", bold); err != nil {
		return fmt.Errorf("style inputs: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

// BatchRow is one parsed line of a batch workbook. Err is set instead of
// Params when the line could not be read.
type BatchRow struct {
	Row    int
	Params kinematics.Params
	Err    error
}

// ReadBatchXLSX reads calculation inputs from the first sheet of a
// workbook. The first row is a header; the columns are module, base gear
// teeth, input speed and a whitespace-separated ratio list. Blank lines
// are skipped.
func ReadBatchXLSX(r io.Reader) ([]BatchRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("workbook has no data rows")
	}

	out := make([]BatchRow, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		if blank(rows[i]) {
			continue
		}
		p, err := parseBatchRow(rows[i])
		out = append(out, BatchRow{Row: i + 1, Params: p, Err: err})
	}
	return out, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseBatchRow(row []string) (kinematics.Params, error) {
	if len(row) < 3 {
		return kinematics.Params{}, fmt.Errorf("expected at least 3 columns, got %d", len(row))
	}

	module, err := strconv.ParseFloat(strings.TrimSpace(row[0]), 64)
	if err != nil {
		return kinematics.Params{}, fmt.Errorf("module: %w", err)
	}
	teeth, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
	if err != nil {
		return kinematics.Params{}, fmt.Errorf("base teeth: %w", err)
	}
	if teeth != math.Trunc(teeth) {
		return kinematics.Params{}, fmt.Errorf("base teeth: %g is not a whole number", teeth)
	}
	speed, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
	if err != nil {
		return kinematics.Params{}, fmt.Errorf("input speed: %w", err)
	}

	var ratios []float64
	if len(row) > 3 {
		ratios, err = kinematics.ParseRatios(row[3])
		if err != nil {
			return kinematics.Params{}, err
		}
	}

	return kinematics.Params{Module: module, BaseTeeth: int(teeth), InputSpeed: speed, Ratios: ratios}, nil
}
