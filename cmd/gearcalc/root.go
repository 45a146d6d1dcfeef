package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"geartrain/internal/kinematics"
	"geartrain/internal/report"
	"geartrain/internal/schematic"
)

type options struct {
	module          float64
	teeth           int
	speed           float64
	ratios          string
	toothPolicy     string
	ratioValidation string
	markdown        bool
	width           int
	verbose         bool

	svgPath  string
	pngPath  string
	pdfPath  string
	xlsxPath string
}

// newRootCmd builds the command. level is the logger's level; --verbose
// lowers it to debug.
func newRootCmd(logger *zap.Logger, level zap.AtomicLevel) *cobra.Command {
	defaults := kinematics.DefaultParams()
	o := &options{}

	cmd := &cobra.Command{
		Use:           "gearcalc",
		Short:         "Compute teeth, diameters and speeds along a gear train",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if o.verbose {
				level.SetLevel(zap.DebugLevel)
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := run(cmd.OutOrStdout(), o, logger)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Input error: %v\n", err)
			}
			return err
		},
	}

	f := cmd.Flags()
	f.Float64Var(&o.module, "module", defaults.Module, "gear module (pitch diameter = teeth x module)")
	f.IntVar(&o.teeth, "teeth", defaults.BaseTeeth, "tooth count of the base gear")
	f.Float64Var(&o.speed, "speed", defaults.InputSpeed, "input speed in RPM")
	f.StringVar(&o.ratios, "ratios", kinematics.DefaultRatios, "space separated gear ratios")
	f.StringVar(&o.toothPolicy, "tooth-policy", kinematics.Truncate.String(), "fractional teeth: truncate, round or reject")
	f.StringVar(&o.ratioValidation, "ratio-validation", kinematics.AcceptAll.String(), "negative ratios: accept or reject-negative")
	f.BoolVar(&o.markdown, "markdown", false, "print the table as markdown")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "log debug details to stderr")
	f.IntVar(&o.width, "width", 0, "image width in pixels for --svg and --png (0 picks one from the gear count)")
	f.StringVar(&o.svgPath, "svg", "", "write the schematic as SVG to this file")
	f.StringVar(&o.pngPath, "png", "", "write the schematic as PNG to this file")
	f.StringVar(&o.pdfPath, "pdf", "", "write a PDF report to this file")
	f.StringVar(&o.xlsxPath, "xlsx", "", "write the table as an Excel workbook to this file")

	return cmd
}

func run(out io.Writer, o *options, logger *zap.Logger) error {
	ratios, err := kinematics.ParseRatios(o.ratios)
	if err != nil {
		return err
	}
	opts, err := kinematics.ParseOptions(o.toothPolicy, o.ratioValidation)
	if err != nil {
		return err
	}

	p := kinematics.Params{Module: o.module, BaseTeeth: o.teeth, InputSpeed: o.speed, Ratios: ratios}
	chain, err := kinematics.Compute(p, opts)
	logger.Debug("computed chain",
		zap.Float64s("ratios", ratios),
		zap.Stringer("tooth_policy", opts.ToothPolicy),
		zap.Error(err),
	)
	if err != nil {
		return err
	}

	// The scene is only needed for drawings, but composing it up front
	// keeps a failed render from printing a table first.
	var scene schematic.Scene
	if o.svgPath != "" || o.pngPath != "" || o.pdfPath != "" {
		scene, err = schematic.ComposeScene(chain)
		if err != nil {
			return err
		}
	}

	width := o.width
	if width <= 0 {
		width = schematic.DefaultWidth(len(chain))
	}

	outputs := []struct {
		path  string
		write func(io.Writer) error
	}{
		{o.svgPath, func(w io.Writer) error { return schematic.WriteSVG(w, scene, width) }},
		{o.pngPath, func(w io.Writer) error { return schematic.WritePNG(w, scene, width) }},
		{o.pdfPath, func(w io.Writer) error { return report.WritePDF(w, p, chain, scene) }},
		{o.xlsxPath, func(w io.Writer) error { return report.WriteXLSX(w, p, chain) }},
	}
	for _, dst := range outputs {
		if dst.path == "" {
			continue
		}
		if err := writeFile(dst.path, dst.write); err != nil {
			logger.Warn("writing output failed", zap.String("path", dst.path), zap.Error(err))
			return err
		}
		logger.Debug("wrote output", zap.String("path", dst.path))
	}

	if o.markdown {
		return report.WriteMarkdown(out, chain)
	}
	return report.WriteText(out, chain)
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if err := write(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
