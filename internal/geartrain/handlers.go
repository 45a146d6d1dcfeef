package geartrain

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"geartrain/internal/handlers"
	"geartrain/internal/kinematics"
	"geartrain/internal/observability"
	"geartrain/internal/report"
	"geartrain/internal/schematic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// tracer is the gear train's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("geartrain")

// maxBatchUpload bounds the multipart body of a batch request.
const maxBatchUpload = 10 << 20

// Handler serves the gear train endpoints. Defaults are the tooth and
// ratio policies used when a request does not name its own.
type Handler struct {
	Defaults kinematics.Options
}

func NewHandler(defaults kinematics.Options) *Handler {
	return &Handler{Defaults: defaults}
}

// result is the output of one compute-then-render pass.
type result struct {
	input Input
	chain kinematics.Chain
	scene schematic.Scene
}

// run parses sub, computes the chain and lays out its scene, each step in
// a child span. Nothing is returned unless every step succeeds.
func run(ctx context.Context, sub Submission) (result, error) {
	_, span := tracer.Start(ctx, "geartrain.parse",
		trace.WithAttributes(attribute.String("geartrain.ratios", sub.Ratios)),
	)
	in, err := sub.Parse()
	endStep(span, err)
	if err != nil {
		return result{}, err
	}

	_, span = tracer.Start(ctx, "geartrain.compute",
		trace.WithAttributes(
			attribute.Float64("geartrain.module", in.Params.Module),
			attribute.Int("geartrain.base_teeth", in.Params.BaseTeeth),
			attribute.Float64("geartrain.input_speed", in.Params.InputSpeed),
			attribute.Float64Slice("geartrain.ratio_values", in.Params.Ratios),
			attribute.String("geartrain.tooth_policy", in.Options.ToothPolicy.String()),
			attribute.String("geartrain.ratio_validation", in.Options.RatioValidation.String()),
		),
	)
	chain, err := kinematics.Compute(in.Params, in.Options)
	if err == nil {
		span.SetAttributes(attribute.IntSlice("geartrain.teeth", chain.Teeth()))
	}
	endStep(span, err)
	if err != nil {
		return result{}, err
	}

	_, span = tracer.Start(ctx, "geartrain.render",
		trace.WithAttributes(attribute.Int("geartrain.gears", len(chain))),
	)
	scene, err := schematic.ComposeScene(chain)
	endStep(span, err)
	if err != nil {
		return result{}, err
	}

	return result{input: in, chain: chain, scene: scene}, nil
}

func endStep(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// errorKind classifies a failed pass for metrics and status codes.
func errorKind(err error) string {
	var (
		parseErr *kinematics.ParseError
		divErr   *kinematics.DivisionError
		valErr   *kinematics.ValidationError
		toothErr *kinematics.ToothCountError
	)
	switch {
	case errors.As(err, &parseErr):
		return "parse"
	case errors.As(err, &divErr):
		return "division"
	case errors.As(err, &valErr):
		return "validation"
	case errors.As(err, &toothErr):
		return "tooth_count"
	case errors.Is(err, schematic.ErrDegenerateGear):
		return "render"
	default:
		return "internal"
	}
}

func statusFor(kind string) int {
	if kind == "internal" {
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

// userMessage is the single line shown for any failed pass.
func userMessage(err error) string {
	return "Input error: " + err.Error()
}

// pass runs sub under a span named after opName and records its metrics,
// logs and errors. On failure the error has already been recorded and ok
// is false; the caller decides how to present it.
type pass struct {
	ctx       context.Context
	span      trace.Span
	logger    *zap.Logger
	opName    string
	requestID string
}

func startPass(r *http.Request, opName string) pass {
	ctx := r.Context()
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, fmt.Sprintf("geartrain.%s", opName),
		trace.WithAttributes(
			attribute.String("geartrain.operation", opName),
			attribute.String("request.id", requestID),
		),
	)
	return pass{
		ctx:       ctx,
		span:      span,
		logger:    observability.LoggerWithTrace(ctx),
		opName:    opName,
		requestID: requestID,
	}
}

func (p pass) run(sub Submission) (result, error) {
	start := time.Now()
	res, err := run(p.ctx, sub)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	if err != nil {
		return result{}, err
	}

	attrs := metric.WithAttributes(attribute.String("operation", p.opName))
	computationsCounter.Add(p.ctx, 1, attrs)
	computeHistogram.Record(p.ctx, elapsed, attrs)
	chainLength.Record(p.ctx, int64(len(res.chain)), attrs)
	outputSpeedGauge.Record(p.ctx, res.chain.Output().Speed, attrs)

	p.span.AddEvent("computation.complete", trace.WithAttributes(
		attribute.Int("gears", len(res.chain)),
		attribute.Float64("output_speed", res.chain.Output().Speed),
		attribute.Float64("duration_ms", elapsed),
	))
	p.span.SetStatus(codes.Ok, "")

	p.logger.Info("gear train computed",
		zap.String("operation", p.opName),
		zap.Float64("module", res.input.Params.Module),
		zap.Int("base_teeth", res.input.Params.BaseTeeth),
		zap.Float64("input_speed", res.input.Params.InputSpeed),
		zap.Float64s("ratios", res.input.Params.Ratios),
		zap.Ints("teeth", res.chain.Teeth()),
		zap.Float64("output_speed", res.chain.Output().Speed),
		zap.String("request_id", p.requestID),
		zap.Float64("duration_ms", elapsed),
	)
	return res, nil
}

// fail records err and writes the JSON error body.
func (p pass) fail(w http.ResponseWriter, err error) {
	kind := errorKind(err)
	observability.RecordError(p.ctx, p.span, p.logger, errorCounter, p.opName, userMessage(err), err, statusFor(kind), w,
		attribute.String("kind", kind))
}

// ---------------------------------------------------------------------------
// Handlers: JSON API
// ---------------------------------------------------------------------------

// Compute handles POST /api/geartrain
func (h *Handler) Compute(w http.ResponseWriter, r *http.Request) {
	p := startPass(r, "compute")
	defer p.span.End()

	var req ComputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(p.ctx, p.span, p.logger, errorCounter, p.opName, "invalid request body", err, http.StatusBadRequest, w,
			attribute.String("kind", "request"))
		return
	}

	res, err := p.run(submissionFromRequest(req, h.Defaults))
	if err != nil {
		p.fail(w, err)
		return
	}

	resp := ComputeResponse{
		Params:          res.input.Params,
		ToothPolicy:     res.input.Options.ToothPolicy.String(),
		RatioValidation: res.input.Options.RatioValidation.String(),
		Gears:           res.chain,
		Table:           report.Rows(res.chain),
		OverallRatio:    res.chain.OverallRatio(),
	}
	handlers.WriteJSON(w, http.StatusOK, resp)
}

// ---------------------------------------------------------------------------
// Handlers: downloads (inputs as query parameters)
// ---------------------------------------------------------------------------

// SceneSVG handles GET /geartrain/scene.svg
func (h *Handler) SceneSVG(w http.ResponseWriter, r *http.Request) {
	h.download(w, r, "scene_svg", "image/svg+xml", "", func(out io.Writer, res result) error {
		width, err := widthParam(r, len(res.chain))
		if err != nil {
			return err
		}
		return schematic.WriteSVG(out, res.scene, width)
	})
}

// ScenePNG handles GET /geartrain/scene.png
func (h *Handler) ScenePNG(w http.ResponseWriter, r *http.Request) {
	h.download(w, r, "scene_png", "image/png", "", func(out io.Writer, res result) error {
		width, err := widthParam(r, len(res.chain))
		if err != nil {
			return err
		}
		return schematic.WritePNG(out, res.scene, width)
	})
}

// ReportPDF handles GET /geartrain/report.pdf
func (h *Handler) ReportPDF(w http.ResponseWriter, r *http.Request) {
	h.download(w, r, "report_pdf", "application/pdf", "geartrain.pdf", func(out io.Writer, res result) error {
		return report.WritePDF(out, res.input.Params, res.chain, res.scene)
	})
}

// TableXLSX handles GET /geartrain/table.xlsx
func (h *Handler) TableXLSX(w http.ResponseWriter, r *http.Request) {
	h.download(w, r, "table_xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "geartrain.xlsx", func(out io.Writer, res result) error {
		return report.WriteXLSX(out, res.input.Params, res.chain)
	})
}

// download renders into memory first so a failure never leaves a
// truncated body behind.
func (h *Handler) download(w http.ResponseWriter, r *http.Request, opName, contentType, filename string, render func(io.Writer, result) error) {
	p := startPass(r, opName)
	defer p.span.End()

	res, err := p.run(submissionFromValues(r.URL.Query(), h.Defaults))
	if err != nil {
		p.fail(w, err)
		return
	}

	var buf bytes.Buffer
	if err := render(&buf, res); err != nil {
		p.fail(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	if filename != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	}
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func widthParam(r *http.Request, gears int) (int, error) {
	raw := r.URL.Query().Get("width")
	if raw == "" {
		return schematic.DefaultWidth(gears), nil
	}
	width, err := strconv.Atoi(raw)
	if err != nil || width < 100 || width > 4000 {
		return 0, &kinematics.ValidationError{Field: "width", Reason: fmt.Sprintf("%q must be a whole number between 100 and 4000", raw)}
	}
	return width, nil
}

// ---------------------------------------------------------------------------
// Handler: batch import (one child span per row)
// ---------------------------------------------------------------------------

// Batch handles POST /geartrain/batch with an xlsx workbook in the "file"
// multipart field. Each row is validated like a form submission, scene
// included, but only the chain is returned.
func (h *Handler) Batch(w http.ResponseWriter, r *http.Request) {
	p := startPass(r, "batch")
	defer p.span.End()

	r.Body = http.MaxBytesReader(w, r.Body, maxBatchUpload)
	file, _, err := r.FormFile("file")
	if err != nil {
		observability.RecordError(p.ctx, p.span, p.logger, errorCounter, p.opName, "file required", err, http.StatusBadRequest, w,
			attribute.String("kind", "request"))
		return
	}
	defer file.Close()

	rows, err := report.ReadBatchXLSX(file)
	if err != nil {
		observability.RecordError(p.ctx, p.span, p.logger, errorCounter, p.opName, "invalid workbook", err, http.StatusBadRequest, w,
			attribute.String("kind", "request"))
		return
	}

	p.span.SetAttributes(attribute.Int("batch.rows", len(rows)))

	resp := BatchResponse{Results: make([]BatchResult, 0, len(rows))}
	for _, row := range rows {
		_, rowSpan := tracer.Start(p.ctx, fmt.Sprintf("geartrain.batch.row.%d", row.Row),
			trace.WithAttributes(attribute.Int("batch.row", row.Row)),
		)

		err := row.Err
		var chain kinematics.Chain
		if err == nil {
			chain, err = kinematics.Compute(row.Params, h.Defaults)
		}
		if err == nil {
			// Rows must be drawable, as on every other endpoint.
			_, err = schematic.ComposeScene(chain)
		}
		endStep(rowSpan, err)

		if err != nil {
			kind := errorKind(err)
			errorCounter.Add(p.ctx, 1, metric.WithAttributes(
				attribute.String("operation", p.opName),
				attribute.String("kind", kind),
			))
			p.logger.Warn("batch row failed",
				zap.Int("row", row.Row),
				zap.String("kind", kind),
				zap.Error(err),
				zap.String("request_id", p.requestID),
			)
			resp.Failed++
			resp.Results = append(resp.Results, BatchResult{Row: row.Row, Error: userMessage(err)})
			continue
		}

		attrs := metric.WithAttributes(attribute.String("operation", p.opName))
		computationsCounter.Add(p.ctx, 1, attrs)
		chainLength.Record(p.ctx, int64(len(chain)), attrs)
		resp.Results = append(resp.Results, BatchResult{Row: row.Row, Gears: chain})
	}
	resp.Count = len(resp.Results)

	p.span.SetStatus(codes.Ok, "")
	p.logger.Info("batch completed",
		zap.Int("rows", resp.Count),
		zap.Int("failed", resp.Failed),
		zap.String("request_id", p.requestID),
	)

	handlers.WriteJSON(w, http.StatusOK, resp)
}
