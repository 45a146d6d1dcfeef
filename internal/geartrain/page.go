package geartrain

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"geartrain/internal/kinematics"
	"geartrain/internal/observability"
	"geartrain/internal/report"
	"geartrain/internal/schematic"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type choice struct {
	Value    string
	Selected bool
}

type link struct {
	Label string
	Href  template.URL
}

type pageData struct {
	Form             Submission
	ToothPolicies    []choice
	RatioValidations []choice
	Submitted        bool
	Error            string
	Rows             []report.Row
	OverallRatio     string
	Scene            template.HTML
	Downloads        []link
}

func newPageData(form Submission) pageData {
	choices := func(selected string, values ...string) []choice {
		out := make([]choice, len(values))
		for i, v := range values {
			out[i] = choice{Value: v, Selected: v == selected}
		}
		return out
	}
	return pageData{
		Form: form,
		ToothPolicies: choices(form.ToothPolicy,
			kinematics.Truncate.String(), kinematics.Round.String(), kinematics.RejectFractional.String()),
		RatioValidations: choices(form.RatioValidation,
			kinematics.AcceptAll.String(), kinematics.RejectNegative.String()),
	}
}

// downloads links every export of the same pass.
func (s Submission) downloads() []link {
	q := url.Values{
		"module":           {s.Module},
		"base_teeth":       {s.BaseTeeth},
		"input_speed":      {s.InputSpeed},
		"ratios":           {s.Ratios},
		"tooth_policy":     {s.ToothPolicy},
		"ratio_validation": {s.RatioValidation},
	}.Encode()
	return []link{
		{Label: "SVG", Href: template.URL("/geartrain/scene.svg?" + q)},
		{Label: "PNG", Href: template.URL("/geartrain/scene.png?" + q)},
		{Label: "PDF report", Href: template.URL("/geartrain/report.pdf?" + q)},
		{Label: "Excel", Href: template.URL("/geartrain/table.xlsx?" + q)},
	}
}

// Page handles GET /
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, http.StatusOK, newPageData(DefaultSubmission(h.Defaults)))
}

// Submit handles POST /, the form submission. A failed pass shows only
// the error message, never a partial table or drawing.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	p := startPass(r, "submit")
	defer p.span.End()

	if err := r.ParseForm(); err != nil {
		observability.RecordFailure(p.ctx, p.span, p.logger, errorCounter, p.opName, "invalid form", err,
			attribute.String("kind", "request"))
		data := newPageData(DefaultSubmission(h.Defaults))
		data.Submitted = true
		data.Error = "Input error: " + err.Error()
		h.renderPage(w, r, http.StatusBadRequest, data)
		return
	}

	form := submissionFromValues(r.PostForm, h.Defaults)
	data := newPageData(form)
	data.Submitted = true

	res, err := p.run(form)
	if err == nil {
		var svg []byte
		svg, err = inlineSVG(res.scene)
		if err == nil {
			data.Rows = report.Rows(res.chain)
			data.OverallRatio = strconv.FormatFloat(res.chain.OverallRatio(), 'f', 4, 64)
			data.Scene = template.HTML(svg)
			data.Downloads = form.downloads()
		}
	}

	if err != nil {
		kind := errorKind(err)
		observability.RecordFailure(p.ctx, p.span, p.logger, errorCounter, p.opName, userMessage(err), err,
			attribute.String("kind", kind))
		data.Error = userMessage(err)
		h.renderPage(w, r, statusFor(kind), data)
		return
	}

	h.renderPage(w, r, http.StatusOK, data)
}

// inlineSVG renders the scene without the XML prolog so it can sit
// inside the HTML body.
func inlineSVG(scene schematic.Scene) ([]byte, error) {
	var buf bytes.Buffer
	if err := schematic.WriteSVG(&buf, scene, schematic.DefaultWidth(len(scene.Gears))); err != nil {
		return nil, err
	}
	out := buf.Bytes()
	if i := bytes.Index(out, []byte("<svg")); i > 0 {
		out = out[i:]
	}
	return out, nil
}

func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		observability.LoggerWithTrace(r.Context()).Error("rendering page",
			zap.Error(err),
			zap.String("request_id", observability.RequestIDFromContext(r.Context())),
		)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}
