package geartrain

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the form page, the JSON API and the download
// endpoints onto the given router.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/", h.Page)
	r.Post("/", h.Submit)

	r.Post("/api/geartrain", h.Compute)

	r.Route("/geartrain", func(r chi.Router) {
		r.Get("/scene.svg", h.SceneSVG)
		r.Get("/scene.png", h.ScenePNG)
		r.Get("/report.pdf", h.ReportPDF)
		r.Get("/table.xlsx", h.TableXLSX)
		r.Post("/batch", h.Batch)
	})
}
