// Package http contains the chi handlers exposing the exported KPI series
// to the external presentation layer.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "kpicli/internal/errors"
	"kpicli/internal/services"
)

// KPIHandler serves the exported series bundle. It performs no computation:
// everything it returns was produced by the pipeline and cached by the
// report service.
type KPIHandler struct {
	service services.ReportServiceInterface
	logger  *slog.Logger
}

// NewKPIHandler creates a new KPI handler
func NewKPIHandler(service services.ReportServiceInterface, logger *slog.Logger) *KPIHandler {
	return &KPIHandler{
		service: service,
		logger:  logger.With(slog.String("component", "kpi_handler")),
	}
}

// Routes returns the KPI routes
func (h *KPIHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/kpis", h.GetBundle)
	r.Get("/kpis/{name}", h.GetSeries)
	r.Get("/summary", h.GetSummary)
	r.Post("/reload", h.Reload)

	return r
}

// GetBundle returns every exported series of the latest pipeline run
func (h *KPIHandler) GetBundle(w http.ResponseWriter, r *http.Request) {
	bundle, err := h.service.Bundle(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, bundle)
}

// GetSeries returns one named series
func (h *KPIHandler) GetSeries(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	bundle, err := h.service.Bundle(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	series, ok := bundle.Get(name)
	if !ok {
		render.Render(w, r, apierrors.SeriesNotFoundError(name))
		return
	}
	render.JSON(w, r, series)
}

// summaryResponse labels the dataset-wide figures explicitly. The
// avg_extra_orders_per_customer ratio is deliberately not called a repeat
// percentage: it is (total orders - unique customers) / unique customers
// and measures something different from the monthly repeat-rate series.
type summaryResponse struct {
	UniqueCustomers           int     `json:"unique_customers"`
	TotalOrders               int     `json:"total_orders"`
	AvgExtraOrdersPerCustomer float64 `json:"avg_extra_orders_per_customer"`
	UniqueCustomerRate        float64 `json:"unique_customer_rate"`
}

// GetSummary returns the dataset-wide customer figures
func (h *KPIHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.JSON(w, r, summaryResponse{
		UniqueCustomers:           summary.UniqueCustomers,
		TotalOrders:               summary.TotalOrders,
		AvgExtraOrdersPerCustomer: summary.RepeatRate,
		UniqueCustomerRate:        summary.UniqueRate,
	})
}

// Reload re-runs the pipeline over the input files
func (h *KPIHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Refresh(r.Context()); err != nil {
		h.renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, map[string]string{"status": "reloaded"})
}

// renderError maps a pipeline error to its API representation
func (h *KPIHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "request failed",
		slog.String("path", r.URL.Path),
		slog.Any("error", err))
	render.Render(w, r, apierrors.FromError(err))
}
