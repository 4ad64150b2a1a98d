package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"fcigcli/internal/errors"
	"fcigcli/internal/exporter"
	"fcigcli/internal/infrastructure"
)

// Handler serves the index API endpoints.
type Handler struct {
	store      *Store
	logger     *slog.Logger
	errHandler *errors.ErrorHandler
	validate   *validator.Validate
	metrics    *infrastructure.BusinessMetrics
}

// NewHandler creates the API handler. metrics may be nil.
func NewHandler(store *Store, logger *slog.Logger, metrics *infrastructure.BusinessMetrics) *Handler {
	return &Handler{
		store:      store,
		logger:     logger,
		errHandler: errors.NewErrorHandler(logger),
		validate:   validator.New(),
		metrics:    metrics,
	}
}

// indexRequest carries the validated query parameters of GET /api/index.
type indexRequest struct {
	Window    string `validate:"required,oneof=1yr 3yr"`
	Frequency string `validate:"omitempty,oneof=monthly quarterly"`
}

// indexResponse is the JSON body of a successful index query.
type indexResponse struct {
	Window    string       `json:"window"`
	Frequency string       `json:"frequency"`
	Count     int          `json:"count"`
	Points    []IndexPoint `json:"points"`
}

// GetIndex handles GET /api/index/{window}. The optional frequency query
// parameter selects the monthly (default) or quarterly table.
func (h *Handler) GetIndex(w http.ResponseWriter, r *http.Request) {
	req := indexRequest{
		Window:    chi.URLParam(r, "window"),
		Frequency: r.URL.Query().Get("frequency"),
	}
	if err := h.validate.Struct(req); err != nil {
		h.errHandler.HandleError(w, r, errors.ErrValidation("window", "must be one of 1yr, 3yr"))
		return
	}
	if req.Frequency == "" {
		req.Frequency = "monthly"
	}

	points, err := h.store.IndexSeries(exporter.Window(req.Window), req.Frequency == "quarterly")
	if err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}

	if h.metrics != nil {
		h.metrics.IndexQueriesTotal.Add(r.Context(), 1, metric.WithAttributes(
			attribute.String("window", req.Window),
			attribute.String("frequency", req.Frequency),
		))
	}

	render.JSON(w, r, indexResponse{
		Window:    req.Window,
		Frequency: req.Frequency,
		Count:     len(points),
		Points:    points,
	})
}

// healthResponse is the JSON body of GET /api/health.
type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// Health handles GET /api/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, healthResponse{
		Status:  "healthy",
		Service: "fcig-api",
		Version: "1.0.0",
	})
}
