package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apperrors "opotracker/internal/errors"
	"opotracker/internal/infrastructure"
	"opotracker/internal/query"
	"opotracker/internal/services"
)

// listParams are the query parameters of the candidate list and export
// endpoints.
type listParams struct {
	Search string `validate:"omitempty,max=200"`
	Site   string `validate:"omitempty,max=100"`
	Status string `validate:"omitempty,max=100"`
	Sort   string `validate:"omitempty,oneof=rank identifier name admission day site room general_knowledge language aptitude personality total"`
	Dir    string `validate:"omitempty,oneof=asc desc"`
	Format string `validate:"omitempty,oneof=csv xlsx"`
}

// DataHandler serves the candidate table, filter options, aggregate
// statistics, exports and the reload trigger.
type DataHandler struct {
	service      DataService
	errorHandler *apperrors.ErrorHandler
	logger       *slog.Logger
	validator    *validator.Validate
	metrics      *infrastructure.Metrics
}

// NewDataHandler creates the candidate data handler. metrics may be nil.
func NewDataHandler(service DataService, logger *slog.Logger, metrics *infrastructure.Metrics) *DataHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DataHandler{
		service:      service,
		errorHandler: apperrors.NewErrorHandler(logger),
		logger:       logger.With(slog.String("component", "data_handler")),
		validator:    validator.New(),
		metrics:      metrics,
	}
}

// CandidateRoutes returns the router for the /api/candidates subtree.
func (h *DataHandler) CandidateRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListCandidates)
	r.Get("/sites", h.ListSites)
	r.Get("/statuses", h.ListStatuses)
	r.Get("/export", h.Export)
	return r
}

// StatsRoutes returns the router for the /api/stats subtree.
func (h *DataHandler) StatsRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetSummary)
	r.Get("/sites", h.GetSiteStats)
	r.Get("/days", h.GetDayStats)
	return r
}

func (h *DataHandler) params(r *http.Request) (listParams, error) {
	q := r.URL.Query()
	p := listParams{
		Search: q.Get("search"),
		Site:   q.Get("site"),
		Status: q.Get("status"),
		Sort:   q.Get("sort"),
		Dir:    q.Get("dir"),
		Format: q.Get("format"),
	}
	if err := h.validator.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			field := verrs[0].Field()
			return p, apperrors.ErrValidation(field, fmt.Sprintf("invalid value for %q", field))
		}
		return p, apperrors.ErrInvalidRequest
	}
	return p, nil
}

func (p listParams) state() query.State {
	state := query.DefaultState()
	state.Search = p.Search
	if p.Site != "" {
		state.Site = p.Site
	}
	if p.Status != "" {
		state.Status = p.Status
	}
	if p.Sort != "" {
		state.SortKey = query.SortKey(p.Sort)
	}
	if p.Dir != "" {
		state.SortDir = query.Direction(p.Dir)
	}
	return state
}

// translate maps service errors onto API errors before rendering.
func (h *DataHandler) translate(err error) error {
	if errors.Is(err, services.ErrNoDataset) {
		return apperrors.ErrDatasetLoading
	}
	return err
}

// ListCandidates handles GET /api/candidates.
func (h *DataHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	p, err := h.params(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	candidates, err := h.service.Candidates(r.Context(), p.state())
	if err != nil {
		h.errorHandler.HandleError(w, r, h.translate(err))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"candidates": candidates,
		"count":      len(candidates),
	})
}

// ListSites handles GET /api/candidates/sites.
func (h *DataHandler) ListSites(w http.ResponseWriter, r *http.Request) {
	sites, err := h.service.Sites(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, h.translate(err))
		return
	}
	render.JSON(w, r, map[string]interface{}{"sites": sites})
}

// ListStatuses handles GET /api/candidates/statuses.
func (h *DataHandler) ListStatuses(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.service.Statuses(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, h.translate(err))
		return
	}
	render.JSON(w, r, map[string]interface{}{"statuses": statuses})
}

// GetSummary handles GET /api/stats.
func (h *DataHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, h.translate(err))
		return
	}
	render.JSON(w, r, summary)
}

// GetSiteStats handles GET /api/stats/sites.
func (h *DataHandler) GetSiteStats(w http.ResponseWriter, r *http.Request) {
	groups, err := h.service.SiteStats(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, h.translate(err))
		return
	}
	render.JSON(w, r, map[string]interface{}{"sites": groups})
}

// GetDayStats handles GET /api/stats/days.
func (h *DataHandler) GetDayStats(w http.ResponseWriter, r *http.Request) {
	groups, err := h.service.DayStats(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, h.translate(err))
		return
	}
	render.JSON(w, r, map[string]interface{}{"days": groups})
}

// Export handles GET /api/candidates/export. The current filtered view is
// streamed in the requested format, csv by default.
func (h *DataHandler) Export(w http.ResponseWriter, r *http.Request) {
	p, err := h.params(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	format := p.Format
	if format == "" {
		format = services.FormatCSV
	}

	filename := fmt.Sprintf("candidatos_%s.%s", time.Now().Format("2006-01-02"), format)
	if format == services.FormatXLSX {
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	} else {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.service.Export(r.Context(), w, p.state(), format); err != nil {
		// The service fails before writing anything when the dataset is not
		// loaded; mid-stream failures can only be logged.
		if errors.Is(err, services.ErrNoDataset) {
			w.Header().Del("Content-Disposition")
			h.errorHandler.HandleError(w, r, apperrors.ErrDatasetLoading)
			return
		}
		h.logger.LogAttrs(r.Context(), slog.LevelError, "export failed",
			slog.String("format", format),
			slog.String("error", err.Error()),
		)
		return
	}

	if h.metrics != nil {
		h.metrics.ExportsTotal.WithLabelValues(format).Inc()
	}
}

// Reload handles POST /api/reload: it re-fetches the upstream CSV and swaps
// the snapshot, keeping the previous one when the fetch fails.
func (h *DataHandler) Reload(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.Reload(r.Context())
	if h.metrics != nil {
		h.metrics.ObserveLoad(err, count)
	}
	if err != nil {
		h.errorHandler.HandleError(w, r, apperrors.New(
			http.StatusBadGateway, "RELOAD_FAILED", "upstream dataset fetch failed"))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":     "reloaded",
		"candidates": count,
	})
}
