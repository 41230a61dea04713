package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "campuscli/internal/errors"
	"campuscli/internal/services"
)

var validate = validator.New()

// AnalyticsHandler handles the dashboard analytics HTTP requests
type AnalyticsHandler struct {
	service      *services.AnalyticsService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// SimulationRequest is the POST /api/simulate body. Reductions are
// percentages in [0, 100].
type SimulationRequest struct {
	CongestionReduction float64 `json:"congestion_reduction" validate:"gte=0,lte=100"`
	DelayReduction      float64 `json:"delay_reduction" validate:"gte=0,lte=100"`
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(service *services.AnalyticsService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AnalyticsHandler {
	return &AnalyticsHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "analytics_handler")),
		errorHandler: errorHandler,
	}
}

// RegisterRoutes attaches the analytics endpoints to the given router
func (h *AnalyticsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/kpis", h.GetKPIs)
	r.Get("/congestion", h.GetCongestion)
	r.Get("/food-analysis", h.GetFoodAnalysis)
	r.Get("/transport-analysis", h.GetTransportAnalysis)
	r.Get("/satisfaction-impact", h.GetSatisfactionImpact)
	r.Post("/simulate", h.Simulate)
	r.Get("/interventions", h.GetInterventions)
}

// GetKPIs handles GET /api/kpis
func (h *AnalyticsHandler) GetKPIs(w http.ResponseWriter, r *http.Request) {
	kpis, err := h.service.KPIs(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, kpis)
}

// GetCongestion handles GET /api/congestion
func (h *AnalyticsHandler) GetCongestion(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.CongestionSummary(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, summary)
}

// GetFoodAnalysis handles GET /api/food-analysis
func (h *AnalyticsHandler) GetFoodAnalysis(w http.ResponseWriter, r *http.Request) {
	analysis, err := h.service.FoodAnalysis(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, analysis)
}

// GetTransportAnalysis handles GET /api/transport-analysis
func (h *AnalyticsHandler) GetTransportAnalysis(w http.ResponseWriter, r *http.Request) {
	analysis, err := h.service.TransportAnalysis(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, analysis)
}

// GetSatisfactionImpact handles GET /api/satisfaction-impact
func (h *AnalyticsHandler) GetSatisfactionImpact(w http.ResponseWriter, r *http.Request) {
	impact, err := h.service.SatisfactionImpact(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, impact)
}

// Simulate handles POST /api/simulate
func (h *AnalyticsHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	var req SimulationRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := validate.Struct(req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("body", "reduction percentages must be between 0 and 100"))
		return
	}

	result, err := h.service.RunSimulation(r.Context(), req.CongestionReduction, req.DelayReduction)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, result)
}

// GetInterventions handles GET /api/interventions
func (h *AnalyticsHandler) GetInterventions(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.StrategicInterventions(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, report)
}
