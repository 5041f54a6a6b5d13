package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/topmart/Investment-Engine-Backend/internal/api/middleware"
	"github.com/topmart/Investment-Engine-Backend/internal/api/request"
	"github.com/topmart/Investment-Engine-Backend/internal/api/response"
	"github.com/topmart/Investment-Engine-Backend/internal/apperrors"
	"github.com/topmart/Investment-Engine-Backend/internal/model"
	"github.com/topmart/Investment-Engine-Backend/internal/service"
	"github.com/topmart/Investment-Engine-Backend/internal/validation"
)

// PlanHandler handles HTTP requests for the plan catalog.
type PlanHandler struct {
	planService *service.PlanService
}

// NewPlanHandler creates a new PlanHandler with the provided service dependency.
func NewPlanHandler(planService *service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// Plans handles GET requests to list the plan catalog.
//
// Endpoint: GET /api/plan
// Response: 200 OK with array of Plan
func (h *PlanHandler) Plans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.planService.GetPlans(r.Context())
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrievePlans)
		return
	}

	response.RespondJSON(w, http.StatusOK, plans)
}

// Plan handles GET requests for a single plan.
//
// Endpoint: GET /api/plan/{uuid}
// Response: 200 OK with Plan
// Error: 404 Not Found if no such plan exists
func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	planID := chi.URLParam(r, "uuid")

	plan, err := h.planService.GetPlan(r.Context(), planID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrievePlan)
		return
	}

	response.RespondJSON(w, http.StatusOK, plan)
}

// CreatePlan handles POST requests to add a plan to the catalog (admin).
//
// Endpoint: POST /api/plan (admin identity required)
// Request Body: CreatePlanRequest
// Response: 201 Created with Plan
// Error: 400 Bad Request if the terms are invalid
func (h *PlanHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())

	req, err := parseJSON[request.CreatePlanRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation", "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreatePlan(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation", "validation failed", err.Error())
		return
	}

	plan, err := h.planService.CreatePlan(r.Context(), actor, model.Plan{
		Name:         req.Name,
		DurationDays: req.DurationDays,
		RatePercent:  req.RatePercent,
		Compounding:  req.Compounding,
		PayoutMode:   model.PayoutMode(req.PayoutMode),
		MinDeposit:   req.MinDeposit,
		MaxDeposit:   req.MaxDeposit,
	})
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToCreatePlan)
		return
	}

	response.RespondJSON(w, http.StatusCreated, plan)
}
