package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/topmart/Investment-Engine-Backend/internal/api/middleware"
	"github.com/topmart/Investment-Engine-Backend/internal/api/request"
	"github.com/topmart/Investment-Engine-Backend/internal/api/response"
	"github.com/topmart/Investment-Engine-Backend/internal/apperrors"
	"github.com/topmart/Investment-Engine-Backend/internal/model"
	"github.com/topmart/Investment-Engine-Backend/internal/service"
	"github.com/topmart/Investment-Engine-Backend/internal/validation"
)

// InvestmentHandler handles HTTP requests for user-facing investment
// endpoints. It serves as the HTTP layer adapter, parsing requests and
// delegating business logic to the lifecycle service.
type InvestmentHandler struct {
	lifecycleService *service.LifecycleService
}

// NewInvestmentHandler creates a new InvestmentHandler with the provided service dependency.
func NewInvestmentHandler(lifecycleService *service.LifecycleService) *InvestmentHandler {
	return &InvestmentHandler{lifecycleService: lifecycleService}
}

// CreateInvestment handles POST requests from the deposit-approval flow.
// Validates the body and creates the investment for the requesting user.
//
// Endpoint: POST /api/investment
// Request Body: CreateInvestmentRequest (planId, amount, activate)
// Response: 201 Created with Investment
// Error: 400 Bad Request if validation fails or the amount is outside plan limits
// Error: 404 Not Found if the plan does not exist
func (h *InvestmentHandler) CreateInvestment(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())

	req, err := parseJSON[request.CreateInvestmentRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation", "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateInvestment(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation", "validation failed", err.Error())
		return
	}

	inv, err := h.lifecycleService.CreateInvestment(r.Context(), service.CreateInvestmentParams{
		UserID:           actor.UserID,
		PlanID:           req.PlanID,
		Amount:           req.Amount,
		ActivateOnCreate: req.Activate,
	})
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToCreateInvestment)
		return
	}

	response.RespondJSON(w, http.StatusCreated, inv)
}

// GetInvestment handles GET requests for a single investment, visible to
// its owner and admins.
//
// Endpoint: GET /api/investment/{uuid}
// Response: 200 OK with Investment
// Error: 403 Forbidden if the requester is neither owner nor admin
// Error: 404 Not Found if the investment does not exist
func (h *InvestmentHandler) GetInvestment(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())
	investmentID := chi.URLParam(r, "uuid")

	inv, err := h.lifecycleService.GetInvestment(r.Context(), actor, investmentID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveInvestment)
		return
	}

	response.RespondJSON(w, http.StatusOK, inv)
}

// CancelInvestment handles POST requests to cancel an active investment.
//
// Endpoint: POST /api/investment/{uuid}/cancel
// Response: 200 OK with the cancelled Investment
// Error: 400 Bad Request if the investment is not active (message names its
// current status)
// Error: 403 Forbidden if the requester is neither owner nor admin
func (h *InvestmentHandler) CancelInvestment(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())
	investmentID := chi.URLParam(r, "uuid")

	inv, err := h.lifecycleService.Cancel(r.Context(), actor, investmentID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveInvestment)
		return
	}

	response.RespondJSON(w, http.StatusOK, inv)
}

// UserInvestments handles GET requests listing a user's investments with an
// optional ?status= filter, paginated.
//
// Endpoint: GET /api/investment/user/{uuid}?status=active&limit=50&offset=0
// Response: 200 OK with array of Investment
// Error: 403 Forbidden if the requester is neither that user nor an admin
func (h *InvestmentHandler) UserInvestments(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())
	userID := chi.URLParam(r, "uuid")

	status := model.InvestmentStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		response.RespondError(w, http.StatusBadRequest, "validation", "unknown status filter", string(status))
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	investments, err := h.lifecycleService.ListUserInvestments(r.Context(), actor, userID, status, limit, offset)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveInvestments)
		return
	}

	response.RespondJSON(w, http.StatusOK, investments)
}
