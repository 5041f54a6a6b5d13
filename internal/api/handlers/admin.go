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
)

// AdminHandler handles the admin surface: the approval workflow, the full
// investment listing, aggregate statistics and reconciliation alerts.
type AdminHandler struct {
	lifecycleService *service.LifecycleService
	sweepService     *service.SweepService
}

// NewAdminHandler creates a new AdminHandler with the provided service dependencies.
func NewAdminHandler(lifecycleService *service.LifecycleService, sweepService *service.SweepService) *AdminHandler {
	return &AdminHandler{
		lifecycleService: lifecycleService,
		sweepService:     sweepService,
	}
}

// ApproveInvestment handles POST requests approving a pending investment.
//
// Endpoint: POST /api/admin/investment/{uuid}/approve
// Request Body: ApproveInvestmentRequest (note, optional)
// Response: 200 OK with the activated Investment
// Error: 400 Bad Request if the investment is not pending
func (h *AdminHandler) ApproveInvestment(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())
	investmentID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.ApproveInvestmentRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation", "invalid request body", err.Error())
		return
	}

	inv, err := h.lifecycleService.Approve(r.Context(), investmentID, actor.UserID, req.Note)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveInvestment)
		return
	}

	response.RespondJSON(w, http.StatusOK, inv)
}

// RejectInvestment handles POST requests rejecting a pending investment.
//
// Endpoint: POST /api/admin/investment/{uuid}/reject
// Request Body: RejectInvestmentRequest (reason)
// Response: 200 OK with the rejected Investment
// Error: 400 Bad Request if the investment is not pending
func (h *AdminHandler) RejectInvestment(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())
	investmentID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.RejectInvestmentRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation", "invalid request body", err.Error())
		return
	}

	inv, err := h.lifecycleService.Reject(r.Context(), investmentID, actor.UserID, req.Reason)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveInvestment)
		return
	}

	response.RespondJSON(w, http.StatusOK, inv)
}

// Investments handles GET requests listing all investments, paginated and
// filterable by status.
//
// Endpoint: GET /api/admin/investment?status=active&limit=50&offset=0
// Response: 200 OK with array of Investment
func (h *AdminHandler) Investments(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())

	status := model.InvestmentStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		response.RespondError(w, http.StatusBadRequest, "validation", "unknown status filter", string(status))
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	investments, err := h.lifecycleService.ListInvestments(r.Context(), actor, model.InvestmentFilter{
		Status: status,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveInvestments)
		return
	}

	response.RespondJSON(w, http.StatusOK, investments)
}

// Stats handles GET requests for aggregate ledger statistics.
//
// Endpoint: GET /api/admin/stats
// Response: 200 OK with InvestmentStats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())

	stats, err := h.lifecycleService.GetStats(r.Context(), actor)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveStats)
		return
	}

	response.RespondJSON(w, http.StatusOK, stats)
}

// Alerts handles GET requests listing reconciliation alerts: credits that
// completed (or may have) without the matching investment write.
//
// Endpoint: GET /api/admin/alerts
// Response: 200 OK with array of ReconciliationAlert
func (h *AdminHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.sweepService.ListAlerts(r.Context())
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveAlerts)
		return
	}

	response.RespondJSON(w, http.StatusOK, alerts)
}
