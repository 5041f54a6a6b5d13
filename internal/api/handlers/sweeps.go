package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/topmart/Investment-Engine-Backend/internal/api/response"
	"github.com/topmart/Investment-Engine-Backend/internal/apperrors"
	"github.com/topmart/Investment-Engine-Backend/internal/model"
	"github.com/topmart/Investment-Engine-Backend/internal/service"
)

// SweepHandler exposes manual sweep triggers for operators. The scheduler
// runs the same sweeps on its own; these endpoints exist for recovery and
// testing, behind the sweep token middleware.
type SweepHandler struct {
	sweepService *service.SweepService
	runBudget    time.Duration
}

// NewSweepHandler creates a new SweepHandler. runBudget bounds how long one
// triggered run may take before remaining work is reported as skipped.
func NewSweepHandler(sweepService *service.SweepService, runBudget time.Duration) *SweepHandler {
	if runBudget <= 0 {
		runBudget = 5 * time.Minute
	}
	return &SweepHandler{
		sweepService: sweepService,
		runBudget:    runBudget,
	}
}

// Accrual handles POST requests triggering the daily accrual sweep.
//
// Endpoint: POST /api/admin/sweep/accrual
// Response: 200 OK with a SweepSummary
func (h *SweepHandler) Accrual(w http.ResponseWriter, r *http.Request) {
	h.runOne(w, r, h.sweepService.RunAccrualSweep)
}

// Maturity handles POST requests triggering the maturity sweep.
//
// Endpoint: POST /api/admin/sweep/maturity
// Response: 200 OK with a SweepSummary
func (h *SweepHandler) Maturity(w http.ResponseWriter, r *http.Request) {
	h.runOne(w, r, h.sweepService.RunMaturitySweep)
}

// CatchUp handles POST requests triggering the downtime catch-up sweep.
//
// Endpoint: POST /api/admin/sweep/catchup
// Response: 200 OK with a SweepSummary
func (h *SweepHandler) CatchUp(w http.ResponseWriter, r *http.Request) {
	h.runOne(w, r, h.sweepService.RunCatchUpSweep)
}

// All handles POST requests triggering the full sweep sequence: maturity,
// then catch-up, then accrual.
//
// Endpoint: POST /api/admin/sweep/all
// Response: 200 OK with an array of SweepSummary
func (h *SweepHandler) All(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.runBudget)
	defer cancel()

	summaries, err := h.sweepService.RunAll(ctx)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRunSweep)
		return
	}

	response.RespondJSON(w, http.StatusOK, summaries)
}

func (h *SweepHandler) runOne(w http.ResponseWriter, r *http.Request, run func(context.Context) (model.SweepSummary, error)) {
	ctx, cancel := context.WithTimeout(r.Context(), h.runBudget)
	defer cancel()

	summary, err := run(ctx)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRunSweep)
		return
	}

	response.RespondJSON(w, http.StatusOK, summary)
}
