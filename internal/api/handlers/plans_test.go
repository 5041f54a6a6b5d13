package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/topmart/Investment-Engine-Backend/internal/api/handlers"
	"github.com/topmart/Investment-Engine-Backend/internal/model"
	"github.com/topmart/Investment-Engine-Backend/internal/repository"
	"github.com/topmart/Investment-Engine-Backend/internal/service"
	"github.com/topmart/Investment-Engine-Backend/internal/testutil"
)

// TestPlanHandler_Plans tests the catalog listing.
func TestPlanHandler_Plans(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := handlers.NewPlanHandler(service.NewPlanService(repository.NewPlanRepository(db)))
	testutil.NewPlan().WithName("Starter 30").Build(t, db)
	testutil.NewPlan().WithName("Growth 90").Build(t, db)

	req := httptest.NewRequest(http.MethodGet, "/api/plan", nil)
	rec := httptest.NewRecorder()
	handler.Plans(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	plans := testutil.DecodeJSON[[]model.Plan](t, rec)
	if len(plans) != 2 {
		t.Errorf("Expected 2 plans, got %d", len(plans))
	}
}

// TestPlanHandler_Plan tests fetching a single plan by ID.
func TestPlanHandler_Plan(t *testing.T) {
	t.Run("returns the plan", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewPlanHandler(service.NewPlanService(repository.NewPlanRepository(db)))
		stored := testutil.NewPlan().WithName("Growth 90").WithDurationDays(90).Build(t, db)

		req := httptest.NewRequest(http.MethodGet, "/api/plan/"+stored.ID, nil)
		rec := httptest.NewRecorder()
		handler.Plan(rec, testutil.WithURLParam(req, "uuid", stored.ID))

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		plan := testutil.DecodeJSON[model.Plan](t, rec)
		if plan.Name != "Growth 90" || plan.DurationDays != 90 {
			t.Errorf("Unexpected plan returned: %+v", plan)
		}
	})

	t.Run("unknown plan returns 404", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewPlanHandler(service.NewPlanService(repository.NewPlanRepository(db)))
		missing := testutil.MakeID()

		req := httptest.NewRequest(http.MethodGet, "/api/plan/"+missing, nil)
		rec := httptest.NewRecorder()
		handler.Plan(rec, testutil.WithURLParam(req, "uuid", missing))

		if rec.Code != http.StatusNotFound {
			t.Fatalf("Expected 404, got %d", rec.Code)
		}
	})
}

// TestPlanHandler_CreatePlan tests plan creation through the HTTP layer.
func TestPlanHandler_CreatePlan(t *testing.T) {
	t.Run("admin creates a plan", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewPlanHandler(service.NewPlanService(repository.NewPlanRepository(db)))

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/plan", map[string]any{
			"name":         "Income 365",
			"durationDays": 365,
			"ratePercent":  "12",
			"payoutMode":   "return_only",
			"minDeposit":   "5000",
			"maxDeposit":   "1000000",
		})
		rec := httptest.NewRecorder()
		handler.CreatePlan(rec, testutil.AsAdmin(req, testutil.MakeID()))

		if rec.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		plan := testutil.DecodeJSON[model.Plan](t, rec)
		if plan.ID == "" {
			t.Error("Expected plan to receive an ID")
		}
		if plan.PayoutMode != model.PayoutReturnOnly {
			t.Errorf("Expected return_only payout mode, got %s", plan.PayoutMode)
		}
	})

	t.Run("invalid terms return 400", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewPlanHandler(service.NewPlanService(repository.NewPlanRepository(db)))

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/plan", map[string]any{
			"name":         "Broken",
			"durationDays": 0,
			"ratePercent":  "12",
			"payoutMode":   "return_only",
			"minDeposit":   "10",
			"maxDeposit":   "100",
		})
		rec := httptest.NewRecorder()
		handler.CreatePlan(rec, testutil.AsAdmin(req, testutil.MakeID()))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("Expected 400, got %d", rec.Code)
		}
	})

	t.Run("plain user gets 403 from the service", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewPlanHandler(service.NewPlanService(repository.NewPlanRepository(db)))

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/plan", map[string]any{
			"name":         "Starter 30",
			"durationDays": 30,
			"ratePercent":  "10",
			"payoutMode":   "principal_plus_return",
			"minDeposit":   "100",
			"maxDeposit":   "1000",
		})
		rec := httptest.NewRecorder()
		handler.CreatePlan(rec, testutil.AsUser(req, testutil.MakeID()))

		if rec.Code != http.StatusForbidden {
			t.Fatalf("Expected 403, got %d", rec.Code)
		}
	})
}
