package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/topmart/Investment-Engine-Backend/internal/apperrors"
	"github.com/topmart/Investment-Engine-Backend/internal/model"
	"github.com/topmart/Investment-Engine-Backend/internal/repository"
)

var classifyNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

// newClassifyFixture builds a sweep service backed by a store holding only
// the reconciliation alert table, which is all the classification path
// touches.
func newClassifyFixture(t *testing.T) (*SweepService, *repository.AlertRepository) {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() {
		db.Close()
	})

	_, err = db.Exec(`
		CREATE TABLE reconciliation_alert (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			investment_id VARCHAR(36) NOT NULL,
			user_id VARCHAR(36) NOT NULL,
			amount_cents INTEGER NOT NULL,
			stage VARCHAR(50) NOT NULL,
			message TEXT NOT NULL,
			created_at TEXT NOT NULL
		)
	`)
	if err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	alertRepo := repository.NewAlertRepository(db)
	svc := NewSweepService(nil, alertRepo, nil, nil, func() time.Time { return classifyNow }, 1, time.Second)
	return svc, alertRepo
}

// TestClassify_InconsistentState tests the routing of ambiguous commit
// failures into the reconciliation alert log.
//
// WHY: A commit failure after a successful credit means money moved (or may
// have) without the matching investment write. That outcome must be marked
// inconsistent, never retried, and persisted as an alert so operators can
// reconcile. If the classification stopped recognizing the sentinel, the
// failure would be misfiled as retryable and the alert would never land.
func TestClassify_InconsistentState(t *testing.T) {
	svc, alertRepo := newClassifyFixture(t)

	inv := model.Investment{ID: uuid.New().String(), UserID: uuid.New().String()}
	amount := decimal.RequireFromString("27.40")
	cause := fmt.Errorf("%w: accrual commit failed for investment %s: %v",
		apperrors.ErrInconsistentState, inv.ID, errors.New("database is locked"))

	result := svc.classify(context.Background(), inv, amount, "accrual", false, cause, model.OutcomeProcessed)

	if result.Outcome != model.OutcomeInconsistent {
		t.Fatalf("Expected outcome inconsistent, got %s", result.Outcome)
	}
	// The amount stays on the result: it is the money that may have moved.
	if !result.Amount.Equal(amount) {
		t.Errorf("Expected amount 27.40 on the result, got %s", result.Amount)
	}
	if result.Error == "" {
		t.Error("Expected the result to carry the failure message")
	}

	alerts, err := alertRepo.GetAlerts(context.Background())
	if err != nil {
		t.Fatalf("GetAlerts() returned unexpected error: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("Expected 1 reconciliation alert, got %d", len(alerts))
	}

	alert := alerts[0]
	if alert.InvestmentID != inv.ID || alert.UserID != inv.UserID {
		t.Errorf("Alert does not reference the investment: %+v", alert)
	}
	if !alert.Amount.Equal(amount) {
		t.Errorf("Expected alert amount 27.40, got %s", alert.Amount)
	}
	if alert.Stage != "accrual" {
		t.Errorf("Expected alert stage accrual, got %s", alert.Stage)
	}
	if alert.Message != cause.Error() {
		t.Errorf("Expected alert message %q, got %q", cause.Error(), alert.Message)
	}
	if !alert.CreatedAt.Equal(classifyNow) {
		t.Errorf("Expected alert created at %v, got %v", classifyNow, alert.CreatedAt)
	}
}

// TestClassify_CreditFailure tests that retryable failures stay out of the
// alert log.
//
// WHY: A failed credit rolls the whole item back, so a later sweep retries
// it. Filing it as a reconciliation alert would flood operators with
// non-events and bury the real inconsistencies.
func TestClassify_CreditFailure(t *testing.T) {
	svc, alertRepo := newClassifyFixture(t)

	inv := model.Investment{ID: uuid.New().String(), UserID: uuid.New().String()}
	cause := fmt.Errorf("%w: %v", apperrors.ErrCreditFailure, errors.New("account not found"))

	result := svc.classify(context.Background(), inv, decimal.RequireFromString("27.40"), "accrual", false, cause, model.OutcomeProcessed)

	if result.Outcome != model.OutcomeFailed {
		t.Fatalf("Expected outcome failed, got %s", result.Outcome)
	}
	if !result.Amount.IsZero() {
		t.Errorf("Expected zero amount on a rolled-back item, got %s", result.Amount)
	}

	alerts, err := alertRepo.GetAlerts(context.Background())
	if err != nil {
		t.Fatalf("GetAlerts() returned unexpected error: %v", err)
	}
	if len(alerts) != 0 {
		t.Errorf("Expected no reconciliation alerts, got %d", len(alerts))
	}
}
