package testutil

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/topmart/Investment-Engine-Backend/internal/repository"
	"github.com/topmart/Investment-Engine-Backend/internal/service"
)

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
func MakeID() string {
	return uuid.New().String()
}

// FixedClock returns a service.Clock pinned to the given instant, so tests
// control which calendar day a sweep believes it is running on.
func FixedClock(at time.Time) service.Clock {
	at = at.UTC()
	return func() time.Time { return at }
}

// RecordingNotifier captures notifications for assertions instead of
// delivering them.
type RecordingNotifier struct {
	mu sync.Mutex

	Notifications []RecordedNotification
}

// RecordedNotification is one captured Notify call.
type RecordedNotification struct {
	UserID  string
	Subject string
	Body    string
}

// Notify records the notification.
func (n *RecordingNotifier) Notify(_ context.Context, userID, subject, body string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Notifications = append(n.Notifications, RecordedNotification{
		UserID:  userID,
		Subject: subject,
		Body:    body,
	})
}

// Sent returns a copy of the captured notifications.
func (n *RecordingNotifier) Sent() []RecordedNotification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]RecordedNotification, len(n.Notifications))
	copy(out, n.Notifications)
	return out
}

// NewTestLifecycleService wires a LifecycleService against the test database
// with a fixed clock and a recording notifier.
func NewTestLifecycleService(t *testing.T, db *sql.DB, at time.Time) (*service.LifecycleService, *RecordingNotifier) {
	t.Helper()

	notifier := &RecordingNotifier{}
	investmentRepo := repository.NewInvestmentRepository(db)
	planRepo := repository.NewPlanRepository(db)

	return service.NewLifecycleService(
		investmentRepo,
		planRepo,
		notifier,
		FixedClock(at),
	), notifier
}

// NewTestSweepService wires a SweepService against the test database with a
// fixed clock, the real account store as crediting gateway, and a recording
// notifier.
func NewTestSweepService(t *testing.T, db *sql.DB, at time.Time) (*service.SweepService, *RecordingNotifier) {
	t.Helper()

	notifier := &RecordingNotifier{}
	investmentRepo := repository.NewInvestmentRepository(db)
	alertRepo := repository.NewAlertRepository(db)
	accountRepo := repository.NewAccountRepository(db)

	return service.NewSweepService(
		investmentRepo,
		alertRepo,
		accountRepo,
		notifier,
		FixedClock(at),
		2,
		5*time.Second,
	), notifier
}

// AccountBalance reads an account's balance in cents straight from the
// database, bypassing the repository layer.
func AccountBalance(t *testing.T, db *sql.DB, userID string) int64 {
	t.Helper()

	var cents int64
	err := db.QueryRow("SELECT balance_cents FROM account WHERE user_id = ?", userID).Scan(&cents)
	if err != nil {
		t.Fatalf("Failed to read account balance: %v", err)
	}
	return cents
}
