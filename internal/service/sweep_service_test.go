package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/topmart/Investment-Engine-Backend/internal/model"
	"github.com/topmart/Investment-Engine-Backend/internal/repository"
	"github.com/topmart/Investment-Engine-Backend/internal/testutil"
)

// TestSweepService_Accrual tests the daily accrual sweep.
//
// WHY: Accrual moves real money on a schedule. The once-per-calendar-day
// guard is what makes an hourly scheduler safe; if it breaks, every extra
// tick double-pays every active investment.
func TestSweepService_Accrual(t *testing.T) {
	t.Run("credits one daily return per active investment", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc, _ := testutil.NewTestSweepService(t, db, testNow)
		plan := testutil.NewPlan().Build(t, db)
		account := testutil.NewAccount().Build(t, db)
		inv := testutil.NewInvestment(plan).
			WithUserID(account.UserID).
			Active(testNow.AddDate(0, 0, -5)).
			Build(t, db)

		// Execute
		summary, err := svc.RunAccrualSweep(context.Background())

		// Assert
		if err != nil {
			t.Fatalf("RunAccrualSweep() returned unexpected error: %v", err)
		}
		if summary.Processed != 1 {
			t.Fatalf("Expected 1 processed, got %+v", summary)
		}

		if got := testutil.AccountBalance(t, db, account.UserID); got != 2740 {
			t.Errorf("Expected balance 2740 cents, got %d", got)
		}

		stored, err := repository.NewInvestmentRepository(db).GetOnID(context.Background(), inv.ID)
		if err != nil {
			t.Fatalf("Failed to reload investment: %v", err)
		}
		if stored.LastCreditedAt == nil || !stored.LastCreditedAt.Equal(testNow) {
			t.Errorf("Expected lastCreditedAt %s, got %v", testNow, stored.LastCreditedAt)
		}
		if got := stored.TotalEarned.String(); got != "27.4" && got != "27.40" {
			t.Errorf("Expected total earned 27.40, got %s", got)
		}
	})

	t.Run("second run on the same day is a no-op", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc, _ := testutil.NewTestSweepService(t, db, testNow)
		plan := testutil.NewPlan().Build(t, db)
		account := testutil.NewAccount().Build(t, db)
		testutil.NewInvestment(plan).
			WithUserID(account.UserID).
			Active(testNow.AddDate(0, 0, -5)).
			Build(t, db)

		if _, err := svc.RunAccrualSweep(context.Background()); err != nil {
			t.Fatalf("First sweep failed: %v", err)
		}

		summary, err := svc.RunAccrualSweep(context.Background())
		if err != nil {
			t.Fatalf("Second sweep failed: %v", err)
		}
		// Already-credited investments are not even selected.
		if summary.TotalConsidered != 0 {
			t.Errorf("Expected 0 considered on re-run, got %d", summary.TotalConsidered)
		}

		if got := testutil.AccountBalance(t, db, account.UserID); got != 2740 {
			t.Errorf("Expected single credit of 2740 cents, got %d", got)
		}
	})

	t.Run("matured investments are not accrued", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc, _ := testutil.NewTestSweepService(t, db, testNow)
		plan := testutil.NewPlan().Build(t, db)
		account := testutil.NewAccount().Build(t, db)
		// Started 31 days ago on a 30-day plan: past its end date.
		testutil.NewInvestment(plan).
			WithUserID(account.UserID).
			Active(testNow.AddDate(0, 0, -31)).
			Build(t, db)

		summary, err := svc.RunAccrualSweep(context.Background())
		if err != nil {
			t.Fatalf("RunAccrualSweep() returned unexpected error: %v", err)
		}

		if summary.TotalConsidered != 0 {
			t.Errorf("Expected matured investment to be excluded, got %+v", summary)
		}
		if got := testutil.AccountBalance(t, db, account.UserID); got != 0 {
			t.Errorf("Expected no credit, got %d", got)
		}
	})

	t.Run("pending investments are not accrued", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc, _ := testutil.NewTestSweepService(t, db, testNow)
		plan := testutil.NewPlan().Build(t, db)
		account := testutil.NewAccount().Build(t, db)
		testutil.NewInvestment(plan).WithUserID(account.UserID).Build(t, db)

		summary, err := svc.RunAccrualSweep(context.Background())
		if err != nil {
			t.Fatalf("RunAccrualSweep() returned unexpected error: %v", err)
		}

		if summary.TotalConsidered != 0 {
			t.Errorf("Expected pending investment to be excluded, got %+v", summary)
		}
	})

	t.Run("a failing credit isolates to its investment and rolls back", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc, _ := testutil.NewTestSweepService(t, db, testNow)
		plan := testutil.NewPlan().Build(t, db)
		account := testutil.NewAccount().Build(t, db)
		healthy := testutil.NewInvestment(plan).
			WithUserID(account.UserID).
			Active(testNow.AddDate(0, 0, -5)).
			Build(t, db)
		// No account row for this user: the credit inside the transaction fails.
		orphan := testutil.NewInvestment(plan).
			Active(testNow.AddDate(0, 0, -5)).
			Build(t, db)

		summary, err := svc.RunAccrualSweep(context.Background())
		if err != nil {
			t.Fatalf("RunAccrualSweep() returned unexpected error: %v", err)
		}

		if summary.Processed != 1 || summary.Failed != 1 {
			t.Fatalf("Expected 1 processed and 1 failed, got %+v", summary)
		}

		for _, item := range summary.Details {
			if item.InvestmentID == orphan.ID && !strings.Contains(item.Error, "credit") {
				t.Errorf("Expected credit failure on orphan, got %q", item.Error)
			}
		}

		// The healthy investment was paid regardless of its neighbor.
		if got := testutil.AccountBalance(t, db, account.UserID); got != 2740 {
			t.Errorf("Expected healthy credit of 2740 cents, got %d", got)
		}

		// The failed item rolled back entirely, so the next run retries it.
		stored, err := repository.NewInvestmentRepository(db).GetOnID(context.Background(), orphan.ID)
		if err != nil {
			t.Fatalf("Failed to reload investment: %v", err)
		}
		if stored.LastCreditedAt != nil {
			t.Errorf("Expected rollback to clear lastCreditedAt, got %v", stored.LastCreditedAt)
		}
		if !stored.TotalEarned.IsZero() {
			t.Errorf("Expected rollback to leave totalEarned zero, got %s", stored.TotalEarned)
		}

		paid, err := repository.NewInvestmentRepository(db).GetOnID(context.Background(), healthy.ID)
		if err != nil {
			t.Fatalf("Failed to reload investment: %v", err)
		}
		if paid.LastCreditedAt == nil {
			t.Error("Expected healthy investment marked credited")
		}
	})
}

// TestSweepService_Maturity tests the maturity settlement sweep.
//
// WHY: Maturity is the one terminal payout. The payout_credited guard must
// hold under re-runs: paying a principal-plus-return investment twice is the
// single worst bug this system can have.
func TestSweepService_Maturity(t *testing.T) {
	t.Run("settles matured investment exactly once", func(t *testing.T) {
		// Setup: 100000 at 10% for 30 days, principal plus return.
		db := testutil.SetupTestDB(t)
		svc, notifier := testutil.NewTestSweepService(t, db, testNow)
		plan := testutil.NewPlan().Build(t, db)
		account := testutil.NewAccount().Build(t, db)
		inv := testutil.NewInvestment(plan).
			WithUserID(account.UserID).
			Active(testNow.AddDate(0, 0, -31)).
			Build(t, db)

		// Execute
		summary, err := svc.RunMaturitySweep(context.Background())

		// Assert
		if err != nil {
			t.Fatalf("RunMaturitySweep() returned unexpected error: %v", err)
		}
		if summary.Completed != 1 {
			t.Fatalf("Expected 1 completed, got %+v", summary)
		}

		// 100000 principal + 821.92 interest.
		if got := testutil.AccountBalance(t, db, account.UserID); got != 10082192 {
			t.Errorf("Expected payout of 10082192 cents, got %d", got)
		}

		stored, err := repository.NewInvestmentRepository(db).GetOnID(context.Background(), inv.ID)
		if err != nil {
			t.Fatalf("Failed to reload investment: %v", err)
		}
		if stored.Status != model.StatusCompleted {
			t.Errorf("Expected status completed, got %s", stored.Status)
		}
		if !stored.PayoutCredited {
			t.Error("Expected payoutCredited to be set")
		}
		if got := stored.ReturnAmount.String(); got != "821.92" {
			t.Errorf("Expected return amount 821.92, got %s", got)
		}

		if sent := notifier.Sent(); len(sent) != 1 || sent[0].Subject != "Investment Matured" {
			t.Errorf("Expected one maturity notification, got %+v", sent)
		}

		// Re-run: nothing left to settle, balance untouched.
		again, err := svc.RunMaturitySweep(context.Background())
		if err != nil {
			t.Fatalf("Re-run failed: %v", err)
		}
		if again.TotalConsidered != 0 {
			t.Errorf("Expected 0 considered on re-run, got %+v", again)
		}
		if got := testutil.AccountBalance(t, db, account.UserID); got != 10082192 {
			t.Errorf("Expected balance unchanged after re-run, got %d", got)
		}
	})

	t.Run("return-only plan pays interest without principal", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc, _ := testutil.NewTestSweepService(t, db, testNow)
		plan := testutil.NewPlan().WithPayoutMode(model.PayoutReturnOnly).Build(t, db)
		account := testutil.NewAccount().Build(t, db)
		testutil.NewInvestment(plan).
			WithUserID(account.UserID).
			Active(testNow.AddDate(0, 0, -31)).
			Build(t, db)

		summary, err := svc.RunMaturitySweep(context.Background())
		if err != nil {
			t.Fatalf("RunMaturitySweep() returned unexpected error: %v", err)
		}
		if summary.Completed != 1 {
			t.Fatalf("Expected 1 completed, got %+v", summary)
		}

		if got := testutil.AccountBalance(t, db, account.UserID); got != 82192 {
			t.Errorf("Expected interest-only payout of 82192 cents, got %d", got)
		}
	})

	t.Run("active investment before its end date is left alone", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc, _ := testutil.NewTestSweepService(t, db, testNow)
		plan := testutil.NewPlan().Build(t, db)
		account := testutil.NewAccount().Build(t, db)
		testutil.NewInvestment(plan).
			WithUserID(account.UserID).
			Active(testNow.AddDate(0, 0, -5)).
			Build(t, db)

		summary, err := svc.RunMaturitySweep(context.Background())
		if err != nil {
			t.Fatalf("RunMaturitySweep() returned unexpected error: %v", err)
		}
		if summary.TotalConsidered != 0 {
			t.Errorf("Expected 0 considered, got %+v", summary)
		}
	})
}

// TestSweepService_CatchUp tests downtime recovery.
//
// WHY: When the scheduler is down for days, users are owed the missed daily
// credits. The catch-up math must pay exactly the missed days: short by one
// cheats the user, long by one pays twice.
func TestSweepService_CatchUp(t *testing.T) {
	t.Run("credits the missed days in one batch", func(t *testing.T) {
		// Setup: daily return 50, last credited 3 days ago -> 150 owed.
		db := testutil.SetupTestDB(t)
		svc, _ := testutil.NewTestSweepService(t, db, testNow)
		plan := testutil.NewPlan().Build(t, db)
		account := testutil.NewAccount().Build(t, db)
		inv := testutil.NewInvestment(plan).
			WithUserID(account.UserID).
			WithSchedule("50", "1500").
			Active(testNow.AddDate(0, 0, -10)).
			WithLastCreditedAt(testNow.AddDate(0, 0, -3)).
			Build(t, db)

		// Execute
		summary, err := svc.RunCatchUpSweep(context.Background())

		// Assert
		if err != nil {
			t.Fatalf("RunCatchUpSweep() returned unexpected error: %v", err)
		}
		if summary.Processed != 1 {
			t.Fatalf("Expected 1 processed, got %+v", summary)
		}

		if got := testutil.AccountBalance(t, db, account.UserID); got != 15000 {
			t.Errorf("Expected catch-up credit of 15000 cents, got %d", got)
		}

		stored, err := repository.NewInvestmentRepository(db).GetOnID(context.Background(), inv.ID)
		if err != nil {
			t.Fatalf("Failed to reload investment: %v", err)
		}
		if stored.LastCreditedAt == nil || !stored.LastCreditedAt.Equal(testNow) {
			t.Errorf("Expected lastCreditedAt advanced to %s, got %v", testNow, stored.LastCreditedAt)
		}
	})

	t.Run("one-day lag is normal accrual territory, not catch-up", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc, _ := testutil.NewTestSweepService(t, db, testNow)
		plan := testutil.NewPlan().Build(t, db)
		account := testutil.NewAccount().Build(t, db)
		testutil.NewInvestment(plan).
			WithUserID(account.UserID).
			Active(testNow.AddDate(0, 0, -10)).
			WithLastCreditedAt(testNow.AddDate(0, 0, -1)).
			Build(t, db)

		summary, err := svc.RunCatchUpSweep(context.Background())
		if err != nil {
			t.Fatalf("RunCatchUpSweep() returned unexpected error: %v", err)
		}
		if summary.TotalConsidered != 0 {
			t.Errorf("Expected 0 considered for one-day lag, got %+v", summary)
		}
	})

	t.Run("matured investments are settled, never caught up", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc, _ := testutil.NewTestSweepService(t, db, testNow)
		plan := testutil.NewPlan().Build(t, db)
		account := testutil.NewAccount().Build(t, db)
		// End date passed while the scheduler was down.
		testutil.NewInvestment(plan).
			WithUserID(account.UserID).
			Active(testNow.AddDate(0, 0, -35)).
			WithLastCreditedAt(testNow.AddDate(0, 0, -10)).
			Build(t, db)

		summary, err := svc.RunCatchUpSweep(context.Background())
		if err != nil {
			t.Fatalf("RunCatchUpSweep() returned unexpected error: %v", err)
		}
		if summary.TotalConsidered != 0 {
			t.Errorf("Expected matured investment excluded from catch-up, got %+v", summary)
		}
	})

	t.Run("never credited investment catches up from its start", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc, _ := testutil.NewTestSweepService(t, db, testNow)
		plan := testutil.NewPlan().Build(t, db)
		account := testutil.NewAccount().Build(t, db)
		// Active for 4 days and never credited: 4 days owed at 50 each.
		testutil.NewInvestment(plan).
			WithUserID(account.UserID).
			WithSchedule("50", "1500").
			Active(testNow.AddDate(0, 0, -4)).
			Build(t, db)

		summary, err := svc.RunCatchUpSweep(context.Background())
		if err != nil {
			t.Fatalf("RunCatchUpSweep() returned unexpected error: %v", err)
		}
		if summary.Processed != 1 {
			t.Fatalf("Expected 1 processed, got %+v", summary)
		}

		if got := testutil.AccountBalance(t, db, account.UserID); got != 20000 {
			t.Errorf("Expected 20000 cents for four missed days, got %d", got)
		}
	})
}

// TestSweepService_RunAll tests the combined sweep ordering.
//
// WHY: Maturity must run before accrual and catch-up. An investment past
// its end date gets its terminal payout; crediting it a daily return first
// would pay money the schedule does not owe.
func TestSweepService_RunAll(t *testing.T) {
	t.Run("matured investment is settled, fresh one accrued", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc, _ := testutil.NewTestSweepService(t, db, testNow)
		plan := testutil.NewPlan().Build(t, db)
		matured := testutil.NewAccount().Build(t, db)
		running := testutil.NewAccount().Build(t, db)
		testutil.NewInvestment(plan).
			WithUserID(matured.UserID).
			Active(testNow.AddDate(0, 0, -31)).
			Build(t, db)
		testutil.NewInvestment(plan).
			WithUserID(running.UserID).
			Active(testNow.AddDate(0, 0, -5)).
			Build(t, db)

		summaries, err := svc.RunAll(context.Background())
		if err != nil {
			t.Fatalf("RunAll() returned unexpected error: %v", err)
		}

		if len(summaries) != 3 {
			t.Fatalf("Expected 3 summaries, got %d", len(summaries))
		}
		if summaries[0].Kind != model.SweepMaturity || summaries[1].Kind != model.SweepCatchUp || summaries[2].Kind != model.SweepAccrual {
			t.Errorf("Unexpected sweep order: %s, %s, %s", summaries[0].Kind, summaries[1].Kind, summaries[2].Kind)
		}

		if summaries[0].Completed != 1 {
			t.Errorf("Expected maturity to settle 1, got %+v", summaries[0])
		}
		if summaries[2].Processed != 1 {
			t.Errorf("Expected accrual to process 1, got %+v", summaries[2])
		}

		if got := testutil.AccountBalance(t, db, matured.UserID); got != 10082192 {
			t.Errorf("Expected matured payout 10082192 cents, got %d", got)
		}
		if got := testutil.AccountBalance(t, db, running.UserID); got != 2740 {
			t.Errorf("Expected daily credit 2740 cents, got %d", got)
		}
	})

	t.Run("cancelled context aborts without crediting", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc, _ := testutil.NewTestSweepService(t, db, testNow)
		plan := testutil.NewPlan().Build(t, db)
		account := testutil.NewAccount().Build(t, db)
		testutil.NewInvestment(plan).
			WithUserID(account.UserID).
			Active(testNow.AddDate(0, 0, -5)).
			Build(t, db)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := svc.RunAccrualSweep(ctx); err == nil {
			t.Fatal("Expected a cancelled context to abort the sweep")
		}

		// Nothing was credited.
		if got := testutil.AccountBalance(t, db, account.UserID); got != 0 {
			t.Errorf("Expected no credit under a cancelled context, got %d", got)
		}
	})
}
