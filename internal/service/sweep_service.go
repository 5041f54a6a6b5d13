package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/topmart/Investment-Engine-Backend/internal/apperrors"
	"github.com/topmart/Investment-Engine-Backend/internal/model"
	"github.com/topmart/Investment-Engine-Backend/internal/repository"
	"github.com/topmart/Investment-Engine-Backend/internal/returns"
)

// SweepService runs the batch passes that drive time-based investment
// behavior: daily accrual, maturity payout, and downtime catch-up. A mutex
// makes runs single-flight so two sweeps never work the same investment set
// concurrently; within a run, investments are processed with bounded
// parallelism and a per-item timeout so no single credit can stall the
// whole pass.
type SweepService struct {
	investmentRepo *repository.InvestmentRepository
	alertRepo      *repository.AlertRepository
	gateway        CreditingGateway
	notifier       Notifier
	now            Clock

	workerLimit int
	itemTimeout time.Duration

	mu sync.Mutex
}

// NewSweepService creates a new SweepService with the provided dependencies.
func NewSweepService(
	investmentRepo *repository.InvestmentRepository,
	alertRepo *repository.AlertRepository,
	gateway CreditingGateway,
	notifier Notifier,
	now Clock,
	workerLimit int,
	itemTimeout time.Duration,
) *SweepService {
	if workerLimit < 1 {
		workerLimit = 1
	}
	if itemTimeout <= 0 {
		itemTimeout = 10 * time.Second
	}
	return &SweepService{
		investmentRepo: investmentRepo,
		alertRepo:      alertRepo,
		gateway:        gateway,
		notifier:       notifier,
		now:            now,
		workerLimit:    workerLimit,
		itemTimeout:    itemTimeout,
	}
}

// RunAccrualSweep credits one daily return to every active investment not
// yet credited on now's calendar day. Re-running within the same day is a
// no-op per investment.
func (s *SweepService) RunAccrualSweep(ctx context.Context) (model.SweepSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runAccrual(ctx)
}

// RunMaturitySweep settles every active investment whose end date has been
// reached: one terminal payout, status completed, exactly once.
func (s *SweepService) RunMaturitySweep(ctx context.Context) (model.SweepSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runMaturity(ctx)
}

// RunCatchUpSweep credits missed daily returns after scheduler downtime,
// never beyond the investment's end date.
func (s *SweepService) RunCatchUpSweep(ctx context.Context) (model.SweepSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runCatchUp(ctx)
}

// RunAll executes the sweeps in their required order: maturity first, so an
// investment past its end date is settled rather than accrued, then
// catch-up, then the daily accrual.
func (s *SweepService) RunAll(ctx context.Context) ([]model.SweepSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var summaries []model.SweepSummary
	runs := []func(context.Context) (model.SweepSummary, error){
		s.runMaturity,
		s.runCatchUp,
		s.runAccrual,
	}

	for _, run := range runs {
		summary, err := run(ctx)
		if err != nil {
			return summaries, err
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// ListAlerts returns the persisted reconciliation alerts, newest first.
func (s *SweepService) ListAlerts(ctx context.Context) ([]model.ReconciliationAlert, error) {
	alerts, err := s.alertRepo.GetAlerts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFailedToRetrieveAlerts, err)
	}
	return alerts, nil
}

func (s *SweepService) runAccrual(ctx context.Context) (model.SweepSummary, error) {
	now := s.now()
	summary := model.SweepSummary{Kind: model.SweepAccrual, StartedAt: now}

	due, err := s.investmentRepo.SelectAccrualDue(ctx, now)
	if err != nil {
		return summary, fmt.Errorf("%w: %v", apperrors.ErrFailedToRunSweep, err)
	}

	s.processItems(ctx, &summary, due, func(ctx context.Context, inv model.Investment) model.SweepItemResult {
		amount := inv.DailyReturn

		applied, err := s.investmentRepo.ApplyAccrual(ctx, inv, amount, now, func(ctx context.Context, q repository.Querier) error {
			_, err := s.gateway.Credit(ctx, q, inv.UserID, amount)
			return err
		})

		return s.classify(ctx, inv, amount, "accrual", applied, err, model.OutcomeProcessed)
	})

	summary.FinishedAt = s.now()
	s.logSummary(summary)
	return summary, nil
}

func (s *SweepService) runMaturity(ctx context.Context) (model.SweepSummary, error) {
	now := s.now()
	summary := model.SweepSummary{Kind: model.SweepMaturity, StartedAt: now}

	due, err := s.investmentRepo.SelectMaturityDue(ctx, now)
	if err != nil {
		return summary, fmt.Errorf("%w: %v", apperrors.ErrFailedToRunSweep, err)
	}

	s.processItems(ctx, &summary, due, func(ctx context.Context, inv model.Investment) model.SweepItemResult {
		// Payout is computed from the terms frozen on the investment row, so
		// a plan edited after creation cannot change what this pays.
		interest, err := returns.ComputeInterest(inv.DepositAmount, inv.RatePercent, inv.DurationDays, inv.Compounding)
		if err != nil {
			return model.SweepItemResult{
				InvestmentID: inv.ID,
				UserID:       inv.UserID,
				Outcome:      model.OutcomeFailed,
				Error:        err.Error(),
			}
		}
		payout := returns.ComputeTotalPayout(inv.DepositAmount, interest, inv.PayoutMode)

		applied, err := s.investmentRepo.SettleMaturity(ctx, inv, interest, payout, now, func(ctx context.Context, q repository.Querier) error {
			_, err := s.gateway.Credit(ctx, q, inv.UserID, payout)
			return err
		})

		result := s.classify(ctx, inv, payout, "maturity", applied, err, model.OutcomeCompleted)
		if result.Outcome == model.OutcomeCompleted {
			s.notifier.Notify(ctx, inv.UserID, "Investment Matured",
				fmt.Sprintf("Your investment has matured. Interest: %s. Credited: %s.", interest, payout))
		}
		return result
	})

	summary.FinishedAt = s.now()
	s.logSummary(summary)
	return summary, nil
}

func (s *SweepService) runCatchUp(ctx context.Context) (model.SweepSummary, error) {
	now := s.now()
	summary := model.SweepSummary{Kind: model.SweepCatchUp, StartedAt: now}

	due, err := s.investmentRepo.SelectCatchUpDue(ctx, now)
	if err != nil {
		return summary, fmt.Errorf("%w: %v", apperrors.ErrFailedToRunSweep, err)
	}

	s.processItems(ctx, &summary, due, func(ctx context.Context, inv model.Investment) model.SweepItemResult {
		days := missedDays(inv, now)
		if days < 2 {
			return model.SweepItemResult{
				InvestmentID: inv.ID,
				UserID:       inv.UserID,
				Outcome:      model.OutcomeSkipped,
			}
		}

		amount := inv.DailyReturn.Mul(decimal.NewFromInt(days))

		applied, err := s.investmentRepo.ApplyCatchUp(ctx, inv, amount, now, func(ctx context.Context, q repository.Querier) error {
			_, err := s.gateway.Credit(ctx, q, inv.UserID, amount)
			return err
		})

		return s.classify(ctx, inv, amount, "catchup", applied, err, model.OutcomeProcessed)
	})

	summary.FinishedAt = s.now()
	s.logSummary(summary)
	return summary, nil
}

// processItems runs one sweep item per due investment with bounded
// parallelism and a per-item timeout, then folds the results into the
// summary. A cancelled/expired run context stops launching new items;
// untouched investments are reported as skipped so a bounded manual run
// reports partial completion instead of hanging.
func (s *SweepService) processItems(
	ctx context.Context,
	summary *model.SweepSummary,
	due []model.Investment,
	process func(context.Context, model.Investment) model.SweepItemResult,
) {
	summary.TotalConsidered = len(due)
	results := make([]model.SweepItemResult, len(due))

	g := new(errgroup.Group)
	g.SetLimit(s.workerLimit)

	for i, inv := range due {
		if ctx.Err() != nil {
			break
		}

		g.Go(func() error {
			itemCtx, cancel := context.WithTimeout(ctx, s.itemTimeout)
			defer cancel()
			results[i] = process(itemCtx, inv)
			return nil
		})
	}

	// Never returns an error: item failures are captured in the results.
	_ = g.Wait()

	for i, result := range results {
		if result.Outcome == "" {
			result = model.SweepItemResult{
				InvestmentID: due[i].ID,
				UserID:       due[i].UserID,
				Outcome:      model.OutcomeSkipped,
				Error:        "not processed: sweep budget exhausted",
			}
		}
		summary.Add(result)
	}
}

// classify turns a conditional-update outcome into a sweep item result.
// InconsistentState additionally lands in the reconciliation alert log,
// outside the summary path, because it means money moved (or may have)
// without the matching ledger write.
func (s *SweepService) classify(ctx context.Context, inv model.Investment, amount decimal.Decimal, stage string, applied bool, err error, success model.SweepOutcome) model.SweepItemResult {
	result := model.SweepItemResult{
		InvestmentID: inv.ID,
		UserID:       inv.UserID,
		Amount:       amount,
	}

	switch {
	case err == nil && applied:
		result.Outcome = success
	case err == nil:
		// Guard refused: credited earlier today, cancelled mid-sweep, or
		// already paid out. The loser of the race no-ops.
		result.Outcome = model.OutcomeSkipped
		result.Amount = decimal.Zero
	case errors.Is(err, apperrors.ErrInconsistentState):
		result.Outcome = model.OutcomeInconsistent
		result.Error = err.Error()
		s.recordInconsistency(ctx, inv, amount, stage, err)
	default:
		result.Outcome = model.OutcomeFailed
		result.Error = err.Error()
		result.Amount = decimal.Zero
		log.Printf("sweep %s: investment %s failed: %v", stage, inv.ID, err)
	}

	return result
}

func (s *SweepService) recordInconsistency(ctx context.Context, inv model.Investment, amount decimal.Decimal, stage string, cause error) {
	log.Printf("CRITICAL: sweep %s: investment %s user %s amount %s: %v - manual reconciliation required",
		stage, inv.ID, inv.UserID, amount, cause)

	alert := &model.ReconciliationAlert{
		ID:           uuid.New().String(),
		InvestmentID: inv.ID,
		UserID:       inv.UserID,
		Amount:       amount,
		Stage:        stage,
		Message:      cause.Error(),
		CreatedAt:    s.now(),
	}

	// Alert persistence must not mask the original problem; a failure here
	// leaves the log line above as the only trace.
	if err := s.alertRepo.InsertAlert(ctx, alert); err != nil {
		log.Printf("CRITICAL: failed to persist reconciliation alert for investment %s: %v", inv.ID, err)
	}
}

func (s *SweepService) logSummary(summary model.SweepSummary) {
	log.Printf("sweep %s: considered=%d processed=%d completed=%d skipped=%d failed=%d inconsistent=%d",
		summary.Kind, summary.TotalConsidered, summary.Processed, summary.Completed,
		summary.Skipped, summary.Failed, summary.Inconsistent)
}

// missedDays computes how many daily credits an investment is behind:
// calendar days since the last credit (or since the cycle start when never
// credited), capped by days since start and by the plan duration so credits
// never extend past the end date.
func missedDays(inv model.Investment, now time.Time) int64 {
	ref := inv.InvestmentStart
	if inv.LastCreditedAt != nil {
		ref = *inv.LastCreditedAt
	}

	effective := now
	if effective.After(inv.InvestmentEnd) {
		effective = inv.InvestmentEnd
	}

	days := calendarDaysBetween(ref, effective)
	if sinceStart := calendarDaysBetween(inv.InvestmentStart, effective); days > sinceStart {
		days = sinceStart
	}
	if days > int64(inv.DurationDays) {
		days = int64(inv.DurationDays)
	}
	if days < 0 {
		days = 0
	}
	return days
}

// calendarDaysBetween counts whole UTC calendar days from a to b.
func calendarDaysBetween(a, b time.Time) int64 {
	a, b = a.UTC(), b.UTC()
	aDay := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bDay := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int64(bDay.Sub(aDay).Hours() / 24)
}
