package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/topmart/Investment-Engine-Backend/internal/apperrors"
	"github.com/topmart/Investment-Engine-Backend/internal/model"
	"github.com/topmart/Investment-Engine-Backend/internal/repository"
	"github.com/topmart/Investment-Engine-Backend/internal/returns"
)

// Actor identifies the requester for authorization checks. Identity itself
// is established upstream (auth is outside this service); the lifecycle
// only distinguishes owner from admin.
type Actor struct {
	UserID  string
	IsAdmin bool
}

// canAccess reports whether the actor may read or mutate the investment.
func (a Actor) canAccess(inv model.Investment) bool {
	return a.IsAdmin || a.UserID == inv.UserID
}

// LifecycleService owns every state transition of investments: creation
// from approved deposits, the approval workflow, cancellation, and the
// authorized query surface. It is the sole writer of investment status and
// accrual fields (the sweep side lives in SweepService, which shares the
// same repository guards).
type LifecycleService struct {
	investmentRepo *repository.InvestmentRepository
	planRepo       *repository.PlanRepository
	notifier       Notifier
	now            Clock
}

// NewLifecycleService creates a new LifecycleService with the provided dependencies.
func NewLifecycleService(
	investmentRepo *repository.InvestmentRepository,
	planRepo *repository.PlanRepository,
	notifier Notifier,
	now Clock,
) *LifecycleService {
	return &LifecycleService{
		investmentRepo: investmentRepo,
		planRepo:       planRepo,
		notifier:       notifier,
		now:            now,
	}
}

// CreateInvestmentParams carries the approved-deposit event that creates an
// investment. ActivateOnCreate covers purchases where funds are already
// confirmed: the investment skips pending and starts its cycle immediately.
type CreateInvestmentParams struct {
	UserID           string
	PlanID           string
	Amount           decimal.Decimal
	ActivateOnCreate bool
}

// CreateInvestment validates the deposit against the plan's bounds, freezes
// the plan terms and return schedule onto a new investment, and persists it.
// No crediting happens at creation.
func (s *LifecycleService) CreateInvestment(ctx context.Context, params CreateInvestmentParams) (*model.Investment, error) {
	plan, err := s.planRepo.GetPlanOnID(ctx, params.PlanID)
	if err != nil {
		return nil, err
	}

	if params.Amount.LessThan(plan.MinDeposit) || params.Amount.GreaterThan(plan.MaxDeposit) {
		return nil, fmt.Errorf("%w: amount %s outside [%s, %s] for plan %s",
			apperrors.ErrPlanLimitExceeded, params.Amount, plan.MinDeposit, plan.MaxDeposit, plan.Name)
	}

	interest, err := returns.ComputeInterest(params.Amount, plan.RatePercent, plan.DurationDays, plan.Compounding)
	if err != nil {
		return nil, err
	}

	now := s.now()
	status := model.StatusPending
	if params.ActivateOnCreate {
		status = model.StatusActive
	}

	inv := &model.Investment{
		ID:            uuid.New().String(),
		UserID:        params.UserID,
		PlanID:        plan.ID,
		Status:        status,
		DepositAmount: params.Amount,
		DailyReturn:   returns.DailyReturn(interest, plan.DurationDays),
		TotalReturn:   interest,
		TotalEarned:   decimal.Zero,
		ReturnAmount:  decimal.Zero,

		RatePercent:  plan.RatePercent,
		DurationDays: plan.DurationDays,
		Compounding:  plan.Compounding,
		PayoutMode:   plan.PayoutMode,

		InvestmentStart:    now,
		InvestmentEnd:      now.AddDate(0, 0, plan.DurationDays),
		LastStatusChangeAt: now,
		CreatedAt:          now,
	}

	if err := s.investmentRepo.Insert(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to create investment: %w", err)
	}

	return inv, nil
}

// Approve transitions a pending investment to active, re-anchoring its
// cycle at approval time: start = now, end = now + frozen duration. The
// frozen return schedule is unchanged. Only valid from pending.
func (s *LifecycleService) Approve(ctx context.Context, investmentID, adminID, note string) (*model.Investment, error) {
	inv, err := s.investmentRepo.GetOnID(ctx, investmentID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	end := now.AddDate(0, 0, inv.DurationDays)

	ok, err := s.investmentRepo.Approve(ctx, investmentID, adminID, note, now, end, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.transitionError(ctx, investmentID)
	}

	approved, err := s.investmentRepo.GetOnID(ctx, investmentID)
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, approved.UserID, "Investment Approved",
		fmt.Sprintf("Your investment has started. It matures on %s.", approved.InvestmentEnd.Format("2006-01-02")))

	return &approved, nil
}

// Reject transitions a pending investment to rejected, recording the reason.
// Only valid from pending.
func (s *LifecycleService) Reject(ctx context.Context, investmentID, adminID, reason string) (*model.Investment, error) {
	if _, err := s.investmentRepo.GetOnID(ctx, investmentID); err != nil {
		return nil, err
	}

	if reason == "" {
		reason = "Not specified"
	}

	ok, err := s.investmentRepo.Reject(ctx, investmentID, adminID, reason, s.now())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.transitionError(ctx, investmentID)
	}

	rejected, err := s.investmentRepo.GetOnID(ctx, investmentID)
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, rejected.UserID, "Investment Rejected",
		fmt.Sprintf("Your investment was not approved: %s", reason))

	return &rejected, nil
}

// Cancel terminates an active investment at the owner's (or an admin's)
// request. Already-credited accrual is not reversed. Only valid from
// active; the conditional update is the serialization point against a
// concurrent sweep, so a cancel cannot land on an investment that matured
// in the same instant.
func (s *LifecycleService) Cancel(ctx context.Context, actor Actor, investmentID string) (*model.Investment, error) {
	inv, err := s.investmentRepo.GetOnID(ctx, investmentID)
	if err != nil {
		return nil, err
	}

	if !actor.canAccess(inv) {
		return nil, fmt.Errorf("%w: investment %s", apperrors.ErrUnauthorized, investmentID)
	}

	ok, err := s.investmentRepo.Cancel(ctx, investmentID, s.now())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.transitionError(ctx, investmentID)
	}

	cancelled, err := s.investmentRepo.GetOnID(ctx, investmentID)
	if err != nil {
		return nil, err
	}

	return &cancelled, nil
}

// transitionError re-reads the investment after a refused conditional
// update so the error names the state that blocked the transition.
func (s *LifecycleService) transitionError(ctx context.Context, investmentID string) error {
	current, err := s.investmentRepo.GetOnID(ctx, investmentID)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: investment %s is %s", apperrors.ErrInvalidTransition, investmentID, current.Status)
}

// GetInvestment retrieves one investment, visible to its owner and admins.
func (s *LifecycleService) GetInvestment(ctx context.Context, actor Actor, investmentID string) (*model.Investment, error) {
	inv, err := s.investmentRepo.GetOnID(ctx, investmentID)
	if err != nil {
		return nil, err
	}

	if !actor.canAccess(inv) {
		return nil, fmt.Errorf("%w: investment %s", apperrors.ErrUnauthorized, investmentID)
	}

	return &inv, nil
}

// ListUserInvestments lists a user's investments with an optional status
// filter, paginated, visible to that user and admins.
func (s *LifecycleService) ListUserInvestments(ctx context.Context, actor Actor, userID string, status model.InvestmentStatus, limit, offset int) ([]model.Investment, error) {
	if !actor.IsAdmin && actor.UserID != userID {
		return nil, fmt.Errorf("%w: investments of user %s", apperrors.ErrUnauthorized, userID)
	}

	return s.investmentRepo.List(ctx, model.InvestmentFilter{
		UserID: userID,
		Status: status,
		Limit:  limit,
		Offset: offset,
	})
}

// ListInvestments lists all investments (admin only), paginated and
// filterable by status.
func (s *LifecycleService) ListInvestments(ctx context.Context, actor Actor, filter model.InvestmentFilter) ([]model.Investment, error) {
	if !actor.IsAdmin {
		return nil, apperrors.ErrUnauthorized
	}

	return s.investmentRepo.List(ctx, filter)
}

// GetStats aggregates counts and totals across the ledger (admin only).
func (s *LifecycleService) GetStats(ctx context.Context, actor Actor) (model.InvestmentStats, error) {
	if !actor.IsAdmin {
		return model.InvestmentStats{}, apperrors.ErrUnauthorized
	}

	return s.investmentRepo.GetStats(ctx)
}
