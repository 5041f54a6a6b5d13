package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/topmart/Investment-Engine-Backend/internal/model"
	"github.com/topmart/Investment-Engine-Backend/internal/repository"
)

// PlanBuilder provides a fluent interface for creating test plans.
//
// Example usage:
//
//	// Simple creation with defaults
//	plan := testutil.NewPlan().Build(t, db)
//
//	// Customized plan
//	plan := testutil.NewPlan().
//	    WithRate("12.5").
//	    WithDurationDays(90).
//	    Compounding().
//	    Build(t, db)
type PlanBuilder struct {
	ID           string
	Name         string
	DurationDays int
	RatePercent  decimal.Decimal
	Compound     bool
	PayoutMode   model.PayoutMode
	MinDeposit   decimal.Decimal
	MaxDeposit   decimal.Decimal
}

// NewPlan creates a PlanBuilder with sensible defaults: 30 days at 10%
// simple interest, principal plus return, deposits from 100 to 1,000,000.
func NewPlan() *PlanBuilder {
	return &PlanBuilder{
		ID:           MakeID(),
		Name:         "Test Plan",
		DurationDays: 30,
		RatePercent:  decimal.RequireFromString("10"),
		Compound:     false,
		PayoutMode:   model.PayoutPrincipalPlusReturn,
		MinDeposit:   decimal.RequireFromString("100"),
		MaxDeposit:   decimal.RequireFromString("1000000"),
	}
}

// WithID sets a custom ID.
func (b *PlanBuilder) WithID(id string) *PlanBuilder {
	b.ID = id
	return b
}

// WithName sets a custom name.
func (b *PlanBuilder) WithName(name string) *PlanBuilder {
	b.Name = name
	return b
}

// WithDurationDays sets the plan duration.
func (b *PlanBuilder) WithDurationDays(days int) *PlanBuilder {
	b.DurationDays = days
	return b
}

// WithRate sets the annual rate percentage from a decimal string.
func (b *PlanBuilder) WithRate(rate string) *PlanBuilder {
	b.RatePercent = decimal.RequireFromString(rate)
	return b
}

// Compounding switches the plan to monthly compound interest.
func (b *PlanBuilder) Compounding() *PlanBuilder {
	b.Compound = true
	return b
}

// WithPayoutMode sets the payout mode.
func (b *PlanBuilder) WithPayoutMode(mode model.PayoutMode) *PlanBuilder {
	b.PayoutMode = mode
	return b
}

// WithDepositBounds sets the deposit bounds from decimal strings.
func (b *PlanBuilder) WithDepositBounds(min, max string) *PlanBuilder {
	b.MinDeposit = decimal.RequireFromString(min)
	b.MaxDeposit = decimal.RequireFromString(max)
	return b
}

// Build inserts the plan and returns the model.
func (b *PlanBuilder) Build(t *testing.T, db *sql.DB) model.Plan {
	t.Helper()

	query := `
		INSERT INTO plan (id, name, duration_days, rate_percent, compounding, payout_mode, min_deposit_cents, max_deposit_cents, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		b.ID, b.Name, b.DurationDays, b.RatePercent.String(), b.Compound,
		string(b.PayoutMode), repository.Cents(b.MinDeposit), repository.Cents(b.MaxDeposit),
		repository.FormatTime(time.Now().UTC()),
	)
	if err != nil {
		t.Fatalf("Failed to create test plan: %v", err)
	}

	return model.Plan{
		ID:           b.ID,
		Name:         b.Name,
		DurationDays: b.DurationDays,
		RatePercent:  b.RatePercent,
		Compounding:  b.Compound,
		PayoutMode:   b.PayoutMode,
		MinDeposit:   b.MinDeposit,
		MaxDeposit:   b.MaxDeposit,
	}
}

// AccountBuilder provides a fluent interface for creating test accounts.
type AccountBuilder struct {
	ID      string
	UserID  string
	Email   string
	Balance decimal.Decimal
}

// NewAccount creates an AccountBuilder with a fresh user ID and zero balance.
func NewAccount() *AccountBuilder {
	return &AccountBuilder{
		ID:      MakeID(),
		UserID:  MakeID(),
		Email:   "user@example.com",
		Balance: decimal.Zero,
	}
}

// WithUserID sets a custom user ID.
func (b *AccountBuilder) WithUserID(userID string) *AccountBuilder {
	b.UserID = userID
	return b
}

// WithEmail sets a custom email.
func (b *AccountBuilder) WithEmail(email string) *AccountBuilder {
	b.Email = email
	return b
}

// WithBalance sets the starting balance from a decimal string.
func (b *AccountBuilder) WithBalance(balance string) *AccountBuilder {
	b.Balance = decimal.RequireFromString(balance)
	return b
}

// Build inserts the account and returns the model.
func (b *AccountBuilder) Build(t *testing.T, db *sql.DB) model.Account {
	t.Helper()

	query := `
		INSERT INTO account (id, user_id, email, balance_cents)
		VALUES (?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.UserID, b.Email, repository.Cents(b.Balance))
	if err != nil {
		t.Fatalf("Failed to create test account: %v", err)
	}

	return model.Account{
		ID:      b.ID,
		UserID:  b.UserID,
		Email:   b.Email,
		Balance: b.Balance,
	}
}

// InvestmentBuilder provides a fluent interface for creating test
// investments with full control over the time fields the sweeps read.
//
// Example usage:
//
//	inv := testutil.NewInvestment(plan).
//	    WithUserID(account.UserID).
//	    Active(start).
//	    WithLastCreditedAt(yesterday).
//	    Build(t, db)
type InvestmentBuilder struct {
	ID             string
	UserID         string
	Plan           model.Plan
	Status         model.InvestmentStatus
	DepositAmount  decimal.Decimal
	DailyReturn    decimal.Decimal
	TotalReturn    decimal.Decimal
	TotalEarned    decimal.Decimal
	Start          time.Time
	End            time.Time
	LastCreditedAt *time.Time
	PayoutCredited bool
}

// NewInvestment creates an InvestmentBuilder against the given plan,
// pending by default, with a 100000 deposit and the 30-day/10% schedule
// precomputed (821.92 total, 27.40 daily).
func NewInvestment(plan model.Plan) *InvestmentBuilder {
	now := time.Now().UTC()
	return &InvestmentBuilder{
		ID:            MakeID(),
		UserID:        MakeID(),
		Plan:          plan,
		Status:        model.StatusPending,
		DepositAmount: decimal.RequireFromString("100000"),
		DailyReturn:   decimal.RequireFromString("27.40"),
		TotalReturn:   decimal.RequireFromString("821.92"),
		TotalEarned:   decimal.Zero,
		Start:         now,
		End:           now.AddDate(0, 0, plan.DurationDays),
	}
}

// WithID sets a custom ID.
func (b *InvestmentBuilder) WithID(id string) *InvestmentBuilder {
	b.ID = id
	return b
}

// WithUserID sets a custom user ID.
func (b *InvestmentBuilder) WithUserID(userID string) *InvestmentBuilder {
	b.UserID = userID
	return b
}

// WithDeposit sets the deposit amount from a decimal string.
func (b *InvestmentBuilder) WithDeposit(amount string) *InvestmentBuilder {
	b.DepositAmount = decimal.RequireFromString(amount)
	return b
}

// WithSchedule sets the frozen return schedule from decimal strings.
func (b *InvestmentBuilder) WithSchedule(daily, total string) *InvestmentBuilder {
	b.DailyReturn = decimal.RequireFromString(daily)
	b.TotalReturn = decimal.RequireFromString(total)
	return b
}

// WithTotalEarned sets the accrued-so-far amount from a decimal string.
func (b *InvestmentBuilder) WithTotalEarned(earned string) *InvestmentBuilder {
	b.TotalEarned = decimal.RequireFromString(earned)
	return b
}

// Active marks the investment active with its cycle anchored at start.
func (b *InvestmentBuilder) Active(start time.Time) *InvestmentBuilder {
	b.Status = model.StatusActive
	b.Start = start.UTC()
	b.End = b.Start.AddDate(0, 0, b.Plan.DurationDays)
	return b
}

// WithStatus sets the status without touching the cycle dates.
func (b *InvestmentBuilder) WithStatus(status model.InvestmentStatus) *InvestmentBuilder {
	b.Status = status
	return b
}

// WithLastCreditedAt sets the last daily credit timestamp.
func (b *InvestmentBuilder) WithLastCreditedAt(ts time.Time) *InvestmentBuilder {
	ts = ts.UTC()
	b.LastCreditedAt = &ts
	return b
}

// PayoutDone marks the maturity payout as already credited.
func (b *InvestmentBuilder) PayoutDone() *InvestmentBuilder {
	b.PayoutCredited = true
	return b
}

// Build inserts the investment and returns the model.
func (b *InvestmentBuilder) Build(t *testing.T, db *sql.DB) model.Investment {
	t.Helper()

	query := `
		INSERT INTO investment (
			id, user_id, plan_id, status,
			deposit_amount_cents, daily_return_cents, total_return_cents, total_earned_cents, return_amount_cents,
			rate_percent, duration_days, compounding, payout_mode,
			investment_start, investment_end, last_credited_at, last_status_change_at, payout_credited,
			approved_by, approval_note, rejection_reason, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var lastCredited any
	if b.LastCreditedAt != nil {
		lastCredited = repository.FormatTime(*b.LastCreditedAt)
	}

	_, err := db.Exec(query,
		b.ID, b.UserID, b.Plan.ID, string(b.Status),
		repository.Cents(b.DepositAmount), repository.Cents(b.DailyReturn),
		repository.Cents(b.TotalReturn), repository.Cents(b.TotalEarned), 0,
		b.Plan.RatePercent.String(), b.Plan.DurationDays, b.Plan.Compounding, string(b.Plan.PayoutMode),
		repository.FormatTime(b.Start), repository.FormatTime(b.End),
		lastCredited, repository.FormatTime(b.Start), b.PayoutCredited,
		"", "", "", repository.FormatTime(b.Start),
	)
	if err != nil {
		t.Fatalf("Failed to create test investment: %v", err)
	}

	return model.Investment{
		ID:                 b.ID,
		UserID:             b.UserID,
		PlanID:             b.Plan.ID,
		Status:             b.Status,
		DepositAmount:      b.DepositAmount,
		DailyReturn:        b.DailyReturn,
		TotalReturn:        b.TotalReturn,
		TotalEarned:        b.TotalEarned,
		RatePercent:        b.Plan.RatePercent,
		DurationDays:       b.Plan.DurationDays,
		Compounding:        b.Plan.Compounding,
		PayoutMode:         b.Plan.PayoutMode,
		InvestmentStart:    b.Start,
		InvestmentEnd:      b.End,
		LastCreditedAt:     b.LastCreditedAt,
		LastStatusChangeAt: b.Start,
		PayoutCredited:     b.PayoutCredited,
		CreatedAt:          b.Start,
	}
}
