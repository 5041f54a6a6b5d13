package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/topmart/Investment-Engine-Backend/internal/apperrors"
	"github.com/topmart/Investment-Engine-Backend/internal/model"
)

// InvestmentRepository provides data access methods for the investment
// ledger. All status and accrual mutations go through the conditional
// updates below; the WHERE clauses are the serialization point that keeps
// sweeps, cancellation and approval from stepping on each other.
type InvestmentRepository struct {
	db *sql.DB
}

// NewInvestmentRepository creates a new InvestmentRepository with the provided database connection.
func NewInvestmentRepository(db *sql.DB) *InvestmentRepository {
	return &InvestmentRepository{db: db}
}

// CreditFunc applies a balance credit inside the transaction passed as q.
// Used to fold the Crediting Gateway call into the same transaction as the
// investment write.
type CreditFunc func(ctx context.Context, q Querier) error

const investmentColumns = `
	id, user_id, plan_id, status,
	deposit_amount_cents, daily_return_cents, total_return_cents, total_earned_cents, return_amount_cents,
	rate_percent, duration_days, compounding, payout_mode,
	investment_start, investment_end, last_credited_at, last_status_change_at,
	payout_credited, approved_by, approval_note, rejection_reason, created_at`

func scanInvestment(row interface{ Scan(...any) error }) (model.Investment, error) {
	var inv model.Investment
	var depositCents, dailyCents, totalReturnCents, earnedCents, returnCents int64
	var start, end, statusChange, created string
	var lastCredited, approvedBy, approvalNote, rejectionReason sql.NullString

	err := row.Scan(
		&inv.ID,
		&inv.UserID,
		&inv.PlanID,
		&inv.Status,
		&depositCents,
		&dailyCents,
		&totalReturnCents,
		&earnedCents,
		&returnCents,
		&inv.RatePercent,
		&inv.DurationDays,
		&inv.Compounding,
		&inv.PayoutMode,
		&start,
		&end,
		&lastCredited,
		&statusChange,
		&inv.PayoutCredited,
		&approvedBy,
		&approvalNote,
		&rejectionReason,
		&created,
	)
	if err != nil {
		return model.Investment{}, err
	}

	inv.DepositAmount = FromCents(depositCents)
	inv.DailyReturn = FromCents(dailyCents)
	inv.TotalReturn = FromCents(totalReturnCents)
	inv.TotalEarned = FromCents(earnedCents)
	inv.ReturnAmount = FromCents(returnCents)
	inv.ApprovedBy = approvedBy.String
	inv.ApprovalNote = approvalNote.String
	inv.RejectionReason = rejectionReason.String

	if inv.InvestmentStart, err = ParseTime(start); err != nil {
		return model.Investment{}, err
	}
	if inv.InvestmentEnd, err = ParseTime(end); err != nil {
		return model.Investment{}, err
	}
	if inv.LastStatusChangeAt, err = ParseTime(statusChange); err != nil {
		return model.Investment{}, err
	}
	if inv.CreatedAt, err = ParseTime(created); err != nil {
		return model.Investment{}, err
	}
	if inv.LastCreditedAt, err = parseNullTime(lastCredited); err != nil {
		return model.Investment{}, err
	}

	return inv, nil
}

// Insert persists a new investment with its frozen plan terms.
func (r *InvestmentRepository) Insert(ctx context.Context, inv *model.Investment) error {
	query := `
		INSERT INTO investment (
			id, user_id, plan_id, status,
			deposit_amount_cents, daily_return_cents, total_return_cents, total_earned_cents, return_amount_cents,
			rate_percent, duration_days, compounding, payout_mode,
			investment_start, investment_end, last_status_change_at, payout_credited, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		inv.ID,
		inv.UserID,
		inv.PlanID,
		string(inv.Status),
		Cents(inv.DepositAmount),
		Cents(inv.DailyReturn),
		Cents(inv.TotalReturn),
		Cents(inv.TotalEarned),
		Cents(inv.ReturnAmount),
		inv.RatePercent.String(),
		inv.DurationDays,
		inv.Compounding,
		string(inv.PayoutMode),
		FormatTime(inv.InvestmentStart),
		FormatTime(inv.InvestmentEnd),
		FormatTime(inv.LastStatusChangeAt),
		inv.PayoutCredited,
		FormatTime(inv.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert investment: %w", err)
	}

	return nil
}

// GetOnID retrieves a single investment by its ID.
func (r *InvestmentRepository) GetOnID(ctx context.Context, investmentID string) (model.Investment, error) {
	query := `SELECT ` + investmentColumns + ` FROM investment WHERE id = ?`

	inv, err := scanInvestment(r.db.QueryRowContext(ctx, query, investmentID))
	if err == sql.ErrNoRows {
		return model.Investment{}, apperrors.ErrInvestmentNotFound
	}
	if err != nil {
		return model.Investment{}, fmt.Errorf("failed to query investment: %w", err)
	}

	return inv, nil
}

// List retrieves investments matching the filter, newest first. A zero
// Limit defaults to 50.
func (r *InvestmentRepository) List(ctx context.Context, filter model.InvestmentFilter) ([]model.Investment, error) {
	query := `SELECT ` + investmentColumns + ` FROM investment WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, string(filter.Status))
	}

	if filter.UserID != "" {
		query += " AND user_id = ?"
		args = append(args, filter.UserID)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query investment table: %w", err)
	}
	defer rows.Close()

	investments := []model.Investment{}

	for rows.Next() {
		inv, err := scanInvestment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan investment table results: %w", err)
		}
		investments = append(investments, inv)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating investment table: %w", err)
	}

	return investments, nil
}

// selectSweep runs a sweep selection query and scans the full entity rows.
func (r *InvestmentRepository) selectSweep(ctx context.Context, query string, args ...any) ([]model.Investment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sweep selection: %w", err)
	}
	defer rows.Close()

	investments := []model.Investment{}

	for rows.Next() {
		inv, err := scanInvestment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sweep selection: %w", err)
		}
		investments = append(investments, inv)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sweep selection: %w", err)
	}

	return investments, nil
}

// SelectAccrualDue returns active investments that have not yet been
// credited on now's calendar day and whose end date is still in the future.
// Investments whose end date has passed are deliberately excluded: the
// maturity sweep owns those.
func (r *InvestmentRepository) SelectAccrualDue(ctx context.Context, now time.Time) ([]model.Investment, error) {
	query := `SELECT ` + investmentColumns + `
		FROM investment
		WHERE status = 'active' AND payout_credited = 0
		  AND investment_end > ?
		  AND (last_credited_at IS NULL OR date(last_credited_at) < date(?))
		ORDER BY investment_end`

	return r.selectSweep(ctx, query, FormatTime(now), FormatTime(now))
}

// SelectMaturityDue returns active investments whose end date has been
// reached and whose payout has not been credited.
func (r *InvestmentRepository) SelectMaturityDue(ctx context.Context, now time.Time) ([]model.Investment, error) {
	query := `SELECT ` + investmentColumns + `
		FROM investment
		WHERE status = 'active' AND payout_credited = 0
		  AND investment_end <= ?
		ORDER BY investment_end`

	return r.selectSweep(ctx, query, FormatTime(now))
}

// SelectCatchUpDue returns active, not yet matured investments whose last
// credit lags now by more than one calendar day (scheduler downtime).
func (r *InvestmentRepository) SelectCatchUpDue(ctx context.Context, now time.Time) ([]model.Investment, error) {
	query := `SELECT ` + investmentColumns + `
		FROM investment
		WHERE status = 'active' AND payout_credited = 0
		  AND investment_end > ?
		  AND ((last_credited_at IS NULL AND date(investment_start) < date(?, '-1 day'))
		    OR (last_credited_at IS NOT NULL AND date(last_credited_at) < date(?, '-1 day')))
		ORDER BY investment_end`

	nowStr := FormatTime(now)
	return r.selectSweep(ctx, query, nowStr, nowStr, nowStr)
}

// ApplyAccrual credits one daily return: the conditional investment update
// and the balance credit commit or roll back together. Returns false with a
// nil error when the guard refuses the credit (already credited on now's
// calendar day, or no longer active) - the caller treats that as a skip.
//
// Error classification follows the sweep contract: a failed credit rolls
// everything back and wraps ErrCreditFailure (retryable); a failed commit
// after a successful credit is ambiguous and wraps ErrInconsistentState.
func (r *InvestmentRepository) ApplyAccrual(ctx context.Context, inv model.Investment, amount decimal.Decimal, now time.Time, credit CreditFunc) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin accrual transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		UPDATE investment
		SET total_earned_cents = total_earned_cents + ?, last_credited_at = ?
		WHERE id = ? AND status = 'active' AND payout_credited = 0
		  AND (last_credited_at IS NULL OR date(last_credited_at) < date(?))
	`, Cents(amount), FormatTime(now), inv.ID, FormatTime(now))
	if err != nil {
		return false, fmt.Errorf("failed to apply accrual: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read accrual result: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	if err := credit(ctx, tx); err != nil {
		return false, fmt.Errorf("%w: %v", apperrors.ErrCreditFailure, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("%w: accrual commit failed for investment %s: %v", apperrors.ErrInconsistentState, inv.ID, err)
	}

	return true, nil
}

// ApplyCatchUp credits several missed daily returns at once. The guard
// re-checks the staleness condition so two overlapping catch-up runs cannot
// both credit the same backlog.
func (r *InvestmentRepository) ApplyCatchUp(ctx context.Context, inv model.Investment, amount decimal.Decimal, now time.Time, credit CreditFunc) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin catch-up transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	nowStr := FormatTime(now)
	res, err := tx.ExecContext(ctx, `
		UPDATE investment
		SET total_earned_cents = total_earned_cents + ?, last_credited_at = ?
		WHERE id = ? AND status = 'active' AND payout_credited = 0
		  AND ((last_credited_at IS NULL AND date(investment_start) < date(?, '-1 day'))
		    OR (last_credited_at IS NOT NULL AND date(last_credited_at) < date(?, '-1 day')))
	`, Cents(amount), nowStr, inv.ID, nowStr, nowStr)
	if err != nil {
		return false, fmt.Errorf("failed to apply catch-up: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read catch-up result: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	if err := credit(ctx, tx); err != nil {
		return false, fmt.Errorf("%w: %v", apperrors.ErrCreditFailure, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("%w: catch-up commit failed for investment %s: %v", apperrors.ErrInconsistentState, inv.ID, err)
	}

	return true, nil
}

// SettleMaturity performs the terminal payout as one logical unit: flip
// payout_credited, transition to completed, record the return amount and
// credit the payout, all in a single transaction. The payout_credited guard
// is evaluated with the write, not only at selection time, so re-running the
// sweep over an already settled investment is a no-op.
func (r *InvestmentRepository) SettleMaturity(ctx context.Context, inv model.Investment, interest, payout decimal.Decimal, now time.Time, credit CreditFunc) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin maturity transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		UPDATE investment
		SET status = 'completed', payout_credited = 1,
		    return_amount_cents = ?, total_earned_cents = total_earned_cents + ?,
		    last_status_change_at = ?
		WHERE id = ? AND status = 'active' AND payout_credited = 0
	`, Cents(interest), Cents(payout), FormatTime(now), inv.ID)
	if err != nil {
		return false, fmt.Errorf("failed to settle maturity: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read maturity result: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	if err := credit(ctx, tx); err != nil {
		return false, fmt.Errorf("%w: %v", apperrors.ErrCreditFailure, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("%w: maturity commit failed for investment %s: %v", apperrors.ErrInconsistentState, inv.ID, err)
	}

	return true, nil
}

// Approve transitions pending -> active, anchoring the cycle at now and
// fixing the end date. Returns false when the investment is not pending.
func (r *InvestmentRepository) Approve(ctx context.Context, investmentID, adminID, note string, start, end, now time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE investment
		SET status = 'active', approved_by = ?, approval_note = ?,
		    investment_start = ?, investment_end = ?, last_status_change_at = ?
		WHERE id = ? AND status = 'pending'
	`, adminID, note, FormatTime(start), FormatTime(end), FormatTime(now), investmentID)
	if err != nil {
		return false, fmt.Errorf("failed to approve investment: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read approve result: %w", err)
	}
	return affected == 1, nil
}

// Reject transitions pending -> rejected. Returns false when the investment
// is not pending.
func (r *InvestmentRepository) Reject(ctx context.Context, investmentID, adminID, reason string, now time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE investment
		SET status = 'rejected', approved_by = ?, rejection_reason = ?, last_status_change_at = ?
		WHERE id = ? AND status = 'pending'
	`, adminID, reason, FormatTime(now), investmentID)
	if err != nil {
		return false, fmt.Errorf("failed to reject investment: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read reject result: %w", err)
	}
	return affected == 1, nil
}

// Cancel transitions active -> cancelled. Returns false when the investment
// is not active; a sweep that already matured it, or an earlier cancel,
// wins and this call becomes a no-op.
func (r *InvestmentRepository) Cancel(ctx context.Context, investmentID string, now time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE investment
		SET status = 'cancelled', last_status_change_at = ?
		WHERE id = ? AND status = 'active'
	`, FormatTime(now), investmentID)
	if err != nil {
		return false, fmt.Errorf("failed to cancel investment: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read cancel result: %w", err)
	}
	return affected == 1, nil
}

// GetStats aggregates the ledger: counts per status, total principal
// committed (active and completed investments), total credited earnings
// and the interest still outstanding on active investments.
func (r *InvestmentRepository) GetStats(ctx context.Context) (model.InvestmentStats, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT status, COUNT(*),
			COALESCE(SUM(deposit_amount_cents), 0),
			COALESCE(SUM(total_earned_cents), 0),
			COALESCE(SUM(total_return_cents - total_earned_cents), 0)
		FROM investment
		GROUP BY status
	`)
	if err != nil {
		return model.InvestmentStats{}, fmt.Errorf("failed to query investment statistics: %w", err)
	}
	defer rows.Close()

	stats := model.InvestmentStats{
		CountsByStatus:     map[model.InvestmentStatus]int{},
		TotalInvested:      decimal.Zero,
		TotalEarned:        decimal.Zero,
		TotalPendingPayout: decimal.Zero,
	}

	for rows.Next() {
		var status model.InvestmentStatus
		var count int
		var depositCents, earnedCents, pendingCents int64

		if err := rows.Scan(&status, &count, &depositCents, &earnedCents, &pendingCents); err != nil {
			return model.InvestmentStats{}, fmt.Errorf("failed to scan investment statistics: %w", err)
		}

		stats.CountsByStatus[status] = count
		if status == model.StatusActive || status == model.StatusCompleted {
			stats.TotalInvested = stats.TotalInvested.Add(FromCents(depositCents))
		}
		stats.TotalEarned = stats.TotalEarned.Add(FromCents(earnedCents))
		if status == model.StatusActive {
			stats.TotalPendingPayout = stats.TotalPendingPayout.Add(FromCents(pendingCents))
		}
	}

	if err = rows.Err(); err != nil {
		return model.InvestmentStats{}, fmt.Errorf("error iterating investment statistics: %w", err)
	}

	return stats, nil
}
