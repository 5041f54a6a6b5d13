package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/topmart/Investment-Engine-Backend/internal/apperrors"
	"github.com/topmart/Investment-Engine-Backend/internal/model"
)

// PlanRepository provides data access methods for the plan catalog.
type PlanRepository struct {
	db *sql.DB
}

// NewPlanRepository creates a new PlanRepository with the provided database connection.
func NewPlanRepository(db *sql.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

const planColumns = `id, name, duration_days, rate_percent, compounding, payout_mode, min_deposit_cents, max_deposit_cents`

func scanPlan(row interface{ Scan(...any) error }) (model.Plan, error) {
	var p model.Plan
	var minCents, maxCents int64

	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.DurationDays,
		&p.RatePercent,
		&p.Compounding,
		&p.PayoutMode,
		&minCents,
		&maxCents,
	)
	if err != nil {
		return model.Plan{}, err
	}

	p.MinDeposit = FromCents(minCents)
	p.MaxDeposit = FromCents(maxCents)
	return p, nil
}

// GetPlanOnID retrieves a single plan by its ID.
func (r *PlanRepository) GetPlanOnID(ctx context.Context, planID string) (model.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plan WHERE id = ?`

	p, err := scanPlan(r.db.QueryRowContext(ctx, query, planID))
	if err == sql.ErrNoRows {
		return model.Plan{}, apperrors.ErrPlanNotFound
	}
	if err != nil {
		return model.Plan{}, fmt.Errorf("failed to query plan: %w", err)
	}

	return p, nil
}

// GetPlans retrieves the full plan catalog ordered by name.
// Returns an empty slice when no plans exist.
func (r *PlanRepository) GetPlans(ctx context.Context) ([]model.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plan ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query plan table: %w", err)
	}
	defer rows.Close()

	plans := []model.Plan{}

	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan plan table results: %w", err)
		}
		plans = append(plans, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating plan table: %w", err)
	}

	return plans, nil
}

// InsertPlan persists a new plan.
func (r *PlanRepository) InsertPlan(ctx context.Context, p *model.Plan) error {
	query := `
		INSERT INTO plan (id, name, duration_days, rate_percent, compounding, payout_mode, min_deposit_cents, max_deposit_cents, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.DurationDays,
		p.RatePercent.String(),
		p.Compounding,
		string(p.PayoutMode),
		Cents(p.MinDeposit),
		Cents(p.MaxDeposit),
		FormatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("failed to insert plan: %w", err)
	}

	return nil
}
