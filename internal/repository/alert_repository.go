package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/topmart/Investment-Engine-Backend/internal/model"
)

// AlertRepository persists reconciliation alerts: the dedicated record of
// credits that completed (or may have completed) without the matching
// investment write. Deliberately separate from the sweep summary path.
type AlertRepository struct {
	db *sql.DB
}

// NewAlertRepository creates a new AlertRepository with the provided database connection.
func NewAlertRepository(db *sql.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

// InsertAlert persists one reconciliation alert.
func (r *AlertRepository) InsertAlert(ctx context.Context, a *model.ReconciliationAlert) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reconciliation_alert (id, investment_id, user_id, amount_cents, stage, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.InvestmentID, a.UserID, Cents(a.Amount), a.Stage, a.Message, FormatTime(a.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert reconciliation alert: %w", err)
	}
	return nil
}

// GetAlerts retrieves reconciliation alerts, newest first.
func (r *AlertRepository) GetAlerts(ctx context.Context) ([]model.ReconciliationAlert, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, investment_id, user_id, amount_cents, stage, message, created_at
		FROM reconciliation_alert
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query reconciliation_alert table: %w", err)
	}
	defer rows.Close()

	alerts := []model.ReconciliationAlert{}

	for rows.Next() {
		var a model.ReconciliationAlert
		var amountCents int64
		var created string

		if err := rows.Scan(&a.ID, &a.InvestmentID, &a.UserID, &amountCents, &a.Stage, &a.Message, &created); err != nil {
			return nil, fmt.Errorf("failed to scan reconciliation_alert table results: %w", err)
		}

		a.Amount = FromCents(amountCents)
		if a.CreatedAt, err = ParseTime(created); err != nil {
			return nil, fmt.Errorf("failed to parse reconciliation alert timestamp: %w", err)
		}

		alerts = append(alerts, a)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reconciliation_alert table: %w", err)
	}

	return alerts, nil
}
