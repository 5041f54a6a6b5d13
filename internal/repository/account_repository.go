package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/topmart/Investment-Engine-Backend/internal/apperrors"
	"github.com/topmart/Investment-Engine-Backend/internal/model"
)

// AccountRepository is the Crediting Gateway implementation: the only code
// allowed to mutate a user's spendable balance, and only by atomic
// increment. Callers are responsible for crediting at most once per logical
// event; this repository makes each individual credit atomic.
type AccountRepository struct {
	db *sql.DB
}

// NewAccountRepository creates a new AccountRepository with the provided database connection.
func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Credit atomically increases the user's balance and returns the new value.
// The increment runs against q so sweeps can fold the credit into the same
// transaction as the investment write. Never read-modify-write.
func (r *AccountRepository) Credit(ctx context.Context, q Querier, userID string, amount decimal.Decimal) (decimal.Decimal, error) {
	res, err := q.ExecContext(ctx,
		`UPDATE account SET balance_cents = balance_cents + ? WHERE user_id = ?`,
		Cents(amount), userID,
	)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to credit account: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read credit result: %w", err)
	}
	if affected == 0 {
		return decimal.Zero, fmt.Errorf("%w: user %s", apperrors.ErrAccountNotFound, userID)
	}

	var balanceCents int64
	err = q.QueryRowContext(ctx, `SELECT balance_cents FROM account WHERE user_id = ?`, userID).Scan(&balanceCents)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read new balance: %w", err)
	}

	return FromCents(balanceCents), nil
}

// GetAccountOnUserID retrieves a user's account.
func (r *AccountRepository) GetAccountOnUserID(ctx context.Context, userID string) (model.Account, error) {
	var a model.Account
	var balanceCents int64
	var email sql.NullString

	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, email, balance_cents FROM account WHERE user_id = ?`,
		userID,
	).Scan(&a.ID, &a.UserID, &email, &balanceCents)
	if err == sql.ErrNoRows {
		return model.Account{}, fmt.Errorf("%w: user %s", apperrors.ErrAccountNotFound, userID)
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to query account: %w", err)
	}

	a.Email = email.String
	a.Balance = FromCents(balanceCents)
	return a, nil
}

// GetEmailOnUserID resolves a user's notification address. Returns an empty
// string (no error) when the account has no email on file.
func (r *AccountRepository) GetEmailOnUserID(ctx context.Context, userID string) (string, error) {
	var email sql.NullString

	err := r.db.QueryRowContext(ctx, `SELECT email FROM account WHERE user_id = ?`, userID).Scan(&email)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("%w: user %s", apperrors.ErrAccountNotFound, userID)
	}
	if err != nil {
		return "", fmt.Errorf("failed to query account email: %w", err)
	}

	return email.String, nil
}

// InsertAccount persists a new account row.
func (r *AccountRepository) InsertAccount(ctx context.Context, a *model.Account) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO account (id, user_id, email, balance_cents) VALUES (?, ?, ?, ?)`,
		a.ID, a.UserID, a.Email, Cents(a.Balance),
	)
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}
