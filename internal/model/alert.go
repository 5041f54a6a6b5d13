package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReconciliationAlert records a credit that completed (or may have completed)
// without the matching investment write. These are persisted outside the
// sweep summary path so operators can reconcile balances manually.
type ReconciliationAlert struct {
	ID           string          `json:"id"`
	InvestmentID string          `json:"investmentId"`
	UserID       string          `json:"userId"`
	Amount       decimal.Decimal `json:"amount"`
	Stage        string          `json:"stage"` // which sweep and step produced the alert
	Message      string          `json:"message"`
	CreatedAt    time.Time       `json:"createdAt"`
}
