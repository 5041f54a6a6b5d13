package model

import "github.com/shopspring/decimal"

// Account holds a user's spendable balance. The lifecycle engine only ever
// increments it through the Crediting Gateway; it never reads-modifies-writes
// the balance.
type Account struct {
	ID      string          `json:"id"`
	UserID  string          `json:"userId"`
	Email   string          `json:"email,omitempty"`
	Balance decimal.Decimal `json:"balance"`
}
