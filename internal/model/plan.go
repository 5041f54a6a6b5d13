package model

import "github.com/shopspring/decimal"

// PayoutMode determines what a matured investment pays out.
type PayoutMode string

const (
	// PayoutPrincipalPlusReturn pays back the principal together with the
	// accrued interest at maturity.
	PayoutPrincipalPlusReturn PayoutMode = "principal_plus_return"

	// PayoutReturnOnly pays only the interest at maturity; the principal is
	// retained by the platform (subscription-style plans).
	PayoutReturnOnly PayoutMode = "return_only"
)

// Valid reports whether m is a known payout mode.
func (m PayoutMode) Valid() bool {
	return m == PayoutPrincipalPlusReturn || m == PayoutReturnOnly
}

// Plan represents an investment product's reference terms. Plans are
// immutable as far as the lifecycle engine is concerned: investments copy
// the terms they need at creation time and never read them back.
type Plan struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	DurationDays int             `json:"durationDays"`
	RatePercent  decimal.Decimal `json:"ratePercent"`
	Compounding  bool            `json:"compounding"`
	PayoutMode   PayoutMode      `json:"payoutMode"`
	MinDeposit   decimal.Decimal `json:"minDeposit"`
	MaxDeposit   decimal.Decimal `json:"maxDeposit"`
}
