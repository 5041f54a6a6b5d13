package request

import "github.com/shopspring/decimal"

// CreatePlanRequest carries the terms of a new investment product.
type CreatePlanRequest struct {
	Name         string          `json:"name"`
	DurationDays int             `json:"durationDays"`
	RatePercent  decimal.Decimal `json:"ratePercent"`
	Compounding  bool            `json:"compounding"`
	PayoutMode   string          `json:"payoutMode"`
	MinDeposit   decimal.Decimal `json:"minDeposit"`
	MaxDeposit   decimal.Decimal `json:"maxDeposit"`
}
