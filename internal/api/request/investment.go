package request

import "github.com/shopspring/decimal"

// CreateInvestmentRequest is the approved-deposit event body. Activate
// covers the pre-funded purchase flow: the investment skips the pending
// approval step and starts its cycle immediately.
type CreateInvestmentRequest struct {
	PlanID   string          `json:"planId"`
	Amount   decimal.Decimal `json:"amount"`
	Activate bool            `json:"activate"`
}

// ApproveInvestmentRequest carries the optional admin note recorded with an
// approval.
type ApproveInvestmentRequest struct {
	Note string `json:"note"`
}

// RejectInvestmentRequest carries the rejection reason shown to the user.
type RejectInvestmentRequest struct {
	Reason string `json:"reason"`
}
