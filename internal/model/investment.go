package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvestmentStatus is the lifecycle state of an investment.
type InvestmentStatus string

const (
	// StatusPending awaits admin approval before the cycle starts.
	StatusPending InvestmentStatus = "pending"
	// StatusActive accrues daily returns until the end date is reached.
	StatusActive InvestmentStatus = "active"
	// StatusRejected is terminal; reachable only from pending.
	StatusRejected InvestmentStatus = "rejected"
	// StatusCancelled is terminal; reachable only from active.
	StatusCancelled InvestmentStatus = "cancelled"
	// StatusCompleted is terminal; set exactly once at maturity payout.
	StatusCompleted InvestmentStatus = "completed"
)

// Valid reports whether s is a known investment status.
func (s InvestmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusRejected, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// transitions is the complete state machine. Absent entries are invalid.
var transitions = map[InvestmentStatus][]InvestmentStatus{
	StatusPending: {StatusActive, StatusRejected},
	StatusActive:  {StatusCompleted, StatusCancelled},
}

// CanTransition reports whether moving from one status to another is a legal
// state machine step. Terminal statuses permit no transitions.
func CanTransition(from, to InvestmentStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Investment represents one user's commitment of principal to a plan for a
// fixed period. Plan terms (rate, duration, payout mode) are snapshotted onto
// the row at creation; DailyReturn, TotalReturn and InvestmentEnd are fixed
// then and never recomputed from the plan.
type Investment struct {
	ID     string           `json:"id"`
	UserID string           `json:"userId"`
	PlanID string           `json:"planId"`
	Status InvestmentStatus `json:"status"`

	DepositAmount decimal.Decimal `json:"depositAmount"`
	DailyReturn   decimal.Decimal `json:"dailyReturn"`
	TotalReturn   decimal.Decimal `json:"totalReturn"`
	TotalEarned   decimal.Decimal `json:"totalEarned"`
	ReturnAmount  decimal.Decimal `json:"returnAmount"`

	// Frozen plan terms, used by the maturity payout so a later plan edit
	// cannot change what an existing investment pays.
	RatePercent  decimal.Decimal `json:"ratePercent"`
	DurationDays int             `json:"durationDays"`
	Compounding  bool            `json:"compounding"`
	PayoutMode   PayoutMode      `json:"payoutMode"`

	InvestmentStart    time.Time  `json:"investmentStart"`
	InvestmentEnd      time.Time  `json:"investmentEnd"`
	LastCreditedAt     *time.Time `json:"lastCreditedAt,omitempty"`
	LastStatusChangeAt time.Time  `json:"lastStatusChangeAt"`

	// PayoutCredited flips false to true exactly once, together with the
	// transition to completed. It is the maturity idempotency guard.
	PayoutCredited bool `json:"payoutCredited"`

	ApprovedBy      string `json:"approvedBy,omitempty"`
	ApprovalNote    string `json:"approvalNote,omitempty"`
	RejectionReason string `json:"rejectionReason,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// InvestmentFilter narrows admin investment listings.
type InvestmentFilter struct {
	Status InvestmentStatus // empty means all statuses
	UserID string           // empty means all users
	Limit  int
	Offset int
}

// InvestmentStats aggregates the ledger for the admin dashboard. Monetary
// totals are display-only and rounded to two decimal places.
type InvestmentStats struct {
	CountsByStatus map[InvestmentStatus]int `json:"countsByStatus"`
	TotalInvested  decimal.Decimal          `json:"totalInvested"`
	TotalEarned    decimal.Decimal          `json:"totalEarned"`

	// TotalPendingPayout is the interest still owed to active investments:
	// the gap between their frozen schedules and what has been credited.
	TotalPendingPayout decimal.Decimal `json:"totalPendingPayout"`
}
