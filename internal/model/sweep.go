package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SweepKind identifies which batch pass produced a summary.
type SweepKind string

const (
	SweepAccrual  SweepKind = "accrual"
	SweepMaturity SweepKind = "maturity"
	SweepCatchUp  SweepKind = "catchup"
)

// SweepOutcome classifies what happened to a single investment in a sweep.
type SweepOutcome string

const (
	// OutcomeProcessed means a credit was applied and persisted.
	OutcomeProcessed SweepOutcome = "processed"
	// OutcomeCompleted means the investment matured and was paid out.
	OutcomeCompleted SweepOutcome = "completed"
	// OutcomeSkipped means the idempotency or status guard refused the
	// credit (already credited today, cancelled mid-sweep, already paid).
	OutcomeSkipped SweepOutcome = "skipped"
	// OutcomeFailed means the credit failed and the investment is unchanged.
	OutcomeFailed SweepOutcome = "failed"
	// OutcomeInconsistent means money may have moved without the matching
	// investment write. Requires manual reconciliation.
	OutcomeInconsistent SweepOutcome = "inconsistent"
)

// SweepItemResult records the outcome for one investment within a sweep.
type SweepItemResult struct {
	InvestmentID string          `json:"investmentId"`
	UserID       string          `json:"userId"`
	Outcome      SweepOutcome    `json:"outcome"`
	Amount       decimal.Decimal `json:"amount"`
	Error        string          `json:"error,omitempty"`
}

// SweepSummary is the aggregate result of one sweep pass. Partial failures
// never abort a sweep; they are counted and detailed here instead.
type SweepSummary struct {
	Kind            SweepKind         `json:"kind"`
	StartedAt       time.Time         `json:"startedAt"`
	FinishedAt      time.Time         `json:"finishedAt"`
	TotalConsidered int               `json:"totalConsidered"`
	Processed       int               `json:"processed"`
	Completed       int               `json:"completed"`
	Skipped         int               `json:"skipped"`
	Failed          int               `json:"failed"`
	Inconsistent    int               `json:"inconsistent"`
	Details         []SweepItemResult `json:"details"`
}

// Add folds one item result into the summary counters.
func (s *SweepSummary) Add(item SweepItemResult) {
	s.Details = append(s.Details, item)
	switch item.Outcome {
	case OutcomeProcessed:
		s.Processed++
	case OutcomeCompleted:
		s.Completed++
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeFailed:
		s.Failed++
	case OutcomeInconsistent:
		s.Inconsistent++
	}
}
