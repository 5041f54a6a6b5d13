package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrPlanNotFound indicates that a plan with the given ID does not exist.
	ErrPlanNotFound = errors.New("plan not found")

	// ErrInvestmentNotFound indicates that an investment with the given ID does not exist.
	ErrInvestmentNotFound = errors.New("investment not found")

	// ErrAccountNotFound indicates that no account exists for the given user.
	ErrAccountNotFound = errors.New("account not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInvalidTransition indicates a state machine violation. Callers wrap it
	// with the investment's current status so the message surfaces why the
	// transition was refused.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrPlanLimitExceeded indicates a deposit amount outside the plan's
	// minimum/maximum bounds.
	ErrPlanLimitExceeded = errors.New("deposit amount outside plan limits")

	// ErrInvalidPlanTerms indicates plan terms that cannot produce a return
	// (negative rate, non-positive duration or principal, min above max).
	ErrInvalidPlanTerms = errors.New("invalid plan terms")

	// ErrUnauthorized indicates the requester is neither the owner of the
	// resource nor an admin.
	ErrUnauthorized = errors.New("not authorized")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrEmptyID indicates that a required ID parameter is empty or missing.
	ErrEmptyID = errors.New("ID cannot be empty")

	// ErrNegativeAmount indicates that an amount field has an invalid negative value.
	ErrNegativeAmount = errors.New("amount cannot be negative")
)

// Crediting errors separate the retryable failure mode from the one that
// requires manual reconciliation.
var (
	// ErrCreditFailure indicates the Crediting Gateway call failed and the
	// investment was left unmutated. Safe to retry on a later sweep.
	ErrCreditFailure = errors.New("balance credit failed")

	// ErrInconsistentState indicates money was (or may have been) credited but
	// the corresponding investment write did not complete. Never retried
	// automatically; recorded as a reconciliation alert for operators.
	ErrInconsistentState = errors.New("credit applied without ledger update")
)

// Operation failure errors represent system-level failures when retrieving or
// processing data. These indicate that an operation failed, but not due to
// missing entities or validation issues.
var (
	// Plan operation errors
	ErrFailedToRetrievePlans = errors.New("failed to retrieve plans")
	ErrFailedToRetrievePlan  = errors.New("failed to retrieve plan")
	ErrFailedToCreatePlan    = errors.New("failed to create plan")

	// Investment operation errors
	ErrFailedToRetrieveInvestments = errors.New("failed to retrieve investments")
	ErrFailedToRetrieveInvestment  = errors.New("failed to retrieve investment")
	ErrFailedToCreateInvestment    = errors.New("failed to create investment")
	ErrFailedToRetrieveStats       = errors.New("failed to retrieve investment statistics")

	// Sweep operation errors
	ErrFailedToRunSweep = errors.New("failed to run sweep")

	// Alert operation errors
	ErrFailedToRetrieveAlerts = errors.New("failed to retrieve reconciliation alerts")
)
