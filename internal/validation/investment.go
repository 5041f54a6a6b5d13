package validation

import (
	"fmt"

	"github.com/topmart/Investment-Engine-Backend/internal/api/request"
	"github.com/topmart/Investment-Engine-Backend/internal/apperrors"
)

// ValidateCreateInvestment checks the approved-deposit event body before it
// reaches the lifecycle service. Plan bounds are enforced by the service;
// this only rejects structurally invalid requests.
func ValidateCreateInvestment(req request.CreateInvestmentRequest) error {
	if err := ValidateUUID(req.PlanID); err != nil {
		return fmt.Errorf("planId: %w", err)
	}
	if req.Amount.IsNegative() || req.Amount.IsZero() {
		return fmt.Errorf("amount: %w", apperrors.ErrNegativeAmount)
	}
	return nil
}
