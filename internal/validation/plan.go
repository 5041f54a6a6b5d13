package validation

import (
	"fmt"

	"github.com/topmart/Investment-Engine-Backend/internal/api/request"
	"github.com/topmart/Investment-Engine-Backend/internal/apperrors"
	"github.com/topmart/Investment-Engine-Backend/internal/model"
)

// ValidateCreatePlan checks a new plan's terms.
func ValidateCreatePlan(req request.CreatePlanRequest) error {
	if req.Name == "" {
		return fmt.Errorf("name: %w", apperrors.ErrEmptyID)
	}
	if req.DurationDays <= 0 {
		return fmt.Errorf("durationDays: %w: must be positive", apperrors.ErrInvalidPlanTerms)
	}
	if req.RatePercent.IsNegative() {
		return fmt.Errorf("ratePercent: %w: must not be negative", apperrors.ErrInvalidPlanTerms)
	}
	if req.MinDeposit.IsNegative() {
		return fmt.Errorf("minDeposit: %w", apperrors.ErrNegativeAmount)
	}
	if req.MinDeposit.GreaterThan(req.MaxDeposit) {
		return fmt.Errorf("minDeposit: %w: exceeds maxDeposit", apperrors.ErrInvalidPlanTerms)
	}
	if !model.PayoutMode(req.PayoutMode).Valid() {
		return fmt.Errorf("payoutMode: %w: unknown mode %q", apperrors.ErrInvalidPlanTerms, req.PayoutMode)
	}
	return nil
}
