package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/topmart/Investment-Engine-Backend/internal/apperrors"
	"github.com/topmart/Investment-Engine-Backend/internal/model"
	"github.com/topmart/Investment-Engine-Backend/internal/repository"
)

// PlanService handles plan catalog operations. Plans are reference data:
// created by admins, read by everyone, never edited by the engine.
type PlanService struct {
	planRepo *repository.PlanRepository
}

// NewPlanService creates a new PlanService with the provided repository dependency.
func NewPlanService(planRepo *repository.PlanRepository) *PlanService {
	return &PlanService{planRepo: planRepo}
}

// CreatePlan validates and persists a new plan (admin only).
func (s *PlanService) CreatePlan(ctx context.Context, actor Actor, plan model.Plan) (*model.Plan, error) {
	if !actor.IsAdmin {
		return nil, apperrors.ErrUnauthorized
	}

	if plan.DurationDays <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", apperrors.ErrInvalidPlanTerms)
	}
	if plan.RatePercent.IsNegative() {
		return nil, fmt.Errorf("%w: rate must not be negative", apperrors.ErrInvalidPlanTerms)
	}
	if plan.MinDeposit.GreaterThan(plan.MaxDeposit) {
		return nil, fmt.Errorf("%w: minimum deposit exceeds maximum", apperrors.ErrInvalidPlanTerms)
	}
	if !plan.PayoutMode.Valid() {
		return nil, fmt.Errorf("%w: unknown payout mode %q", apperrors.ErrInvalidPlanTerms, plan.PayoutMode)
	}

	plan.ID = uuid.New().String()

	if err := s.planRepo.InsertPlan(ctx, &plan); err != nil {
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}

	return &plan, nil
}

// GetPlans returns the full plan catalog.
func (s *PlanService) GetPlans(ctx context.Context) ([]model.Plan, error) {
	return s.planRepo.GetPlans(ctx)
}

// GetPlan returns one plan by ID.
func (s *PlanService) GetPlan(ctx context.Context, planID string) (model.Plan, error) {
	return s.planRepo.GetPlanOnID(ctx, planID)
}
