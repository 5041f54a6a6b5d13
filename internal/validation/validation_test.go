package validation

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/topmart/Investment-Engine-Backend/internal/api/request"
	"github.com/topmart/Investment-Engine-Backend/internal/apperrors"
)

func TestValidateUUID(t *testing.T) {
	if err := ValidateUUID("b5f1c0e2-4d3a-4b6c-8f7e-2a1d0c9b8e7f"); err != nil {
		t.Errorf("Expected valid UUID to pass, got: %v", err)
	}

	if err := ValidateUUID(""); !errors.Is(err, apperrors.ErrEmptyID) {
		t.Errorf("Expected ErrEmptyID, got: %v", err)
	}

	if err := ValidateUUID("not-a-uuid"); !errors.Is(err, apperrors.ErrInvalidUUID) {
		t.Errorf("Expected ErrInvalidUUID, got: %v", err)
	}
}

func TestValidateCreateInvestment(t *testing.T) {
	valid := request.CreateInvestmentRequest{
		PlanID: "b5f1c0e2-4d3a-4b6c-8f7e-2a1d0c9b8e7f",
		Amount: decimal.RequireFromString("500"),
	}
	if err := ValidateCreateInvestment(valid); err != nil {
		t.Errorf("Expected valid request to pass, got: %v", err)
	}

	tests := []struct {
		name string
		req  request.CreateInvestmentRequest
		want error
	}{
		{
			name: "missing plan",
			req:  request.CreateInvestmentRequest{Amount: decimal.RequireFromString("500")},
			want: apperrors.ErrEmptyID,
		},
		{
			name: "zero amount",
			req:  request.CreateInvestmentRequest{PlanID: valid.PlanID},
			want: apperrors.ErrNegativeAmount,
		},
		{
			name: "negative amount",
			req:  request.CreateInvestmentRequest{PlanID: valid.PlanID, Amount: decimal.RequireFromString("-5")},
			want: apperrors.ErrNegativeAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateCreateInvestment(tt.req); !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got: %v", tt.want, err)
			}
		})
	}
}

func TestValidateCreatePlan(t *testing.T) {
	valid := request.CreatePlanRequest{
		Name:         "Starter 30",
		DurationDays: 30,
		RatePercent:  decimal.RequireFromString("10"),
		MinDeposit:   decimal.RequireFromString("100"),
		MaxDeposit:   decimal.RequireFromString("1000"),
		PayoutMode:   "principal_plus_return",
	}
	if err := ValidateCreatePlan(valid); err != nil {
		t.Errorf("Expected valid plan to pass, got: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*request.CreatePlanRequest)
		want   error
	}{
		{
			name:   "zero duration",
			mutate: func(r *request.CreatePlanRequest) { r.DurationDays = 0 },
			want:   apperrors.ErrInvalidPlanTerms,
		},
		{
			name:   "negative rate",
			mutate: func(r *request.CreatePlanRequest) { r.RatePercent = decimal.RequireFromString("-1") },
			want:   apperrors.ErrInvalidPlanTerms,
		},
		{
			name:   "min above max",
			mutate: func(r *request.CreatePlanRequest) { r.MinDeposit = decimal.RequireFromString("5000") },
			want:   apperrors.ErrInvalidPlanTerms,
		},
		{
			name:   "unknown payout mode",
			mutate: func(r *request.CreatePlanRequest) { r.PayoutMode = "weekly_interest" },
			want:   apperrors.ErrInvalidPlanTerms,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			if err := ValidateCreatePlan(req); !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got: %v", tt.want, err)
			}
		})
	}
}
