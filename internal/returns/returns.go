// Package returns computes interest and payout amounts for investment plans.
// Every function is pure: no I/O, no mutation, deterministic for its inputs.
package returns

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/topmart/Investment-Engine-Backend/internal/apperrors"
	"github.com/topmart/Investment-Engine-Backend/internal/model"
)

// CompoundingPerYear is the fixed compounding frequency for compounding
// plans (monthly). Changing it changes what every new compounding
// investment earns, so it is a declared constant rather than plan data.
const CompoundingPerYear = 12

// moneyPlaces is the currency minor-unit precision all amounts round to.
const moneyPlaces = 2

var (
	daysPerYear = decimal.NewFromInt(365)
	hundred     = decimal.NewFromInt(100)
)

// ComputeInterest returns the interest earned by principal over durationDays
// at ratePercent, rounded to the currency's minor unit. All downstream
// amounts (payout, daily return) must derive from this rounded value.
//
// Simple mode:      principal * (rate/100) * (days/365)
// Compounding mode: principal * (1 + (rate/100)/n)^(n*years) - principal, n=12
func ComputeInterest(principal, ratePercent decimal.Decimal, durationDays int, compounding bool) (decimal.Decimal, error) {
	if principal.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("%w: principal must be positive, got %s", apperrors.ErrInvalidPlanTerms, principal)
	}
	if ratePercent.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: rate must not be negative, got %s", apperrors.ErrInvalidPlanTerms, ratePercent)
	}
	if durationDays <= 0 {
		return decimal.Zero, fmt.Errorf("%w: duration must be positive, got %d days", apperrors.ErrInvalidPlanTerms, durationDays)
	}

	if compounding {
		return compoundInterest(principal, ratePercent, durationDays), nil
	}
	return simpleInterest(principal, ratePercent, durationDays), nil
}

func simpleInterest(principal, ratePercent decimal.Decimal, durationDays int) decimal.Decimal {
	rate := ratePercent.Div(hundred)
	years := decimal.NewFromInt(int64(durationDays)).Div(daysPerYear)
	return principal.Mul(rate).Mul(years).Round(moneyPlaces)
}

// compoundInterest uses float math for the fractional exponent; the result
// is rounded to the minor unit immediately, so the float detour cannot leak
// sub-cent noise into downstream amounts.
func compoundInterest(principal, ratePercent decimal.Decimal, durationDays int) decimal.Decimal {
	p, _ := principal.Float64()
	rate, _ := ratePercent.Div(hundred).Float64()
	years := float64(durationDays) / 365.0
	n := float64(CompoundingPerYear)

	interest := p*math.Pow(1+rate/n, n*years) - p
	return decimal.NewFromFloat(interest).Round(moneyPlaces)
}

// ComputeTotalPayout returns what the Crediting Gateway receives at maturity:
// principal plus interest, or interest alone, depending on the payout mode.
// The interest argument must already be the rounded value from ComputeInterest.
func ComputeTotalPayout(principal, interest decimal.Decimal, mode model.PayoutMode) decimal.Decimal {
	if mode == model.PayoutPrincipalPlusReturn {
		return principal.Add(interest)
	}
	return interest
}

// DailyReturn spreads the rounded total interest evenly over the plan
// duration, rounded to the minor unit. This fixed amount is frozen onto the
// investment at creation and is what each accrual credit pays.
func DailyReturn(interest decimal.Decimal, durationDays int) decimal.Decimal {
	if durationDays <= 0 {
		return decimal.Zero
	}
	return interest.Div(decimal.NewFromInt(int64(durationDays))).Round(moneyPlaces)
}
