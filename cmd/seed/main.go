// Command seed loads a starter plan catalog and demo accounts into the
// database. Safe to re-run: existing rows are left alone.
package main

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/topmart/Investment-Engine-Backend/internal/apperrors"
	"github.com/topmart/Investment-Engine-Backend/internal/config"
	"github.com/topmart/Investment-Engine-Backend/internal/database"
	"github.com/topmart/Investment-Engine-Backend/internal/model"
	"github.com/topmart/Investment-Engine-Backend/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx := context.Background()
	planRepo := repository.NewPlanRepository(db)
	accountRepo := repository.NewAccountRepository(db)

	plans := []model.Plan{
		{
			ID:           "7b2f2a4e-3a01-4a7e-9a2e-6c1f5d8b9c10",
			Name:         "Starter 30",
			DurationDays: 30,
			RatePercent:  decimal.RequireFromString("10"),
			Compounding:  false,
			PayoutMode:   model.PayoutPrincipalPlusReturn,
			MinDeposit:   decimal.RequireFromString("100"),
			MaxDeposit:   decimal.RequireFromString("50000"),
		},
		{
			ID:           "c4d9e1f2-8b35-4f6a-b1d2-0e7a3c5f8d21",
			Name:         "Growth 90",
			DurationDays: 90,
			RatePercent:  decimal.RequireFromString("14.5"),
			Compounding:  true,
			PayoutMode:   model.PayoutPrincipalPlusReturn,
			MinDeposit:   decimal.RequireFromString("1000"),
			MaxDeposit:   decimal.RequireFromString("250000"),
		},
		{
			ID:           "f1a6b3c8-2d47-4e9b-8c3a-5b0d7e9f1a32",
			Name:         "Income 365",
			DurationDays: 365,
			RatePercent:  decimal.RequireFromString("12"),
			Compounding:  false,
			PayoutMode:   model.PayoutReturnOnly,
			MinDeposit:   decimal.RequireFromString("5000"),
			MaxDeposit:   decimal.RequireFromString("1000000"),
		},
	}

	for i := range plans {
		if _, err := planRepo.GetPlanOnID(ctx, plans[i].ID); err == nil {
			log.Printf("Plan %q already present", plans[i].Name)
			continue
		} else if !errors.Is(err, apperrors.ErrPlanNotFound) {
			log.Fatalf("Failed to check plan %q: %v", plans[i].Name, err)
		}

		if err := planRepo.InsertPlan(ctx, &plans[i]); err != nil {
			log.Fatalf("Failed to seed plan %q: %v", plans[i].Name, err)
		}
		log.Printf("Seeded plan %q (%d days, %s%%)", plans[i].Name, plans[i].DurationDays, plans[i].RatePercent)
	}

	accounts := []model.Account{
		{UserID: "2e5b8d1c-9f4a-4b7e-a3c6-1d8f0b2e4a53", Email: "alice@example.com"},
		{UserID: "9c3e7a5f-1b6d-4e2a-8f4c-7a0d3b5e9c64", Email: "bob@example.com"},
	}

	for _, account := range accounts {
		if _, err := accountRepo.GetAccountOnUserID(ctx, account.UserID); err == nil {
			log.Printf("Account %s already present", account.Email)
			continue
		} else if !errors.Is(err, apperrors.ErrAccountNotFound) {
			log.Fatalf("Failed to check account %s: %v", account.Email, err)
		}

		account.ID = uuid.New().String()
		if err := accountRepo.InsertAccount(ctx, &account); err != nil {
			log.Fatalf("Failed to seed account %s: %v", account.Email, err)
		}
		log.Printf("Seeded account %s (user %s)", account.Email, account.UserID)
	}
}
