package services

import (
	"errors"
	"testing"

	"github.com/mwangikaris/plotcheck/models"
)

func TestApplyConsumptionFreeUse(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, models.PlanTrial, func(u *models.User) {
		u.FreeSearchesUsed = 1
	})

	balances, err := ApplyConsumption(user.ID, Decision{Kind: DecisionFreeUse})
	if err != nil {
		t.Fatalf("ApplyConsumption: %v", err)
	}
	if balances.FreeSearchesUsed != 2 {
		t.Errorf("free searches used = %d, want 2", balances.FreeSearchesUsed)
	}
	if balances.CreditBalance != 0 {
		t.Errorf("credit balance moved on a free use: %d", balances.CreditBalance)
	}
}

func TestApplyConsumptionMonthlyReset(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, models.PlanSubscription, func(u *models.User) {
		u.MonthlySearchesUsed = 10
		u.BillingMonth = "2026-07"
	})

	balances, err := ApplyConsumption(user.ID, Decision{Kind: DecisionMonthlyUse, BillingMonth: "2026-08", ResetMonth: true})
	if err != nil {
		t.Fatalf("ApplyConsumption: %v", err)
	}
	if balances.MonthlySearchesUsed != 1 {
		t.Errorf("monthly usage = %d, want 1 after reset", balances.MonthlySearchesUsed)
	}
	if balances.BillingMonth != "2026-08" {
		t.Errorf("billing month = %q, want 2026-08", balances.BillingMonth)
	}
}

func TestApplyConsumptionCredit(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, models.PlanTrial, func(u *models.User) {
		u.CreditBalance = 2
	})

	balances, err := ApplyConsumption(user.ID, Decision{Kind: DecisionCredit})
	if err != nil {
		t.Fatalf("ApplyConsumption: %v", err)
	}
	if balances.CreditBalance != 1 {
		t.Errorf("credit balance = %d, want 1", balances.CreditBalance)
	}
}

func TestApplyConsumptionCreditNeverNegative(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, models.PlanTrial, nil)

	_, err := ApplyConsumption(user.ID, Decision{Kind: DecisionCredit})
	if !errors.Is(err, ErrNoEntitlement) {
		t.Fatalf("expected ErrNoEntitlement on zero balance, got %v", err)
	}
	if got := reloadUser(t, user.ID).CreditBalance; got != 0 {
		t.Errorf("credit balance = %d, want 0", got)
	}
}

func TestApplyConsumptionDenied(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, models.PlanTrial, nil)

	_, err := ApplyConsumption(user.ID, Decision{Kind: DecisionDenied})
	if !errors.Is(err, ErrNoEntitlement) {
		t.Fatalf("expected ErrNoEntitlement, got %v", err)
	}
}

func TestGrantCredits(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, models.PlanTrial, func(u *models.User) {
		u.CreditBalance = 1
	})

	balances, err := GrantCredits(user.ID, 5)
	if err != nil {
		t.Fatalf("GrantCredits: %v", err)
	}
	if balances.CreditBalance != 6 {
		t.Errorf("credit balance = %d, want 6", balances.CreditBalance)
	}

	if _, err := GrantCredits(user.ID, 0); err == nil {
		t.Error("expected error for non-positive grant")
	}
}

func TestSetPlan(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, models.PlanTrial, nil)

	balances, err := SetPlan(user.ID, models.PlanSubscription)
	if err != nil {
		t.Fatalf("SetPlan: %v", err)
	}
	if balances.Plan != models.PlanSubscription {
		t.Errorf("plan = %q, want subscription", balances.Plan)
	}

	if _, err := SetPlan(user.ID, "gold"); err == nil {
		t.Error("expected error for unknown plan")
	}
}
