package services

import (
	"testing"
	"time"

	"github.com/mwangikaris/plotcheck/models"
)

var testCfg = EngineConfig{
	TrialFreeSearches:     1,
	SignupBonusSearches:   2,
	MonthlyQuota:          10,
	RecheckWindow:         7 * 24 * time.Hour,
	ReferralRewardCredits: 5,
	ReferralCap:           3,
	MilestoneThresholds:   []int{5, 10},
	ReminderDelay:         24 * time.Hour,
}

func TestNextConsumption(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	month := "2026-08"

	cases := []struct {
		name string
		snap UsageSnapshot
		want Decision
	}{
		{
			name: "unlimited never blocks",
			snap: UsageSnapshot{Plan: models.PlanUnlimited, BillingMonth: month},
			want: Decision{Kind: DecisionUsageOnly, BillingMonth: month},
		},
		{
			name: "unlimited stamps new month",
			snap: UsageSnapshot{Plan: models.PlanUnlimited, BillingMonth: "2026-07"},
			want: Decision{Kind: DecisionUsageOnly, BillingMonth: month, ResetMonth: true},
		},
		{
			name: "subscription month rollover resets before quota check",
			snap: UsageSnapshot{Plan: models.PlanSubscription, MonthlySearchesUsed: 10, BillingMonth: "2026-07"},
			want: Decision{Kind: DecisionMonthlyUse, BillingMonth: month, ResetMonth: true},
		},
		{
			name: "subscription within quota",
			snap: UsageSnapshot{Plan: models.PlanSubscription, MonthlySearchesUsed: 9, BillingMonth: month},
			want: Decision{Kind: DecisionMonthlyUse, BillingMonth: month},
		},
		{
			name: "subscription quota exhausted falls back to credits",
			snap: UsageSnapshot{Plan: models.PlanSubscription, MonthlySearchesUsed: 10, CreditBalance: 2, BillingMonth: month},
			want: Decision{Kind: DecisionCredit},
		},
		{
			name: "subscription exhausted with no credits is denied",
			snap: UsageSnapshot{Plan: models.PlanSubscription, MonthlySearchesUsed: 10, BillingMonth: month},
			want: Decision{Kind: DecisionDenied},
		},
		{
			name: "trial draws free allowance first even with credits",
			snap: UsageSnapshot{Plan: models.PlanTrial, FreeSearchesUsed: 2, CreditBalance: 4},
			want: Decision{Kind: DecisionFreeUse},
		},
		{
			name: "trial allowance exhausted consumes credit",
			snap: UsageSnapshot{Plan: models.PlanTrial, FreeSearchesUsed: 3, CreditBalance: 1},
			want: Decision{Kind: DecisionCredit},
		},
		{
			name: "trial fully exhausted is denied",
			snap: UsageSnapshot{Plan: models.PlanTrial, FreeSearchesUsed: 3},
			want: Decision{Kind: DecisionDenied},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NextConsumption(testCfg, tc.snap, now)
			if got != tc.want {
				t.Errorf("NextConsumption() = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestTrialTotalChargeableConsumptions(t *testing.T) {
	// Chargeable consumptions before denial = base + bonus + credits.
	now := time.Now()
	snap := UsageSnapshot{Plan: models.PlanTrial, CreditBalance: 2}

	consumed := 0
	for {
		d := NextConsumption(testCfg, snap, now)
		if d.Kind == DecisionDenied {
			break
		}
		switch d.Kind {
		case DecisionFreeUse:
			snap.FreeSearchesUsed++
		case DecisionCredit:
			snap.CreditBalance--
		default:
			t.Fatalf("unexpected decision for trial plan: %+v", d)
		}
		consumed++
		if consumed > 100 {
			t.Fatal("calculator never denied")
		}
	}

	want := testCfg.TrialAllowance() + 2
	if consumed != want {
		t.Errorf("consumed %d searches before denial, want %d", consumed, want)
	}
	if snap.CreditBalance != 0 {
		t.Errorf("credit balance ended at %d, want 0", snap.CreditBalance)
	}
}

func TestBillingMonthKey(t *testing.T) {
	got := BillingMonthKey(time.Date(2026, 1, 31, 23, 59, 0, 0, time.UTC))
	if got != "2026-01" {
		t.Errorf("BillingMonthKey() = %q, want %q", got, "2026-01")
	}
}
