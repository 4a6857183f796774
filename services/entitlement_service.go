package services

import (
	"time"

	"github.com/mwangikaris/plotcheck/models"
)

// DecisionKind is the closed set of consumption actions the calculator can
// hand to the ledger writer.
type DecisionKind int

const (
	// DecisionDenied means no entitlement remains. A normal outcome, not
	// an error; callers map it to a rejected request.
	DecisionDenied DecisionKind = iota
	// DecisionFreeUse draws one lifetime free search (trial plan).
	DecisionFreeUse
	// DecisionMonthlyUse draws one search from the monthly quota,
	// resetting the counter first when the billing month rolled over.
	DecisionMonthlyUse
	// DecisionCredit consumes one purchased credit.
	DecisionCredit
	// DecisionUsageOnly increments usage stats without touching any
	// balance (unlimited plan).
	DecisionUsageOnly
)

type Decision struct {
	Kind DecisionKind
	// BillingMonth is the month key the ledger must stamp for
	// DecisionMonthlyUse and DecisionUsageOnly.
	BillingMonth string
	// ResetMonth tells the ledger the monthly counter restarts at 1.
	ResetMonth bool
}

// UsageSnapshot is the slice of a user account the calculator reads. It is
// always taken from a fresh load, never from client input.
type UsageSnapshot struct {
	Plan                string
	FreeSearchesUsed    int
	CreditBalance       int
	MonthlySearchesUsed int
	BillingMonth        string
}

func SnapshotOf(u *models.User) UsageSnapshot {
	return UsageSnapshot{
		Plan:                u.Plan,
		FreeSearchesUsed:    u.FreeSearchesUsed,
		CreditBalance:       u.CreditBalance,
		MonthlySearchesUsed: u.MonthlySearchesUsed,
		BillingMonth:        u.BillingMonth,
	}
}

// BillingMonthKey is the calendar-month key used to detect subscription
// allowance resets.
func BillingMonthKey(now time.Time) string {
	return now.Format("2006-01")
}

// NextConsumption maps an account snapshot to the next consumption action.
// Recurring and free allowances are always drawn before purchased credits;
// top-ups are entitlement of last resort. Pure, no side effects.
func NextConsumption(cfg EngineConfig, snap UsageSnapshot, now time.Time) Decision {
	month := BillingMonthKey(now)

	switch snap.Plan {
	case models.PlanUnlimited:
		return Decision{Kind: DecisionUsageOnly, BillingMonth: month, ResetMonth: snap.BillingMonth != month}

	case models.PlanSubscription:
		if snap.BillingMonth != month {
			return Decision{Kind: DecisionMonthlyUse, BillingMonth: month, ResetMonth: true}
		}
		if snap.MonthlySearchesUsed < cfg.MonthlyQuota {
			return Decision{Kind: DecisionMonthlyUse, BillingMonth: month}
		}
		if snap.CreditBalance > 0 {
			return Decision{Kind: DecisionCredit}
		}
		return Decision{Kind: DecisionDenied}

	default: // trial
		if snap.FreeSearchesUsed < cfg.TrialAllowance() {
			return Decision{Kind: DecisionFreeUse}
		}
		if snap.CreditBalance > 0 {
			return Decision{Kind: DecisionCredit}
		}
		return Decision{Kind: DecisionDenied}
	}
}
