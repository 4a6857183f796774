package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mwangikaris/plotcheck/database"
	"github.com/mwangikaris/plotcheck/models"
	"gorm.io/gorm"
)

// Balances is what the ledger reports back after a write, re-read from the
// store rather than computed in memory.
type Balances struct {
	Plan                  string `json:"plan"`
	FreeSearchesUsed      int    `json:"free_searches_used"`
	CreditBalance         int    `json:"credit_balance"`
	MonthlySearchesUsed   int    `json:"monthly_searches_used"`
	BillingMonth          string `json:"billing_month"`
	ReferralCount         int    `json:"referral_count"`
	ReferralCreditsEarned int    `json:"referral_credits_earned"`
}

func balancesOf(u *models.User) *Balances {
	return &Balances{
		Plan:                  u.Plan,
		FreeSearchesUsed:      u.FreeSearchesUsed,
		CreditBalance:         u.CreditBalance,
		MonthlySearchesUsed:   u.MonthlySearchesUsed,
		BillingMonth:          u.BillingMonth,
		ReferralCount:         u.ReferralCount,
		ReferralCreditsEarned: u.ReferralCreditsEarned,
	}
}

// ReadBalances loads the current balances for a user.
func ReadBalances(userID uuid.UUID) (*Balances, error) {
	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return balancesOf(&user), nil
}

// ApplyConsumption applies exactly one calculator decision to the account.
// The values written are computed from a snapshot read immediately before
// the write, never from anything the client sent. The update is scoped by
// user id; concurrent requests for the same user are not fully serialized
// (accepted race), but the credit decrement keeps a balance guard in the
// WHERE clause so the balance can never go negative.
func ApplyConsumption(userID uuid.UUID, d Decision) (*Balances, error) {
	if d.Kind == DecisionDenied {
		return nil, ErrNoEntitlement
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}

	tx := database.DB.Model(&models.User{}).Where("id = ?", userID)

	switch d.Kind {
	case DecisionFreeUse:
		err := tx.Update("free_searches_used", user.FreeSearchesUsed+1).Error
		if err != nil {
			return nil, err
		}

	case DecisionMonthlyUse, DecisionUsageOnly:
		usage := user.MonthlySearchesUsed + 1
		if d.ResetMonth {
			usage = 1
		}
		updates := map[string]interface{}{"monthly_searches_used": usage}
		if d.BillingMonth != "" && d.BillingMonth != user.BillingMonth {
			updates["billing_month"] = d.BillingMonth
		}
		if err := tx.Updates(updates).Error; err != nil {
			return nil, err
		}

	case DecisionCredit:
		if user.CreditBalance <= 0 {
			return nil, ErrNoEntitlement
		}
		res := database.DB.Model(&models.User{}).
			Where("id = ? AND credit_balance > 0", userID).
			Update("credit_balance", user.CreditBalance-1)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, ErrNoEntitlement
		}

	default:
		return nil, fmt.Errorf("unknown consumption decision: %d", d.Kind)
	}

	return ReadBalances(userID)
}

// GrantCredits adds purchased credits to an account. A grant, not a
// consumption: it bypasses the calculator entirely.
func GrantCredits(userID uuid.UUID, credits int) (*Balances, error) {
	return GrantCreditsTx(database.DB, userID, credits)
}

// GrantCreditsTx is GrantCredits against a caller-supplied handle, so a
// grant can join the caller's transaction and fail atomically with it.
func GrantCreditsTx(tx *gorm.DB, userID uuid.UUID, credits int) (*Balances, error) {
	if credits <= 0 {
		return nil, errors.New("credit grant must be positive")
	}

	var user models.User
	if err := tx.First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}

	err := tx.Model(&models.User{}).Where("id = ?", userID).
		Update("credit_balance", user.CreditBalance+credits).Error
	if err != nil {
		return nil, err
	}

	var fresh models.User
	if err := tx.First(&fresh, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return balancesOf(&fresh), nil
}

// SetPlan switches an account's plan. Plan changes are grants from the
// billing collaborator and never consume entitlement.
func SetPlan(userID uuid.UUID, plan string) (*Balances, error) {
	switch plan {
	case models.PlanTrial, models.PlanSubscription, models.PlanUnlimited:
	default:
		return nil, fmt.Errorf("unknown plan: %s", plan)
	}

	err := database.DB.Model(&models.User{}).Where("id = ?", userID).
		Update("plan", plan).Error
	if err != nil {
		return nil, err
	}

	return ReadBalances(userID)
}
