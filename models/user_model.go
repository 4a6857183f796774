package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PlanTrial        = "trial"
	PlanSubscription = "subscription"
	PlanUnlimited    = "unlimited"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	FullName string    `gorm:"size:255;not null" json:"full_name"`
	Email    string    `gorm:"size:255;not null;unique" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Role     string    `gorm:"size:20;not null;default:'user'" json:"role"`
	Plan     string    `gorm:"size:20;not null;default:'trial'" json:"plan"`

	FreeSearchesUsed    int    `gorm:"not null;default:0" json:"free_searches_used"`
	CreditBalance       int    `gorm:"not null;default:0" json:"credit_balance"`
	MonthlySearchesUsed int    `gorm:"not null;default:0" json:"monthly_searches_used"`
	BillingMonth        string `gorm:"size:7" json:"billing_month"`

	ReferralCode          *string `gorm:"size:10;unique" json:"referral_code"`
	ReferredByCode        *string `gorm:"size:10" json:"referred_by_code"`
	ReferralCount         int     `gorm:"not null;default:0" json:"referral_count"`
	ReferralCreditsEarned int     `gorm:"not null;default:0" json:"referral_credits_earned"`

	PhoneNumber   *string `gorm:"size:20" json:"phone_number"`
	PhoneVerified bool    `gorm:"not null;default:false" json:"phone_verified"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
