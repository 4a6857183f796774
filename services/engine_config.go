package services

import "time"

// EngineConfig carries every fixed constant of the metering and referral
// engine. Handlers use DefaultEngineConfig; tests build their own.
type EngineConfig struct {
	TrialFreeSearches   int
	SignupBonusSearches int
	MonthlyQuota        int

	RecheckWindow time.Duration

	ReferralRewardCredits int
	ReferralCap           int
	MilestoneThresholds   []int
	ReminderDelay         time.Duration
}

func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		TrialFreeSearches:     3,
		SignupBonusSearches:   2,
		MonthlyQuota:          100,
		RecheckWindow:         7 * 24 * time.Hour,
		ReferralRewardCredits: 5,
		ReferralCap:           50,
		MilestoneThresholds:   []int{5, 10, 25, 50},
		ReminderDelay:         24 * time.Hour,
	}
}

// TrialAllowance is the total lifetime free searches for a trial account.
func (c EngineConfig) TrialAllowance() int {
	return c.TrialFreeSearches + c.SignupBonusSearches
}

func (c EngineConfig) IsMilestone(count int) bool {
	for _, t := range c.MilestoneThresholds {
		if count == t {
			return true
		}
	}
	return false
}
