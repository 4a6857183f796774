package services

import "errors"

var (
	// ErrNoEntitlement maps to a rejected (forbidden) request.
	ErrNoEntitlement = errors.New("no search entitlement remaining")

	// Referral link preconditions. Violations are soft at signup and
	// surfaced as not-found/conflict on the explicit link endpoint.
	ErrReferralCodeNotFound = errors.New("referral code not found")
	ErrSelfReferral         = errors.New("cannot use own referral code")
	ErrAlreadyReferred      = errors.New("user already has a referral")
	ErrReferralCapReached   = errors.New("referrer has reached the referral cap")
)
