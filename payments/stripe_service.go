package payments

import (
	"encoding/json"
	"errors"
	"fmt"

	config "github.com/mwangikaris/plotcheck/configs"
	"github.com/google/uuid"
	stripe "github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
	"github.com/stripe/stripe-go/v78/webhook"
)

// CreditPack is a purchasable bundle of search credits.
type CreditPack struct {
	Credits   int
	AmountKES int64
}

var CreditPacks = []CreditPack{
	{Credits: 5, AmountKES: 250},
	{Credits: 20, AmountKES: 900},
	{Credits: 50, AmountKES: 2000},
}

func PackForCredits(credits int) (CreditPack, bool) {
	for _, p := range CreditPacks {
		if p.Credits == credits {
			return p, true
		}
	}
	return CreditPack{}, false
}

type StripeService struct {
	secretKey     string
	webhookSecret string
	successURL    string
	cancelURL     string
	sc            *client.API
}

var Stripe *StripeService

// InitStripe configures the service or leaves it nil when the secret key
// is missing (billing endpoints then return 503).
func InitStripe() {
	key := config.Config("STRIPE_SECRET_KEY")
	if key == "" {
		Stripe = nil
		return
	}
	success := config.Config("STRIPE_SUCCESS_URL")
	if success == "" {
		success = "https://www.plotcheck.co.ke/billing/success"
	}
	cancel := config.Config("STRIPE_CANCEL_URL")
	if cancel == "" {
		cancel = "https://www.plotcheck.co.ke/billing/cancel"
	}

	sc := &client.API{}
	sc.Init(key, nil)
	Stripe = &StripeService{
		secretKey:     key,
		webhookSecret: config.Config("STRIPE_WEBHOOK_SECRET"),
		successURL:    success,
		cancelURL:     cancel,
		sc:            sc,
	}
}

// CreateCheckoutSession creates a one-off Stripe Checkout Session for a
// credit pack and returns its URL and id.
func (s *StripeService) CreateCheckoutSession(userID uuid.UUID, pack CreditPack) (string, string, error) {
	if s == nil {
		return "", "", errors.New("stripe not configured")
	}

	params := &stripe.CheckoutSessionParams{
		SuccessURL: stripe.String(s.successURL),
		CancelURL:  stripe.String(s.cancelURL),
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String("kes"),
				UnitAmount: stripe.Int64(pack.AmountKES * 100),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(fmt.Sprintf("PlotCheck %d search credits", pack.Credits)),
				},
			},
			Quantity: stripe.Int64(1),
		}},
		Metadata: map[string]string{
			"user_id": userID.String(),
			"credits": fmt.Sprintf("%d", pack.Credits),
		},
	}

	sess, err := s.sc.CheckoutSessions.New(params)
	if err != nil {
		return "", "", err
	}
	return sess.URL, sess.ID, nil
}

// ParseWebhookEvent verifies the webhook signature and, for a completed
// checkout, returns the session id. Other event types return ok = false.
func (s *StripeService) ParseWebhookEvent(payload []byte, sigHeader string) (string, bool, error) {
	if s == nil {
		return "", false, errors.New("stripe not configured")
	}

	event, err := webhook.ConstructEvent(payload, sigHeader, s.webhookSecret)
	if err != nil {
		return "", false, err
	}

	if event.Type != "checkout.session.completed" {
		return "", false, nil
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return "", false, err
	}
	return session.ID, true, nil
}
