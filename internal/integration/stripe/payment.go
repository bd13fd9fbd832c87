package stripe

import (
	"context"

	ierr "github.com/medroute/medroute/internal/errors"
	"github.com/medroute/medroute/internal/logger"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
)

// PaymentService drives payment method setup and charges. It never retries a
// charge on its own: a failed or ambiguous PaymentIntent is surfaced to the
// caller, who decides whether to try again.
type PaymentService struct {
	client *Client
	logger *logger.Logger
}

func NewPaymentService(client *Client, logger *logger.Logger) *PaymentService {
	return &PaymentService{
		client: client,
		logger: logger,
	}
}

// SetupIntentResult carries what the frontend needs to collect a card
type SetupIntentResult struct {
	SetupIntentID string
	ClientSecret  string
}

// ChargeResult reports the outcome of one payment attempt
type ChargeResult struct {
	PaymentIntentID string
	Status          stripe.PaymentIntentStatus
	Succeeded       bool
}

// CreateSetupIntent prepares an off-session payment method for a customer
func (s *PaymentService) CreateSetupIntent(ctx context.Context, stripeCustomerID string) (*SetupIntentResult, error) {
	stripeClient, err := s.client.GetStripeClient()
	if err != nil {
		return nil, err
	}

	params := &stripe.SetupIntentCreateParams{
		Customer: stripe.String(stripeCustomerID),
		Usage:    stripe.String("off_session"),
	}

	setupIntent, err := stripeClient.V1SetupIntents.Create(ctx, params)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to create setup intent").
			Mark(ierr.ErrUpstream)
	}

	return &SetupIntentResult{
		SetupIntentID: setupIntent.ID,
		ClientSecret:  setupIntent.ClientSecret,
	}, nil
}

// Charge creates and confirms a PaymentIntent against a saved payment method.
// Amount is in dollars and converted to cents for the API.
func (s *PaymentService) Charge(ctx context.Context, stripeCustomerID, paymentMethodID string, amount decimal.Decimal, metadata map[string]string) (*ChargeResult, error) {
	stripeClient, err := s.client.GetStripeClient()
	if err != nil {
		return nil, err
	}

	amountInCents := amount.Mul(decimal.NewFromInt(100)).IntPart()
	params := &stripe.PaymentIntentCreateParams{
		Amount:        stripe.Int64(amountInCents),
		Currency:      stripe.String(string(stripe.CurrencyUSD)),
		Customer:      stripe.String(stripeCustomerID),
		PaymentMethod: stripe.String(paymentMethodID),
		OffSession:    stripe.Bool(true),
		Confirm:       stripe.Bool(true),
		Metadata:      metadata,
	}

	paymentIntent, err := stripeClient.V1PaymentIntents.Create(ctx, params)
	if err != nil {
		if stripeErr, ok := err.(*stripe.Error); ok {
			switch stripeErr.Code {
			case stripe.ErrorCodeAuthenticationRequired:
				return nil, ierr.NewError("payment requires authentication").
					WithHint("The cardholder must complete authentication before this charge can go through").
					WithReportableDetails(map[string]any{
						"stripe_error_code": stripeErr.Code,
					}).
					Mark(ierr.ErrInvalidOperation)
			case stripe.ErrorCodeCardDeclined:
				return nil, ierr.NewError("payment method declined").
					WithHint("The card was declined, use a different payment method").
					WithReportableDetails(map[string]any{
						"stripe_error_code": stripeErr.Code,
					}).
					Mark(ierr.ErrInvalidOperation)
			}
		}
		return nil, ierr.WithError(err).
			WithHint("Payment attempt failed").
			Mark(ierr.ErrUpstream)
	}

	result := &ChargeResult{
		PaymentIntentID: paymentIntent.ID,
		Status:          paymentIntent.Status,
		Succeeded:       paymentIntent.Status == stripe.PaymentIntentStatusSucceeded,
	}

	s.logger.Infow("payment intent created",
		"payment_intent_id", result.PaymentIntentID,
		"status", result.Status,
		"amount_cents", amountInCents,
	)
	return result, nil
}

// VerifyPaymentIntent re-reads a PaymentIntent to confirm its terminal state
func (s *PaymentService) VerifyPaymentIntent(ctx context.Context, paymentIntentID string) (*ChargeResult, error) {
	stripeClient, err := s.client.GetStripeClient()
	if err != nil {
		return nil, err
	}

	paymentIntent, err := stripeClient.V1PaymentIntents.Retrieve(ctx, paymentIntentID, nil)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to verify payment").
			Mark(ierr.ErrUpstream)
	}

	return &ChargeResult{
		PaymentIntentID: paymentIntent.ID,
		Status:          paymentIntent.Status,
		Succeeded:       paymentIntent.Status == stripe.PaymentIntentStatusSucceeded,
	}, nil
}
