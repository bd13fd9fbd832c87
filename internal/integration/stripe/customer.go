package stripe

import (
	"context"

	"github.com/medroute/medroute/internal/domain/facility"
	ierr "github.com/medroute/medroute/internal/errors"
	"github.com/medroute/medroute/internal/logger"
	"github.com/stripe/stripe-go/v82"
)

// CustomerService creates and resolves Stripe customers for facilities.
// Customers are created lazily: a facility gets one the first time it sets up
// a payment method, not at registration.
type CustomerService struct {
	client       *Client
	facilityRepo facility.Repository
	logger       *logger.Logger
}

func NewCustomerService(client *Client, facilityRepo facility.Repository, logger *logger.Logger) *CustomerService {
	return &CustomerService{
		client:       client,
		facilityRepo: facilityRepo,
		logger:       logger,
	}
}

// EnsureCustomer returns the facility's Stripe customer id, creating the
// customer on first use and persisting the id on the facility.
func (s *CustomerService) EnsureCustomer(ctx context.Context, facilityID string) (string, error) {
	f, err := s.facilityRepo.Get(ctx, facilityID)
	if err != nil {
		return "", err
	}

	if f.StripeCustomerID != nil && *f.StripeCustomerID != "" {
		return *f.StripeCustomerID, nil
	}

	stripeClient, err := s.client.GetStripeClient()
	if err != nil {
		return "", err
	}

	params := &stripe.CustomerCreateParams{
		Name:  stripe.String(f.Name),
		Email: stripe.String(f.BillingEmail),
		Metadata: map[string]string{
			"medroute_facility_id": f.ID,
		},
	}
	if f.AddressLine1 != "" || f.City != "" {
		params.Address = &stripe.AddressParams{
			Line1:      stripe.String(f.AddressLine1),
			Line2:      stripe.String(f.AddressLine2),
			City:       stripe.String(f.City),
			State:      stripe.String(f.State),
			PostalCode: stripe.String(f.PostalCode),
		}
	}

	stripeCustomer, err := stripeClient.V1Customers.Create(ctx, params)
	if err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to create Stripe customer").
			Mark(ierr.ErrUpstream)
	}

	f.StripeCustomerID = stripe.String(stripeCustomer.ID)
	if err := s.facilityRepo.Update(ctx, f); err != nil {
		s.logger.Errorw("created Stripe customer but failed to persist id",
			"facility_id", f.ID,
			"stripe_customer_id", stripeCustomer.ID,
			"error", err,
		)
		return "", err
	}

	s.logger.Infow("created Stripe customer for facility",
		"facility_id", f.ID,
		"stripe_customer_id", stripeCustomer.ID,
	)
	return stripeCustomer.ID, nil
}
