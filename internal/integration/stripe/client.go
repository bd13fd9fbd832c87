package stripe

import (
	"github.com/medroute/medroute/internal/config"
	ierr "github.com/medroute/medroute/internal/errors"
	"github.com/medroute/medroute/internal/logger"
	"github.com/stripe/stripe-go/v82"
)

// Client wraps the Stripe SDK client with portal configuration
type Client struct {
	cfg    *config.Configuration
	logger *logger.Logger
}

// NewClient creates a new Stripe client wrapper
func NewClient(cfg *config.Configuration, logger *logger.Logger) *Client {
	return &Client{
		cfg:    cfg,
		logger: logger,
	}
}

// GetStripeClient returns a configured Stripe API client
func (c *Client) GetStripeClient() (*stripe.Client, error) {
	if c.cfg.Stripe.SecretKey == "" {
		return nil, ierr.NewError("stripe is not configured").
			WithHint("Payment processing is not available").
			Mark(ierr.ErrInvalidOperation)
	}
	return stripe.NewClient(c.cfg.Stripe.SecretKey, nil), nil
}

// PublishableKey returns the key the frontend uses to tokenize cards
func (c *Client) PublishableKey() string {
	return c.cfg.Stripe.PublishableKey
}
