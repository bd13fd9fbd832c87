package testutil

import (
	"context"

	"github.com/medroute/medroute/internal/domain/payment"
	ierr "github.com/medroute/medroute/internal/errors"
	"github.com/medroute/medroute/internal/types"
	"github.com/samber/lo"
)

// InMemoryPaymentStore implements payment.Repository
type InMemoryPaymentStore struct {
	*InMemoryStore[*payment.Payment]
}

// NewInMemoryPaymentStore creates a new in-memory payment store
func NewInMemoryPaymentStore() *InMemoryPaymentStore {
	return &InMemoryPaymentStore{
		InMemoryStore: NewInMemoryStore[*payment.Payment](),
	}
}

func copyPayment(p *payment.Payment) *payment.Payment {
	if p == nil {
		return nil
	}
	c := *p
	if p.TripID != nil {
		id := *p.TripID
		c.TripID = &id
	}
	if p.InvoiceID != nil {
		id := *p.InvoiceID
		c.InvoiceID = &id
	}
	if p.StripePaymentIntentID != nil {
		id := *p.StripePaymentIntentID
		c.StripePaymentIntentID = &id
	}
	return &c
}

func (s *InMemoryPaymentStore) Create(ctx context.Context, p *payment.Payment) error {
	if err := s.InMemoryStore.Create(ctx, p.ID, copyPayment(p)); err != nil {
		return ierr.WithError(err).Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryPaymentStore) Get(ctx context.Context, id string) (*payment.Payment, error) {
	p, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || p.Status == types.StatusDeleted {
		return nil, ierr.NewError("payment not found").
			WithHintf("No payment with id %s", id).
			Mark(ierr.ErrNotFound)
	}
	return copyPayment(p), nil
}

func (s *InMemoryPaymentStore) PaidTripIDs(ctx context.Context, tripIDs []string) (map[string]struct{}, error) {
	idSet := make(map[string]struct{}, len(tripIDs))
	for _, id := range tripIDs {
		idSet[id] = struct{}{}
	}

	matches, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, p *payment.Payment, _ interface{}) bool {
		if p.Status == types.StatusDeleted || p.TripID == nil {
			return false
		}
		_, ok := idSet[*p.TripID]
		return ok
	}, nil)
	if err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrDatabase)
	}

	result := make(map[string]struct{}, len(matches))
	for _, p := range matches {
		result[*p.TripID] = struct{}{}
	}
	return result, nil
}

func (s *InMemoryPaymentStore) ListByInvoice(ctx context.Context, invoiceID string) ([]*payment.Payment, error) {
	matches, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, p *payment.Payment, _ interface{}) bool {
		return p.Status != types.StatusDeleted &&
			p.InvoiceID != nil && *p.InvoiceID == invoiceID
	}, func(a, b *payment.Payment) bool {
		if !a.RecordedAt.Equal(b.RecordedAt) {
			return a.RecordedAt.Before(b.RecordedAt)
		}
		return a.ID < b.ID
	})
	if err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrDatabase)
	}
	return lo.Map(matches, func(p *payment.Payment, _ int) *payment.Payment {
		return copyPayment(p)
	}), nil
}
