package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/medroute/medroute/internal/domain/invoice"
	ierr "github.com/medroute/medroute/internal/errors"
	"github.com/medroute/medroute/internal/types"
	"github.com/samber/lo"
)

// InMemoryInvoiceStore implements invoice.Repository, including the
// (facility_id, period_key, client_key) uniqueness the persisted store gets
// from its index.
type InMemoryInvoiceStore struct {
	*InMemoryStore[*invoice.Invoice]
}

// NewInMemoryInvoiceStore creates a new in-memory invoice store
func NewInMemoryInvoiceStore() *InMemoryInvoiceStore {
	return &InMemoryInvoiceStore{
		InMemoryStore: NewInMemoryStore[*invoice.Invoice](),
	}
}

func copyInvoice(inv *invoice.Invoice) *invoice.Invoice {
	if inv == nil {
		return nil
	}
	c := *inv
	if inv.PaidAt != nil {
		t := *inv.PaidAt
		c.PaidAt = &t
	}
	if inv.Metadata != nil {
		c.Metadata = lo.Assign(types.Metadata{}, inv.Metadata)
	}
	c.LineItems = make([]*invoice.LineItem, len(inv.LineItems))
	for i, item := range inv.LineItems {
		li := *item
		c.LineItems[i] = &li
	}
	return &c
}

func invoicePeriodClientKey(facilityID, periodKey, clientKey string) string {
	return fmt.Sprintf("%s|%s|%s", facilityID, periodKey, clientKey)
}

func (s *InMemoryInvoiceStore) Create(ctx context.Context, inv *invoice.Invoice) error {
	if err := inv.Validate(); err != nil {
		return err
	}

	existing, _ := s.InMemoryStore.List(ctx, nil, func(_ context.Context, i *invoice.Invoice, _ interface{}) bool {
		return i.Status != types.StatusDeleted &&
			invoicePeriodClientKey(i.FacilityID, i.PeriodKey, i.ClientKey) ==
				invoicePeriodClientKey(inv.FacilityID, inv.PeriodKey, inv.ClientKey)
	}, nil)
	if len(existing) > 0 {
		return ierr.NewError("invoice already exists").
			WithHintf("Client %s is already billed for period %s", inv.ClientKey, inv.PeriodKey).
			Mark(ierr.ErrAlreadyExists)
	}

	if err := s.InMemoryStore.Create(ctx, inv.ID, copyInvoice(inv)); err != nil {
		return ierr.WithError(err).Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryInvoiceStore) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	inv, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || inv.Status == types.StatusDeleted {
		return nil, ierr.NewError("invoice not found").
			WithHintf("No invoice with id %s", id).
			Mark(ierr.ErrNotFound)
	}
	return copyInvoice(inv), nil
}

func (s *InMemoryInvoiceStore) GetByPeriodClient(ctx context.Context, facilityID, periodKey, clientKey string) (*invoice.Invoice, error) {
	matches, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, i *invoice.Invoice, _ interface{}) bool {
		return i.Status != types.StatusDeleted &&
			i.FacilityID == facilityID && i.PeriodKey == periodKey && i.ClientKey == clientKey
	}, nil)
	if err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrDatabase)
	}
	if len(matches) == 0 {
		return nil, ierr.NewError("invoice not found").
			WithHintf("No invoice for client %s in period %s", clientKey, periodKey).
			Mark(ierr.ErrNotFound)
	}
	return copyInvoice(matches[0]), nil
}

func (s *InMemoryInvoiceStore) List(ctx context.Context, filter *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	items, err := s.InMemoryStore.List(ctx, filter, invoiceFilterFn, invoiceSortFn)
	if err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrDatabase)
	}
	return lo.Map(items, func(i *invoice.Invoice, _ int) *invoice.Invoice {
		return copyInvoice(i)
	}), nil
}

func (s *InMemoryInvoiceStore) MarkPaid(ctx context.Context, id string) error {
	inv, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || inv.Status == types.StatusDeleted {
		return ierr.NewError("invoice not found").
			WithHintf("No invoice with id %s", id).
			Mark(ierr.ErrNotFound)
	}

	updated := copyInvoice(inv)
	now := time.Now().UTC()
	updated.BillingStatus = types.BillingStatusPaid
	updated.PaidAt = &now
	updated.UpdatedAt = now
	return s.InMemoryStore.Update(ctx, id, updated)
}

func invoiceFilterFn(_ context.Context, i *invoice.Invoice, filter interface{}) bool {
	if i.Status == types.StatusDeleted {
		return false
	}
	f, ok := filter.(*types.InvoiceFilter)
	if !ok || f == nil {
		return true
	}
	if f.FacilityID != "" && i.FacilityID != f.FacilityID {
		return false
	}
	if f.PeriodKey != "" && i.PeriodKey != f.PeriodKey {
		return false
	}
	if f.ClientKey != "" && i.ClientKey != f.ClientKey {
		return false
	}
	if f.BillingStatus != "" && i.BillingStatus != f.BillingStatus {
		return false
	}
	return true
}

func invoiceSortFn(a, b *invoice.Invoice) bool {
	if a.PeriodKey != b.PeriodKey {
		return a.PeriodKey > b.PeriodKey
	}
	if !a.AmountDue.Equal(b.AmountDue) {
		return a.AmountDue.GreaterThan(b.AmountDue)
	}
	return a.ID < b.ID
}
