package service

import (
	"context"

	"github.com/medroute/medroute/internal/api/dto"
	"github.com/medroute/medroute/internal/domain/invoice"
	ierr "github.com/medroute/medroute/internal/errors"
	"github.com/medroute/medroute/internal/types"
	"github.com/samber/lo"
)

// InvoiceService persists billing output. Creation is idempotent on
// (facility, period, client): billing the same client twice for one month is
// reported as "already billed", never duplicated.
type InvoiceService interface {
	CreateSingleTripInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error)
	GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error)
	MarkInvoicePaid(ctx context.Context, id string) (*dto.InvoiceResponse, error)
}

type invoiceService struct {
	ServiceParams
	billing BillingService
}

func NewInvoiceService(params ServiceParams) InvoiceService {
	return &invoiceService{
		ServiceParams: params,
		billing:       NewBillingService(params),
	}
}

func (s *invoiceService) CreateSingleTripInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	t, err := s.TripRepo.Get(ctx, req.TripID)
	if err != nil {
		return nil, err
	}
	if t.FacilityID == nil || *t.FacilityID == "" {
		return nil, ierr.NewError("trip is not linked to a facility").
			WithHint("Only facility trips can be invoiced").
			Mark(ierr.ErrInvalidOperation)
	}
	facilityID := *t.FacilityID

	if err := types.ValidateFacilityContext(ctx, facilityID); err != nil {
		return nil, ierr.WithError(err).
			WithHint("You do not have access to this facility").
			Mark(ierr.ErrPermissionDenied)
	}

	pickup := t.PickupTime.UTC()
	period := types.BillingPeriod{Year: pickup.Year(), Month: int(pickup.Month())}

	identity, err := s.billing.ResolveTripIdentity(ctx, t)
	if err != nil {
		return nil, err
	}

	paid, err := s.PaymentRepo.PaidTripIDs(ctx, []string{t.ID})
	if err != nil {
		s.Logger.Warnw("payment lookup failed while invoicing, classifying as unpaid",
			"trip_id", t.ID,
			"error", err,
		)
		paid = map[string]struct{}{}
	}
	_, hasPayment := paid[t.ID]
	billingStatus := types.ClassifyTripStatus(t.TripStatus, hasPayment)

	clientKey := identity.Key()
	inv := &invoice.Invoice{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
		BillNumber:    BillNumber(facilityID, period.Key(), clientKey),
		FacilityID:    facilityID,
		PeriodKey:     period.Key(),
		PeriodStart:   period.Start(),
		PeriodEnd:     period.End(),
		ClientKey:     clientKey,
		ClientName:    identity.Label,
		IdentityKind:  identity.Kind,
		AmountDue:     req.Amount,
		Tax:           req.Tax,
		BillingStatus: billingStatus,
		BaseModel:     types.GetDefaultBaseModel(ctx),
	}
	inv.LineItems = []*invoice.LineItem{
		{
			ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
			InvoiceID:     inv.ID,
			TripID:        t.ID,
			PickupTime:    t.PickupTime,
			PickupAddress: t.PickupAddress,
			Amount:        req.Amount,
			RawStatus:     t.TripStatus,
			BillingStatus: billingStatus,
			BaseModel:     types.GetDefaultBaseModel(ctx),
		},
	}

	if err := s.InvoiceRepo.Create(ctx, inv); err != nil {
		return nil, err
	}

	s.Logger.Infow("created single trip invoice",
		"invoice_id", inv.ID,
		"bill_number", inv.BillNumber,
		"trip_id", t.ID,
	)
	return &dto.InvoiceResponse{Invoice: inv}, nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	if id == "" {
		return nil, ierr.NewError("invoice id is required").
			Mark(ierr.ErrValidation)
	}

	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := types.ValidateFacilityContext(ctx, inv.FacilityID); err != nil {
		return nil, ierr.WithError(err).
			WithHint("You do not have access to this facility").
			Mark(ierr.ErrPermissionDenied)
	}
	return &dto.InvoiceResponse{Invoice: inv}, nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error) {
	if filter == nil || filter.FacilityID == "" {
		return nil, ierr.NewError("facility_id is required").
			Mark(ierr.ErrValidation)
	}
	if err := types.ValidateFacilityContext(ctx, filter.FacilityID); err != nil {
		return nil, ierr.WithError(err).
			WithHint("You do not have access to this facility").
			Mark(ierr.ErrPermissionDenied)
	}

	invoices, err := s.InvoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &dto.ListInvoicesResponse{
		Items: lo.Map(invoices, func(inv *invoice.Invoice, _ int) *dto.InvoiceResponse {
			return &dto.InvoiceResponse{Invoice: inv}
		}),
		Total: len(invoices),
	}, nil
}

func (s *invoiceService) MarkInvoicePaid(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := s.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.BillingStatus == types.BillingStatusPaid {
		return inv, nil
	}

	if err := s.InvoiceRepo.MarkPaid(ctx, id); err != nil {
		return nil, err
	}

	updated, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.InvoiceResponse{Invoice: updated}, nil
}
