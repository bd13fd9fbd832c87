package service

import (
	"context"
	"time"

	"github.com/medroute/medroute/internal/api/dto"
	"github.com/medroute/medroute/internal/domain/payment"
	ierr "github.com/medroute/medroute/internal/errors"
	"github.com/medroute/medroute/internal/integration/stripe"
	"github.com/medroute/medroute/internal/types"
)

// PaymentService sets up payment methods and charges facilities. A charge is
// attempted exactly once per request; on an ambiguous outcome the caller
// verifies the PaymentIntent instead of retrying blind.
type PaymentService interface {
	CreateSetupIntent(ctx context.Context, req dto.CreateSetupIntentRequest) (*dto.SetupIntentResponse, error)
	CreatePaymentIntent(ctx context.Context, req dto.CreatePaymentIntentRequest) (*dto.PaymentIntentResponse, error)
	VerifyPaymentIntent(ctx context.Context, paymentIntentID string) (*dto.PaymentIntentResponse, error)
}

type paymentService struct {
	ServiceParams
	customers *stripe.CustomerService
	charges   *stripe.PaymentService
	stripe    *stripe.Client
}

func NewPaymentService(params ServiceParams) PaymentService {
	client := stripe.NewClient(params.Config, params.Logger)
	return &paymentService{
		ServiceParams: params,
		customers:     stripe.NewCustomerService(client, params.FacilityRepo, params.Logger),
		charges:       stripe.NewPaymentService(client, params.Logger),
		stripe:        client,
	}
}

func (s *paymentService) CreateSetupIntent(ctx context.Context, req dto.CreateSetupIntentRequest) (*dto.SetupIntentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := types.ValidateFacilityContext(ctx, req.FacilityID); err != nil {
		return nil, ierr.WithError(err).
			WithHint("You do not have access to this facility").
			Mark(ierr.ErrPermissionDenied)
	}

	customerID, err := s.customers.EnsureCustomer(ctx, req.FacilityID)
	if err != nil {
		return nil, err
	}

	setupIntent, err := s.charges.CreateSetupIntent(ctx, customerID)
	if err != nil {
		return nil, err
	}

	return &dto.SetupIntentResponse{
		SetupIntentID:  setupIntent.SetupIntentID,
		ClientSecret:   setupIntent.ClientSecret,
		PublishableKey: s.stripe.PublishableKey(),
	}, nil
}

func (s *paymentService) CreatePaymentIntent(ctx context.Context, req dto.CreatePaymentIntentRequest) (*dto.PaymentIntentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := types.ValidateFacilityContext(ctx, req.FacilityID); err != nil {
		return nil, ierr.WithError(err).
			WithHint("You do not have access to this facility").
			Mark(ierr.ErrPermissionDenied)
	}

	metadata := map[string]string{
		"medroute_facility_id": req.FacilityID,
	}
	if req.InvoiceID != nil {
		inv, err := s.InvoiceRepo.Get(ctx, *req.InvoiceID)
		if err != nil {
			return nil, err
		}
		if inv.FacilityID != req.FacilityID {
			return nil, ierr.NewError("invoice does not belong to this facility").
				Mark(ierr.ErrPermissionDenied)
		}
		metadata["medroute_invoice_id"] = inv.ID
	}
	if req.TripID != nil {
		t, err := s.TripRepo.Get(ctx, *req.TripID)
		if err != nil {
			return nil, err
		}
		if t.FacilityID == nil || *t.FacilityID != req.FacilityID {
			return nil, ierr.NewError("trip does not belong to this facility").
				Mark(ierr.ErrPermissionDenied)
		}
		metadata["medroute_trip_id"] = t.ID
	}

	customerID, err := s.customers.EnsureCustomer(ctx, req.FacilityID)
	if err != nil {
		return nil, err
	}

	result, err := s.charges.Charge(ctx, customerID, req.PaymentMethodID, req.Amount, metadata)
	if err != nil {
		return nil, err
	}

	resp := &dto.PaymentIntentResponse{
		PaymentIntentID: result.PaymentIntentID,
		Status:          string(result.Status),
		Succeeded:       result.Succeeded,
	}
	if !result.Succeeded {
		return resp, nil
	}

	p := &payment.Payment{
		ID:                    types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT),
		FacilityID:            req.FacilityID,
		TripID:                req.TripID,
		InvoiceID:             req.InvoiceID,
		Amount:                req.Amount,
		StripePaymentIntentID: &result.PaymentIntentID,
		RecordedAt:            time.Now().UTC(),
		BaseModel:             types.GetDefaultBaseModel(ctx),
	}
	if err := s.PaymentRepo.Create(ctx, p); err != nil {
		// The charge went through; losing the local record must be loud.
		s.Logger.Errorw("charge succeeded but payment record failed",
			"payment_intent_id", result.PaymentIntentID,
			"facility_id", req.FacilityID,
			"error", err,
		)
		return nil, err
	}
	resp.PaymentID = p.ID

	if req.InvoiceID != nil {
		if err := s.InvoiceRepo.MarkPaid(ctx, *req.InvoiceID); err != nil {
			s.Logger.Errorw("payment recorded but invoice not marked paid",
				"invoice_id", *req.InvoiceID,
				"payment_id", p.ID,
				"error", err,
			)
			return nil, err
		}
	}

	s.Logger.Infow("recorded payment",
		"payment_id", p.ID,
		"payment_intent_id", result.PaymentIntentID,
		"amount", req.Amount,
	)
	return resp, nil
}

func (s *paymentService) VerifyPaymentIntent(ctx context.Context, paymentIntentID string) (*dto.PaymentIntentResponse, error) {
	if paymentIntentID == "" {
		return nil, ierr.NewError("payment_intent_id is required").
			Mark(ierr.ErrValidation)
	}

	result, err := s.charges.VerifyPaymentIntent(ctx, paymentIntentID)
	if err != nil {
		return nil, err
	}
	return &dto.PaymentIntentResponse{
		PaymentIntentID: result.PaymentIntentID,
		Status:          string(result.Status),
		Succeeded:       result.Succeeded,
	}, nil
}
