package service

import (
	"context"

	"github.com/medroute/medroute/internal/api/dto"
	"github.com/medroute/medroute/internal/domain/facility"
	ierr "github.com/medroute/medroute/internal/errors"
	"github.com/medroute/medroute/internal/types"
	"github.com/samber/lo"
)

// FacilityService manages the billed organizational entities
type FacilityService interface {
	CreateFacility(ctx context.Context, req dto.CreateFacilityRequest) (*dto.FacilityResponse, error)
	GetFacility(ctx context.Context, id string) (*dto.FacilityResponse, error)
	UpdateFacility(ctx context.Context, id string, req dto.UpdateFacilityRequest) (*dto.FacilityResponse, error)
	ListFacilities(ctx context.Context) (*dto.ListFacilitiesResponse, error)
}

type facilityService struct {
	ServiceParams
}

func NewFacilityService(params ServiceParams) FacilityService {
	return &facilityService{
		ServiceParams: params,
	}
}

func (s *facilityService) CreateFacility(ctx context.Context, req dto.CreateFacilityRequest) (*dto.FacilityResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if role := types.GetUserRole(ctx); role != types.UserRoleAdmin && role != types.UserRoleDispatcher {
		return nil, ierr.NewError("only administrators can create facilities").
			Mark(ierr.ErrPermissionDenied)
	}

	f := req.ToFacility(ctx)
	if err := s.FacilityRepo.Create(ctx, f); err != nil {
		return nil, err
	}

	s.Logger.Infow("created facility",
		"facility_id", f.ID,
		"name", f.Name,
	)
	return &dto.FacilityResponse{Facility: f}, nil
}

func (s *facilityService) GetFacility(ctx context.Context, id string) (*dto.FacilityResponse, error) {
	if id == "" {
		return nil, ierr.NewError("facility id is required").
			Mark(ierr.ErrValidation)
	}
	if err := types.ValidateFacilityContext(ctx, id); err != nil {
		return nil, ierr.WithError(err).
			WithHint("You do not have access to this facility").
			Mark(ierr.ErrPermissionDenied)
	}

	f, err := s.FacilityRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.FacilityResponse{Facility: f}, nil
}

func (s *facilityService) UpdateFacility(ctx context.Context, id string, req dto.UpdateFacilityRequest) (*dto.FacilityResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := types.ValidateFacilityContext(ctx, id); err != nil {
		return nil, ierr.WithError(err).
			WithHint("You do not have access to this facility").
			Mark(ierr.ErrPermissionDenied)
	}

	f, err := s.FacilityRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		f.Name = *req.Name
	}
	if req.AddressLine1 != nil {
		f.AddressLine1 = *req.AddressLine1
	}
	if req.AddressLine2 != nil {
		f.AddressLine2 = *req.AddressLine2
	}
	if req.City != nil {
		f.City = *req.City
	}
	if req.State != nil {
		f.State = *req.State
	}
	if req.PostalCode != nil {
		f.PostalCode = *req.PostalCode
	}
	if req.BillingEmail != nil {
		f.BillingEmail = *req.BillingEmail
	}
	if req.BillingPhone != nil {
		f.BillingPhone = *req.BillingPhone
	}
	if req.ContactName != nil {
		f.ContactName = *req.ContactName
	}
	f.UpdatedBy = types.GetUserID(ctx)

	if err := s.FacilityRepo.Update(ctx, f); err != nil {
		return nil, err
	}
	return &dto.FacilityResponse{Facility: f}, nil
}

func (s *facilityService) ListFacilities(ctx context.Context) (*dto.ListFacilitiesResponse, error) {
	if role := types.GetUserRole(ctx); role != types.UserRoleAdmin && role != types.UserRoleDispatcher {
		return nil, ierr.NewError("only administrators can list facilities").
			Mark(ierr.ErrPermissionDenied)
	}

	facilities, err := s.FacilityRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.ListFacilitiesResponse{
		Items: lo.Map(facilities, func(f *facility.Facility, _ int) *dto.FacilityResponse {
			return &dto.FacilityResponse{Facility: f}
		}),
		Total: len(facilities),
	}, nil
}
