package service

import (
	"context"

	"github.com/medroute/medroute/internal/api/dto"
	"github.com/medroute/medroute/internal/domain/managedclient"
	ierr "github.com/medroute/medroute/internal/errors"
	"github.com/medroute/medroute/internal/types"
	"github.com/samber/lo"
)

// ManagedClientService manages client records owned by facility staff
type ManagedClientService interface {
	CreateManagedClient(ctx context.Context, req dto.CreateManagedClientRequest) (*dto.ManagedClientResponse, error)
	GetManagedClient(ctx context.Context, id string) (*dto.ManagedClientResponse, error)
	ListManagedClients(ctx context.Context, facilityID string) (*dto.ListManagedClientsResponse, error)
}

type managedClientService struct {
	ServiceParams
}

func NewManagedClientService(params ServiceParams) ManagedClientService {
	return &managedClientService{
		ServiceParams: params,
	}
}

func (s *managedClientService) CreateManagedClient(ctx context.Context, req dto.CreateManagedClientRequest) (*dto.ManagedClientResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.FacilityID == "" {
		return nil, ierr.NewError("facility_id is required").
			Mark(ierr.ErrValidation)
	}
	if err := types.ValidateFacilityContext(ctx, req.FacilityID); err != nil {
		return nil, ierr.WithError(err).
			WithHint("You do not have access to this facility").
			Mark(ierr.ErrPermissionDenied)
	}
	if _, err := s.FacilityRepo.Get(ctx, req.FacilityID); err != nil {
		return nil, err
	}

	mc := req.ToManagedClient(ctx)
	if err := s.ManagedClientRepo.Create(ctx, mc); err != nil {
		return nil, err
	}

	s.Logger.Infow("created managed client",
		"managed_client_id", mc.ID,
		"facility_id", mc.FacilityID,
	)
	return &dto.ManagedClientResponse{ManagedClient: mc}, nil
}

func (s *managedClientService) GetManagedClient(ctx context.Context, id string) (*dto.ManagedClientResponse, error) {
	if id == "" {
		return nil, ierr.NewError("managed client id is required").
			Mark(ierr.ErrValidation)
	}

	mc, err := s.ManagedClientRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.ManagedClientResponse{ManagedClient: mc}, nil
}

func (s *managedClientService) ListManagedClients(ctx context.Context, facilityID string) (*dto.ListManagedClientsResponse, error) {
	if facilityID == "" {
		return nil, ierr.NewError("facility_id is required").
			Mark(ierr.ErrValidation)
	}
	if err := types.ValidateFacilityContext(ctx, facilityID); err != nil {
		return nil, ierr.WithError(err).
			WithHint("You do not have access to this facility").
			Mark(ierr.ErrPermissionDenied)
	}

	clients, err := s.ManagedClientRepo.ListByFacility(ctx, facilityID)
	if err != nil {
		return nil, err
	}

	return &dto.ListManagedClientsResponse{
		Items: lo.Map(clients, func(mc *managedclient.ManagedClient, _ int) *dto.ManagedClientResponse {
			return &dto.ManagedClientResponse{ManagedClient: mc}
		}),
		Total: len(clients),
	}, nil
}
