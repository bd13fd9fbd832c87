package service

import (
	"context"

	"github.com/medroute/medroute/internal/api/dto"
	"github.com/medroute/medroute/internal/domain/trip"
	ierr "github.com/medroute/medroute/internal/errors"
	"github.com/medroute/medroute/internal/types"
	"github.com/samber/lo"
)

// TripService handles booking and lifecycle of trips
type TripService interface {
	CreateTrip(ctx context.Context, req dto.CreateTripRequest) (*dto.TripResponse, error)
	GetTrip(ctx context.Context, id string) (*dto.TripResponse, error)
	ListTrips(ctx context.Context, filter *types.TripFilter) (*dto.ListTripsResponse, error)
	UpdateTripStatus(ctx context.Context, id string, req dto.UpdateTripStatusRequest) (*dto.TripResponse, error)
}

type tripService struct {
	ServiceParams
}

func NewTripService(params ServiceParams) TripService {
	return &tripService{
		ServiceParams: params,
	}
}

func (s *tripService) CreateTrip(ctx context.Context, req dto.CreateTripRequest) (*dto.TripResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if req.FacilityID != "" {
		if err := types.ValidateFacilityContext(ctx, req.FacilityID); err != nil {
			return nil, ierr.WithError(err).
				WithHint("You do not have access to this facility").
				Mark(ierr.ErrPermissionDenied)
		}
		if _, err := s.FacilityRepo.Get(ctx, req.FacilityID); err != nil {
			return nil, err
		}
	}

	if req.ManagedClientID != nil {
		if _, err := s.ManagedClientRepo.Get(ctx, *req.ManagedClientID); err != nil {
			return nil, err
		}
	}

	t := req.ToTrip(ctx)
	if err := t.Validate(); err != nil {
		return nil, err
	}

	if err := s.TripRepo.Create(ctx, t); err != nil {
		return nil, err
	}

	s.Logger.Infow("created trip",
		"trip_id", t.ID,
		"booking_ref", t.BookingRef,
		"pickup_time", t.PickupTime,
	)
	return &dto.TripResponse{Trip: t}, nil
}

func (s *tripService) GetTrip(ctx context.Context, id string) (*dto.TripResponse, error) {
	if id == "" {
		return nil, ierr.NewError("trip id is required").
			Mark(ierr.ErrValidation)
	}

	t, err := s.TripRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.TripResponse{Trip: t}, nil
}

func (s *tripService) ListTrips(ctx context.Context, filter *types.TripFilter) (*dto.ListTripsResponse, error) {
	if filter == nil {
		filter = &types.TripFilter{QueryFilter: types.GetDefaultQueryFilter()}
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	if filter.FacilityID != "" {
		if err := types.ValidateFacilityContext(ctx, filter.FacilityID); err != nil {
			return nil, ierr.WithError(err).
				WithHint("You do not have access to this facility").
				Mark(ierr.ErrPermissionDenied)
		}
	}

	trips, err := s.TripRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.TripRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &dto.ListTripsResponse{
		Items: lo.Map(trips, func(t *trip.Trip, _ int) *dto.TripResponse {
			return &dto.TripResponse{Trip: t}
		}),
		Total: total,
	}, nil
}

// UpdateTripStatus writes the raw lifecycle status. The locked pricing
// breakdown survives any status change.
func (s *tripService) UpdateTripStatus(ctx context.Context, id string, req dto.UpdateTripStatusRequest) (*dto.TripResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	t, err := s.TripRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	t.TripStatus = req.Status
	t.UpdatedBy = types.GetUserID(ctx)
	if err := s.TripRepo.Update(ctx, t); err != nil {
		return nil, err
	}

	updated, err := s.TripRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("updated trip status",
		"trip_id", id,
		"status", req.Status,
	)
	return &dto.TripResponse{Trip: updated}, nil
}
