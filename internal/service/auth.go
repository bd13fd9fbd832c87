package service

import (
	"context"

	"github.com/medroute/medroute/internal/api/dto"
	"github.com/medroute/medroute/internal/auth"
	"github.com/medroute/medroute/internal/domain/profile"
	"github.com/medroute/medroute/internal/types"
)

// AuthService onboards users and exchanges credentials for tokens. Signup
// creates both the auth account and the portal profile so the billing
// pipeline can resolve the user's identity later.
type AuthService interface {
	SignUp(ctx context.Context, req *dto.SignUpRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
}

type authService struct {
	ServiceParams
	provider auth.Provider
}

func NewAuthService(params ServiceParams) AuthService {
	return &authService{
		ServiceParams: params,
		provider:      auth.NewProvider(params.Config),
	}
}

func (s *authService) SignUp(ctx context.Context, req *dto.SignUpRequest) (*dto.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	resp, err := s.provider.SignUp(ctx, auth.AuthRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return nil, err
	}

	p := &profile.Profile{
		ID:        resp.ID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      types.UserRoleClient,
		Phone:     req.Phone,
		Email:     req.Email,
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
	if req.FacilityID != "" {
		p.FacilityID = &req.FacilityID
	}
	p.CreatedBy = resp.ID
	p.UpdatedBy = resp.ID

	if err := s.ProfileRepo.Create(ctx, p); err != nil {
		s.Logger.Errorw("auth account created but profile creation failed",
			"user_id", resp.ID,
			"error", err,
		)
		return nil, err
	}

	s.Logger.Infow("signed up user", "user_id", resp.ID)
	return &dto.AuthResponse{UserID: resp.ID, Token: resp.AuthToken}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	resp, err := s.provider.Login(ctx, auth.AuthRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{UserID: resp.ID, Token: resp.AuthToken}, nil
}
