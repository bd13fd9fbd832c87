package auth

import (
	"context"
	"fmt"
	"log"

	"github.com/golang-jwt/jwt/v4"
	"github.com/medroute/medroute/internal/config"
	ierr "github.com/medroute/medroute/internal/errors"
	"github.com/medroute/medroute/internal/types"
	"github.com/nedpals/supabase-go"
)

type supabaseAuth struct {
	AuthConfig config.AuthConfig
	client     *supabase.Client
}

func NewSupabaseAuth(cfg *config.Configuration) Provider {
	client := supabase.CreateClient(cfg.Auth.Supabase.BaseURL, cfg.Auth.Supabase.ServiceKey)
	if client == nil {
		log.Fatalf("failed to create Supabase client")
	}

	return &supabaseAuth{
		AuthConfig: cfg.Auth,
		client:     client,
	}
}

func (s *supabaseAuth) SignUp(ctx context.Context, req AuthRequest) (*AuthResponse, error) {
	_, err := s.client.Auth.SignUp(ctx, supabase.UserCredentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to sign up").
			Mark(ierr.ErrUpstream)
	}

	return s.Login(ctx, req)
}

func (s *supabaseAuth) Login(ctx context.Context, req AuthRequest) (*AuthResponse, error) {
	user, err := s.client.Auth.SignIn(ctx, supabase.UserCredentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid email or password").
			Mark(ierr.ErrPermissionDenied)
	}

	return &AuthResponse{
		ID:        user.User.ID,
		AuthToken: user.AccessToken,
	}, nil
}

func (s *supabaseAuth) ValidateToken(ctx context.Context, token string) (*Claims, error) {
	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.AuthConfig.Secret), nil
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid or expired token").
			Mark(ierr.ErrPermissionDenied)
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok || !parsedToken.Valid {
		return nil, ierr.NewError("invalid token claims").
			Mark(ierr.ErrPermissionDenied)
	}

	userID, ok := claims["sub"].(string)
	if !ok {
		return nil, ierr.NewError("token missing user id").
			Mark(ierr.ErrPermissionDenied)
	}

	result := &Claims{UserID: userID}

	if appMetadata, ok := claims["app_metadata"].(map[string]interface{}); ok {
		if role, ok := appMetadata["role"].(string); ok {
			result.Role = types.UserRole(role)
		}
		if facilityID, ok := appMetadata["facility_id"].(string); ok {
			result.FacilityID = facilityID
		}
	}
	if result.Role == "" {
		result.Role = types.UserRoleClient
	}

	return result, nil
}
