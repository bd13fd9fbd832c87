package auth

import (
	"context"

	"github.com/medroute/medroute/internal/config"
	"github.com/medroute/medroute/internal/types"
)

type AuthRequest struct {
	Email    string
	Password string
}

type AuthResponse struct {
	ID        string
	AuthToken string
}

// Claims is what the portal needs from a validated token: who the caller is,
// what role they act in, and which facility they are scoped to. Role and
// facility come from app_metadata and may be empty for plain client accounts.
type Claims struct {
	UserID     string
	Role       types.UserRole
	FacilityID string
}

type Provider interface {
	SignUp(ctx context.Context, req AuthRequest) (*AuthResponse, error)
	Login(ctx context.Context, req AuthRequest) (*AuthResponse, error)
	ValidateToken(ctx context.Context, token string) (*Claims, error)
}

func NewProvider(cfg *config.Configuration) Provider {
	return NewSupabaseAuth(cfg)
}
