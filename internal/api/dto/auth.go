package dto

import (
	ierr "github.com/medroute/medroute/internal/errors"
	"github.com/medroute/medroute/internal/validator"
)

type SignUpRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`

	// FacilityID scopes the new account to a facility. Empty for plain
	// client accounts that book their own trips.
	FacilityID string `json:"facility_id,omitempty"`
}

func (r *SignUpRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	if r.Email == "" || r.Password == "" {
		return ierr.NewError("email and password are required").
			Mark(ierr.ErrValidation)
	}
	return validator.ValidateRequest(r)
}

type AuthResponse struct {
	UserID string `json:"user_id"`
	Token  string `json:"token"`
}
