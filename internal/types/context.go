package types

import (
	"context"
	"fmt"
)

// ContextKey is a type for the keys of values stored in the context
type ContextKey string

const (
	CtxRequestID  ContextKey = "ctx_request_id"
	CtxUserID     ContextKey = "ctx_user_id"
	CtxFacilityID ContextKey = "ctx_facility_id"
	CtxUserRole   ContextKey = "ctx_user_role"
	CtxJWT        ContextKey = "ctx_jwt"

	// Default values used by scripts and tests
	DefaultFacilityID = "00000000-0000-0000-0000-000000000000"
	DefaultUserID     = "00000000-0000-0000-0000-000000000000"
)

const (
	HeaderRequestID     = "X-Request-ID"
	HeaderAuthorization = "Authorization"
)

func GetUserID(ctx context.Context) string {
	if userID, ok := ctx.Value(CtxUserID).(string); ok {
		return userID
	}
	return ""
}

func GetFacilityID(ctx context.Context) string {
	if facilityID, ok := ctx.Value(CtxFacilityID).(string); ok {
		return facilityID
	}
	return ""
}

func GetUserRole(ctx context.Context) UserRole {
	if role, ok := ctx.Value(CtxUserRole).(UserRole); ok {
		return role
	}
	return ""
}

func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(CtxRequestID).(string); ok {
		return requestID
	}
	return ""
}

func GetJWT(ctx context.Context) string {
	if jwt, ok := ctx.Value(CtxJWT).(string); ok {
		return jwt
	}
	return ""
}

// SetUserID sets the user ID in the context
func SetUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, CtxUserID, userID)
}

// SetFacilityID sets the facility ID in the context
func SetFacilityID(ctx context.Context, facilityID string) context.Context {
	return context.WithValue(ctx, CtxFacilityID, facilityID)
}

// SetUserRole sets the caller role in the context
func SetUserRole(ctx context.Context, role UserRole) context.Context {
	return context.WithValue(ctx, CtxUserRole, role)
}

// ValidateFacilityContext validates that the required facility scope is present.
// Admin and dispatcher callers are not bound to a single facility.
func ValidateFacilityContext(ctx context.Context, facilityID string) error {
	if ctx == nil {
		return fmt.Errorf("context is nil")
	}

	role := GetUserRole(ctx)
	if role == UserRoleAdmin || role == UserRoleDispatcher {
		return nil
	}

	scoped := GetFacilityID(ctx)
	if scoped == "" || scoped != facilityID {
		return fmt.Errorf("caller is not scoped to facility %s", facilityID)
	}

	return nil
}
