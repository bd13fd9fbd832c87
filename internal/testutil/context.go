package testutil

import (
	"context"

	"github.com/medroute/medroute/internal/types"
)

func SetupContext() context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, types.CtxUserID, types.DefaultUserID)
	ctx = context.WithValue(ctx, types.CtxFacilityID, types.DefaultFacilityID)
	ctx = context.WithValue(ctx, types.CtxUserRole, types.UserRoleFacility)
	ctx = context.WithValue(ctx, types.CtxRequestID, types.GenerateUUID())
	return ctx
}
