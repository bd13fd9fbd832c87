package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/medroute/medroute/internal/auth"
	"github.com/medroute/medroute/internal/config"
	"github.com/medroute/medroute/internal/logger"
	"github.com/medroute/medroute/internal/types"
)

// GuestAuthenticateMiddleware allows requests without authentication.
// Used by scripts and local development, never in cloud mode.
func GuestAuthenticateMiddleware(c *gin.Context) {
	ctx := c.Request.Context()
	ctx = types.SetUserID(ctx, types.DefaultUserID)
	ctx = types.SetFacilityID(ctx, types.DefaultFacilityID)
	ctx = types.SetUserRole(ctx, types.UserRoleFacility)
	c.Request = c.Request.WithContext(ctx)
	c.Next()
}

// AuthenticateMiddleware validates the Bearer token and stamps the caller's
// identity, role, and facility scope into the request context. Facility scope
// comes from the token claims, never from request parameters.
func AuthenticateMiddleware(cfg *config.Configuration, logger *logger.Logger) gin.HandlerFunc {
	authProvider := auth.NewProvider(cfg)

	return func(c *gin.Context) {
		authHeader := c.GetHeader(types.HeaderAuthorization)
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := authProvider.ValidateToken(c.Request.Context(), tokenString)
		if err != nil {
			logger.Errorw("failed to validate token", "error", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		if claims == nil || claims.UserID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}

		ctx := c.Request.Context()
		ctx = types.SetUserID(ctx, claims.UserID)
		ctx = types.SetUserRole(ctx, claims.Role)
		if claims.FacilityID != "" {
			ctx = types.SetFacilityID(ctx, claims.FacilityID)
		}
		ctx = context.WithValue(ctx, types.CtxJWT, tokenString)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
