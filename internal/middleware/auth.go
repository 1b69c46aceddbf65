package middleware

import (
	"strings"

	"cleanops_backend/internal/apperrors"
	"cleanops_backend/internal/auth"
	"cleanops_backend/internal/logger"
	"cleanops_backend/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserID    = "userID"
	ContextCompanyID = "companyID"
	ContextRole      = "role"
)

// AuthMiddleware verifies the bearer token and stores the actor
// identity in the request context. There is no ambient current user:
// handlers read the actor from here and pass it into the services
// explicitly.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			apperrors.HandleError(c, apperrors.ErrUnauthorized)
			c.Abort()
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := auth.ParseToken(tokenStr)
		if err != nil {
			apperrors.HandleError(c, apperrors.ErrInvalidToken)
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextCompanyID, claims.CompanyID)
		c.Set(ContextRole, claims.Role)

		ctx := logger.WithUserID(c.Request.Context(), claims.UserID)
		ctx = logger.WithCompanyID(ctx, claims.CompanyID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireCapability gates a route on the single capability check; the
// services never re-derive role permissions from scratch.
func RequireCapability(capability auth.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get(ContextRole)
		if !exists {
			apperrors.HandleError(c, apperrors.ErrForbidden)
			c.Abort()
			return
		}

		role, ok := roleVal.(models.UserRole)
		if !ok {
			if roleStr, isString := roleVal.(string); isString {
				role = models.UserRole(roleStr)
			} else {
				apperrors.HandleError(c, apperrors.ErrForbidden)
				c.Abort()
				return
			}
		}

		if !auth.Can(role, capability) {
			apperrors.HandleError(c, apperrors.ErrForbidden)
			c.Abort()
			return
		}

		c.Next()
	}
}

// ActorID returns the authenticated user ID from the gin context.
func ActorID(c *gin.Context) string {
	if v, ok := c.Get(ContextUserID); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// CompanyID returns the authenticated company ID from the gin context.
func CompanyID(c *gin.Context) string {
	if v, ok := c.Get(ContextCompanyID); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
