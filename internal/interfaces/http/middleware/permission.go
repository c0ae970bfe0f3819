package middleware

import (
	"net/http"

	"github.com/ever-co/invoicing/internal/domain/invoice"
	"github.com/ever-co/invoicing/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PermissionConfig holds configuration for permission middleware
type PermissionConfig struct {
	Logger *zap.Logger
}

// RequireAnyPermission lets the request through when the authenticated caller
// holds at least one of permissions. Row-level scoping stays in the services;
// this only rejects callers that could never succeed.
func RequireAnyPermission(cfg PermissionConfig, permissions ...invoice.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := GetCaller(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, "Authentication required", GetRequestID(c)))
			return
		}

		if err := invoice.CheckPermission(caller, permissions...); err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Warn("Permission denied",
					zap.String("user_id", caller.UserID.String()),
					zap.Any("required_any", permissions),
					zap.String("path", c.Request.URL.Path),
				)
			}
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeForbidden, "Permission denied", GetRequestID(c)))
			return
		}
		c.Next()
	}
}
