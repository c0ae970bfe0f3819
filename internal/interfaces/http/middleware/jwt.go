package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ever-co/invoicing/internal/domain/invoice"
	"github.com/ever-co/invoicing/internal/infrastructure/auth"
	"github.com/ever-co/invoicing/internal/infrastructure/logger"
	"github.com/ever-co/invoicing/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Context keys and header names used by JWT authentication
const (
	JWTClaimsKey  = "jwt_claims"
	CallerKey     = "caller"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	JWTService *auth.JWTService
	Logger     *zap.Logger
}

// JWTAuthMiddleware authenticates the bearer token and stores the resulting
// invoice.Caller in the gin context. Requests without a valid session are
// rejected with 401.
func JWTAuthMiddleware(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		header := c.GetHeader(AuthHeaderKey)
		if header == "" {
			abortUnauthorized(c, log, nil, "Missing authorization header")
			return
		}
		token, ok := strings.CutPrefix(header, BearerPrefix)
		if !ok || token == "" {
			abortUnauthorized(c, log, auth.ErrInvalidToken, "Invalid authorization header format")
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(token)
		if err != nil {
			abortUnauthorized(c, log, err, "Token validation failed")
			return
		}
		caller, err := callerFromClaims(claims)
		if err != nil {
			abortUnauthorized(c, log, auth.ErrInvalidClaims, err.Error())
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(CallerKey, caller)

		ctx, _ := logger.WithCaller(c.Request.Context(), logger.FromContext(c.Request.Context()), logger.CallerFields{
			TenantID:       claims.TenantID,
			OrganizationID: claims.OrganizationID,
			UserID:         claims.UserID,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func callerFromClaims(claims *auth.Claims) (invoice.Caller, error) {
	tenantID, err := uuid.Parse(claims.TenantID)
	if err != nil {
		return invoice.Caller{}, errors.New("tenant_id is not a UUID")
	}
	orgID, err := uuid.Parse(claims.OrganizationID)
	if err != nil {
		return invoice.Caller{}, errors.New("organization_id is not a UUID")
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return invoice.Caller{}, errors.New("user_id is not a UUID")
	}
	return invoice.Caller{
		TenantID:       tenantID,
		OrganizationID: orgID,
		UserID:         userID,
		Permissions:    claims.Permissions,
	}, nil
}

func abortUnauthorized(c *gin.Context, log *zap.Logger, err error, reason string) {
	log.Warn("JWT authentication failed",
		zap.Error(err),
		zap.String("reason", reason),
		zap.String("path", c.Request.URL.Path),
	)

	code, message := dto.ErrCodeUnauthorized, "Authentication required"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, message = dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrTokenNotYetValid), errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrInvalidClaims), errors.Is(err, auth.ErrMissingTenantID),
		errors.Is(err, auth.ErrMissingOrganizationID), errors.Is(err, auth.ErrMissingUserID):
		code, message = dto.ErrCodeTokenInvalid, "Invalid token"
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}

// GetJWTClaims retrieves the validated claims
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(JWTClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetCaller retrieves the authenticated caller
func GetCaller(c *gin.Context) (invoice.Caller, bool) {
	if v, ok := c.Get(CallerKey); ok {
		if caller, ok := v.(invoice.Caller); ok {
			return caller, true
		}
	}
	return invoice.Caller{}, false
}
