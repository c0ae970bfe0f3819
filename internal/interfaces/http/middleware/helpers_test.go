package middleware

import (
	"io"
	"strings"
	"time"

	"github.com/ever-co/invoicing/internal/domain/invoice"
	"github.com/ever-co/invoicing/internal/infrastructure/auth"
	"github.com/ever-co/invoicing/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func stringsReader(s string) io.Reader { return strings.NewReader(s) }

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "invoicing-test",
	})
}

func newTestToken(svc *auth.JWTService, perms ...string) (string, auth.GenerateTokenInput) {
	input := auth.GenerateTokenInput{
		TenantID:       uuid.New(),
		OrganizationID: uuid.New(),
		UserID:         uuid.New(),
		Permissions:    perms,
	}
	token, _, err := svc.GenerateAccessToken(input)
	if err != nil {
		panic(err)
	}
	return token, input
}

// withCaller stands in for JWTAuthMiddleware in tests that only need a caller
func withCaller(caller invoice.Caller) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(CallerKey, caller)
		c.Next()
	}
}
