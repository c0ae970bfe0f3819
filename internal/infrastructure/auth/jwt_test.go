package auth

import (
	"context"
	"testing"
	"time"

	"github.com/ever-co/invoicing/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-at-least-32-chars"

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                testSecret,
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "test-issuer",
	})
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := newTestJWTService()
	input := GenerateTokenInput{
		TenantID:       uuid.New(),
		OrganizationID: uuid.New(),
		UserID:         uuid.New(),
		Permissions:    []string{"INVOICES_VIEW", "INVOICES_EDIT"},
	}

	token, expiresAt, err := svc.GenerateAccessToken(input)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 2*time.Second)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, input.TenantID.String(), claims.TenantID)
	assert.Equal(t, input.OrganizationID.String(), claims.OrganizationID)
	assert.Equal(t, input.UserID.String(), claims.UserID)
	assert.True(t, claims.HasAnyPermission("ORG_INVOICES_VIEW", "INVOICES_EDIT"))
	assert.False(t, claims.HasAnyPermission("ALL_ORG_EDIT"))
}

func TestJWTService_ValidateErrors(t *testing.T) {
	svc := newTestJWTService()

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateAccessToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{Secret: "another-secret-key-of-32-characters", AccessTokenExpiration: time.Minute})
		token, _, err := other.GenerateAccessToken(GenerateTokenInput{TenantID: uuid.New(), OrganizationID: uuid.New(), UserID: uuid.New()})
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		claims := &Claims{
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))},
			TenantID:         uuid.NewString(),
			OrganizationID:   uuid.NewString(),
			UserID:           uuid.NewString(),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("missing organization", func(t *testing.T) {
		claims := &Claims{
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute))},
			TenantID:         uuid.NewString(),
			UserID:           uuid.NewString(),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrMissingOrganizationID)
	})
}

func TestCapabilitySigner_Estimate(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	signer := NewCapabilitySigner(testSecret, "test", WithClock(clock))

	payload := EstimatePayload{
		InvoiceID:      uuid.NewString(),
		OrganizationID: uuid.NewString(),
		TenantID:       uuid.NewString(),
		Email:          "a@b.com",
	}

	token, err := signer.SignEstimate(payload, 3*24*time.Hour)
	require.NoError(t, err)

	got, err := signer.VerifyEstimate(token)
	require.NoError(t, err)
	assert.Equal(t, payload, *got)

	t.Run("expired by signature clock", func(t *testing.T) {
		later := NewCapabilitySigner(testSecret, "test", WithClock(func() time.Time { return now.Add(4 * 24 * time.Hour) }))
		_, err := later.VerifyEstimate(token)
		assert.ErrorIs(t, err, ErrInvalidCapability)
	})

	t.Run("tampered", func(t *testing.T) {
		_, err := signer.VerifyEstimate(token + "x")
		assert.ErrorIs(t, err, ErrInvalidCapability)
	})

	t.Run("different secret", func(t *testing.T) {
		other := NewCapabilitySigner("another-secret-key-of-32-characters", "test", WithClock(clock))
		_, err := other.VerifyEstimate(token)
		assert.ErrorIs(t, err, ErrInvalidCapability)
	})

	t.Run("link token is not an estimate token", func(t *testing.T) {
		link, err := signer.SignInvoiceLink(InvoiceLinkPayload{ID: uuid.NewString(), OrganizationID: payload.OrganizationID, TenantID: payload.TenantID})
		require.NoError(t, err)
		_, err = signer.VerifyEstimate(link)
		assert.ErrorIs(t, err, ErrInvalidCapability)
	})
}

func TestCapabilitySigner_InvoiceLinkDoesNotExpire(t *testing.T) {
	now := time.Now()
	signer := NewCapabilitySigner(testSecret, "test", WithClock(func() time.Time { return now }))
	payload := InvoiceLinkPayload{ID: uuid.NewString(), OrganizationID: uuid.NewString(), TenantID: uuid.NewString()}

	token, err := signer.SignInvoiceLink(payload)
	require.NoError(t, err)

	farFuture := NewCapabilitySigner(testSecret, "test", WithClock(func() time.Time { return now.AddDate(10, 0, 0) }))
	got, err := farFuture.VerifyInvoiceLink(token)
	require.NoError(t, err)
	assert.Equal(t, payload, *got)
}

func TestInMemoryRedemptionLedger(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	ledger := NewInMemoryRedemptionLedger()
	ledger.now = func() time.Time { return now }

	first, err := ledger.MarkRedeemed(ctx, "tok", time.Hour)
	require.NoError(t, err)
	assert.True(t, first)

	again, err := ledger.MarkRedeemed(ctx, "tok", time.Hour)
	require.NoError(t, err)
	assert.False(t, again)

	redeemed, err := ledger.IsRedeemed(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, redeemed)

	now = now.Add(2 * time.Hour)
	redeemed, err = ledger.IsRedeemed(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, redeemed)

	first, err = ledger.MarkRedeemed(ctx, "tok", time.Hour)
	require.NoError(t, err)
	assert.True(t, first)
}

func TestInMemoryRedemptionLedger_Release(t *testing.T) {
	ctx := context.Background()
	ledger := NewInMemoryRedemptionLedger()

	first, err := ledger.MarkRedeemed(ctx, "tok", time.Hour)
	require.NoError(t, err)
	require.True(t, first)

	require.NoError(t, ledger.Release(ctx, "tok"))
	redeemed, err := ledger.IsRedeemed(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, redeemed)

	again, err := ledger.MarkRedeemed(ctx, "tok", time.Hour)
	require.NoError(t, err)
	assert.True(t, again)

	require.NoError(t, ledger.Release(ctx, "never-marked"))
}

func TestInMemoryRedemptionLedger_NonPositiveTTL(t *testing.T) {
	ledger := NewInMemoryRedemptionLedger()
	ok, err := ledger.MarkRedeemed(context.Background(), "tok", 0)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLedgerKeyHidesToken(t *testing.T) {
	key := ledgerKey("secret-token")
	assert.Len(t, key, 64)
	assert.NotContains(t, key, "secret-token")
	assert.Equal(t, key, ledgerKey("secret-token"))
}
