package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidCapability is returned for any capability token that fails to verify.
// Signature, format and expiry failures are deliberately not distinguished.
var ErrInvalidCapability = errors.New("invalid capability token")

// EstimatePayload binds an estimate link to one recipient
type EstimatePayload struct {
	InvoiceID      string `json:"invoiceId"`
	OrganizationID string `json:"organizationId"`
	TenantID       string `json:"tenantId"`
	Email          string `json:"email"`
}

// InvoiceLinkPayload backs the non-expiring public invoice link
type InvoiceLinkPayload struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organizationId"`
	TenantID       string `json:"tenantId"`
}

type estimateClaims struct {
	jwt.RegisteredClaims
	EstimatePayload
}

type invoiceLinkClaims struct {
	jwt.RegisteredClaims
	InvoiceLinkPayload
}

// CapabilitySigner signs and verifies capability tokens handed to unauthenticated recipients
type CapabilitySigner struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// CapabilityOption configures a CapabilitySigner
type CapabilityOption func(*CapabilitySigner)

// WithClock overrides the clock used for issuing and verifying expiry
func WithClock(now func() time.Time) CapabilityOption {
	return func(s *CapabilitySigner) {
		s.now = now
	}
}

// NewCapabilitySigner creates a signer using the HS256 secret
func NewCapabilitySigner(secret, issuer string, opts ...CapabilityOption) *CapabilitySigner {
	s := &CapabilitySigner{
		secret: []byte(secret),
		issuer: issuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SignEstimate signs the payload with an expiry expiresIn from now
func (s *CapabilitySigner) SignEstimate(payload EstimatePayload, expiresIn time.Duration) (string, error) {
	now := s.now()
	claims := estimateClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
		},
		EstimatePayload: payload,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// VerifyEstimate checks signature and expiry and returns the payload
func (s *CapabilitySigner) VerifyEstimate(token string) (*EstimatePayload, error) {
	claims := &estimateClaims{}
	if err := s.parse(token, claims); err != nil {
		return nil, err
	}
	if claims.ExpiresAt == nil || claims.Email == "" || claims.OrganizationID == "" || claims.TenantID == "" {
		return nil, ErrInvalidCapability
	}
	return &claims.EstimatePayload, nil
}

// SignInvoiceLink signs a non-expiring public link token
func (s *CapabilitySigner) SignInvoiceLink(payload InvoiceLinkPayload) (string, error) {
	claims := invoiceLinkClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   s.issuer,
			IssuedAt: jwt.NewNumericDate(s.now()),
		},
		InvoiceLinkPayload: payload,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// VerifyInvoiceLink checks the signature of a public link token
func (s *CapabilitySigner) VerifyInvoiceLink(token string) (*InvoiceLinkPayload, error) {
	claims := &invoiceLinkClaims{}
	if err := s.parse(token, claims); err != nil {
		return nil, err
	}
	if claims.InvoiceLinkPayload.ID == "" {
		return nil, ErrInvalidCapability
	}
	return &claims.InvoiceLinkPayload, nil
}

func (s *CapabilitySigner) parse(token string, claims jwt.Claims) error {
	parsed, err := jwt.ParseWithClaims(token, claims, hmacKey(s.secret),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return ErrInvalidCapability
	}
	return nil
}
