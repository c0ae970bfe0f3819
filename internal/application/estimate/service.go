package estimate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ever-co/invoicing/internal/domain/invoice"
	"github.com/ever-co/invoicing/internal/domain/shared"
	"github.com/ever-co/invoicing/internal/infrastructure/auth"
	"github.com/ever-co/invoicing/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Action is what a recipient does with a mailed estimate
type Action string

const (
	ActionAccept Action = "accept"
	ActionReject Action = "reject"
)

// IsValid reports whether a is a known action
func (a Action) IsValid() bool {
	return a == ActionAccept || a == ActionReject
}

// Signer issues and verifies estimate capability tokens
type Signer interface {
	SignEstimate(payload auth.EstimatePayload, expiresIn time.Duration) (string, error)
	VerifyEstimate(token string) (*auth.EstimatePayload, error)
}

// EstimateEmailService issues, validates and redeems estimate links
type EstimateEmailService struct {
	invoiceRepo invoice.Repository
	emailRepo   invoice.EstimateEmailRepository
	orgRepo     invoice.OrganizationRepository
	signer      Signer
	ledger      auth.RedemptionLedger
	now         func() time.Time
	logger      *zap.Logger
}

// Option configures an EstimateEmailService
type Option func(*EstimateEmailService)

// WithClock overrides the service clock
func WithClock(now func() time.Time) Option {
	return func(s *EstimateEmailService) {
		s.now = now
	}
}

// WithLogger sets the logger used when no request logger is attached to the context
func WithLogger(l *zap.Logger) Option {
	return func(s *EstimateEmailService) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewEstimateEmailService creates a new EstimateEmailService
func NewEstimateEmailService(
	invoiceRepo invoice.Repository,
	emailRepo invoice.EstimateEmailRepository,
	orgRepo invoice.OrganizationRepository,
	signer Signer,
	ledger auth.RedemptionLedger,
	opts ...Option,
) *EstimateEmailService {
	s := &EstimateEmailService{
		invoiceRepo: invoiceRepo,
		emailRepo:   emailRepo,
		orgRepo:     orgRepo,
		signer:      signer,
		ledger:      ledger,
		now:         time.Now,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateEstimateEmail issues a capability token for one recipient of an estimate
// and persists the record that later resolves it.
func (s *EstimateEmailService) CreateEstimateEmail(ctx context.Context, caller invoice.Caller, invoiceID uuid.UUID, email string) (*invoice.EstimateEmail, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Email is required")
	}

	inv, err := s.invoiceRepo.FindByID(ctx, caller.TenantID, caller.OrganizationID, invoiceID, invoice.ReadScope(caller))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, invoice.ErrInvalidInvoice
		}
		return nil, fmt.Errorf("failed to load invoice: %w", err)
	}

	org, err := s.orgRepo.FindByID(ctx, inv.TenantID, inv.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load organization: %w", err)
	}

	now := s.now()
	expireDate := now.AddDate(0, 0, org.ExpiryPeriod())

	token, err := s.signer.SignEstimate(auth.EstimatePayload{
		InvoiceID:      inv.ID.String(),
		OrganizationID: inv.OrganizationID.String(),
		TenantID:       inv.TenantID.String(),
		Email:          email,
	}, expireDate.Sub(now))
	if err != nil {
		return nil, fmt.Errorf("failed to sign estimate token: %w", err)
	}

	record := &invoice.EstimateEmail{
		BaseEntity:               shared.NewBaseEntityAt(now),
		TenantID:                 inv.TenantID,
		OrganizationID:           inv.OrganizationID,
		InvoiceID:                inv.ID,
		Email:                    email,
		Token:                    token,
		ExpireDate:               expireDate,
		ConvertAcceptedEstimates: org.ConvertsAcceptedEstimates(),
	}
	if err := s.emailRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save estimate email: %w", err)
	}

	logger.LOr(ctx, s.logger).Info("estimate email issued",
		zap.String("invoice_id", inv.ID.String()),
		zap.Time("expire_date", expireDate))
	return record, nil
}

// Validate resolves a token to its live record. Every failure, whether a bad
// signature, an expired token or a missing record, yields ErrInvalidToken.
func (s *EstimateEmailService) Validate(ctx context.Context, token string, relations []string) (*invoice.EstimateEmail, error) {
	payload, err := s.signer.VerifyEstimate(token)
	if err != nil {
		return nil, invoice.ErrInvalidToken
	}

	orgID, err := uuid.Parse(payload.OrganizationID)
	if err != nil {
		return nil, invoice.ErrInvalidToken
	}
	tenantID, err := uuid.Parse(payload.TenantID)
	if err != nil {
		return nil, invoice.ErrInvalidToken
	}

	record, err := s.emailRepo.FindLive(ctx, invoice.EstimateEmailLookup{
		Email:          payload.Email,
		Token:          token,
		OrganizationID: orgID,
		TenantID:       tenantID,
		Now:            s.now(),
		Relations:      relations,
	})
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			logger.LOr(ctx, s.logger).Warn("estimate email lookup failed", zap.Error(err))
		}
		return nil, invoice.ErrInvalidToken
	}
	return record, nil
}

// Redeem applies the recipient's decision to the estimate. A token can be
// redeemed once; later attempts fail with ErrAlreadyRedeemed.
func (s *EstimateEmailService) Redeem(ctx context.Context, token string, action Action) (*invoice.Invoice, error) {
	if !action.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown estimate action: "+string(action))
	}

	record, err := s.Validate(ctx, token, nil)
	if err != nil {
		return nil, err
	}

	inv, err := s.invoiceRepo.FindByID(ctx, record.TenantID, record.OrganizationID, record.InvoiceID, invoice.Scope{Unrestricted: true})
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, invoice.ErrInvalidInvoice
		}
		return nil, fmt.Errorf("failed to load estimate: %w", err)
	}
	if !inv.IsEstimate {
		return nil, invoice.ErrInvalidInvoice
	}

	ttl := record.ExpireDate.Sub(s.now())
	first, err := s.ledger.MarkRedeemed(ctx, token, ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to record redemption: %w", err)
	}
	if !first {
		return nil, invoice.ErrAlreadyRedeemed
	}

	switch action {
	case ActionAccept:
		err = inv.Accept(record.ConvertAcceptedEstimates, s.now())
	case ActionReject:
		err = inv.Reject(s.now())
	}
	if err == nil {
		err = s.invoiceRepo.Save(ctx, inv)
		if err != nil {
			err = fmt.Errorf("failed to save estimate: %w", err)
		}
	}
	if err != nil {
		// the decision was not stored, so the link stays usable
		if relErr := s.ledger.Release(ctx, token); relErr != nil {
			logger.LOr(ctx, s.logger).Error("failed to release estimate redemption", zap.Error(relErr))
		}
		return nil, err
	}

	logger.LOr(ctx, s.logger).Info("estimate redeemed",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("action", string(action)),
		zap.String("status", string(inv.Status)))
	return inv, nil
}
