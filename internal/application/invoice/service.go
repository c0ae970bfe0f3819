package invoice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ever-co/invoicing/internal/domain/invoice"
	"github.com/ever-co/invoicing/internal/domain/shared"
	"github.com/ever-co/invoicing/internal/infrastructure/auth"
	"github.com/ever-co/invoicing/internal/infrastructure/logger"
	"github.com/ever-co/invoicing/internal/infrastructure/mail"
	"github.com/ever-co/invoicing/internal/infrastructure/printing"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Renderer turns a document into PDF bytes
type Renderer interface {
	Render(ctx context.Context, doc *printing.Document, filename string) ([]byte, error)
}

// EstimateIssuer issues the capability record attached to a mailed document
type EstimateIssuer interface {
	CreateEstimateEmail(ctx context.Context, caller invoice.Caller, invoiceID uuid.UUID, email string) (*invoice.EstimateEmail, error)
}

// LinkSigner signs and verifies public invoice links
type LinkSigner interface {
	SignInvoiceLink(payload auth.InvoiceLinkPayload) (string, error)
	VerifyInvoiceLink(token string) (*auth.InvoiceLinkPayload, error)
}

// Dependencies are the collaborators of InvoiceService
type Dependencies struct {
	Invoices      invoice.Repository
	Organizations invoice.OrganizationRepository
	Contacts      invoice.ContactRepository
	Payments      invoice.PaymentRepository
	EmailRecords  invoice.EmailRecordRepository
	Estimates     EstimateIssuer
	Links         LinkSigner
	Renderer      Renderer
	Transport     mail.Transport
	Labels        *printing.Labels
}

// Config holds mail composition settings
type Config struct {
	ClientBaseURL  string
	MailFrom       string
	BlockedDomains []string
}

// Option configures an InvoiceService
type Option func(*InvoiceService)

// WithClock overrides the service clock
func WithClock(now func() time.Time) Option {
	return func(s *InvoiceService) {
		s.now = now
	}
}

// WithLogger sets the logger used when no request logger is attached to the context
func WithLogger(l *zap.Logger) Option {
	return func(s *InvoiceService) {
		if l != nil {
			s.logger = l
		}
	}
}

// InvoiceService handles invoice and estimate use cases. Every operation takes
// the caller explicitly and checks access before reading or mutating content.
type InvoiceService struct {
	deps    Dependencies
	cfg     Config
	builder documentBuilder
	now     func() time.Time
	logger  *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(deps Dependencies, cfg Config, opts ...Option) *InvoiceService {
	if deps.Labels == nil {
		deps.Labels = printing.NewLabels()
	}
	s := &InvoiceService{
		deps:    deps,
		cfg:     cfg,
		builder: documentBuilder{labels: deps.Labels},
		now:     time.Now,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InvoiceService) log(ctx context.Context) *zap.Logger {
	return logger.LOr(ctx, s.logger)
}

var (
	viewPermissions = []invoice.Permission{
		invoice.PermAllOrgView, invoice.PermInvoicesHandle, invoice.PermInvoicesView,
		invoice.PermOrgInvoicesView, invoice.PermEstimatesView,
	}
	editPermissions = []invoice.Permission{
		invoice.PermAllOrgEdit, invoice.PermInvoicesHandle, invoice.PermInvoicesEdit,
		invoice.PermOrgInvoicesEdit, invoice.PermEstimatesEdit,
	}
)

// loadReadable returns the invoice when the caller may read it. A missing row
// and a row outside the caller's scope are indistinguishable.
func (s *InvoiceService) loadReadable(ctx context.Context, caller invoice.Caller, id uuid.UUID) (*invoice.Invoice, error) {
	if err := invoice.CheckPermission(caller); err != nil {
		return nil, err
	}
	return s.load(ctx, caller, id, invoice.ReadScope(caller))
}

// loadWritable applies the write check and returns the invoice and whether the caller is privileged
func (s *InvoiceService) loadWritable(ctx context.Context, caller invoice.Caller, id uuid.UUID, checkStatus bool) (*invoice.Invoice, bool, error) {
	if err := invoice.CheckPermission(caller, editPermissions...); err != nil {
		return nil, false, err
	}
	scope, privileged := invoice.WriteScope(caller, checkStatus)
	inv, err := s.load(ctx, caller, id, scope)
	return inv, privileged, err
}

func (s *InvoiceService) load(ctx context.Context, caller invoice.Caller, id uuid.UUID, scope invoice.Scope) (*invoice.Invoice, error) {
	if scope.IsEmpty() {
		return nil, invoice.ErrInvalidInvoice
	}
	inv, err := s.deps.Invoices.FindByID(ctx, caller.TenantID, caller.OrganizationID, id, scope)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, invoice.ErrInvalidInvoice
		}
		return nil, fmt.Errorf("failed to load invoice: %w", err)
	}
	return inv, nil
}

// =============================================================================
// Queries
// =============================================================================

// List returns every invoice matching the request inside the caller's read scope
func (s *InvoiceService) List(ctx context.Context, caller invoice.Caller, req ListInvoicesRequest) ([]InvoiceResponse, error) {
	req.Page, req.PageSize = 0, 0
	page, err := s.Paginate(ctx, caller, req)
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// Paginate returns one page of invoices inside the caller's read scope and the total count
func (s *InvoiceService) Paginate(ctx context.Context, caller invoice.Caller, req ListInvoicesRequest) (*ListInvoicesResponse, error) {
	if err := invoice.CheckPermission(caller, viewPermissions...); err != nil {
		return nil, err
	}

	invoices, total, err := s.deps.Invoices.List(ctx, caller.TenantID, caller.OrganizationID,
		invoice.ReadScope(caller), req.ToFilter(s.now()))
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	items := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		items[i] = ToInvoiceResponse(&invoices[i])
	}
	return &ListInvoicesResponse{Items: items, Total: total}, nil
}

// GetByID returns one invoice visible to the caller
func (s *InvoiceService) GetByID(ctx context.Context, caller invoice.Caller, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.loadReadable(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(inv)
	return &response, nil
}

// GetHighestInvoiceNumber returns the largest invoice number of the caller's organization, or 0
func (s *InvoiceService) GetHighestInvoiceNumber(ctx context.Context, caller invoice.Caller) (int64, error) {
	if err := invoice.CheckPermission(caller); err != nil {
		return 0, err
	}
	highest, err := s.deps.Invoices.HighestInvoiceNumber(ctx, caller.TenantID, caller.OrganizationID)
	if err != nil {
		return 0, fmt.Errorf("failed to get highest invoice number: %w", err)
	}
	return highest, nil
}

// GetStats counts and sums the non-estimate invoices the caller may read
func (s *InvoiceService) GetStats(ctx context.Context, caller invoice.Caller) (*StatsResponse, error) {
	if err := invoice.CheckPermission(caller, viewPermissions...); err != nil {
		return nil, err
	}
	stats, err := s.deps.Invoices.Stats(ctx, caller.TenantID, caller.OrganizationID, invoice.ReadScope(caller))
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice stats: %w", err)
	}
	return &StatsResponse{Count: stats.Count, TotalValue: stats.TotalValue}, nil
}

// =============================================================================
// Commands
// =============================================================================

// Create creates an invoice or estimate authored as requested
func (s *InvoiceService) Create(ctx context.Context, caller invoice.Caller, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	return s.create(ctx, caller, req, false)
}

// CreateOwn creates an invoice or estimate authored by the caller
func (s *InvoiceService) CreateOwn(ctx context.Context, caller invoice.Caller, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	return s.create(ctx, caller, req, true)
}

func (s *InvoiceService) create(ctx context.Context, caller invoice.Caller, req CreateInvoiceRequest, own bool) (*InvoiceResponse, error) {
	if err := invoice.CheckPermission(caller, editPermissions...); err != nil {
		return nil, err
	}

	var number int64
	if req.InvoiceNumber != nil {
		number = *req.InvoiceNumber
	} else {
		highest, err := s.deps.Invoices.HighestInvoiceNumber(ctx, caller.TenantID, caller.OrganizationID)
		if err != nil {
			return nil, fmt.Errorf("failed to get highest invoice number: %w", err)
		}
		number = highest + 1
	}

	inv, err := invoice.NewInvoice(caller.TenantID, caller.OrganizationID, number, s.now())
	if err != nil {
		return nil, err
	}

	inv.FromUserID = req.FromUserID
	if own {
		userID := caller.UserID
		inv.FromUserID = &userID
	}
	inv.ToContactID = req.ToContactID
	inv.IsEstimate = req.IsEstimate
	if req.Status != "" {
		inv.Status = invoice.Status(req.Status)
	}
	if req.InvoiceDate != nil {
		inv.InvoiceDate = *req.InvoiceDate
	}
	if req.DueDate != nil {
		inv.DueDate = *req.DueDate
	}
	inv.Currency = req.Currency
	inv.DiscountValue = req.DiscountValue
	if req.DiscountType != "" {
		inv.DiscountType = invoice.DiscountType(req.DiscountType)
	}
	inv.Tax = req.Tax
	if req.TaxType != "" {
		inv.TaxType = invoice.DiscountType(req.TaxType)
	}
	inv.AlreadyPaid = req.AlreadyPaid
	if req.TotalValue != nil {
		inv.TotalValue = *req.TotalValue
	}
	inv.Terms = req.Terms
	inv.Tags = invoice.NormalizeTags(req.Tags)
	inv.SetItems(toItems(req.Items))

	scope, privileged := invoice.WriteScope(caller, true)
	if !scope.Allows(inv) || !invoice.AllowedTargetStatus(inv.Status, privileged) {
		return nil, shared.ErrForbidden
	}

	if err := s.deps.Invoices.Save(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}

	s.log(ctx).Info("invoice created",
		zap.String("invoice_id", inv.ID.String()),
		zap.Int64("invoice_number", inv.InvoiceNumber),
		zap.Bool("is_estimate", inv.IsEstimate))

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// Update changes an invoice the caller may write. Tenant and organization never change.
func (s *InvoiceService) Update(ctx context.Context, caller invoice.Caller, id uuid.UUID, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	inv, privileged, err := s.loadWritable(ctx, caller, id, true)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		status := invoice.Status(*req.Status)
		if !invoice.AllowedTargetStatus(status, privileged) {
			return nil, invoice.ErrStatusNotAllowed
		}
		if err := inv.ChangeStatus(status, s.now()); err != nil {
			return nil, err
		}
	}
	if req.InvoiceNumber != nil {
		inv.InvoiceNumber = *req.InvoiceNumber
	}
	if req.InvoiceDate != nil {
		inv.InvoiceDate = *req.InvoiceDate
	}
	if req.DueDate != nil {
		inv.DueDate = *req.DueDate
	}
	if req.ToContactID != nil {
		inv.ToContactID = req.ToContactID
	}
	if req.Currency != nil {
		inv.Currency = *req.Currency
	}
	if req.DiscountValue != nil {
		inv.DiscountValue = *req.DiscountValue
	}
	if req.DiscountType != nil {
		inv.DiscountType = invoice.DiscountType(*req.DiscountType)
	}
	if req.Tax != nil {
		inv.Tax = *req.Tax
	}
	if req.TaxType != nil {
		inv.TaxType = invoice.DiscountType(*req.TaxType)
	}
	if req.TotalValue != nil {
		inv.TotalValue = *req.TotalValue
	}
	if req.AlreadyPaid != nil {
		inv.AlreadyPaid = *req.AlreadyPaid
	}
	if req.Terms != nil {
		inv.Terms = *req.Terms
	}
	if req.Tags != nil {
		inv.Tags = invoice.NormalizeTags(req.Tags)
	}
	if req.Items != nil {
		inv.SetItems(toItems(req.Items))
	} else {
		inv.Recalculate()
	}
	inv.Touch(s.now())

	if err := s.deps.Invoices.Save(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// UpdateAction changes only the status. Non-privileged callers may move an
// invoice into DRAFT or SENT only.
func (s *InvoiceService) UpdateAction(ctx context.Context, caller invoice.Caller, id uuid.UUID, req UpdateActionRequest) (*InvoiceResponse, error) {
	inv, privileged, err := s.loadWritable(ctx, caller, id, true)
	if err != nil {
		return nil, err
	}

	status := invoice.Status(req.Status)
	if !invoice.AllowedTargetStatus(status, privileged) {
		return nil, invoice.ErrStatusNotAllowed
	}
	if err := inv.ChangeStatus(status, s.now()); err != nil {
		return nil, err
	}
	if err := s.deps.Invoices.Save(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}

	s.log(ctx).Info("invoice status changed",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("status", string(status)))

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// Delete removes an invoice the caller may write, regardless of its status
func (s *InvoiceService) Delete(ctx context.Context, caller invoice.Caller, id uuid.UUID) error {
	if err := invoice.CheckPermission(caller, editPermissions...); err != nil {
		return err
	}
	scope, _ := invoice.WriteScope(caller, false)
	if scope.IsEmpty() {
		return invoice.ErrInvalidInvoice
	}

	exists, err := s.deps.Invoices.Exists(ctx, caller.TenantID, caller.OrganizationID, id, scope)
	if err != nil {
		return fmt.Errorf("failed to check invoice: %w", err)
	}
	if !exists {
		return invoice.ErrInvalidInvoice
	}

	if err := s.deps.Invoices.Delete(ctx, caller.TenantID, caller.OrganizationID, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return invoice.ErrInvalidInvoice
		}
		return fmt.Errorf("failed to delete invoice: %w", err)
	}

	s.log(ctx).Info("invoice deleted", zap.String("invoice_id", id.String()))
	return nil
}
