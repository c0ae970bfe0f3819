package invoice

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/ever-co/invoicing/internal/domain/invoice"
	"github.com/ever-co/invoicing/internal/domain/shared"
	"github.com/ever-co/invoicing/internal/infrastructure/auth"
	"github.com/ever-co/invoicing/internal/infrastructure/mail"
	"github.com/ever-co/invoicing/internal/infrastructure/printing"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// =============================================================================
// PDF downloads
// =============================================================================

// DownloadInvoicePDF renders an invoice or estimate the caller may read
func (s *InvoiceService) DownloadInvoicePDF(ctx context.Context, caller invoice.Caller, id uuid.UUID, locale string) (*PDFResponse, error) {
	inv, err := s.loadReadable(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	content, err := s.renderInvoice(ctx, inv, locale)
	if err != nil {
		return nil, err
	}
	return &PDFResponse{Filename: attachmentName(inv), Content: content}, nil
}

// DownloadPaymentPDF renders the payment receipt of an invoice the caller may read
func (s *InvoiceService) DownloadPaymentPDF(ctx context.Context, caller invoice.Caller, id uuid.UUID, locale string) (*PDFResponse, error) {
	inv, err := s.loadReadable(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	in, err := s.documentInput(ctx, inv, locale)
	if err != nil {
		return nil, err
	}
	in.payments, err = s.deps.Payments.ListByInvoice(ctx, inv.TenantID, inv.OrganizationID, inv.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}

	content, err := s.render(ctx, s.builder.paymentDocument(in))
	if err != nil {
		return nil, err
	}
	return &PDFResponse{
		Filename: "Payments-" + strconv.FormatInt(inv.InvoiceNumber, 10) + ".pdf",
		Content:  content,
	}, nil
}

func (s *InvoiceService) renderInvoice(ctx context.Context, inv *invoice.Invoice, locale string) ([]byte, error) {
	in, err := s.documentInput(ctx, inv, locale)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, s.builder.invoiceDocument(in))
}

// documentInput loads the organization and recipient shown on a document.
// A recipient that no longer exists is left out.
func (s *InvoiceService) documentInput(ctx context.Context, inv *invoice.Invoice, locale string) (documentInput, error) {
	in := documentInput{
		invoice: inv,
		tag:     s.deps.Labels.Match(locale),
		now:     s.now(),
	}

	org, err := s.deps.Organizations.FindByID(ctx, inv.TenantID, inv.OrganizationID)
	if err != nil {
		return in, fmt.Errorf("failed to load organization: %w", err)
	}
	in.org = org
	if inv.Currency == "" {
		inv.Currency = org.Currency
	}

	if inv.ToContactID != nil {
		contact, err := s.deps.Contacts.FindByID(ctx, inv.TenantID, inv.OrganizationID, *inv.ToContactID)
		switch {
		case err == nil:
			in.contact = contact
		case errors.Is(err, shared.ErrNotFound):
			s.log(ctx).Warn("invoice recipient not found", zap.String("contact_id", inv.ToContactID.String()))
		default:
			return in, fmt.Errorf("failed to load contact: %w", err)
		}
	}
	return in, nil
}

// render maps every renderer failure to ErrPdfGenerationFailed
func (s *InvoiceService) render(ctx context.Context, doc *printing.Document) ([]byte, error) {
	content, err := s.deps.Renderer.Render(ctx, doc, uuid.New().String())
	if err != nil {
		fields := []zap.Field{zap.Error(err)}
		var renderErr *printing.RenderError
		if errors.As(err, &renderErr) {
			fields = append(fields, zap.String("stage", renderErr.Stage))
		}
		s.log(ctx).Error("document rendering failed", fields...)
		return nil, invoice.ErrPdfGenerationFailed
	}
	return content, nil
}

func attachmentName(inv *invoice.Invoice) string {
	return inv.DocumentKind() + "-" + strconv.FormatInt(inv.InvoiceNumber, 10) + ".pdf"
}

// =============================================================================
// Mail
// =============================================================================

// SendEmail issues an estimate token for the recipient and mails the rendered
// document with accept and reject links. Once the token record is stored, later
// failures are logged and not returned; an EmailRecord is written for every attempt.
func (s *InvoiceService) SendEmail(ctx context.Context, caller invoice.Caller, req SendEmailRequest) error {
	inv, err := s.loadReadable(ctx, caller, req.InvoiceID)
	if err != nil {
		return err
	}

	record, err := s.deps.Estimates.CreateEstimateEmail(ctx, caller, inv.ID, req.Email)
	if err != nil {
		return err
	}

	log := s.log(ctx).With(
		zap.String("invoice_id", inv.ID.String()),
		zap.Int64("invoice_number", inv.InvoiceNumber))

	template := invoice.TemplateInvoice
	if req.IsEstimate {
		template = invoice.TemplateEstimate
	}
	status := s.deliver(ctx, log, inv, record, template, req)

	if err := s.deps.EmailRecords.Create(ctx, &invoice.EmailRecord{
		ID:             uuid.New(),
		TenantID:       inv.TenantID,
		OrganizationID: inv.OrganizationID,
		InvoiceID:      inv.ID,
		Template:       template,
		Email:          record.Email,
		Status:         status,
		CreatedAt:      s.now(),
	}); err != nil {
		log.Error("failed to write email record", zap.Error(err))
	}
	return nil
}

// deliver renders and sends the message and reports the outcome
func (s *InvoiceService) deliver(ctx context.Context, log *zap.Logger, inv *invoice.Invoice, record *invoice.EstimateEmail, template invoice.EmailTemplate, req SendEmailRequest) invoice.EmailStatus {
	if mail.IsBlocked(record.Email, s.cfg.BlockedDomains) {
		log.Info("recipient domain blocked, mail skipped")
		return invoice.EmailSkipped
	}

	content, err := s.renderInvoice(ctx, inv, req.Locale)
	if err != nil {
		log.Error("failed to render mailed document", zap.Error(err))
		return invoice.EmailFailed
	}

	msg := s.composeMessage(inv, record, template, req, content)
	if err := s.deps.Transport.Send(ctx, msg); err != nil {
		log.Error("failed to send invoice mail", zap.String("transport", s.deps.Transport.Name()), zap.Error(err))
		return invoice.EmailFailed
	}

	log.Info("invoice mail sent", zap.String("template", string(template)))
	return invoice.EmailSent
}

func (s *InvoiceService) composeMessage(inv *invoice.Invoice, record *invoice.EstimateEmail, template invoice.EmailTemplate, req SendEmailRequest, content []byte) *mail.Message {
	baseURL := req.Origin
	if baseURL == "" {
		baseURL = s.cfg.ClientBaseURL
	}

	kind := "Invoice"
	if req.IsEstimate {
		kind = "Estimate"
	}
	number := strconv.FormatInt(inv.InvoiceNumber, 10)

	return &mail.Message{
		ID:       uuid.New(),
		TenantID: inv.TenantID,
		From:     s.cfg.MailFrom,
		To:       record.Email,
		Subject:  kind + " #" + number,
		Template: string(template),
		Locale:   s.deps.Labels.Match(req.Locale).String(),
		Variables: map[string]string{
			"tenantId":       inv.TenantID.String(),
			"organizationId": inv.OrganizationID.String(),
			"host":           baseURL,
			"acceptUrl":      estimateLink(baseURL, record.Token, inv.ID, "accept", record.Email),
			"rejectUrl":      estimateLink(baseURL, record.Token, inv.ID, "reject", record.Email),
		},
		Attachments: []mail.Attachment{{
			Filename:    kind + "-" + number + ".pdf",
			ContentType: "application/pdf",
			Content:     base64.StdEncoding.EncodeToString(content),
		}},
		CreatedAt: s.now(),
	}
}

// estimateLink builds the client route that redeems an estimate token
func estimateLink(baseURL, token string, invoiceID uuid.UUID, action, email string) string {
	return baseURL + "#/auth/estimate/?token=" + url.QueryEscape(token) +
		"&id=" + invoiceID.String() +
		"&action=" + action +
		"&email=" + url.QueryEscape(email)
}

// =============================================================================
// Public links
// =============================================================================

// GenerateLink signs a non-expiring public link for an invoice the caller may
// read and stores it on the invoice
func (s *InvoiceService) GenerateLink(ctx context.Context, caller invoice.Caller, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.loadReadable(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	token, err := s.deps.Links.SignInvoiceLink(auth.InvoiceLinkPayload{
		ID:             inv.ID.String(),
		OrganizationID: inv.OrganizationID.String(),
		TenantID:       inv.TenantID.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sign invoice link: %w", err)
	}
	if err := s.deps.Invoices.UpdateToken(ctx, inv.TenantID, inv.OrganizationID, inv.ID, token); err != nil {
		return nil, fmt.Errorf("failed to save invoice link: %w", err)
	}
	inv.Token = &token

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// ViewPublic returns an invoice to an unauthenticated holder of its public link.
// The token must verify and equal the one stored on the invoice.
func (s *InvoiceService) ViewPublic(ctx context.Context, id uuid.UUID, token string) (*InvoiceResponse, error) {
	payload, err := s.deps.Links.VerifyInvoiceLink(token)
	if err != nil || payload.ID != id.String() {
		return nil, invoice.ErrInvalidToken
	}
	tenantID, err := uuid.Parse(payload.TenantID)
	if err != nil {
		return nil, invoice.ErrInvalidToken
	}
	orgID, err := uuid.Parse(payload.OrganizationID)
	if err != nil {
		return nil, invoice.ErrInvalidToken
	}

	inv, err := s.deps.Invoices.FindByID(ctx, tenantID, orgID, id, invoice.Scope{Unrestricted: true})
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, invoice.ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to load invoice: %w", err)
	}
	if inv.Token == nil || *inv.Token != token {
		return nil, invoice.ErrInvalidToken
	}

	response := ToInvoiceResponse(inv)
	response.Token = nil
	return &response, nil
}
