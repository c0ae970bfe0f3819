package invoice

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultInviteExpiryPeriod is used when an organization has no expiry configured
const DefaultInviteExpiryPeriod = 7

// Organization is the read model of the owning organization
type Organization struct {
	ID                       uuid.UUID
	TenantID                 uuid.UUID
	Name                     string
	TenantName               string
	Currency                 string
	ImageURL                 string
	BrandColor               string
	InviteExpiryPeriod       int
	ConvertAcceptedEstimates *bool
}

// ExpiryPeriod returns the configured invite expiry in days
func (o *Organization) ExpiryPeriod() int {
	if o.InviteExpiryPeriod <= 0 {
		return DefaultInviteExpiryPeriod
	}
	return o.InviteExpiryPeriod
}

// ConvertsAcceptedEstimates treats an unset flag as false
func (o *Organization) ConvertsAcceptedEstimates() bool {
	return o.ConvertAcceptedEstimates != nil && *o.ConvertAcceptedEstimates
}

// Contact is the recipient side of an invoice
type Contact struct {
	ID             uuid.UUID
	TenantID       uuid.UUID
	OrganizationID uuid.UUID
	Name           string
	PrimaryEmail   string
}

// Payment is a payment recorded against an invoice
type Payment struct {
	ID             uuid.UUID
	TenantID       uuid.UUID
	OrganizationID uuid.UUID
	InvoiceID      uuid.UUID
	Amount         decimal.Decimal
	Currency       string
	PaymentDate    time.Time
	Note           string
	RecordedByID   *uuid.UUID
	RecordedByName string
}

// IsOverdue reports whether the payment was made after the invoice due date
func (p Payment) IsOverdue(dueDate time.Time) bool {
	return p.PaymentDate.After(dueDate)
}

// EmailStatus is the outcome of a send attempt
type EmailStatus string

const (
	EmailSent    EmailStatus = "SENT"
	EmailSkipped EmailStatus = "SKIPPED"
	EmailFailed  EmailStatus = "FAILED"
)

// EmailTemplate names the template used for an outgoing mail
type EmailTemplate string

const (
	TemplateEstimate EmailTemplate = "EMAIL_ESTIMATE"
	TemplateInvoice  EmailTemplate = "EMAIL_INVOICE"
)

// EmailRecord is the audit entry written for every send attempt
type EmailRecord struct {
	ID             uuid.UUID
	TenantID       uuid.UUID
	OrganizationID uuid.UUID
	InvoiceID      uuid.UUID
	Template       EmailTemplate
	Email          string
	Status         EmailStatus
	CreatedAt      time.Time
}
