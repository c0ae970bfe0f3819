package invoice

import (
	"context"
	"time"

	"github.com/ever-co/invoicing/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateRange is an inclusive date interval
type DateRange struct {
	Start time.Time
	End   time.Time
}

// CurrentMonth returns the range covering the month of t
func CurrentMonth(t time.Time) DateRange {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return DateRange{Start: start, End: end}
}

// ListFilter holds caller-supplied list criteria. It is always combined with,
// never substituted for, the caller's Scope.
type ListFilter struct {
	shared.Filter
	Tags         []string
	ToContactIDs []uuid.UUID
	IsEstimate   *bool
	Statuses     []Status
	InvoiceDate  *DateRange
	DueDate      *DateRange
}

// Stats aggregates non-estimate invoices
type Stats struct {
	Count      int64
	TotalValue decimal.Decimal
}

// Repository persists invoices. Every query is restricted to one tenant and organization.
type Repository interface {
	FindByID(ctx context.Context, tenantID, organizationID, id uuid.UUID, scope Scope) (*Invoice, error)
	Exists(ctx context.Context, tenantID, organizationID, id uuid.UUID, scope Scope) (bool, error)
	List(ctx context.Context, tenantID, organizationID uuid.UUID, scope Scope, filter ListFilter) ([]Invoice, int64, error)
	Save(ctx context.Context, inv *Invoice) error
	Delete(ctx context.Context, tenantID, organizationID, id uuid.UUID) error
	HighestInvoiceNumber(ctx context.Context, tenantID, organizationID uuid.UUID) (int64, error)
	Stats(ctx context.Context, tenantID, organizationID uuid.UUID, scope Scope) (Stats, error)
	UpdateToken(ctx context.Context, tenantID, organizationID, id uuid.UUID, token string) error
}

// EstimateEmailRepository persists capability records
type EstimateEmailRepository interface {
	Create(ctx context.Context, e *EstimateEmail) error
	// FindLive returns the record matching every field of the lookup with
	// ExpireDate after lookup.Now, or shared.ErrNotFound.
	FindLive(ctx context.Context, lookup EstimateEmailLookup) (*EstimateEmail, error)
}

// OrganizationRepository loads organizations
type OrganizationRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Organization, error)
}

// ContactRepository loads invoice recipients
type ContactRepository interface {
	FindByID(ctx context.Context, tenantID, organizationID, id uuid.UUID) (*Contact, error)
}

// PaymentRepository loads payments recorded against invoices
type PaymentRepository interface {
	ListByInvoice(ctx context.Context, tenantID, organizationID, invoiceID uuid.UUID) ([]Payment, error)
}

// EmailRecordRepository stores the audit trail of outgoing mail
type EmailRecordRepository interface {
	Create(ctx context.Context, record *EmailRecord) error
}
