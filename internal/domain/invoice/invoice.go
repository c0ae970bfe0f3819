package invoice

import (
	"strings"
	"time"

	"github.com/ever-co/invoicing/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of an invoice or estimate
type Status string

const (
	StatusDraft         Status = "DRAFT"
	StatusSent          Status = "SENT"
	StatusViewed        Status = "VIEWED"
	StatusAccepted      Status = "ACCEPTED"
	StatusRejected      Status = "REJECTED"
	StatusVoid          Status = "VOID"
	StatusFullyPaid     Status = "FULLY_PAID"
	StatusPartiallyPaid Status = "PARTIALLY_PAID"
	StatusOverpaid      Status = "OVERPAID"
)

// AllStatuses returns every known status
func AllStatuses() []Status {
	return []Status{
		StatusDraft, StatusSent, StatusViewed, StatusAccepted, StatusRejected,
		StatusVoid, StatusFullyPaid, StatusPartiallyPaid, StatusOverpaid,
	}
}

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	for _, known := range AllStatuses() {
		if s == known {
			return true
		}
	}
	return false
}

// EditableStatuses are the statuses a non-privileged caller may still modify.
// They double as the statuses such a caller may move an invoice into.
func EditableStatuses() []Status {
	return []Status{StatusDraft, StatusSent}
}

// IsEditable reports whether s is in EditableStatuses
func (s Status) IsEditable() bool {
	return s == StatusDraft || s == StatusSent
}

// DiscountType describes how a discount or tax value is applied
type DiscountType string

const (
	DiscountPercent DiscountType = "PERCENT"
	DiscountFlat    DiscountType = "FLAT_VALUE"
)

// IsValid reports whether t is a known discount type
func (t DiscountType) IsValid() bool {
	return t == DiscountPercent || t == DiscountFlat
}

// Item is a single line of an invoice
type Item struct {
	ID          uuid.UUID
	InvoiceID   uuid.UUID
	Description string
	Quantity    decimal.Decimal
	Price       decimal.Decimal
	TotalValue  decimal.Decimal
}

// LineTotal returns quantity * price
func (i Item) LineTotal() decimal.Decimal {
	return i.Quantity.Mul(i.Price)
}

// Invoice is an invoice or estimate owned by one tenant and organization.
// FromUserID nil means the invoice is authored by the organization itself.
type Invoice struct {
	shared.BaseEntity
	TenantID       uuid.UUID
	OrganizationID uuid.UUID
	FromUserID     *uuid.UUID
	ToContactID    *uuid.UUID
	IsEstimate     bool
	Status         Status
	InvoiceNumber  int64
	InvoiceDate    time.Time
	DueDate        time.Time
	Currency       string
	DiscountValue  decimal.Decimal
	DiscountType   DiscountType
	Tax            decimal.Decimal
	TaxType        DiscountType
	TotalValue     decimal.Decimal
	AlreadyPaid    decimal.Decimal
	AmountDue      decimal.Decimal
	Paid           bool
	Terms          string
	Tags           []string
	Token          *string
	Items          []Item
}

// NewInvoice creates an invoice bound to a tenant and organization, dated now
func NewInvoice(tenantID, organizationID uuid.UUID, number int64, now time.Time) (*Invoice, error) {
	if tenantID == uuid.Nil || organizationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Tenant and organization are required")
	}
	if number < 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invoice number cannot be negative")
	}
	return &Invoice{
		BaseEntity:     shared.NewBaseEntityAt(now),
		TenantID:       tenantID,
		OrganizationID: organizationID,
		Status:         StatusDraft,
		InvoiceNumber:  number,
		InvoiceDate:    now,
		DueDate:        now,
		DiscountType:   DiscountPercent,
		TaxType:        DiscountPercent,
	}, nil
}

// SetItems replaces the line items and recalculates totals
func (inv *Invoice) SetItems(items []Item) {
	inv.Items = make([]Item, 0, len(items))
	for _, item := range items {
		item.InvoiceID = inv.ID
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.TotalValue = item.LineTotal()
		inv.Items = append(inv.Items, item)
	}
	inv.Recalculate()
}

// Subtotal is the sum of all item totals before discount and tax
func (inv *Invoice) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range inv.Items {
		sum = sum.Add(item.TotalValue)
	}
	return sum
}

// Recalculate derives TotalValue and AmountDue from the items, discount and tax.
// Invoices without items keep their explicit TotalValue.
func (inv *Invoice) Recalculate() {
	if len(inv.Items) > 0 {
		subtotal := inv.Subtotal()
		discounted := subtotal.Sub(applyRate(subtotal, inv.DiscountValue, inv.DiscountType))
		inv.TotalValue = discounted.Add(applyRate(discounted, inv.Tax, inv.TaxType)).Round(2)
	}
	inv.AmountDue = inv.TotalValue.Sub(inv.AlreadyPaid)
	if inv.AmountDue.IsNegative() {
		inv.AmountDue = decimal.Zero
	}
}

func applyRate(base, value decimal.Decimal, kind DiscountType) decimal.Decimal {
	if value.IsZero() {
		return decimal.Zero
	}
	if kind == DiscountFlat {
		return value
	}
	return base.Mul(value).Div(decimal.NewFromInt(100))
}

// ChangeStatus moves the invoice to a new status
func (inv *Invoice) ChangeStatus(status Status, at time.Time) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "Unknown invoice status: "+string(status))
	}
	inv.Status = status
	inv.Paid = status == StatusFullyPaid || status == StatusOverpaid
	inv.Touch(at)
	return nil
}

// Accept marks an estimate as accepted. When convert is set the estimate
// becomes a regular draft invoice instead.
func (inv *Invoice) Accept(convert bool, at time.Time) error {
	if !inv.IsEstimate {
		return shared.NewDomainError("INVALID_STATE", "Only estimates can be accepted")
	}
	if convert {
		inv.IsEstimate = false
		inv.Status = StatusDraft
	} else {
		inv.Status = StatusAccepted
	}
	inv.Touch(at)
	return nil
}

// Reject marks an estimate as rejected
func (inv *Invoice) Reject(at time.Time) error {
	if !inv.IsEstimate {
		return shared.NewDomainError("INVALID_STATE", "Only estimates can be rejected")
	}
	inv.Status = StatusRejected
	inv.Touch(at)
	return nil
}

// IsOverdue reports whether the due date passed before at without full payment
func (inv *Invoice) IsOverdue(at time.Time) bool {
	return !inv.Paid && at.After(inv.DueDate)
}

// DocumentKind returns "Estimate" or "Invoice"
func (inv *Invoice) DocumentKind() string {
	if inv.IsEstimate {
		return "Estimate"
	}
	return "Invoice"
}

// NormalizeTags trims and de-duplicates tags
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
