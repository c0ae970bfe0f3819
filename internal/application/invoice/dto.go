package invoice

import (
	"time"

	"github.com/ever-co/invoicing/internal/domain/invoice"
	"github.com/ever-co/invoicing/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Requests
// =============================================================================

// ItemRequest is one invoice line in create and update requests
type ItemRequest struct {
	Description string          `json:"description" binding:"max=500"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// CreateInvoiceRequest represents a request to create an invoice or estimate
type CreateInvoiceRequest struct {
	InvoiceNumber *int64           `json:"invoice_number" binding:"omitempty,min=1"`
	InvoiceDate   *time.Time       `json:"invoice_date"`
	DueDate       *time.Time       `json:"due_date"`
	FromUserID    *uuid.UUID       `json:"from_user_id"`
	ToContactID   *uuid.UUID       `json:"to_contact_id"`
	IsEstimate    bool             `json:"is_estimate"`
	Status        string           `json:"status" binding:"omitempty,invoice_status"`
	Currency      string           `json:"currency" binding:"omitempty,len=3"`
	DiscountValue decimal.Decimal  `json:"discount_value"`
	DiscountType  string           `json:"discount_type" binding:"omitempty,discount_type"`
	Tax           decimal.Decimal  `json:"tax"`
	TaxType       string           `json:"tax_type" binding:"omitempty,discount_type"`
	TotalValue    *decimal.Decimal `json:"total_value"`
	AlreadyPaid   decimal.Decimal  `json:"already_paid"`
	Terms         string           `json:"terms" binding:"max=2000"`
	Tags          []string         `json:"tags" binding:"max=20,dive,max=50"`
	Items         []ItemRequest    `json:"items" binding:"dive"`
}

// UpdateInvoiceRequest represents a partial update; nil fields are left unchanged.
// Tenant and organization cannot be changed.
type UpdateInvoiceRequest struct {
	InvoiceNumber *int64           `json:"invoice_number" binding:"omitempty,min=1"`
	InvoiceDate   *time.Time       `json:"invoice_date"`
	DueDate       *time.Time       `json:"due_date"`
	ToContactID   *uuid.UUID       `json:"to_contact_id"`
	Status        *string          `json:"status" binding:"omitempty,invoice_status"`
	Currency      *string          `json:"currency" binding:"omitempty,len=3"`
	DiscountValue *decimal.Decimal `json:"discount_value"`
	DiscountType  *string          `json:"discount_type" binding:"omitempty,discount_type"`
	Tax           *decimal.Decimal `json:"tax"`
	TaxType       *string          `json:"tax_type" binding:"omitempty,discount_type"`
	TotalValue    *decimal.Decimal `json:"total_value"`
	AlreadyPaid   *decimal.Decimal `json:"already_paid"`
	Terms         *string          `json:"terms" binding:"omitempty,max=2000"`
	Tags          []string         `json:"tags" binding:"omitempty,max=20,dive,max=50"`
	Items         []ItemRequest    `json:"items" binding:"omitempty,dive"`
}

// UpdateActionRequest changes only the status of an invoice
type UpdateActionRequest struct {
	Status string `json:"status" binding:"required,invoice_status"`
}

// DateRangeRequest is a date filter. Unless both bounds are given the range is
// the current month. A date-only End covers that whole day.
type DateRangeRequest struct {
	Start *time.Time
	End   *time.Time
}

// ListInvoicesRequest holds list criteria
type ListInvoicesRequest struct {
	Page         int
	PageSize     int
	OrderBy      string
	OrderDir     string
	Search       string
	Tags         []string
	ToContactIDs []uuid.UUID
	IsEstimate   *bool
	Statuses     []string
	InvoiceDate  *DateRangeRequest
	DueDate      *DateRangeRequest
}

// ToFilter converts the request into a repository filter relative to now
func (r ListInvoicesRequest) ToFilter(now time.Time) invoice.ListFilter {
	filter := invoice.ListFilter{
		Filter: shared.Filter{
			Page:     r.Page,
			PageSize: r.PageSize,
			OrderBy:  r.OrderBy,
			OrderDir: r.OrderDir,
			Search:   r.Search,
		},
		Tags:         r.Tags,
		ToContactIDs: r.ToContactIDs,
		IsEstimate:   r.IsEstimate,
		InvoiceDate:  r.InvoiceDate.resolve(now),
		DueDate:      r.DueDate.resolve(now),
	}
	for _, s := range r.Statuses {
		filter.Statuses = append(filter.Statuses, invoice.Status(s))
	}
	return filter
}

func (r *DateRangeRequest) resolve(now time.Time) *invoice.DateRange {
	if r == nil {
		return nil
	}
	if r.Start == nil || r.End == nil {
		month := invoice.CurrentMonth(now)
		return &month
	}
	end := *r.End
	if end.Equal(startOfDay(end)) {
		end = startOfDay(end).AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &invoice.DateRange{Start: *r.Start, End: end}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SendEmailRequest mails an invoice or estimate to one recipient
type SendEmailRequest struct {
	Email      string    `json:"-"`
	InvoiceID  uuid.UUID `json:"invoice_id" binding:"required"`
	IsEstimate bool      `json:"is_estimate"`
	Origin     string    `json:"-"`
	Locale     string    `json:"-"`
}

// =============================================================================
// Responses
// =============================================================================

// ItemResponse represents an invoice line in API responses
type ItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	TotalValue  decimal.Decimal `json:"total_value"`
}

// InvoiceResponse represents an invoice or estimate in API responses
type InvoiceResponse struct {
	ID             uuid.UUID       `json:"id"`
	TenantID       uuid.UUID       `json:"tenant_id"`
	OrganizationID uuid.UUID       `json:"organization_id"`
	FromUserID     *uuid.UUID      `json:"from_user_id,omitempty"`
	ToContactID    *uuid.UUID      `json:"to_contact_id,omitempty"`
	IsEstimate     bool            `json:"is_estimate"`
	Status         string          `json:"status"`
	InvoiceNumber  int64           `json:"invoice_number"`
	InvoiceDate    time.Time       `json:"invoice_date"`
	DueDate        time.Time       `json:"due_date"`
	Currency       string          `json:"currency"`
	DiscountValue  decimal.Decimal `json:"discount_value"`
	DiscountType   string          `json:"discount_type"`
	Tax            decimal.Decimal `json:"tax"`
	TaxType        string          `json:"tax_type"`
	TotalValue     decimal.Decimal `json:"total_value"`
	AlreadyPaid    decimal.Decimal `json:"already_paid"`
	AmountDue      decimal.Decimal `json:"amount_due"`
	Paid           bool            `json:"paid"`
	Terms          string          `json:"terms"`
	Tags           []string        `json:"tags"`
	Token          *string         `json:"token,omitempty"`
	Items          []ItemResponse  `json:"items"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ListInvoicesResponse is one page of invoices
type ListInvoicesResponse struct {
	Items []InvoiceResponse `json:"items"`
	Total int64             `json:"total"`
}

// StatsResponse aggregates non-estimate invoices
type StatsResponse struct {
	Count      int64           `json:"count"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// HighestNumberResponse carries the largest invoice number in use
type HighestNumberResponse struct {
	InvoiceNumber int64 `json:"invoice_number"`
}

// PDFResponse is a rendered document ready for download
type PDFResponse struct {
	Filename string
	Content  []byte
}

// ToInvoiceResponse converts a domain invoice into its API representation
func ToInvoiceResponse(inv *invoice.Invoice) InvoiceResponse {
	items := make([]ItemResponse, len(inv.Items))
	for i, item := range inv.Items {
		items[i] = ItemResponse{
			ID:          item.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			Price:       item.Price,
			TotalValue:  item.TotalValue,
		}
	}
	tags := inv.Tags
	if tags == nil {
		tags = []string{}
	}
	return InvoiceResponse{
		ID:             inv.ID,
		TenantID:       inv.TenantID,
		OrganizationID: inv.OrganizationID,
		FromUserID:     inv.FromUserID,
		ToContactID:    inv.ToContactID,
		IsEstimate:     inv.IsEstimate,
		Status:         string(inv.Status),
		InvoiceNumber:  inv.InvoiceNumber,
		InvoiceDate:    inv.InvoiceDate,
		DueDate:        inv.DueDate,
		Currency:       inv.Currency,
		DiscountValue:  inv.DiscountValue,
		DiscountType:   string(inv.DiscountType),
		Tax:            inv.Tax,
		TaxType:        string(inv.TaxType),
		TotalValue:     inv.TotalValue,
		AlreadyPaid:    inv.AlreadyPaid,
		AmountDue:      inv.AmountDue,
		Paid:           inv.Paid,
		Terms:          inv.Terms,
		Tags:           tags,
		Token:          inv.Token,
		Items:          items,
		CreatedAt:      inv.CreatedAt,
		UpdatedAt:      inv.UpdatedAt,
	}
}

func toItems(reqs []ItemRequest) []invoice.Item {
	items := make([]invoice.Item, len(reqs))
	for i, r := range reqs {
		items[i] = invoice.Item{
			Description: r.Description,
			Quantity:    r.Quantity,
			Price:       r.Price,
		}
	}
	return items
}
