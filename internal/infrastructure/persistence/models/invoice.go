package models

import (
	"sort"
	"time"

	"github.com/ever-co/invoicing/internal/domain/invoice"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for invoices and estimates
type InvoiceModel struct {
	OrganizationScopedModel
	FromUserID    *uuid.UUID           `gorm:"type:uuid;index"`
	ToContactID   *uuid.UUID           `gorm:"type:uuid;index"`
	IsEstimate    bool                 `gorm:"not null;default:false;index"`
	Status        invoice.Status       `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	InvoiceNumber int64                `gorm:"not null;index"`
	InvoiceDate   time.Time            `gorm:"not null"`
	DueDate       time.Time            `gorm:"not null"`
	Currency      string               `gorm:"type:varchar(3)"`
	DiscountValue decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountType  invoice.DiscountType `gorm:"type:varchar(20);not null;default:'PERCENT'"`
	Tax           decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	TaxType       invoice.DiscountType `gorm:"type:varchar(20);not null;default:'PERCENT'"`
	TotalValue    decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	AlreadyPaid   decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	AmountDue     decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	Paid          bool                 `gorm:"not null;default:false"`
	Terms         string               `gorm:"type:text"`
	Token         *string              `gorm:"type:text"`
	Items         []InvoiceItemModel   `gorm:"foreignKey:InvoiceID;references:ID"`
	Tags          []InvoiceTagModel    `gorm:"foreignKey:InvoiceID;references:ID"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice
func (m *InvoiceModel) ToDomain() *invoice.Invoice {
	inv := &invoice.Invoice{
		BaseEntity:     m.BaseModel.ToDomain(),
		TenantID:       m.TenantID,
		OrganizationID: m.OrganizationID,
		FromUserID:     m.FromUserID,
		ToContactID:    m.ToContactID,
		IsEstimate:     m.IsEstimate,
		Status:         m.Status,
		InvoiceNumber:  m.InvoiceNumber,
		InvoiceDate:    m.InvoiceDate,
		DueDate:        m.DueDate,
		Currency:       m.Currency,
		DiscountValue:  m.DiscountValue,
		DiscountType:   m.DiscountType,
		Tax:            m.Tax,
		TaxType:        m.TaxType,
		TotalValue:     m.TotalValue,
		AlreadyPaid:    m.AlreadyPaid,
		AmountDue:      m.AmountDue,
		Paid:           m.Paid,
		Terms:          m.Terms,
		Token:          m.Token,
	}

	items := make([]InvoiceItemModel, len(m.Items))
	copy(items, m.Items)
	sort.SliceStable(items, func(i, j int) bool { return items[i].Position < items[j].Position })
	inv.Items = make([]invoice.Item, 0, len(items))
	for i := range items {
		inv.Items = append(inv.Items, items[i].ToDomain())
	}

	inv.Tags = make([]string, 0, len(m.Tags))
	for _, tag := range m.Tags {
		inv.Tags = append(inv.Tags, tag.Tag)
	}
	sort.Strings(inv.Tags)
	return inv
}

// FromDomain populates the persistence model from a domain Invoice
func (m *InvoiceModel) FromDomain(inv *invoice.Invoice) {
	m.FromDomainBaseEntity(inv.BaseEntity)
	m.TenantID = inv.TenantID
	m.OrganizationID = inv.OrganizationID
	m.FromUserID = inv.FromUserID
	m.ToContactID = inv.ToContactID
	m.IsEstimate = inv.IsEstimate
	m.Status = inv.Status
	m.InvoiceNumber = inv.InvoiceNumber
	m.InvoiceDate = inv.InvoiceDate
	m.DueDate = inv.DueDate
	m.Currency = inv.Currency
	m.DiscountValue = inv.DiscountValue
	m.DiscountType = inv.DiscountType
	m.Tax = inv.Tax
	m.TaxType = inv.TaxType
	m.TotalValue = inv.TotalValue
	m.AlreadyPaid = inv.AlreadyPaid
	m.AmountDue = inv.AmountDue
	m.Paid = inv.Paid
	m.Terms = inv.Terms
	m.Token = inv.Token

	m.Items = make([]InvoiceItemModel, 0, len(inv.Items))
	for i, item := range inv.Items {
		im := InvoiceItemModelFromDomain(item)
		im.InvoiceID = inv.ID
		im.Position = i
		m.Items = append(m.Items, *im)
	}

	m.Tags = make([]InvoiceTagModel, 0, len(inv.Tags))
	for _, tag := range invoice.NormalizeTags(inv.Tags) {
		m.Tags = append(m.Tags, InvoiceTagModel{InvoiceID: inv.ID, Tag: tag})
	}
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice
func InvoiceModelFromDomain(inv *invoice.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}

// InvoiceItemModel is a single invoice line
type InvoiceItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position    int             `gorm:"not null;default:0"`
	Description string          `gorm:"type:text"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Price       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalValue  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (InvoiceItemModel) TableName() string {
	return "invoice_items"
}

// ToDomain converts the persistence model to a domain Item
func (m *InvoiceItemModel) ToDomain() invoice.Item {
	return invoice.Item{
		ID:          m.ID,
		InvoiceID:   m.InvoiceID,
		Description: m.Description,
		Quantity:    m.Quantity,
		Price:       m.Price,
		TotalValue:  m.TotalValue,
	}
}

// InvoiceItemModelFromDomain creates a persistence model from a domain Item
func InvoiceItemModelFromDomain(item invoice.Item) *InvoiceItemModel {
	id := item.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	return &InvoiceItemModel{
		ID:          id,
		InvoiceID:   item.InvoiceID,
		Description: item.Description,
		Quantity:    item.Quantity,
		Price:       item.Price,
		TotalValue:  item.TotalValue,
	}
}

// InvoiceTagModel attaches a free-form tag to an invoice
type InvoiceTagModel struct {
	InvoiceID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Tag       string    `gorm:"type:varchar(100);primaryKey"`
}

// TableName returns the table name for GORM
func (InvoiceTagModel) TableName() string {
	return "invoice_tags"
}
