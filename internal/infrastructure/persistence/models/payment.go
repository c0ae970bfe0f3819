package models

import (
	"time"

	"github.com/ever-co/invoicing/internal/domain/invoice"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentModel is a payment recorded against an invoice
type PaymentModel struct {
	OrganizationScopedModel
	InvoiceID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Currency       string          `gorm:"type:varchar(3)"`
	PaymentDate    time.Time       `gorm:"not null"`
	Note           string          `gorm:"type:text"`
	RecordedByID   *uuid.UUID      `gorm:"type:uuid"`
	RecordedByName string          `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment
func (m *PaymentModel) ToDomain() invoice.Payment {
	return invoice.Payment{
		ID:             m.ID,
		TenantID:       m.TenantID,
		OrganizationID: m.OrganizationID,
		InvoiceID:      m.InvoiceID,
		Amount:         m.Amount,
		Currency:       m.Currency,
		PaymentDate:    m.PaymentDate,
		Note:           m.Note,
		RecordedByID:   m.RecordedByID,
		RecordedByName: m.RecordedByName,
	}
}

// EmailRecordModel is the audit entry written for every outgoing invoice mail
type EmailRecordModel struct {
	ID             uuid.UUID             `gorm:"type:uuid;primary_key"`
	TenantID       uuid.UUID             `gorm:"type:uuid;not null;index"`
	OrganizationID uuid.UUID             `gorm:"type:uuid;not null;index"`
	InvoiceID      uuid.UUID             `gorm:"type:uuid;not null;index"`
	Template       invoice.EmailTemplate `gorm:"type:varchar(50);not null"`
	Email          string                `gorm:"type:varchar(255);not null"`
	Status         invoice.EmailStatus   `gorm:"type:varchar(20);not null"`
	CreatedAt      time.Time             `gorm:"not null"`
}

// TableName returns the table name for GORM
func (EmailRecordModel) TableName() string {
	return "email_records"
}

// EmailRecordModelFromDomain creates a persistence model from a domain EmailRecord
func EmailRecordModelFromDomain(r *invoice.EmailRecord) *EmailRecordModel {
	return &EmailRecordModel{
		ID:             r.ID,
		TenantID:       r.TenantID,
		OrganizationID: r.OrganizationID,
		InvoiceID:      r.InvoiceID,
		Template:       r.Template,
		Email:          r.Email,
		Status:         r.Status,
		CreatedAt:      r.CreatedAt,
	}
}

// AllModels lists every model owned by this service, in dependency order.
// Tests use it to auto-migrate an in-memory database.
func AllModels() []any {
	return []any{
		&TenantModel{},
		&OrganizationModel{},
		&ContactModel{},
		&InvoiceModel{},
		&InvoiceItemModel{},
		&InvoiceTagModel{},
		&EstimateEmailModel{},
		&PaymentModel{},
		&EmailRecordModel{},
	}
}
