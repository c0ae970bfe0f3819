package models

import (
	"time"

	"github.com/ever-co/invoicing/internal/domain/invoice"
	"github.com/google/uuid"
)

// EstimateEmailModel is the persisted capability record behind a mailed estimate link
type EstimateEmailModel struct {
	OrganizationScopedModel
	InvoiceID                uuid.UUID `gorm:"type:uuid;not null;index"`
	Email                    string    `gorm:"type:varchar(255);not null;index"`
	Token                    string    `gorm:"type:text;not null"`
	ExpireDate               time.Time `gorm:"not null;index"`
	ConvertAcceptedEstimates bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (EstimateEmailModel) TableName() string {
	return "estimate_emails"
}

// ToDomain converts the persistence model to a domain EstimateEmail
func (m *EstimateEmailModel) ToDomain() *invoice.EstimateEmail {
	return &invoice.EstimateEmail{
		BaseEntity:               m.BaseModel.ToDomain(),
		TenantID:                 m.TenantID,
		OrganizationID:           m.OrganizationID,
		InvoiceID:                m.InvoiceID,
		Email:                    m.Email,
		Token:                    m.Token,
		ExpireDate:               m.ExpireDate,
		ConvertAcceptedEstimates: m.ConvertAcceptedEstimates,
	}
}

// EstimateEmailModelFromDomain creates a persistence model from a domain EstimateEmail
func EstimateEmailModelFromDomain(e *invoice.EstimateEmail) *EstimateEmailModel {
	m := &EstimateEmailModel{
		InvoiceID:                e.InvoiceID,
		Email:                    e.Email,
		Token:                    e.Token,
		ExpireDate:               e.ExpireDate,
		ConvertAcceptedEstimates: e.ConvertAcceptedEstimates,
	}
	m.FromDomainBaseEntity(e.BaseEntity)
	m.TenantID = e.TenantID
	m.OrganizationID = e.OrganizationID
	return m
}
