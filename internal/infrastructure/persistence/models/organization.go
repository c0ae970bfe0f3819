package models

import (
	"github.com/ever-co/invoicing/internal/domain/invoice"
	"github.com/google/uuid"
)

// TenantModel is the read model of a tenant. Tenants are owned by the identity service.
type TenantModel struct {
	BaseModel
	Name string `gorm:"type:varchar(200);not null"`
}

// TableName returns the table name for GORM
func (TenantModel) TableName() string {
	return "tenants"
}

// OrganizationModel is the read model of an organization
type OrganizationModel struct {
	BaseModel
	TenantID                 uuid.UUID `gorm:"type:uuid;not null;index"`
	Name                     string    `gorm:"type:varchar(200);not null"`
	Currency                 string    `gorm:"type:varchar(3)"`
	ImageURL                 string    `gorm:"type:text"`
	BrandColor               string    `gorm:"type:varchar(20)"`
	InviteExpiryPeriod       int       `gorm:"not null;default:0"`
	ConvertAcceptedEstimates *bool
}

// TableName returns the table name for GORM
func (OrganizationModel) TableName() string {
	return "organizations"
}

// ToDomain converts the persistence model to a domain Organization
func (m *OrganizationModel) ToDomain() *invoice.Organization {
	return &invoice.Organization{
		ID:                       m.ID,
		TenantID:                 m.TenantID,
		Name:                     m.Name,
		Currency:                 m.Currency,
		ImageURL:                 m.ImageURL,
		BrandColor:               m.BrandColor,
		InviteExpiryPeriod:       m.InviteExpiryPeriod,
		ConvertAcceptedEstimates: m.ConvertAcceptedEstimates,
	}
}

// ContactModel is the read model of an invoice recipient
type ContactModel struct {
	OrganizationScopedModel
	Name         string `gorm:"type:varchar(200);not null"`
	PrimaryEmail string `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (ContactModel) TableName() string {
	return "contacts"
}

// ToDomain converts the persistence model to a domain Contact
func (m *ContactModel) ToDomain() *invoice.Contact {
	return &invoice.Contact{
		ID:             m.ID,
		TenantID:       m.TenantID,
		OrganizationID: m.OrganizationID,
		Name:           m.Name,
		PrimaryEmail:   m.PrimaryEmail,
	}
}
