package persistence

import (
	"context"
	"errors"

	"github.com/ever-co/invoicing/internal/domain/invoice"
	"github.com/ever-co/invoicing/internal/domain/shared"
	"github.com/ever-co/invoicing/internal/infrastructure/persistence/models"
	"github.com/ever-co/invoicing/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrganizationRepository implements invoice.OrganizationRepository using GORM
type GormOrganizationRepository struct {
	db *gorm.DB
}

// NewGormOrganizationRepository creates a new GormOrganizationRepository
func NewGormOrganizationRepository(db *gorm.DB) *GormOrganizationRepository {
	return &GormOrganizationRepository{db: db}
}

// FindByID finds an organization within a tenant, with the tenant's name
func (r *GormOrganizationRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*invoice.Organization, error) {
	var model models.OrganizationModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	org := model.ToDomain()
	var t models.TenantModel
	if err := r.db.WithContext(ctx).Select("name").Where("id = ?", tenantID).Take(&t).Error; err == nil {
		org.TenantName = t.Name
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return org, nil
}

var _ invoice.OrganizationRepository = (*GormOrganizationRepository)(nil)

// GormContactRepository implements invoice.ContactRepository using GORM
type GormContactRepository struct {
	db *gorm.DB
}

// NewGormContactRepository creates a new GormContactRepository
func NewGormContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db}
}

// FindByID finds a contact within an organization
func (r *GormContactRepository) FindByID(ctx context.Context, tenantID, organizationID, id uuid.UUID) (*invoice.Contact, error) {
	var model models.ContactModel
	if err := tenant.ForOrganization(ctx, r.db, tenantID, organizationID).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

var _ invoice.ContactRepository = (*GormContactRepository)(nil)
