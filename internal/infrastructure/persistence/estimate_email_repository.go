package persistence

import (
	"context"
	"errors"
	"slices"

	"github.com/ever-co/invoicing/internal/domain/invoice"
	"github.com/ever-co/invoicing/internal/domain/shared"
	"github.com/ever-co/invoicing/internal/infrastructure/persistence/models"
	"github.com/ever-co/invoicing/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// GormEstimateEmailRepository implements invoice.EstimateEmailRepository using GORM
type GormEstimateEmailRepository struct {
	db *gorm.DB
}

// NewGormEstimateEmailRepository creates a new GormEstimateEmailRepository
func NewGormEstimateEmailRepository(db *gorm.DB) *GormEstimateEmailRepository {
	return &GormEstimateEmailRepository{db: db}
}

// Create stores a new capability record
func (r *GormEstimateEmailRepository) Create(ctx context.Context, e *invoice.EstimateEmail) error {
	return r.db.WithContext(ctx).Create(models.EstimateEmailModelFromDomain(e)).Error
}

// FindLive returns the record matching every field of the lookup that has not expired
func (r *GormEstimateEmailRepository) FindLive(ctx context.Context, lookup invoice.EstimateEmailLookup) (*invoice.EstimateEmail, error) {
	var model models.EstimateEmailModel
	if err := tenant.ForOrganization(ctx, r.db, lookup.TenantID, lookup.OrganizationID).
		Where("email = ? AND token = ? AND expire_date > ?", lookup.Email, lookup.Token, lookup.Now).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	record := model.ToDomain()
	if slices.Contains(lookup.Relations, invoice.RelationOrganization) {
		var org models.OrganizationModel
		err := r.db.WithContext(ctx).
			Select("name").
			Where("tenant_id = ? AND id = ?", record.TenantID, record.OrganizationID).
			Take(&org).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		record.OrganizationName = org.Name
	}
	if slices.Contains(lookup.Relations, invoice.RelationTenant) {
		var t models.TenantModel
		err := r.db.WithContext(ctx).
			Select("name").
			Where("id = ?", record.TenantID).
			Take(&t).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		record.TenantName = t.Name
	}
	return record, nil
}

var _ invoice.EstimateEmailRepository = (*GormEstimateEmailRepository)(nil)
