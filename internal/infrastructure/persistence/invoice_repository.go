package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ever-co/invoicing/internal/domain/invoice"
	"github.com/ever-co/invoicing/internal/domain/shared"
	"github.com/ever-co/invoicing/internal/infrastructure/persistence/invoicescope"
	"github.com/ever-co/invoicing/internal/infrastructure/persistence/models"
	"github.com/ever-co/invoicing/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInvoiceRepository implements invoice.Repository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

func (r *GormInvoiceRepository) scoped(ctx context.Context, tenantID, organizationID uuid.UUID, scope invoice.Scope) *gorm.DB {
	return tenant.ForOrganization(ctx, r.db, tenantID, organizationID).
		Model(&models.InvoiceModel{}).
		Scopes(invoicescope.Scope(scope))
}

func preloadLines(db *gorm.DB) *gorm.DB {
	return db.Preload("Items").Preload("Tags")
}

// FindByID finds an invoice visible through scope
func (r *GormInvoiceRepository) FindByID(ctx context.Context, tenantID, organizationID, id uuid.UUID, scope invoice.Scope) (*invoice.Invoice, error) {
	var model models.InvoiceModel
	if err := r.scoped(ctx, tenantID, organizationID, scope).
		Scopes(preloadLines).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Exists reports whether an invoice is visible through scope
func (r *GormInvoiceRepository) Exists(ctx context.Context, tenantID, organizationID, id uuid.UUID, scope invoice.Scope) (bool, error) {
	var count int64
	if err := r.scoped(ctx, tenantID, organizationID, scope).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns one page of invoices visible through scope and the total match count.
// The scope is applied before the caller-supplied filter.
func (r *GormInvoiceRepository) List(ctx context.Context, tenantID, organizationID uuid.UUID, scope invoice.Scope, filter invoice.ListFilter) ([]invoice.Invoice, int64, error) {
	query := r.applyFilter(r.scoped(ctx, tenantID, organizationID, scope), filter)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(filter.OrderBy, InvoiceSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)
	if orderBy != "invoice_number" {
		query = query.Order("invoice_number DESC")
	}

	if filter.Paged() {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	var rows []models.InvoiceModel
	if err := query.Scopes(preloadLines).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	invoices := make([]invoice.Invoice, len(rows))
	for i := range rows {
		invoices[i] = *rows[i].ToDomain()
	}
	return invoices, total, nil
}

// applyFilter applies the caller-supplied criteria
func (r *GormInvoiceRepository) applyFilter(query *gorm.DB, filter invoice.ListFilter) *gorm.DB {
	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("(LOWER(terms) LIKE ? OR CAST(invoice_number AS TEXT) LIKE ?)", search, search)
	}
	if len(filter.Tags) > 0 {
		query = query.Where("id IN (?)",
			r.db.Model(&models.InvoiceTagModel{}).Select("invoice_id").Where("tag IN ?", filter.Tags))
	}
	if len(filter.ToContactIDs) > 0 {
		query = query.Where("to_contact_id IN ?", filter.ToContactIDs)
	}
	if filter.IsEstimate != nil {
		query = query.Where("is_estimate = ?", *filter.IsEstimate)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if filter.InvoiceDate != nil {
		query = query.Where("invoice_date BETWEEN ? AND ?", filter.InvoiceDate.Start, filter.InvoiceDate.End)
	}
	if filter.DueDate != nil {
		query = query.Where("due_date BETWEEN ? AND ?", filter.DueDate.Start, filter.DueDate.End)
	}
	return query
}

// Save creates or updates an invoice together with its items and tags
func (r *GormInvoiceRepository) Save(ctx context.Context, inv *invoice.Invoice) error {
	model := models.InvoiceModelFromDomain(inv)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return fmt.Errorf("failed to save invoice: %w", err)
		}
		if err := tx.Where("invoice_id = ?", model.ID).Delete(&models.InvoiceItemModel{}).Error; err != nil {
			return fmt.Errorf("failed to replace invoice items: %w", err)
		}
		if len(model.Items) > 0 {
			if err := tx.Create(&model.Items).Error; err != nil {
				return fmt.Errorf("failed to replace invoice items: %w", err)
			}
		}
		if err := tx.Where("invoice_id = ?", model.ID).Delete(&models.InvoiceTagModel{}).Error; err != nil {
			return fmt.Errorf("failed to replace invoice tags: %w", err)
		}
		if len(model.Tags) > 0 {
			if err := tx.Create(&model.Tags).Error; err != nil {
				return fmt.Errorf("failed to replace invoice tags: %w", err)
			}
		}
		return nil
	})
}

// Delete removes an invoice with its items and tags
func (r *GormInvoiceRepository) Delete(ctx context.Context, tenantID, organizationID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Scopes(tenant.OrganizationScope(tenantID, organizationID)).
			Where("id = ?", id).
			Delete(&models.InvoiceModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		if err := tx.Where("invoice_id = ?", id).Delete(&models.InvoiceItemModel{}).Error; err != nil {
			return err
		}
		return tx.Where("invoice_id = ?", id).Delete(&models.InvoiceTagModel{}).Error
	})
}

// HighestInvoiceNumber returns the largest invoice number of the organization, or 0
func (r *GormInvoiceRepository) HighestInvoiceNumber(ctx context.Context, tenantID, organizationID uuid.UUID) (int64, error) {
	var highest int64
	if err := tenant.ForOrganization(ctx, r.db, tenantID, organizationID).
		Model(&models.InvoiceModel{}).
		Select("COALESCE(MAX(invoice_number), 0)").
		Scan(&highest).Error; err != nil {
		return 0, err
	}
	return highest, nil
}

// Stats counts and sums the non-estimate invoices visible through scope
func (r *GormInvoiceRepository) Stats(ctx context.Context, tenantID, organizationID uuid.UUID, scope invoice.Scope) (invoice.Stats, error) {
	var row struct {
		Count      int64
		TotalValue decimal.NullDecimal
	}
	if err := r.scoped(ctx, tenantID, organizationID, scope).
		Where("is_estimate = ?", false).
		Select("COUNT(*) AS count, SUM(total_value) AS total_value").
		Scan(&row).Error; err != nil {
		return invoice.Stats{}, err
	}

	stats := invoice.Stats{Count: row.Count, TotalValue: decimal.Zero}
	if row.TotalValue.Valid {
		stats.TotalValue = row.TotalValue.Decimal
	}
	return stats, nil
}

// UpdateToken stores the public link token of an invoice
func (r *GormInvoiceRepository) UpdateToken(ctx context.Context, tenantID, organizationID, id uuid.UUID, token string) error {
	result := tenant.ForOrganization(ctx, r.db, tenantID, organizationID).
		Model(&models.InvoiceModel{}).
		Where("id = ?", id).
		Update("token", token)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ invoice.Repository = (*GormInvoiceRepository)(nil)
