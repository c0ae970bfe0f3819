package persistence

import (
	"context"

	"github.com/ever-co/invoicing/internal/domain/invoice"
	"github.com/ever-co/invoicing/internal/infrastructure/persistence/models"
	"github.com/ever-co/invoicing/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPaymentRepository implements invoice.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// ListByInvoice returns the payments of an invoice, oldest first
func (r *GormPaymentRepository) ListByInvoice(ctx context.Context, tenantID, organizationID, invoiceID uuid.UUID) ([]invoice.Payment, error) {
	var rows []models.PaymentModel
	if err := tenant.ForOrganization(ctx, r.db, tenantID, organizationID).
		Where("invoice_id = ?", invoiceID).
		Order("payment_date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	payments := make([]invoice.Payment, len(rows))
	for i := range rows {
		payments[i] = rows[i].ToDomain()
	}
	return payments, nil
}

var _ invoice.PaymentRepository = (*GormPaymentRepository)(nil)

// GormEmailRecordRepository implements invoice.EmailRecordRepository using GORM
type GormEmailRecordRepository struct {
	db *gorm.DB
}

// NewGormEmailRecordRepository creates a new GormEmailRecordRepository
func NewGormEmailRecordRepository(db *gorm.DB) *GormEmailRecordRepository {
	return &GormEmailRecordRepository{db: db}
}

// Create stores an email audit record
func (r *GormEmailRecordRepository) Create(ctx context.Context, record *invoice.EmailRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(models.EmailRecordModelFromDomain(record)).Error
}

var _ invoice.EmailRecordRepository = (*GormEmailRecordRepository)(nil)
