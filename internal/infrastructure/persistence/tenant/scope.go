// Package tenant restricts GORM queries to a single tenant and organization.
//
// Every row owned by this service carries tenant_id and organization_id. The
// scopes here are the only way repositories build their base query, so a
// missing identifier fails the query instead of widening it.
//
// Usage:
//
//	db.WithContext(ctx).Scopes(tenant.OrganizationScope(tenantID, orgID)).Find(&invoices)
package tenant

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrTenantIDRequired is returned when a query is built without a tenant
var ErrTenantIDRequired = errors.New("tenant_id is required")

// ErrOrganizationIDRequired is returned when a query is built without an organization
var ErrOrganizationIDRequired = errors.New("organization_id is required")

// TenantScope applies tenant filtering to GORM queries
func TenantScope(tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if tenantID == uuid.Nil {
			_ = db.AddError(ErrTenantIDRequired)
			return db
		}
		return db.Where("tenant_id = ?", tenantID)
	}
}

// OrganizationScope applies tenant and organization filtering to GORM queries
func OrganizationScope(tenantID, organizationID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if tenantID == uuid.Nil {
			_ = db.AddError(ErrTenantIDRequired)
			return db
		}
		if organizationID == uuid.Nil {
			_ = db.AddError(ErrOrganizationIDRequired)
			return db
		}
		return db.Where("tenant_id = ? AND organization_id = ?", tenantID, organizationID)
	}
}

// ForOrganization returns a session bound to ctx and scoped to one organization
func ForOrganization(ctx context.Context, db *gorm.DB, tenantID, organizationID uuid.UUID) *gorm.DB {
	return db.WithContext(ctx).Scopes(OrganizationScope(tenantID, organizationID))
}
