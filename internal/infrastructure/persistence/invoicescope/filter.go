// Package invoicescope turns an invoice access Scope into GORM conditions.
//
// The scope decision itself lives in the domain (invoice.ReadScope and
// invoice.WriteScope). This package only renders it as SQL:
//   - Unrestricted: no ownership condition
//   - FromUserIDs: from_user_id IN (...)
//   - IncludeOrganizationAuthored: from_user_id IS NULL
//   - both: the two conditions joined with OR
//   - neither: 1 = 0, so the query returns no rows
//
// A NULL owner is never matched through IN, because IN (NULL) is never true.
//
// Usage:
//
//	db.Scopes(invoicescope.Scope(invoice.ReadScope(caller))).Find(&rows)
package invoicescope

import (
	"github.com/ever-co/invoicing/internal/domain/invoice"
	"gorm.io/gorm"
)

const (
	ownerColumn  = "from_user_id"
	statusColumn = "status"
)

// ScopeFunc is a GORM scope function type
type ScopeFunc func(*gorm.DB) *gorm.DB

// Apply adds the conditions for scope to db
func Apply(db *gorm.DB, scope invoice.Scope) *gorm.DB {
	if len(scope.Statuses) > 0 {
		db = db.Where(statusColumn+" IN ?", scope.Statuses)
	}

	switch {
	case scope.Unrestricted:
		return db
	case scope.IsEmpty():
		return db.Where("1 = 0")
	case len(scope.FromUserIDs) > 0 && scope.IncludeOrganizationAuthored:
		return db.Where("("+ownerColumn+" IN ? OR "+ownerColumn+" IS NULL)", scope.FromUserIDs)
	case len(scope.FromUserIDs) > 0:
		return db.Where(ownerColumn+" IN ?", scope.FromUserIDs)
	default:
		return db.Where(ownerColumn + " IS NULL")
	}
}

// Scope returns a GORM scope function for scope
func Scope(scope invoice.Scope) ScopeFunc {
	return func(db *gorm.DB) *gorm.DB {
		return Apply(db, scope)
	}
}
