// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free from
// ORM concerns. Each model provides a ToDomain conversion and a constructor from the
// domain type; repositories only ever hand domain values to their callers.
//
// Structure:
//   - base.go: BaseModel and OrganizationScopedModel
//   - invoice.go: invoices, invoice items and invoice tags
//   - estimate_email.go: capability records behind mailed estimate links
//   - organization.go: tenants, organizations and contacts (read models)
//   - payment.go: payments and the email audit trail
package models
