package invoice

import (
	"time"

	"github.com/ever-co/invoicing/internal/domain/shared"
	"github.com/google/uuid"
)

// EstimateEmail is the persisted capability record behind a mailed estimate link.
// It is written once per send and never updated.
type EstimateEmail struct {
	shared.BaseEntity
	TenantID                 uuid.UUID
	OrganizationID           uuid.UUID
	InvoiceID                uuid.UUID
	Email                    string
	Token                    string
	ExpireDate               time.Time
	ConvertAcceptedEstimates bool

	// Display fields, filled only when requested through relations
	OrganizationName string
	TenantName       string
}

// IsLive reports whether the record can still be redeemed at the given time
func (e *EstimateEmail) IsLive(at time.Time) bool {
	return e.ExpireDate.After(at)
}

// EstimateEmailLookup is the full match required to resolve a token
type EstimateEmailLookup struct {
	Email          string
	Token          string
	OrganizationID uuid.UUID
	TenantID       uuid.UUID
	Now            time.Time
	Relations      []string
}

// Relation names accepted by EstimateEmailLookup
const (
	RelationOrganization = "organization"
	RelationTenant       = "tenant"
)
