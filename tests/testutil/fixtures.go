package testutil

import (
	"github.com/ever-co/invoicing/internal/domain/invoice"
	"github.com/google/uuid"
)

// Caller returns an authenticated caller with fresh ids holding perms
func Caller(perms ...invoice.Permission) invoice.Caller {
	c := invoice.Caller{
		TenantID:       uuid.New(),
		OrganizationID: uuid.New(),
		UserID:         uuid.New(),
	}
	for _, p := range perms {
		c.Permissions = append(c.Permissions, string(p))
	}
	return c
}

// CallerIn returns a caller in the same tenant and organization as base but
// with its own user id
func CallerIn(base invoice.Caller, perms ...invoice.Permission) invoice.Caller {
	c := Caller(perms...)
	c.TenantID = base.TenantID
	c.OrganizationID = base.OrganizationID
	return c
}
