package invoice

import (
	"slices"

	"github.com/ever-co/invoicing/internal/domain/shared"
	"github.com/google/uuid"
)

// Permission is a named grant carried by a caller
type Permission string

const (
	PermAllOrgView      Permission = "ALL_ORG_VIEW"
	PermAllOrgEdit      Permission = "ALL_ORG_EDIT"
	PermInvoicesHandle  Permission = "INVOICES_HANDLE"
	PermInvoicesView    Permission = "INVOICES_VIEW"
	PermInvoicesEdit    Permission = "INVOICES_EDIT"
	PermOrgInvoicesView Permission = "ORG_INVOICES_VIEW"
	PermOrgInvoicesEdit Permission = "ORG_INVOICES_EDIT"
	PermEstimatesView   Permission = "ESTIMATES_VIEW"
	PermEstimatesEdit   Permission = "ESTIMATES_EDIT"
)

// Caller is the identity every policy decision is made for.
// It is always passed explicitly, never read from ambient state.
type Caller struct {
	TenantID       uuid.UUID
	OrganizationID uuid.UUID
	UserID         uuid.UUID
	Permissions    []string
}

// Has reports whether the caller holds the permission
func (c Caller) Has(p Permission) bool {
	return slices.Contains(c.Permissions, string(p))
}

// HasAny reports whether the caller holds at least one of the permissions
func (c Caller) HasAny(perms ...Permission) bool {
	for _, p := range perms {
		if c.Has(p) {
			return true
		}
	}
	return false
}

// CheckPermission fails with ErrForbidden unless the caller holds one of required.
// An empty required list only checks that the caller is scoped to a tenant.
func CheckPermission(c Caller, required ...Permission) error {
	if c.TenantID == uuid.Nil || c.OrganizationID == uuid.Nil {
		return shared.ErrForbidden
	}
	if len(required) == 0 || c.HasAny(required...) {
		return nil
	}
	return shared.ErrForbidden
}

// Scope restricts which invoices of the caller's tenant and organization are visible.
// A zero Scope allows nothing.
type Scope struct {
	Unrestricted                bool
	FromUserIDs                 []uuid.UUID
	IncludeOrganizationAuthored bool
	Statuses                    []Status
}

// IsEmpty reports whether the scope can never match a row
func (s Scope) IsEmpty() bool {
	return !s.Unrestricted && len(s.FromUserIDs) == 0 && !s.IncludeOrganizationAuthored
}

// Allows evaluates the scope against a single invoice
func (s Scope) Allows(inv *Invoice) bool {
	if len(s.Statuses) > 0 && !slices.Contains(s.Statuses, inv.Status) {
		return false
	}
	if s.Unrestricted {
		return true
	}
	if inv.FromUserID == nil {
		return s.IncludeOrganizationAuthored
	}
	return slices.Contains(s.FromUserIDs, *inv.FromUserID)
}

// ReadScope computes the invoices a caller may read
func ReadScope(c Caller) Scope {
	return ownershipScope(c, PermAllOrgView, PermInvoicesView, PermOrgInvoicesView)
}

// WriteScope computes the invoices a caller may mutate and whether the caller is
// privileged (admin or handle-all). When checkStatus is set, non-privileged callers
// are further restricted to editable statuses.
func WriteScope(c Caller, checkStatus bool) (Scope, bool) {
	scope := ownershipScope(c, PermAllOrgEdit, PermInvoicesEdit, PermOrgInvoicesEdit)
	privileged := scope.Unrestricted
	if checkStatus && !privileged {
		scope.Statuses = EditableStatuses()
	}
	return scope, privileged
}

func ownershipScope(c Caller, all, own, org Permission) Scope {
	if c.HasAny(all, PermInvoicesHandle) {
		return Scope{Unrestricted: true}
	}
	var scope Scope
	if c.Has(own) && c.UserID != uuid.Nil {
		scope.FromUserIDs = []uuid.UUID{c.UserID}
	}
	if c.Has(org) {
		scope.IncludeOrganizationAuthored = true
	}
	return scope
}

// AllowedTargetStatus reports whether a caller may move an invoice into status.
// Privileged callers may use any known status.
func AllowedTargetStatus(status Status, privileged bool) bool {
	if !status.IsValid() {
		return false
	}
	return privileged || status.IsEditable()
}
