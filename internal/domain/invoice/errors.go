package invoice

import "github.com/ever-co/invoicing/internal/domain/shared"

// Invoice domain errors. ErrInvalidInvoice is returned both for unknown invoices
// and for invoices the caller may not access.
var (
	ErrInvalidInvoice      = shared.NewDomainError("INVALID_INVOICE", "Invalid invoice")
	ErrPdfGenerationFailed = shared.NewDomainError("PDF_GENERATION_FAILED", "Failed to generate PDF")
	ErrInvalidToken        = shared.NewDomainError("BAD_REQUEST", "Invalid or expired token")
	ErrStatusNotAllowed    = shared.NewDomainError("FORBIDDEN", "Status change not allowed")
	ErrAlreadyRedeemed     = shared.NewDomainError("BAD_REQUEST", "Invalid or expired token")
)
