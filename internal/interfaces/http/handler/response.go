package handler

import (
	"time"

	"github.com/ever-co/invoicing/internal/interfaces/http/dto"
)

// APIResponse documents the success envelope with a typed data field
// @Description Standard API response wrapper with typed data field
type APIResponse[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
	Meta    *dto.Meta      `json:"meta,omitempty"`
}

// ErrorResponse documents the error envelope
// @Description Standard error response
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}

// SuccessResponse documents a success without data
// @Description Simple success response without data
type SuccessResponse struct {
	Success bool `json:"success" example:"true"`
}

// EstimateEmailResponse is the resolved record behind an estimate link
// @Description Estimate email record resolved from a token
type EstimateEmailResponse struct {
	ID                       string    `json:"id"`
	InvoiceID                string    `json:"invoice_id"`
	OrganizationID           string    `json:"organization_id"`
	Email                    string    `json:"email" example:"client@acme.io"`
	ExpireDate               time.Time `json:"expire_date"`
	ConvertAcceptedEstimates bool      `json:"convert_accepted_estimates"`
	OrganizationName         string    `json:"organization_name,omitempty"`
	TenantName               string    `json:"tenant_name,omitempty"`
}
