package handler

import (
	"context"
	"strings"

	invoiceapp "github.com/ever-co/invoicing/internal/application/invoice"
	"github.com/ever-co/invoicing/internal/application/estimate"
	"github.com/ever-co/invoicing/internal/domain/invoice"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EstimateService is the token surface of the estimate endpoints
type EstimateService interface {
	Validate(ctx context.Context, token string, relations []string) (*invoice.EstimateEmail, error)
	Redeem(ctx context.Context, token string, action estimate.Action) (*invoice.Invoice, error)
}

// PublicInvoiceViewer resolves public invoice links
type PublicInvoiceViewer interface {
	ViewPublic(ctx context.Context, id uuid.UUID, token string) (*invoiceapp.InvoiceResponse, error)
}

// PublicHandler serves the unauthenticated, token-guarded endpoints
type PublicHandler struct {
	BaseHandler
	estimates EstimateService
	invoices  PublicInvoiceViewer
}

// NewPublicHandler creates a new PublicHandler
func NewPublicHandler(estimates EstimateService, invoices PublicInvoiceViewer) *PublicHandler {
	return &PublicHandler{estimates: estimates, invoices: invoices}
}

// RegisterRoutes mounts the public endpoints; callers add rate limiting to r
func (h *PublicHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/estimate-email/validate", h.ValidateEstimateToken)
	r.PUT("/estimate-email/:action", h.RedeemEstimate)
	r.GET("/public/invoices/:id/:token", h.ViewInvoice)
}

// ValidateEstimateToken godoc
// @ID           validateEstimateEmail
// @Summary      Validate an estimate link
// @Description  Every failure answers the same 400 so tokens cannot be probed
// @Tags         estimate-email
// @Produce      json
// @Param        token query string true "Estimate token"
// @Param        relations query string false "Comma separated: organization, tenant"
// @Success      200 {object} APIResponse[EstimateEmailResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /estimate-email/validate [get]
func (h *PublicHandler) ValidateEstimateToken(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		h.HandleError(c, invoice.ErrInvalidToken)
		return
	}
	record, err := h.estimates.Validate(c.Request.Context(), token, splitRelations(c.Query("relations")))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, EstimateEmailResponse{
		ID:                       record.ID.String(),
		InvoiceID:                record.InvoiceID.String(),
		OrganizationID:           record.OrganizationID.String(),
		Email:                    record.Email,
		ExpireDate:               record.ExpireDate,
		ConvertAcceptedEstimates: record.ConvertAcceptedEstimates,
		OrganizationName:         record.OrganizationName,
		TenantName:               record.TenantName,
	})
}

// RedeemEstimate godoc
// @ID           redeemEstimateEmail
// @Summary      Accept or reject an estimate
// @Description  A token can be redeemed once
// @Tags         estimate-email
// @Produce      json
// @Param        action path string true "accept or reject" Enums(accept, reject)
// @Param        token query string true "Estimate token"
// @Success      200 {object} APIResponse[invoiceapp.InvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /estimate-email/{action} [put]
func (h *PublicHandler) RedeemEstimate(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		h.HandleError(c, invoice.ErrInvalidToken)
		return
	}
	inv, err := h.estimates.Redeem(c.Request.Context(), token, estimate.Action(c.Param("action")))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	resp := invoiceapp.ToInvoiceResponse(inv)
	resp.Token = nil
	h.Success(c, resp)
}

// ViewInvoice godoc
// @ID           viewPublicInvoice
// @Summary      View an invoice through its public link
// @Tags         public
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Param        token path string true "Link token"
// @Success      200 {object} APIResponse[invoiceapp.InvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /public/invoices/{id}/{token} [get]
func (h *PublicHandler) ViewInvoice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.HandleError(c, invoice.ErrInvalidToken)
		return
	}
	resp, err := h.invoices.ViewPublic(c.Request.Context(), id, c.Param("token"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func splitRelations(raw string) []string {
	var out []string
	for _, r := range strings.Split(raw, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}
