package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	invoiceapp "github.com/ever-co/invoicing/internal/application/invoice"
	"github.com/ever-co/invoicing/internal/domain/invoice"
	"github.com/ever-co/invoicing/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InvoiceService is the application surface the invoice endpoints need
type InvoiceService interface {
	List(ctx context.Context, caller invoice.Caller, req invoiceapp.ListInvoicesRequest) ([]invoiceapp.InvoiceResponse, error)
	Paginate(ctx context.Context, caller invoice.Caller, req invoiceapp.ListInvoicesRequest) (*invoiceapp.ListInvoicesResponse, error)
	GetByID(ctx context.Context, caller invoice.Caller, id uuid.UUID) (*invoiceapp.InvoiceResponse, error)
	GetHighestInvoiceNumber(ctx context.Context, caller invoice.Caller) (int64, error)
	GetStats(ctx context.Context, caller invoice.Caller) (*invoiceapp.StatsResponse, error)
	Create(ctx context.Context, caller invoice.Caller, req invoiceapp.CreateInvoiceRequest) (*invoiceapp.InvoiceResponse, error)
	CreateOwn(ctx context.Context, caller invoice.Caller, req invoiceapp.CreateInvoiceRequest) (*invoiceapp.InvoiceResponse, error)
	Update(ctx context.Context, caller invoice.Caller, id uuid.UUID, req invoiceapp.UpdateInvoiceRequest) (*invoiceapp.InvoiceResponse, error)
	UpdateAction(ctx context.Context, caller invoice.Caller, id uuid.UUID, req invoiceapp.UpdateActionRequest) (*invoiceapp.InvoiceResponse, error)
	Delete(ctx context.Context, caller invoice.Caller, id uuid.UUID) error
	DownloadInvoicePDF(ctx context.Context, caller invoice.Caller, id uuid.UUID, locale string) (*invoiceapp.PDFResponse, error)
	DownloadPaymentPDF(ctx context.Context, caller invoice.Caller, id uuid.UUID, locale string) (*invoiceapp.PDFResponse, error)
	SendEmail(ctx context.Context, caller invoice.Caller, req invoiceapp.SendEmailRequest) error
	GenerateLink(ctx context.Context, caller invoice.Caller, id uuid.UUID) (*invoiceapp.InvoiceResponse, error)
	ViewPublic(ctx context.Context, id uuid.UUID, token string) (*invoiceapp.InvoiceResponse, error)
}

const defaultPageSize = 20

// InvoiceHandler serves the authenticated invoice endpoints
type InvoiceHandler struct {
	BaseHandler
	service InvoiceService
	perms   middleware.PermissionConfig
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(service InvoiceService, perms middleware.PermissionConfig) *InvoiceHandler {
	return &InvoiceHandler{service: service, perms: perms}
}

// RegisterRoutes mounts the invoice endpoints on an authenticated group.
// Static segments are registered before /:id so they are not read as ids.
func (h *InvoiceHandler) RegisterRoutes(r gin.IRouter) {
	view := middleware.RequireAnyPermission(h.perms,
		invoice.PermAllOrgView, invoice.PermInvoicesHandle, invoice.PermInvoicesView, invoice.PermOrgInvoicesView)
	edit := middleware.RequireAnyPermission(h.perms,
		invoice.PermAllOrgEdit, invoice.PermInvoicesHandle, invoice.PermInvoicesEdit, invoice.PermOrgInvoicesEdit)

	g := r.Group("/invoices")
	g.GET("", view, h.List)
	g.GET("/pagination", view, h.Paginate)
	g.GET("/highest", h.GetHighestInvoiceNumber)
	g.GET("/stats", view, h.GetStats)
	g.GET("/download/:id", view, h.DownloadInvoicePDF)
	g.GET("/payment/download/:id", view, h.DownloadPaymentPDF)
	g.PUT("/email/:email", view, h.SendEmail)
	g.PUT("/generate/:id", view, h.GenerateLink)
	g.POST("", edit, h.Create)
	g.POST("/own", edit, h.CreateOwn)
	g.GET("/:id", view, h.GetByID)
	g.PUT("/:id", edit, h.Update)
	g.PUT("/:id/action", edit, h.UpdateAction)
	g.DELETE("/:id", edit, h.Delete)
}

// ListInvoicesQuery holds list query parameters.
// A date range filters on the current month unless both of its bounds are given.
type ListInvoicesQuery struct {
	Page             int        `form:"page" binding:"omitempty,min=1"`
	PageSize         int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy          string     `form:"order_by" binding:"omitempty,max=50"`
	OrderDir         string     `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
	Search           string     `form:"search" binding:"omitempty,max=100"`
	Tags             []string   `form:"tags" binding:"omitempty,max=20,dive,max=50"`
	ToContactIDs     []string   `form:"to_contact_ids" binding:"omitempty,max=50,dive,uuid"`
	IsEstimate       *bool      `form:"is_estimate"`
	Statuses         []string   `form:"status" binding:"omitempty,dive,invoice_status"`
	InvoiceDateStart *time.Time `form:"invoice_date_start" time_format:"2006-01-02"`
	InvoiceDateEnd   *time.Time `form:"invoice_date_end" time_format:"2006-01-02"`
	DueDateStart     *time.Time `form:"due_date_start" time_format:"2006-01-02"`
	DueDateEnd       *time.Time `form:"due_date_end" time_format:"2006-01-02"`
}

func (h *InvoiceHandler) bindList(c *gin.Context) (invoiceapp.ListInvoicesRequest, bool) {
	var q ListInvoicesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.ValidationError(c, err)
		return invoiceapp.ListInvoicesRequest{}, false
	}

	req := invoiceapp.ListInvoicesRequest{
		Page:       q.Page,
		PageSize:   q.PageSize,
		OrderBy:    q.OrderBy,
		OrderDir:   q.OrderDir,
		Search:     q.Search,
		Tags:       q.Tags,
		IsEstimate: q.IsEstimate,
		Statuses:   q.Statuses,
	}
	for _, s := range q.ToContactIDs {
		req.ToContactIDs = append(req.ToContactIDs, uuid.MustParse(s))
	}
	req.InvoiceDate = dateRange(c, "invoice_date", q.InvoiceDateStart, q.InvoiceDateEnd)
	req.DueDate = dateRange(c, "due_date", q.DueDateStart, q.DueDateEnd)
	return req, true
}

func dateRange(c *gin.Context, key string, start, end *time.Time) *invoiceapp.DateRangeRequest {
	_, present := c.GetQuery(key)
	if !present && start == nil && end == nil {
		return nil
	}
	return &invoiceapp.DateRangeRequest{Start: start, End: end}
}

// List godoc
// @ID           listInvoices
// @Summary      List invoices
// @Description  Lists the invoices and estimates the caller may read, without paging metadata
// @Tags         invoices
// @Produce      json
// @Param        tags query []string false "Tags" collectionFormat(multi)
// @Param        to_contact_ids query []string false "Contact ids" collectionFormat(multi)
// @Param        is_estimate query bool false "Estimates only"
// @Param        status query []string false "Statuses" collectionFormat(multi)
// @Param        invoice_date query string false "Present without bounds: current month"
// @Param        invoice_date_start query string false "YYYY-MM-DD"
// @Param        invoice_date_end query string false "YYYY-MM-DD"
// @Param        due_date query string false "Present without bounds: current month"
// @Param        due_date_start query string false "YYYY-MM-DD"
// @Param        due_date_end query string false "YYYY-MM-DD"
// @Success      200 {object} APIResponse[[]invoiceapp.InvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	req, ok := h.bindList(c)
	if !ok {
		return
	}
	items, err := h.service.List(c.Request.Context(), caller, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// Paginate godoc
// @ID           paginateInvoices
// @Summary      List invoices with paging
// @Tags         invoices
// @Produce      json
// @Param        page query int false "Page" minimum(1)
// @Param        page_size query int false "Page size" minimum(1) maximum(100)
// @Param        order_by query string false "Sort field"
// @Param        order_dir query string false "asc or desc"
// @Param        search query string false "Search in terms and tags"
// @Success      200 {object} APIResponse[[]invoiceapp.InvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/pagination [get]
func (h *InvoiceHandler) Paginate(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	req, ok := h.bindList(c)
	if !ok {
		return
	}
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = defaultPageSize
	}
	page, err := h.service.Paginate(c.Request.Context(), caller, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, req.Page, req.PageSize)
}

// GetByID godoc
// @ID           getInvoice
// @Summary      Get an invoice
// @Description  Unknown invoices and invoices outside the caller's scope both answer 400 INVALID_INVOICE
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} APIResponse[invoiceapp.InvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.service.GetByID(c.Request.Context(), caller, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetHighestInvoiceNumber godoc
// @ID           getHighestInvoiceNumber
// @Summary      Highest invoice number
// @Description  Largest invoice number in the caller's organization, 0 when there are none
// @Tags         invoices
// @Produce      json
// @Success      200 {object} APIResponse[invoiceapp.HighestNumberResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/highest [get]
func (h *InvoiceHandler) GetHighestInvoiceNumber(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	n, err := h.service.GetHighestInvoiceNumber(c.Request.Context(), caller)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoiceapp.HighestNumberResponse{InvoiceNumber: n})
}

// GetStats godoc
// @ID           getInvoiceStats
// @Summary      Invoice statistics
// @Description  Count and total value of the readable invoices, estimates excluded
// @Tags         invoices
// @Produce      json
// @Success      200 {object} APIResponse[invoiceapp.StatsResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/stats [get]
func (h *InvoiceHandler) GetStats(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	stats, err := h.service.GetStats(c.Request.Context(), caller)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// Create godoc
// @ID           createInvoice
// @Summary      Create an invoice or estimate
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        request body invoiceapp.CreateInvoiceRequest true "Invoice"
// @Success      201 {object} APIResponse[invoiceapp.InvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	h.create(c, h.service.Create)
}

// CreateOwn godoc
// @ID           createOwnInvoice
// @Summary      Create an invoice authored by the caller
// @Description  Same as create, with from_user_id forced to the caller
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        request body invoiceapp.CreateInvoiceRequest true "Invoice"
// @Success      201 {object} APIResponse[invoiceapp.InvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/own [post]
func (h *InvoiceHandler) CreateOwn(c *gin.Context) {
	h.create(c, h.service.CreateOwn)
}

type createFunc func(context.Context, invoice.Caller, invoiceapp.CreateInvoiceRequest) (*invoiceapp.InvoiceResponse, error)

func (h *InvoiceHandler) create(c *gin.Context, create createFunc) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	var req invoiceapp.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	resp, err := create(c.Request.Context(), caller, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Update godoc
// @ID           updateInvoice
// @Summary      Update an invoice
// @Description  Partial update. Callers without edit-all rights may only touch DRAFT and SENT invoices.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Param        request body invoiceapp.UpdateInvoiceRequest true "Changes"
// @Success      200 {object} APIResponse[invoiceapp.InvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id} [put]
func (h *InvoiceHandler) Update(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req invoiceapp.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	resp, err := h.service.Update(c.Request.Context(), caller, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateAction godoc
// @ID           updateInvoiceAction
// @Summary      Change invoice status
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Param        request body invoiceapp.UpdateActionRequest true "Target status"
// @Success      200 {object} APIResponse[invoiceapp.InvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id}/action [put]
func (h *InvoiceHandler) UpdateAction(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req invoiceapp.UpdateActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	resp, err := h.service.UpdateAction(c.Request.Context(), caller, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete godoc
// @ID           deleteInvoice
// @Summary      Delete an invoice
// @Tags         invoices
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), caller, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// DownloadInvoicePDF godoc
// @ID           downloadInvoicePDF
// @Summary      Download an invoice as PDF
// @Tags         invoices
// @Produce      application/pdf
// @Param        id path string true "Invoice ID" format(uuid)
// @Param        Language header string false "Document language, e.g. en or bg"
// @Success      200 {file} file
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/download/{id} [get]
func (h *InvoiceHandler) DownloadInvoicePDF(c *gin.Context) {
	h.download(c, h.service.DownloadInvoicePDF)
}

// DownloadPaymentPDF godoc
// @ID           downloadPaymentPDF
// @Summary      Download the payment receipt of an invoice as PDF
// @Tags         invoices
// @Produce      application/pdf
// @Param        id path string true "Invoice ID" format(uuid)
// @Param        Language header string false "Document language"
// @Success      200 {file} file
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/payment/download/{id} [get]
func (h *InvoiceHandler) DownloadPaymentPDF(c *gin.Context) {
	h.download(c, h.service.DownloadPaymentPDF)
}

type downloadFunc func(context.Context, invoice.Caller, uuid.UUID, string) (*invoiceapp.PDFResponse, error)

func (h *InvoiceHandler) download(c *gin.Context, render downloadFunc) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	pdf, err := render(c.Request.Context(), caller, id, requestLocale(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+pdf.Filename+`"`)
	c.Header("Content-Length", strconv.Itoa(len(pdf.Content)))
	c.Data(http.StatusOK, "application/pdf", pdf.Content)
}

// SendEmailBody is the body of the send endpoint; the recipient is in the path
type SendEmailBody struct {
	InvoiceID  uuid.UUID `json:"invoice_id" binding:"required"`
	IsEstimate bool      `json:"is_estimate"`
}

// SendEmail godoc
// @ID           sendInvoiceEmail
// @Summary      Email an invoice or estimate
// @Description  Estimates carry accept and reject links built from the Origin header or the configured client URL.
// @Description  Failures after the link token is stored are logged, not returned.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        email path string true "Recipient"
// @Param        request body SendEmailBody true "Invoice to send"
// @Param        Language header string false "Document language"
// @Success      200 {object} SuccessResponse
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/email/{email} [put]
func (h *InvoiceHandler) SendEmail(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	var body SendEmailBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.ValidationError(c, err)
		return
	}
	err := h.service.SendEmail(c.Request.Context(), caller, invoiceapp.SendEmailRequest{
		Email:      c.Param("email"),
		InvoiceID:  body.InvoiceID,
		IsEstimate: body.IsEstimate,
		Origin:     c.GetHeader("Origin"),
		Locale:     requestLocale(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, nil)
}

// GenerateLink godoc
// @ID           generateInvoiceLink
// @Summary      Generate a public link token
// @Description  Stores a non-expiring token on the invoice. Generating again replaces the previous token.
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} APIResponse[invoiceapp.InvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/generate/{id} [put]
func (h *InvoiceHandler) GenerateLink(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.service.GenerateLink(c.Request.Context(), caller, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
