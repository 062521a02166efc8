package handler

import (
	"github.com/gin-gonic/gin"
	settlementapp "github.com/houseledger/backend/internal/application/settlement"
	"github.com/houseledger/backend/internal/interfaces/http/middleware"
)

// InvoiceHandler handles invoice settlement endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService *settlementapp.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *settlementapp.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// RegisterRoutes registers invoice routes on the given group
func (h *InvoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	invoices := rg.Group("/invoices")
	invoices.GET("", h.List)
	invoices.GET("/:id", h.GetByID)
	invoices.POST("/:id/request-payment", h.RequestPayment)
	invoices.POST("/request-payment", h.BulkRequestPayment)
	invoices.POST("/:id/approve", middleware.AdminOnly(), h.Approve)
	invoices.POST("/:id/reject", middleware.AdminOnly(), h.Reject)
}

// List returns the house's invoices with filtering and pagination
func (h *InvoiceHandler) List(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	var filter settlementapp.InvoiceListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.invoiceService.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetByID returns a single invoice
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// RequestPayment marks the actor's own invoice as paid, pending admin
// confirmation
func (h *InvoiceHandler) RequestPayment(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.RequestPayment(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// BulkRequestPayment requests payment confirmation for all of the
// actor's pending invoices, best effort
func (h *InvoiceHandler) BulkRequestPayment(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	result, err := h.invoiceService.BulkRequestPayment(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Approve confirms a requested invoice payment
func (h *InvoiceHandler) Approve(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.Approve(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// Reject declines a requested invoice payment with a mandatory reason
func (h *InvoiceHandler) Reject(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req settlementapp.RejectInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "A rejection reason is required")
		return
	}

	invoice, err := h.invoiceService.Reject(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}
