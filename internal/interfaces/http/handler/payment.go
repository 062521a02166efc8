package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	settlementapp "github.com/houseledger/backend/internal/application/settlement"
	"github.com/houseledger/backend/internal/interfaces/http/middleware"
)

// PaymentHandler handles standalone payment ledger endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService *settlementapp.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *settlementapp.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// RegisterRoutes registers payment routes on the given group
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/payments")
	payments.POST("", h.Record)
	payments.GET("", h.List)
	payments.GET("/:id", h.GetByID)
	payments.PUT("/:id", h.Update)
	payments.DELETE("/:id", h.Delete)
	payments.POST("/:id/approve", middleware.AdminOnly(), h.Approve)
	payments.POST("/:id/reject", middleware.AdminOnly(), h.Reject)
	payments.POST("/approve", middleware.AdminOnly(), h.BulkApprove)
}

// Record records a new payment or received amount
func (h *PaymentHandler) Record(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	var req settlementapp.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	payment, err := h.paymentService.Record(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, payment)
}

// List returns the house's payments with filtering and pagination
func (h *PaymentHandler) List(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	var filter settlementapp.PaymentListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.paymentService.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetByID returns a single payment
func (h *PaymentHandler) GetByID(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	payment, err := h.paymentService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payment)
}

// Update edits a pending payment
func (h *PaymentHandler) Update(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req settlementapp.UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	payment, err := h.paymentService.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payment)
}

// Delete removes a pending payment
func (h *PaymentHandler) Delete(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	if err := h.paymentService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Approve confirms a pending payment
func (h *PaymentHandler) Approve(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	payment, err := h.paymentService.Approve(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payment)
}

// Reject declines a pending payment
func (h *PaymentHandler) Reject(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	payment, err := h.paymentService.Reject(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payment)
}

// BulkApproveRequest is the body for batch payment approval
type BulkApproveRequest struct {
	IDs []uuid.UUID `json:"ids" binding:"required,min=1"`
}

// BulkApprove approves a batch of pending payments, best effort
func (h *PaymentHandler) BulkApprove(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	var req BulkApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "A non-empty list of payment IDs is required")
		return
	}

	result, err := h.paymentService.BulkApprove(c.Request.Context(), actor, req.IDs)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
