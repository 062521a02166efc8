package handler

import (
	"github.com/gin-gonic/gin"
	settlementapp "github.com/houseledger/backend/internal/application/settlement"
	"github.com/houseledger/backend/internal/interfaces/http/middleware"
)

// ExpenseHandler handles expense request workflow endpoints
type ExpenseHandler struct {
	BaseHandler
	expenseService *settlementapp.ExpenseService
}

// NewExpenseHandler creates a new expense handler
func NewExpenseHandler(expenseService *settlementapp.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// RegisterRoutes registers expense routes on the given group
func (h *ExpenseHandler) RegisterRoutes(rg *gin.RouterGroup) {
	expenses := rg.Group("/expenses")
	expenses.POST("", h.Create)
	expenses.GET("", h.List)
	expenses.GET("/:id", h.GetByID)
	expenses.DELETE("/:id", h.Delete)
	expenses.POST("/:id/approve", middleware.AdminOnly(), h.Approve)
	expenses.POST("/:id/reject", middleware.AdminOnly(), h.Reject)
}

// Create submits a new expense. Admin submissions are approved in the
// same request and immediately produce invoices.
func (h *ExpenseHandler) Create(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	var req settlementapp.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	expense, err := h.expenseService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, expense)
}

// List returns the house's expenses with filtering and pagination
func (h *ExpenseHandler) List(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	var filter settlementapp.ExpenseListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.expenseService.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetByID returns a single expense with its splits
func (h *ExpenseHandler) GetByID(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	expense, err := h.expenseService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, expense)
}

// Approve approves a pending expense and issues its invoices
func (h *ExpenseHandler) Approve(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req settlementapp.ApproveExpenseRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BindError(c, err)
			return
		}
	}

	expense, err := h.expenseService.Approve(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, expense)
}

// Reject rejects a pending expense with a mandatory reason
func (h *ExpenseHandler) Reject(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req settlementapp.RejectExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "A rejection reason is required")
		return
	}

	expense, err := h.expenseService.Reject(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, expense)
}

// Delete removes the actor's own pending expense
func (h *ExpenseHandler) Delete(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	if err := h.expenseService.DeleteOwn(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
