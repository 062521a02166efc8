package handler

import (
	"github.com/gin-gonic/gin"
	settlementapp "github.com/houseledger/backend/internal/application/settlement"
	"github.com/houseledger/backend/internal/interfaces/http/middleware"
)

// BalanceHandler exposes the derived settlement balances
type BalanceHandler struct {
	BaseHandler
	balanceService *settlementapp.BalanceService
}

// NewBalanceHandler creates a new balance handler
func NewBalanceHandler(balanceService *settlementapp.BalanceService) *BalanceHandler {
	return &BalanceHandler{balanceService: balanceService}
}

// RegisterRoutes registers balance routes on the given group
func (h *BalanceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	balances := rg.Group("/balances")
	balances.GET("", h.ForHouse)
	balances.GET("/audit", middleware.AdminOnly(), h.Audit)
	balances.GET("/:id", h.ForMember)
}

// ForHouse returns the current balance of every house member. Balances
// are derived from approved records on every call, never cached.
func (h *BalanceHandler) ForHouse(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	balances, err := h.balanceService.ForHouse(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, balances)
}

// Audit cross-checks the invoice-derived balances against the
// expense-split view and reports any divergence
func (h *BalanceHandler) Audit(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	report, err := h.balanceService.Audit(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// ForMember returns a single member's balance
func (h *BalanceHandler) ForMember(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	balance, err := h.balanceService.ForMember(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, balance)
}
