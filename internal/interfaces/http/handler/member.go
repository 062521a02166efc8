package handler

import (
	"github.com/gin-gonic/gin"
	householdapp "github.com/houseledger/backend/internal/application/household"
	"github.com/houseledger/backend/internal/interfaces/http/middleware"
)

// MemberHandler handles house member management requests
type MemberHandler struct {
	BaseHandler
	memberService *householdapp.MemberService
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(memberService *householdapp.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// RegisterRoutes registers member routes on the given group
func (h *MemberHandler) RegisterRoutes(rg *gin.RouterGroup) {
	members := rg.Group("/members")
	members.GET("", h.List)
	members.GET("/:id", h.GetByID)
	members.POST("", middleware.AdminOnly(), h.Create)
	members.POST("/:id/deactivate", middleware.AdminOnly(), h.Deactivate)
}

// List returns all members of the actor's house
func (h *MemberHandler) List(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	members, err := h.memberService.List(c.Request.Context(), actor.HouseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, members)
}

// GetByID returns a single member of the actor's house
func (h *MemberHandler) GetByID(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	member, err := h.memberService.GetByID(c.Request.Context(), actor.HouseID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, member)
}

// Create adds a new member to the actor's house
func (h *MemberHandler) Create(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	var req householdapp.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	member, err := h.memberService.Create(c.Request.Context(), actor.HouseID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, member)
}

// Deactivate marks a member inactive. Inactive members keep their
// settlement history but stop being part of new equal splits.
func (h *MemberHandler) Deactivate(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	member, err := h.memberService.Deactivate(c.Request.Context(), actor.HouseID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, member)
}
