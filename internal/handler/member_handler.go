package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gymstack/studio-ops-api/internal/models"
	"github.com/gymstack/studio-ops-api/internal/service"
	appErrors "github.com/gymstack/studio-ops-api/pkg/errors"
	"github.com/gymstack/studio-ops-api/pkg/response"
)

// MemberHandler exposes member endpoints.
type MemberHandler struct {
	members *service.MemberService
}

// NewMemberHandler constructs MemberHandler.
func NewMemberHandler(members *service.MemberService) *MemberHandler {
	return &MemberHandler{members: members}
}

// List godoc
// @Summary List members
// @Tags Members
// @Produce json
// @Param status query string false "Filter by status"
// @Param search query string false "Search by name or email"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /members [get]
func (h *MemberHandler) List(c *gin.Context) {
	var filter models.MemberFilter
	if status := strings.ToUpper(c.Query("status")); status != "" {
		parsed := models.MemberStatus(status)
		if !parsed.Valid() {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid status filter"))
			return
		}
		filter.Status = parsed
	}
	filter.Search = c.Query("search")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	members, pagination, err := h.members.List(c.Request.Context(), studioFromContext(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, members, pagination)
}

// Get godoc
// @Summary Get a member
// @Tags Members
// @Produce json
// @Param id path string true "Member ID"
// @Success 200 {object} response.Envelope
// @Router /members/{id} [get]
func (h *MemberHandler) Get(c *gin.Context) {
	member, err := h.members.Get(c.Request.Context(), studioFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, member, nil)
}

// Create godoc
// @Summary Create a member
// @Tags Members
// @Accept json
// @Produce json
// @Param payload body service.CreateMemberRequest true "Member payload"
// @Success 201 {object} response.Envelope
// @Router /members [post]
func (h *MemberHandler) Create(c *gin.Context) {
	var req service.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	member, err := h.members.Create(c.Request.Context(), studioFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, member)
}

// Update godoc
// @Summary Update a member
// @Tags Members
// @Accept json
// @Produce json
// @Param id path string true "Member ID"
// @Param payload body service.UpdateMemberRequest true "Member payload"
// @Success 200 {object} response.Envelope
// @Router /members/{id} [put]
func (h *MemberHandler) Update(c *gin.Context) {
	var req service.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	member, err := h.members.Update(c.Request.Context(), studioFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, member, nil)
}

// Deactivate godoc
// @Summary Deactivate a member
// @Tags Members
// @Produce json
// @Param id path string true "Member ID"
// @Success 200 {object} response.Envelope
// @Router /members/{id}/deactivate [post]
func (h *MemberHandler) Deactivate(c *gin.Context) {
	member, err := h.members.Deactivate(c.Request.Context(), studioFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, member, nil)
}
