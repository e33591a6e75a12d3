package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gymstack/studio-ops-api/internal/models"
	"github.com/gymstack/studio-ops-api/internal/service"
	appErrors "github.com/gymstack/studio-ops-api/pkg/errors"
	"github.com/gymstack/studio-ops-api/pkg/response"
)

// ContractHandler exposes contract lifecycle endpoints.
type ContractHandler struct {
	contracts *service.ContractService
}

// NewContractHandler constructs ContractHandler.
func NewContractHandler(contracts *service.ContractService) *ContractHandler {
	return &ContractHandler{contracts: contracts}
}

// List godoc
// @Summary List contracts
// @Tags Contracts
// @Produce json
// @Param status query string false "Filter by status"
// @Param member_id query string false "Filter by member UUID"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /contracts [get]
func (h *ContractHandler) List(c *gin.Context) {
	var filter models.ContractFilter
	if status := strings.ToUpper(c.Query("status")); status != "" {
		parsed := models.ContractStatus(status)
		if !parsed.Valid() {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid status filter"))
			return
		}
		filter.Status = parsed
	}
	if memberID := c.Query("member_id"); memberID != "" {
		if _, err := uuid.Parse(memberID); err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid member_id filter, expected a UUID"))
			return
		}
		filter.MemberID = memberID
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	contracts, pagination, err := h.contracts.List(c.Request.Context(), studioFromContext(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, contracts, pagination)
}

// Get godoc
// @Summary Get a contract
// @Tags Contracts
// @Produce json
// @Param id path string true "Contract ID"
// @Success 200 {object} response.Envelope
// @Router /contracts/{id} [get]
func (h *ContractHandler) Get(c *gin.Context) {
	contract, err := h.contracts.Get(c.Request.Context(), studioFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, contract, nil)
}

// Create godoc
// @Summary Create a contract for a member
// @Tags Contracts
// @Accept json
// @Produce json
// @Param payload body service.CreateContractRequest true "Contract payload"
// @Success 201 {object} response.Envelope
// @Router /contracts [post]
func (h *ContractHandler) Create(c *gin.Context) {
	var req service.CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	contract, err := h.contracts.Create(c.Request.Context(), studioFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, contract)
}

// Pause godoc
// @Summary Pause an active contract
// @Tags Contracts
// @Accept json
// @Produce json
// @Param id path string true "Contract ID"
// @Param payload body service.PauseContractRequest true "Pause payload"
// @Success 200 {object} response.Envelope
// @Router /contracts/{id}/pause [post]
func (h *ContractHandler) Pause(c *gin.Context) {
	var req service.PauseContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	contract, err := h.contracts.Pause(c.Request.Context(), studioFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, contract, nil)
}

// Cancel godoc
// @Summary Cancel a contract
// @Tags Contracts
// @Produce json
// @Param id path string true "Contract ID"
// @Success 200 {object} response.Envelope
// @Router /contracts/{id}/cancel [post]
func (h *ContractHandler) Cancel(c *gin.Context) {
	contract, err := h.contracts.Cancel(c.Request.Context(), studioFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, contract, nil)
}
