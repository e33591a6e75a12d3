package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gymstack/studio-ops-api/internal/models"
	"github.com/gymstack/studio-ops-api/internal/service"
	appErrors "github.com/gymstack/studio-ops-api/pkg/errors"
	"github.com/gymstack/studio-ops-api/pkg/response"
)

// PaymentHandler exposes payment bookkeeping endpoints.
type PaymentHandler struct {
	payments *service.PaymentService
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(payments *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// List godoc
// @Summary List payments
// @Tags Payments
// @Produce json
// @Param status query string false "Filter by status"
// @Param member_id query string false "Filter by member UUID"
// @Param contract_id query string false "Filter by contract UUID"
// @Param from query string false "Paid at or after (RFC3339)"
// @Param to query string false "Paid before (RFC3339)"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /payments [get]
func (h *PaymentHandler) List(c *gin.Context) {
	var filter models.PaymentFilter
	if status := strings.ToUpper(c.Query("status")); status != "" {
		parsed := models.PaymentStatus(status)
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
	if contractID := c.Query("contract_id"); contractID != "" {
		if _, err := uuid.Parse(contractID); err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid contract_id filter, expected a UUID"))
			return
		}
		filter.ContractID = contractID
	}
	if from := c.Query("from"); from != "" {
		parsed, err := time.Parse(time.RFC3339, from)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid from filter, expected RFC3339"))
			return
		}
		filter.From = &parsed
	}
	if to := c.Query("to"); to != "" {
		parsed, err := time.Parse(time.RFC3339, to)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid to filter, expected RFC3339"))
			return
		}
		filter.To = &parsed
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	payments, pagination, err := h.payments.List(c.Request.Context(), studioFromContext(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payments, pagination)
}

// Record godoc
// @Summary Record a payment
// @Tags Payments
// @Accept json
// @Produce json
// @Param payload body service.RecordPaymentRequest true "Payment payload"
// @Success 201 {object} response.Envelope
// @Router /payments [post]
func (h *PaymentHandler) Record(c *gin.Context) {
	var req service.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	payment, err := h.payments.Record(c.Request.Context(), studioFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, payment)
}
