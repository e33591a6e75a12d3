package handler

import (
	"fmt"
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

// AttendanceHandler exposes check-in and attendance endpoints.
type AttendanceHandler struct {
	checkIns   *service.CheckInService
	attendance *service.AttendanceService
}

// NewAttendanceHandler constructs AttendanceHandler.
func NewAttendanceHandler(checkIns *service.CheckInService, attendance *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{checkIns: checkIns, attendance: attendance}
}

// CheckIn godoc
// @Summary Check a member in to a session
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body service.CheckInRequest true "Check-in payload"
// @Success 201 {object} response.Envelope
// @Success 200 {object} response.Envelope "Already checked in"
// @Failure 400 {object} response.Envelope
// @Router /attendance/check-in [post]
func (h *AttendanceHandler) CheckIn(c *gin.Context) {
	var req service.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	record, alreadyCheckedIn, err := h.checkIns.CheckIn(c.Request.Context(), studioFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if alreadyCheckedIn {
		response.JSON(c, http.StatusOK, record, nil, map[string]interface{}{"already_checked_in": true})
		return
	}
	response.Created(c, record)
}

// List godoc
// @Summary List attendance records
// @Tags Attendance
// @Produce json
// @Param status query string false "Filter by status"
// @Param session_id query string false "Filter by session UUID"
// @Param member_id query string false "Filter by member UUID"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /attendance [get]
func (h *AttendanceHandler) List(c *gin.Context) {
	filter, err := attendanceFilterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	records, pagination, err := h.attendance.List(c.Request.Context(), studioFromContext(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, pagination)
}

// Cancel godoc
// @Summary Cancel an attendance record
// @Tags Attendance
// @Produce json
// @Param id path string true "Attendance ID"
// @Success 200 {object} response.Envelope
// @Router /attendance/{id}/cancel [post]
func (h *AttendanceHandler) Cancel(c *gin.Context) {
	record, err := h.attendance.Cancel(c.Request.Context(), studioFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// NoShow godoc
// @Summary Mark an attendance record as no-show
// @Tags Attendance
// @Produce json
// @Param id path string true "Attendance ID"
// @Success 200 {object} response.Envelope
// @Router /attendance/{id}/no-show [post]
func (h *AttendanceHandler) NoShow(c *gin.Context) {
	record, err := h.attendance.MarkNoShow(c.Request.Context(), studioFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Export godoc
// @Summary Export attendance records
// @Tags Attendance
// @Produce text/csv
// @Produce application/pdf
// @Param format query string true "Export format (csv or pdf)"
// @Param status query string false "Filter by status"
// @Param session_id query string false "Filter by session UUID"
// @Param member_id query string false "Filter by member UUID"
// @Success 200 {file} byte
// @Router /attendance/export [get]
func (h *AttendanceHandler) Export(c *gin.Context) {
	filter, err := attendanceFilterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	format := strings.ToLower(c.DefaultQuery("format", "csv"))

	payload, contentType, err := h.attendance.Export(c.Request.Context(), studioFromContext(c), filter, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("attendance-%s.%s", time.Now().UTC().Format("20060102"), format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}

func attendanceFilterFromQuery(c *gin.Context) (models.AttendanceFilter, error) {
	var filter models.AttendanceFilter
	if status := strings.ToUpper(c.Query("status")); status != "" {
		parsed := models.AttendanceStatus(status)
		if !parsed.Valid() {
			return filter, appErrors.Clone(appErrors.ErrValidation, "invalid status filter, expected: CHECKED_IN, CANCELLED, NO_SHOW")
		}
		filter.Status = parsed
	}
	if sessionID := c.Query("session_id"); sessionID != "" {
		if _, err := uuid.Parse(sessionID); err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, "invalid session_id filter, expected a UUID")
		}
		filter.SessionID = sessionID
	}
	if memberID := c.Query("member_id"); memberID != "" {
		if _, err := uuid.Parse(memberID); err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, "invalid member_id filter, expected a UUID")
		}
		filter.MemberID = memberID
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}
	return filter, nil
}
