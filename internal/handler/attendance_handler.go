package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cvb-admin/fire-company-api/internal/dto"
	"github.com/cvb-admin/fire-company-api/internal/service"
	appErrors "github.com/cvb-admin/fire-company-api/pkg/errors"
	"github.com/cvb-admin/fire-company-api/pkg/response"
)

// AttendanceHandler exposes attendance recording endpoints under events.
type AttendanceHandler struct {
	service *service.AttendanceService
}

// NewAttendanceHandler constructs an attendance handler.
func NewAttendanceHandler(svc *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: svc}
}

// List godoc
// @Summary Event roster with recorded outcomes
// @Tags Attendance
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Router /events/{id}/attendance [get]
func (h *AttendanceHandler) List(c *gin.Context) {
	entries, err := h.service.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// Set godoc
// @Summary Record attendance for one roster member
// @Tags Attendance
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param firefighterId path string true "Firefighter ID"
// @Param payload body dto.SetAttendanceRequest true "Attendance payload"
// @Success 200 {object} response.Envelope
// @Router /events/{id}/attendees/{firefighterId}/attendance [put]
func (h *AttendanceHandler) Set(c *gin.Context) {
	var req dto.SetAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	entry, err := h.service.Set(c.Request.Context(), c.Param("id"), c.Param("firefighterId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}

// BulkSet godoc
// @Summary Record attendance for many roster members
// @Tags Attendance
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param payload body dto.BulkAttendanceRequest true "Bulk attendance payload"
// @Success 200 {object} response.Envelope
// @Router /events/{id}/attendance/bulk [post]
func (h *AttendanceHandler) BulkSet(c *gin.Context) {
	var req dto.BulkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.service.BulkSet(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Summary godoc
// @Summary Derived attendance totals for the event
// @Tags Attendance
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Router /events/{id}/attendance/summary [get]
func (h *AttendanceHandler) Summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// Sheet godoc
// @Summary Printable attendance sheet
// @Tags Attendance
// @Produce application/pdf
// @Param id path string true "Event ID"
// @Param format query string false "pdf or csv" default(pdf)
// @Success 200 {file} binary
// @Router /events/{id}/attendance/sheet [get]
func (h *AttendanceHandler) Sheet(c *gin.Context) {
	format := service.SheetFormat(c.DefaultQuery("format", "pdf"))
	data, contentType, err := h.service.Sheet(c.Request.Context(), c.Param("id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	ext := "pdf"
	if format == service.SheetFormatCSV {
		ext = "csv"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=attendance-%s.%s", c.Param("id"), ext))
	c.Data(http.StatusOK, contentType, data)
}
