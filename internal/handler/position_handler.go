package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cvb-admin/fire-company-api/internal/dto"
	"github.com/cvb-admin/fire-company-api/internal/models"
	"github.com/cvb-admin/fire-company-api/internal/service"
	appErrors "github.com/cvb-admin/fire-company-api/pkg/errors"
	"github.com/cvb-admin/fire-company-api/pkg/response"
)

// PositionHandler exposes the position catalog and assignment endpoints.
type PositionHandler struct {
	positions   *service.PositionService
	assignments *service.AssignmentService
}

// NewPositionHandler constructs a position handler.
func NewPositionHandler(positions *service.PositionService, assignments *service.AssignmentService) *PositionHandler {
	return &PositionHandler{positions: positions, assignments: assignments}
}

// List godoc
// @Summary List catalog positions with current holders
// @Tags Positions
// @Produce json
// @Param branch query string false "Filter by branch"
// @Param active query bool false "Filter by active flag"
// @Success 200 {object} response.Envelope
// @Router /positions [get]
func (h *PositionHandler) List(c *gin.Context) {
	var filter models.PositionFilter
	if branch := c.Query("branch"); branch != "" {
		b := models.Branch(branch)
		if !b.Valid() {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown branch"))
			return
		}
		filter.Branch = &b
	}
	if active := c.Query("active"); active != "" {
		parsed, err := strconv.ParseBool(active)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "active must be a boolean"))
			return
		}
		filter.Active = &parsed
	}

	positions, err := h.positions.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	byBranch := map[models.Branch]int{}
	for _, p := range positions {
		byBranch[p.Branch]++
	}
	response.JSON(c, http.StatusOK, positions, nil, map[string]interface{}{"byBranch": byBranch})
}

// Get godoc
// @Summary Get position detail
// @Tags Positions
// @Produce json
// @Param id path string true "Position ID"
// @Success 200 {object} response.Envelope
// @Router /positions/{id} [get]
func (h *PositionHandler) Get(c *gin.Context) {
	detail, err := h.positions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Create godoc
// @Summary Create position
// @Tags Positions
// @Accept json
// @Produce json
// @Param payload body dto.CreatePositionRequest true "Position payload"
// @Success 201 {object} response.Envelope
// @Router /positions [post]
func (h *PositionHandler) Create(c *gin.Context) {
	var req dto.CreatePositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	position, err := h.positions.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, position)
}

// Update godoc
// @Summary Update position
// @Tags Positions
// @Accept json
// @Produce json
// @Param id path string true "Position ID"
// @Param payload body dto.UpdatePositionRequest true "Position payload"
// @Success 200 {object} response.Envelope
// @Router /positions/{id} [put]
func (h *PositionHandler) Update(c *gin.Context) {
	var req dto.UpdatePositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	position, err := h.positions.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, position, nil)
}

// Delete godoc
// @Summary Delete position
// @Tags Positions
// @Produce json
// @Param id path string true "Position ID"
// @Success 204
// @Router /positions/{id} [delete]
func (h *PositionHandler) Delete(c *gin.Context) {
	if err := h.positions.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Stats godoc
// @Summary Catalog occupancy statistics
// @Tags Positions
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /positions/stats [get]
func (h *PositionHandler) Stats(c *gin.Context) {
	stats, err := h.positions.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// Assign godoc
// @Summary Assign a firefighter to the position
// @Tags Positions
// @Accept json
// @Produce json
// @Param id path string true "Position ID"
// @Param payload body dto.AssignPositionRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Router /positions/{id}/assign [post]
func (h *PositionHandler) Assign(c *gin.Context) {
	var req dto.AssignPositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	assignment, err := h.assignments.Assign(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assignment)
}

// Release godoc
// @Summary Release the active assignment on the position
// @Tags Positions
// @Accept json
// @Produce json
// @Param id path string true "Position ID"
// @Param payload body dto.ReleasePositionRequest false "Release payload"
// @Success 200 {object} response.Envelope
// @Router /positions/{id}/release [put]
func (h *PositionHandler) Release(c *gin.Context) {
	var req dto.ReleasePositionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
			return
		}
	}
	assignment, err := h.assignments.Release(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignment, nil)
}

// Holder godoc
// @Summary Current holder of the position
// @Tags Positions
// @Produce json
// @Param id path string true "Position ID"
// @Success 200 {object} response.Envelope
// @Router /positions/{id}/holder [get]
func (h *PositionHandler) Holder(c *gin.Context) {
	holder, err := h.assignments.ActiveHolder(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, holder, nil)
}

// History godoc
// @Summary Full assignment history of the position
// @Tags Positions
// @Produce json
// @Param id path string true "Position ID"
// @Success 200 {object} response.Envelope
// @Router /positions/{id}/history [get]
func (h *PositionHandler) History(c *gin.Context) {
	history, err := h.assignments.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, history, nil)
}
