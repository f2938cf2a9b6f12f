package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/cvb-admin/fire-company-api/internal/middleware"
	"github.com/cvb-admin/fire-company-api/internal/models"
	"github.com/cvb-admin/fire-company-api/internal/service"
)

// Handlers bundles the HTTP handlers registered on the router.
type Handlers struct {
	Positions  *PositionHandler
	Events     *EventHandler
	Attendance *AttendanceHandler
}

// RegisterRoutes mounts the API surface. All routes require a valid token;
// mutating routes additionally require the ADMIN or OFFICER role.
func RegisterRoutes(router gin.IRouter, h Handlers, auth *service.AuthService) {
	secured := router.Group("", middleware.JWT(auth))
	mutating := middleware.RequireRoles(models.RoleAdmin, models.RoleOfficer)

	positions := secured.Group("/positions")
	{
		positions.GET("", h.Positions.List)
		positions.GET("/stats", h.Positions.Stats)
		positions.GET("/:id", h.Positions.Get)
		positions.GET("/:id/holder", h.Positions.Holder)
		positions.GET("/:id/history", h.Positions.History)
		positions.POST("", mutating, h.Positions.Create)
		positions.PUT("/:id", mutating, h.Positions.Update)
		positions.DELETE("/:id", mutating, h.Positions.Delete)
		positions.POST("/:id/assign", mutating, h.Positions.Assign)
		positions.PUT("/:id/release", mutating, h.Positions.Release)
	}

	events := secured.Group("/events")
	{
		events.GET("", h.Events.List)
		events.GET("/stats", h.Events.Stats)
		events.GET("/:id", h.Events.Get)
		events.POST("", mutating, h.Events.Create)
		events.PUT("/:id", mutating, h.Events.Update)
		events.POST("/:id/cancel", mutating, h.Events.Cancel)
		events.DELETE("/:id", mutating, h.Events.Delete)
		events.PUT("/:id/roster", mutating, h.Events.ReplaceRoster)

		events.GET("/:id/attendance", h.Attendance.List)
		events.GET("/:id/attendance/summary", h.Attendance.Summary)
		events.GET("/:id/attendance/sheet", h.Attendance.Sheet)
		events.PUT("/:id/attendees/:firefighterId/attendance", mutating, h.Attendance.Set)
		events.POST("/:id/attendance/bulk", mutating, h.Attendance.BulkSet)
	}
}
