package router

import (
	"github.com/labstack/echo/v4"

	"github.com/kelompok/venuehub/internal/handler"
	"github.com/kelompok/venuehub/internal/middleware"
)

// RegisterAdmin registers the moderation endpoints: room catalog
// management, the booking decision queue and damage-report review.
// All routes require a valid JWT with the ADMIN role.
func RegisterAdmin(e *echo.Echo, rooms *handler.AdminRoomHandler, bookings *handler.AdminBookingHandler, reports *handler.ReportHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)
	g.POST("/admin/rooms", rooms.CreateRoom)
	g.PUT("/admin/rooms/:id", rooms.UpdateRoom)
	g.DELETE("/admin/rooms/:id", rooms.DeleteRoom)

	g.GET("/admin/bookings", bookings.ListBookings)
	g.POST("/bookings/:id/decision", bookings.Decide)

	g.GET("/reports", reports.ListReports)
	g.POST("/reports/:id/fix", reports.FixReport)
}
