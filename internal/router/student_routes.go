package router

import (
	"github.com/labstack/echo/v4"

	"github.com/kelompok/venuehub/internal/handler"
	"github.com/kelompok/venuehub/internal/middleware"
)

// RegisterStudent registers the endpoints students use to request
// rooms, follow their bookings, check out and report damage.  All
// routes require a valid JWT with the STUDENT role.
func RegisterStudent(e *echo.Echo, b *handler.StudentHandler, r *handler.ReportHandler, u *handler.UploadHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("STUDENT"),
	)
	g.POST("/bookings", b.SubmitBooking)
	g.GET("/my-bookings", b.MyBookings)
	g.GET("/bookings/:id", b.GetBooking)
	g.POST("/bookings/:id/checkout", b.Checkout)

	g.POST("/reports", r.FileReport)
	g.GET("/my-reports", r.MyReports)

	// Proof images (KTM, cleanliness, damage) are uploaded first; the
	// returned URL is then attached to the booking or report.
	g.POST("/uploads/:kind", u.Upload)
}
