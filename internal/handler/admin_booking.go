package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kelompok/venuehub/internal/booking"
	"github.com/kelompok/venuehub/internal/model"
	"github.com/kelompok/venuehub/internal/queue"
	"github.com/kelompok/venuehub/internal/repository"
	queue_publisher "github.com/kelompok/venuehub/internal/service"
)

// AdminBookingHandler serves the moderation endpoints: reviewing the
// booking queue and deciding pending requests.
type AdminBookingHandler struct {
	Engine   *booking.Engine
	Bookings *repository.BookingRepo
	Rooms    *repository.RoomRepo
	AMQPURL  string
}

func NewAdminBookingHandler(engine *booking.Engine, bookings *repository.BookingRepo, rooms *repository.RoomRepo, amqpURL string) *AdminBookingHandler {
	if engine == nil || bookings == nil || rooms == nil {
		panic("nil dependency passed to NewAdminBookingHandler")
	}
	return &AdminBookingHandler{Engine: engine, Bookings: bookings, Rooms: rooms, AMQPURL: amqpURL}
}

type decisionReq struct {
	Decision string `json:"decision"` // approved | rejected
}

// ListBookings handles GET /v1/admin/bookings.  The whole queue comes
// back with room names and checkout info, pending requests first.
func (h *AdminBookingHandler) ListBookings(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	items, err := h.Bookings.ListAllDetails(ctx)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Decide handles POST /v1/bookings/:id/decision.  Approving keeps the
// window occupied; rejecting frees it for other requests immediately.
// Retrying the same decision is a no-op success.  Each applied
// decision is also published to the booking.decided queue; publish
// failures are logged by the publisher and never fail the request.
func (h *AdminBookingHandler) Decide(c echo.Context) error {
	adminID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req decisionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	decision := model.BookingStatus(strings.ToLower(strings.TrimSpace(req.Decision)))
	if decision != model.BookingApproved && decision != model.BookingRejected {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "decision must be approved or rejected"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	b, err := h.Engine.Decide(ctx, id, decision, adminID)
	if err != nil {
		return engineError(c, err)
	}

	roomName := ""
	if room, err := h.Rooms.GetByID(ctx, b.RoomID); err == nil {
		roomName = room.Name
	}
	ev := queue.BookingDecidedEvent{
		BookingID:   b.ID,
		RoomID:      b.RoomID,
		RoomName:    roomName,
		RequesterID: b.RequesterID,
		EventName:   b.EventName,
		StartsAt:    b.Start.Format(time.RFC3339),
		EndsAt:      b.End.Format(time.RFC3339),
		Decision:    string(decision),
		DecidedBy:   adminID,
		DecidedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		pctx, pcancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer pcancel()
		_ = queue_publisher.PublishBookingDecided(pctx, h.AMQPURL, ev)
	}()

	return c.JSON(http.StatusOK, b)
}
