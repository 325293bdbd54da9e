// This file defines the public browsing API.  These routes let
// unauthenticated users explore the room catalog and check window
// availability before logging in to book.

package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kelompok/venuehub/internal/model"
	"github.com/kelompok/venuehub/internal/repository"
)

// PublicHandler aggregates the read-only dependencies for
// unauthenticated browsing.
type PublicHandler struct {
	Rooms    *repository.RoomRepo
	Bookings *repository.BookingRepo
}

func NewPublicHandler(rooms *repository.RoomRepo, bookings *repository.BookingRepo) *PublicHandler {
	if rooms == nil || bookings == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{Rooms: rooms, Bookings: bookings}
}

// busySlot is one occupied window in an availability response.  The
// requester identity is deliberately not exposed.
type busySlot struct {
	BookingID uint64    `json:"booking_id"`
	Start     time.Time `json:"start_time"`
	End       time.Time `json:"end_time"`
	Status    string    `json:"status"`
}

// ListRooms handles GET /v1/rooms.  An optional ?category= query
// filters the catalog.
func (h *PublicHandler) ListRooms(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	rooms, err := h.Rooms.List(ctx, c.QueryParam("category"))
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": rooms})
}

// GetRoom handles GET /v1/rooms/:id.
func (h *PublicHandler) GetRoom(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	room, err := h.Rooms.GetByID(ctx, id)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, room)
}

// RoomAvailability handles GET /v1/rooms/:id/availability?from=&to=.
// It returns the active bookings whose windows overlap the queried
// range, so clients can render an occupancy calendar.  Timestamps are
// RFC 3339; the range defaults to the next 7 days.
func (h *PublicHandler) RoomAvailability(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}

	now := time.Now().UTC()
	from, to := now, now.Add(7*24*time.Hour)
	if v := c.QueryParam("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid from timestamp"})
		}
		from = t.UTC()
	}
	if v := c.QueryParam("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid to timestamp"})
		}
		to = t.UTC()
	}
	if !from.Before(to) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "from must precede to"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if _, err := h.Rooms.GetByID(ctx, id); err != nil {
		return engineError(c, err)
	}
	bookings, err := h.Bookings.ListBookingsByRoom(ctx, id)
	if err != nil {
		return engineError(c, err)
	}

	busy := make([]busySlot, 0)
	for _, b := range bookings {
		if !b.Status.Active() {
			continue
		}
		if model.Overlaps(b.Start, b.End, from, to) {
			busy = append(busy, busySlot{
				BookingID: b.ID,
				Start:     b.Start,
				End:       b.End,
				Status:    string(b.Status),
			})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"room_id": id,
		"from":    from,
		"to":      to,
		"busy":    busy,
	})
}
