// Package handler exposes the HTTP API.  Handlers validate and bind
// input, delegate all booking semantics to the engine, and translate
// engine errors into status codes.  JWT authentication and role
// checks happen in middleware before any handler here runs.
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kelompok/venuehub/internal/booking"
	"github.com/kelompok/venuehub/internal/repository"
)

// dbTimeout bounds every storage call made from a handler.
const dbTimeout = 5 * time.Second

// getUserID extracts the user_id claim stored by the JWT middleware.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses the :id path parameter as a positive integer.
func pathID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// engineError maps an engine or repository error onto an HTTP
// response.  Conflicts carry the IDs of the bookings occupying the
// window so clients can show what is in the way.
func engineError(c echo.Context, err error) error {
	if ce, ok := booking.IsConflict(err); ok {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":     "room already booked",
			"room_id":   ce.RoomID,
			"conflicts": ce.ConflictIDs,
		})
	}
	switch {
	case errors.Is(err, booking.ErrInvalidRange):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid time range"})
	case errors.Is(err, booking.ErrInvalidSeverity):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid severity"})
	case errors.Is(err, booking.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, booking.ErrForbidden), errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, booking.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, echo.Map{"error": "invalid status transition"})
	case errors.Is(err, booking.ErrTimeout):
		return c.JSON(http.StatusGatewayTimeout, echo.Map{"error": "storage timeout"})
	case errors.Is(err, booking.ErrStorageUnavailable):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage unavailable, retry"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
