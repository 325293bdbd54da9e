package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kelompok/venuehub/internal/booking"
	"github.com/kelompok/venuehub/internal/model"
	"github.com/kelompok/venuehub/internal/repository"
)

// StudentHandler serves the booking endpoints available to logged-in
// students: submitting requests, listing their history and checking
// out of finished bookings.  All booking semantics live in the
// engine; this layer only binds input and shapes responses.
type StudentHandler struct {
	Engine   *booking.Engine
	Bookings *repository.BookingRepo
}

func NewStudentHandler(engine *booking.Engine, bookings *repository.BookingRepo) *StudentHandler {
	if engine == nil || bookings == nil {
		panic("nil dependency passed to NewStudentHandler")
	}
	return &StudentHandler{Engine: engine, Bookings: bookings}
}

type submitBookingReq struct {
	RoomID    uint64    `json:"room_id"`
	EventName string    `json:"event_name"`
	Start     time.Time `json:"start_time"`
	End       time.Time `json:"end_time"`
	KTMURL    *string   `json:"ktm_url"`
}

type checkoutReq struct {
	Notes         string `json:"notes"`
	CleanProofURL string `json:"clean_proof_url"`
}

// SubmitBooking handles POST /v1/bookings.  A client may pass an
// Idempotency-Key header; retrying with the same key returns the
// booking created by the first attempt instead of a conflict.
func (h *StudentHandler) SubmitBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req submitBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.EventName = strings.TrimSpace(req.EventName)
	if req.RoomID == 0 || req.EventName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_id and event_name required"})
	}
	if req.Start.IsZero() || req.End.IsZero() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_time and end_time required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	b, err := h.Engine.Submit(ctx, booking.SubmitInput{
		RoomID:         req.RoomID,
		RequesterID:    userID,
		EventName:      req.EventName,
		Start:          req.Start,
		End:            req.End,
		KTMURL:         req.KTMURL,
		IdempotencyKey: strings.TrimSpace(c.Request().Header.Get("Idempotency-Key")),
	})
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusCreated, b)
}

// MyBookings handles GET /v1/my-bookings.  Bookings come back joined
// with the room name and any checkout record, pending first.
func (h *StudentHandler) MyBookings(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	items, err := h.Bookings.ListDetailsByRequester(ctx, userID)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetBooking handles GET /v1/bookings/:id.  Students see only their
// own bookings; admins see everything.
func (h *StudentHandler) GetBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	b, err := h.Bookings.GetBooking(ctx, id)
	if err != nil {
		return engineError(c, err)
	}
	if role, _ := c.Get("role").(string); role != "ADMIN" && b.RequesterID != userID {
		// Hide other users' bookings entirely rather than admit they exist.
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}
	return c.JSON(http.StatusOK, b)
}

// Checkout handles POST /v1/bookings/:id/checkout.  The engine
// transitions the booking from approved to completed and stores the
// cleanliness proof in one transaction; a retry after success returns
// the original checkout record with 200 instead of 201.
func (h *StudentHandler) Checkout(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req checkoutReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.CleanProofURL) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "clean_proof_url required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	before, err := h.Bookings.GetBooking(ctx, id)
	if err != nil {
		return engineError(c, err)
	}
	alreadyDone := before.Status == model.BookingCompleted

	co, err := h.Engine.Checkout(ctx, booking.CheckoutInput{
		BookingID:     id,
		RequesterID:   userID,
		Notes:         strings.TrimSpace(req.Notes),
		CleanProofURL: strings.TrimSpace(req.CleanProofURL),
	})
	if err != nil {
		return engineError(c, err)
	}
	status := http.StatusCreated
	if alreadyDone {
		status = http.StatusOK
	}
	return c.JSON(status, co)
}
