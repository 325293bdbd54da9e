package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kelompok/venuehub/internal/model"
	"github.com/kelompok/venuehub/internal/repository"
)

// AdminRoomHandler manages the room catalog.
type AdminRoomHandler struct {
	Rooms *repository.RoomRepo
}

func NewAdminRoomHandler(rooms *repository.RoomRepo) *AdminRoomHandler {
	if rooms == nil {
		panic("nil repository passed to NewAdminRoomHandler")
	}
	return &AdminRoomHandler{Rooms: rooms}
}

type roomReq struct {
	Name       string  `json:"name"`
	Capacity   uint32  `json:"capacity"`
	Category   string  `json:"category"`
	Facilities string  `json:"facilities"`
	ImageURL   *string `json:"image_url"`
}

func (r *roomReq) validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Category = strings.TrimSpace(r.Category)
	if r.Name == "" {
		return errors.New("name required")
	}
	if r.Capacity == 0 {
		return errors.New("capacity must be positive")
	}
	return nil
}

// CreateRoom handles POST /v1/admin/rooms.
func (h *AdminRoomHandler) CreateRoom(c echo.Context) error {
	var req roomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	room := &model.Room{
		Name:       req.Name,
		Capacity:   req.Capacity,
		Category:   req.Category,
		Facilities: req.Facilities,
		ImageURL:   req.ImageURL,
	}
	if err := h.Rooms.Create(ctx, room); err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusCreated, room)
}

// UpdateRoom handles PUT /v1/admin/rooms/:id.
func (h *AdminRoomHandler) UpdateRoom(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	var req roomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	room := &model.Room{
		ID:         id,
		Name:       req.Name,
		Capacity:   req.Capacity,
		Category:   req.Category,
		Facilities: req.Facilities,
		ImageURL:   req.ImageURL,
	}
	if err := h.Rooms.Update(ctx, room); err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, room)
}

// DeleteRoom handles DELETE /v1/admin/rooms/:id.  Rooms with booking
// history cannot be removed.
func (h *AdminRoomHandler) DeleteRoom(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Rooms.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrRoomInUse) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "room has bookings"})
		}
		return engineError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
