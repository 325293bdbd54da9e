package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kelompok/venuehub/internal/booking"
	"github.com/kelompok/venuehub/internal/model"
	"github.com/kelompok/venuehub/internal/repository"
)

// ReportHandler serves damage reports: students file and list their
// own, admins review everything and mark damage fixed.  Reports have
// their own open/fixed lifecycle, independent of any booking.
type ReportHandler struct {
	Reports *booking.Reports
	Rooms   *repository.RoomRepo
}

func NewReportHandler(reports *booking.Reports, rooms *repository.RoomRepo) *ReportHandler {
	if reports == nil || rooms == nil {
		panic("nil dependency passed to NewReportHandler")
	}
	return &ReportHandler{Reports: reports, Rooms: rooms}
}

type fileReportReq struct {
	RoomID      uint64  `json:"room_id"`
	Description string  `json:"description"`
	Severity    string  `json:"severity"` // light | medium | severe
	ProofURL    *string `json:"proof_url"`
}

// FileReport handles POST /v1/reports.
func (h *ReportHandler) FileReport(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req fileReportReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Description = strings.TrimSpace(req.Description)
	if req.RoomID == 0 || req.Description == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_id and description required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	// The room must exist; dangling reports help nobody.
	if _, err := h.Rooms.GetByID(ctx, req.RoomID); err != nil {
		return engineError(c, err)
	}

	rep, err := h.Reports.File(ctx, booking.FileInput{
		RoomID:      req.RoomID,
		ReporterID:  userID,
		Description: req.Description,
		Severity:    model.DamageSeverity(strings.ToLower(strings.TrimSpace(req.Severity))),
		ProofURL:    req.ProofURL,
	})
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusCreated, rep)
}

// MyReports handles GET /v1/my-reports.
func (h *ReportHandler) MyReports(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	items, err := h.Reports.ListForReporter(ctx, userID)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListReports handles GET /v1/reports (admin).  Open reports come
// first so outstanding damage is visible at the top.
func (h *ReportHandler) ListReports(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	items, err := h.Reports.List(ctx)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// FixReport handles POST /v1/reports/:id/fix (admin).  Fixed is
// terminal; fixing an already-fixed report yields 409.
func (h *ReportHandler) FixReport(c echo.Context) error {
	adminID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid report id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	rep, err := h.Reports.MarkFixed(ctx, id, adminID)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, rep)
}
