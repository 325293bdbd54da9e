// Package repository implements the MySQL persistence layer.  Each
// repo owns the SQL for one aggregate and translates driver failures
// into the engine's sentinel errors so that handlers never inspect
// database errors directly.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/kelompok/venuehub/internal/booking"
)

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own.  Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrRoomInUse is returned when deleting a room that still has
// bookings attached to it.
var ErrRoomInUse = errors.New("room has bookings")

// translate maps low-level database failures onto the engine's error
// taxonomy.  MySQL error numbers are matched on the message text, the
// same way duplicates (1062) are detected elsewhere in this package:
// 1205 is a lock wait timeout and 1213 a deadlock, both transient and
// retriable by the caller.
func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return booking.ErrNotFound
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return booking.ErrTimeout
	}
	msg := err.Error()
	if strings.Contains(msg, "1205") || strings.Contains(msg, "1213") || strings.Contains(msg, "bad connection") {
		return booking.ErrStorageUnavailable
	}
	return fmt.Errorf("%s: %w", op, err)
}

// isDuplicate reports whether err is a MySQL duplicate-key violation.
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
