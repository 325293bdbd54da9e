// Package booking implements the scheduling engine: the booking state
// machine, conflict detection against the interval index, and the
// checkout and damage-report linkage.  It is the only code path
// allowed to create or transition bookings; handlers never re-derive
// booking validity themselves.
package booking

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the engine.  Handlers translate these
// into HTTP status codes; none of them are retriable without changed
// input except ErrTimeout and ErrStorageUnavailable.
var (
	// ErrInvalidRange is returned when a time window is malformed:
	// start >= end, or start in the past when past-dated bookings are
	// disallowed by policy.
	ErrInvalidRange = errors.New("invalid time range")

	// ErrInvalidSeverity is returned when a damage report names an
	// unknown severity grade.
	ErrInvalidSeverity = errors.New("invalid severity")

	// ErrInvalidTransition is returned for an illegal state change,
	// such as deciding a non-pending booking or checking out a booking
	// that was never approved.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrNotFound is returned when the referenced booking, report or
	// room does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when the caller does not own the
	// resource, e.g. checking out someone else's booking.
	ErrForbidden = errors.New("forbidden")

	// ErrTimeout is returned when a storage call exceeded the caller's
	// deadline.  The caller may retry the whole operation.
	ErrTimeout = errors.New("storage timeout")

	// ErrStorageUnavailable is returned on transient storage failures.
	// Retrying is safe: Submit and Checkout detect their own prior
	// success via the idempotency key and the unique checkout row.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// ConflictError is returned when a requested window overlaps one or
// more active bookings for the same room.  It carries the conflicting
// booking IDs so the caller can show the occupied slots.
type ConflictError struct {
	RoomID      uint64
	ConflictIDs []uint64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("room %d already booked for the requested window (conflicts: %v)", e.RoomID, e.ConflictIDs)
}

// IsConflict reports whether err is a ConflictError and returns it.
func IsConflict(err error) (*ConflictError, bool) {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
