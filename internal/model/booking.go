package model

import "time"

// BookingStatus is the closed set of states a booking moves through.
// The transition rules live in CanTransition; nothing else in the
// codebase is allowed to flip a booking's status by string comparison.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"   // initial state, awaiting admin decision
	BookingApproved  BookingStatus = "approved"  // admin accepted the request
	BookingRejected  BookingStatus = "rejected"  // admin declined; the slot is freed
	BookingCompleted BookingStatus = "completed" // checkout submitted after use
)

// Valid reports whether s is one of the known booking statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingApproved, BookingRejected, BookingCompleted:
		return true
	}
	return false
}

// Terminal reports whether s has no outgoing transitions.
func (s BookingStatus) Terminal() bool {
	return s == BookingRejected || s == BookingCompleted
}

// Active reports whether a booking in this status still occupies its
// time slot.  Only rejected bookings release their interval.
func (s BookingStatus) Active() bool {
	return s == BookingPending || s == BookingApproved || s == BookingCompleted
}

// CanTransition reports whether moving from s to next is a legal state
// change: pending may become approved or rejected, approved may become
// completed (via checkout only).  Terminal states never transition.
func (s BookingStatus) CanTransition(next BookingStatus) bool {
	switch s {
	case BookingPending:
		return next == BookingApproved || next == BookingRejected
	case BookingApproved:
		return next == BookingCompleted
	}
	return false
}

// Booking records a student's request to use a room for a time window.
// Start and End form a half-open interval [Start, End) in UTC; a
// booking ending exactly when another begins does not conflict with it.
// Bookings are never deleted; rejection and completion are recorded as
// statuses so the history screens can show them.
//
// Fields:
//  ID             – primary key identifier.
//  RoomID         – room being requested.
//  RequesterID    – user who submitted the request.
//  EventName      – what the room will be used for.
//  Start          – beginning of the window (inclusive, UTC).
//  End            – end of the window (exclusive, UTC).
//  Status         – current lifecycle state.
//  KTMURL         – public URL of the uploaded student-card proof, if any.
//  IdempotencyKey – client-supplied token used to detect duplicate
//                   submissions on network retry (nullable).
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Booking struct {
	ID             uint64        `json:"id"`
	RoomID         uint64        `json:"room_id"`
	RequesterID    uint64        `json:"requester_id"`
	EventName      string        `json:"event_name"`
	Start          time.Time     `json:"start_time"`
	End            time.Time     `json:"end_time"`
	Status         BookingStatus `json:"status"`
	KTMURL         *string       `json:"ktm_url,omitempty"`
	IdempotencyKey *string       `json:"-"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// Overlaps reports whether two half-open intervals [s1,e1) and [s2,e2)
// intersect: s1 < e2 && s2 < e1.  Touching intervals do not overlap.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}
