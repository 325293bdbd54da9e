// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingDecidedEvent is published when an admin approves or rejects
// a booking.  It carries enough detail for downstream consumers to
// log or notify without querying the primary database.
type BookingDecidedEvent struct {
	BookingID   uint64 `json:"booking_id"`
	RoomID      uint64 `json:"room_id"`
	RoomName    string `json:"room_name"`
	RequesterID uint64 `json:"requester_id"`
	EventName   string `json:"event_name"`
	StartsAt    string `json:"starts_at"`
	EndsAt      string `json:"ends_at"`
	Decision    string `json:"decision"`
	DecidedBy   uint64 `json:"decided_by"`
	DecidedAt   string `json:"decided_at"`
}
