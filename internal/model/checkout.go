package model

import "time"

// Checkout is the completion evidence attached to a booking after the
// room has been used.  Exactly one checkout may exist per booking, and
// creating one transitions the booking from approved to completed in
// the same database transaction.
//
// Fields:
//  ID            – primary key identifier.
//  BookingID     – booking being finalised (unique).
//  RequesterID   – user who checked out; must match the booking's requester.
//  Notes         – optional free-text handover notes.
//  CleanProofURL – public URL of the cleanliness photo.
//  CreatedAt     – creation timestamp.
type Checkout struct {
	ID            uint64    `json:"id"`
	BookingID     uint64    `json:"booking_id"`
	RequesterID   uint64    `json:"requester_id"`
	Notes         string    `json:"notes"`
	CleanProofURL string    `json:"clean_proof_url"`
	CreatedAt     time.Time `json:"created_at"`
}
