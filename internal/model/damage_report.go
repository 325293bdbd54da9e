package model

import "time"

// DamageSeverity grades how badly a room is damaged.
type DamageSeverity string

const (
	SeverityLight  DamageSeverity = "light"
	SeverityMedium DamageSeverity = "medium"
	SeveritySevere DamageSeverity = "severe"
)

// Valid reports whether s is one of the known severities.
func (s DamageSeverity) Valid() bool {
	switch s {
	case SeverityLight, SeverityMedium, SeveritySevere:
		return true
	}
	return false
}

// ReportStatus is the state of a damage report.  Reports only move
// from open to fixed; fixed is terminal and reports are never reopened.
type ReportStatus string

const (
	ReportOpen  ReportStatus = "open"
	ReportFixed ReportStatus = "fixed"
)

// DamageReport records damage observed in a room.  Its lifecycle is
// independent from bookings: anyone may file one at any time, with or
// without an active reservation.
//
// Fields:
//  ID          – primary key identifier.
//  RoomID      – room the damage was found in.
//  ReporterID  – user who filed the report.
//  Description – free-text description of the damage.
//  Severity    – light, medium or severe.
//  Status      – open or fixed.
//  ProofURL    – public URL of the damage photo, if any.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type DamageReport struct {
	ID          uint64         `json:"id"`
	RoomID      uint64         `json:"room_id"`
	ReporterID  uint64         `json:"reporter_id"`
	Description string         `json:"description"`
	Severity    DamageSeverity `json:"severity"`
	Status      ReportStatus   `json:"status"`
	ProofURL    *string        `json:"proof_url,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
