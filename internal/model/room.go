package model

import "time"

// Room represents a bookable room in the campus catalog.  Rooms are
// created and maintained by administrators; students browse them and
// request bookings against them.  Facilities is a free-text
// description of what the room offers (projector, AC, whiteboard).
//
// Fields:
//  ID         – primary key identifier.
//  Name       – display name shown to students.
//  Capacity   – maximum number of occupants.
//  Category   – grouping used on the browse screens (e.g. "classroom",
//               "lab", "auditorium").
//  Facilities – free-text facilities description.
//  ImageURL   – public URL of the room photo, if any.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Room struct {
	ID         uint64    `json:"id"`
	Name       string    `json:"name"`
	Capacity   uint32    `json:"capacity"`
	Category   string    `json:"category"`
	Facilities string    `json:"facilities"`
	ImageURL   *string   `json:"image_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
