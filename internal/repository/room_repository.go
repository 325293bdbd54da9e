package repository

import (
	"context"
	"database/sql"

	"github.com/kelompok/venuehub/internal/booking"
	"github.com/kelompok/venuehub/internal/model"
)

// RoomRepo provides CRUD operations for the room catalog.  Rooms are
// referenced by bookings and damage reports; deleting a room that
// still has bookings is refused so historical records stay intact.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo returns a new RoomRepo bound to the given database.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

const roomColumns = `id, name, capacity, category, facilities, image_url, created_at, updated_at`

func scanRoom(row interface{ Scan(...any) error }) (*model.Room, error) {
	var (
		rm  model.Room
		img sql.NullString
	)
	err := row.Scan(&rm.ID, &rm.Name, &rm.Capacity, &rm.Category, &rm.Facilities,
		&img, &rm.CreatedAt, &rm.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if img.Valid {
		v := img.String
		rm.ImageURL = &v
	}
	return &rm, nil
}

// Create inserts a room and fills in its generated ID and timestamps.
func (r *RoomRepo) Create(ctx context.Context, rm *model.Room) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO rooms (name, capacity, category, facilities, image_url) VALUES (?,?,?,?,?)`,
		rm.Name, rm.Capacity, rm.Category, rm.Facilities, nullString(rm.ImageURL))
	if err != nil {
		return translate("insert room", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return translate("insert room id", err)
	}
	rm.ID = uint64(id)
	created, err := scanRoom(r.db.QueryRowContext(ctx,
		`SELECT `+roomColumns+` FROM rooms WHERE id = ?`, rm.ID))
	if err != nil {
		return translate("reload room", err)
	}
	*rm = *created
	return nil
}

// GetByID returns a single room.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	rm, err := scanRoom(r.db.QueryRowContext(ctx,
		`SELECT `+roomColumns+` FROM rooms WHERE id = ?`, id))
	if err != nil {
		return nil, translate("get room", err)
	}
	return rm, nil
}

// List returns the whole catalog, optionally filtered by category.
// Rooms are ordered by name for deterministic output.
func (r *RoomRepo) List(ctx context.Context, category string) ([]model.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms`
	var args []any
	if category != "" {
		query += ` WHERE category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translate("list rooms", err)
	}
	defer rows.Close()
	out := make([]model.Room, 0)
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, translate("list rooms scan", err)
		}
		out = append(out, *rm)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("list rooms rows", err)
	}
	return out, nil
}

// Update overwrites a room's editable fields.  Returns
// booking.ErrNotFound when the room does not exist.
func (r *RoomRepo) Update(ctx context.Context, rm *model.Room) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE rooms SET name = ?, capacity = ?, category = ?, facilities = ?, image_url = ?, updated_at = NOW()
		 WHERE id = ?`,
		rm.Name, rm.Capacity, rm.Category, rm.Facilities, nullString(rm.ImageURL), rm.ID)
	if err != nil {
		return translate("update room", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return translate("update room rows", err)
	}
	if n == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM rooms WHERE id = ?)`, rm.ID).Scan(&exists); err != nil {
			return translate("update room exists", err)
		}
		if !exists {
			return booking.ErrNotFound
		}
	}
	return nil
}

// Delete removes a room that has no bookings.  A room with booking
// history cannot be deleted because bookings are permanent records;
// in that case ErrRoomInUse is returned.
func (r *RoomRepo) Delete(ctx context.Context, id uint64) error {
	var used bool
	if err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM bookings WHERE room_id = ?)`, id).Scan(&used); err != nil {
		return translate("delete room check", err)
	}
	if used {
		return ErrRoomInUse
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id)
	if err != nil {
		return translate("delete room", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return translate("delete room rows", err)
	}
	if n == 0 {
		return booking.ErrNotFound
	}
	return nil
}
