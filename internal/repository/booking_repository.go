package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/kelompok/venuehub/internal/booking"
	"github.com/kelompok/venuehub/internal/model"
	"github.com/kelompok/venuehub/internal/schedule"
)

// BookingRepo provides persistence for bookings and their checkouts.
// It implements the engine's booking.Store port.  All timestamp
// columns are stored in UTC; the DSN's loc=UTC keeps scanned
// time.Time values consistent.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle for callers that need to open
// transactions spanning several repositories.
func (r *BookingRepo) DB() *sql.DB { return r.db }

const bookingColumns = `id, room_id, requester_id, event_name, start_time, end_time, status, ktm_url, idempotency_key, created_at, updated_at`

// scanBooking reads one booking row in bookingColumns order.
func scanBooking(row interface{ Scan(...any) error }) (*model.Booking, error) {
	var (
		b       model.Booking
		status  string
		ktm     sql.NullString
		idemKey sql.NullString
	)
	err := row.Scan(&b.ID, &b.RoomID, &b.RequesterID, &b.EventName, &b.Start, &b.End,
		&status, &ktm, &idemKey, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	b.Status = model.BookingStatus(status)
	if ktm.Valid {
		v := ktm.String
		b.KTMURL = &v
	}
	if idemKey.Valid {
		v := idemKey.String
		b.IdempotencyKey = &v
	}
	b.Start = b.Start.UTC()
	b.End = b.End.UTC()
	return &b, nil
}

// CreateBooking inserts a new pending booking.  Inside the same
// transaction it re-checks the overlap condition with a locking read,
// the backend-side "no_overlap_booking" safety net: even when the
// in-memory index pre-check passed, a concurrent insert from another
// engine instance is caught here and surfaced as a *ConflictError.
// When the insert trips the unique idempotency-key index instead, the
// previously created row is loaded back so a network retry observes
// its own prior success.
func (r *BookingRepo) CreateBooking(ctx context.Context, b *model.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return translate("begin create booking", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Lock every row that would overlap the requested window.  The
	// half-open comparison mirrors the index: existing.start < end
	// AND existing.end > start, rejected bookings excluded.
	const guard = `SELECT id FROM bookings
	               WHERE room_id = ? AND status <> 'rejected'
	                 AND start_time < ? AND end_time > ?
	               FOR UPDATE`
	rows, err := tx.QueryContext(ctx, guard, b.RoomID, b.End, b.Start)
	if err != nil {
		return translate("overlap guard", err)
	}
	var conflicts []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return translate("overlap guard scan", err)
		}
		conflicts = append(conflicts, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return translate("overlap guard rows", err)
	}
	if len(conflicts) > 0 {
		return &booking.ConflictError{RoomID: b.RoomID, ConflictIDs: conflicts}
	}

	const ins = `INSERT INTO bookings
	             (room_id, requester_id, event_name, start_time, end_time, status, ktm_url, idempotency_key)
	             VALUES (?,?,?,?,?,?,?,?)`
	res, err := tx.ExecContext(ctx, ins,
		b.RoomID, b.RequesterID, b.EventName, b.Start, b.End, string(b.Status),
		nullString(b.KTMURL), nullString(b.IdempotencyKey))
	if err != nil {
		if isDuplicate(err) && b.IdempotencyKey != nil {
			// a concurrent retry with the same token won; hand back its row
			_ = tx.Rollback()
			committed = true // rollback already done
			prev, gerr := r.GetBookingByIdempotencyKey(ctx, *b.IdempotencyKey)
			if gerr != nil {
				return translate("load idempotent booking", gerr)
			}
			*b = *prev
			return nil
		}
		return translate("insert booking", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return translate("insert booking id", err)
	}
	b.ID = uint64(id)

	// query back the full row to populate timestamps and defaults
	created, err := scanBooking(tx.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, b.ID))
	if err != nil {
		return translate("reload booking", err)
	}
	if err := tx.Commit(); err != nil {
		return translate("commit create booking", err)
	}
	committed = true
	*b = *created
	return nil
}

// GetBooking returns a single booking by ID.
func (r *BookingRepo) GetBooking(ctx context.Context, id uint64) (*model.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id))
	if err != nil {
		return nil, translate("get booking", err)
	}
	return b, nil
}

// GetBookingByIdempotencyKey returns the booking created under the
// given client token, or booking.ErrNotFound.
func (r *BookingRepo) GetBookingByIdempotencyKey(ctx context.Context, key string) (*model.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE idempotency_key = ?`, key))
	if err != nil {
		return nil, translate("get booking by key", err)
	}
	return b, nil
}

// UpdateBookingStatus flips a booking's status with a guard on the
// current value.  When no row matches, the booking either does not
// exist (ErrNotFound) or is no longer in `from` (ErrInvalidTransition).
func (r *BookingRepo) UpdateBookingStatus(ctx context.Context, id uint64, from, to model.BookingStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET status = ?, updated_at = NOW() WHERE id = ? AND status = ?`,
		string(to), id, string(from))
	if err != nil {
		return translate("update booking status", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return translate("update booking status rows", err)
	}
	if n == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM bookings WHERE id = ?)`, id).Scan(&exists); err != nil {
			return translate("update booking status exists", err)
		}
		if !exists {
			return booking.ErrNotFound
		}
		return booking.ErrInvalidTransition
	}
	return nil
}

// CompleteWithCheckout inserts the checkout and transitions its
// booking from approved to completed in one transaction, so the two
// can never diverge.  A duplicate checkout (unique booking_id) from a
// retried request loads the stored record back instead of failing.
func (r *BookingRepo) CompleteWithCheckout(ctx context.Context, co *model.Checkout) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return translate("begin checkout", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = 'completed', updated_at = NOW() WHERE id = ? AND status = 'approved'`,
		co.BookingID)
	if err != nil {
		return translate("complete booking", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return translate("complete booking rows", err)
	}
	if n == 0 {
		return booking.ErrInvalidTransition
	}

	ires, err := tx.ExecContext(ctx,
		`INSERT INTO checkouts (booking_id, requester_id, notes, clean_proof_url) VALUES (?,?,?,?)`,
		co.BookingID, co.RequesterID, co.Notes, co.CleanProofURL)
	if err != nil {
		if isDuplicate(err) {
			_ = tx.Rollback()
			committed = true
			prev, gerr := r.GetCheckoutByBooking(ctx, co.BookingID)
			if gerr != nil {
				return translate("load prior checkout", gerr)
			}
			*co = *prev
			return nil
		}
		return translate("insert checkout", err)
	}
	id, err := ires.LastInsertId()
	if err != nil {
		return translate("insert checkout id", err)
	}
	co.ID = uint64(id)
	if err := tx.QueryRowContext(ctx,
		`SELECT created_at FROM checkouts WHERE id = ?`, co.ID).Scan(&co.CreatedAt); err != nil {
		return translate("reload checkout", err)
	}
	if err := tx.Commit(); err != nil {
		return translate("commit checkout", err)
	}
	committed = true
	return nil
}

// GetCheckoutByBooking returns the checkout attached to a booking.
func (r *BookingRepo) GetCheckoutByBooking(ctx context.Context, bookingID uint64) (*model.Checkout, error) {
	var co model.Checkout
	err := r.db.QueryRowContext(ctx,
		`SELECT id, booking_id, requester_id, notes, clean_proof_url, created_at
		 FROM checkouts WHERE booking_id = ?`, bookingID).
		Scan(&co.ID, &co.BookingID, &co.RequesterID, &co.Notes, &co.CleanProofURL, &co.CreatedAt)
	if err != nil {
		return nil, translate("get checkout", err)
	}
	return &co, nil
}

// ListBookingsByRoom returns every booking for one room ordered by
// start time ascending, the order the availability view wants.
func (r *BookingRepo) ListBookingsByRoom(ctx context.Context, roomID uint64) ([]model.Booking, error) {
	return r.listBookings(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE room_id = ? ORDER BY start_time ASC`, roomID)
}

// ListBookingsByRequester returns a user's bookings, newest first.
func (r *BookingRepo) ListBookingsByRequester(ctx context.Context, requesterID uint64) ([]model.Booking, error) {
	return r.listBookings(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE requester_id = ? ORDER BY created_at DESC`, requesterID)
}

// ListAllBookings returns every booking ordered by status descending
// then creation time descending, which floats pending requests to the
// top of the admin approval list.
func (r *BookingRepo) ListAllBookings(ctx context.Context) ([]model.Booking, error) {
	return r.listBookings(ctx,
		`SELECT `+bookingColumns+` FROM bookings ORDER BY status DESC, created_at DESC`)
}

func (r *BookingRepo) listBookings(ctx context.Context, query string, args ...any) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translate("list bookings", err)
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, translate("list bookings scan", err)
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("list bookings rows", err)
	}
	return out, nil
}

// ListActiveIntervals loads every non-rejected booking window.  The
// interval index rebuilds itself from this at startup.
func (r *BookingRepo) ListActiveIntervals(ctx context.Context) ([]schedule.Interval, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, room_id, start_time, end_time FROM bookings WHERE status <> 'rejected'`)
	if err != nil {
		return nil, translate("list active intervals", err)
	}
	defer rows.Close()
	var out []schedule.Interval
	for rows.Next() {
		var iv schedule.Interval
		if err := rows.Scan(&iv.BookingID, &iv.RoomID, &iv.Start, &iv.End); err != nil {
			return nil, translate("list active intervals scan", err)
		}
		iv.Start = iv.Start.UTC()
		iv.End = iv.End.UTC()
		out = append(out, iv)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("list active intervals rows", err)
	}
	return out, nil
}

// BookingDetail joins a booking with its room name and, when present,
// its checkout.  It is returned by the history and approval listing
// endpoints for display to clients.
type BookingDetail struct {
	ID            uint64    `json:"id"`
	RoomID        uint64    `json:"room_id"`
	RoomName      string    `json:"room_name"`
	RequesterID   uint64    `json:"requester_id"`
	EventName     string    `json:"event_name"`
	Start         time.Time `json:"start_time"`
	End           time.Time `json:"end_time"`
	Status        string    `json:"status"`
	KTMURL        *string   `json:"ktm_url,omitempty"`
	Notes         *string   `json:"checkout_notes,omitempty"`
	CleanProofURL *string   `json:"clean_proof_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

const detailQuery = `SELECT b.id, b.room_id, r.name, b.requester_id, b.event_name,
	       b.start_time, b.end_time, b.status, b.ktm_url,
	       c.notes, c.clean_proof_url, b.created_at
	FROM bookings b
	JOIN rooms r ON r.id = b.room_id
	LEFT JOIN checkouts c ON c.booking_id = b.id`

// ListDetailsByRequester returns a user's booking history with room
// names and checkout evidence joined in, newest first.
func (r *BookingRepo) ListDetailsByRequester(ctx context.Context, requesterID uint64) ([]BookingDetail, error) {
	return r.listDetails(ctx, detailQuery+` WHERE b.requester_id = ? ORDER BY b.created_at DESC`, requesterID)
}

// ListAllDetails returns every booking with room names joined in,
// ordered by status descending then creation time descending.
func (r *BookingRepo) ListAllDetails(ctx context.Context) ([]BookingDetail, error) {
	return r.listDetails(ctx, detailQuery+` ORDER BY b.status DESC, b.created_at DESC`)
}

func (r *BookingRepo) listDetails(ctx context.Context, query string, args ...any) ([]BookingDetail, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translate("list booking details", err)
	}
	defer rows.Close()
	out := make([]BookingDetail, 0)
	for rows.Next() {
		var (
			d     BookingDetail
			ktm   sql.NullString
			notes sql.NullString
			proof sql.NullString
		)
		if err := rows.Scan(&d.ID, &d.RoomID, &d.RoomName, &d.RequesterID, &d.EventName,
			&d.Start, &d.End, &d.Status, &ktm, &notes, &proof, &d.CreatedAt); err != nil {
			return nil, translate("list booking details scan", err)
		}
		d.Start = d.Start.UTC()
		d.End = d.End.UTC()
		if ktm.Valid {
			v := ktm.String
			d.KTMURL = &v
		}
		if notes.Valid {
			v := notes.String
			d.Notes = &v
		}
		if proof.Valid {
			v := proof.String
			d.CleanProofURL = &v
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("list booking details rows", err)
	}
	return out, nil
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
