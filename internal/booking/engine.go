package booking

import (
	"context"
	"sync"
	"time"

	"github.com/kelompok/venuehub/internal/model"
	"github.com/kelompok/venuehub/internal/schedule"
)

// Store is the persistence port the engine writes bookings and
// checkouts through.  A MySQL implementation lives in the repository
// package; tests substitute an in-memory fake.  Implementations must
// translate driver failures into the engine's sentinel errors and must
// perform CompleteWithCheckout atomically (checkout insert plus status
// flip in one transaction).
type Store interface {
	// CreateBooking persists a new pending booking and fills in its
	// generated ID and timestamps.  Implementations re-check the
	// overlap condition inside the same transaction (the backend-side
	// no_overlap_booking safety net) and return a *ConflictError when
	// another instance won the slot between the in-memory check and
	// the insert.
	CreateBooking(ctx context.Context, b *model.Booking) error
	GetBooking(ctx context.Context, id uint64) (*model.Booking, error)
	// GetBookingByIdempotencyKey returns the booking previously
	// created under the given client token, or ErrNotFound.
	GetBookingByIdempotencyKey(ctx context.Context, key string) (*model.Booking, error)
	// UpdateBookingStatus flips a booking from one status to another
	// with a guard on the current value; when the row no longer holds
	// `from` it returns ErrInvalidTransition.
	UpdateBookingStatus(ctx context.Context, id uint64, from, to model.BookingStatus) error
	// CompleteWithCheckout inserts the checkout and transitions its
	// booking from approved to completed in a single transaction.
	CompleteWithCheckout(ctx context.Context, co *model.Checkout) error
	GetCheckoutByBooking(ctx context.Context, bookingID uint64) (*model.Checkout, error)
	ListBookingsByRoom(ctx context.Context, roomID uint64) ([]model.Booking, error)
	ListBookingsByRequester(ctx context.Context, requesterID uint64) ([]model.Booking, error)
	// ListAllBookings returns every booking ordered by status
	// descending then created_at descending, the ordering the admin
	// approval screen expects.
	ListAllBookings(ctx context.Context) ([]model.Booking, error)

	schedule.ActiveLister
}

// Engine owns the booking lifecycle.  It serializes the
// check-then-insert sequence per room with a mutex so that concurrent
// submissions for the same room cannot both pass the overlap check,
// while submissions for different rooms proceed in parallel.  The
// interval index is a cache; the store's transactional re-check is the
// final arbiter across multiple engine instances.
type Engine struct {
	store     Store
	idx       *schedule.Index
	allowPast bool
	now       func() time.Time

	mu    sync.Mutex
	rooms map[uint64]*sync.Mutex
}

// NewEngine constructs an Engine.  allowPast controls whether
// past-dated start times are accepted; the service default is false.
func NewEngine(store Store, idx *schedule.Index, allowPast bool) *Engine {
	if store == nil || idx == nil {
		panic("nil dependency passed to NewEngine")
	}
	return &Engine{
		store:     store,
		idx:       idx,
		allowPast: allowPast,
		now:       func() time.Time { return time.Now().UTC() },
		rooms:     make(map[uint64]*sync.Mutex),
	}
}

// Warm populates the interval index from persisted state.  Call it
// once before serving requests.
func (e *Engine) Warm(ctx context.Context) error {
	return e.idx.Rebuild(ctx, e.store)
}

// roomLock returns the mutex guarding submissions for one room,
// creating it on first use.
func (e *Engine) roomLock(roomID uint64) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.rooms[roomID]
	if !ok {
		l = &sync.Mutex{}
		e.rooms[roomID] = l
	}
	return l
}

// SubmitInput carries everything needed to request a booking.
// IdempotencyKey is optional; when set, a retried submit with the same
// key returns the originally created booking instead of double
// inserting.
type SubmitInput struct {
	RoomID         uint64
	RequesterID    uint64
	EventName      string
	Start          time.Time
	End            time.Time
	KTMURL         *string
	IdempotencyKey string
}

// Submit validates the window, checks the room for overlapping active
// bookings and persists a new pending booking.  The overlap check and
// the insert execute under the room's mutex, and the store re-checks
// inside its transaction; either layer reports a *ConflictError with
// the IDs of the bookings occupying the slot.  The index is only
// updated after the insert commits, so a failed persist leaves no
// partial state behind.
func (e *Engine) Submit(ctx context.Context, in SubmitInput) (*model.Booking, error) {
	start, end := in.Start.UTC(), in.End.UTC()
	if !start.Before(end) {
		return nil, ErrInvalidRange
	}
	if !e.allowPast && start.Before(e.now()) {
		return nil, ErrInvalidRange
	}

	if in.IdempotencyKey != "" {
		if prev, err := e.store.GetBookingByIdempotencyKey(ctx, in.IdempotencyKey); err == nil {
			return prev, nil
		}
	}

	lock := e.roomLock(in.RoomID)
	lock.Lock()
	defer lock.Unlock()

	if ids := e.idx.Conflicts(in.RoomID, start, end); len(ids) > 0 {
		return nil, &ConflictError{RoomID: in.RoomID, ConflictIDs: ids}
	}

	b := &model.Booking{
		RoomID:      in.RoomID,
		RequesterID: in.RequesterID,
		EventName:   in.EventName,
		Start:       start,
		End:         end,
		Status:      model.BookingPending,
		KTMURL:      in.KTMURL,
	}
	if in.IdempotencyKey != "" {
		key := in.IdempotencyKey
		b.IdempotencyKey = &key
	}
	if err := e.store.CreateBooking(ctx, b); err != nil {
		return nil, err
	}
	e.idx.Insert(schedule.Interval{
		BookingID: b.ID,
		RoomID:    b.RoomID,
		Start:     b.Start,
		End:       b.End,
	})
	return b, nil
}

// Decide applies an admin's approval or rejection to a pending
// booking.  Retrying the same decision is idempotent; a conflicting
// re-decision fails with ErrInvalidTransition, as does deciding a
// booking in any terminal state.  Rejection removes the interval from
// the index so the slot becomes available again.
func (e *Engine) Decide(ctx context.Context, bookingID uint64, decision model.BookingStatus, actorID uint64) (*model.Booking, error) {
	if decision != model.BookingApproved && decision != model.BookingRejected {
		return nil, ErrInvalidTransition
	}
	b, err := e.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status == decision {
		// same decision retried; nothing to do
		return b, nil
	}
	if !b.Status.CanTransition(decision) {
		return nil, ErrInvalidTransition
	}
	if err := e.store.UpdateBookingStatus(ctx, bookingID, model.BookingPending, decision); err != nil {
		return nil, err
	}
	b.Status = decision
	if decision == model.BookingRejected {
		e.idx.Remove(bookingID)
	}
	return b, nil
}

// Get returns a single booking by ID.
func (e *Engine) Get(ctx context.Context, bookingID uint64) (*model.Booking, error) {
	return e.store.GetBooking(ctx, bookingID)
}

// ListForRoom returns the bookings registered against one room.
func (e *Engine) ListForRoom(ctx context.Context, roomID uint64) ([]model.Booking, error) {
	return e.store.ListBookingsByRoom(ctx, roomID)
}

// ListForRequester returns the bookings a user has submitted, newest
// first.
func (e *Engine) ListForRequester(ctx context.Context, requesterID uint64) ([]model.Booking, error) {
	return e.store.ListBookingsByRequester(ctx, requesterID)
}

// ListAll returns every booking ordered by status descending then
// creation time descending.
func (e *Engine) ListAll(ctx context.Context) ([]model.Booking, error) {
	return e.store.ListAllBookings(ctx)
}
