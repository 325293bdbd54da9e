package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelompok/venuehub/internal/model"
	"github.com/kelompok/venuehub/internal/schedule"
)

// memStore is an in-memory Store used by engine tests.  It mirrors
// the guarantees of the MySQL implementation: status-guarded updates,
// atomic checkout completion and idempotency-key lookup.
type memStore struct {
	mu        sync.Mutex
	nextID    uint64
	bookings  map[uint64]*model.Booking
	checkouts map[uint64]*model.Checkout // keyed by booking ID
}

func newMemStore() *memStore {
	return &memStore{
		bookings:  make(map[uint64]*model.Booking),
		checkouts: make(map[uint64]*model.Checkout),
	}
}

func (s *memStore) CreateBooking(_ context.Context, b *model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	b.ID = s.nextID
	b.CreatedAt = time.Now().UTC()
	b.UpdatedAt = b.CreatedAt
	cp := *b
	s.bookings[b.ID] = &cp
	return nil
}

func (s *memStore) GetBooking(_ context.Context, id uint64) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *memStore) GetBookingByIdempotencyKey(_ context.Context, key string) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookings {
		if b.IdempotencyKey != nil && *b.IdempotencyKey == key {
			cp := *b
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memStore) UpdateBookingStatus(_ context.Context, id uint64, from, to model.BookingStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return ErrNotFound
	}
	if b.Status != from {
		return ErrInvalidTransition
	}
	b.Status = to
	b.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *memStore) CompleteWithCheckout(_ context.Context, co *model.Checkout) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.checkouts[co.BookingID]; ok {
		*co = *prev
		return nil
	}
	b, ok := s.bookings[co.BookingID]
	if !ok {
		return ErrNotFound
	}
	if b.Status != model.BookingApproved {
		return ErrInvalidTransition
	}
	b.Status = model.BookingCompleted
	s.nextID++
	co.ID = s.nextID
	co.CreatedAt = time.Now().UTC()
	cp := *co
	s.checkouts[co.BookingID] = &cp
	return nil
}

func (s *memStore) GetCheckoutByBooking(_ context.Context, bookingID uint64) (*model.Checkout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	co, ok := s.checkouts[bookingID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *co
	return &cp, nil
}

func (s *memStore) ListBookingsByRoom(_ context.Context, roomID uint64) ([]model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Booking
	for _, b := range s.bookings {
		if b.RoomID == roomID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (s *memStore) ListBookingsByRequester(_ context.Context, requesterID uint64) ([]model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Booking
	for _, b := range s.bookings {
		if b.RequesterID == requesterID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (s *memStore) ListAllBookings(_ context.Context) ([]model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Booking
	for _, b := range s.bookings {
		out = append(out, *b)
	}
	return out, nil
}

func (s *memStore) ListActiveIntervals(_ context.Context) ([]schedule.Interval, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []schedule.Interval
	for _, b := range s.bookings {
		if b.Status.Active() {
			out = append(out, schedule.Interval{
				BookingID: b.ID,
				RoomID:    b.RoomID,
				Start:     b.Start,
				End:       b.End,
			})
		}
	}
	return out, nil
}

var baseTime = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

// newTestEngine pins the clock one hour before baseTime so windows
// anchored at baseTime are always in the future.
func newTestEngine(t *testing.T) (*Engine, *memStore) {
	t.Helper()
	store := newMemStore()
	e := NewEngine(store, schedule.NewIndex(), false)
	e.now = func() time.Time { return baseTime.Add(-time.Hour) }
	return e, store
}

func window(startHour, endHour int) (time.Time, time.Time) {
	return baseTime.Add(time.Duration(startHour) * time.Hour),
		baseTime.Add(time.Duration(endHour) * time.Hour)
}

func submit(t *testing.T, e *Engine, roomID uint64, startHour, endHour int) *model.Booking {
	t.Helper()
	start, end := window(startHour, endHour)
	b, err := e.Submit(context.Background(), SubmitInput{
		RoomID:      roomID,
		RequesterID: 7,
		EventName:   "study group",
		Start:       start,
		End:         end,
	})
	require.NoError(t, err)
	return b
}

func TestSubmitCreatesPendingBooking(t *testing.T) {
	e, store := newTestEngine(t)

	b := submit(t, e, 1, 0, 2)

	assert.NotZero(t, b.ID)
	assert.Equal(t, model.BookingPending, b.Status)
	stored, err := store.GetBooking(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingPending, stored.Status)
}

func TestSubmitRejectsMalformedWindows(t *testing.T) {
	e, _ := newTestEngine(t)
	start, end := window(0, 2)

	cases := []struct {
		name  string
		start time.Time
		end   time.Time
	}{
		{"start equals end", start, start},
		{"start after end", end, start},
		{"start in the past", baseTime.Add(-24 * time.Hour), end},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.Submit(context.Background(), SubmitInput{
				RoomID:      1,
				RequesterID: 7,
				EventName:   "x",
				Start:       tc.start,
				End:         tc.end,
			})
			assert.ErrorIs(t, err, ErrInvalidRange)
		})
	}
}

func TestSubmitAllowsPastWhenConfigured(t *testing.T) {
	store := newMemStore()
	e := NewEngine(store, schedule.NewIndex(), true)
	e.now = func() time.Time { return baseTime }

	_, err := e.Submit(context.Background(), SubmitInput{
		RoomID:      1,
		RequesterID: 7,
		EventName:   "retro log entry",
		Start:       baseTime.Add(-3 * time.Hour),
		End:         baseTime.Add(-1 * time.Hour),
	})
	assert.NoError(t, err)
}

func TestSubmitDetectsOverlap(t *testing.T) {
	e, _ := newTestEngine(t)
	existing := submit(t, e, 1, 0, 2)

	start, end := window(1, 3)
	_, err := e.Submit(context.Background(), SubmitInput{
		RoomID:      1,
		RequesterID: 8,
		EventName:   "clashing event",
		Start:       start,
		End:         end,
	})
	ce, ok := IsConflict(err)
	require.True(t, ok, "expected conflict, got %v", err)
	assert.Equal(t, uint64(1), ce.RoomID)
	assert.Contains(t, ce.ConflictIDs, existing.ID)
}

func TestSubmitTouchingIntervalsDoNotConflict(t *testing.T) {
	e, _ := newTestEngine(t)
	submit(t, e, 1, 0, 2)

	// [2,4) starts exactly when [0,2) ends.
	b := submit(t, e, 1, 2, 4)
	assert.NotZero(t, b.ID)
}

func TestSubmitDifferentRoomsIndependent(t *testing.T) {
	e, _ := newTestEngine(t)
	submit(t, e, 1, 0, 2)
	b := submit(t, e, 2, 0, 2)
	assert.NotZero(t, b.ID)
}

func TestSubmitIdempotencyKeyReturnsOriginal(t *testing.T) {
	e, _ := newTestEngine(t)
	start, end := window(0, 2)
	in := SubmitInput{
		RoomID:         1,
		RequesterID:    7,
		EventName:      "seminar",
		Start:          start,
		End:            end,
		IdempotencyKey: "client-token-1",
	}

	first, err := e.Submit(context.Background(), in)
	require.NoError(t, err)
	second, err := e.Submit(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestDecideApproveAndRejectedFreesSlot(t *testing.T) {
	e, _ := newTestEngine(t)
	b := submit(t, e, 1, 0, 2)

	decided, err := e.Decide(context.Background(), b.ID, model.BookingRejected, 99)
	require.NoError(t, err)
	assert.Equal(t, model.BookingRejected, decided.Status)

	// The window is free again.
	again := submit(t, e, 1, 0, 2)
	assert.NotEqual(t, b.ID, again.ID)
}

func TestDecideApprovedKeepsSlotOccupied(t *testing.T) {
	e, _ := newTestEngine(t)
	b := submit(t, e, 1, 0, 2)

	_, err := e.Decide(context.Background(), b.ID, model.BookingApproved, 99)
	require.NoError(t, err)

	start, end := window(0, 2)
	_, err = e.Submit(context.Background(), SubmitInput{
		RoomID:      1,
		RequesterID: 8,
		EventName:   "too late",
		Start:       start,
		End:         end,
	})
	_, ok := IsConflict(err)
	assert.True(t, ok)
}

func TestDecideSameDecisionRetryIsIdempotent(t *testing.T) {
	e, _ := newTestEngine(t)
	b := submit(t, e, 1, 0, 2)

	_, err := e.Decide(context.Background(), b.ID, model.BookingApproved, 99)
	require.NoError(t, err)
	again, err := e.Decide(context.Background(), b.ID, model.BookingApproved, 99)
	require.NoError(t, err)
	assert.Equal(t, model.BookingApproved, again.Status)
}

func TestDecideConflictingRedecisionFails(t *testing.T) {
	e, _ := newTestEngine(t)
	b := submit(t, e, 1, 0, 2)

	_, err := e.Decide(context.Background(), b.ID, model.BookingApproved, 99)
	require.NoError(t, err)
	_, err = e.Decide(context.Background(), b.ID, model.BookingRejected, 99)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestDecideValidatesInput(t *testing.T) {
	e, _ := newTestEngine(t)
	b := submit(t, e, 1, 0, 2)

	_, err := e.Decide(context.Background(), b.ID, model.BookingCompleted, 99)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = e.Decide(context.Background(), 4242, model.BookingApproved, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWarmRebuildsIndexFromStore(t *testing.T) {
	e, store := newTestEngine(t)
	b := submit(t, e, 1, 0, 2)

	// A fresh engine over the same store must see the occupied slot
	// after warming.
	e2 := NewEngine(store, schedule.NewIndex(), false)
	e2.now = e.now
	require.NoError(t, e2.Warm(context.Background()))

	start, end := window(1, 3)
	_, err := e2.Submit(context.Background(), SubmitInput{
		RoomID:      1,
		RequesterID: 8,
		EventName:   "after restart",
		Start:       start,
		End:         end,
	})
	ce, ok := IsConflict(err)
	require.True(t, ok)
	assert.Contains(t, ce.ConflictIDs, b.ID)
}

func TestConcurrentSubmitsSingleWinner(t *testing.T) {
	e, _ := newTestEngine(t)
	start, end := window(0, 2)

	const n = 32
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := e.Submit(context.Background(), SubmitInput{
				RoomID:      1,
				RequesterID: uint64(i + 1),
				EventName:   "rush",
				Start:       start,
				End:         end,
			})
			errs[i] = err
		}(i)
	}
	wg.Wait()

	wins, conflicts := 0, 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		if _, ok := IsConflict(err); ok {
			conflicts++
		}
	}
	assert.Equal(t, 1, wins, "exactly one submission may win the slot")
	assert.Equal(t, n-1, conflicts)
}
