// Package schedule maintains the in-memory interval index used to
// answer room-availability queries.  The index is a cache derived from
// persisted bookings, never the source of truth: it can be rebuilt from
// the database at any time and must be re-populated on process start.
package schedule

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/kelompok/venuehub/internal/model"
)

// Interval is one active booking window registered for a room.  Start
// and End follow half-open [Start, End) semantics in UTC.
type Interval struct {
	BookingID uint64
	RoomID    uint64
	Start     time.Time
	End       time.Time
}

// ActiveLister is the slice of the persistence layer the index needs
// in order to rebuild itself: every booking whose status still
// occupies its slot (pending, approved or completed).
type ActiveLister interface {
	ListActiveIntervals(ctx context.Context) ([]Interval, error)
}

// Index holds the per-room interval sets.  A single RWMutex guards the
// whole structure: Conflicts may run concurrently with other reads but
// never with an Insert or Remove.  Per-room volumes are small (a room
// collects at most a handful of bookings per day), so each query is a
// linear scan over one room's slice rather than an interval tree.
type Index struct {
	mu     sync.RWMutex
	rooms  map[uint64][]Interval // room id -> intervals sorted by start
	lookup map[uint64]uint64     // booking id -> room id, for Remove
}

// NewIndex returns an empty interval index.
func NewIndex() *Index {
	return &Index{
		rooms:  make(map[uint64][]Interval),
		lookup: make(map[uint64]uint64),
	}
}

// Conflicts returns the IDs of active bookings for roomID whose
// interval overlaps [start, end).  Touching intervals, where one ends
// exactly when the other begins, do not conflict.  The caller is
// responsible for validating start < end before asking.
func (x *Index) Conflicts(roomID uint64, start, end time.Time) []uint64 {
	x.mu.RLock()
	defer x.mu.RUnlock()
	var ids []uint64
	for _, iv := range x.rooms[roomID] {
		if model.Overlaps(iv.Start, iv.End, start, end) {
			ids = append(ids, iv.BookingID)
		}
	}
	return ids
}

// Insert registers an interval for its room.  The caller must have
// verified the absence of overlaps within the same logical submission;
// Insert itself does not re-check.  Inserting the same booking twice
// is a no-op.
func (x *Index) Insert(iv Interval) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if _, ok := x.lookup[iv.BookingID]; ok {
		return
	}
	x.lookup[iv.BookingID] = iv.RoomID
	slot := append(x.rooms[iv.RoomID], iv)
	sort.Slice(slot, func(i, j int) bool { return slot[i].Start.Before(slot[j].Start) })
	x.rooms[iv.RoomID] = slot
}

// Remove deletes a booking's interval, freeing its slot.  It is called
// when a booking transitions to rejected.  Returns false when the
// booking was not registered.
func (x *Index) Remove(bookingID uint64) bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	roomID, ok := x.lookup[bookingID]
	if !ok {
		return false
	}
	delete(x.lookup, bookingID)
	slot := x.rooms[roomID]
	for i, iv := range slot {
		if iv.BookingID == bookingID {
			x.rooms[roomID] = append(slot[:i], slot[i+1:]...)
			break
		}
	}
	if len(x.rooms[roomID]) == 0 {
		delete(x.rooms, roomID)
	}
	return true
}

// Len returns the number of registered intervals.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.lookup)
}

// Rebuild discards the current contents and reloads every active
// interval from persistence.  Call it once at startup and whenever the
// cache is suspected to have drifted from the database.
func (x *Index) Rebuild(ctx context.Context, src ActiveLister) error {
	ivs, err := src.ListActiveIntervals(ctx)
	if err != nil {
		return err
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	x.rooms = make(map[uint64][]Interval, len(ivs))
	x.lookup = make(map[uint64]uint64, len(ivs))
	for _, iv := range ivs {
		x.lookup[iv.BookingID] = iv.RoomID
		x.rooms[iv.RoomID] = append(x.rooms[iv.RoomID], iv)
	}
	for roomID := range x.rooms {
		slot := x.rooms[roomID]
		sort.Slice(slot, func(i, j int) bool { return slot[i].Start.Before(slot[j].Start) })
		x.rooms[roomID] = slot
	}
	return nil
}
