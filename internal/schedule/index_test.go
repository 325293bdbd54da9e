package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

func iv(bookingID, roomID uint64, startHour, endHour int) Interval {
	return Interval{
		BookingID: bookingID,
		RoomID:    roomID,
		Start:     day.Add(time.Duration(startHour) * time.Hour),
		End:       day.Add(time.Duration(endHour) * time.Hour),
	}
}

func hours(startHour, endHour int) (time.Time, time.Time) {
	return day.Add(time.Duration(startHour) * time.Hour), day.Add(time.Duration(endHour) * time.Hour)
}

func TestConflictsHalfOpenSemantics(t *testing.T) {
	x := NewIndex()
	x.Insert(iv(1, 10, 9, 11))

	cases := []struct {
		name      string
		startHour int
		endHour   int
		want      []uint64
	}{
		{"identical window", 9, 11, []uint64{1}},
		{"overlaps start", 8, 10, []uint64{1}},
		{"overlaps end", 10, 12, []uint64{1}},
		{"fully contains", 8, 12, []uint64{1}},
		{"fully contained", 9, 10, []uint64{1}},
		{"touches end", 11, 13, nil},
		{"touches start", 7, 9, nil},
		{"disjoint before", 5, 7, nil},
		{"disjoint after", 13, 15, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			start, end := hours(tc.startHour, tc.endHour)
			assert.Equal(t, tc.want, x.Conflicts(10, start, end))
		})
	}
}

func TestConflictsIsolatedPerRoom(t *testing.T) {
	x := NewIndex()
	x.Insert(iv(1, 10, 9, 11))

	start, end := hours(9, 11)
	assert.Empty(t, x.Conflicts(11, start, end))
}

func TestConflictsReportsAllOverlaps(t *testing.T) {
	x := NewIndex()
	x.Insert(iv(1, 10, 9, 11))
	x.Insert(iv(2, 10, 12, 14))
	x.Insert(iv(3, 10, 15, 16))

	start, end := hours(10, 13)
	assert.ElementsMatch(t, []uint64{1, 2}, x.Conflicts(10, start, end))
}

func TestInsertDuplicateIsNoOp(t *testing.T) {
	x := NewIndex()
	x.Insert(iv(1, 10, 9, 11))
	x.Insert(iv(1, 10, 9, 11))

	assert.Equal(t, 1, x.Len())
}

func TestRemoveFreesTheSlot(t *testing.T) {
	x := NewIndex()
	x.Insert(iv(1, 10, 9, 11))

	assert.True(t, x.Remove(1))
	start, end := hours(9, 11)
	assert.Empty(t, x.Conflicts(10, start, end))
	assert.Zero(t, x.Len())

	// removing again reports absence
	assert.False(t, x.Remove(1))
}

type listerFunc func(ctx context.Context) ([]Interval, error)

func (f listerFunc) ListActiveIntervals(ctx context.Context) ([]Interval, error) { return f(ctx) }

func TestRebuildReplacesContents(t *testing.T) {
	x := NewIndex()
	x.Insert(iv(1, 10, 9, 11))

	src := listerFunc(func(context.Context) ([]Interval, error) {
		return []Interval{iv(2, 20, 13, 15), iv(3, 20, 9, 10)}, nil
	})
	require.NoError(t, x.Rebuild(context.Background(), src))

	assert.Equal(t, 2, x.Len())
	start, end := hours(9, 11)
	assert.Empty(t, x.Conflicts(10, start, end), "stale interval must be gone")
	start, end = hours(14, 16)
	assert.Equal(t, []uint64{2}, x.Conflicts(20, start, end))
}

func TestRebuildPropagatesSourceError(t *testing.T) {
	x := NewIndex()
	x.Insert(iv(1, 10, 9, 11))

	boom := errors.New("db down")
	src := listerFunc(func(context.Context) ([]Interval, error) { return nil, boom })
	err := x.Rebuild(context.Background(), src)
	assert.ErrorIs(t, err, boom)

	// contents are untouched on failure
	assert.Equal(t, 1, x.Len())
}
