package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTable(t *testing.T) {
	all := []BookingStatus{BookingPending, BookingApproved, BookingRejected, BookingCompleted}
	legal := map[BookingStatus]map[BookingStatus]bool{
		BookingPending:  {BookingApproved: true, BookingRejected: true},
		BookingApproved: {BookingCompleted: true},
	}

	for _, from := range all {
		for _, to := range all {
			want := legal[from][to]
			assert.Equalf(t, want, from.CanTransition(to), "%s -> %s", from, to)
		}
	}
}

func TestTerminalStatesNeverTransition(t *testing.T) {
	all := []BookingStatus{BookingPending, BookingApproved, BookingRejected, BookingCompleted}
	for _, s := range []BookingStatus{BookingRejected, BookingCompleted} {
		assert.True(t, s.Terminal())
		for _, to := range all {
			assert.Falsef(t, s.CanTransition(to), "%s -> %s must be illegal", s, to)
		}
	}
}

func TestActiveOnlyExcludesRejected(t *testing.T) {
	assert.True(t, BookingPending.Active())
	assert.True(t, BookingApproved.Active())
	assert.True(t, BookingCompleted.Active())
	assert.False(t, BookingRejected.Active())
}

func TestStatusValid(t *testing.T) {
	assert.True(t, BookingApproved.Valid())
	assert.False(t, BookingStatus("cancelled").Valid())
	assert.False(t, BookingStatus("").Valid())
}

func TestOverlapsHalfOpen(t *testing.T) {
	at := func(h int) time.Time {
		return time.Date(2026, 3, 10, h, 0, 0, 0, time.UTC)
	}

	assert.True(t, Overlaps(at(9), at(11), at(10), at(12)))
	assert.True(t, Overlaps(at(10), at(12), at(9), at(11)))
	assert.True(t, Overlaps(at(9), at(12), at(10), at(11)), "containment overlaps")
	assert.True(t, Overlaps(at(9), at(11), at(9), at(11)), "identity overlaps")

	assert.False(t, Overlaps(at(9), at(11), at(11), at(13)), "touching end does not overlap")
	assert.False(t, Overlaps(at(11), at(13), at(9), at(11)), "touching start does not overlap")
	assert.False(t, Overlaps(at(9), at(10), at(12), at(13)))
}

func TestDamageSeverityValid(t *testing.T) {
	assert.True(t, SeverityLight.Valid())
	assert.True(t, SeverityMedium.Valid())
	assert.True(t, SeveritySevere.Valid())
	assert.False(t, DamageSeverity("minor").Valid())
}
