//go:build unit

package reservation_test

import (
	"testing"
	"time"

	"roomsense/internal/domain/reservation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func slot(t *testing.T, startOffset, endOffset time.Duration) reservation.TimeSlot {
	t.Helper()
	ts, err := reservation.NewTimeSlot(base.Add(startOffset), base.Add(endOffset))
	require.NoError(t, err)
	return ts
}

func TestNewTimeSlot(t *testing.T) {
	t.Run("valid window", func(t *testing.T) {
		ts, err := reservation.NewTimeSlot(base, base.Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, base, ts.Start())
		assert.Equal(t, base.Add(time.Hour), ts.End())
	})

	t.Run("start equal to end is rejected", func(t *testing.T) {
		_, err := reservation.NewTimeSlot(base, base)
		assert.ErrorIs(t, err, reservation.ErrInvalidTimeRange)
	})

	t.Run("start after end is rejected", func(t *testing.T) {
		_, err := reservation.NewTimeSlot(base.Add(time.Hour), base)
		assert.ErrorIs(t, err, reservation.ErrInvalidTimeRange)
	})
}

func TestTimeSlotOverlaps(t *testing.T) {
	cases := []struct {
		name     string
		a        reservation.TimeSlot
		b        reservation.TimeSlot
		overlaps bool
	}{
		{
			name:     "identical windows overlap",
			a:        slot(t, 0, time.Hour),
			b:        slot(t, 0, time.Hour),
			overlaps: true,
		},
		{
			name:     "partial overlap at tail",
			a:        slot(t, 0, time.Hour),
			b:        slot(t, 30*time.Minute, 90*time.Minute),
			overlaps: true,
		},
		{
			name:     "contained window overlaps",
			a:        slot(t, 0, 2*time.Hour),
			b:        slot(t, 30*time.Minute, time.Hour),
			overlaps: true,
		},
		{
			name:     "back to back does not overlap",
			a:        slot(t, 0, time.Hour),
			b:        slot(t, time.Hour, 2*time.Hour),
			overlaps: false,
		},
		{
			name:     "back to back reversed does not overlap",
			a:        slot(t, time.Hour, 2*time.Hour),
			b:        slot(t, 0, time.Hour),
			overlaps: false,
		},
		{
			name:     "disjoint windows do not overlap",
			a:        slot(t, 0, time.Hour),
			b:        slot(t, 3*time.Hour, 4*time.Hour),
			overlaps: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.overlaps, tc.a.Overlaps(tc.b))
			assert.Equal(t, tc.overlaps, tc.b.Overlaps(tc.a))
		})
	}
}

func TestTimeSlotHasStartedAt(t *testing.T) {
	ts := slot(t, 0, time.Hour)

	assert.False(t, ts.HasStartedAt(base.Add(-time.Second)))
	// The start instant itself counts as started: [start, end)
	assert.True(t, ts.HasStartedAt(base))
	assert.True(t, ts.HasStartedAt(base.Add(time.Minute)))
}

func TestTimeSlotValidateNotPastAt(t *testing.T) {
	ts := slot(t, 0, time.Hour)

	assert.NoError(t, ts.ValidateNotPastAt(base.Add(-time.Minute)))
	// A window starting exactly now is bookable
	assert.NoError(t, ts.ValidateNotPastAt(base))
	assert.ErrorIs(t, ts.ValidateNotPastAt(base.Add(time.Second)), reservation.ErrStartInPast)
}
