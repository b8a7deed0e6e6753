package reservation

import (
	"errors"
	"time"
)

var (
	ErrInvalidTimeRange = errors.New("start time must be before end time")
	ErrStartInPast      = errors.New("start time cannot be in the past")
)

// TimeSlot is a half-open interval [start, end): the start instant is
// included, the end instant is not, so back-to-back bookings never overlap.
type TimeSlot struct {
	start time.Time
	end   time.Time
}

func NewTimeSlot(start, end time.Time) (TimeSlot, error) {
	if !start.Before(end) {
		return TimeSlot{}, ErrInvalidTimeRange
	}

	return TimeSlot{
		start: start,
		end:   end,
	}, nil
}

func (ts TimeSlot) Start() time.Time {
	return ts.start
}

func (ts TimeSlot) End() time.Time {
	return ts.end
}

func (ts TimeSlot) Duration() time.Duration {
	return ts.end.Sub(ts.start)
}

// Overlaps implements a.start < b.end && b.start < a.end.
func (ts TimeSlot) Overlaps(other TimeSlot) bool {
	return ts.start.Before(other.end) && other.start.Before(ts.end)
}

func (ts TimeSlot) HasStartedAt(now time.Time) bool {
	return !ts.start.After(now)
}

// ValidateNotPastAt rejects slots whose start is before now. The order
// check is the constructor's job; this one needs a clock, so the usecase
// layer supplies the instant.
func (ts TimeSlot) ValidateNotPastAt(now time.Time) error {
	if ts.start.Before(now) {
		return ErrStartInPast
	}
	return nil
}
