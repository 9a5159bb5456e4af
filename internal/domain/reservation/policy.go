package reservation

import (
	"errors"
	"time"
)

var (
	ErrInsufficientNotice = errors.New("reservation does not meet the minimum advance notice")
	ErrSameDayNotAllowed  = errors.New("same-day reservations are not accepted")
)

// BookingPolicy is the venue-wide booking window: every reservation lasts
// Duration, starts on a SlotStep boundary, and must be requested at least
// MinAdvance ahead of time.
type BookingPolicy struct {
	Duration       time.Duration
	SlotStep       time.Duration
	MinAdvance     time.Duration
	SameDayAllowed bool
}

// Window validates the requested start against the policy and derives the
// full slot. All instants are treated as UTC.
func (p BookingPolicy) Window(now, startsAt time.Time) (TimeSlot, error) {
	now, startsAt = now.UTC(), startsAt.UTC()

	slot, err := NewTimeSlot(startsAt, startsAt.Add(p.Duration))
	if err != nil {
		return TimeSlot{}, err
	}
	if !slot.AlignedTo(p.SlotStep) {
		return TimeSlot{}, ErrMisalignedSlot
	}
	if startsAt.Before(now.Add(p.MinAdvance)) {
		return TimeSlot{}, ErrInsufficientNotice
	}
	if !p.SameDayAllowed && sameUTCDay(now, startsAt) {
		return TimeSlot{}, ErrSameDayNotAllowed
	}
	return slot, nil
}

func sameUTCDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
