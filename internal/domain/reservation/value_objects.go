package reservation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	ErrInvalidTimeSlot = errors.New("start time must be before end time")
	ErrMisalignedSlot  = errors.New("start time is not aligned to the slot step")
	ErrNameTooShort    = errors.New("guest name is too short")
	ErrInvalidPhone    = errors.New("phone number format is invalid")
)

// TimeSlot is a half-open UTC interval [start, end). Touching endpoints do
// not overlap, so back-to-back bookings on one table are fine.
type TimeSlot struct {
	start time.Time
	end   time.Time
}

func NewTimeSlot(start, end time.Time) (TimeSlot, error) {
	start, end = start.UTC(), end.UTC()
	if !start.Before(end) {
		return TimeSlot{}, ErrInvalidTimeSlot
	}
	return TimeSlot{start: start, end: end}, nil
}

func (ts TimeSlot) Start() time.Time        { return ts.start }
func (ts TimeSlot) End() time.Time          { return ts.end }
func (ts TimeSlot) Duration() time.Duration { return ts.end.Sub(ts.start) }

func (ts TimeSlot) Overlaps(other TimeSlot) bool {
	return ts.start.Before(other.end) && ts.end.After(other.start)
}

func (ts TimeSlot) AlignedTo(step time.Duration) bool {
	if step <= 0 {
		return false
	}
	return ts.start.UnixNano()%int64(step) == 0
}

func (ts TimeSlot) ToTstzrange() string {
	return fmt.Sprintf("[%s,%s)", ts.start.Format(time.RFC3339), ts.end.Format(time.RFC3339))
}

var phoneRe = regexp.MustCompile(`^[+\d][\d\-()\s]{5,}$`)

// Contact is who to seat: the name the booking was made under and a phone
// number the venue can call back.
type Contact struct {
	name  string
	phone string
}

func NewContact(name, phone string) (Contact, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	if len(name) < 2 {
		return Contact{}, ErrNameTooShort
	}
	if !phoneRe.MatchString(phone) {
		return Contact{}, ErrInvalidPhone
	}
	return Contact{name: name, phone: phone}, nil
}

// ReconstructContact rebuilds a Contact from storage without re-running
// validation; persisted rows are already trusted.
func ReconstructContact(name, phone string) Contact {
	return Contact{name: name, phone: phone}
}

func (c Contact) Name() string  { return c.name }
func (c Contact) Phone() string { return c.phone }
