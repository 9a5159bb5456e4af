package reservation

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidPartySize  = errors.New("party size must be positive")
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrMissingTable      = errors.New("reservation must have a table assigned")
)

// Reservation is the write-side aggregate. The table is fixed at creation
// time; only the status moves afterwards.
type Reservation struct {
	id        uuid.UUID
	userID    uuid.UUID
	tableID   uuid.UUID
	contact   Contact
	partySize int
	slot      TimeSlot
	status    Status
	createdAt time.Time
	updatedAt time.Time
}

// NewReservation builds a fresh pending reservation on an already-resolved
// table. The availability check itself lives in the usecase layer; the
// storage exclusion constraint re-validates it at insert.
func NewReservation(userID, tableID uuid.UUID, contact Contact, partySize int, slot TimeSlot) (*Reservation, error) {
	if partySize <= 0 {
		return nil, ErrInvalidPartySize
	}
	if tableID == uuid.Nil {
		return nil, ErrMissingTable
	}

	return &Reservation{
		id:        uuid.New(),
		userID:    userID,
		tableID:   tableID,
		contact:   contact,
		partySize: partySize,
		slot:      slot,
		status:    StatusPending,
	}, nil
}

func ReconstructReservation(
	id, userID, tableID uuid.UUID,
	contact Contact,
	partySize int,
	slot TimeSlot,
	status Status,
	createdAt, updatedAt time.Time,
) *Reservation {
	return &Reservation{
		id:        id,
		userID:    userID,
		tableID:   tableID,
		contact:   contact,
		partySize: partySize,
		slot:      slot,
		status:    status,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (r *Reservation) transitionTo(next Status) error {
	if !r.status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	r.status = next
	return nil
}

func (r *Reservation) Confirm() error {
	return r.transitionTo(StatusConfirmed)
}

func (r *Reservation) Cancel() error {
	return r.transitionTo(StatusCanceled)
}

func (r *Reservation) Stop() error {
	return r.transitionTo(StatusStopped)
}

// MarkConfirmed skips transition checks; used when the venue auto-confirms
// small parties at creation time.
func (r *Reservation) MarkConfirmed() {
	r.status = StatusConfirmed
}

func (r *Reservation) IsActive() bool {
	return r.status.IsActive()
}

func (r *Reservation) ID() uuid.UUID        { return r.id }
func (r *Reservation) UserID() uuid.UUID    { return r.userID }
func (r *Reservation) TableID() uuid.UUID   { return r.tableID }
func (r *Reservation) Contact() Contact     { return r.contact }
func (r *Reservation) PartySize() int       { return r.partySize }
func (r *Reservation) Slot() TimeSlot       { return r.slot }
func (r *Reservation) Status() Status       { return r.status }
func (r *Reservation) CreatedAt() time.Time { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time { return r.updatedAt }
