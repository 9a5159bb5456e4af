package shared

import (
	"context"
	"time"

	"tablebook/internal/domain/reservation"
	"tablebook/internal/domain/table"
	"tablebook/internal/domain/user"
	"tablebook/internal/infra/db"

	"github.com/google/uuid"
)

// UnitOfWork serializes multi-statement writes. Within runs fn inside a
// transaction with retry on serialization failures; WithDB is for single
// reads that do not need a transaction of their own.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
}

type Tx interface {
	Reservations() ReservationRepository
	Tables() TableRepository
	Users() UserRepository
	DB() db.DBTX
}

type ReservationRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, res *reservation.Reservation) error
	FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*reservation.Reservation, error)
	// UpdateStatus is a compare-and-set: it only moves id from `from` to
	// `to`, and reports whether a row actually changed.
	UpdateStatus(ctx context.Context, dbtx db.DBTX, id uuid.UUID, from, to reservation.Status) (bool, error)
	// OccupiedTableIDs returns the ids of tables held by an active
	// (pending or confirmed) reservation overlapping slot.
	OccupiedTableIDs(ctx context.Context, dbtx db.DBTX, slot reservation.TimeSlot) (map[uuid.UUID]struct{}, error)
	// CountActiveCreatedBetween counts active reservations created in
	// [from, to), optionally limited to one user.
	CountActiveCreatedBetween(ctx context.Context, dbtx db.DBTX, from, to time.Time, userID *uuid.UUID) (int, error)
}

type TableRepository interface {
	// ListByMinCapacity returns tables seating at least partySize, ordered
	// capacity ASC then id ASC so best-fit selection is deterministic.
	ListByMinCapacity(ctx context.Context, dbtx db.DBTX, partySize int) ([]*table.Table, error)
}

type UserRepository interface {
	// Ensure returns the user for chatID, creating it on first contact.
	Ensure(ctx context.Context, dbtx db.DBTX, chatID int64, firstName, lastName, username string) (*user.User, error)
	FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*user.User, error)
	FindByChatID(ctx context.Context, dbtx db.DBTX, chatID int64) (*user.User, error)
}
