package queries

import (
	"context"
	"time"

	"tablebook/internal/pkg/clock"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type ReservationView struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ChatID    int64     `json:"chat_id"`
	TableID   uuid.UUID `json:"table_id"`
	TableName string    `json:"table_name"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	PartySize int       `json:"party_size"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type ReservationQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	// ListForUser returns the guest's reservations that have not ended
	// yet, soonest first.
	ListForUser(ctx context.Context, chatID int64) ([]*ReservationView, error)
	// ListPending lists reservations awaiting admin review, soonest first.
	ListPending(ctx context.Context) ([]*ReservationView, error)
}

type ReservationViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	FindUpcomingByChatID(ctx context.Context, chatID int64, now time.Time) ([]*ReservationView, error)
	FindByStatus(ctx context.Context, status string) ([]*ReservationView, error)
}

type reservationQueriesImpl struct {
	repo  ReservationViewRepo
	clock clock.Clock
}

func NewReservationQueries(repo ReservationViewRepo, clock clock.Clock) ReservationQueries {
	return &reservationQueriesImpl{repo: repo, clock: clock}
}

func (q *reservationQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*ReservationView, error) {
	return q.repo.FindByID(ctx, id)
}

func (q *reservationQueriesImpl) ListForUser(ctx context.Context, chatID int64) ([]*ReservationView, error) {
	return q.repo.FindUpcomingByChatID(ctx, chatID, q.clock.Now())
}

func (q *reservationQueriesImpl) ListPending(ctx context.Context) ([]*ReservationView, error) {
	return q.repo.FindByStatus(ctx, "pending")
}
