//go:build unit

package builder

import (
	"time"

	"tablebook/internal/domain/reservation"
	"tablebook/internal/usecase/queries"

	"github.com/google/uuid"
)

// ReservationBuilder produces valid reservations by default; tests mutate
// single fields to exercise each validation rule.
type ReservationBuilder struct {
	UserID    uuid.UUID
	TableID   uuid.UUID
	Name      string
	Phone     string
	PartySize int
	StartsAt  time.Time
	EndsAt    time.Time
}

func NewReservationBuilder() *ReservationBuilder {
	return &ReservationBuilder{
		UserID:    uuid.New(),
		TableID:   uuid.New(),
		Name:      "Taro Yamada",
		Phone:     "+81 90-1234-5678",
		PartySize: 2,
		StartsAt:  time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC),
		EndsAt:    time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC),
	}
}

func (b *ReservationBuilder) With(mutate func(*ReservationBuilder)) *ReservationBuilder {
	mutate(b)
	return b
}

func (b *ReservationBuilder) BuildDomain() (*reservation.Reservation, error) {
	contact, err := reservation.NewContact(b.Name, b.Phone)
	if err != nil {
		return nil, err
	}
	slot, err := reservation.NewTimeSlot(b.StartsAt, b.EndsAt)
	if err != nil {
		return nil, err
	}
	return reservation.NewReservation(b.UserID, b.TableID, contact, b.PartySize, slot)
}

func (b *ReservationBuilder) BuildView() *queries.ReservationView {
	return &queries.ReservationView{
		ID:        uuid.New(),
		UserID:    b.UserID,
		ChatID:    111222333,
		TableID:   b.TableID,
		TableName: "T1",
		Name:      b.Name,
		Phone:     b.Phone,
		PartySize: b.PartySize,
		StartsAt:  b.StartsAt,
		EndsAt:    b.EndsAt,
		Status:    "pending",
		CreatedAt: b.StartsAt.Add(-48 * time.Hour),
	}
}
