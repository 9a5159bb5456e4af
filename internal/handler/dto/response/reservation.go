package response

import (
	"time"

	"tablebook/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReservationResponse struct {
	ID        uuid.UUID `json:"id"`
	ChatID    int64     `json:"chatId"`
	TableName string    `json:"tableName"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	PartySize int       `json:"partySize"`
	StartsAt  time.Time `json:"startsAt"`
	EndsAt    time.Time `json:"endsAt"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

func FromReservationView(rm *queries.ReservationView) *ReservationResponse {
	return &ReservationResponse{
		ID:        rm.ID,
		ChatID:    rm.ChatID,
		TableName: rm.TableName,
		Name:      rm.Name,
		Phone:     rm.Phone,
		PartySize: rm.PartySize,
		StartsAt:  rm.StartsAt,
		EndsAt:    rm.EndsAt,
		Status:    rm.Status,
		CreatedAt: rm.CreatedAt,
	}
}

func FromReservationViews(rms []*queries.ReservationView) []*ReservationResponse {
	out := make([]*ReservationResponse, len(rms))
	for i, rm := range rms {
		out[i] = FromReservationView(rm)
	}
	return out
}
