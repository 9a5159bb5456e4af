package request

import (
	"strings"
	"time"
)

// CreateReservationRequest carries a guest booking. Identity fields mirror
// what the chat frontend knows about the guest; contact fields are what the
// venue actually calls.
type CreateReservationRequest struct {
	ChatID    int64     `json:"chat_id" binding:"required"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	Username  string    `json:"username,omitempty"`
	Name      string    `json:"name" binding:"required"`
	Phone     string    `json:"phone" binding:"required"`
	PartySize int       `json:"party_size" binding:"required,min=1"`
	StartsAt  time.Time `json:"starts_at" binding:"required"`
}

// Normalize trims user-entered fields before they reach domain validation.
func (r *CreateReservationRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Phone = strings.TrimSpace(r.Phone)
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Username = strings.TrimSpace(r.Username)
}
