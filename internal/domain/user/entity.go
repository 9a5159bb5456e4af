package user

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidChatID = errors.New("chat id must be positive")

// User is a venue guest, keyed by the chat identifier the front end gives us.
// Created on first interaction; display fields are best effort.
type User struct {
	id        uuid.UUID
	chatID    int64
	firstName string
	lastName  string
	username  string
	createdAt time.Time
}

func NewUser(chatID int64, firstName, lastName, username string) (*User, error) {
	if chatID <= 0 {
		return nil, ErrInvalidChatID
	}
	return &User{
		id:        uuid.New(),
		chatID:    chatID,
		firstName: firstName,
		lastName:  lastName,
		username:  username,
	}, nil
}

func ReconstructUser(id uuid.UUID, chatID int64, firstName, lastName, username string, createdAt time.Time) *User {
	return &User{
		id:        id,
		chatID:    chatID,
		firstName: firstName,
		lastName:  lastName,
		username:  username,
		createdAt: createdAt,
	}
}

func (u *User) ID() uuid.UUID        { return u.id }
func (u *User) ChatID() int64        { return u.chatID }
func (u *User) FirstName() string    { return u.firstName }
func (u *User) LastName() string     { return u.lastName }
func (u *User) Username() string     { return u.username }
func (u *User) CreatedAt() time.Time { return u.createdAt }
