package table

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrEmptyTableName     = errors.New("table name cannot be empty")
	ErrNonPositiveSize    = errors.New("table capacity must be positive")
	ErrTableNameTooLong   = errors.New("table name is too long (max 64 characters)")
	ErrInvalidPartySize   = errors.New("party size must be positive")
	ErrNoSuitableCapacity = errors.New("no table with sufficient capacity")
)

const MaxTableNameLength = 64

// Table is part of the venue layout. Seeded at install time and immutable in
// the reservation flow.
type Table struct {
	id       uuid.UUID
	name     string
	capacity int
}

func NewTable(id uuid.UUID, name string, capacity int) (*Table, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyTableName
	}
	if len(name) > MaxTableNameLength {
		return nil, ErrTableNameTooLong
	}
	if capacity <= 0 {
		return nil, ErrNonPositiveSize
	}

	return &Table{
		id:       id,
		name:     name,
		capacity: capacity,
	}, nil
}

func (t *Table) Fits(partySize int) bool {
	return t.capacity >= partySize
}

func (t *Table) ID() uuid.UUID { return t.id }
func (t *Table) Name() string  { return t.name }
func (t *Table) Capacity() int { return t.capacity }

// BestFit picks the first candidate not present in occupied. Candidates must
// already be ordered capacity ASC, id ASC, so the pick is the smallest table
// that still seats the party and is deterministic under capacity ties.
func BestFit(candidates []*Table, occupied map[uuid.UUID]struct{}) (*Table, bool) {
	for _, t := range candidates {
		if _, taken := occupied[t.ID()]; !taken {
			return t, true
		}
	}
	return nil, false
}
