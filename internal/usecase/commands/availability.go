package commands

import (
	"context"

	"tablebook/internal/domain/reservation"
	"tablebook/internal/domain/table"
	"tablebook/internal/pkg/errs"
	"tablebook/internal/usecase/shared"
)

var ErrNoTableAvailable = errs.New("no table available for the requested slot")

// AvailabilityResolver picks the smallest free table that seats the party.
// Candidates arrive capacity ASC, id ASC from storage, so the first one not
// occupied during the slot is the best fit and the choice is deterministic.
type AvailabilityResolver struct{}

func NewAvailabilityResolver() *AvailabilityResolver {
	return &AvailabilityResolver{}
}

// FindTable must run inside the same transaction as the reservation insert;
// the exclusion constraint covers the race between two concurrent picks.
func (r *AvailabilityResolver) FindTable(
	ctx context.Context,
	tx shared.Tx,
	partySize int,
	slot reservation.TimeSlot,
) (*table.Table, error) {
	if partySize <= 0 {
		return nil, errs.Mark(table.ErrInvalidPartySize, ErrDomainValidation)
	}

	candidates, err := tx.Tables().ListByMinCapacity(ctx, tx.DB(), partySize)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	// No table in the venue seats this party, regardless of the slot.
	if len(candidates) == 0 {
		return nil, errs.Mark(table.ErrNoSuitableCapacity, ErrNoTableAvailable)
	}

	occupied, err := tx.Reservations().OccupiedTableIDs(ctx, tx.DB(), slot)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	best, ok := table.BestFit(candidates, occupied)
	if !ok {
		return nil, ErrNoTableAvailable
	}
	return best, nil
}
