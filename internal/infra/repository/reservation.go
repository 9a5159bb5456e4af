package repository

import (
	"context"
	"fmt"
	"time"

	"tablebook/internal/domain/reservation"
	"tablebook/internal/infra"
	"tablebook/internal/infra/db"
	"tablebook/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type ReservationRepository struct{}

func NewReservationRepository() *ReservationRepository {
	return &ReservationRepository{}
}

func (r *ReservationRepository) Create(ctx context.Context, dbtx db.DBTX, res *reservation.Reservation) error {
	_, err := dbtx.Exec(ctx, `
		INSERT INTO reservations (id, user_id, table_id, name, phone, party_size, starts_at, ends_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		res.ID(), res.UserID(), res.TableID(),
		res.Contact().Name(), res.Contact().Phone(), res.PartySize(),
		res.Slot().Start(), res.Slot().End(), res.Status().String(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to insert reservation", err)
	}
	return nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*reservation.Reservation, error) {
	row := dbtx.QueryRow(ctx, `
		SELECT id, user_id, table_id, name, phone, party_size, starts_at, ends_at, status, created_at, updated_at
		FROM reservations WHERE id = $1
	`, id)

	res, err := scanReservation(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation by id", err)
	}
	return res, nil
}

func (r *ReservationRepository) UpdateStatus(ctx context.Context, dbtx db.DBTX, id uuid.UUID, from, to reservation.Status) (bool, error) {
	tag, err := dbtx.Exec(ctx, `
		UPDATE reservations SET status = $3, updated_at = now()
		WHERE id = $1 AND status = $2
	`, id, from.String(), to.String())
	if err != nil {
		return false, infra.WrapRepoErr("failed to update reservation status", err)
	}
	return tag.RowsAffected() == 1, nil
}

// OccupiedTableIDs mirrors the exclusion constraint's range expression, so
// the advisory check and the authoritative one agree on overlap semantics.
func (r *ReservationRepository) OccupiedTableIDs(ctx context.Context, dbtx db.DBTX, slot reservation.TimeSlot) (map[uuid.UUID]struct{}, error) {
	rows, err := dbtx.Query(ctx, `
		SELECT DISTINCT table_id FROM reservations
		WHERE status IN ('pending', 'confirmed')
		  AND tstzrange(starts_at, ends_at) && $1::tstzrange
	`, slot.ToTstzrange())
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query occupied tables", err)
	}
	defer rows.Close()

	occupied := make(map[uuid.UUID]struct{})
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr("failed to scan occupied table id", err)
		}
		occupied[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate occupied tables", err)
	}
	return occupied, nil
}

func (r *ReservationRepository) CountActiveCreatedBetween(ctx context.Context, dbtx db.DBTX, from, to time.Time, userID *uuid.UUID) (int, error) {
	var count int
	err := dbtx.QueryRow(ctx, `
		SELECT COUNT(*) FROM reservations
		WHERE status IN ('pending', 'confirmed')
		  AND created_at >= $1 AND created_at < $2
		  AND ($3::uuid IS NULL OR user_id = $3)
	`, from, to, pgconv.UUIDPtrToPgtype(userID)).Scan(&count)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count reservations", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(row rowScanner) (*reservation.Reservation, error) {
	var (
		id, userID, tableID  uuid.UUID
		name, phone, status  string
		partySize            int
		startsAt, endsAt     time.Time
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&id, &userID, &tableID, &name, &phone, &partySize, &startsAt, &endsAt, &status, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	slot, err := reservation.NewTimeSlot(startsAt, endsAt)
	if err != nil {
		return nil, err
	}
	st := reservation.Status(status)
	if !st.IsValid() {
		return nil, fmt.Errorf("unknown reservation status %q", status)
	}
	return reservation.ReconstructReservation(
		id, userID, tableID,
		reservation.ReconstructContact(name, phone),
		partySize, slot, st,
		createdAt, updatedAt,
	), nil
}
