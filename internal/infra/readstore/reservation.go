package readstore

import (
	"context"
	"time"

	"tablebook/internal/infra"
	"tablebook/internal/infra/db"
	"tablebook/internal/pkg/pgconv"
	"tablebook/internal/usecase/queries"
	"tablebook/internal/usecase/reminder"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const reservationViewSelect = `
	SELECT r.id, r.user_id, u.chat_id, r.table_id, t.name, r.name, r.phone,
	       r.party_size, r.starts_at, r.ends_at, r.status, r.created_at
	FROM reservations r
	JOIN users u ON u.id = r.user_id
	JOIN tables t ON t.id = r.table_id
`

// ReservationReadStore serves both the query side and the reminder
// scheduler's snapshot reads from the same joined view.
type ReservationReadStore struct {
	pool db.DBTX
}

func NewReservationReadStore(pool db.DBTX) *ReservationReadStore {
	return &ReservationReadStore{pool: pool}
}

func (r *ReservationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	row := r.pool.QueryRow(ctx, reservationViewSelect+` WHERE r.id = $1`, id)
	view, err := scanView(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation view", err)
	}
	return view, nil
}

func (r *ReservationReadStore) FindUpcomingByChatID(ctx context.Context, chatID int64, now time.Time) ([]*queries.ReservationView, error) {
	rows, err := r.pool.Query(ctx,
		reservationViewSelect+` WHERE u.chat_id = $1 AND r.ends_at >= $2 ORDER BY r.starts_at ASC`,
		chatID, now,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query reservations by chat id", err)
	}
	return collectViews(rows)
}

func (r *ReservationReadStore) FindByStatus(ctx context.Context, status string) ([]*queries.ReservationView, error) {
	rows, err := r.pool.Query(ctx,
		reservationViewSelect+` WHERE r.status = $1 ORDER BY r.starts_at ASC`,
		status,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query reservations by status", err)
	}
	return collectViews(rows)
}

// ConfirmedFuture feeds scheduler reconciliation: every confirmed
// reservation whose start is still ahead.
func (r *ReservationReadStore) ConfirmedFuture(ctx context.Context, now time.Time) ([]*reminder.ReservationInfo, error) {
	rows, err := r.pool.Query(ctx,
		reservationViewSelect+` WHERE r.status = 'confirmed' AND r.starts_at > $1 ORDER BY r.starts_at ASC`,
		now,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query confirmed future reservations", err)
	}

	views, err := collectViews(rows)
	if err != nil {
		return nil, err
	}
	infos := make([]*reminder.ReservationInfo, len(views))
	for i, v := range views {
		infos[i] = viewToInfo(v)
	}
	return infos, nil
}

func (r *ReservationReadStore) ByID(ctx context.Context, id uuid.UUID) (*reminder.ReservationInfo, error) {
	view, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return viewToInfo(view), nil
}

func viewToInfo(v *queries.ReservationView) *reminder.ReservationInfo {
	return &reminder.ReservationInfo{
		ID:        v.ID,
		ChatID:    v.ChatID,
		TableName: v.TableName,
		PartySize: v.PartySize,
		StartsAt:  v.StartsAt,
		Status:    v.Status,
	}
}

func scanView(row pgx.Row) (*queries.ReservationView, error) {
	var v queries.ReservationView
	if err := row.Scan(
		&v.ID, &v.UserID, &v.ChatID, &v.TableID, &v.TableName, &v.Name, &v.Phone,
		&v.PartySize, &v.StartsAt, &v.EndsAt, &v.Status, &v.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &v, nil
}

func collectViews(rows pgx.Rows) ([]*queries.ReservationView, error) {
	defer rows.Close()

	var views []*queries.ReservationView
	for rows.Next() {
		v, err := scanView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation view", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate reservation views", err)
	}
	return views, nil
}
