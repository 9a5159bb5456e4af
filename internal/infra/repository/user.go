package repository

import (
	"context"
	"time"

	"tablebook/internal/domain/user"
	"tablebook/internal/infra"
	"tablebook/internal/infra/db"
	"tablebook/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// Ensure upserts by chat_id. Display fields refresh on every contact so the
// venue always sees the guest's current handle.
func (r *UserRepository) Ensure(ctx context.Context, dbtx db.DBTX, chatID int64, firstName, lastName, username string) (*user.User, error) {
	row := dbtx.QueryRow(ctx, `
		INSERT INTO users (chat_id, first_name, last_name, username)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (chat_id) DO UPDATE
		SET first_name = EXCLUDED.first_name,
		    last_name = EXCLUDED.last_name,
		    username = EXCLUDED.username
		RETURNING id, chat_id, first_name, last_name, username, created_at
	`, chatID, firstName, lastName, username)

	u, err := scanUser(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to ensure user", err)
	}
	return u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*user.User, error) {
	row := dbtx.QueryRow(ctx, `
		SELECT id, chat_id, first_name, last_name, username, created_at
		FROM users WHERE id = $1
	`, id)

	u, err := scanUser(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user by id", err)
	}
	return u, nil
}

func (r *UserRepository) FindByChatID(ctx context.Context, dbtx db.DBTX, chatID int64) (*user.User, error) {
	row := dbtx.QueryRow(ctx, `
		SELECT id, chat_id, first_name, last_name, username, created_at
		FROM users WHERE chat_id = $1
	`, chatID)

	u, err := scanUser(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user by chat id", err)
	}
	return u, nil
}

func scanUser(row rowScanner) (*user.User, error) {
	var (
		id                            uuid.UUID
		chatID                        int64
		firstName, lastName, username string
		createdAt                     time.Time
	)
	if err := row.Scan(&id, &chatID, &firstName, &lastName, &username, &createdAt); err != nil {
		return nil, err
	}
	return user.ReconstructUser(id, chatID, firstName, lastName, username, createdAt), nil
}
