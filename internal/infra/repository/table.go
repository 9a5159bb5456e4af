package repository

import (
	"context"

	"tablebook/internal/domain/table"
	"tablebook/internal/infra"
	"tablebook/internal/infra/db"

	"github.com/google/uuid"
)

type TableRepository struct{}

func NewTableRepository() *TableRepository {
	return &TableRepository{}
}

// Ordering matters: capacity ASC makes the first free candidate the best
// fit, id ASC keeps ties deterministic.
func (r *TableRepository) ListByMinCapacity(ctx context.Context, dbtx db.DBTX, partySize int) ([]*table.Table, error) {
	rows, err := dbtx.Query(ctx, `
		SELECT id, name, capacity FROM tables
		WHERE capacity >= $1
		ORDER BY capacity ASC, id ASC
	`, partySize)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query tables by capacity", err)
	}
	defer rows.Close()

	var tables []*table.Table
	for rows.Next() {
		var (
			id       uuid.UUID
			name     string
			capacity int
		)
		if err := rows.Scan(&id, &name, &capacity); err != nil {
			return nil, infra.WrapRepoErr("failed to scan table row", err)
		}
		t, err := table.NewTable(id, name, capacity)
		if err != nil {
			return nil, infra.WrapRepoErr("invalid table row", err)
		}
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate tables", err)
	}
	return tables, nil
}
