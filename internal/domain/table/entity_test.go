//go:build unit

package table_test

import (
	"strings"
	"testing"

	"tablebook/internal/domain/table"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTable(t *testing.T, name string, capacity int) *table.Table {
	t.Helper()
	tbl, err := table.NewTable(uuid.New(), name, capacity)
	require.NoError(t, err)
	return tbl
}

func TestNewTable(t *testing.T) {
	t.Run("valid table", func(t *testing.T) {
		tbl := mustTable(t, "T1", 4)
		assert.Equal(t, "T1", tbl.Name())
		assert.Equal(t, 4, tbl.Capacity())
		assert.True(t, tbl.Fits(4))
		assert.False(t, tbl.Fits(5))
	})

	t.Run("validation", func(t *testing.T) {
		_, err := table.NewTable(uuid.New(), "  ", 4)
		assert.ErrorIs(t, err, table.ErrEmptyTableName)

		_, err = table.NewTable(uuid.New(), strings.Repeat("x", table.MaxTableNameLength+1), 4)
		assert.ErrorIs(t, err, table.ErrTableNameTooLong)

		_, err = table.NewTable(uuid.New(), "T1", 0)
		assert.ErrorIs(t, err, table.ErrNonPositiveSize)
	})
}

func TestBestFit(t *testing.T) {
	// candidates arrive capacity ASC, id ASC from storage
	small := mustTable(t, "T1", 2)
	medium := mustTable(t, "T5", 4)
	large := mustTable(t, "T9", 6)
	candidates := []*table.Table{small, medium, large}

	occupied := func(tables ...*table.Table) map[uuid.UUID]struct{} {
		m := make(map[uuid.UUID]struct{}, len(tables))
		for _, tbl := range tables {
			m[tbl.ID()] = struct{}{}
		}
		return m
	}

	t.Run("smallest free table wins", func(t *testing.T) {
		got, ok := table.BestFit(candidates, occupied())
		require.True(t, ok)
		assert.Equal(t, small.ID(), got.ID())
	})

	t.Run("occupied tables are skipped", func(t *testing.T) {
		got, ok := table.BestFit(candidates, occupied(small))
		require.True(t, ok)
		assert.Equal(t, medium.ID(), got.ID())
	})

	t.Run("all occupied", func(t *testing.T) {
		_, ok := table.BestFit(candidates, occupied(small, medium, large))
		assert.False(t, ok)
	})

	t.Run("no candidates", func(t *testing.T) {
		_, ok := table.BestFit(nil, occupied())
		assert.False(t, ok)
	})

	t.Run("capacity tie resolves to first in storage order", func(t *testing.T) {
		twinA := mustTable(t, "T2", 4)
		twinB := mustTable(t, "T3", 4)
		got, ok := table.BestFit([]*table.Table{twinA, twinB}, occupied())
		require.True(t, ok)
		assert.Equal(t, twinA.ID(), got.ID())

		got, ok = table.BestFit([]*table.Table{twinA, twinB}, occupied(twinA))
		require.True(t, ok)
		assert.Equal(t, twinB.ID(), got.ID())
	})
}
