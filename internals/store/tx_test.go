// file: internals/store/tx_test.go
package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type txWidget struct {
	WidgetGroup string `dynamodbav:"widget_group" validate:"required"`
	WidgetID    string `dynamodbav:"widget_id"    validate:"required"`
	WidgetCount int    `dynamodbav:"widget_count" validate:"gte=0"`
}

func widgetTable(t *testing.T, conn Conn) *Table[txWidget] {
	t.Helper()
	table, err := NewTable[txWidget](conn, TableSpec{
		Name:         "widgets",
		PartitionKey: "widget_group",
		SortKey:      "widget_id",
	}, nil)
	require.NoError(t, err)
	return table
}

func TestTransact(t *testing.T) {
	ctx := context.Background()

	t.Run("menolak dua operasi pada item yang sama", func(t *testing.T) {
		conn := NewMemConn()
		table := widgetTable(t, conn)
		require.NoError(t, table.Insert(ctx, &txWidget{WidgetGroup: "g", WidgetID: "a", WidgetCount: 1}, nil))

		op1, err := table.TxUpdate(Key{Partition: "g", Sort: "a"}, map[string]any{"widget_count": 2}, nil, nil)
		require.NoError(t, err)
		op2, err := table.TxUpdate(Key{Partition: "g", Sort: "a"}, nil, map[string]int{"widget_count": 1}, nil)
		require.NoError(t, err)

		err = Transact(ctx, conn, op1, op2)
		require.ErrorIs(t, err, ErrConflict)
		assert.Contains(t, err.Error(), "cannot include multiple operations on one item")
	})

	t.Run("satu kondisi gagal = tidak ada yang berubah", func(t *testing.T) {
		conn := NewMemConn()
		table := widgetTable(t, conn)
		require.NoError(t, table.Insert(ctx, &txWidget{WidgetGroup: "g", WidgetID: "a", WidgetCount: 1}, nil))
		require.NoError(t, table.Insert(ctx, &txWidget{WidgetGroup: "g", WidgetID: "b", WidgetCount: 1}, nil))

		okOp, err := table.TxUpdate(Key{Partition: "g", Sort: "a"},
			nil, map[string]int{"widget_count": 10}, nil)
		require.NoError(t, err)
		failOp, err := table.TxUpdate(Key{Partition: "g", Sort: "b"},
			nil, map[string]int{"widget_count": 10},
			Where().Eq("widget_count", 999))
		require.NoError(t, err)

		require.ErrorIs(t, Transact(ctx, conn, okOp, failOp), ErrConflict)

		a, err := table.Get(ctx, "g", "a")
		require.NoError(t, err)
		assert.Equal(t, 1, a.WidgetCount, "operasi pertama ikut batal")
	})

	t.Run("semua kondisi lolos = semua diterapkan", func(t *testing.T) {
		conn := NewMemConn()
		table := widgetTable(t, conn)
		require.NoError(t, table.Insert(ctx, &txWidget{WidgetGroup: "g", WidgetID: "a", WidgetCount: 5}, nil))

		plusOp, err := table.TxUpdate(Key{Partition: "g", Sort: "a"},
			nil, map[string]int{"widget_count": -3},
			Where().Ge("widget_count", 3))
		require.NoError(t, err)
		insertOp, err := table.TxInsert(&txWidget{WidgetGroup: "g", WidgetID: "c", WidgetCount: 0}, nil)
		require.NoError(t, err)

		require.NoError(t, Transact(ctx, conn, plusOp, insertOp))

		a, err := table.Get(ctx, "g", "a")
		require.NoError(t, err)
		assert.Equal(t, 2, a.WidgetCount)
		c, err := table.Get(ctx, "g", "c")
		require.NoError(t, err)
		assert.Equal(t, 0, c.WidgetCount)
	})

	t.Run("insert kunci duplikat = Conflict", func(t *testing.T) {
		conn := NewMemConn()
		table := widgetTable(t, conn)
		require.NoError(t, table.Insert(ctx, &txWidget{WidgetGroup: "g", WidgetID: "a", WidgetCount: 0}, nil))
		err := table.Insert(ctx, &txWidget{WidgetGroup: "g", WidgetID: "a", WidgetCount: 7}, nil)
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("update field kunci ditolak", func(t *testing.T) {
		conn := NewMemConn()
		table := widgetTable(t, conn)
		_, err := table.TxUpdate(Key{Partition: "g", Sort: "a"},
			map[string]any{"widget_id": "z"}, nil, nil)
		assert.ErrorIs(t, err, ErrInternal)
	})
}

func TestMemConnQueryOrder(t *testing.T) {
	ctx := context.Background()
	conn := NewMemConn()
	table := widgetTable(t, conn)

	for _, id := range []string{"a", "c", "b"} {
		require.NoError(t, table.Insert(ctx, &txWidget{WidgetGroup: "g", WidgetID: id}, nil))
	}
	items, err := table.Query(ctx, "g")
	require.NoError(t, err)
	require.Len(t, items, 3)
	// terbaru dulu = sort key menurun, meniru ScanIndexForward=false
	assert.Equal(t, "c", items[0].WidgetID)
	assert.Equal(t, "b", items[1].WidgetID)
	assert.Equal(t, "a", items[2].WidgetID)
}
