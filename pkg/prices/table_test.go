package prices

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableInsertsAtHead(t *testing.T) {
	table := NewTable()
	table.InsertRow(Row{ID: "a"})
	table.InsertRow(Row{ID: "b"})
	table.InsertRow(Row{ID: "c"})

	rows := table.Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, "c", rows[0].ID)
	assert.Equal(t, "b", rows[1].ID)
	assert.Equal(t, "a", rows[2].ID)
}

func TestTableFirstRowReplacesEmptyState(t *testing.T) {
	table := NewTable()
	table.InsertRow(Row{ID: "a"})
	table.InsertRow(Row{ID: "b"})

	rows := table.Rows()
	assert.True(t, rows[1].First, "row inserted into an empty table replaces the placeholder")
	assert.False(t, rows[0].First)
}

func TestTableRemoveRow(t *testing.T) {
	table := NewTable()
	table.InsertRow(Row{ID: "a"})
	table.InsertRow(Row{ID: "b"})

	assert.True(t, table.RemoveRow("a"))
	assert.False(t, table.RemoveRow("a"))
	assert.Equal(t, 1, table.Len())

	_, ok := table.Row("a")
	assert.False(t, ok)
}

func TestTableUpdateDraft(t *testing.T) {
	table := NewTable()
	table.InsertRow(Row{ID: "m", Kind: RowManual, Draft: &ManualDraft{RowID: "m", Currency: "PLN"}})
	table.InsertRow(Row{ID: "s", Kind: RowSuccess})

	assert.True(t, table.UpdateDraft("m", "12,50", "EUR"))
	assert.False(t, table.UpdateDraft("s", "1", "PLN"), "static rows have no draft")

	row, ok := table.Row("m")
	require.True(t, ok)
	assert.Equal(t, "12,50", row.Draft.Price)
	assert.Equal(t, "EUR", row.Draft.Currency)
}
