package prices

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skrobi/price/pkg/models"
)

type fakeSaver struct {
	calls []models.ManualPriceRequest
	err   error
}

func (f *fakeSaver) AddManualPrice(_ context.Context, req models.ManualPriceRequest) error {
	f.calls = append(f.calls, req)
	return f.err
}

func newManualFixture(saver *fakeSaver) (*ManualEntry, *Table, *NotificationCenter) {
	table := NewTable()
	notify := NewNotificationCenter()
	renderer := NewRenderer(table)
	entry := NewManualEntry(saver, renderer, table, notify)
	return entry, table, notify
}

func insertManualRow(table *Table) string {
	renderer := NewRenderer(table)
	renderer.Render(&models.FetchResult{
		Success:     false,
		ProductID:   5,
		ProductName: "Herbata",
		ShopID:      "shop-b",
		FullURL:     "https://shop-b.example/herbata",
		Error:       "no price found",
	})
	return table.Rows()[0].ID
}

func TestParsePrice(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{name: "dot decimal", input: "12.50", want: 12.5},
		{name: "comma decimal", input: "12,50", want: 12.5},
		{name: "integer", input: "7", want: 7},
		{name: "blank", input: "", wantErr: true},
		{name: "whitespace", input: "   ", wantErr: true},
		{name: "zero", input: "0", wantErr: true},
		{name: "negative", input: "-3", wantErr: true},
		{name: "non-numeric", input: "dużo", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParsePrice(tc.input)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPrice)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestManualSaveRejectsInvalidPriceWithoutBackendCall(t *testing.T) {
	for _, bad := range []string{"", "0", "-1", "abc"} {
		t.Run("price "+bad, func(t *testing.T) {
			saver := &fakeSaver{}
			entry, table, notify := newManualFixture(saver)
			rowID := insertManualRow(table)
			table.UpdateDraft(rowID, bad, "PLN")

			err := entry.Save(context.Background(), rowID)

			assert.ErrorIs(t, err, ErrInvalidPrice)
			assert.Empty(t, saver.calls, "invalid input must never reach the backend")
			_, ok := table.Row(rowID)
			assert.True(t, ok, "row is kept for retry")

			notification := notify.Active()
			require.NotNil(t, notification)
			assert.Equal(t, SeverityError, notification.Severity)
		})
	}
}

func TestManualSaveSuccessPromotesRow(t *testing.T) {
	saver := &fakeSaver{}
	entry, table, notify := newManualFixture(saver)
	rowID := insertManualRow(table)
	table.UpdateDraft(rowID, "12,50", "EUR")

	err := entry.Save(context.Background(), rowID)
	require.NoError(t, err)

	require.Len(t, saver.calls, 1)
	call := saver.calls[0]
	assert.Equal(t, 5, call.ProductID)
	assert.Equal(t, "shop-b", call.ShopID)
	assert.Equal(t, "https://shop-b.example/herbata", call.URL)
	assert.Equal(t, 12.5, call.Price)
	assert.Equal(t, "EUR", call.Currency)

	_, ok := table.Row(rowID)
	assert.False(t, ok, "manual row is gone after save")

	rows := table.Rows()
	require.Len(t, rows, 1)
	row := rows[0]
	assert.Equal(t, RowSuccess, row.Kind)
	assert.Equal(t, models.PriceTypeManual, row.PriceType)
	assert.Equal(t, "✏️", row.TypeTag)
	assert.Equal(t, "Herbata", row.ProductName)
	assert.Equal(t, "12.50", row.Price)
	assert.Equal(t, "EUR", row.Currency)

	notification := notify.Active()
	require.NotNil(t, notification)
	assert.Equal(t, SeveritySuccess, notification.Severity)
	assert.Contains(t, notification.Message, "12.50 EUR")
}

func TestManualSaveBackendFailureKeepsRow(t *testing.T) {
	saver := &fakeSaver{err: errors.New("duplicate price")}
	entry, table, notify := newManualFixture(saver)
	rowID := insertManualRow(table)
	table.UpdateDraft(rowID, "9.99", "PLN")

	err := entry.Save(context.Background(), rowID)

	assert.Error(t, err)
	_, ok := table.Row(rowID)
	assert.True(t, ok, "row stays in place for retry")

	notification := notify.Active()
	require.NotNil(t, notification)
	assert.Equal(t, SeverityError, notification.Severity)
	assert.Contains(t, notification.Message, "duplicate price")
}

func TestManualSaveFallbackProductName(t *testing.T) {
	saver := &fakeSaver{}
	entry, table, _ := newManualFixture(saver)

	renderer := NewRenderer(table)
	renderer.Render(&models.FetchResult{
		Success: false,
		ShopID:  "shop-c",
		Error:   "boom",
	})
	rowID := table.Rows()[0].ID
	table.UpdateDraft(rowID, "5", "PLN")

	require.NoError(t, entry.Save(context.Background(), rowID))

	rows := table.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, FallbackProductName, rows[0].ProductName)
}

func TestManualDismissRemovesRowWithoutBackendCall(t *testing.T) {
	saver := &fakeSaver{}
	entry, table, _ := newManualFixture(saver)
	rowID := insertManualRow(table)

	entry.Dismiss(rowID)

	assert.Equal(t, 0, table.Len())
	assert.Empty(t, saver.calls)
}

func TestManualSaveUnknownRow(t *testing.T) {
	saver := &fakeSaver{}
	entry, _, _ := newManualFixture(saver)

	err := entry.Save(context.Background(), "no-such-row")
	assert.Error(t, err)
	assert.Empty(t, saver.calls)
}
