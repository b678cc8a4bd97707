package prices

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/skrobi/price/pkg/models"
)

// ErrInvalidPrice is returned when the entered price is missing,
// non-numeric, or not positive. Callers keep the row and refocus the price
// field.
var ErrInvalidPrice = errors.New("invalid price")

// FallbackProductName is used when a manual row no longer carries a
// product name.
const FallbackProductName = "Unknown product"

// ManualSaver posts hand-entered prices to the backend. *client.Client
// satisfies it.
type ManualSaver interface {
	AddManualPrice(ctx context.Context, req models.ManualPriceRequest) error
}

// ManualEntry handles the manual-price fallback rows created for failed
// extractions.
type ManualEntry struct {
	saver    ManualSaver
	renderer *Renderer
	sink     RowSink
	notify   Notifier
}

// NewManualEntry wires manual entry to its collaborators.
func NewManualEntry(saver ManualSaver, renderer *Renderer, sink RowSink, notify Notifier) *ManualEntry {
	return &ManualEntry{
		saver:    saver,
		renderer: renderer,
		sink:     sink,
		notify:   notify,
	}
}

// ParsePrice validates a hand-entered price. It accepts a comma or dot
// decimal separator and requires a positive value.
func ParsePrice(input string) (float64, error) {
	s := strings.ReplaceAll(strings.TrimSpace(input), ",", ".")
	if s == "" {
		return 0, ErrInvalidPrice
	}
	price, err := strconv.ParseFloat(s, 64)
	if err != nil || price <= 0 {
		return 0, ErrInvalidPrice
	}
	return price, nil
}

// Save validates the row's draft and posts it to the backend. On success
// the manual row is replaced by a success row with the manual price type.
// On validation failure no request is issued and the row is kept; on
// backend failure the row is kept for retry.
func (m *ManualEntry) Save(ctx context.Context, rowID string) error {
	row, ok := m.sink.Row(rowID)
	if !ok || row.Draft == nil {
		return fmt.Errorf("manual row %s not found", rowID)
	}
	draft := row.Draft

	price, err := ParsePrice(draft.Price)
	if err != nil {
		m.notify.Notify("Enter a valid price", SeverityError)
		return err
	}

	currency := draft.Currency
	if currency == "" {
		currency = ReferenceCurrency
	}

	err = m.saver.AddManualPrice(ctx, models.ManualPriceRequest{
		ProductID: draft.ProductID,
		ShopID:    draft.ShopID,
		URL:       draft.URL,
		Price:     price,
		Currency:  currency,
	})
	if err != nil {
		m.notify.Notify(fmt.Sprintf("Error: %v", err), SeverityError)
		return err
	}

	productName := draft.ProductName
	if productName == "" {
		productName = FallbackProductName
	}

	m.sink.RemoveRow(rowID)
	m.renderer.Render(&models.FetchResult{
		Success:     true,
		ProductID:   draft.ProductID,
		ProductName: productName,
		ShopID:      draft.ShopID,
		Price:       models.Amount(price),
		Currency:    currency,
		PriceType:   models.PriceTypeManual,
	})

	m.notify.Notify(fmt.Sprintf("Price saved: %.2f %s", price, currency), SeveritySuccess)
	return nil
}

// Dismiss removes a manual row without contacting the backend.
func (m *ManualEntry) Dismiss(rowID string) {
	m.sink.RemoveRow(rowID)
}
