package prices

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/skrobi/price/pkg/models"
)

// RowSink is the render-target interface the renderer and manual entry
// write to. *Table satisfies it.
type RowSink interface {
	InsertRow(row Row)
	RemoveRow(id string) bool
	Row(id string) (Row, bool)
}

// Notifier shows transient user-facing messages. *NotificationCenter
// satisfies it.
type Notifier interface {
	Notify(message string, severity Severity)
}

// Renderer turns fetch results into table rows: successful extractions
// become static rows, failures become editable manual-entry rows.
type Renderer struct {
	sink RowSink
	now  func() time.Time
}

// NewRenderer creates a renderer writing to the given sink.
func NewRenderer(sink RowSink) *Renderer {
	return &Renderer{
		sink: sink,
		now:  time.Now,
	}
}

// Render inserts the row for one fetch result at the head of the table.
func (r *Renderer) Render(result *models.FetchResult) {
	if result.Success {
		r.sink.InsertRow(r.successRow(result))
		return
	}
	r.sink.InsertRow(r.manualRow(result))
}

func (r *Renderer) successRow(result *models.FetchResult) Row {
	return Row{
		ID:          uuid.NewString(),
		Kind:        RowSuccess,
		Time:        Timestamp(r.now()),
		ProductName: EscapeHTML(result.ProductName),
		ShopID:      EscapeHTML(result.ShopID),
		PriceType:   result.PriceType,
		TypeTag:     TypeTag(result.PriceType),
		Price:       FormatPrice(result.Price),
		Currency:    result.Currency,
		PLN:         ToPLN(result.Price, result.Currency),
	}
}

func (r *Renderer) manualRow(result *models.FetchResult) Row {
	id := uuid.NewString()
	return Row{
		ID:          id,
		Kind:        RowManual,
		Time:        Timestamp(r.now()),
		ProductName: EscapeHTML(result.ProductName),
		ShopID:      EscapeHTML(result.ShopID),
		Draft: &ManualDraft{
			RowID:       id,
			ProductID:   result.ProductID,
			ProductName: result.ProductName,
			ShopID:      result.ShopID,
			URL:         result.FullURL,
			Error:       truncateError(result.Error),
			Currency:    ReferenceCurrency,
		},
	}
}

// SummaryLine renders the one-line live log entry for a fetch result.
func SummaryLine(result *models.FetchResult) string {
	if result.Success {
		return fmt.Sprintf("%s %s - %s: %s %s",
			TypeTag(result.PriceType), result.ShopID, result.ProductName,
			FormatPrice(result.Price), result.Currency)
	}
	return fmt.Sprintf("❌ %s - %s: %s", result.ShopID, result.ProductName, result.Error)
}


func truncateError(msg string) string {
	const max = 50
	runes := []rune(msg)
	if len(runes) <= max {
		return msg
	}
	return string(runes[:max]) + "..."
}
