// Package prices implements the client-side price tracking domain: the
// sequential batch fetch loop, the results table it renders into, manual
// price entry for failed extractions, and the display formatting shared by
// all of them. Nothing in this package depends on a UI toolkit; the TUI
// layer drives it through small interfaces.
package prices

import (
	"fmt"
	"strings"
	"time"

	"github.com/skrobi/price/pkg/models"
)

// ReferenceCurrency is the currency all prices are converted to for
// comparison display.
const ReferenceCurrency = "PLN"

// plnRates converts known currencies to PLN. Unknown currencies are treated
// as already being PLN.
var plnRates = map[string]float64{
	"PLN": 1.0,
	"EUR": 4.30,
	"USD": 4.00,
}

// Currencies is the fixed set offered by manual entry forms.
var Currencies = []string{"PLN", "EUR", "USD"}

// typeTags marks how a price was extracted.
var typeTags = map[string]string{
	models.PriceTypePromo:       "🏷️",
	models.PriceTypeRegular:     "💰",
	models.PriceTypeRegex:       "🔍",
	models.PriceTypeAllegroHTML: "🛒",
	models.PriceTypeManual:      "✏️",
	models.PriceTypeUnknown:     "❓",
}

// FormatPrice formats an amount with two decimal places.
func FormatPrice(amount models.Amount) string {
	return fmt.Sprintf("%.2f", amount.Float64())
}

// PLNValue converts an amount into the reference currency.
func PLNValue(amount models.Amount, currency string) float64 {
	rate, ok := plnRates[currency]
	if !ok {
		rate = 1.0
	}
	return amount.Float64() * rate
}

// ToPLN converts an amount into the reference currency and formats it with
// two decimal places.
func ToPLN(amount models.Amount, currency string) string {
	return fmt.Sprintf("%.2f", PLNValue(amount, currency))
}

// TypeTag returns the marker for a price extraction type, falling back to
// the unknown marker.
func TypeTag(priceType string) string {
	if tag, ok := typeTags[priceType]; ok {
		return tag
	}
	return typeTags[models.PriceTypeUnknown]
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeHTML neutralizes markup-significant characters so backend-supplied
// text (product names, shop ids, error messages) can never be interpreted
// as markup when re-rendered.
func EscapeHTML(text string) string {
	return htmlEscaper.Replace(text)
}

// Timestamp formats a moment at minute precision in a sortable form,
// matching the web UI's row timestamps.
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04")
}
