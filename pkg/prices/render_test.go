package prices

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skrobi/price/pkg/models"
)

func TestRenderSuccessRow(t *testing.T) {
	table := NewTable()
	renderer := NewRenderer(table)

	renderer.Render(&models.FetchResult{
		Success:     true,
		ProductID:   7,
		ProductName: "Kawa ziarnista",
		ShopID:      "shop-a",
		Price:       19.99,
		Currency:    "EUR",
		PriceType:   models.PriceTypeRegular,
	})

	rows := table.Rows()
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, RowSuccess, row.Kind)
	assert.True(t, row.First)
	assert.Equal(t, "Kawa ziarnista", row.ProductName)
	assert.Equal(t, "shop-a", row.ShopID)
	assert.Equal(t, "19.99", row.Price)
	assert.Equal(t, "EUR", row.Currency)
	assert.Equal(t, "85.96", row.PLN)
	assert.Equal(t, "💰", row.TypeTag)
	assert.Nil(t, row.Draft)
	assert.NotEmpty(t, row.ID)
	assert.NotEmpty(t, row.Time)
}

func TestRenderEscapesBackendText(t *testing.T) {
	table := NewTable()
	renderer := NewRenderer(table)

	renderer.Render(&models.FetchResult{
		Success:     true,
		ProductName: `<b>Mleko</b> & "co"`,
		ShopID:      "<shop>",
		Price:       1,
		Currency:    "PLN",
		PriceType:   models.PriceTypeRegular,
	})

	row := table.Rows()[0]
	assert.Equal(t, "&lt;b&gt;Mleko&lt;/b&gt; &amp; &quot;co&quot;", row.ProductName)
	assert.Equal(t, "&lt;shop&gt;", row.ShopID)
}

func TestRenderFailureProducesManualRow(t *testing.T) {
	table := NewTable()
	renderer := NewRenderer(table)

	renderer.Render(&models.FetchResult{
		Success:     false,
		ProductID:   3,
		ProductName: "Herbata",
		ShopID:      "shop-b",
		FullURL:     "https://shop-b.example/herbata",
		Error:       "price element not found on page, selector .price-box returned nothing",
	})

	rows := table.Rows()
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, RowManual, row.Kind)
	require.NotNil(t, row.Draft)
	assert.Equal(t, row.ID, row.Draft.RowID)
	assert.Equal(t, 3, row.Draft.ProductID)
	assert.Equal(t, "Herbata", row.Draft.ProductName)
	assert.Equal(t, "shop-b", row.Draft.ShopID)
	assert.Equal(t, "https://shop-b.example/herbata", row.Draft.URL)
	assert.Equal(t, ReferenceCurrency, row.Draft.Currency)
	assert.Len(t, []rune(row.Draft.Error), 53, "error excerpt is capped at 50 runes plus ellipsis")
}

func TestRenderRowsNewestFirst(t *testing.T) {
	table := NewTable()
	renderer := NewRenderer(table)

	renderer.Render(&models.FetchResult{Success: true, ProductName: "first", Price: 1, Currency: "PLN", PriceType: models.PriceTypeRegular})
	renderer.Render(&models.FetchResult{Success: true, ProductName: "second", Price: 2, Currency: "PLN", PriceType: models.PriceTypePromo})

	rows := table.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "second", rows[0].ProductName)
	assert.False(t, rows[0].First)
	assert.Equal(t, "first", rows[1].ProductName)
	assert.True(t, rows[1].First)
}

func TestSummaryLine(t *testing.T) {
	success := &models.FetchResult{
		Success:     true,
		ProductName: "Kawa",
		ShopID:      "shop-a",
		Price:       9.5,
		Currency:    "PLN",
		PriceType:   models.PriceTypePromo,
	}
	assert.Equal(t, "🏷️ shop-a - Kawa: 9.50 PLN", SummaryLine(success))

	failure := &models.FetchResult{
		Success:     false,
		ProductName: "Kawa",
		ShopID:      "shop-b",
		Error:       "timeout",
	}
	assert.Equal(t, "❌ shop-b - Kawa: timeout", SummaryLine(failure))
}
