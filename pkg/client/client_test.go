package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skrobi/price/pkg/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, 5*time.Second)
}

func TestLinksCount(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/get_links_count", r.URL.Path)
		json.NewEncoder(w).Encode(models.LinksCountResponse{Count: 7})
	})

	count, err := c.LinksCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, count)
}

func TestFetchPriceAt(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/fetch_prices_ajax", r.URL.Path)

		var payload map[string]int
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, 4, payload["link_index"])

		json.NewEncoder(w).Encode(models.FetchResult{
			Status:      models.StatusProcessed,
			LinkIndex:   4,
			Success:     true,
			ProductName: "Kawa",
			ShopID:      "shop-a",
			Price:       19.99,
			Currency:    "EUR",
			PriceType:   models.PriceTypeRegular,
		})
	})

	result, err := c.FetchPriceAt(context.Background(), 4)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, models.Amount(19.99), result.Price)
	assert.False(t, result.Complete())
}

func TestFetchPriceAtStringPrice(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"processed","success":true,"price":"12,99","currency":"PLN","price_type":"regex"}`))
	})

	result, err := c.FetchPriceAt(context.Background(), 0)
	require.NoError(t, err)
	assert.InDelta(t, 12.99, result.Price.Float64(), 1e-9)
}

func TestAddManualPrice(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/add_manual_price", r.URL.Path)

			var req models.ManualPriceRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, 3, req.ProductID)
			assert.Equal(t, "shop-b", req.ShopID)
			assert.Equal(t, 9.99, req.Price)
			assert.Equal(t, "PLN", req.Currency)

			json.NewEncoder(w).Encode(models.StatusResponse{Status: models.StatusSuccess})
		})

		err := c.AddManualPrice(context.Background(), models.ManualPriceRequest{
			ProductID: 3, ShopID: "shop-b", URL: "https://x", Price: 9.99, Currency: "PLN",
		})
		assert.NoError(t, err)
	})

	t.Run("backend error surfaces verbatim", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(models.StatusResponse{Status: "error", Error: "duplicate price"})
		})

		err := c.AddManualPrice(context.Background(), models.ManualPriceRequest{
			ProductID: 3, ShopID: "shop-b", Price: 1, Currency: "PLN",
		})
		require.Error(t, err)
		assert.EqualError(t, err, "duplicate price")
	})
}

func TestFetchPriceForLink(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fetch_price_for_link", r.URL.Path)
		json.NewEncoder(w).Encode(models.LinkFetchResponse{
			Success:         false,
			Error:           "no price element",
			ShowManualModal: true,
		})
	})

	resp, err := c.FetchPriceForLink(context.Background(), models.LinkFetchRequest{
		ProductID: 1, ShopID: "shop-a", URL: "https://x",
	})
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.True(t, resp.ShowManualModal)
	assert.Equal(t, "no price element", resp.Error)
}

func TestSearchProducts(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products/search", r.URL.Path)
		assert.Equal(t, "mleko 3,2%", r.URL.Query().Get("q"))
		json.NewEncoder(w).Encode(models.ProductSearchResponse{
			Success:  true,
			Products: []models.Product{{ID: 1, Name: "Mleko 3,2%"}},
		})
	})

	products, err := c.SearchProducts(context.Background(), "mleko 3,2%")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Mleko 3,2%", products[0].Name)
}

func TestSubstitutes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/substitutes/42", r.URL.Path)
		json.NewEncoder(w).Encode(models.SubstitutesResponse{
			Success:     true,
			Substitutes: []models.Substitute{{ID: 43, Name: "Zamiennik", LinksCount: 2}},
		})
	})

	subs, err := c.Substitutes(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, 43, subs[0].ID)
}

func TestRemoveFromGroupUsesDelete(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/substitutes/42/remove", r.URL.Path)
		json.NewEncoder(w).Encode(models.AckResponse{Success: true})
	})

	assert.NoError(t, c.RemoveFromGroup(context.Background(), 42))
}

func TestFindInShops(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/find_in_shops", r.URL.Path)
		json.NewEncoder(w).Encode(models.FindInShopsResponse{
			Success: true,
			Results: []models.ShopSearchResult{
				{
					Shop:    models.Shop{ShopID: "shop-a", Name: "Shop A"},
					Success: true,
					Results: []models.ShopMatch{{Title: "Kawa", URL: "https://a/kawa", Similarity: 0.93}},
				},
			},
		})
	})

	results, err := c.FindInShops(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "shop-a", results[0].Shop.ShopID)
	assert.InDelta(t, 0.93, results[0].Results[0].Similarity, 1e-9)
}

func TestHTTPErrorStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "boom"})
	})

	_, err := c.LinksCount(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API error (500)")
	assert.Contains(t, err.Error(), "boom")
}

func TestMalformedResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	})

	_, err := c.UserInfo(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse response")
}

func TestBaseURLTrailingSlash(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(models.LinksCountResponse{Count: 0})
	}))
	defer server.Close()

	c := NewClient(server.URL+"/", 5*time.Second)
	_, err := c.LinksCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/get_links_count", gotPath)
}
