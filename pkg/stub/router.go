package stub

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/skrobi/price/pkg/models"
)

// NewRouter builds the gin router serving the price tracker API surface.
func NewRouter(store *Store) *gin.Engine {
	router := gin.Default()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Batch fetch
	router.GET("/get_links_count", getLinksCount(store))
	router.POST("/fetch_prices_ajax", fetchPricesAjax(store))

	// Prices
	router.POST("/add_manual_price", addManualPrice(store))
	router.POST("/add_manual_price_for_link", addManualPriceForLink(store))
	router.POST("/fetch_price_for_link", fetchPriceForLink(store))

	// Products
	router.POST("/update_product", updateProduct(store))
	router.POST("/delete_product", deleteProduct(store))
	router.POST("/update_product_link", updateProductLink(store))
	router.POST("/delete_product_link", deleteProductLink(store))

	// Shop search
	router.POST("/find_in_shops", findInShops(store))
	router.GET("/get_available_shops", getAvailableShops(store))
	router.POST("/search_in_single_shop", searchInSingleShop(store))
	router.POST("/add_found_link", addFoundLink(store))

	api := router.Group("/api")
	{
		api.GET("/user_info", userInfo(store))
		api.GET("/products/search", searchProducts(store))

		substitutes := api.Group("/substitutes")
		{
			substitutes.GET("/:product_id", getSubstitutes(store))
			substitutes.DELETE("/:product_id/remove", removeFromGroup(store))
			substitutes.POST("/create_group", createGroup(store))
		}
	}

	return router
}

func getLinksCount(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.LinksCountResponse{Count: store.LinksCount()})
	}
}

func fetchPricesAjax(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			LinkIndex int `json:"link_index"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, store.FetchPriceAt(req.LinkIndex))
	}
}

func addManualPrice(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ManualPriceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := store.AddManualPrice(req); err != nil {
			c.JSON(http.StatusOK, models.StatusResponse{Status: models.StatusError, Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, models.StatusResponse{Status: models.StatusSuccess})
	}
}

// addManualPriceForLink is the single-link variant; same store operation,
// but the response uses the {success} envelope instead of {status}.
func addManualPriceForLink(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ManualPriceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ack(c, store.AddManualPrice(req))
	}
}

func fetchPriceForLink(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.LinkFetchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, store.FetchPriceForLink(req))
	}
}

func updateProduct(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.UpdateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ack(c, store.UpdateProduct(req))
	}
}

func deleteProduct(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.DeleteProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ack(c, store.DeleteProduct(req.ProductID))
	}
}

func updateProductLink(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.UpdateLinkRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ack(c, store.UpdateLink(req))
	}
}

func deleteProductLink(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.DeleteLinkRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ack(c, store.DeleteLink(req))
	}
}

func findInShops(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ProductID int `json:"product_id" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		results, err := store.FindInShops(req.ProductID)
		if err != nil {
			c.JSON(http.StatusOK, models.FindInShopsResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, models.FindInShopsResponse{Success: true, Results: results})
	}
}

func getAvailableShops(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.AvailableShopsResponse{Success: true, Shops: store.Shops()})
	}
}

func searchInSingleShop(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SingleShopSearchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		matches, err := store.SearchShop(req.ProductID, req.ShopID)
		if err != nil {
			c.JSON(http.StatusOK, models.SingleShopSearchResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, models.SingleShopSearchResponse{Success: true, Results: matches})
	}
}

func addFoundLink(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.AddFoundLinkRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ack(c, store.AddFoundLink(req))
	}
}

func searchProducts(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := c.Query("q")
		if query == "" {
			c.JSON(http.StatusOK, models.ProductSearchResponse{Error: "missing query"})
			return
		}
		c.JSON(http.StatusOK, models.ProductSearchResponse{
			Success:  true,
			Products: store.SearchProducts(query),
		})
	}
}

func getSubstitutes(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := strconv.Atoi(c.Param("product_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
			return
		}
		substitutes, err := store.Substitutes(productID)
		if err != nil {
			c.JSON(http.StatusOK, models.SubstitutesResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, models.SubstitutesResponse{Success: true, Substitutes: substitutes})
	}
}

func removeFromGroup(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := strconv.Atoi(c.Param("product_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
			return
		}
		ack(c, store.RemoveFromGroup(productID))
	}
}

func createGroup(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreateGroupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ack(c, store.CreateGroup(req))
	}
}

func userInfo(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, store.UserInfo())
	}
}

func ack(c *gin.Context, err error) {
	if err != nil {
		c.JSON(http.StatusOK, models.AckResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, models.AckResponse{Success: true})
}
