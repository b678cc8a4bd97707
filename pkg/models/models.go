package models

// Price extraction methods reported by the backend in FetchResult.PriceType.
const (
	PriceTypePromo       = "promo"
	PriceTypeRegular     = "regular"
	PriceTypeRegex       = "regex"
	PriceTypeAllegroHTML = "allegro_html"
	PriceTypeManual      = "manual"
	PriceTypeUnknown     = "unknown"
)

// Batch statuses carried in FetchResult.Status.
const (
	StatusProcessed = "processed"
	StatusComplete  = "complete"
	StatusError     = "error"
	StatusSuccess   = "success"
)

// FetchResult is the per-link response from POST /fetch_prices_ajax.
// Exactly one of the success/failure interpretations applies: when Success
// is true Price, Currency and PriceType are set; otherwise Error describes
// what went wrong and FullURL points at the page for manual entry.
type FetchResult struct {
	Status      string `json:"status,omitempty"`
	LinkIndex   int    `json:"link_index"`
	ProductID   int    `json:"product_id"`
	ProductName string `json:"product_name"`
	ShopID      string `json:"shop_id"`
	URL         string `json:"url,omitempty"`
	FullURL     string `json:"full_url,omitempty"`

	Success   bool   `json:"success"`
	Price     Amount `json:"price,omitempty"`
	Currency  string `json:"currency,omitempty"`
	PriceType string `json:"price_type,omitempty"`

	Error           string `json:"error,omitempty"`
	ShowManualModal bool   `json:"show_manual_modal,omitempty"`
}

// Complete reports whether the backend signalled that it ran out of links.
func (r *FetchResult) Complete() bool {
	return r.Status == StatusComplete
}

// LinksCountResponse is the response from GET /get_links_count.
type LinksCountResponse struct {
	Count int    `json:"count"`
	Error string `json:"error,omitempty"`
}

// StatusResponse is the {status: "success"} | {status: "error", error}
// envelope used by POST /add_manual_price.
type StatusResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// AckResponse is the {success, error?} envelope used by most mutating
// endpoints.
type AckResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// ManualPriceRequest is the payload for POST /add_manual_price and
// POST /add_manual_price_for_link.
type ManualPriceRequest struct {
	ProductID int     `json:"product_id" binding:"required"`
	ShopID    string  `json:"shop_id" binding:"required"`
	URL       string  `json:"url"`
	Price     float64 `json:"price" binding:"required"`
	Currency  string  `json:"currency" binding:"required"`
}

// LinkFetchRequest is the payload for POST /fetch_price_for_link.
type LinkFetchRequest struct {
	ProductID int    `json:"product_id" binding:"required"`
	ShopID    string `json:"shop_id" binding:"required"`
	URL       string `json:"url" binding:"required"`
}

// LinkFetchResponse is the response from POST /fetch_price_for_link.
type LinkFetchResponse struct {
	Success         bool   `json:"success"`
	Price           Amount `json:"price,omitempty"`
	Currency        string `json:"currency,omitempty"`
	PriceType       string `json:"price_type,omitempty"`
	Error           string `json:"error,omitempty"`
	ShowManualModal bool   `json:"show_manual_modal,omitempty"`
}

// Product is a tracked product.
type Product struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	EAN  string `json:"ean,omitempty"`
}

// UpdateProductRequest is the payload for POST /update_product.
type UpdateProductRequest struct {
	ProductID int    `json:"product_id" binding:"required"`
	Name      string `json:"name" binding:"required"`
	EAN       string `json:"ean"`
}

// DeleteProductRequest is the payload for POST /delete_product.
type DeleteProductRequest struct {
	ProductID int `json:"product_id" binding:"required"`
}

// UpdateLinkRequest is the payload for POST /update_product_link.
type UpdateLinkRequest struct {
	ProductID      int    `json:"product_id" binding:"required"`
	OriginalShopID string `json:"original_shop_id" binding:"required"`
	OriginalURL    string `json:"original_url" binding:"required"`
	NewShopID      string `json:"new_shop_id" binding:"required"`
	NewURL         string `json:"new_url" binding:"required"`
}

// DeleteLinkRequest is the payload for POST /delete_product_link.
type DeleteLinkRequest struct {
	ProductID int    `json:"product_id" binding:"required"`
	ShopID    string `json:"shop_id" binding:"required"`
	URL       string `json:"url" binding:"required"`
}

// AddFoundLinkRequest is the payload for POST /add_found_link.
type AddFoundLinkRequest struct {
	ProductID int    `json:"product_id" binding:"required"`
	ShopID    string `json:"shop_id" binding:"required"`
	URL       string `json:"url" binding:"required"`
	Title     string `json:"title"`
}

// Shop identifies a configured shop.
type Shop struct {
	ShopID string `json:"shop_id"`
	Name   string `json:"name"`
}

// ShopMatch is a single search hit inside one shop.
type ShopMatch struct {
	Title      string  `json:"title"`
	URL        string  `json:"url"`
	Similarity float64 `json:"similarity"`
}

// ShopSearchResult groups the matches found in one shop.
type ShopSearchResult struct {
	Shop    Shop        `json:"shop"`
	Success bool        `json:"success"`
	Results []ShopMatch `json:"results,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// FindInShopsResponse is the response from POST /find_in_shops.
type FindInShopsResponse struct {
	Success bool               `json:"success"`
	Results []ShopSearchResult `json:"results,omitempty"`
	Error   string             `json:"error,omitempty"`
}

// AvailableShopsResponse is the response from GET /get_available_shops.
type AvailableShopsResponse struct {
	Success bool   `json:"success"`
	Shops   []Shop `json:"shops,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SingleShopSearchRequest is the payload for POST /search_in_single_shop.
type SingleShopSearchRequest struct {
	ProductID int    `json:"product_id" binding:"required"`
	ShopID    string `json:"shop_id" binding:"required"`
}

// SingleShopSearchResponse is the response from POST /search_in_single_shop.
type SingleShopSearchResponse struct {
	Success bool        `json:"success"`
	Results []ShopMatch `json:"results,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Substitute is a member of a substitute group, with its aggregated price
// range in PLN when prices exist.
type Substitute struct {
	ID         int      `json:"id"`
	Name       string   `json:"name"`
	MinPrice   *float64 `json:"min_price,omitempty"`
	MaxPrice   *float64 `json:"max_price,omitempty"`
	LinksCount int      `json:"links_count"`
}

// SubstitutesResponse is the response from GET /api/substitutes/:product_id.
type SubstitutesResponse struct {
	Success     bool         `json:"success"`
	Substitutes []Substitute `json:"substitutes,omitempty"`
	Error       string       `json:"error,omitempty"`
}

// CreateGroupRequest is the payload for POST /api/substitutes/create_group.
type CreateGroupRequest struct {
	Name       string `json:"name" binding:"required"`
	ProductIDs []int  `json:"product_ids" binding:"required"`
}

// ProductSearchResponse is the response from GET /api/products/search.
type ProductSearchResponse struct {
	Success  bool      `json:"success"`
	Products []Product `json:"products,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// UserStats holds per-user counters reported by GET /api/user_info.
type UserStats struct {
	PricesScraped int `json:"prices_scraped"`
}

// UserInfo is the response from GET /api/user_info.
type UserInfo struct {
	UserID string    `json:"user_id"`
	Mode   string    `json:"mode,omitempty"`
	Stats  UserStats `json:"stats"`
	Error  string    `json:"error,omitempty"`
}
