// Package stub is a self-contained development backend. It serves the same
// JSON endpoints as the real price tracker so the CLI can be exercised
// without scraping anything: extraction results are simulated from seeded
// link data.
package stub

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/skrobi/price/pkg/models"
	"github.com/skrobi/price/pkg/prices"
)

// Link is one tracked product link together with its simulated extraction
// outcome. A non-empty FailWith makes every fetch of this link fail, which
// is how manual-entry flows are exercised against the stub.
type Link struct {
	ProductID int
	ShopID    string
	URL       string

	Price     float64
	Currency  string
	PriceType string
	FailWith  string
}

// PriceEntry is one recorded price.
type PriceEntry struct {
	ProductID int
	ShopID    string
	URL       string
	Price     float64
	Currency  string
	PriceType string
	CreatedAt time.Time
}

// CatalogItem is a page a shop "sells"; find-in-shops matches product
// names against these.
type CatalogItem struct {
	ShopID string
	Title  string
	URL    string
}

// Store is the in-memory state behind the stub API.
type Store struct {
	mu sync.Mutex

	products map[int]models.Product
	links    []Link
	prices   []PriceEntry
	shops    []models.Shop
	catalog  []CatalogItem

	// Substitute groups: product id -> group id.
	groups     map[int]int
	groupNames map[int]string

	nextProductID int
	nextGroupID   int
	scraped       int
	userID        string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		products:      make(map[int]models.Product),
		groups:        make(map[int]int),
		groupNames:    make(map[int]string),
		nextProductID: 1,
		nextGroupID:   1,
		userID:        "local-dev",
	}
}

// AddShop registers a shop.
func (s *Store) AddShop(shop models.Shop) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shops = append(s.shops, shop)
}

// AddProduct creates a product and returns its id.
func (s *Store) AddProduct(name, ean string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextProductID
	s.nextProductID++
	s.products[id] = models.Product{ID: id, Name: name, EAN: ean}
	return id
}

// AddLink attaches a link to a product.
func (s *Store) AddLink(link Link) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.links = append(s.links, link)
}

// AddCatalogItem adds a page to a shop's searchable catalog.
func (s *Store) AddCatalogItem(item CatalogItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = append(s.catalog, item)
}

// LinksCount returns the number of tracked links.
func (s *Store) LinksCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.links)
}

// FetchPriceAt simulates fetching the price for the link at the given
// index. Indices past the end yield a "complete" result.
func (s *Store) FetchPriceAt(index int) *models.FetchResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.links) {
		return &models.FetchResult{Status: models.StatusComplete}
	}

	link := s.links[index]
	product := s.products[link.ProductID]

	result := &models.FetchResult{
		Status:      models.StatusProcessed,
		LinkIndex:   index,
		ProductID:   link.ProductID,
		ProductName: product.Name,
		ShopID:      link.ShopID,
		URL:         link.URL,
		FullURL:     link.URL,
	}

	if link.FailWith != "" {
		result.Error = link.FailWith
		result.ShowManualModal = true
		return result
	}

	result.Success = true
	result.Price = models.Amount(link.Price)
	result.Currency = link.Currency
	result.PriceType = link.PriceType
	s.recordPriceLocked(PriceEntry{
		ProductID: link.ProductID,
		ShopID:    link.ShopID,
		URL:       link.URL,
		Price:     link.Price,
		Currency:  link.Currency,
		PriceType: link.PriceType,
	})
	return result
}

// FetchPriceForLink simulates fetching one specific link of a product.
func (s *Store) FetchPriceForLink(req models.LinkFetchRequest) *models.LinkFetchResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, link := range s.links {
		if link.ProductID != req.ProductID || link.ShopID != req.ShopID || link.URL != req.URL {
			continue
		}
		if link.FailWith != "" {
			return &models.LinkFetchResponse{Error: link.FailWith, ShowManualModal: true}
		}
		s.recordPriceLocked(PriceEntry{
			ProductID: link.ProductID,
			ShopID:    link.ShopID,
			URL:       link.URL,
			Price:     link.Price,
			Currency:  link.Currency,
			PriceType: link.PriceType,
		})
		return &models.LinkFetchResponse{
			Success:   true,
			Price:     models.Amount(link.Price),
			Currency:  link.Currency,
			PriceType: link.PriceType,
		}
	}

	return &models.LinkFetchResponse{Error: "link not found", ShowManualModal: true}
}

// AddManualPrice records a user-entered price.
func (s *Store) AddManualPrice(req models.ManualPriceRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[req.ProductID]; !ok {
		return fmt.Errorf("product %d not found", req.ProductID)
	}
	if req.Price <= 0 {
		return fmt.Errorf("price must be greater than zero")
	}

	s.recordPriceLocked(PriceEntry{
		ProductID: req.ProductID,
		ShopID:    req.ShopID,
		URL:       req.URL,
		Price:     req.Price,
		Currency:  req.Currency,
		PriceType: models.PriceTypeManual,
	})
	return nil
}

func (s *Store) recordPriceLocked(entry PriceEntry) {
	entry.CreatedAt = time.Now()
	s.prices = append(s.prices, entry)
	s.scraped++
}

// SearchProducts finds products whose name contains the query,
// case-insensitively.
func (s *Store) SearchProducts(query string) []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	query = strings.ToLower(query)
	var found []models.Product
	for _, product := range s.products {
		if strings.Contains(strings.ToLower(product.Name), query) {
			found = append(found, product)
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].ID < found[j].ID })
	return found
}

// UpdateProduct changes a product's name and EAN.
func (s *Store) UpdateProduct(req models.UpdateProductRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[req.ProductID]
	if !ok {
		return fmt.Errorf("product %d not found", req.ProductID)
	}
	product.Name = req.Name
	product.EAN = req.EAN
	s.products[req.ProductID] = product
	return nil
}

// DeleteProduct removes a product with its links, prices and group
// membership.
func (s *Store) DeleteProduct(productID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[productID]; !ok {
		return fmt.Errorf("product %d not found", productID)
	}
	delete(s.products, productID)
	delete(s.groups, productID)

	links := s.links[:0]
	for _, link := range s.links {
		if link.ProductID != productID {
			links = append(links, link)
		}
	}
	s.links = links

	entries := s.prices[:0]
	for _, entry := range s.prices {
		if entry.ProductID != productID {
			entries = append(entries, entry)
		}
	}
	s.prices = entries
	return nil
}

// UpdateLink rewrites a link's shop id and URL.
func (s *Store) UpdateLink(req models.UpdateLinkRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, link := range s.links {
		if link.ProductID == req.ProductID && link.ShopID == req.OriginalShopID && link.URL == req.OriginalURL {
			s.links[i].ShopID = req.NewShopID
			s.links[i].URL = req.NewURL
			return nil
		}
	}
	return fmt.Errorf("link not found")
}

// DeleteLink removes one product link.
func (s *Store) DeleteLink(req models.DeleteLinkRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, link := range s.links {
		if link.ProductID == req.ProductID && link.ShopID == req.ShopID && link.URL == req.URL {
			s.links = append(s.links[:i], s.links[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("link not found")
}

// Shops lists the configured shops.
func (s *Store) Shops() []models.Shop {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Shop(nil), s.shops...)
}

// SearchShop matches a product's name against one shop's catalog.
func (s *Store) SearchShop(productID int, shopID string) ([]models.ShopMatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searchShopLocked(productID, shopID)
}

func (s *Store) searchShopLocked(productID int, shopID string) ([]models.ShopMatch, error) {
	product, ok := s.products[productID]
	if !ok {
		return nil, fmt.Errorf("product %d not found", productID)
	}

	var matches []models.ShopMatch
	for _, item := range s.catalog {
		if item.ShopID != shopID {
			continue
		}
		similarity := nameSimilarity(product.Name, item.Title)
		if similarity < 0.3 {
			continue
		}
		matches = append(matches, models.ShopMatch{
			Title:      item.Title,
			URL:        item.URL,
			Similarity: similarity,
		})
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Similarity > matches[j].Similarity })
	return matches, nil
}

// FindInShops searches every shop for a product.
func (s *Store) FindInShops(productID int) ([]models.ShopSearchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[productID]; !ok {
		return nil, fmt.Errorf("product %d not found", productID)
	}

	var results []models.ShopSearchResult
	for _, shop := range s.shops {
		matches, err := s.searchShopLocked(productID, shop.ShopID)
		result := models.ShopSearchResult{Shop: shop}
		if err != nil {
			result.Error = err.Error()
		} else {
			result.Success = true
			result.Results = matches
		}
		results = append(results, result)
	}
	return results, nil
}

// AddFoundLink attaches a link discovered by a shop search. The link gets
// a deterministic simulated price so later fetches succeed.
func (s *Store) AddFoundLink(req models.AddFoundLinkRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[req.ProductID]; !ok {
		return fmt.Errorf("product %d not found", req.ProductID)
	}
	for _, link := range s.links {
		if link.ProductID == req.ProductID && link.URL == req.URL {
			return fmt.Errorf("link already exists")
		}
	}

	s.links = append(s.links, Link{
		ProductID: req.ProductID,
		ShopID:    req.ShopID,
		URL:       req.URL,
		Price:     simulatedPrice(req.URL),
		Currency:  prices.ReferenceCurrency,
		PriceType: models.PriceTypeRegular,
	})
	return nil
}

// Substitutes returns the other members of a product's group with their
// PLN price ranges.
func (s *Store) Substitutes(productID int) ([]models.Substitute, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[productID]; !ok {
		return nil, fmt.Errorf("product %d not found", productID)
	}

	groupID, ok := s.groups[productID]
	if !ok {
		return nil, nil
	}

	var substitutes []models.Substitute
	for memberID, memberGroup := range s.groups {
		if memberGroup != groupID || memberID == productID {
			continue
		}
		member := s.products[memberID]
		sub := models.Substitute{ID: memberID, Name: member.Name}

		for _, link := range s.links {
			if link.ProductID == memberID {
				sub.LinksCount++
			}
		}
		for _, entry := range s.prices {
			if entry.ProductID != memberID {
				continue
			}
			pln := prices.PLNValue(models.Amount(entry.Price), entry.Currency)
			if sub.MinPrice == nil || pln < *sub.MinPrice {
				value := pln
				sub.MinPrice = &value
			}
			if sub.MaxPrice == nil || pln > *sub.MaxPrice {
				value := pln
				sub.MaxPrice = &value
			}
		}
		substitutes = append(substitutes, sub)
	}
	sort.Slice(substitutes, func(i, j int) bool { return substitutes[i].ID < substitutes[j].ID })
	return substitutes, nil
}

// RemoveFromGroup takes a product out of its substitute group.
func (s *Store) RemoveFromGroup(productID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[productID]; !ok {
		return fmt.Errorf("product %d is not in a group", productID)
	}
	delete(s.groups, productID)
	return nil
}

// CreateGroup puts the given products into a new substitute group. A
// product can only belong to one group; membership is overwritten.
func (s *Store) CreateGroup(req models.CreateGroupRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(req.ProductIDs) < 2 {
		return fmt.Errorf("a group needs at least two products")
	}
	for _, id := range req.ProductIDs {
		if _, ok := s.products[id]; !ok {
			return fmt.Errorf("product %d not found", id)
		}
	}

	groupID := s.nextGroupID
	s.nextGroupID++
	s.groupNames[groupID] = req.Name
	for _, id := range req.ProductIDs {
		s.groups[id] = groupID
	}
	return nil
}

// UserInfo returns account statistics.
func (s *Store) UserInfo() *models.UserInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &models.UserInfo{
		UserID: s.userID,
		Mode:   "stub",
		Stats:  models.UserStats{PricesScraped: s.scraped},
	}
}

// nameSimilarity is a token-overlap ratio between a product name and a
// catalog title, in [0, 1].
func nameSimilarity(name, title string) float64 {
	nameTokens := tokenSet(name)
	titleTokens := tokenSet(title)
	if len(nameTokens) == 0 || len(titleTokens) == 0 {
		return 0
	}

	common := 0
	for token := range nameTokens {
		if titleTokens[token] {
			common++
		}
	}
	union := len(nameTokens) + len(titleTokens) - common
	return float64(common) / float64(union)
}

func tokenSet(text string) map[string]bool {
	tokens := make(map[string]bool)
	for _, token := range strings.Fields(strings.ToLower(text)) {
		tokens[token] = true
	}
	return tokens
}

// simulatedPrice derives a stable fake price from a URL so the stub
// behaves deterministically across runs.
func simulatedPrice(url string) float64 {
	sum := 0
	for _, r := range url {
		sum += int(r)
	}
	return float64(sum%90+10) + 0.99
}
