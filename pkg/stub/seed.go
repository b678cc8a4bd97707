package stub

import "github.com/skrobi/price/pkg/models"

// SeedDemo fills the store with a small data set: three shops, a few
// products with working and broken links, and one substitute group. Enough
// to exercise every CLI flow.
func (s *Store) SeedDemo() {
	s.AddShop(models.Shop{ShopID: "shop-a", Name: "Shop A"})
	s.AddShop(models.Shop{ShopID: "shop-b", Name: "Shop B"})
	s.AddShop(models.Shop{ShopID: "allegro", Name: "Allegro"})

	coffee := s.AddProduct("Coffee beans 1kg", "5900000000017")
	tea := s.AddProduct("Green tea 100g", "5900000000024")
	milk := s.AddProduct("Oat milk 1l", "")
	coffeeGround := s.AddProduct("Coffee ground 500g", "")

	s.AddLink(Link{
		ProductID: coffee, ShopID: "shop-a",
		URL:   "https://shop-a.example/coffee-beans-1kg",
		Price: 54.99, Currency: "PLN", PriceType: models.PriceTypePromo,
	})
	s.AddLink(Link{
		ProductID: coffee, ShopID: "allegro",
		URL:   "https://allegro.example/oferta/coffee-beans-1kg",
		Price: 12.49, Currency: "EUR", PriceType: models.PriceTypeAllegroHTML,
	})
	s.AddLink(Link{
		ProductID: tea, ShopID: "shop-b",
		URL:      "https://shop-b.example/green-tea-100g",
		FailWith: "price element not found on page",
	})
	s.AddLink(Link{
		ProductID: milk, ShopID: "shop-a",
		URL:   "https://shop-a.example/oat-milk-1l",
		Price: 7.50, Currency: "PLN", PriceType: models.PriceTypeRegex,
	})
	s.AddLink(Link{
		ProductID: coffeeGround, ShopID: "shop-b",
		URL:   "https://shop-b.example/coffee-ground-500g",
		Price: 32.00, Currency: "PLN", PriceType: models.PriceTypeRegular,
	})

	s.AddCatalogItem(CatalogItem{
		ShopID: "shop-a", Title: "Coffee beans 1kg arabica",
		URL: "https://shop-a.example/coffee-beans-1kg-arabica",
	})
	s.AddCatalogItem(CatalogItem{
		ShopID: "shop-b", Title: "Coffee beans 1kg robusta",
		URL: "https://shop-b.example/coffee-beans-1kg-robusta",
	})
	s.AddCatalogItem(CatalogItem{
		ShopID: "shop-b", Title: "Green tea 100g sencha",
		URL: "https://shop-b.example/green-tea-100g-sencha",
	})
	s.AddCatalogItem(CatalogItem{
		ShopID: "allegro", Title: "Oat milk 1l barista",
		URL: "https://allegro.example/oferta/oat-milk-1l-barista",
	})

	_ = s.CreateGroup(models.CreateGroupRequest{
		Name:       "Coffee",
		ProductIDs: []int{coffee, coffeeGround},
	})
}
