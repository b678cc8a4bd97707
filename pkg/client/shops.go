package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/skrobi/price/pkg/models"
)

// FindInShops searches every configured shop for a product.
func (c *Client) FindInShops(ctx context.Context, productID int) ([]models.ShopSearchResult, error) {
	payload := map[string]int{"product_id": productID}

	var resp models.FindInShopsResponse
	if err := c.doJSONRequest(ctx, http.MethodPost, "/find_in_shops", payload, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("%s", resp.Error)
	}
	return resp.Results, nil
}

// AvailableShops lists shops that have search configured.
func (c *Client) AvailableShops(ctx context.Context) ([]models.Shop, error) {
	var resp models.AvailableShopsResponse
	if err := c.doGetRequest(ctx, "/get_available_shops", &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("%s", resp.Error)
	}
	return resp.Shops, nil
}

// SearchInSingleShop searches one shop for a product.
func (c *Client) SearchInSingleShop(ctx context.Context, productID int, shopID string) ([]models.ShopMatch, error) {
	req := models.SingleShopSearchRequest{ProductID: productID, ShopID: shopID}

	var resp models.SingleShopSearchResponse
	if err := c.doJSONRequest(ctx, http.MethodPost, "/search_in_single_shop", req, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("%s", resp.Error)
	}
	return resp.Results, nil
}

// AddFoundLink attaches a search hit to a product as a new link.
func (c *Client) AddFoundLink(ctx context.Context, req models.AddFoundLinkRequest) error {
	var resp models.AckResponse
	if err := c.doJSONRequest(ctx, http.MethodPost, "/add_found_link", req, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("%s", resp.Error)
	}
	return nil
}
