package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/skrobi/price/pkg/models"
)

// UpdateProduct changes a product's name and EAN.
func (c *Client) UpdateProduct(ctx context.Context, req models.UpdateProductRequest) error {
	var resp models.AckResponse
	if err := c.doJSONRequest(ctx, http.MethodPost, "/update_product", req, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("%s", resp.Error)
	}
	return nil
}

// DeleteProduct removes a product together with its links and prices.
func (c *Client) DeleteProduct(ctx context.Context, productID int) error {
	var resp models.AckResponse
	req := models.DeleteProductRequest{ProductID: productID}
	if err := c.doJSONRequest(ctx, http.MethodPost, "/delete_product", req, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("%s", resp.Error)
	}
	return nil
}

// SearchProducts finds products by name fragment.
func (c *Client) SearchProducts(ctx context.Context, query string) ([]models.Product, error) {
	path := "/api/products/search?q=" + url.QueryEscape(query)

	var resp models.ProductSearchResponse
	if err := c.doGetRequest(ctx, path, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("%s", resp.Error)
	}
	return resp.Products, nil
}

// UpdateProductLink rewrites a link's shop id and URL.
func (c *Client) UpdateProductLink(ctx context.Context, req models.UpdateLinkRequest) error {
	var resp models.AckResponse
	if err := c.doJSONRequest(ctx, http.MethodPost, "/update_product_link", req, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("%s", resp.Error)
	}
	return nil
}

// DeleteProductLink removes one link from a product.
func (c *Client) DeleteProductLink(ctx context.Context, req models.DeleteLinkRequest) error {
	var resp models.AckResponse
	if err := c.doJSONRequest(ctx, http.MethodPost, "/delete_product_link", req, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("%s", resp.Error)
	}
	return nil
}
