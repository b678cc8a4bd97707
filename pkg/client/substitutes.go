package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/skrobi/price/pkg/models"
)

// Substitutes lists the substitute group members for a product.
func (c *Client) Substitutes(ctx context.Context, productID int) ([]models.Substitute, error) {
	path := fmt.Sprintf("/api/substitutes/%d", productID)

	var resp models.SubstitutesResponse
	if err := c.doGetRequest(ctx, path, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("%s", resp.Error)
	}
	return resp.Substitutes, nil
}

// RemoveFromGroup takes a product out of its substitute group.
func (c *Client) RemoveFromGroup(ctx context.Context, productID int) error {
	path := fmt.Sprintf("/api/substitutes/%d/remove", productID)

	var resp models.AckResponse
	if err := c.doDeleteRequest(ctx, path, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("%s", resp.Error)
	}
	return nil
}

// CreateSubstituteGroup creates a new substitute group from at least two
// products.
func (c *Client) CreateSubstituteGroup(ctx context.Context, req models.CreateGroupRequest) error {
	var resp models.AckResponse
	if err := c.doJSONRequest(ctx, http.MethodPost, "/api/substitutes/create_group", req, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("%s", resp.Error)
	}
	return nil
}
