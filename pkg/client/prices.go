package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/skrobi/price/pkg/models"
)

// LinksCount returns the number of links pending in the current batch.
func (c *Client) LinksCount(ctx context.Context) (int, error) {
	var resp models.LinksCountResponse
	if err := c.doGetRequest(ctx, "/get_links_count", &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// FetchPriceAt asks the backend to scrape the link at the given index.
// A result with status "complete" means the server ran out of links.
func (c *Client) FetchPriceAt(ctx context.Context, index int) (*models.FetchResult, error) {
	payload := map[string]int{"link_index": index}

	var result models.FetchResult
	if err := c.doJSONRequest(ctx, http.MethodPost, "/fetch_prices_ajax", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AddManualPrice records a hand-entered price for a link that failed
// automatic extraction during a batch run.
func (c *Client) AddManualPrice(ctx context.Context, req models.ManualPriceRequest) error {
	var resp models.StatusResponse
	if err := c.doJSONRequest(ctx, http.MethodPost, "/add_manual_price", req, &resp); err != nil {
		return err
	}
	if resp.Status != models.StatusSuccess {
		return fmt.Errorf("%s", resp.Error)
	}
	return nil
}

// FetchPriceForLink scrapes a single product link on demand.
func (c *Client) FetchPriceForLink(ctx context.Context, req models.LinkFetchRequest) (*models.LinkFetchResponse, error) {
	var resp models.LinkFetchResponse
	if err := c.doJSONRequest(ctx, http.MethodPost, "/fetch_price_for_link", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AddManualPriceForLink records a hand-entered price from the single-link
// fetch flow.
func (c *Client) AddManualPriceForLink(ctx context.Context, req models.ManualPriceRequest) error {
	var resp models.AckResponse
	if err := c.doJSONRequest(ctx, http.MethodPost, "/add_manual_price_for_link", req, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("%s", resp.Error)
	}
	return nil
}

// UserInfo fetches the current user id and scraping stats.
func (c *Client) UserInfo(ctx context.Context) (*models.UserInfo, error) {
	var info models.UserInfo
	if err := c.doGetRequest(ctx, "/api/user_info", &info); err != nil {
		return nil, err
	}
	return &info, nil
}
