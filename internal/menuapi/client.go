package menuapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const userAgent = "menubot/1.0"

// Client talks to the public menu API for a single storefront slug.
type Client struct {
	baseURL string
	slug    string
	http    *http.Client
}

func NewClient(baseURL, slug string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		slug:    slug,
		http:    &http.Client{Timeout: timeout},
	}
}

// FetchStore returns the storefront record.
// GET /stores/public/slug/{slug}
func (c *Client) FetchStore(ctx context.Context) (*Store, error) {
	var s Store
	if err := c.get(ctx, "/stores/public/slug/"+c.slug, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// FetchCategories returns the store's categories in upstream order.
// GET /categories/store/slug/{slug}
func (c *Client) FetchCategories(ctx context.Context) ([]Category, error) {
	var cats []Category
	if err := c.get(ctx, "/categories/store/slug/"+c.slug, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

// FetchProducts returns every product of the store in upstream order.
// GET /products/public-store/slug/{slug}
func (c *Client) FetchProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.get(ctx, "/products/public-store/slug/"+c.slug, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("GET %s: status %d: %s", path, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}
