// Package directory holds the HTTP clients the two services use to reach
// each other: the car registry's brand directory and the brand catalog's
// car purger. Both map a definite remote "not found" answer to the matching
// domain error and everything else (transport failures, 5xx, timeouts) to
// REMOTE_UNAVAILABLE, so callers never confuse an absent record with an
// unreachable peer.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/xmartin/vehicle-registry/internal/domain/brand"
	"github.com/xmartin/vehicle-registry/internal/domain/shared"
	"github.com/xmartin/vehicle-registry/internal/infrastructure/auth"
)

const defaultTimeout = 10 * time.Second

// BrandClient implements car.BrandDirectory against the brand service's
// HTTP API
type BrandClient struct {
	baseURL string
	client  *http.Client
}

// NewBrandClient creates a new BrandClient. The timeout bounds every
// resolution call; a stalled brand service surfaces as REMOTE_UNAVAILABLE
// once it fires.
func NewBrandClient(baseURL string, timeout time.Duration) *BrandClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &BrandClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// ResolveByID resolves a brand by its identifier
func (c *BrandClient) ResolveByID(ctx context.Context, id int) (*brand.Brand, error) {
	var b brand.Brand
	if err := c.getJSON(ctx, fmt.Sprintf("%s/brands/%d", c.baseURL, id), &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// ResolveByName resolves a brand by name, case-insensitively
func (c *BrandClient) ResolveByName(ctx context.Context, name string) (*brand.Brand, error) {
	var b brand.Brand
	path := fmt.Sprintf("%s/brands/name/%s", c.baseURL, url.PathEscape(name))
	if err := c.getJSON(ctx, path, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// ResolveAll returns the full brand set
func (c *BrandClient) ResolveAll(ctx context.Context) ([]brand.Brand, error) {
	var brands []brand.Brand
	if err := c.getJSON(ctx, c.baseURL+"/brands", &brands); err != nil {
		return nil, err
	}
	return brands, nil
}

func (c *BrandClient) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("building brand directory request: %w", err)
	}
	relayBearer(ctx, req)

	resp, err := c.client.Do(req)
	if err != nil {
		return shared.NewDomainErrorf(shared.CodeRemoteUnavailable, "Brand directory unreachable: %v", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return shared.ErrBrandNotFound
	case resp.StatusCode >= 400:
		return shared.NewDomainErrorf(shared.CodeRemoteUnavailable,
			"Brand directory answered status %d", resp.StatusCode)
	}

	payload := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return shared.NewDomainErrorf(shared.CodeRemoteUnavailable, "Malformed brand directory response: %v", err)
	}
	if err := json.Unmarshal(payload.Data, out); err != nil {
		return shared.NewDomainErrorf(shared.CodeRemoteUnavailable, "Malformed brand directory payload: %v", err)
	}
	return nil
}

// relayBearer forwards the caller's bearer token to the peer service, which
// guards the same routes with the shared secret
func relayBearer(ctx context.Context, req *http.Request) {
	if token := auth.TokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}
