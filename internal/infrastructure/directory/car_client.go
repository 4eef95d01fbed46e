package directory

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/xmartin/vehicle-registry/internal/domain/shared"
)

// CarClient implements brand.CarPurger against the car registry's HTTP API.
// The purge endpoint is idempotent on the remote side, so a brand with no
// dependent cars purges successfully.
type CarClient struct {
	baseURL string
	client  *http.Client
}

// NewCarClient creates a new CarClient
func NewCarClient(baseURL string, timeout time.Duration) *CarClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &CarClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// DeleteCarsForBrand removes every car referencing the brand
func (c *CarClient) DeleteCarsForBrand(ctx context.Context, brandID int) error {
	url := fmt.Sprintf("%s/cars/brand/%d", c.baseURL, brandID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("building car purge request: %w", err)
	}
	relayBearer(ctx, req)

	resp, err := c.client.Do(req)
	if err != nil {
		return shared.NewDomainErrorf(shared.CodeRemoteUnavailable, "Car registry unreachable: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return shared.NewDomainErrorf(shared.CodeRemoteUnavailable,
			"Car registry answered status %d", resp.StatusCode)
	}
	return nil
}
