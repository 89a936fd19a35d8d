package api

import (
	"context"

	"github.com/Kishorekumar1730/Reel2Cart-sub000/internal/domain"
)

// GetRates fetches the exchange-rate table. The backend proxies a
// third-party rate API; callers fall back to a bundled snapshot when this
// fails so price display is never blocked.
func (c *Client) GetRates(ctx context.Context) (domain.RateTable, error) {
	var table domain.RateTable
	err := c.get(ctx, "/rates", &table)
	return table, err
}
