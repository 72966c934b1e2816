// Package solanafm adapts the SolanaFM Bonfida domain lookup.
package solanafm

import (
	"context"
	"fmt"
	"time"

	"github.com/doxxscan/walletscan/internal/domain"
	"github.com/doxxscan/walletscan/internal/provider"
)

// Client calls the SolanaFM API.
type Client struct {
	baseURL string
	http    *provider.Client
}

// NewClient creates a new SolanaFM API client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    provider.NewClient("solanafm", timeout),
	}
}

type domainRecord struct {
	Name      string `json:"name"`
	Subdomain bool   `json:"subdomain"`
}

type domainsResponse struct {
	Result []domainRecord `json:"result"`
}

// Domains fetches the .sol names registered to an address.
func (c *Client) Domains(ctx context.Context, address string) ([]domain.DomainName, error) {
	url := fmt.Sprintf("%s/v0/domains/bonfida/%s", c.baseURL, address)
	var resp domainsResponse
	if err := c.http.GetJSON(ctx, url, nil, &resp); err != nil {
		return nil, err
	}

	names := make([]domain.DomainName, 0, len(resp.Result))
	for _, r := range resp.Result {
		names = append(names, domain.DomainName{Name: r.Name, Subdomain: r.Subdomain})
	}
	return names, nil
}
