// Package webacy adapts the Webacy risk API: per-asset risk scans, the
// wallet quick profile and the sanctions check.
package webacy

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/doxxscan/walletscan/internal/domain"
	"github.com/doxxscan/walletscan/internal/provider"
)

// Client calls the Webacy API.
type Client struct {
	baseURL string
	apiKey  string
	chain   string
	http    *provider.Client
}

// NewClient creates a new Webacy API client scoped to one chain.
func NewClient(baseURL, apiKey, chain string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		chain:   chain,
		http:    provider.NewClient("webacy", timeout),
	}
}

func (c *Client) header() http.Header {
	h := http.Header{}
	h.Set("x-api-key", c.apiKey)
	return h
}

// RiskIssue is a single finding in a risk scan.
type RiskIssue struct {
	Severity    string   `json:"severity"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// RiskScan is the risk assessment for one address or asset.
type RiskScan struct {
	OverallRisk      float64     `json:"overallRisk"`
	Issues           []RiskIssue `json:"issues"`
	TransactionCount int         `json:"transactionCount"`
}

// Signal converts the scan into a risk signal.
func (r RiskScan) Signal() domain.RiskSignal {
	score := r.OverallRisk
	sig := domain.RiskSignal{
		Source:  domain.SourceRiskScan,
		Score:   &score,
		TxCount: r.TransactionCount,
	}
	for _, iss := range r.Issues {
		sig.Issues = append(sig.Issues, domain.RiskIssue{
			Severity:    iss.Severity,
			Description: iss.Description,
			Tags:        iss.Tags,
		})
	}
	return sig
}

// AssetRisk fetches the risk scan for a token or NFT address.
func (c *Client) AssetRisk(ctx context.Context, address string) (RiskScan, error) {
	url := fmt.Sprintf("%s/addresses/%s?chain=%s&show_low_risk=true", c.baseURL, address, c.chain)
	var scan RiskScan
	if err := c.http.GetJSON(ctx, url, c.header(), &scan); err != nil {
		return RiskScan{}, err
	}
	return scan, nil
}

// QuickProfile fetches the wallet-level risk profile.
func (c *Client) QuickProfile(ctx context.Context, address string) (RiskScan, error) {
	url := fmt.Sprintf("%s/quick-profile/%s?chain=%s&withApprovals=true", c.baseURL, address, c.chain)
	var scan RiskScan
	if err := c.http.GetJSON(ctx, url, c.header(), &scan); err != nil {
		return RiskScan{}, err
	}
	return scan, nil
}

type sanctionResponse struct {
	IsSanctioned bool `json:"is_sanctioned"`
}

// Sanctioned checks the address against the sanctions list.
func (c *Client) Sanctioned(ctx context.Context, address string) (bool, error) {
	url := fmt.Sprintf("%s/addresses/sanctioned/%s?chain=%s", c.baseURL, address, c.chain)
	var resp sanctionResponse
	if err := c.http.GetJSON(ctx, url, c.header(), &resp); err != nil {
		return false, err
	}
	return resp.IsSanctioned, nil
}
