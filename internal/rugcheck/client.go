// Package rugcheck adapts the RugCheck token security API.
package rugcheck

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/doxxscan/walletscan/internal/domain"
	"github.com/doxxscan/walletscan/internal/provider"
)

// Client calls the RugCheck API.
type Client struct {
	baseURL string
	apiKey  string
	http    *provider.Client
}

// NewClient creates a new RugCheck API client.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    provider.NewClient("rugcheck", timeout),
	}
}

func (c *Client) header() http.Header {
	h := http.Header{}
	if c.apiKey != "" {
		h.Set("api-key", c.apiKey)
	}
	return h
}

// ReportRisk is a single finding in a token security report.
type ReportRisk struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Level       string  `json:"level"`
	Score       float64 `json:"score"`
}

// TokenReport is the per-mint security report.
type TokenReport struct {
	ScoreNormalised *float64     `json:"score_normalised"`
	Risks           []ReportRisk `json:"risks"`
	Rugged          bool         `json:"rugged"`
	Verification    *struct {
		JupVerified bool `json:"jup_verified"`
		Verified    bool `json:"verified"`
	} `json:"verification"`
	TopHolders []struct {
		Address string  `json:"address"`
		Pct     float64 `json:"pct"`
	} `json:"topHolders"`
	Markets []struct {
		MarketType string `json:"marketType"`
	} `json:"markets"`
}

// Signal converts the report into a risk signal. A report without a
// normalized score is non-informative on its own.
func (r TokenReport) Signal() domain.RiskSignal {
	sig := domain.RiskSignal{
		Source: domain.SourceTokenReport,
		Score:  r.ScoreNormalised,
	}
	for _, risk := range r.Risks {
		sig.Issues = append(sig.Issues, domain.RiskIssue{
			Severity:    risk.Level,
			Description: risk.Description,
			Tags:        []string{risk.Name},
			Score:       risk.Score,
		})
	}
	return sig
}

// TokenReport fetches the security report for one mint.
func (c *Client) TokenReport(ctx context.Context, mint string) (TokenReport, error) {
	url := fmt.Sprintf("%s/v1/tokens/%s/report", c.baseURL, mint)
	var report TokenReport
	if err := c.http.GetJSON(ctx, url, c.header(), &report); err != nil {
		return TokenReport{}, err
	}
	return report, nil
}

// WalletToken is a per-token entry of a wallet-level scan, carrying only a
// coarse categorical level.
type WalletToken struct {
	Mint      string  `json:"mint"`
	RiskLevel string  `json:"riskLevel"`
	Price     float64 `json:"price"`
}

type walletScanResponse struct {
	Tokens []WalletToken `json:"tokens"`
}

// WalletScan fetches the wallet-level token scan and returns the entries
// keyed by mint. The endpoint frequently returns an empty token list; the
// classifier treats entries from here as a secondary, coarser signal.
func (c *Client) WalletScan(ctx context.Context, address string) (map[string]WalletToken, error) {
	url := fmt.Sprintf("%s/v1/scan?address=%s", c.baseURL, address)
	var resp walletScanResponse
	if err := c.http.GetJSON(ctx, url, c.header(), &resp); err != nil {
		return nil, err
	}

	byMint := make(map[string]WalletToken, len(resp.Tokens))
	for _, t := range resp.Tokens {
		byMint[t.Mint] = t
	}
	return byMint, nil
}
