// Package coingecko adapts the CoinGecko API: the SOL/USD spot price and the
// Solana-ecosystem token metadata map keyed by mint.
package coingecko

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/doxxscan/walletscan/internal/domain"
	"github.com/doxxscan/walletscan/internal/provider"
)

// Client calls the CoinGecko API.
type Client struct {
	baseURL string
	apiKey  string
	http    *provider.Client
}

// NewClient creates a new CoinGecko API client. apiKey may be empty; the
// public tier works without one at a stricter rate limit.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    provider.NewClient("coingecko", timeout),
	}
}

func (c *Client) header() http.Header {
	h := http.Header{}
	if c.apiKey != "" {
		h.Set("x-cg-pro-api-key", c.apiKey)
	}
	return h
}

// Price is the SOL spot price.
type Price struct {
	USD       float64
	Change24h float64
}

// SolanaPrice fetches the current SOL/USD price.
func (c *Client) SolanaPrice(ctx context.Context) (Price, error) {
	var resp struct {
		MarketData *struct {
			CurrentPrice struct {
				USD float64 `json:"usd"`
			} `json:"current_price"`
			PriceChange24h float64 `json:"price_change_percentage_24h"`
		} `json:"market_data"`
	}
	if err := c.http.GetJSON(ctx, c.baseURL+"/coins/solana", c.header(), &resp); err != nil {
		return Price{}, err
	}
	if resp.MarketData == nil {
		return Price{}, &provider.Error{
			Provider: "coingecko",
			Kind:     provider.KindMalformed,
			Err:      fmt.Errorf("response missing market_data"),
		}
	}
	return Price{
		USD:       resp.MarketData.CurrentPrice.USD,
		Change24h: resp.MarketData.PriceChange24h,
	}, nil
}

type listedCoin struct {
	ID        string            `json:"id"`
	Symbol    string            `json:"symbol"`
	Name      string            `json:"name"`
	Platforms map[string]string `json:"platforms"`
}

type marketCoin struct {
	ID             string  `json:"id"`
	Symbol         string  `json:"symbol"`
	Name           string  `json:"name"`
	Image          string  `json:"image"`
	CurrentPrice   float64 `json:"current_price"`
	PriceChange24h float64 `json:"price_change_percentage_24h"`
}

// TokenMetadata builds the market metadata map keyed by Solana mint address.
// Coins without a Solana platform address are skipped; coins without market
// data get metadata with no price.
func (c *Client) TokenMetadata(ctx context.Context) (map[string]domain.TokenMetadata, error) {
	var coins []listedCoin
	url := c.baseURL + "/coins/list?include_platform=true"
	if err := c.http.GetJSON(ctx, url, c.header(), &coins); err != nil {
		return nil, err
	}

	mintByID := make(map[string]string)
	for _, coin := range coins {
		if mint, ok := coin.Platforms["solana"]; ok && mint != "" {
			mintByID[coin.ID] = mint
		}
	}
	if len(mintByID) == 0 {
		return map[string]domain.TokenMetadata{}, nil
	}

	var markets []marketCoin
	url = c.baseURL + "/coins/markets?vs_currency=usd&category=solana-ecosystem&per_page=250&page=1&locale=en"
	if err := c.http.GetJSON(ctx, url, c.header(), &markets); err != nil {
		return nil, err
	}

	result := make(map[string]domain.TokenMetadata)
	for _, m := range markets {
		mint, ok := mintByID[m.ID]
		if !ok {
			continue
		}
		result[mint] = domain.TokenMetadata{
			Name:           m.Name,
			Symbol:         m.Symbol,
			ImageURL:       m.Image,
			PriceUSD:       domain.USDFromFloat(m.CurrentPrice),
			PriceChange24h: m.PriceChange24h,
		}
	}
	return result, nil
}
