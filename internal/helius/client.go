// Package helius adapts the Helius REST and DAS RPC endpoints: wallet
// balances, enhanced transaction history and asset search.
package helius

import (
	"context"
	"fmt"
	"time"

	"github.com/doxxscan/walletscan/internal/provider"
)

// Client calls the Helius API.
type Client struct {
	apiURL string
	rpcURL string
	apiKey string
	http   *provider.Client
}

// NewClient creates a new Helius API client. apiURL serves the v0 REST
// endpoints, rpcURL the DAS JSON-RPC endpoint.
func NewClient(apiURL, rpcURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		apiURL: apiURL,
		rpcURL: rpcURL,
		apiKey: apiKey,
		http:   provider.NewClient("helius", timeout),
	}
}

// Balances fetches the native balance and token balances for an address.
func (c *Client) Balances(ctx context.Context, address string) (BalancesResponse, error) {
	url := fmt.Sprintf("%s/v0/addresses/%s/balances?api-key=%s", c.apiURL, address, c.apiKey)
	var resp BalancesResponse
	if err := c.http.GetJSON(ctx, url, nil, &resp); err != nil {
		return BalancesResponse{}, err
	}
	return resp, nil
}

// Transactions fetches the enhanced transaction history, newest first.
func (c *Client) Transactions(ctx context.Context, address string, limit int) ([]EnhancedTransaction, error) {
	url := fmt.Sprintf("%s/v0/addresses/%s/transactions?api-key=%s&limit=%d", c.apiURL, address, c.apiKey, limit)
	var resp []EnhancedTransaction
	if err := c.http.GetJSON(ctx, url, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

type searchAssetsParams struct {
	OwnerAddress string `json:"ownerAddress"`
	TokenType    string `json:"tokenType"`
	Limit        int    `json:"limit"`
}

// SearchAssets fetches all assets owned by an address via the DAS
// searchAssets method.
func (c *Client) SearchAssets(ctx context.Context, address string, limit int) (AssetSearch, error) {
	url := fmt.Sprintf("%s/?api-key=%s", c.rpcURL, c.apiKey)
	req := rpcRequest{
		JSONRPC: "2.0",
		ID:      "walletscan-search",
		Method:  "searchAssets",
		Params: searchAssetsParams{
			OwnerAddress: address,
			TokenType:    "all",
			Limit:        limit,
		},
	}

	// Some gateways return the result bare, others wrapped in a JSON-RPC
	// envelope. Decode the envelope first and fall through to its result.
	var resp struct {
		Result *searchAssetsResult `json:"result"`
		searchAssetsResult
	}
	if err := c.http.PostJSON(ctx, url, nil, req, &resp); err != nil {
		return AssetSearch{}, err
	}

	raw := resp.searchAssetsResult
	if resp.Result != nil {
		raw = *resp.Result
	}

	search := AssetSearch{Items: raw.items()}
	if raw.NativeBalance != nil {
		search.NativeTotalUSD = raw.NativeBalance.TotalPrice
	}
	return search, nil
}
