package helius

import (
	"github.com/samber/lo"

	"github.com/doxxscan/walletscan/internal/domain"
)

// BalancesResponse is the JSON response from GET /v0/addresses/{id}/balances.
type BalancesResponse struct {
	NativeBalance int64          `json:"nativeBalance"`
	Tokens        []TokenBalance `json:"tokens"`
}

// TokenBalance is a single token entry in a balances response.
type TokenBalance struct {
	Mint         string `json:"mint"`
	Amount       int64  `json:"amount"`
	Decimals     int    `json:"decimals"`
	TokenAccount string `json:"tokenAccount"`
	Symbol       string `json:"symbol,omitempty"`
}

// Holdings converts the raw balances into domain token holdings.
// Zero-amount positions are dropped: a closed token account carries no risk
// and no value.
func (r BalancesResponse) Holdings() []domain.TokenHolding {
	return lo.FilterMap(r.Tokens, func(t TokenBalance, _ int) (domain.TokenHolding, bool) {
		if t.Amount <= 0 {
			return domain.TokenHolding{}, false
		}
		return domain.TokenHolding{
			Mint:         t.Mint,
			RawAmount:    t.Amount,
			Decimals:     t.Decimals,
			TokenAccount: t.TokenAccount,
			Symbol:       t.Symbol,
		}, true
	})
}

// EnhancedTransaction is one entry of the enhanced transaction history.
type EnhancedTransaction struct {
	Signature        string `json:"signature"`
	Slot             int64  `json:"slot"`
	Fee              int64  `json:"fee"`
	Timestamp        int64  `json:"timestamp"`
	Type             string `json:"type"`
	Description      string `json:"description"`
	TransactionError *struct {
		Error string `json:"error"`
	} `json:"transactionError"`
	NativeTransfers []struct {
		FromUserAccount string `json:"fromUserAccount"`
		ToUserAccount   string `json:"toUserAccount"`
		Amount          int64  `json:"amount"`
	} `json:"nativeTransfers"`
	TokenTransfers []struct {
		FromUserAccount string  `json:"fromUserAccount"`
		ToUserAccount   string  `json:"toUserAccount"`
		Mint            string  `json:"mint"`
		TokenAmount     float64 `json:"tokenAmount"`
	} `json:"tokenTransfers"`
}

// ToDomain converts an enhanced transaction into the domain type.
func (t EnhancedTransaction) ToDomain() domain.Transaction {
	tx := domain.Transaction{
		Signature:   t.Signature,
		Slot:        t.Slot,
		Fee:         t.Fee,
		Timestamp:   t.Timestamp,
		Type:        t.Type,
		Description: t.Description,
		Failed:      t.TransactionError != nil && t.TransactionError.Error != "",
	}
	for _, n := range t.NativeTransfers {
		tx.NativeTransfers = append(tx.NativeTransfers, domain.NativeTransfer{
			FromUserAccount: n.FromUserAccount,
			ToUserAccount:   n.ToUserAccount,
			Amount:          n.Amount,
		})
	}
	for _, tt := range t.TokenTransfers {
		tx.TokenTransfers = append(tx.TokenTransfers, domain.TokenTransfer{
			FromUserAccount: tt.FromUserAccount,
			ToUserAccount:   tt.ToUserAccount,
			Mint:            tt.Mint,
			TokenAmount:     tt.TokenAmount,
		})
	}
	return tx
}

// Asset interface kinds returned by searchAssets.
const (
	InterfaceFungibleToken = "FungibleToken"
	InterfaceV1NFT         = "V1_NFT"
)

// PriceInfo is the DAS-reported pricing for a fungible asset.
type PriceInfo struct {
	PricePerToken float64 `json:"price_per_token"`
	TotalPrice    float64 `json:"total_price"`
}

// TokenInfo is the fungible-token detail of a DAS asset.
type TokenInfo struct {
	Symbol    string     `json:"symbol"`
	Decimals  int        `json:"decimals"`
	PriceInfo *PriceInfo `json:"price_info"`
}

// AssetContent carries the off-chain metadata of a DAS asset.
type AssetContent struct {
	Metadata struct {
		Name   string `json:"name"`
		Symbol string `json:"symbol"`
	} `json:"metadata"`
	Links struct {
		Image string `json:"image"`
	} `json:"links"`
}

// Asset is one item of a searchAssets response.
type Asset struct {
	ID        string        `json:"id"`
	Interface string        `json:"interface"`
	TokenInfo *TokenInfo    `json:"token_info"`
	Content   *AssetContent `json:"content"`
	Grouping  []struct {
		GroupKey   string `json:"group_key"`
		GroupValue string `json:"group_value"`
	} `json:"grouping"`
}

// searchAssetsResult accepts both response shapes the DAS endpoint is known
// to return: {items: [...]} and {assets: {items: [...]}}.
type searchAssetsResult struct {
	Items  []Asset `json:"items"`
	Assets *struct {
		Items []Asset `json:"items"`
	} `json:"assets"`
	NativeBalance *struct {
		Lamports   int64   `json:"lamports"`
		TotalPrice float64 `json:"total_price"`
	} `json:"nativeBalance"`
}

func (r searchAssetsResult) items() []Asset {
	if len(r.Items) > 0 || r.Assets == nil {
		return r.Items
	}
	return r.Assets.Items
}

// AssetSearch is the normalized searchAssets result.
type AssetSearch struct {
	Items []Asset
	// NativeTotalUSD is the DAS-reported USD value of the native balance,
	// zero when absent.
	NativeTotalUSD float64
}

// NFTs returns the non-fungible items converted to domain holdings.
func (s AssetSearch) NFTs() []domain.AssetHolding {
	return lo.FilterMap(s.Items, func(a Asset, _ int) (domain.AssetHolding, bool) {
		if a.Interface != InterfaceV1NFT {
			return domain.AssetHolding{}, false
		}
		h := domain.AssetHolding{ID: a.ID}
		if a.Content != nil {
			h.Name = a.Content.Metadata.Name
			h.ImageURL = a.Content.Links.Image
		}
		for _, g := range a.Grouping {
			if g.GroupKey == "collection" {
				h.Collection = g.GroupValue
			}
		}
		return h, true
	})
}

// Fungible returns the fungible items.
func (s AssetSearch) Fungible() []Asset {
	return lo.Filter(s.Items, func(a Asset, _ int) bool {
		return a.Interface == InterfaceFungibleToken
	})
}
