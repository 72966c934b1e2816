package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SanctionStatus is the outcome of the sanctions check for a wallet.
type SanctionStatus string

const (
	SanctionPending    SanctionStatus = "pending"
	SanctionClear      SanctionStatus = "clear"
	SanctionSanctioned SanctionStatus = "sanctioned"
	// SanctionUnknown means the sanctions provider was unavailable.
	// The check fails open: an unreachable provider never marks a wallet clear.
	SanctionUnknown SanctionStatus = "unknown"
)

// Section names a wallet-level data source. Each section degrades
// independently when its provider fails.
type Section string

const (
	SectionBalances     Section = "balances"
	SectionAssets       Section = "assets"
	SectionTransactions Section = "transactions"
	SectionPrice        Section = "price"
	SectionMetadata     Section = "metadata"
	SectionDomains      Section = "domains"
	SectionSanctions    Section = "sanctions"
	SectionProfile      Section = "profile"
)

// SectionError records a provider failure for one snapshot section.
type SectionError struct {
	Section Section `json:"section"`
	Message string  `json:"message"`
}

// TokenMetadata is market metadata for a token, keyed by mint and sourced
// independently of the holding itself.
type TokenMetadata struct {
	Name           string           `json:"name"`
	Symbol         string           `json:"symbol"`
	ImageURL       string           `json:"imageUrl,omitempty"`
	PriceUSD       *decimal.Decimal `json:"priceUsd,omitempty"`
	PriceChange24h float64          `json:"priceChange24h,omitempty"`
}

// TokenHolding is one fungible token position in a wallet.
type TokenHolding struct {
	Mint         string `json:"mint"`
	RawAmount    int64  `json:"rawAmount"`
	Decimals     int    `json:"decimals"`
	TokenAccount string `json:"tokenAccount,omitempty"`
	Symbol       string `json:"symbol,omitempty"`

	Metadata *TokenMetadata `json:"metadata,omitempty"`

	// PriceUSD is nil when no provider knew a price. A nil price is not
	// the same as a zero price: zero-priced holdings count as 0 in sums,
	// unknown-priced holdings are excluded.
	PriceUSD *decimal.Decimal `json:"priceUsd,omitempty"`
	ValueUSD *decimal.Decimal `json:"valueUsd,omitempty"`

	Classification *RiskClassification `json:"classification,omitempty"`
}

// DisplayAmount converts the raw integer amount into token units.
func (t TokenHolding) DisplayAmount() decimal.Decimal {
	return DisplayAmount(t.RawAmount, t.Decimals)
}

// AssetHolding is a non-fungible asset owned by a wallet.
type AssetHolding struct {
	ID         string `json:"id"`
	Name       string `json:"name,omitempty"`
	ImageURL   string `json:"imageUrl,omitempty"`
	Collection string `json:"collection,omitempty"`

	Classification *RiskClassification `json:"classification,omitempty"`
}

// NativeTransfer is a SOL movement inside a transaction.
type NativeTransfer struct {
	FromUserAccount string `json:"fromUserAccount"`
	ToUserAccount   string `json:"toUserAccount"`
	Amount          int64  `json:"amount"`
}

// TokenTransfer is a token movement inside a transaction.
type TokenTransfer struct {
	FromUserAccount string  `json:"fromUserAccount"`
	ToUserAccount   string  `json:"toUserAccount"`
	Mint            string  `json:"mint"`
	TokenAmount     float64 `json:"tokenAmount"`
}

// Transaction is one entry of the wallet's transaction history, newest first.
type Transaction struct {
	Signature       string           `json:"signature"`
	Slot            int64            `json:"slot"`
	Fee             int64            `json:"fee"`
	Timestamp       int64            `json:"timestamp"`
	Type            string           `json:"type,omitempty"`
	Description     string           `json:"description,omitempty"`
	Failed          bool             `json:"failed"`
	NativeTransfers []NativeTransfer `json:"nativeTransfers,omitempty"`
	TokenTransfers  []TokenTransfer  `json:"tokenTransfers,omitempty"`
}

// DomainName is a human-readable name associated with a wallet.
type DomainName struct {
	Name      string `json:"name"`
	Subdomain bool   `json:"subdomain"`
}

// BucketTotal aggregates one risk bucket: how many assets landed in it and
// the combined USD value of those with a known price.
type BucketTotal struct {
	Count    int             `json:"count"`
	ValueUSD decimal.Decimal `json:"valueUsd"`
}

// WalletSnapshot is the merged result of one wallet scan. It is built
// incrementally by a single owner (the scan orchestrator) and is complete
// once every provider call has settled, success or failure.
type WalletSnapshot struct {
	Address       string         `json:"address"`
	NativeBalance int64          `json:"nativeBalance"`
	Tokens        []TokenHolding `json:"tokens"`
	NFTs          []AssetHolding `json:"nfts"`
	Transactions  []Transaction  `json:"transactions"`
	Domains       []DomainName   `json:"domains"`

	SanctionStatus SanctionStatus `json:"sanctionStatus"`
	WalletRisk     *RiskSignal    `json:"walletRisk,omitempty"`

	SOLPriceUSD       *decimal.Decimal            `json:"solPriceUsd,omitempty"`
	PortfolioValueUSD decimal.Decimal             `json:"portfolioValueUsd"`
	BucketTotals      map[RiskBucket]BucketTotal  `json:"bucketTotals,omitempty"`

	Errors      []SectionError `json:"errors,omitempty"`
	GeneratedAt time.Time      `json:"generatedAt"`
}

// TokensByBucket groups classified token holdings by their risk bucket.
// Unclassified holdings fall into the unknown bucket.
func (s *WalletSnapshot) TokensByBucket() map[RiskBucket][]TokenHolding {
	out := make(map[RiskBucket][]TokenHolding)
	for _, t := range s.Tokens {
		bucket := RiskUnknown
		if t.Classification != nil {
			bucket = t.Classification.Bucket
		}
		out[bucket] = append(out[bucket], t)
	}
	return out
}

// SectionFailed reports whether the given section recorded a provider error.
func (s *WalletSnapshot) SectionFailed(section Section) bool {
	for _, e := range s.Errors {
		if e.Section == section {
			return true
		}
	}
	return false
}
