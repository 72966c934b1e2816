// Package valuation converts raw on-chain balances into USD values.
// An unknown price is never coerced to zero: unknown-priced holdings are
// excluded from sums and carry a nil value so the rendering layer can flag
// them, while a genuine zero price contributes zero like any other number.
package valuation

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/doxxscan/walletscan/internal/domain"
)

// HoldingValue computes displayAmount * priceUSD for one holding.
// Returns nil when the holding has no known price.
func HoldingValue(h domain.TokenHolding) *decimal.Decimal {
	if h.PriceUSD == nil {
		return nil
	}
	v := h.DisplayAmount().Mul(*h.PriceUSD)
	return &v
}

// NativeValue computes the USD value of the native balance, nil when the SOL
// price is unknown.
func NativeValue(lamports int64, solPriceUSD *decimal.Decimal) *decimal.Decimal {
	if solPriceUSD == nil {
		return nil
	}
	v := domain.LamportsToSOL(lamports).Mul(*solPriceUSD)
	return &v
}

// PortfolioTotal sums all known token values plus the native balance value.
// Holdings and balances without a known price contribute nothing.
func PortfolioTotal(tokens []domain.TokenHolding, lamports int64, solPriceUSD *decimal.Decimal) decimal.Decimal {
	total := lo.Reduce(tokens, func(acc decimal.Decimal, t domain.TokenHolding, _ int) decimal.Decimal {
		if v := HoldingValue(t); v != nil {
			return acc.Add(*v)
		}
		return acc
	}, decimal.Zero)

	if native := NativeValue(lamports, solPriceUSD); native != nil {
		total = total.Add(*native)
	}
	return total
}

// BucketTotals aggregates per-bucket counts and known USD value across token
// holdings. Every bucket appears in the result, including empty ones, so the
// risk-distribution view renders a stable set of rows.
func BucketTotals(tokens []domain.TokenHolding) map[domain.RiskBucket]domain.BucketTotal {
	totals := make(map[domain.RiskBucket]domain.BucketTotal, 4)
	for _, b := range domain.Buckets() {
		totals[b] = domain.BucketTotal{ValueUSD: decimal.Zero}
	}

	for _, t := range tokens {
		bucket := domain.RiskUnknown
		if t.Classification != nil {
			bucket = t.Classification.Bucket
		}
		entry := totals[bucket]
		entry.Count++
		if v := HoldingValue(t); v != nil {
			entry.ValueUSD = entry.ValueUSD.Add(*v)
		}
		totals[bucket] = entry
	}
	return totals
}
