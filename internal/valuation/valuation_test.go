package valuation

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/doxxscan/walletscan/internal/domain"
)

func usd(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

func TestHoldingValueUnknownPriceIsNil(t *testing.T) {
	h := domain.TokenHolding{Mint: "MintA", RawAmount: 1000000, Decimals: 6}
	if got := HoldingValue(h); got != nil {
		t.Errorf("value with unknown price = %s, want nil", got)
	}
}

func TestHoldingValueZeroPriceIsZero(t *testing.T) {
	h := domain.TokenHolding{Mint: "MintA", RawAmount: 1000000, Decimals: 6, PriceUSD: usd(0)}
	got := HoldingValue(h)
	if got == nil || !got.IsZero() {
		t.Errorf("value with zero price = %v, want explicit zero", got)
	}
}

func TestHoldingValueKnownPrice(t *testing.T) {
	// 2.5 tokens at $1.50
	h := domain.TokenHolding{Mint: "MintA", RawAmount: 2500000, Decimals: 6, PriceUSD: usd(1.5)}
	got := HoldingValue(h)
	if got == nil || !got.Equal(decimal.NewFromFloat(3.75)) {
		t.Errorf("value = %v, want 3.75", got)
	}
}

func TestPortfolioTotalExcludesUnknownIncludesZero(t *testing.T) {
	tokens := []domain.TokenHolding{
		{Mint: "Known", RawAmount: 2000000, Decimals: 6, PriceUSD: usd(2)},   // $4
		{Mint: "Zero", RawAmount: 5000000, Decimals: 6, PriceUSD: usd(0)},    // $0, included
		{Mint: "Unknown", RawAmount: 9000000, Decimals: 6},                   // excluded
	}

	// 1 SOL at $100
	total := PortfolioTotal(tokens, domain.LamportsPerSOL, usd(100))
	if !total.Equal(decimal.NewFromInt(104)) {
		t.Errorf("portfolio total = %s, want 104", total)
	}
}

func TestPortfolioTotalUnknownSOLPrice(t *testing.T) {
	tokens := []domain.TokenHolding{
		{Mint: "Known", RawAmount: 1000000, Decimals: 6, PriceUSD: usd(3)},
	}
	total := PortfolioTotal(tokens, 5*domain.LamportsPerSOL, nil)
	if !total.Equal(decimal.NewFromInt(3)) {
		t.Errorf("portfolio total = %s, want 3 (native balance excluded without price)", total)
	}
}

func TestBucketTotals(t *testing.T) {
	classified := func(mint string, bucket domain.RiskBucket, price *decimal.Decimal) domain.TokenHolding {
		return domain.TokenHolding{
			Mint: mint, RawAmount: 1000000, Decimals: 6, PriceUSD: price,
			Classification: &domain.RiskClassification{Bucket: bucket},
		}
	}

	tokens := []domain.TokenHolding{
		classified("A", domain.RiskHigh, nil),       // counted, no value
		classified("B", domain.RiskHigh, usd(10)),   // $10
		classified("C", domain.RiskLow, usd(1.5)),   // $1.50
		{Mint: "D", RawAmount: 1, Decimals: 0},      // unclassified -> unknown
	}

	totals := BucketTotals(tokens)
	if len(totals) != 4 {
		t.Fatalf("buckets = %d, want all 4 present", len(totals))
	}

	high := totals[domain.RiskHigh]
	if high.Count != 2 || !high.ValueUSD.Equal(decimal.NewFromInt(10)) {
		t.Errorf("high = %+v, want count 2, value 10", high)
	}
	low := totals[domain.RiskLow]
	if low.Count != 1 || !low.ValueUSD.Equal(decimal.NewFromFloat(1.5)) {
		t.Errorf("low = %+v, want count 1, value 1.5", low)
	}
	unknown := totals[domain.RiskUnknown]
	if unknown.Count != 1 || !unknown.ValueUSD.IsZero() {
		t.Errorf("unknown = %+v, want count 1, value 0", unknown)
	}
	if medium := totals[domain.RiskMedium]; medium.Count != 0 {
		t.Errorf("medium count = %d, want 0", medium.Count)
	}
}
