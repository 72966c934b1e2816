package domain

import "github.com/shopspring/decimal"

// LamportsPerSOL is the number of lamports in one SOL.
const LamportsPerSOL = 1_000_000_000

// DisplayAmount converts a raw smallest-unit amount into token units:
// raw / 10^decimals.
func DisplayAmount(raw int64, decimals int) decimal.Decimal {
	return decimal.NewFromInt(raw).Shift(int32(-decimals))
}

// LamportsToSOL converts a lamport balance into SOL.
func LamportsToSOL(lamports int64) decimal.Decimal {
	return decimal.NewFromInt(lamports).Shift(-9)
}

// USDFromFloat converts a provider's float price into a decimal, returning
// nil for negative values, which no price feed legitimately produces.
func USDFromFloat(price float64) *decimal.Decimal {
	if price < 0 {
		return nil
	}
	d := decimal.NewFromFloat(price)
	return &d
}
