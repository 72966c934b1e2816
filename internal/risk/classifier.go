// Package risk maps provider risk signals onto a single classification per
// asset. The policy is fixed: a normalized numeric score wins over any
// categorical label because it is the most granular signal available; with
// no signal at all, live market pricing is a weak positive and everything
// else is unknown. Classification never fails and is deterministic.
package risk

import (
	"github.com/samber/lo"

	"github.com/doxxscan/walletscan/internal/domain"
)

// Score thresholds, exclusive lower bounds: a score of exactly 70 is medium,
// exactly 40 is low.
const (
	HighThreshold   = 70
	MediumThreshold = 40
)

// BucketForScore maps a normalized score in [0,100] onto a bucket.
func BucketForScore(score float64) domain.RiskBucket {
	switch {
	case score > HighThreshold:
		return domain.RiskHigh
	case score > MediumThreshold:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

// Classify produces exactly one classification for an asset from its signals
// and, for the fallback rule, its independent market metadata. Signals are
// considered in the order given; callers put the finer-grained provider
// first. Non-informative signals are dropped up front.
func Classify(signals []domain.RiskSignal, market *domain.TokenMetadata) domain.RiskClassification {
	informative := lo.Filter(signals, func(s domain.RiskSignal, _ int) bool {
		return s.Informative()
	})

	// Rule 1: any numeric score beats every categorical label.
	for _, sig := range informative {
		if sig.Score != nil {
			return domain.RiskClassification{
				Bucket: BucketForScore(*sig.Score),
				Source: sig.Source,
				Score:  sig.Score,
				Issues: sig.Issues,
			}
		}
	}

	// Rule 2: categorical level pass-through.
	for _, sig := range informative {
		if sig.Level != "" && sig.Level != domain.RiskUnknown {
			return domain.RiskClassification{
				Bucket: sig.Level,
				Source: sig.Source,
				Issues: sig.Issues,
			}
		}
	}

	// Rule 3: tradeable market data is a weak signal that the asset is not
	// an outright scam; without even that, the asset stays unknown rather
	// than being silently omitted.
	if market != nil && market.PriceUSD != nil && market.PriceUSD.IsPositive() {
		return domain.RiskClassification{
			Bucket: domain.RiskLow,
			Source: domain.SourceMarketData,
		}
	}

	return domain.RiskClassification{
		Bucket: domain.RiskUnknown,
		Source: domain.SourceNone,
	}
}
