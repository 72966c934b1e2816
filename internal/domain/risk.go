package domain

// RiskBucket is one of the four risk categories an asset can land in.
type RiskBucket string

const (
	RiskHigh    RiskBucket = "high"
	RiskMedium  RiskBucket = "medium"
	RiskLow     RiskBucket = "low"
	RiskUnknown RiskBucket = "unknown"
)

// Rank orders buckets for display: high > medium > low > unknown.
func (b RiskBucket) Rank() int {
	switch b {
	case RiskHigh:
		return 3
	case RiskMedium:
		return 2
	case RiskLow:
		return 1
	default:
		return 0
	}
}

// Buckets lists all buckets in display order, riskiest first.
func Buckets() []RiskBucket {
	return []RiskBucket{RiskHigh, RiskMedium, RiskLow, RiskUnknown}
}

// BucketFromLevel maps a provider's categorical level string onto a bucket.
// Anything unrecognized is unknown.
func BucketFromLevel(level string) RiskBucket {
	switch level {
	case "high":
		return RiskHigh
	case "medium":
		return RiskMedium
	case "low":
		return RiskLow
	default:
		return RiskUnknown
	}
}

// RiskSource names the provider a signal or classification came from.
type RiskSource string

const (
	// SourceTokenReport is the per-mint token security report with a
	// normalized numeric score.
	SourceTokenReport RiskSource = "token_report"
	// SourceRiskScan is the address/asset risk scan.
	SourceRiskScan RiskSource = "risk_scan"
	// SourceWalletScan is the wallet-level token scan, which only carries
	// a coarse categorical level per token.
	SourceWalletScan RiskSource = "wallet_scan"
	// SourceMarketData marks the heuristic fallback: a token with live
	// market pricing is treated as a weak positive signal.
	SourceMarketData RiskSource = "market_data"
	// SourceNone marks a classification made with no signal at all.
	SourceNone RiskSource = "none"
)

// RiskIssue is a single finding reported by a risk provider.
type RiskIssue struct {
	Severity    string   `json:"severity,omitempty"`
	Description string   `json:"description"`
	Tags        []string `json:"tags,omitempty"`
	Score       float64  `json:"score,omitempty"`
}

// RiskSignal is one provider's opinion on one asset or wallet.
// A signal with neither a score nor a level is non-informative and is
// discarded before classification.
type RiskSignal struct {
	Source RiskSource `json:"source"`
	// Score is a normalized value in [0,100], higher = riskier.
	Score *float64 `json:"score,omitempty"`
	// Level is a categorical assessment; empty when the provider only
	// reported a numeric score.
	Level RiskBucket `json:"level,omitempty"`
	// TxCount is reported by the wallet-level risk scan only.
	TxCount int         `json:"txCount,omitempty"`
	Issues  []RiskIssue `json:"issues,omitempty"`
}

// Informative reports whether the signal carries anything classifiable.
func (s RiskSignal) Informative() bool {
	return s.Score != nil || (s.Level != "" && s.Level != RiskUnknown)
}

// RiskClassification is the classifier's verdict for one asset.
type RiskClassification struct {
	Bucket RiskBucket `json:"bucket"`
	// Source records which signal determined the bucket, for auditability.
	Source RiskSource  `json:"source"`
	Score  *float64    `json:"score,omitempty"`
	Issues []RiskIssue `json:"issues,omitempty"`
}
