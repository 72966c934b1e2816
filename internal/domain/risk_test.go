package domain

import "testing"

func TestBucketRankOrdering(t *testing.T) {
	if !(RiskHigh.Rank() > RiskMedium.Rank() &&
		RiskMedium.Rank() > RiskLow.Rank() &&
		RiskLow.Rank() > RiskUnknown.Rank()) {
		t.Errorf("bucket ranks not strictly ordered: high=%d medium=%d low=%d unknown=%d",
			RiskHigh.Rank(), RiskMedium.Rank(), RiskLow.Rank(), RiskUnknown.Rank())
	}
}

func TestBucketFromLevel(t *testing.T) {
	cases := []struct {
		level string
		want  RiskBucket
	}{
		{"high", RiskHigh},
		{"medium", RiskMedium},
		{"low", RiskLow},
		{"", RiskUnknown},
		{"critical", RiskUnknown},
	}
	for _, c := range cases {
		if got := BucketFromLevel(c.level); got != c.want {
			t.Errorf("BucketFromLevel(%q) = %q, want %q", c.level, got, c.want)
		}
	}
}

func TestSignalInformative(t *testing.T) {
	score := 12.5
	cases := []struct {
		name   string
		signal RiskSignal
		want   bool
	}{
		{"score only", RiskSignal{Score: &score}, true},
		{"level only", RiskSignal{Level: RiskMedium}, true},
		{"unknown level only", RiskSignal{Level: RiskUnknown}, false},
		{"empty", RiskSignal{}, false},
		{"issues without score or level", RiskSignal{Issues: []RiskIssue{{Description: "x"}}}, false},
	}
	for _, c := range cases {
		if got := c.signal.Informative(); got != c.want {
			t.Errorf("%s: Informative() = %v, want %v", c.name, got, c.want)
		}
	}
}
