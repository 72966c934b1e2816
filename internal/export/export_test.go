package export

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/doxxscan/walletscan/internal/domain"
)

func usd(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

func sampleSnapshot() *domain.WalletSnapshot {
	score := 85.0
	return &domain.WalletSnapshot{
		Address:       "Wallet1",
		NativeBalance: 2 * domain.LamportsPerSOL,
		SOLPriceUSD:   usd(100),
		Tokens: []domain.TokenHolding{
			{
				Mint: "MintA", Symbol: "toka", RawAmount: 1_500_000, Decimals: 6,
				PriceUSD: usd(2), ValueUSD: usd(3),
				Classification: &domain.RiskClassification{
					Bucket: domain.RiskHigh,
					Source: domain.SourceTokenReport,
					Score:  &score,
				},
			},
			{Mint: "MintB", RawAmount: 1, Decimals: 0},
		},
		Transactions: []domain.Transaction{
			{Signature: "sig1", Slot: 100, Type: "TRANSFER", Failed: true},
		},
		Domains:           []domain.DomainName{{Name: "alice.sol"}},
		SanctionStatus:    domain.SanctionClear,
		PortfolioValueUSD: decimal.NewFromInt(203),
		BucketTotals: map[domain.RiskBucket]domain.BucketTotal{
			domain.RiskHigh:    {Count: 1, ValueUSD: decimal.NewFromInt(3)},
			domain.RiskMedium:  {},
			domain.RiskLow:     {},
			domain.RiskUnknown: {Count: 1},
		},
		Errors:      []domain.SectionError{{Section: domain.SectionPrice, Message: "timeout"}},
		GeneratedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestBuildTablesLayout(t *testing.T) {
	tables := BuildTables(sampleSnapshot())
	if len(tables) != 3 {
		t.Fatalf("tables = %d, want 3", len(tables))
	}

	names := []string{"SUMMARY", "HOLDINGS", "TRANSACTIONS"}
	for i, want := range names {
		if tables[i].Name != want {
			t.Errorf("table %d = %q, want %q", i, tables[i].Name, want)
		}
	}
}

func TestBuildHoldingsUnknownPriceIsBlank(t *testing.T) {
	tables := BuildTables(sampleSnapshot())
	holdings := tables[1]

	if len(holdings.Rows) != 2 {
		t.Fatalf("holding rows = %d, want 2", len(holdings.Rows))
	}

	known := holdings.Rows[0]
	if known[3] != 2.0 || known[4] != 3.0 {
		t.Errorf("known row price/value = %v/%v, want 2/3", known[3], known[4])
	}
	if known[5] != "high" || known[7] != 85.0 {
		t.Errorf("known row risk = %v score %v, want high 85", known[5], known[7])
	}

	unknown := holdings.Rows[1]
	if unknown[3] != nil || unknown[4] != nil {
		t.Errorf("unknown row price/value = %v/%v, want blank cells", unknown[3], unknown[4])
	}
	if unknown[5] != "unknown" {
		t.Errorf("unknown row risk = %v, want unknown", unknown[5])
	}
}

func TestBuildSummaryCarriesDegradedSections(t *testing.T) {
	tables := BuildTables(sampleSnapshot())

	var found bool
	for _, row := range tables[0].Rows {
		if row[0] == "Degraded section" && row[1] == "price" {
			found = true
		}
	}
	if !found {
		t.Error("summary missing degraded-section row for price")
	}
}

func TestBuildTransactionsStatus(t *testing.T) {
	tables := BuildTables(sampleSnapshot())
	txs := tables[2]

	if len(txs.Rows) != 1 {
		t.Fatalf("tx rows = %d, want 1", len(txs.Rows))
	}
	if txs.Rows[0][4] != "failed" {
		t.Errorf("tx status = %v, want failed", txs.Rows[0][4])
	}
}

type recordingWriter struct {
	address string
	tables  []Table
}

func (r *recordingWriter) Write(_ context.Context, address string, tables []Table) error {
	r.address = address
	r.tables = tables
	return nil
}

func TestServiceExport(t *testing.T) {
	writer := &recordingWriter{}
	svc := NewService(writer)

	if err := svc.Export(context.Background(), sampleSnapshot()); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if writer.address != "Wallet1" {
		t.Errorf("address = %q, want Wallet1", writer.address)
	}
	if len(writer.tables) != 3 {
		t.Errorf("tables = %d, want 3", len(writer.tables))
	}
}

func TestXLSXWriterRoundTrip(t *testing.T) {
	path := t.TempDir() + "/report.xlsx"
	w := NewXLSXWriter(path)

	if err := w.Write(context.Background(), "Wallet1", BuildTables(sampleSnapshot())); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
}
