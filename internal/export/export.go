// Package export renders wallet reports into spreadsheet destinations.
package export

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/doxxscan/walletscan/internal/domain"
)

// Table is one sheet worth of tabular report data.
type Table struct {
	Name   string
	Header []string
	Rows   [][]any
}

// ReportWriter writes report tables to a spreadsheet destination.
type ReportWriter interface {
	Write(ctx context.Context, address string, tables []Table) error
}

// Service renders snapshots into tables and delegates writing to a
// ReportWriter. Implements worker.AfterScanHook.
type Service struct {
	writer ReportWriter
}

// NewService creates a new export Service.
func NewService(writer ReportWriter) *Service {
	if writer == nil {
		panic("export.NewService: writer is nil")
	}
	return &Service{writer: writer}
}

// Export writes the snapshot to the configured destination.
func (s *Service) Export(ctx context.Context, snapshot *domain.WalletSnapshot) error {
	if err := s.writer.Write(ctx, snapshot.Address, BuildTables(snapshot)); err != nil {
		return fmt.Errorf("writing report for %s: %w", snapshot.Address, err)
	}
	return nil
}

// BuildTables renders a snapshot into the three report sheets: summary,
// holdings and transactions.
func BuildTables(snapshot *domain.WalletSnapshot) []Table {
	return []Table{
		buildSummary(snapshot),
		buildHoldings(snapshot),
		buildTransactions(snapshot),
	}
}

func buildSummary(snapshot *domain.WalletSnapshot) Table {
	rows := [][]any{
		{"Address", snapshot.Address},
		{"Generated", snapshot.GeneratedAt.Format("2006-01-02 15:04:05 UTC")},
		{"SOL balance", domain.LamportsToSOL(snapshot.NativeBalance).InexactFloat64()},
		{"SOL price USD", ptrFloat(snapshot.SOLPriceUSD)},
		{"Portfolio value USD", toFloat(snapshot.PortfolioValueUSD)},
		{"Sanction status", string(snapshot.SanctionStatus)},
		{"Domains", strings.Join(domainNames(snapshot.Domains), ", ")},
	}

	if snapshot.WalletRisk != nil && snapshot.WalletRisk.Score != nil {
		rows = append(rows, []any{"Wallet risk score", *snapshot.WalletRisk.Score})
	}

	for _, bucket := range domain.Buckets() {
		total, ok := snapshot.BucketTotals[bucket]
		if !ok {
			continue
		}
		rows = append(rows, []any{
			fmt.Sprintf("Tokens %s risk", bucket), total.Count,
		})
	}

	for _, e := range snapshot.Errors {
		rows = append(rows, []any{"Degraded section", string(e.Section)})
	}

	return Table{Name: "SUMMARY", Header: []string{"Field", "Value"}, Rows: rows}
}

func buildHoldings(snapshot *domain.WalletSnapshot) Table {
	rows := make([][]any, 0, len(snapshot.Tokens))
	for _, t := range snapshot.Tokens {
		bucket, source, score := classificationCells(t.Classification)
		rows = append(rows, []any{
			t.Mint,
			t.Symbol,
			t.DisplayAmount().InexactFloat64(),
			ptrFloat(t.PriceUSD),
			ptrFloat(t.ValueUSD),
			bucket,
			source,
			score,
		})
	}

	return Table{
		Name:   "HOLDINGS",
		Header: []string{"Mint", "Symbol", "Amount", "Price USD", "Value USD", "Risk", "Source", "Score"},
		Rows:   rows,
	}
}

func buildTransactions(snapshot *domain.WalletSnapshot) Table {
	rows := lo.Map(snapshot.Transactions, func(tx domain.Transaction, _ int) []any {
		status := "success"
		if tx.Failed {
			status = "failed"
		}
		return []any{tx.Signature, tx.Slot, tx.Type, tx.Description, status, tx.Fee}
	})

	return Table{
		Name:   "TRANSACTIONS",
		Header: []string{"Signature", "Slot", "Type", "Description", "Status", "Fee"},
		Rows:   rows,
	}
}

func classificationCells(c *domain.RiskClassification) (bucket, source string, score any) {
	if c == nil {
		return string(domain.RiskUnknown), string(domain.SourceNone), nil
	}
	return string(c.Bucket), string(c.Source), floatOrNil(c.Score)
}

func domainNames(names []domain.DomainName) []string {
	return lo.Map(names, func(d domain.DomainName, _ int) string { return d.Name })
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

// ptrFloat keeps the unknown/zero price distinction visible in exports: an
// unknown value renders as an empty cell, never as 0.
func ptrFloat(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	f, _ := d.Float64()
	return f
}

func floatOrNil(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
