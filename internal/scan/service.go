// Package scan orchestrates the full provider fan-out for one wallet and
// merges the results into a single WalletSnapshot.
package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/doxxscan/walletscan/internal/batch"
	"github.com/doxxscan/walletscan/internal/coingecko"
	"github.com/doxxscan/walletscan/internal/domain"
	"github.com/doxxscan/walletscan/internal/helius"
	"github.com/doxxscan/walletscan/internal/risk"
	"github.com/doxxscan/walletscan/internal/rugcheck"
	"github.com/doxxscan/walletscan/internal/valuation"
	"github.com/doxxscan/walletscan/internal/webacy"
)

// ErrAllCoreSourcesFailed is returned when balances, holdings and
// transactions are all unavailable. It is the only fatal scan condition;
// any smaller subset of failures degrades the affected sections instead.
var ErrAllCoreSourcesFailed = errors.New("all core data sources failed")

// WalletDataClient provides the on-chain wallet data: balances, asset
// holdings and transaction history.
type WalletDataClient interface {
	Balances(ctx context.Context, address string) (helius.BalancesResponse, error)
	Transactions(ctx context.Context, address string, limit int) ([]helius.EnhancedTransaction, error)
	SearchAssets(ctx context.Context, address string, limit int) (helius.AssetSearch, error)
}

// MarketClient provides the SOL price and the token metadata map.
type MarketClient interface {
	SolanaPrice(ctx context.Context) (coingecko.Price, error)
	TokenMetadata(ctx context.Context) (map[string]domain.TokenMetadata, error)
}

// RiskClient provides per-asset and wallet-level risk scans plus the
// sanctions check.
type RiskClient interface {
	AssetRisk(ctx context.Context, address string) (webacy.RiskScan, error)
	QuickProfile(ctx context.Context, address string) (webacy.RiskScan, error)
	Sanctioned(ctx context.Context, address string) (bool, error)
}

// ReportClient provides the per-mint token security report and the
// wallet-level token scan.
type ReportClient interface {
	TokenReport(ctx context.Context, mint string) (rugcheck.TokenReport, error)
	WalletScan(ctx context.Context, address string) (map[string]rugcheck.WalletToken, error)
}

// DomainClient resolves human-readable names for an address.
type DomainClient interface {
	Domains(ctx context.Context, address string) ([]domain.DomainName, error)
}

// ProgressFunc is invoked as each wallet-level section settles and once per
// risk-classification phase. It may be called from multiple goroutines and
// must be safe for concurrent use. err is nil on success.
type ProgressFunc func(section domain.Section, err error)

// Options configures a scan Service.
type Options struct {
	TransactionLimit int           // default 10
	AssetLimit       int           // default 50
	RiskBatchSize    int           // default batch.DefaultSize
	RiskBatchDelay   time.Duration // default batch.DefaultDelay
}

// Service runs wallet scans. All provider dependencies are required except
// the domain resolver, which is best-effort.
type Service struct {
	wallet  WalletDataClient
	market  MarketClient
	risk    RiskClient
	reports ReportClient
	domains DomainClient

	txLimit    int
	assetLimit int
	tokenBatch *batch.Runner[string, rugcheck.TokenReport]
	nftBatch   *batch.Runner[string, webacy.RiskScan]
}

// NewService creates a scan Service.
func NewService(wallet WalletDataClient, market MarketClient, riskClient RiskClient, reports ReportClient, domains DomainClient, opts Options) *Service {
	if wallet == nil {
		panic("scan.NewService: wallet is nil")
	}
	if market == nil {
		panic("scan.NewService: market is nil")
	}
	if riskClient == nil {
		panic("scan.NewService: risk is nil")
	}
	if reports == nil {
		panic("scan.NewService: reports is nil")
	}

	txLimit := opts.TransactionLimit
	if txLimit <= 0 {
		txLimit = 10
	}
	assetLimit := opts.AssetLimit
	if assetLimit <= 0 {
		assetLimit = 50
	}
	delay := opts.RiskBatchDelay
	if delay == 0 {
		delay = batch.DefaultDelay
	}

	return &Service{
		wallet:     wallet,
		market:     market,
		risk:       riskClient,
		reports:    reports,
		domains:    domains,
		txLimit:    txLimit,
		assetLimit: assetLimit,
		tokenBatch: batch.New[string, rugcheck.TokenReport](opts.RiskBatchSize, delay),
		nftBatch:   batch.New[string, webacy.RiskScan](opts.RiskBatchSize, delay),
	}
}

// fanout collects the wallet-level provider results. Each goroutine writes
// only its own field pair; the coordinator reads after all have settled.
type fanout struct {
	balances    helius.BalancesResponse
	balancesErr error

	assets    helius.AssetSearch
	assetsErr error

	txs    []helius.EnhancedTransaction
	txsErr error

	price    coingecko.Price
	priceErr error

	metadata    map[string]domain.TokenMetadata
	metadataErr error

	domains    []domain.DomainName
	domainsErr error

	sanctioned   bool
	sanctionsErr error

	profile    webacy.RiskScan
	profileErr error

	walletTokens    map[string]rugcheck.WalletToken
	walletTokensErr error
}

// Scan runs the full fan-out for one wallet address and returns the merged
// snapshot. One provider's failure never blocks the others; the scan fails
// outright only when every core source (balances, holdings, transactions)
// is unavailable. progress may be nil.
func (s *Service) Scan(ctx context.Context, address string, progress ProgressFunc) (*domain.WalletSnapshot, error) {
	emit := func(section domain.Section, err error) {
		if progress != nil {
			progress(section, err)
		}
	}

	f := s.runFanout(ctx, address, emit)

	if f.balancesErr != nil && f.assetsErr != nil && f.txsErr != nil {
		return nil, fmt.Errorf("scanning %s: %w", address, ErrAllCoreSourcesFailed)
	}

	snapshot := s.merge(address, f)

	cache := newMetadataCache(f.metadata)
	backfillFromAssets(cache, f.assets)

	s.priceHoldings(snapshot, cache, f.walletTokens)
	s.classifyTokens(ctx, snapshot, cache, f.walletTokens)
	s.classifyNFTs(ctx, snapshot)

	snapshot.PortfolioValueUSD = valuation.PortfolioTotal(snapshot.Tokens, snapshot.NativeBalance, snapshot.SOLPriceUSD)
	snapshot.BucketTotals = valuation.BucketTotals(snapshot.Tokens)
	snapshot.GeneratedAt = time.Now().UTC()

	return snapshot, nil
}

func (s *Service) runFanout(ctx context.Context, address string, emit ProgressFunc) *fanout {
	f := &fanout{}
	var wg sync.WaitGroup

	run := func(call func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			call()
		}()
	}

	run(func() {
		f.balances, f.balancesErr = s.wallet.Balances(ctx, address)
		emit(domain.SectionBalances, f.balancesErr)
	})
	run(func() {
		f.assets, f.assetsErr = s.wallet.SearchAssets(ctx, address, s.assetLimit)
		emit(domain.SectionAssets, f.assetsErr)
	})
	run(func() {
		f.txs, f.txsErr = s.wallet.Transactions(ctx, address, s.txLimit)
		emit(domain.SectionTransactions, f.txsErr)
	})
	run(func() {
		f.price, f.priceErr = s.market.SolanaPrice(ctx)
		emit(domain.SectionPrice, f.priceErr)
	})
	run(func() {
		f.metadata, f.metadataErr = s.market.TokenMetadata(ctx)
		emit(domain.SectionMetadata, f.metadataErr)
	})
	run(func() {
		f.sanctioned, f.sanctionsErr = s.risk.Sanctioned(ctx, address)
		emit(domain.SectionSanctions, f.sanctionsErr)
	})
	run(func() {
		f.profile, f.profileErr = s.risk.QuickProfile(ctx, address)
		f.walletTokens, f.walletTokensErr = s.reports.WalletScan(ctx, address)
		emit(domain.SectionProfile, f.profileErr)
	})
	if s.domains != nil {
		run(func() {
			f.domains, f.domainsErr = s.domains.Domains(ctx, address)
			emit(domain.SectionDomains, f.domainsErr)
		})
	}

	wg.Wait()
	return f
}

// merge builds the snapshot skeleton from the settled fan-out. It is the
// only writer of the snapshot.
func (s *Service) merge(address string, f *fanout) *domain.WalletSnapshot {
	snapshot := &domain.WalletSnapshot{
		Address:        address,
		SanctionStatus: domain.SanctionPending,
	}

	record := func(section domain.Section, err error) {
		if err == nil {
			return
		}
		slog.Warn("provider call failed", "section", section, "address", address, "error", err)
		snapshot.Errors = append(snapshot.Errors, domain.SectionError{
			Section: section,
			Message: err.Error(),
		})
	}

	record(domain.SectionBalances, f.balancesErr)
	record(domain.SectionAssets, f.assetsErr)
	record(domain.SectionTransactions, f.txsErr)
	record(domain.SectionPrice, f.priceErr)
	record(domain.SectionMetadata, f.metadataErr)
	record(domain.SectionDomains, f.domainsErr)
	record(domain.SectionSanctions, f.sanctionsErr)
	record(domain.SectionProfile, f.profileErr)

	if f.balancesErr == nil {
		snapshot.NativeBalance = f.balances.NativeBalance
		snapshot.Tokens = f.balances.Holdings()
	}
	if f.assetsErr == nil {
		snapshot.NFTs = f.assets.NFTs()
	}
	if f.txsErr == nil {
		for _, tx := range f.txs {
			snapshot.Transactions = append(snapshot.Transactions, tx.ToDomain())
		}
	}
	if f.priceErr == nil {
		snapshot.SOLPriceUSD = domain.USDFromFloat(f.price.USD)
	}
	if f.domainsErr == nil {
		snapshot.Domains = f.domains
	}

	switch {
	case f.sanctionsErr != nil:
		// Fail open: an unreachable sanctions provider must not report clear.
		snapshot.SanctionStatus = domain.SanctionUnknown
	case f.sanctioned:
		snapshot.SanctionStatus = domain.SanctionSanctioned
	default:
		snapshot.SanctionStatus = domain.SanctionClear
	}

	if f.profileErr == nil {
		if sig := f.profile.Signal(); sig.Informative() {
			snapshot.WalletRisk = &sig
		}
	}
	if f.walletTokensErr != nil {
		// Secondary signal only; its absence just thins the classifier input.
		slog.Debug("wallet token scan unavailable", "address", address, "error", f.walletTokensErr)
	}

	return snapshot
}

// backfillFromAssets adds asset-search price info for mints the market feed
// does not cover.
func backfillFromAssets(cache *metadataCache, assets helius.AssetSearch) {
	for _, a := range assets.Fungible() {
		if a.TokenInfo == nil || a.TokenInfo.PriceInfo == nil {
			continue
		}
		cache.fill(a.ID, domain.TokenMetadata{
			Symbol:   a.TokenInfo.Symbol,
			PriceUSD: domain.USDFromFloat(a.TokenInfo.PriceInfo.PricePerToken),
		})
	}
}

// priceHoldings resolves each holding's metadata and USD price. Price
// precedence: wallet-scan price, then the metadata cache.
func (s *Service) priceHoldings(snapshot *domain.WalletSnapshot, cache *metadataCache, walletTokens map[string]rugcheck.WalletToken) {
	for i := range snapshot.Tokens {
		t := &snapshot.Tokens[i]
		t.Metadata = cache.get(t.Mint)

		if wt, ok := walletTokens[t.Mint]; ok && wt.Price > 0 {
			t.PriceUSD = domain.USDFromFloat(wt.Price)
		} else if t.Metadata != nil && t.Metadata.PriceUSD != nil {
			t.PriceUSD = t.Metadata.PriceUSD
		}
		t.ValueUSD = valuation.HoldingValue(*t)

		if t.Symbol == "" && t.Metadata != nil {
			t.Symbol = t.Metadata.Symbol
		}
	}
}

// classifyTokens fetches the per-mint security reports in rate-limited
// batches and classifies every token holding. A failed report fetch is a
// missing signal, not an error: the classifier falls back to the wallet-scan
// level or the market-data heuristic.
func (s *Service) classifyTokens(ctx context.Context, snapshot *domain.WalletSnapshot, cache *metadataCache, walletTokens map[string]rugcheck.WalletToken) {
	if len(snapshot.Tokens) == 0 {
		return
	}

	mints := make([]string, len(snapshot.Tokens))
	for i, t := range snapshot.Tokens {
		mints[i] = t.Mint
	}

	results := s.tokenBatch.Run(ctx, mints, func(ctx context.Context, mint string) (rugcheck.TokenReport, error) {
		return s.reports.TokenReport(ctx, mint)
	})

	for i, res := range results {
		var signals []domain.RiskSignal
		if res.Err == nil {
			signals = append(signals, res.Value.Signal())
		} else {
			slog.Debug("token report unavailable", "mint", res.Item, "error", res.Err)
		}
		if wt, ok := walletTokens[res.Item]; ok {
			signals = append(signals, domain.RiskSignal{
				Source: domain.SourceWalletScan,
				Level:  domain.BucketFromLevel(wt.RiskLevel),
			})
		}

		c := risk.Classify(signals, cache.get(res.Item))
		snapshot.Tokens[i].Classification = &c
	}
}

// classifyNFTs runs the per-NFT risk scans in batches and classifies each.
func (s *Service) classifyNFTs(ctx context.Context, snapshot *domain.WalletSnapshot) {
	if len(snapshot.NFTs) == 0 {
		return
	}

	ids := make([]string, len(snapshot.NFTs))
	for i, n := range snapshot.NFTs {
		ids[i] = n.ID
	}

	results := s.nftBatch.Run(ctx, ids, func(ctx context.Context, id string) (webacy.RiskScan, error) {
		return s.risk.AssetRisk(ctx, id)
	})

	for i, res := range results {
		var signals []domain.RiskSignal
		if res.Err == nil {
			signals = append(signals, res.Value.Signal())
		} else {
			slog.Debug("nft risk scan unavailable", "id", res.Item, "error", res.Err)
		}

		c := risk.Classify(signals, nil)
		snapshot.NFTs[i].Classification = &c
	}
}
