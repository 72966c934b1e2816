// Package report persists wallet scan results so the dashboard can show how
// a wallet's risk profile changed between visits.
package report

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/doxxscan/walletscan/internal/domain"
	"github.com/doxxscan/walletscan/internal/scan"
)

// Scanner produces a fresh wallet snapshot.
type Scanner interface {
	Scan(ctx context.Context, address string, progress scan.ProgressFunc) (*domain.WalletSnapshot, error)
}

// Service manages report generation and retrieval.
type Service struct {
	scanner Scanner
	repo    Repository
}

// NewService creates a report Service.
func NewService(scanner Scanner, repo Repository) *Service {
	if scanner == nil {
		panic("report.NewService: scanner is nil")
	}
	if repo == nil {
		panic("report.NewService: repo is nil")
	}
	return &Service{scanner: scanner, repo: repo}
}

// Generate scans the wallet and stores the snapshot as a new report.
func (s *Service) Generate(ctx context.Context, address string) (*domain.WalletSnapshot, error) {
	snapshot, err := s.scanner.Scan(ctx, address, nil)
	if err != nil {
		return nil, fmt.Errorf("scanning wallet: %w", err)
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("marshaling snapshot: %w", err)
	}

	if err := s.repo.Save(ctx, address, data); err != nil {
		return nil, fmt.Errorf("saving report: %w", err)
	}

	return snapshot, nil
}

// GetLatest retrieves the most recent report for the wallet.
func (s *Service) GetLatest(ctx context.Context, address string) (*Report, error) {
	return s.repo.GetLatest(ctx, address)
}

// List retrieves recent reports for the wallet, newest first.
func (s *Service) List(ctx context.Context, address string, limit int) ([]Report, error) {
	return s.repo.List(ctx, address, limit)
}

// Watch adds the wallet to the periodic rescan watchlist.
func (s *Service) Watch(ctx context.Context, address, label string) error {
	return s.repo.Watch(ctx, address, label)
}

// Unwatch removes the wallet from the watchlist.
func (s *Service) Unwatch(ctx context.Context, address string) error {
	return s.repo.Unwatch(ctx, address)
}

// Watchlist lists the wallets scheduled for periodic rescans.
func (s *Service) Watchlist(ctx context.Context) ([]WatchEntry, error) {
	return s.repo.Watchlist(ctx)
}
