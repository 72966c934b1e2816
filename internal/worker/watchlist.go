// Package worker runs the background loops of the service.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/doxxscan/walletscan/internal/domain"
	"github.com/doxxscan/walletscan/internal/report"
)

// ReportGenerator scans a wallet and stores the result as a report.
type ReportGenerator interface {
	Generate(ctx context.Context, address string) (*domain.WalletSnapshot, error)
	Watchlist(ctx context.Context) ([]report.WatchEntry, error)
}

// AfterScanHook is called after each successful watchlist rescan.
type AfterScanHook interface {
	Export(ctx context.Context, snapshot *domain.WalletSnapshot) error
}

// WatchlistWorker periodically rescans every wallet on the watchlist so its
// stored report history stays current.
type WatchlistWorker struct {
	generator ReportGenerator
	interval  time.Duration
	hook      AfterScanHook // optional
}

// NewWatchlistWorker creates a new WatchlistWorker with an optional
// post-scan hook.
func NewWatchlistWorker(generator ReportGenerator, interval time.Duration, hook AfterScanHook) *WatchlistWorker {
	return &WatchlistWorker{
		generator: generator,
		interval:  interval,
		hook:      hook,
	}
}

// Run starts the worker loop. It blocks until the context is cancelled.
func (w *WatchlistWorker) Run(ctx context.Context) {
	slog.Info("WatchlistWorker: starting")

	// Rescan immediately on startup
	w.rescanAll(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("WatchlistWorker: shutting down")
			return
		case <-ticker.C:
			w.rescanAll(ctx)
		}
	}
}

// rescanAll walks the watchlist sequentially. One wallet's failure never
// stops the pass; the scan itself already rate-limits its provider calls.
func (w *WatchlistWorker) rescanAll(ctx context.Context) {
	entries, err := w.generator.Watchlist(ctx)
	if err != nil {
		slog.Error("WatchlistWorker: reading watchlist failed", "error", err)
		return
	}
	if len(entries) == 0 {
		slog.Info("WatchlistWorker: watchlist empty, nothing to do")
		return
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			return
		}
		snapshot, err := w.generator.Generate(ctx, entry.Address)
		if err != nil {
			slog.Error("WatchlistWorker: rescan failed", "address", entry.Address, "error", err)
			continue
		}
		slog.Info("WatchlistWorker: rescan completed", "address", entry.Address)
		w.runHook(ctx, snapshot)
	}
}

func (w *WatchlistWorker) runHook(ctx context.Context, snapshot *domain.WalletSnapshot) {
	if w.hook == nil {
		return
	}
	if err := w.hook.Export(ctx, snapshot); err != nil {
		slog.Error("WatchlistWorker: export hook failed", "address", snapshot.Address, "error", err)
	} else {
		slog.Info("WatchlistWorker: export hook completed", "address", snapshot.Address)
	}
}
