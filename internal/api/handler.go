// Package api exposes wallet scans and stored reports over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/doxxscan/walletscan/internal/address"
	"github.com/doxxscan/walletscan/internal/domain"
	"github.com/doxxscan/walletscan/internal/report"
	"github.com/doxxscan/walletscan/internal/scan"
)

// Scanner runs live wallet scans.
type Scanner interface {
	Scan(ctx context.Context, address string, progress scan.ProgressFunc) (*domain.WalletSnapshot, error)
}

// ReportStore manages persisted reports and the watchlist.
type ReportStore interface {
	Generate(ctx context.Context, address string) (*domain.WalletSnapshot, error)
	GetLatest(ctx context.Context, address string) (*report.Report, error)
	List(ctx context.Context, address string, limit int) ([]report.Report, error)
	Watch(ctx context.Context, address, label string) error
	Unwatch(ctx context.Context, address string) error
	Watchlist(ctx context.Context) ([]report.WatchEntry, error)
}

// Handler provides the HTTP endpoints of the wallet scanning API.
type Handler struct {
	scanner Scanner
	reports ReportStore
}

// NewHandler creates a new API handler.
func NewHandler(scanner Scanner, reports ReportStore) *Handler {
	return &Handler{scanner: scanner, reports: reports}
}

// wallet extracts and validates the address path segment. A reported failure
// has already been written to the response.
func wallet(w http.ResponseWriter, r *http.Request) (string, bool) {
	addr, err := address.Validate(r.PathValue("address"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid wallet address")
		return "", false
	}
	return addr, true
}

// ScanWallet handles GET /api/v1/scan/{address}.
func (h *Handler) ScanWallet(w http.ResponseWriter, r *http.Request) {
	addr, ok := wallet(w, r)
	if !ok {
		return
	}

	snapshot, err := h.scanner.Scan(r.Context(), addr, nil)
	if err != nil {
		if errors.Is(err, scan.ErrAllCoreSourcesFailed) {
			writeError(w, http.StatusBadGateway, "all data sources are unavailable")
			return
		}
		slog.Error("scan failed", "address", addr, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// GenerateReport handles POST /api/v1/reports/{address}.
func (h *Handler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	addr, ok := wallet(w, r)
	if !ok {
		return
	}

	snapshot, err := h.reports.Generate(r.Context(), addr)
	if err != nil {
		if errors.Is(err, scan.ErrAllCoreSourcesFailed) {
			writeError(w, http.StatusBadGateway, "all data sources are unavailable")
			return
		}
		slog.Error("report generation failed", "address", addr, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to generate report")
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// GetLatestReport handles GET /api/v1/reports/{address}/latest.
func (h *Handler) GetLatestReport(w http.ResponseWriter, r *http.Request) {
	addr, ok := wallet(w, r)
	if !ok {
		return
	}

	rep, err := h.reports.GetLatest(r.Context(), addr)
	if err != nil {
		if errors.Is(err, report.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no reports for wallet")
			return
		}
		slog.Error("failed to get latest report", "address", addr, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// ListReports handles GET /api/v1/reports/{address}.
func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	addr, ok := wallet(w, r)
	if !ok {
		return
	}

	const maxLimit = 100
	limit := 30
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = min(n, maxLimit)
		}
	}

	reports, err := h.reports.List(r.Context(), addr, limit)
	if err != nil {
		slog.Error("failed to list reports", "address", addr, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

// WatchWallet handles POST /api/v1/watchlist/{address}.
func (h *Handler) WatchWallet(w http.ResponseWriter, r *http.Request) {
	addr, ok := wallet(w, r)
	if !ok {
		return
	}

	var body struct {
		Label string `json:"label"`
	}
	if r.Body != nil {
		// An empty body means no label.
		_ = json.NewDecoder(r.Body).Decode(&body)
	}

	if err := h.reports.Watch(r.Context(), addr, body.Label); err != nil {
		slog.Error("failed to add watchlist entry", "address", addr, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"address": addr, "status": "watching"})
}

// UnwatchWallet handles DELETE /api/v1/watchlist/{address}.
func (h *Handler) UnwatchWallet(w http.ResponseWriter, r *http.Request) {
	addr, ok := wallet(w, r)
	if !ok {
		return
	}

	if err := h.reports.Unwatch(r.Context(), addr); err != nil {
		if errors.Is(err, report.ErrNotFound) {
			writeError(w, http.StatusNotFound, "wallet not on watchlist")
			return
		}
		slog.Error("failed to remove watchlist entry", "address", addr, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetWatchlist handles GET /api/v1/watchlist.
func (h *Handler) GetWatchlist(w http.ResponseWriter, r *http.Request) {
	entries, err := h.reports.Watchlist(r.Context())
	if err != nil {
		slog.Error("failed to read watchlist", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		slog.Warn("failed to write HTTP response body", "error", err)
		return
	}
	_, _ = w.Write([]byte("\n"))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
