package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/doxxscan/walletscan/internal/domain"
	"github.com/doxxscan/walletscan/internal/report"
	"github.com/doxxscan/walletscan/internal/scan"
)

// validAddr is a well-formed base58 Solana address for route tests.
const validAddr = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"

type stubScanner struct {
	snapshot *domain.WalletSnapshot
	err      error
}

func (s *stubScanner) Scan(_ context.Context, address string, progress scan.ProgressFunc) (*domain.WalletSnapshot, error) {
	if s.err != nil {
		return nil, s.err
	}
	if progress != nil {
		progress(domain.SectionBalances, nil)
	}
	if s.snapshot != nil {
		return s.snapshot, nil
	}
	return &domain.WalletSnapshot{Address: address}, nil
}

type stubReports struct {
	latest      *report.Report
	latestErr   error
	list        []report.Report
	generateErr error
	unwatchErr  error
	watched     []string
	entries     []report.WatchEntry
}

func (s *stubReports) Generate(_ context.Context, address string) (*domain.WalletSnapshot, error) {
	if s.generateErr != nil {
		return nil, s.generateErr
	}
	return &domain.WalletSnapshot{Address: address}, nil
}

func (s *stubReports) GetLatest(_ context.Context, _ string) (*report.Report, error) {
	if s.latestErr != nil {
		return nil, s.latestErr
	}
	return s.latest, nil
}

func (s *stubReports) List(_ context.Context, _ string, _ int) ([]report.Report, error) {
	return s.list, nil
}

func (s *stubReports) Watch(_ context.Context, address, _ string) error {
	s.watched = append(s.watched, address)
	return nil
}

func (s *stubReports) Unwatch(_ context.Context, _ string) error {
	return s.unwatchErr
}

func (s *stubReports) Watchlist(_ context.Context) ([]report.WatchEntry, error) {
	return s.entries, nil
}

func newTestServer(t *testing.T, scanner Scanner, reports ReportStore, token string) *httptest.Server {
	t.Helper()
	srv := NewServer("0", scanner, reports, token)
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func TestScanWallet(t *testing.T) {
	ts := newTestServer(t, &stubScanner{}, &stubReports{}, "")

	resp, err := http.Get(ts.URL + "/api/v1/scan/" + validAddr)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var snapshot domain.WalletSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		t.Fatal(err)
	}
	if snapshot.Address != validAddr {
		t.Errorf("address = %q, want %q", snapshot.Address, validAddr)
	}
}

func TestScanWalletInvalidAddress(t *testing.T) {
	ts := newTestServer(t, &stubScanner{}, &stubReports{}, "")

	resp, err := http.Get(ts.URL + "/api/v1/scan/not-an-address")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestScanWalletAllSourcesDown(t *testing.T) {
	ts := newTestServer(t, &stubScanner{err: scan.ErrAllCoreSourcesFailed}, &stubReports{}, "")

	resp, err := http.Get(ts.URL + "/api/v1/scan/" + validAddr)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", resp.StatusCode)
	}
}

func TestGetLatestReportNotFound(t *testing.T) {
	ts := newTestServer(t, &stubScanner{}, &stubReports{latestErr: report.ErrNotFound}, "")

	resp, err := http.Get(ts.URL + "/api/v1/reports/" + validAddr + "/latest")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestGenerateReportRequiresAuth(t *testing.T) {
	reports := &stubReports{}
	ts := newTestServer(t, &stubScanner{}, reports, "secret")

	resp, err := http.Post(ts.URL+"/api/v1/reports/"+validAddr, "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status without token = %d, want 401", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/api/v1/reports/"+validAddr, nil)
	req.Header.Set("Authorization", "Bearer secret")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status with token = %d, want 200", resp.StatusCode)
	}
}

func TestWatchAndUnwatch(t *testing.T) {
	reports := &stubReports{}
	ts := newTestServer(t, &stubScanner{}, reports, "")

	resp, err := http.Post(ts.URL+"/api/v1/watchlist/"+validAddr, "application/json",
		strings.NewReader(`{"label":"treasury"}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("watch status = %d, want 200", resp.StatusCode)
	}
	if len(reports.watched) != 1 || reports.watched[0] != validAddr {
		t.Errorf("watched = %v, want [%s]", reports.watched, validAddr)
	}

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/v1/watchlist/"+validAddr, nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("unwatch status = %d, want 204", resp.StatusCode)
	}
}

func TestUnwatchNotFound(t *testing.T) {
	ts := newTestServer(t, &stubScanner{}, &stubReports{unwatchErr: report.ErrNotFound}, "")

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/v1/watchlist/"+validAddr, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestStreamScan(t *testing.T) {
	ts := newTestServer(t, &stubScanner{}, &stubReports{}, "")

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/scan/" + validAddr + "/stream"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()
	defer resp.Body.Close()

	var sawSection, sawSnapshot bool
	for !sawSnapshot {
		var event scanEvent
		if err := conn.ReadJSON(&event); err != nil {
			t.Fatalf("reading event: %v", err)
		}
		switch event.Type {
		case "section":
			sawSection = true
		case "snapshot":
			sawSnapshot = true
			if event.Data == nil || event.Data.Address != validAddr {
				t.Errorf("snapshot event data = %+v, want address %s", event.Data, validAddr)
			}
		case "error":
			t.Fatalf("unexpected error event: %s", event.Error)
		}
	}
	if !sawSection {
		t.Error("no section event before the final snapshot")
	}
}
