package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"
)

// NewServer creates an HTTP server with all routes configured. Mutating
// routes require the API token when one is set; read routes are open.
func NewServer(port string, scanner Scanner, reports ReportStore, apiToken string) *http.Server {
	handler := NewHandler(scanner, reports)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/scan/{address}", handler.ScanWallet)
	mux.HandleFunc("GET /api/v1/scan/{address}/stream", handler.StreamScan)
	mux.HandleFunc("GET /api/v1/reports/{address}/latest", handler.GetLatestReport)
	mux.HandleFunc("GET /api/v1/reports/{address}", handler.ListReports)
	mux.HandleFunc("GET /api/v1/watchlist", handler.GetWatchlist)

	protect := func(h http.HandlerFunc) http.Handler {
		if apiToken == "" {
			return h
		}
		return requireAuth(apiToken, h)
	}
	mux.Handle("POST /api/v1/reports/{address}", protect(handler.GenerateReport))
	mux.Handle("POST /api/v1/watchlist/{address}", protect(handler.WatchWallet))
	mux.Handle("DELETE /api/v1/watchlist/{address}", protect(handler.UnwatchWallet))

	return &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func requireAuth(apiToken string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		token := strings.TrimPrefix(auth, "Bearer ")
		if !strings.HasPrefix(auth, "Bearer ") || subtle.ConstantTimeCompare([]byte(token), []byte(apiToken)) != 1 {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
