package main

import (
	"context"
	"embed"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/doxxscan/walletscan/internal/api"
	"github.com/doxxscan/walletscan/internal/coingecko"
	"github.com/doxxscan/walletscan/internal/config"
	"github.com/doxxscan/walletscan/internal/database"
	"github.com/doxxscan/walletscan/internal/export"
	"github.com/doxxscan/walletscan/internal/helius"
	"github.com/doxxscan/walletscan/internal/report"
	"github.com/doxxscan/walletscan/internal/rugcheck"
	"github.com/doxxscan/walletscan/internal/scan"
	"github.com/doxxscan/walletscan/internal/solanafm"
	"github.com/doxxscan/walletscan/internal/webacy"
	"github.com/doxxscan/walletscan/internal/worker"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not load .env file", "error", err)
	}

	cfg := config.Load()

	// Connect to database
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Run migrations
	migrationsSub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		log.Fatalf("Failed to create migrations sub-fs: %v", err)
	}
	if err := database.Migrate(ctx, pool, migrationsSub); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Provider clients
	heliusClient := helius.NewClient(cfg.HeliusAPIURL, cfg.HeliusRPCURL, cfg.HeliusAPIKey, cfg.ProviderTimeout)
	marketClient := coingecko.NewClient(cfg.CoinGeckoURL, cfg.CoinGeckoAPIKey, cfg.ProviderTimeout)
	riskClient := webacy.NewClient(cfg.WebacyURL, cfg.WebacyAPIKey, cfg.WebacyChain, cfg.ProviderTimeout)
	reportClient := rugcheck.NewClient(cfg.RugCheckURL, cfg.RugCheckAPIKey, cfg.ProviderTimeout)
	domainClient := solanafm.NewClient(cfg.SolanaFMURL, cfg.ProviderTimeout)

	// Scan orchestrator
	scanSvc := scan.NewService(heliusClient, marketClient, riskClient, reportClient, domainClient, scan.Options{
		TransactionLimit: cfg.TransactionLimit,
		AssetLimit:       cfg.AssetLimit,
		RiskBatchSize:    cfg.RiskBatchSize,
		RiskBatchDelay:   cfg.RiskBatchDelay,
	})

	// Report service
	reportRepo := report.NewPgRepository(pool)
	reportSvc := report.NewService(scanSvc, reportRepo)

	// Optional sheets export hook for watchlist rescans
	var hook worker.AfterScanHook
	if cfg.SheetsCredentialsFile != "" && cfg.SheetsSpreadsheetID != "" {
		creds, err := os.ReadFile(cfg.SheetsCredentialsFile)
		if err != nil {
			log.Fatalf("Failed to read sheets credentials: %v", err)
		}
		writer, err := export.NewSheetsWriter(ctx, cfg.SheetsSpreadsheetID, creds)
		if err != nil {
			log.Fatalf("Failed to create sheets writer: %v", err)
		}
		hook = export.NewService(writer)
	}

	// Start the watchlist rescan worker
	watchlistWorker := worker.NewWatchlistWorker(reportSvc, cfg.WatchlistScanInterval, hook)
	go watchlistWorker.Run(ctx)

	if cfg.APIAuthToken == "" {
		slog.Warn("API_AUTH_TOKEN not set, mutating endpoints are unprotected")
	}

	// Start HTTP server
	srv := api.NewServer(cfg.HTTPPort, scanSvc, reportSvc, cfg.APIAuthToken)

	go func() {
		log.Printf("HTTP server listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("HTTP server error: %v", err)
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("Shutdown complete")
}
