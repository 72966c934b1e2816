package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	// Clear any env vars that might affect defaults
	for _, key := range []string{"HELIUS_API_URL", "COINGECKO_URL", "DATABASE_URL", "HTTP_PORT", "RISK_BATCH_SIZE", "WEBACY_CHAIN"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := Load()

	if cfg.HeliusAPIURL != "https://api.helius.xyz" {
		t.Errorf("HeliusAPIURL = %q, want default", cfg.HeliusAPIURL)
	}
	if cfg.CoinGeckoURL != "https://api.coingecko.com/api/v3" {
		t.Errorf("CoinGeckoURL = %q, want default", cfg.CoinGeckoURL)
	}
	if cfg.DatabaseURL != "" {
		t.Errorf("DatabaseURL = %q, want empty", cfg.DatabaseURL)
	}
	if cfg.WebacyChain != "sol" {
		t.Errorf("WebacyChain = %q, want sol", cfg.WebacyChain)
	}
	if cfg.RiskBatchSize != 5 {
		t.Errorf("RiskBatchSize = %d, want 5", cfg.RiskBatchSize)
	}
	if cfg.RiskBatchDelay != 500*time.Millisecond {
		t.Errorf("RiskBatchDelay = %v, want 500ms", cfg.RiskBatchDelay)
	}
	if cfg.HTTPPort != "8080" {
		t.Errorf("HTTPPort = %q, want 8080", cfg.HTTPPort)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("HELIUS_API_URL", "https://helius.example.com")
	t.Setenv("DATABASE_URL", "postgres://localhost/testdb")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("RISK_BATCH_SIZE", "10")
	t.Setenv("RISK_BATCH_DELAY", "2s")

	cfg := Load()

	if cfg.HeliusAPIURL != "https://helius.example.com" {
		t.Errorf("HeliusAPIURL = %q, want override", cfg.HeliusAPIURL)
	}
	if cfg.DatabaseURL != "postgres://localhost/testdb" {
		t.Errorf("DatabaseURL = %q, want override", cfg.DatabaseURL)
	}
	if cfg.HTTPPort != "9090" {
		t.Errorf("HTTPPort = %q, want 9090", cfg.HTTPPort)
	}
	if cfg.RiskBatchSize != 10 {
		t.Errorf("RiskBatchSize = %d, want 10", cfg.RiskBatchSize)
	}
	if cfg.RiskBatchDelay != 2*time.Second {
		t.Errorf("RiskBatchDelay = %v, want 2s", cfg.RiskBatchDelay)
	}
}

func TestLoadInvalidEnvFallsBackToDefault(t *testing.T) {
	t.Setenv("RISK_BATCH_SIZE", "not-a-number")
	t.Setenv("RISK_BATCH_DELAY", "invalid-duration")

	cfg := Load()

	if cfg.RiskBatchSize != 5 {
		t.Errorf("RiskBatchSize = %d, want default 5 on invalid input", cfg.RiskBatchSize)
	}
	if cfg.RiskBatchDelay != 500*time.Millisecond {
		t.Errorf("RiskBatchDelay = %v, want default 500ms on invalid input", cfg.RiskBatchDelay)
	}
}
