package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	HeliusAPIURL string
	HeliusRPCURL string
	HeliusAPIKey string

	RugCheckURL    string
	RugCheckAPIKey string

	WebacyURL    string
	WebacyAPIKey string
	WebacyChain  string

	CoinGeckoURL    string
	CoinGeckoAPIKey string

	SolanaFMURL string

	ProviderTimeout  time.Duration
	TransactionLimit int
	AssetLimit       int
	RiskBatchSize    int
	RiskBatchDelay   time.Duration

	DatabaseURL           string
	HTTPPort              string
	APIAuthToken          string
	WatchlistScanInterval time.Duration

	SheetsCredentialsFile string
	SheetsSpreadsheetID   string
}

// Load reads configuration from environment variables with sensible defaults.
// API keys have no defaults; providers that require one fail at call time
// when the key is missing.
func Load() Config {
	return Config{
		HeliusAPIURL: envOrDefault("HELIUS_API_URL", "https://api.helius.xyz"),
		HeliusRPCURL: envOrDefault("HELIUS_RPC_URL", "https://mainnet.helius-rpc.com"),
		HeliusAPIKey: envOrDefaultWarn("HELIUS_API_KEY", ""),

		RugCheckURL:    envOrDefault("RUGCHECK_URL", "https://api.rugcheck.xyz"),
		RugCheckAPIKey: envOrDefault("RUGCHECK_API_KEY", ""),

		WebacyURL:    envOrDefault("WEBACY_URL", "https://api.webacy.com"),
		WebacyAPIKey: envOrDefaultWarn("WEBACY_API_KEY", ""),
		WebacyChain:  envOrDefault("WEBACY_CHAIN", "sol"),

		CoinGeckoURL:    envOrDefault("COINGECKO_URL", "https://api.coingecko.com/api/v3"),
		CoinGeckoAPIKey: envOrDefault("COINGECKO_API_KEY", ""),

		SolanaFMURL: envOrDefault("SOLANAFM_URL", "https://api.solana.fm"),

		ProviderTimeout:  envOrDefaultDuration("PROVIDER_TIMEOUT", 30*time.Second),
		TransactionLimit: envOrDefaultInt("TRANSACTION_LIMIT", 10),
		AssetLimit:       envOrDefaultInt("ASSET_LIMIT", 50),
		RiskBatchSize:    envOrDefaultInt("RISK_BATCH_SIZE", 5),
		RiskBatchDelay:   envOrDefaultDuration("RISK_BATCH_DELAY", 500*time.Millisecond),

		DatabaseURL:           envOrDefaultWarn("DATABASE_URL", ""),
		HTTPPort:              envOrDefault("HTTP_PORT", "8080"),
		APIAuthToken:          envOrDefault("API_AUTH_TOKEN", ""),
		WatchlistScanInterval: envOrDefaultDuration("WATCHLIST_SCAN_INTERVAL", 6*time.Hour),

		SheetsCredentialsFile: envOrDefault("SHEETS_CREDENTIALS_FILE", ""),
		SheetsSpreadsheetID:   envOrDefault("SHEETS_SPREADSHEET_ID", ""),
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envOrDefaultWarn(key, defaultVal string) string {
	v := envOrDefault(key, defaultVal)
	if v == "" {
		slog.Warn("required env var not set", "key", key)
	}
	return v
}

func envOrDefaultInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			slog.Warn("invalid integer env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return n
	}
	return defaultVal
}

func envOrDefaultDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return d
	}
	return defaultVal
}
