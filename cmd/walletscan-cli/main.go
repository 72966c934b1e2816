// Command walletscan-cli runs one-off wallet scans from the terminal,
// without the server or a database.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/doxxscan/walletscan/internal/address"
	"github.com/doxxscan/walletscan/internal/coingecko"
	"github.com/doxxscan/walletscan/internal/config"
	"github.com/doxxscan/walletscan/internal/domain"
	"github.com/doxxscan/walletscan/internal/export"
	"github.com/doxxscan/walletscan/internal/helius"
	"github.com/doxxscan/walletscan/internal/rugcheck"
	"github.com/doxxscan/walletscan/internal/scan"
	"github.com/doxxscan/walletscan/internal/solanafm"
	"github.com/doxxscan/walletscan/internal/webacy"
)

func main() {
	app := &cli.App{
		Name:  "walletscan-cli",
		Usage: "scan a Solana wallet for risk and portfolio data",
		Commands: []*cli.Command{
			{
				Name:      "scan",
				Usage:     "run a full scan of one wallet address",
				ArgsUsage: "<address>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "print the full snapshot as JSON",
					},
					&cli.StringFlag{
						Name:  "xlsx",
						Usage: "write the report to an .xlsx workbook at `PATH`",
					},
					&cli.IntFlag{
						Name:  "tx-limit",
						Usage: "number of recent transactions to fetch",
					},
				},
				Action: runScan,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runScan(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: walletscan-cli scan <address>", 2)
	}
	addr, err := address.Validate(c.Args().First())
	if err != nil {
		return cli.Exit(fmt.Sprintf("invalid address: %v", err), 2)
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not load .env file", "error", err)
	}
	cfg := config.Load()

	svc := scan.NewService(
		helius.NewClient(cfg.HeliusAPIURL, cfg.HeliusRPCURL, cfg.HeliusAPIKey, cfg.ProviderTimeout),
		coingecko.NewClient(cfg.CoinGeckoURL, cfg.CoinGeckoAPIKey, cfg.ProviderTimeout),
		webacy.NewClient(cfg.WebacyURL, cfg.WebacyAPIKey, cfg.WebacyChain, cfg.ProviderTimeout),
		rugcheck.NewClient(cfg.RugCheckURL, cfg.RugCheckAPIKey, cfg.ProviderTimeout),
		solanafm.NewClient(cfg.SolanaFMURL, cfg.ProviderTimeout),
		scan.Options{
			TransactionLimit: c.Int("tx-limit"),
			AssetLimit:       cfg.AssetLimit,
			RiskBatchSize:    cfg.RiskBatchSize,
			RiskBatchDelay:   cfg.RiskBatchDelay,
		},
	)

	progress := func(section domain.Section, err error) {
		if err != nil {
			fmt.Fprintf(os.Stderr, "  %-13s failed: %v\n", section, err)
			return
		}
		fmt.Fprintf(os.Stderr, "  %-13s ok\n", section)
	}

	fmt.Fprintf(os.Stderr, "scanning %s...\n", addr)
	snapshot, err := svc.Scan(context.Background(), addr, progress)
	if err != nil {
		return cli.Exit(fmt.Sprintf("scan failed: %v", err), 1)
	}

	if path := c.String("xlsx"); path != "" {
		writer := export.NewXLSXWriter(path)
		if err := writer.Write(c.Context, addr, export.BuildTables(snapshot)); err != nil {
			return cli.Exit(fmt.Sprintf("writing workbook: %v", err), 1)
		}
		fmt.Fprintf(os.Stderr, "report written to %s\n", path)
	}

	if c.Bool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snapshot)
	}

	printSummary(snapshot)
	return nil
}

func printSummary(s *domain.WalletSnapshot) {
	fmt.Printf("Wallet %s\n", s.Address)
	fmt.Printf("  SOL balance:     %s\n", domain.LamportsToSOL(s.NativeBalance))
	if s.SOLPriceUSD != nil {
		fmt.Printf("  SOL price:       $%s\n", s.SOLPriceUSD)
	}
	fmt.Printf("  Portfolio value: $%s\n", s.PortfolioValueUSD)
	fmt.Printf("  Sanctions:       %s\n", s.SanctionStatus)
	if len(s.Domains) > 0 {
		fmt.Printf("  Domains:        ")
		for _, d := range s.Domains {
			fmt.Printf(" %s", d.Name)
		}
		fmt.Println()
	}

	fmt.Printf("  Tokens (%d):\n", len(s.Tokens))
	for _, bucket := range domain.Buckets() {
		total, ok := s.BucketTotals[bucket]
		if !ok || total.Count == 0 {
			continue
		}
		fmt.Printf("    %-8s %3d  $%s\n", bucket, total.Count, total.ValueUSD)
	}

	if len(s.Errors) > 0 {
		fmt.Printf("  Degraded sections:\n")
		for _, e := range s.Errors {
			fmt.Printf("    %s: %s\n", e.Section, e.Message)
		}
	}
}
