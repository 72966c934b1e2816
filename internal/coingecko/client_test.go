package coingecko

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/doxxscan/walletscan/internal/provider"
)

func TestSolanaPrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/coins/solana" {
			t.Errorf("path = %q, want /coins/solana", r.URL.Path)
		}
		w.Write([]byte(`{"market_data": {"current_price": {"usd": 142.33}, "price_change_percentage_24h": -1.2}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", time.Second)
	price, err := client.SolanaPrice(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if price.USD != 142.33 {
		t.Errorf("price = %v, want 142.33", price.USD)
	}
	if price.Change24h != -1.2 {
		t.Errorf("change24h = %v, want -1.2", price.Change24h)
	}
}

func TestSolanaPriceMissingMarketData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": "solana"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", time.Second)
	_, err := client.SolanaPrice(context.Background())

	var pe *provider.Error
	if !errors.As(err, &pe) || pe.Kind != provider.KindMalformed {
		t.Errorf("error = %v, want provider malformed", err)
	}
}

func TestTokenMetadataKeysByMint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/coins/list":
			w.Write([]byte(`[
				{"id": "bonk", "symbol": "bonk", "name": "Bonk", "platforms": {"solana": "MintBonk"}},
				{"id": "ether", "symbol": "eth", "name": "Ethereum", "platforms": {"ethereum": "0xabc"}}
			]`))
		case "/coins/markets":
			w.Write([]byte(`[
				{"id": "bonk", "symbol": "bonk", "name": "Bonk", "image": "http://img/bonk.png",
				 "current_price": 0.000025, "price_change_percentage_24h": 3.4}
			]`))
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "", time.Second)
	meta, err := client.TokenMetadata(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m, ok := meta["MintBonk"]
	if !ok {
		t.Fatalf("metadata map = %v, want entry for MintBonk", meta)
	}
	if m.Name != "Bonk" || m.PriceUSD == nil {
		t.Errorf("metadata = %+v, want Bonk with known price", m)
	}
	if _, ok := meta["0xabc"]; ok {
		t.Error("non-Solana coin leaked into metadata map")
	}
}
