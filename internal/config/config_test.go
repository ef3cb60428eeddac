package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfigFile(t, `
service_name: trading-api
env: test
log_level: debug
auth_token: file-token
caller_id: user_99999
market_slippage_bps: 25
catalog:
  instruments:
    - symbol: reliance
      exchange: nse
      type: equity
      last_traded_price: "2450.50"
    - symbol: TCS
      exchange: NSE
      type: EQUITY
      last_traded_price: "3450.75"
`)
	t.Setenv("TRD_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AuthToken != "file-token" {
		t.Fatalf("auth token = %q", cfg.AuthToken)
	}
	if cfg.CallerID != "user_99999" {
		t.Fatalf("caller id = %q", cfg.CallerID)
	}
	if cfg.MarketSlippageBps != 25 {
		t.Fatalf("slippage = %d, want 25", cfg.MarketSlippageBps)
	}

	instruments, err := cfg.CatalogInstruments()
	if err != nil {
		t.Fatalf("CatalogInstruments: %v", err)
	}
	if len(instruments) != 2 {
		t.Fatalf("instruments = %d, want 2", len(instruments))
	}
	if instruments[0].Symbol != "RELIANCE" || instruments[0].Exchange != "NSE" {
		t.Fatalf("symbol/exchange not normalized: %+v", instruments[0])
	}
	if !instruments[0].LastTradedPrice.Equal(decimal.RequireFromString("2450.50")) {
		t.Fatalf("ltp = %s", instruments[0].LastTradedPrice)
	}
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfigFile(t, "auth_token: some-token\n")
	t.Setenv("TRD_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CallerID != "user_12345" {
		t.Fatalf("default caller id = %q", cfg.CallerID)
	}
	if cfg.MarketSlippageBps != 10 {
		t.Fatalf("default slippage = %d, want 10", cfg.MarketSlippageBps)
	}
	if len(cfg.Instruments) != 0 {
		t.Fatalf("expected no configured instruments, got %d", len(cfg.Instruments))
	}
}

func TestLoadRequiresAuthToken(t *testing.T) {
	path := writeConfigFile(t, "service_name: trading-api\n")
	t.Setenv("TRD_CONFIG", path)

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "auth_token") {
		t.Fatalf("expected auth_token error, got %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfigFile(t, "auth_token: file-token\nmarket_slippage_bps: 10\n")
	t.Setenv("TRD_CONFIG", path)
	t.Setenv("TRD_AUTH_TOKEN", "env-token")
	t.Setenv("TRD_MARKET_SLIPPAGE_BPS", "50")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AuthToken != "env-token" {
		t.Fatalf("auth token = %q, want env override", cfg.AuthToken)
	}
	if cfg.MarketSlippageBps != 50 {
		t.Fatalf("slippage = %d, want 50", cfg.MarketSlippageBps)
	}
}

func TestCatalogInstrumentsValidation(t *testing.T) {
	cases := []struct {
		name string
		inst InstrumentConfig
	}{
		{"missing symbol", InstrumentConfig{Exchange: "NSE", Type: "EQUITY", LastTradedPrice: "100"}},
		{"missing exchange", InstrumentConfig{Symbol: "TCS", Type: "EQUITY", LastTradedPrice: "100"}},
		{"unknown type", InstrumentConfig{Symbol: "TCS", Exchange: "NSE", Type: "BOND", LastTradedPrice: "100"}},
		{"bad price", InstrumentConfig{Symbol: "TCS", Exchange: "NSE", Type: "EQUITY", LastTradedPrice: "abc"}},
		{"zero price", InstrumentConfig{Symbol: "TCS", Exchange: "NSE", Type: "EQUITY", LastTradedPrice: "0"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{Instruments: []InstrumentConfig{tc.inst}}
			if _, err := cfg.CatalogInstruments(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
