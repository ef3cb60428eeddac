// Package config loads the trading service configuration: the shared app
// settings plus the auth token, execution tuning, and the instrument seed
// list for the catalog.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/shreyachouhan03/tradingapi/internal/storage"
	base "github.com/shreyachouhan03/tradingapi/libs/config"
)

type InstrumentConfig struct {
	Symbol          string `mapstructure:"symbol"`
	Exchange        string `mapstructure:"exchange"`
	Type            string `mapstructure:"type"`
	LastTradedPrice string `mapstructure:"last_traded_price"`
}

type Config struct {
	App               base.AppConfig
	AuthToken         string
	CallerID          string
	MarketSlippageBps int
	Instruments       []InstrumentConfig
}

// Load reads configuration from the file named by TRD_CONFIG (default
// config.yaml) with environment overrides.
func Load() (*Config, error) {
	appCfg, err := base.Load(os.Getenv("TRD_CONFIG"))
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix("TRD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := os.Getenv("TRD_CONFIG")
	if path == "" {
		path = "config.yaml"
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetDefault("auth_token", "")
	v.SetDefault("caller_id", "user_12345")
	v.SetDefault("market_slippage_bps", 10)

	var instruments []InstrumentConfig
	if err := v.UnmarshalKey("catalog.instruments", &instruments); err != nil {
		return nil, fmt.Errorf("unmarshal catalog.instruments: %w", err)
	}

	cfg := &Config{
		App:               *appCfg,
		AuthToken:         envString("AUTH_TOKEN", v.GetString("auth_token")),
		CallerID:          envString("CALLER_ID", v.GetString("caller_id")),
		MarketSlippageBps: envInt("MARKET_SLIPPAGE_BPS", v.GetInt("market_slippage_bps")),
		Instruments:       instruments,
	}

	if cfg.AuthToken == "" {
		return nil, fmt.Errorf("auth_token required")
	}
	if cfg.CallerID == "" {
		return nil, fmt.Errorf("caller_id required")
	}
	if cfg.MarketSlippageBps < 0 {
		return nil, fmt.Errorf("market_slippage_bps must be non-negative")
	}

	return cfg, nil
}

// CatalogInstruments parses the configured instrument list. An empty list
// means the caller should fall back to the built-in catalog.
func (c *Config) CatalogInstruments() ([]storage.Instrument, error) {
	out := make([]storage.Instrument, 0, len(c.Instruments))
	for i, ic := range c.Instruments {
		symbol := strings.ToUpper(strings.TrimSpace(ic.Symbol))
		exchange := strings.ToUpper(strings.TrimSpace(ic.Exchange))
		if symbol == "" || exchange == "" {
			return nil, fmt.Errorf("catalog.instruments[%d]: symbol and exchange required", i)
		}

		instType := strings.ToUpper(strings.TrimSpace(ic.Type))
		switch instType {
		case storage.InstrumentTypeEquity, storage.InstrumentTypeFutures, storage.InstrumentTypeOptions:
		default:
			return nil, fmt.Errorf("catalog.instruments[%d]: unknown type %q", i, ic.Type)
		}

		price, err := decimal.NewFromString(strings.TrimSpace(ic.LastTradedPrice))
		if err != nil {
			return nil, fmt.Errorf("catalog.instruments[%d]: invalid last_traded_price: %w", i, err)
		}
		if price.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("catalog.instruments[%d]: last_traded_price must be positive", i)
		}

		out = append(out, storage.Instrument{
			Symbol:          symbol,
			Exchange:        exchange,
			Type:            instType,
			LastTradedPrice: price,
		})
	}
	return out, nil
}

func envString(key, def string) string {
	if v := os.Getenv("TRD_" + key); v != "" {
		return v
	}
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv("TRD_" + key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
