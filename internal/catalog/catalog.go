// Package catalog holds the static instrument catalog. It is populated once
// at startup and read-only afterwards; the engine treats its last traded
// prices as the reference prices for execution decisions.
package catalog

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/shreyachouhan03/tradingapi/internal/storage"
)

// Catalog maps (symbol, exchange) to instrument metadata.
type Catalog struct {
	instruments map[string]storage.Instrument
}

// New builds a catalog from the given instruments. A later entry with the
// same (symbol, exchange) replaces an earlier one.
func New(instruments []storage.Instrument) *Catalog {
	c := &Catalog{instruments: make(map[string]storage.Instrument, len(instruments))}
	for _, inst := range instruments {
		c.instruments[key(inst.Symbol, inst.Exchange)] = inst
	}
	return c
}

// Default returns the built-in NSE equity catalog used when no instruments
// are configured.
func Default() *Catalog {
	return New([]storage.Instrument{
		equity("RELIANCE", "2450.50"),
		equity("TCS", "3450.75"),
		equity("INFY", "1450.25"),
		equity("HDFCBANK", "1650.00"),
		equity("ICICIBANK", "950.50"),
		equity("BHARTIARTL", "1050.00"),
		equity("SBIN", "550.25"),
		equity("WIPRO", "450.75"),
	})
}

// Get returns the instrument for (symbol, exchange).
func (c *Catalog) Get(symbol, exchange string) (storage.Instrument, bool) {
	inst, ok := c.instruments[key(symbol, exchange)]
	return inst, ok
}

// List returns all instruments sorted by symbol then exchange.
func (c *Catalog) List() []storage.Instrument {
	out := make([]storage.Instrument, 0, len(c.instruments))
	for _, inst := range c.instruments {
		out = append(out, inst)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Symbol != out[j].Symbol {
			return out[i].Symbol < out[j].Symbol
		}
		return out[i].Exchange < out[j].Exchange
	})
	return out
}

// Len returns the number of listed instruments.
func (c *Catalog) Len() int {
	return len(c.instruments)
}

func key(symbol, exchange string) string {
	return symbol + ":" + exchange
}

func equity(symbol, price string) storage.Instrument {
	return storage.Instrument{
		Symbol:          symbol,
		Exchange:        "NSE",
		Type:            storage.InstrumentTypeEquity,
		LastTradedPrice: decimal.RequireFromString(price),
	}
}
