package storage

import (
	"sort"
	"sync"

	"github.com/shopspring/decimal"
)

// PortfolioLedger maintains one net position per (symbol, exchange) pair.
// Market value is not stored here; readers recompute it against the catalog
// price at read time.
type PortfolioLedger struct {
	mu       sync.RWMutex
	holdings map[string]Holding
}

func NewPortfolioLedger() *PortfolioLedger {
	return &PortfolioLedger{holdings: make(map[string]Holding)}
}

// Quantity returns the held quantity for an instrument, zero if none.
func (l *PortfolioLedger) Quantity(symbol, exchange string) int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.holdings[holdingKey(symbol, exchange)].Quantity
}

// Get returns the holding for an instrument, if present.
func (l *PortfolioLedger) Get(symbol, exchange string) (Holding, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	h, ok := l.holdings[holdingKey(symbol, exchange)]
	return h, ok
}

// ApplyFill applies an executed quantity to the position. signedQty is
// positive for a buy, negative for a sell.
//
// A fill against an existing position blends the average price as
// (oldQty*oldAvg + signedQty*fillPrice) / newQty for both increases and
// decreases. The negative-quantity term during a partial sell therefore
// shifts the average; the ledger does not track realized P&L separately.
// A fill that brings the quantity to exactly zero removes the holding.
func (l *PortfolioLedger) ApplyFill(symbol, exchange string, signedQty int64, fillPrice decimal.Decimal) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := holdingKey(symbol, exchange)
	existing, ok := l.holdings[key]
	if !ok {
		// Only a buy opens a position.
		if signedQty > 0 {
			l.holdings[key] = Holding{
				Symbol:       symbol,
				Exchange:     exchange,
				Quantity:     signedQty,
				AveragePrice: fillPrice,
			}
		}
		return
	}

	newQty := existing.Quantity + signedQty
	if newQty == 0 {
		delete(l.holdings, key)
		return
	}

	oldCost := decimal.NewFromInt(existing.Quantity).Mul(existing.AveragePrice)
	fillCost := decimal.NewFromInt(signedQty).Mul(fillPrice)
	avg := oldCost.Add(fillCost).Div(decimal.NewFromInt(newQty))

	l.holdings[key] = Holding{
		Symbol:       symbol,
		Exchange:     exchange,
		Quantity:     newQty,
		AveragePrice: avg,
	}
}

// List returns all holdings sorted by symbol then exchange.
func (l *PortfolioLedger) List() []Holding {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Holding, 0, len(l.holdings))
	for _, h := range l.holdings {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Symbol != out[j].Symbol {
			return out[i].Symbol < out[j].Symbol
		}
		return out[i].Exchange < out[j].Exchange
	})
	return out
}

// Len returns the number of open holdings.
func (l *PortfolioLedger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.holdings)
}
