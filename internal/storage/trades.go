package storage

import (
	"sort"
	"sync"
)

// TradeLedger is the append-only record of executed trades.
type TradeLedger struct {
	mu     sync.RWMutex
	trades []Trade
}

func NewTradeLedger() *TradeLedger {
	return &TradeLedger{trades: make([]Trade, 0, 64)}
}

// Append records a trade. Trades are never edited or removed.
func (l *TradeLedger) Append(trade Trade) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.trades = append(l.trades, trade)
}

// List returns all trades ordered by execution time, most recent first.
// The sort is stable, so trades sharing a timestamp keep insertion order.
func (l *TradeLedger) List() []Trade {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Trade, len(l.trades))
	copy(out, l.trades)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ExecutedAt.After(out[j].ExecutedAt)
	})
	return out
}

// Len returns the number of recorded trades.
func (l *TradeLedger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.trades)
}
