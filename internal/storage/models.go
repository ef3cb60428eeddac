// Package storage holds the in-memory stores backing the trading service:
// the order store, the append-only trade ledger, and the portfolio ledger.
// All state is process-local; nothing is persisted across restarts.
package storage

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	SideBuy  = "BUY"
	SideSell = "SELL"

	StyleMarket = "MARKET"
	StyleLimit  = "LIMIT"

	// OrderStatusCancelled is part of the order vocabulary but no flow
	// transitions into it yet; orders either execute at submission time or
	// stay PLACED.
	OrderStatusNew       = "NEW"
	OrderStatusPlaced    = "PLACED"
	OrderStatusExecuted  = "EXECUTED"
	OrderStatusCancelled = "CANCELLED"

	InstrumentTypeEquity  = "EQUITY"
	InstrumentTypeFutures = "FUTURES"
	InstrumentTypeOptions = "OPTIONS"
)

var ErrNotFound = errors.New("not found")

// Instrument is a tradable listing identified by (symbol, exchange). The
// last traded price is fixed at catalog load; there is no live feed.
type Instrument struct {
	Symbol          string
	Exchange        string
	Type            string
	LastTradedPrice decimal.Decimal
}

// Order is a single buy/sell request. Price is set iff Style is LIMIT;
// ExecutedAt and ExecutedPrice are set iff Status is EXECUTED.
type Order struct {
	ID            string
	Symbol        string
	Exchange      string
	Side          string
	Style         string
	Quantity      int64
	Price         *decimal.Decimal
	Status        string
	CreatedAt     time.Time
	ExecutedAt    *time.Time
	ExecutedPrice *decimal.Decimal
}

// Trade records one executed order. Immutable once appended.
type Trade struct {
	ID         string
	OrderID    string
	Symbol     string
	Exchange   string
	Side       string
	Quantity   int64
	Price      decimal.Decimal
	ExecutedAt time.Time
}

// Holding is the net position in one instrument. A holding with zero
// quantity never exists; it is removed from the ledger instead.
type Holding struct {
	Symbol       string
	Exchange     string
	Quantity     int64
	AveragePrice decimal.Decimal
}

// NewOrderID returns an order identifier of the form ORD followed by eight
// uppercase hex characters.
func NewOrderID() string {
	return "ORD" + shortID()
}

// NewTradeID returns a trade identifier of the form TRD followed by eight
// uppercase hex characters.
func NewTradeID() string {
	return "TRD" + shortID()
}

func shortID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:8])
}

func holdingKey(symbol, exchange string) string {
	return symbol + ":" + exchange
}
