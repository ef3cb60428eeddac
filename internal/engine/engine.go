// Package engine contains the execution decision logic. Decide is free of
// side effects: it reports whether an order executes and at what price, and
// the service layer applies the outcome to the stores.
package engine

import (
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/shreyachouhan03/tradingapi/internal/storage"
)

// DefaultSlippageBps is the half-width of the market-order price band in
// basis points: 10 bps = 0.1% either side of the reference price.
const DefaultSlippageBps = 10

var (
	buyCap    = decimal.RequireFromString("1.001")
	sellFloor = decimal.RequireFromString("0.999")
)

// Decision is the outcome of evaluating one order against the reference
// price. Price is meaningful only when Executed is true.
type Decision struct {
	Executed bool
	Price    decimal.Decimal
}

// Engine decides execution outcomes. The random source driving market-order
// slippage is injected so tests can seed it.
type Engine struct {
	mu          sync.Mutex
	rng         *rand.Rand
	slippageBps int64
}

// New returns an Engine using the given random source and market slippage
// band. A nil rng falls back to a time-seeded source; a non-positive
// slippage falls back to DefaultSlippageBps.
func New(rng *rand.Rand, slippageBps int) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if slippageBps <= 0 {
		slippageBps = DefaultSlippageBps
	}
	return &Engine{rng: rng, slippageBps: int64(slippageBps)}
}

// Decide evaluates the order against the instrument's reference price.
//
// Market orders always execute, at the reference price perturbed uniformly
// within the slippage band and rounded to 2 decimals. Limit buys execute
// iff limit >= reference, at min(limit, reference*1.001); limit sells
// execute iff limit <= reference, at max(limit, reference*0.999); both
// rounded to 2 decimals. Anything else stays unexecuted; there is no later
// re-evaluation.
func (e *Engine) Decide(order storage.Order, refPrice decimal.Decimal) Decision {
	switch order.Style {
	case storage.StyleMarket:
		return Decision{Executed: true, Price: e.perturb(refPrice)}
	case storage.StyleLimit:
		if order.Price == nil {
			return Decision{}
		}
		limit := *order.Price
		switch order.Side {
		case storage.SideBuy:
			if limit.GreaterThanOrEqual(refPrice) {
				price := decimal.Min(limit, refPrice.Mul(buyCap))
				return Decision{Executed: true, Price: price.Round(2)}
			}
		case storage.SideSell:
			if limit.LessThanOrEqual(refPrice) {
				price := decimal.Max(limit, refPrice.Mul(sellFloor))
				return Decision{Executed: true, Price: price.Round(2)}
			}
		}
	}
	return Decision{}
}

func (e *Engine) perturb(refPrice decimal.Decimal) decimal.Decimal {
	e.mu.Lock()
	frac := e.rng.Float64()*2 - 1
	e.mu.Unlock()

	band := decimal.NewFromInt(e.slippageBps).Div(decimal.NewFromInt(10000))
	offset := decimal.NewFromFloat(frac).Mul(band)
	return refPrice.Mul(decimal.NewFromInt(1).Add(offset)).Round(2)
}
