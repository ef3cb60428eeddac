// Package service orchestrates the order lifecycle: validation, holdings
// checks, the NEW → PLACED → EXECUTED state machine, and the trade and
// portfolio side effects of an execution.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/shreyachouhan03/tradingapi/internal/engine"
	"github.com/shreyachouhan03/tradingapi/internal/storage"
	"log/slog"
)

const (
	outcomeExecuted = "executed"
	outcomePlaced   = "placed"
	outcomeRejected = "rejected"
	outcomeError    = "error"
)

type Catalog interface {
	Get(symbol, exchange string) (storage.Instrument, bool)
	List() []storage.Instrument
}

type OrderStore interface {
	Create(order storage.Order) error
	Update(order storage.Order) error
	Get(id string) (*storage.Order, error)
	List() []storage.Order
}

type TradeLedger interface {
	Append(trade storage.Trade)
	List() []storage.Trade
}

type PortfolioLedger interface {
	Quantity(symbol, exchange string) int64
	ApplyFill(symbol, exchange string, signedQty int64, fillPrice decimal.Decimal)
	List() []storage.Holding
	Len() int
}

type ExecutionEngine interface {
	Decide(order storage.Order, refPrice decimal.Decimal) engine.Decision
}

// OrderService composes the catalog, stores, and execution engine behind
// the API handlers. Submissions are serialized under a single mutex so the
// holdings check, order creation, trade append, and portfolio update of one
// request are never interleaved with another's.
type OrderService struct {
	mu        sync.Mutex
	catalog   Catalog
	orders    OrderStore
	trades    TradeLedger
	portfolio PortfolioLedger
	engine    ExecutionEngine
	logger    *slog.Logger
	metrics   *Metrics
}

// SubmitOrderInput is a parsed, normalized order submission. Price must be
// nil for MARKET orders and set for LIMIT orders.
type SubmitOrderInput struct {
	Symbol   string
	Exchange string
	Side     string
	Style    string
	Quantity int64
	Price    *decimal.Decimal
	CallerID string
}

// PortfolioEntry is a holding plus its market value at read time.
type PortfolioEntry struct {
	storage.Holding
	CurrentValue decimal.Decimal
}

func NewOrderService(catalog Catalog, orders OrderStore, trades TradeLedger, portfolio PortfolioLedger, eng ExecutionEngine, logger *slog.Logger, metrics *Metrics) *OrderService {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderService{
		catalog:   catalog,
		orders:    orders,
		trades:    trades,
		portfolio: portfolio,
		engine:    eng,
		logger:    logger,
		metrics:   metrics,
	}
}

// SubmitOrder runs the full submission flow. Every accepted order ends the
// call as PLACED or EXECUTED; validation and holdings failures leave no
// partial state behind.
func (s *OrderService) SubmitOrder(ctx context.Context, input SubmitOrderInput) (*storage.Order, error) {
	start := time.Now()

	if err := validateInput(input); err != nil {
		s.observe(outcomeRejected, start)
		return nil, err
	}

	instrument, ok := s.catalog.Get(input.Symbol, input.Exchange)
	if !ok {
		s.observe(outcomeRejected, start)
		return nil, &InstrumentNotFoundError{Symbol: input.Symbol, Exchange: input.Exchange}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if input.Side == storage.SideSell {
		available := s.portfolio.Quantity(input.Symbol, input.Exchange)
		if available < input.Quantity {
			s.observe(outcomeRejected, start)
			return nil, &InsufficientHoldingsError{
				Symbol:    input.Symbol,
				Available: available,
				Requested: input.Quantity,
			}
		}
	}

	now := time.Now().UTC()
	order := storage.Order{
		ID:        storage.NewOrderID(),
		Symbol:    input.Symbol,
		Exchange:  input.Exchange,
		Side:      input.Side,
		Style:     input.Style,
		Quantity:  input.Quantity,
		Price:     input.Price,
		Status:    storage.OrderStatusNew,
		CreatedAt: now,
	}
	if err := s.orders.Create(order); err != nil {
		s.observe(outcomeError, start)
		return nil, err
	}
	s.logger.Info("order created", "order_id", order.ID, "symbol", order.Symbol, "side", order.Side, "style", order.Style)

	order.Status = storage.OrderStatusPlaced
	if err := s.orders.Update(order); err != nil {
		s.observe(outcomeError, start)
		return nil, err
	}

	decision := s.engine.Decide(order, instrument.LastTradedPrice)
	if !decision.Executed {
		s.logger.Info("order placed without execution",
			"order_id", order.ID,
			"limit_price", priceString(order.Price),
			"reference_price", instrument.LastTradedPrice.String(),
		)
		s.observe(outcomePlaced, start)
		return &order, nil
	}

	executedAt := time.Now().UTC()
	executedPrice := decision.Price
	order.Status = storage.OrderStatusExecuted
	order.ExecutedAt = &executedAt
	order.ExecutedPrice = &executedPrice
	if err := s.orders.Update(order); err != nil {
		s.observe(outcomeError, start)
		return nil, err
	}

	trade := storage.Trade{
		ID:         storage.NewTradeID(),
		OrderID:    order.ID,
		Symbol:     order.Symbol,
		Exchange:   order.Exchange,
		Side:       order.Side,
		Quantity:   order.Quantity,
		Price:      executedPrice,
		ExecutedAt: executedAt,
	}
	s.trades.Append(trade)

	signedQty := order.Quantity
	if order.Side == storage.SideSell {
		signedQty = -order.Quantity
	}
	s.portfolio.ApplyFill(order.Symbol, order.Exchange, signedQty, executedPrice)

	s.logger.Info("order executed",
		"order_id", order.ID,
		"trade_id", trade.ID,
		"executed_price", executedPrice.String(),
	)
	if s.metrics != nil {
		s.metrics.TradesRecorded.Inc()
		s.metrics.OpenHoldings.Set(float64(s.portfolio.Len()))
	}
	s.observe(outcomeExecuted, start)
	return &order, nil
}

// GetOrder returns the order with the given ID.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*storage.Order, error) {
	order, err := s.orders.Get(id)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrders returns every order ever created, oldest first.
func (s *OrderService) ListOrders(ctx context.Context) []storage.Order {
	return s.orders.List()
}

// ListTrades returns all executed trades, most recent first.
func (s *OrderService) ListTrades(ctx context.Context) []storage.Trade {
	return s.trades.List()
}

// ListInstruments returns the catalog contents.
func (s *OrderService) ListInstruments(ctx context.Context) []storage.Instrument {
	return s.catalog.List()
}

// Portfolio returns all holdings with market value recomputed against the
// catalog's current reference prices.
func (s *OrderService) Portfolio(ctx context.Context) []PortfolioEntry {
	holdings := s.portfolio.List()
	out := make([]PortfolioEntry, 0, len(holdings))
	for _, h := range holdings {
		entry := PortfolioEntry{Holding: h}
		if inst, ok := s.catalog.Get(h.Symbol, h.Exchange); ok {
			entry.CurrentValue = decimal.NewFromInt(h.Quantity).Mul(inst.LastTradedPrice)
		}
		out = append(out, entry)
	}
	return out
}

func validateInput(input SubmitOrderInput) error {
	if input.Quantity <= 0 {
		return &InvalidOrderError{Message: "quantity must be positive"}
	}
	switch input.Side {
	case storage.SideBuy, storage.SideSell:
	default:
		return &InvalidOrderError{Message: "side must be BUY or SELL"}
	}
	switch input.Style {
	case storage.StyleMarket:
		if input.Price != nil {
			return &InvalidOrderError{Message: "price must not be set for MARKET orders"}
		}
	case storage.StyleLimit:
		if input.Price == nil || input.Price.LessThanOrEqual(decimal.Zero) {
			return &InvalidOrderError{Message: "price is required and must be positive for LIMIT orders"}
		}
	default:
		return &InvalidOrderError{Message: "style must be MARKET or LIMIT"}
	}
	return nil
}

func (s *OrderService) observe(outcome string, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.OrderSubmissions.WithLabelValues(outcome).Inc()
	s.metrics.OrderSubmissionLatency.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
}

func priceString(p *decimal.Decimal) string {
	if p == nil {
		return ""
	}
	return p.String()
}
