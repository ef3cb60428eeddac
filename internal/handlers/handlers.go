// Package handlers exposes the REST surface: instruments, orders, trades,
// and portfolio. Handlers parse and validate requests, delegate to the
// service, and map domain errors onto the API error envelope.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/shreyachouhan03/tradingapi/internal/service"
	"github.com/shreyachouhan03/tradingapi/internal/storage"
	"github.com/shreyachouhan03/tradingapi/internal/validation"
	"github.com/shreyachouhan03/tradingapi/libs/auth"
	"log/slog"
)

type TradingService interface {
	SubmitOrder(ctx context.Context, input service.SubmitOrderInput) (*storage.Order, error)
	GetOrder(ctx context.Context, id string) (*storage.Order, error)
	ListOrders(ctx context.Context) []storage.Order
	ListTrades(ctx context.Context) []storage.Trade
	ListInstruments(ctx context.Context) []storage.Instrument
	Portfolio(ctx context.Context) []service.PortfolioEntry
}

type Handler struct {
	Service TradingService
	Logger  *slog.Logger
}

type createOrderRequest struct {
	Symbol   string `json:"symbol"`
	Exchange string `json:"exchange"`
	Side     string `json:"side"`
	Style    string `json:"style"`
	Quantity int64  `json:"quantity"`
	Price    string `json:"price"`
}

type instrumentItem struct {
	Symbol          string `json:"symbol"`
	Exchange        string `json:"exchange"`
	InstrumentType  string `json:"instrument_type"`
	LastTradedPrice string `json:"last_traded_price"`
}

type orderItem struct {
	OrderID       string  `json:"order_id"`
	Symbol        string  `json:"symbol"`
	Exchange      string  `json:"exchange"`
	Side          string  `json:"side"`
	Style         string  `json:"style"`
	Quantity      int64   `json:"quantity"`
	Price         *string `json:"price,omitempty"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"created_at"`
	ExecutedAt    *string `json:"executed_at,omitempty"`
	ExecutedPrice *string `json:"executed_price,omitempty"`
}

type tradeItem struct {
	TradeID    string `json:"trade_id"`
	OrderID    string `json:"order_id"`
	Symbol     string `json:"symbol"`
	Exchange   string `json:"exchange"`
	Side       string `json:"side"`
	Quantity   int64  `json:"quantity"`
	Price      string `json:"price"`
	ExecutedAt string `json:"executed_at"`
}

type holdingItem struct {
	Symbol       string `json:"symbol"`
	Exchange     string `json:"exchange"`
	Quantity     int64  `json:"quantity"`
	AveragePrice string `json:"average_price"`
	CurrentValue string `json:"current_value"`
}

type errorResponse struct {
	Code    string                  `json:"code"`
	Message string                  `json:"message"`
	Fields  []validation.FieldError `json:"fields,omitempty"`
	Details map[string]string       `json:"details,omitempty"`
}

func New(svc TradingService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{Service: svc, Logger: logger}
}

// Register mounts the authenticated API routes.
func (h *Handler) Register(r *gin.Engine, token, callerID string) {
	group := r.Group("/", auth.Middleware(token, callerID))
	group.GET("/instruments", h.ListInstruments)
	group.POST("/orders", h.CreateOrder)
	group.GET("/orders", h.ListOrders)
	group.GET("/orders/:id", h.GetOrder)
	group.GET("/trades", h.ListTrades)
	group.GET("/portfolio", h.Portfolio)
}

func (h *Handler) ListInstruments(c *gin.Context) {
	instruments := h.Service.ListInstruments(c.Request.Context())
	items := make([]instrumentItem, 0, len(instruments))
	for _, inst := range instruments {
		items = append(items, instrumentItem{
			Symbol:          inst.Symbol,
			Exchange:        inst.Exchange,
			InstrumentType:  inst.Type,
			LastTradedPrice: inst.LastTradedPrice.StringFixed(2),
		})
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) CreateOrder(c *gin.Context) {
	caller, ok := auth.CallerFromContext(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing caller", nil, nil)
		return
	}

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid payload", nil, nil)
		return
	}

	errs := validation.ValidateOrderRequest(req.Symbol, req.Exchange, req.Side, req.Style, req.Quantity, req.Price)
	if len(errs) > 0 {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request", errs, nil)
		return
	}

	style := strings.ToUpper(strings.TrimSpace(req.Style))
	var pricePtr *decimal.Decimal
	if style == storage.StyleLimit {
		price, err := validation.ParsePositivePrice(req.Price)
		if err != nil {
			writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid price", nil, nil)
			return
		}
		pricePtr = &price
	}

	input := service.SubmitOrderInput{
		Symbol:   validation.NormalizeSymbol(req.Symbol),
		Exchange: validation.NormalizeSymbol(req.Exchange),
		Side:     strings.ToUpper(strings.TrimSpace(req.Side)),
		Style:    style,
		Quantity: req.Quantity,
		Price:    pricePtr,
		CallerID: caller,
	}

	order, err := h.Service.SubmitOrder(c.Request.Context(), input)
	if err != nil {
		h.writeSubmitError(c, err)
		return
	}

	c.JSON(http.StatusCreated, orderToItem(*order))
}

func (h *Handler) ListOrders(c *gin.Context) {
	orders := h.Service.ListOrders(c.Request.Context())
	items := make([]orderItem, 0, len(orders))
	for _, order := range orders {
		items = append(items, orderToItem(order))
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) GetOrder(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "missing order id", nil, nil)
		return
	}

	order, err := h.Service.GetOrder(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			writeError(c, http.StatusNotFound, "ORDER_NOT_FOUND", "order not found", nil, nil)
			return
		}
		h.Logger.Error("get order failed", "error", err)
		writeError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error", nil, nil)
		return
	}

	c.JSON(http.StatusOK, orderToItem(*order))
}

func (h *Handler) ListTrades(c *gin.Context) {
	trades := h.Service.ListTrades(c.Request.Context())
	items := make([]tradeItem, 0, len(trades))
	for _, trade := range trades {
		items = append(items, tradeItem{
			TradeID:    trade.ID,
			OrderID:    trade.OrderID,
			Symbol:     trade.Symbol,
			Exchange:   trade.Exchange,
			Side:       trade.Side,
			Quantity:   trade.Quantity,
			Price:      trade.Price.StringFixed(2),
			ExecutedAt: trade.ExecutedAt.UTC().Format(time.RFC3339Nano),
		})
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) Portfolio(c *gin.Context) {
	entries := h.Service.Portfolio(c.Request.Context())
	items := make([]holdingItem, 0, len(entries))
	for _, entry := range entries {
		items = append(items, holdingItem{
			Symbol:       entry.Symbol,
			Exchange:     entry.Exchange,
			Quantity:     entry.Quantity,
			AveragePrice: entry.AveragePrice.StringFixed(2),
			CurrentValue: entry.CurrentValue.StringFixed(2),
		})
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) writeSubmitError(c *gin.Context, err error) {
	var invalid *service.InvalidOrderError
	if errors.As(err, &invalid) {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", invalid.Message, nil, nil)
		return
	}

	var notFound *service.InstrumentNotFoundError
	if errors.As(err, &notFound) {
		writeError(c, http.StatusNotFound, "INSTRUMENT_NOT_FOUND", notFound.Error(), nil, nil)
		return
	}

	var insufficient *service.InsufficientHoldingsError
	if errors.As(err, &insufficient) {
		details := map[string]string{
			"available": strconv.FormatInt(insufficient.Available, 10),
			"requested": strconv.FormatInt(insufficient.Requested, 10),
		}
		writeError(c, http.StatusBadRequest, "INSUFFICIENT_HOLDINGS", insufficient.Error(), nil, details)
		return
	}

	h.Logger.Error("submit order failed", "error", err)
	writeError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error", nil, nil)
}

func orderToItem(order storage.Order) orderItem {
	item := orderItem{
		OrderID:   order.ID,
		Symbol:    order.Symbol,
		Exchange:  order.Exchange,
		Side:      order.Side,
		Style:     order.Style,
		Quantity:  order.Quantity,
		Status:    order.Status,
		CreatedAt: order.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if order.Price != nil {
		val := order.Price.StringFixed(2)
		item.Price = &val
	}
	if order.ExecutedAt != nil {
		val := order.ExecutedAt.UTC().Format(time.RFC3339Nano)
		item.ExecutedAt = &val
	}
	if order.ExecutedPrice != nil {
		val := order.ExecutedPrice.StringFixed(2)
		item.ExecutedPrice = &val
	}
	return item
}

func writeError(c *gin.Context, status int, code, message string, fields []validation.FieldError, details map[string]string) {
	c.JSON(status, errorResponse{
		Code:    code,
		Message: message,
		Fields:  fields,
		Details: details,
	})
}
