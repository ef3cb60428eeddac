package service

import (
	"errors"
	"fmt"
)

// ErrOrderNotFound is returned when an order lookup misses.
var ErrOrderNotFound = errors.New("order not found")

// InvalidOrderError reports a submission that failed structural validation.
// It is terminal for the request; no order is created.
type InvalidOrderError struct {
	Message string
}

func (e *InvalidOrderError) Error() string {
	return e.Message
}

// InstrumentNotFoundError reports a submission against an unknown
// (symbol, exchange) pair.
type InstrumentNotFoundError struct {
	Symbol   string
	Exchange string
}

func (e *InstrumentNotFoundError) Error() string {
	return fmt.Sprintf("instrument %s not found on %s", e.Symbol, e.Exchange)
}

// InsufficientHoldingsError reports a sell exceeding the held quantity.
type InsufficientHoldingsError struct {
	Symbol    string
	Available int64
	Requested int64
}

func (e *InsufficientHoldingsError) Error() string {
	return fmt.Sprintf("insufficient holdings for %s: available %d, requested %d", e.Symbol, e.Available, e.Requested)
}
