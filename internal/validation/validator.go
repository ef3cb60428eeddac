// Package validation checks order submissions field by field and reports
// every problem at once, the way the API surfaces validation failures.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	return "invalid request"
}

var symbolPattern = regexp.MustCompile(`^[A-Z0-9&._-]+$`)

// ValidateOrderRequest checks a raw order submission. Price arrives as the
// raw string from the request body; it is required and positive for LIMIT
// orders and merely ignored (but must parse if present) for MARKET orders.
func ValidateOrderRequest(symbol, exchange, side, style string, quantity int64, price string) ValidationErrors {
	var errs ValidationErrors

	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		errs = append(errs, FieldError{Field: "symbol", Message: "symbol is required"})
	} else if !symbolPattern.MatchString(symbol) {
		errs = append(errs, FieldError{Field: "symbol", Message: "symbol contains invalid characters"})
	}

	if NormalizeSymbol(exchange) == "" {
		errs = append(errs, FieldError{Field: "exchange", Message: "exchange is required"})
	}

	side = strings.ToUpper(strings.TrimSpace(side))
	if side != "BUY" && side != "SELL" {
		errs = append(errs, FieldError{Field: "side", Message: "side must be BUY or SELL"})
	}

	style = strings.ToUpper(strings.TrimSpace(style))
	if style != "MARKET" && style != "LIMIT" {
		errs = append(errs, FieldError{Field: "style", Message: "style must be MARKET or LIMIT"})
	}

	if quantity <= 0 {
		errs = append(errs, FieldError{Field: "quantity", Message: "quantity must be positive"})
	}

	trimmedPrice := strings.TrimSpace(price)
	if style == "LIMIT" {
		if trimmedPrice == "" {
			errs = append(errs, FieldError{Field: "price", Message: "price is required for LIMIT orders"})
		} else if _, err := ParsePositivePrice(trimmedPrice); err != nil {
			errs = append(errs, FieldError{Field: "price", Message: err.Error()})
		}
	}
	if style == "MARKET" && trimmedPrice != "" {
		if _, err := ParsePositivePrice(trimmedPrice); err != nil {
			errs = append(errs, FieldError{Field: "price", Message: err.Error()})
		}
	}

	return errs
}

// ParsePositivePrice parses a strictly positive decimal price.
func ParsePositivePrice(raw string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero, fmt.Errorf("price is required")
	}
	val, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, fmt.Errorf("price must be a decimal")
	}
	if val.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("price must be positive")
	}
	return val, nil
}

// NormalizeSymbol uppercases and trims a symbol or exchange name.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
