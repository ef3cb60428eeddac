package engine

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/shreyachouhan03/tradingapi/internal/storage"
)

func marketOrder(side string) storage.Order {
	return storage.Order{
		ID:       "ORD00000001",
		Symbol:   "RELIANCE",
		Exchange: "NSE",
		Side:     side,
		Style:    storage.StyleMarket,
		Quantity: 10,
	}
}

func limitOrder(side, price string) storage.Order {
	limit := decimal.RequireFromString(price)
	return storage.Order{
		ID:       "ORD00000002",
		Symbol:   "RELIANCE",
		Exchange: "NSE",
		Side:     side,
		Style:    storage.StyleLimit,
		Quantity: 10,
		Price:    &limit,
	}
}

func TestMarketOrderAlwaysExecutesWithinBand(t *testing.T) {
	eng := New(rand.New(rand.NewSource(42)), DefaultSlippageBps)
	ref := decimal.RequireFromString("2450.50")

	// 0.1% band plus 2-decimal rounding gives at most 0.2% total deviation.
	maxDelta := ref.Mul(decimal.RequireFromString("0.002"))

	for i := 0; i < 500; i++ {
		decision := eng.Decide(marketOrder(storage.SideBuy), ref)
		if !decision.Executed {
			t.Fatal("market order must always execute")
		}
		if decision.Price.Exponent() < -2 {
			t.Fatalf("price %s not rounded to 2 decimals", decision.Price)
		}
		delta := decision.Price.Sub(ref).Abs()
		if delta.GreaterThan(maxDelta) {
			t.Fatalf("price %s deviates more than 0.2%% from reference %s", decision.Price, ref)
		}
	}
}

func TestMarketOrderDeterministicWithSeed(t *testing.T) {
	ref := decimal.RequireFromString("1450.25")

	a := New(rand.New(rand.NewSource(7)), DefaultSlippageBps)
	b := New(rand.New(rand.NewSource(7)), DefaultSlippageBps)

	for i := 0; i < 20; i++ {
		pa := a.Decide(marketOrder(storage.SideSell), ref).Price
		pb := b.Decide(marketOrder(storage.SideSell), ref).Price
		if !pa.Equal(pb) {
			t.Fatalf("same seed produced different prices: %s vs %s", pa, pb)
		}
	}
}

func TestLimitBuy(t *testing.T) {
	eng := New(rand.New(rand.NewSource(1)), DefaultSlippageBps)
	ref := decimal.RequireFromString("3450.75")

	cases := []struct {
		name         string
		limit        string
		wantExecuted bool
		wantPrice    string
	}{
		{"below reference stays placed", "3400.00", false, ""},
		{"just below reference stays placed", "3450.74", false, ""},
		{"at reference executes at reference", "3450.75", true, "3450.75"},
		// reference*1.001 = 3454.20075, capped below the limit
		{"well above reference capped at reference*1.001", "3500.00", true, "3454.20"},
		{"slightly above reference executes at limit", "3451.00", true, "3451.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			decision := eng.Decide(limitOrder(storage.SideBuy, tc.limit), ref)
			if decision.Executed != tc.wantExecuted {
				t.Fatalf("executed = %v, want %v", decision.Executed, tc.wantExecuted)
			}
			if !tc.wantExecuted {
				return
			}
			want := decimal.RequireFromString(tc.wantPrice)
			if !decision.Price.Equal(want) {
				t.Fatalf("price = %s, want %s", decision.Price, want)
			}
			limit := decimal.RequireFromString(tc.limit)
			if decision.Price.GreaterThan(limit) {
				t.Fatalf("buy executed above limit: %s > %s", decision.Price, limit)
			}
		})
	}
}

func TestLimitSell(t *testing.T) {
	eng := New(rand.New(rand.NewSource(1)), DefaultSlippageBps)
	ref := decimal.RequireFromString("2450.50")

	cases := []struct {
		name         string
		limit        string
		wantExecuted bool
		wantPrice    string
	}{
		{"above reference stays placed", "2500.00", false, ""},
		{"at reference executes at reference", "2450.50", true, "2450.50"},
		// reference*0.999 = 2448.0495, floored above the limit
		{"well below reference floored at reference*0.999", "2400.00", true, "2448.05"},
		{"slightly below reference executes at limit", "2450.00", true, "2450.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			decision := eng.Decide(limitOrder(storage.SideSell, tc.limit), ref)
			if decision.Executed != tc.wantExecuted {
				t.Fatalf("executed = %v, want %v", decision.Executed, tc.wantExecuted)
			}
			if !tc.wantExecuted {
				return
			}
			want := decimal.RequireFromString(tc.wantPrice)
			if !decision.Price.Equal(want) {
				t.Fatalf("price = %s, want %s", decision.Price, want)
			}
		})
	}
}

func TestLimitOrderWithoutPriceStaysPlaced(t *testing.T) {
	eng := New(rand.New(rand.NewSource(1)), DefaultSlippageBps)
	order := marketOrder(storage.SideBuy)
	order.Style = storage.StyleLimit
	order.Price = nil

	if decision := eng.Decide(order, decimal.RequireFromString("100")); decision.Executed {
		t.Fatal("limit order without price must not execute")
	}
}
