package storage

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func tradeAt(id string, at time.Time) Trade {
	return Trade{
		ID:         id,
		OrderID:    "ORD00000001",
		Symbol:     "INFY",
		Exchange:   "NSE",
		Side:       SideBuy,
		Quantity:   5,
		Price:      decimal.RequireFromString("1450.25"),
		ExecutedAt: at,
	}
}

func TestTradeLedgerNewestFirst(t *testing.T) {
	ledger := NewTradeLedger()
	base := time.Now().UTC()

	// Inserted out of chronological order on purpose.
	ledger.Append(tradeAt("TRD00000002", base.Add(time.Second)))
	ledger.Append(tradeAt("TRD00000001", base))
	ledger.Append(tradeAt("TRD00000003", base.Add(2*time.Second)))

	list := ledger.List()
	want := []string{"TRD00000003", "TRD00000002", "TRD00000001"}
	for i, trade := range list {
		if trade.ID != want[i] {
			t.Fatalf("list[%d] = %s, want %s", i, trade.ID, want[i])
		}
	}
}

func TestTradeLedgerTiesKeepInsertionOrder(t *testing.T) {
	ledger := NewTradeLedger()
	at := time.Now().UTC()

	ledger.Append(tradeAt("TRD00000001", at))
	ledger.Append(tradeAt("TRD00000002", at))
	ledger.Append(tradeAt("TRD00000003", at))

	list := ledger.List()
	want := []string{"TRD00000001", "TRD00000002", "TRD00000003"}
	for i, trade := range list {
		if trade.ID != want[i] {
			t.Fatalf("list[%d] = %s, want %s (stable tie order)", i, trade.ID, want[i])
		}
	}
}

func TestTradeLedgerListReturnsCopy(t *testing.T) {
	ledger := NewTradeLedger()
	ledger.Append(tradeAt("TRD00000001", time.Now().UTC()))

	list := ledger.List()
	list[0].ID = "TRDMUTATED"

	if got := ledger.List()[0].ID; got != "TRD00000001" {
		t.Fatalf("ledger mutated through returned slice: %s", got)
	}
	if ledger.Len() != 1 {
		t.Fatalf("Len = %d, want 1", ledger.Len())
	}
}
