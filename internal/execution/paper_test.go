package execution

import (
	"testing"

	"imbalance_go/internal/domain"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestPaperExecution_MarketableOrdersFill(t *testing.T) {
	paper := NewPaperExecution()
	quote := domain.QuoteSnapshot{Bid: d("10.00"), Ask: d("10.01")}

	t.Run("buy at the ask", func(t *testing.T) {
		rep := paper.Submit(domain.Order{ID: "b1", Side: domain.SideBuy, Price: d("10.01"), Qty: 100}, quote)
		if rep.Status != StatusFilled || rep.FilledQty != 100 {
			t.Errorf("report = %+v, want full fill", rep)
		}
	})

	t.Run("sell at the bid", func(t *testing.T) {
		rep := paper.Submit(domain.Order{ID: "s1", Side: domain.SideSell, Price: d("10.00"), Qty: 100}, quote)
		if rep.Status != StatusFilled || rep.FilledQty != 100 {
			t.Errorf("report = %+v, want full fill", rep)
		}
	})
}

func TestPaperExecution_NonMarketableOrdersCancel(t *testing.T) {
	paper := NewPaperExecution()
	quote := domain.QuoteSnapshot{Bid: d("10.00"), Ask: d("10.01")}

	// Buy below the ask and sell above the bid both miss: IOC cancels.
	rep := paper.Submit(domain.Order{ID: "b1", Side: domain.SideBuy, Price: d("10.00"), Qty: 100}, quote)
	if rep.Status != StatusCanceled || rep.FilledQty != 0 {
		t.Errorf("buy report = %+v, want cancel", rep)
	}
	rep = paper.Submit(domain.Order{ID: "s1", Side: domain.SideSell, Price: d("10.01"), Qty: 100}, quote)
	if rep.Status != StatusCanceled {
		t.Errorf("sell report = %+v, want cancel", rep)
	}

	if got := len(paper.Reports()); got != 2 {
		t.Errorf("reports = %d, want 2", got)
	}
}

func TestPaperExecution_ImplementsInterface(t *testing.T) {
	var _ Execution = (*PaperExecution)(nil)
}
