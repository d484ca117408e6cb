package domain

import "github.com/shopspring/decimal"

// PositionState classifies the signed net exposure.
type PositionState string

const (
	StateFlat  PositionState = "FLAT"
	StateLong  PositionState = "LONG"
	StateShort PositionState = "SHORT"
)

// PositionMetrics are the trade-level win/loss statistics.
// Zero-P&L trades count as neither win nor loss and are excluded from the
// win-rate denominator.
type PositionMetrics struct {
	NumWins   int     `json:"num_wins"`
	NumLosses int     `json:"num_losses"`
	WinRate   float64 `json:"win_rate"`
}

// PositionSnapshot is a read-only copy of the position for sizing decisions.
type PositionSnapshot struct {
	FilledShares      int64           `json:"filled_shares"`
	PendingBuyShares  int64           `json:"pending_buy_shares"`
	PendingSellShares int64           `json:"pending_sell_shares"`
	AvgEntryPrice     decimal.Decimal `json:"avg_entry_price"`
	State             PositionState   `json:"state"`
	NumTrades         int             `json:"num_trades"`
}

type pendingOrder struct {
	side      OrderSide
	price     decimal.Decimal
	remaining int64
}

// Position owns the authoritative inventory state: pending buy/sell
// quantities, the signed filled position, and the realized trade list.
//
// Every operation is atomic with respect to the position: a rejected call is
// a no-op on state. Like QuoteState, Position is single-writer; the engine
// hotpath serializes all mutation.
type Position struct {
	filledShares int64
	pendingBuy   int64
	pendingSell  int64

	// Volume-weighted average entry price of the open position.
	// Zero while flat.
	avgEntry decimal.Decimal

	orders map[string]*pendingOrder
	trades []Trade
}

// NewPosition creates an empty (flat) position.
func NewPosition() *Position {
	return &Position{orders: make(map[string]*pendingOrder)}
}

// RegisterPendingBuy records a submitted buy order that has not filled yet.
// qty must be positive and the order id must not already be pending.
func (p *Position) RegisterPendingBuy(orderID string, qty int64, price decimal.Decimal) error {
	return p.register(orderID, SideBuy, qty, price)
}

// RegisterPendingSell records a submitted sell order that has not filled yet.
func (p *Position) RegisterPendingSell(orderID string, qty int64, price decimal.Decimal) error {
	return p.register(orderID, SideSell, qty, price)
}

func (p *Position) register(orderID string, side OrderSide, qty int64, price decimal.Decimal) error {
	if qty <= 0 {
		return &OrderError{OrderID: orderID, Op: "register", Err: ErrInvalidOrder}
	}
	if _, exists := p.orders[orderID]; exists {
		return &OrderError{OrderID: orderID, Op: "register", Err: ErrInvalidOrder}
	}
	p.orders[orderID] = &pendingOrder{side: side, price: price, remaining: qty}
	if side == SideBuy {
		p.pendingBuy += qty
	} else {
		p.pendingSell += qty
	}
	return nil
}

// ApplyFill consumes a (possibly partial) fill against a pending order. It
// moves qty shares from pending into the signed filled position and, when the
// fill reduces or crosses the open exposure, appends the closed round trip to
// the trade history and returns it.
//
// Fails with ErrUnknownOrder for an absent id, ErrInvalidOrder for a
// non-positive qty, and ErrOverFill when qty exceeds the order's remaining
// pending quantity. All three leave the position unchanged.
func (p *Position) ApplyFill(orderID string, qty int64) (*Trade, error) {
	ord, ok := p.orders[orderID]
	if !ok {
		return nil, &OrderError{OrderID: orderID, Op: "fill", Err: ErrUnknownOrder}
	}
	if qty <= 0 {
		return nil, &OrderError{OrderID: orderID, Op: "fill", Err: ErrInvalidOrder}
	}
	if qty > ord.remaining {
		return nil, &OrderError{OrderID: orderID, Op: "fill", Err: ErrOverFill}
	}

	ord.remaining -= qty
	signed := qty
	if ord.side == SideBuy {
		p.pendingBuy -= qty
	} else {
		p.pendingSell -= qty
		signed = -qty
	}
	if ord.remaining == 0 {
		delete(p.orders, orderID)
	}

	trade := p.applyExposure(signed, qty, ord.price)
	if trade != nil {
		p.trades = append(p.trades, *trade)
	}
	return trade, nil
}

// applyExposure walks the Flat/Long/Short state machine for one fill and
// returns the round trip it closed, if any. A fill extending the position
// reweights the average entry; a fill crossing through zero closes the old
// side entirely and opens the residual at the fill price.
func (p *Position) applyExposure(signed, qty int64, price decimal.Decimal) *Trade {
	old := p.filledShares
	p.filledShares = old + signed

	extending := old == 0 || (old > 0) == (signed > 0)
	if extending {
		if old == 0 {
			p.avgEntry = price
			return nil
		}
		oldAbs := abs64(old)
		weighted := p.avgEntry.Mul(decimal.NewFromInt(oldAbs)).Add(price.Mul(decimal.NewFromInt(qty)))
		p.avgEntry = weighted.Div(decimal.NewFromInt(oldAbs + qty))
		return nil
	}

	dir := DirectionLong
	if old < 0 {
		dir = DirectionShort
	}
	closed := min64(abs64(old), qty)
	trade := &Trade{Direction: dir, EntryPrice: p.avgEntry, ExitPrice: price, Qty: closed}

	switch {
	case p.filledShares == 0:
		p.avgEntry = decimal.Zero
	case (p.filledShares > 0) != (old > 0):
		// Crossed through zero: the residual opens the other side.
		p.avgEntry = price
	}
	return trade
}

// RemovePendingOrder cancels the unfilled remainder of a pending order,
// returning the relevant pending total to its prior value.
func (p *Position) RemovePendingOrder(orderID string) error {
	ord, ok := p.orders[orderID]
	if !ok {
		return &OrderError{OrderID: orderID, Op: "cancel", Err: ErrUnknownOrder}
	}
	if ord.side == SideBuy {
		p.pendingBuy -= ord.remaining
	} else {
		p.pendingSell -= ord.remaining
	}
	delete(p.orders, orderID)
	return nil
}

// AddTrade appends an externally recognized round trip (an explicit close
// instruction from the signal logic).
func (p *Position) AddTrade(t Trade) error {
	if t.Qty <= 0 {
		return &OrderError{Op: "add trade", Err: ErrInvalidOrder}
	}
	p.trades = append(p.trades, t)
	return nil
}

// HasPendingOrder reports whether the order id is still in the index.
func (p *Position) HasPendingOrder(orderID string) bool {
	_, ok := p.orders[orderID]
	return ok
}

// PendingOrder returns the side and limit price of a pending order.
func (p *Position) PendingOrder(orderID string) (OrderSide, decimal.Decimal, bool) {
	ord, ok := p.orders[orderID]
	if !ok {
		return "", decimal.Zero, false
	}
	return ord.side, ord.price, true
}

// Trades returns a copy of the realized trade history.
func (p *Position) Trades() []Trade {
	out := make([]Trade, len(p.trades))
	copy(out, p.trades)
	return out
}

// State returns the current exposure classification.
func (p *Position) State() PositionState {
	switch {
	case p.filledShares > 0:
		return StateLong
	case p.filledShares < 0:
		return StateShort
	default:
		return StateFlat
	}
}

// Metrics derives win/loss statistics from the trade history.
// WinRate is 0 when there are no decided trades, never a division error.
func (p *Position) Metrics() PositionMetrics {
	var m PositionMetrics
	for _, t := range p.trades {
		pnl := t.PnL()
		switch {
		case pnl.IsPositive():
			m.NumWins++
		case pnl.IsNegative():
			m.NumLosses++
		}
	}
	if decided := m.NumWins + m.NumLosses; decided > 0 {
		m.WinRate = float64(m.NumWins) / float64(decided)
	}
	return m
}

// Snapshot returns a read-only copy of the position for sizing decisions.
func (p *Position) Snapshot() PositionSnapshot {
	return PositionSnapshot{
		FilledShares:      p.filledShares,
		PendingBuyShares:  p.pendingBuy,
		PendingSellShares: p.pendingSell,
		AvgEntryPrice:     p.avgEntry,
		State:             p.State(),
		NumTrades:         len(p.trades),
	}
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
