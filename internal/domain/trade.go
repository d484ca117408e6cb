package domain

import "github.com/shopspring/decimal"

// Direction of a completed round trip: long (bought then sold) or short
// (sold then bought back).
type Direction string

const (
	DirectionLong  Direction = "LONG"
	DirectionShort Direction = "SHORT"
)

// Trade is one completed round trip (or the closed portion of one).
// Entry is the volume-weighted average entry price of the closed quantity,
// exit the price of the closing fill.
type Trade struct {
	Direction  Direction       `json:"direction"`
	EntryPrice decimal.Decimal `json:"entry_price"`
	ExitPrice  decimal.Decimal `json:"exit_price"`
	Qty        int64           `json:"qty"`
}

// PnL returns the signed profit of the trade per the full closed quantity.
// Positive means the exit moved in the trade's direction.
func (t Trade) PnL() decimal.Decimal {
	diff := t.ExitPrice.Sub(t.EntryPrice)
	if t.Direction == DirectionShort {
		diff = diff.Neg()
	}
	return diff.Mul(decimal.NewFromInt(t.Qty))
}
