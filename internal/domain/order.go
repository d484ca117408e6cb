package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderSide is the direction of an order.
type OrderSide string

const (
	SideBuy  OrderSide = "BUY"
	SideSell OrderSide = "SELL"
)

// Order is a limit order handed to the execution boundary.
// Quantities are whole shares, prices are exact decimals.
type Order struct {
	ID          string
	Side        OrderSide
	Price       decimal.Decimal
	Qty         int64
	SubmittedAt time.Time
}

// TradePrint is a single trade on the tape, supplied by the market-data
// collaborator alongside quote ticks.
type TradePrint struct {
	Price decimal.Decimal
	Size  int64
	Ts    time.Time
}

// Fill reports an executed quantity against a pending order.
type Fill struct {
	OrderID string
	Side    OrderSide
	Price   decimal.Decimal
	Qty     int64
}
