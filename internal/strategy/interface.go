package strategy

import (
	"imbalance_go/internal/domain"

	"github.com/shopspring/decimal"
)

// ActionType defines the type of trading action
type ActionType int

const (
	ActionBuy  ActionType = iota + 1
	ActionSell // Sell
)

// String returns the string representation of ActionType
func (a ActionType) String() string {
	switch a {
	case ActionBuy:
		return "BUY"
	case ActionSell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// Action represents a decision made by the policy
type Action struct {
	Type  ActionType
	Price decimal.Decimal
	Qty   int64
}

// Policy is the injected signal logic. All hooks are called synchronously by
// the engine hotpath with read-only snapshots, so the core stays fully unit
// testable independent of any concrete strategy.
type Policy interface {
	// OnLevelChange is called after a confirmed level change.
	OnLevelChange(outcome domain.LevelChangeOutcome, quote domain.QuoteSnapshot, pos domain.PositionSnapshot) []Action

	// OnTradePrint is called for every trade on the tape.
	OnTradePrint(print domain.TradePrint, quote domain.QuoteSnapshot, pos domain.PositionSnapshot) []Action

	// OnFill is called after a fill has been applied to the position.
	OnFill(fill domain.Fill, pos domain.PositionSnapshot) []Action
}
