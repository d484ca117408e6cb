package strategy

import (
	"time"

	"imbalance_go/internal/domain"
)

// staleWindow rejects prints that arrive too close to the level change: they
// may have traded at the previous level.
const staleWindow = 50 * time.Millisecond

// ImbalancePolicy follows large prints when the book is lopsided.
//
// After a level change it waits for a trade of at least one lot; if that
// trade hits the ask while the bid size is more than twice the ask size, the
// imbalance suggests further upward pressure and the policy buys one lot at
// the ask (mirrored for sells at the bid). Whether or not the order fills, it
// does not act again until the next level change.
type ImbalancePolicy struct {
	lot       int64
	maxShares int64

	traded bool // One attempt per level
}

// NewImbalancePolicy creates the policy. lot is the order size in shares;
// maxShares caps the absolute exposure the policy is willing to build.
func NewImbalancePolicy(lot, maxShares int64) *ImbalancePolicy {
	if lot <= 0 || maxShares < lot {
		panic("ImbalancePolicy: need positive lot and maxShares >= lot")
	}
	return &ImbalancePolicy{lot: lot, maxShares: maxShares, traded: true}
}

// OnLevelChange re-arms the policy for the new level.
func (s *ImbalancePolicy) OnLevelChange(_ domain.LevelChangeOutcome, _ domain.QuoteSnapshot, _ domain.PositionSnapshot) []Action {
	s.traded = false
	return nil
}

// OnTradePrint decides whether to follow the print.
func (s *ImbalancePolicy) OnTradePrint(print domain.TradePrint, quote domain.QuoteSnapshot, pos domain.PositionSnapshot) []Action {
	if s.traded {
		return nil
	}
	if !print.Ts.After(quote.LevelTime.Add(staleWindow)) {
		// Too close to the quote update; may have been for the previous level.
		return nil
	}
	if print.Size < s.lot {
		return nil
	}

	if print.Price.Equal(quote.Ask) &&
		quote.BidSize > quote.AskSize*2 &&
		pos.FilledShares+pos.PendingBuyShares <= s.maxShares-s.lot {
		s.traded = true
		return []Action{{Type: ActionBuy, Price: quote.Ask, Qty: s.lot}}
	}

	if print.Price.Equal(quote.Bid) &&
		quote.AskSize > quote.BidSize*2 &&
		pos.FilledShares-pos.PendingSellShares >= s.lot-s.maxShares {
		s.traded = true
		return []Action{{Type: ActionSell, Price: quote.Bid, Qty: s.lot}}
	}

	return nil
}

// OnFill is a no-op: position exits happen through the same imbalance signal
// on later levels, not as a reaction to fills.
func (s *ImbalancePolicy) OnFill(_ domain.Fill, _ domain.PositionSnapshot) []Action {
	return nil
}
