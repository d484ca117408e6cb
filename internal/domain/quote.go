package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side identifies which side of the book crossed a level.
type Side int

const (
	NoSide Side = iota
	BidSide
	AskSide
)

// String returns the string representation of Side
func (s Side) String() string {
	switch s {
	case BidSide:
		return "BID"
	case AskSide:
		return "ASK"
	default:
		return "NONE"
	}
}

// LevelChangeOutcome is the result of a quote update, consumed by the
// strategy policy to decide trading action.
type LevelChangeOutcome struct {
	Changed bool
	Side    Side
	Level   decimal.Decimal // The new reference level when Changed
}

// QuoteSnapshot is a read-only copy of the quote state for external readers.
type QuoteSnapshot struct {
	Bid            decimal.Decimal `json:"bid"`
	Ask            decimal.Decimal `json:"ask"`
	BidSize        int64           `json:"bid_size"`
	AskSize        int64           `json:"ask_size"`
	Spread         decimal.Decimal `json:"spread"`
	ReferenceLevel decimal.Decimal `json:"reference_level"`
	LevelCount     int             `json:"level_count"`
	LevelTime      time.Time       `json:"level_time"`
	LastUpdate     time.Time       `json:"last_update"`
}

// QuoteState tracks the live bid/ask for one instrument and classifies each
// incoming update as a level change or a same-level refresh.
//
// A level change is a move of exactly one tick from the reference level on
// either side. Larger jumps are deliberately not level changes: they can
// indicate a newsworthy event this kind of strategy is not tuned to trade.
//
// QuoteState is a single-writer structure. All mutation must be serialized
// by the caller (the engine hotpath).
type QuoteState struct {
	tick decimal.Decimal

	bid     decimal.Decimal
	ask     decimal.Decimal
	bidSize int64
	askSize int64
	spread  decimal.Decimal

	referenceLevel decimal.Decimal
	seeded         bool
	levelCount     int
	levelTime      time.Time
	lastUpdate     time.Time
}

// NewQuoteState creates a quote state for one instrument.
// tick is the minimum price increment and must be positive.
func NewQuoteState(tick decimal.Decimal) *QuoteState {
	if !tick.IsPositive() {
		panic("QuoteState: tick size must be positive")
	}
	return &QuoteState{tick: tick}
}

// Update applies one incoming quote tick.
//
// Constraints: bid and ask must be positive, bid <= ask, sizes >= 0. A
// rejected update returns ErrInvalidQuote and leaves all state untouched.
//
// The bid delta is checked before the ask delta, so when both sides cross a
// level in the same tick the bid wins. This mirrors the update order of a
// sequential feed.
func (q *QuoteState) Update(bid, ask decimal.Decimal, bidSize, askSize int64, ts time.Time) (LevelChangeOutcome, error) {
	if !bid.IsPositive() || !ask.IsPositive() {
		return LevelChangeOutcome{}, &QuoteError{Reason: "non-positive price", Err: ErrInvalidQuote}
	}
	if bid.GreaterThan(ask) {
		return LevelChangeOutcome{}, &QuoteError{Reason: "crossed book", Err: ErrInvalidQuote}
	}
	if bidSize < 0 || askSize < 0 {
		return LevelChangeOutcome{}, &QuoteError{Reason: "negative size", Err: ErrInvalidQuote}
	}

	outcome := LevelChangeOutcome{Side: NoSide}

	if !q.seeded {
		// First tick establishes the reference level from the bid.
		q.referenceLevel = bid
		q.seeded = true
	} else {
		// Exact one-tick moves only. Decimal equality, no epsilon. A side
		// crosses only when its own price moved: with a one-tick spread the
		// resting opposite side sits exactly one tick from the reference, and
		// a quiescent re-send must not read that as a crossing.
		switch {
		case !bid.Equal(q.bid) && bid.Sub(q.referenceLevel).Abs().Equal(q.tick):
			outcome = LevelChangeOutcome{Changed: true, Side: BidSide, Level: bid}
		case !ask.Equal(q.ask) && ask.Sub(q.referenceLevel).Abs().Equal(q.tick):
			outcome = LevelChangeOutcome{Changed: true, Side: AskSide, Level: ask}
		}
	}

	if outcome.Changed {
		q.reset(outcome.Level, ts)
	}

	// The incoming quote is applied either way, so spread == ask - bid holds
	// after every accepted update, level change or not.
	q.bid = bid
	q.ask = ask
	q.bidSize = bidSize
	q.askSize = askSize
	q.spread = ask.Sub(bid)
	q.lastUpdate = ts

	return outcome, nil
}

// reset clears the stale per-level tracking fields and confirms the new
// reference level. Called only when a level change is detected.
func (q *QuoteState) reset(level decimal.Decimal, ts time.Time) {
	q.bidSize = 0
	q.askSize = 0
	q.spread = decimal.Zero
	q.referenceLevel = level
	q.levelCount++
	q.levelTime = ts
}

// Snapshot returns a copy of the current quote state.
func (q *QuoteState) Snapshot() QuoteSnapshot {
	return QuoteSnapshot{
		Bid:            q.bid,
		Ask:            q.ask,
		BidSize:        q.bidSize,
		AskSize:        q.askSize,
		Spread:         q.spread,
		ReferenceLevel: q.referenceLevel,
		LevelCount:     q.levelCount,
		LevelTime:      q.levelTime,
		LastUpdate:     q.lastUpdate,
	}
}
