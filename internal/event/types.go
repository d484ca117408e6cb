package event

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
)

// EventType identifies the event kind for dispatch
type EventType string

const (
	EventTypeQuote      EventType = "QUOTE"
	EventTypeTradePrint EventType = "TRADE_PRINT"
	EventTypeFill       EventType = "FILL"
	EventTypeCancel     EventType = "CANCEL"
)

// Event is the unit the engine consumes. Every event carries a strictly
// increasing sequence number; the engine halts on gaps.
type Event interface {
	GetSeq() uint64
	GetType() EventType
}

// BaseEvent carries the common sequencing fields
type BaseEvent struct {
	Seq uint64
	Ts  int64 // Unix Microseconds
}

func (b *BaseEvent) GetSeq() uint64 {
	return b.Seq
}

// QuoteEvent is one bid/ask tick from the market-data boundary
type QuoteEvent struct {
	BaseEvent
	Bid     decimal.Decimal
	Ask     decimal.Decimal
	BidSize int64
	AskSize int64
}

func (e *QuoteEvent) GetType() EventType { return EventTypeQuote }

// TradePrintEvent is one trade on the tape
type TradePrintEvent struct {
	BaseEvent
	Price decimal.Decimal
	Size  int64
}

func (e *TradePrintEvent) GetType() EventType { return EventTypeTradePrint }

// FillEvent reports an executed quantity from the order-management boundary
type FillEvent struct {
	BaseEvent
	OrderID string
	Qty     int64
}

func (e *FillEvent) GetType() EventType { return EventTypeFill }

// CancelEvent reports a cancelled (or rejected) order
type CancelEvent struct {
	BaseEvent
	OrderID string
}

func (e *CancelEvent) GetType() EventType { return EventTypeCancel }

// Sequence hands out gapless sequence numbers to inbox producers.
// Allocation and enqueue happen under one lock so that two producers can
// never interleave their sends out of order (the engine halts on gaps).
type Sequence struct {
	mu   sync.Mutex
	next uint64
}

// Publish allocates the next sequence number, stamps it via build, and sends
// the built event to the inbox in one critical section. The number is only
// consumed when the send succeeds, so a cancelled send leaves no gap.
func (s *Sequence) Publish(ctx context.Context, inbox chan<- Event, build func(seq uint64) Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev := build(s.next + 1)
	select {
	case inbox <- ev:
		s.next++
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
