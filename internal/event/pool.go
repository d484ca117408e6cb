package event

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Pools for the two high-rate event kinds. Quote ticks and trade prints
// dominate the inbox traffic; fills and cancels are rare enough to allocate.
//
// Usage:
//
//	ev := AcquireQuoteEvent()
//	ev.Bid = bid
//	// ... send and process ...
//	ReleaseQuoteEvent(ev)  // Return to pool after processing
var quotePool = sync.Pool{
	New: func() interface{} {
		return &QuoteEvent{}
	},
}

// AcquireQuoteEvent gets a QuoteEvent from the pool.
// The returned event has zero values and must be initialized.
func AcquireQuoteEvent() *QuoteEvent {
	return quotePool.Get().(*QuoteEvent)
}

// ReleaseQuoteEvent returns a QuoteEvent to the pool.
// The event is reset to zero values before being pooled.
func ReleaseQuoteEvent(ev *QuoteEvent) {
	if ev == nil {
		return
	}
	ev.Seq = 0
	ev.Ts = 0
	ev.Bid = decimal.Decimal{}
	ev.Ask = decimal.Decimal{}
	ev.BidSize = 0
	ev.AskSize = 0

	quotePool.Put(ev)
}

var tradePrintPool = sync.Pool{
	New: func() interface{} {
		return &TradePrintEvent{}
	},
}

// AcquireTradePrintEvent gets a TradePrintEvent from the pool.
func AcquireTradePrintEvent() *TradePrintEvent {
	return tradePrintPool.Get().(*TradePrintEvent)
}

// ReleaseTradePrintEvent returns a TradePrintEvent to the pool.
func ReleaseTradePrintEvent(ev *TradePrintEvent) {
	if ev == nil {
		return
	}
	ev.Seq = 0
	ev.Ts = 0
	ev.Price = decimal.Decimal{}
	ev.Size = 0

	tradePrintPool.Put(ev)
}

// Warmup pre-allocates event objects to reduce GC pressure at startup.
// It acquires and releases a batch of events.
func Warmup() {
	const batchSize = 1000

	quoteEvs := make([]*QuoteEvent, 0, batchSize)
	for i := 0; i < batchSize; i++ {
		quoteEvs = append(quoteEvs, AcquireQuoteEvent())
	}
	for _, ev := range quoteEvs {
		ReleaseQuoteEvent(ev)
	}

	printEvs := make([]*TradePrintEvent, 0, batchSize)
	for i := 0; i < batchSize; i++ {
		printEvs = append(printEvs, AcquireTradePrintEvent())
	}
	for _, ev := range printEvs {
		ReleaseTradePrintEvent(ev)
	}
}
