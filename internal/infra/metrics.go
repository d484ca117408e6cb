package infra

import (
	"sync/atomic"
	"time"
)

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety: the hotpath writes, anyone reads.
type Metrics struct {
	quotesProcessed atomic.Uint64
	levelChanges    atomic.Uint64
	tradePrints     atomic.Uint64
	ordersSubmitted atomic.Uint64
	ordersFilled    atomic.Uint64
	ordersCanceled  atomic.Uint64
	rejectsTotal    atomic.Uint64
}

// NewMetrics creates an empty metrics set. One instance per run; the engine
// and feed share it by reference.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordQuote records a processed quote update.
func (m *Metrics) RecordQuote() {
	m.quotesProcessed.Add(1)
}

// RecordLevelChange records a confirmed level change.
func (m *Metrics) RecordLevelChange() {
	m.levelChanges.Add(1)
}

// RecordTradePrint records a processed tape print.
func (m *Metrics) RecordTradePrint() {
	m.tradePrints.Add(1)
}

// RecordOrderSubmitted records an order handed to execution.
func (m *Metrics) RecordOrderSubmitted() {
	m.ordersSubmitted.Add(1)
}

// RecordOrderFilled records a filled order.
func (m *Metrics) RecordOrderFilled() {
	m.ordersFilled.Add(1)
}

// RecordOrderCanceled records a cancelled order.
func (m *Metrics) RecordOrderCanceled() {
	m.ordersCanceled.Add(1)
}

// RecordReject records a rejected operation (invalid quote, overfill, ...).
func (m *Metrics) RecordReject() {
	m.rejectsTotal.Add(1)
}

// MetricsSnapshot is a point-in-time view of all metrics.
type MetricsSnapshot struct {
	QuotesProcessed uint64
	LevelChanges    uint64
	TradePrints     uint64
	OrdersSubmitted uint64
	OrdersFilled    uint64
	OrdersCanceled  uint64
	RejectsTotal    uint64
	Timestamp       time.Time
}

// Snapshot returns current metrics as a snapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		QuotesProcessed: m.quotesProcessed.Load(),
		LevelChanges:    m.levelChanges.Load(),
		TradePrints:     m.tradePrints.Load(),
		OrdersSubmitted: m.ordersSubmitted.Load(),
		OrdersFilled:    m.ordersFilled.Load(),
		OrdersCanceled:  m.ordersCanceled.Load(),
		RejectsTotal:    m.rejectsTotal.Load(),
		Timestamp:       time.Now(),
	}
}

// Reset clears all metrics (for testing).
func (m *Metrics) Reset() {
	m.quotesProcessed.Store(0)
	m.levelChanges.Store(0)
	m.tradePrints.Store(0)
	m.ordersSubmitted.Store(0)
	m.ordersFilled.Store(0)
	m.ordersCanceled.Store(0)
	m.rejectsTotal.Store(0)
}
