package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"imbalance_go/internal/domain"
	"imbalance_go/internal/event"
	"imbalance_go/internal/execution"
	"imbalance_go/internal/infra"
	"imbalance_go/internal/strategy"

	"github.com/google/uuid"
)

// Sequencer is the core single-threaded event processor. All mutation of the
// quote state and the position flows through one goroutine, so the ordering
// invariants (bid-before-ask tie-break, fill ordering against pending
// quantity) hold without locking the domain structures.
type Sequencer struct {
	inbox   chan event.Event
	nextSeq uint64

	quote    *domain.QuoteState
	position *domain.Position
	policy   strategy.Policy
	exec     execution.Execution
	metrics  *infra.Metrics

	// Boundary: notified with fresh snapshots after every processed event.
	onStateUpdate func(domain.QuoteSnapshot, domain.PositionSnapshot)
}

// NewSequencer creates a new sequencer instance.
func NewSequencer(
	inboxSize int,
	quote *domain.QuoteState,
	position *domain.Position,
	policy strategy.Policy,
	exec execution.Execution,
	metrics *infra.Metrics,
	onUpdate func(domain.QuoteSnapshot, domain.PositionSnapshot),
) *Sequencer {
	return &Sequencer{
		inbox:         make(chan event.Event, inboxSize),
		nextSeq:       1,
		quote:         quote,
		position:      position,
		policy:        policy,
		exec:          exec,
		metrics:       metrics,
		onStateUpdate: onUpdate,
	}
}

// Inbox returns the event channel. External producers send events here.
func (s *Sequencer) Inbox() chan<- event.Event {
	return s.inbox
}

// Run starts the main event loop. This MUST be run in a single goroutine.
// On cancellation it drains whatever is already buffered before returning,
// so a completed replay is always fully processed.
func (s *Sequencer) Run(ctx context.Context) {
	slog.Info("Sequencer started (single-thread hotpath)")

	defer func() {
		if r := recover(); r != nil {
			slog.Error("CRITICAL_PANIC_DETECTED", slog.Any("panic", r))
			s.DumpState("panic_dump.json")
			panic(fmt.Sprintf("HALTED: %v", r))
		}
	}()

	for {
		select {
		case <-ctx.Done():
			s.drain()
			slog.Info("Sequencer stopped")
			return
		case ev := <-s.inbox:
			s.processEvent(ev)
		}
	}
}

func (s *Sequencer) drain() {
	for {
		select {
		case ev := <-s.inbox:
			s.processEvent(ev)
		default:
			return
		}
	}
}

func (s *Sequencer) processEvent(ev event.Event) {
	// Sequence gap check (halt policy)
	if ev.GetSeq() != s.nextSeq {
		panic(fmt.Sprintf("SEQUENCE_GAP_DETECTED: expected %d, got %d", s.nextSeq, ev.GetSeq()))
	}

	switch e := ev.(type) {
	case *event.QuoteEvent:
		s.handleQuote(e)
		event.ReleaseQuoteEvent(e)
	case *event.TradePrintEvent:
		s.handleTradePrint(e)
		event.ReleaseTradePrintEvent(e)
	case *event.FillEvent:
		s.handleFill(e.OrderID, e.Qty, time.UnixMicro(e.Ts))
	case *event.CancelEvent:
		s.handleCancel(e.OrderID)
	default:
		slog.Warn("Unknown event type", slog.Any("type", ev.GetType()))
	}

	s.nextSeq++

	if s.onStateUpdate != nil {
		s.onStateUpdate(s.quote.Snapshot(), s.position.Snapshot())
	}
}

func (s *Sequencer) handleQuote(e *event.QuoteEvent) {
	outcome, err := s.quote.Update(e.Bid, e.Ask, e.BidSize, e.AskSize, time.UnixMicro(e.Ts))
	if err != nil {
		// Rejected update is a state no-op; the feed decides what to do.
		s.metrics.RecordReject()
		slog.Warn("quote rejected", slog.Any("error", err), slog.Uint64("seq", e.Seq))
		return
	}
	s.metrics.RecordQuote()

	if !outcome.Changed {
		return
	}
	s.metrics.RecordLevelChange()
	slog.Debug("level change",
		slog.String("side", outcome.Side.String()),
		slog.String("level", outcome.Level.String()))

	if s.policy != nil {
		actions := s.policy.OnLevelChange(outcome, s.quote.Snapshot(), s.position.Snapshot())
		s.dispatchActions(actions, time.UnixMicro(e.Ts))
	}
}

func (s *Sequencer) handleTradePrint(e *event.TradePrintEvent) {
	s.metrics.RecordTradePrint()
	if s.policy == nil {
		return
	}
	tp := domain.TradePrint{Price: e.Price, Size: e.Size, Ts: time.UnixMicro(e.Ts)}
	actions := s.policy.OnTradePrint(tp, s.quote.Snapshot(), s.position.Snapshot())
	s.dispatchActions(actions, time.UnixMicro(e.Ts))
}

// dispatchActions submits each policy action to execution and applies the
// synchronous report. Follow-up actions from OnFill are processed in the same
// pass, still on the hotpath goroutine.
func (s *Sequencer) dispatchActions(actions []strategy.Action, now time.Time) {
	queue := actions
	for len(queue) > 0 {
		action := queue[0]
		queue = queue[1:]

		order := domain.Order{
			ID:          uuid.New().String(),
			Price:       action.Price,
			Qty:         action.Qty,
			SubmittedAt: now,
		}
		switch action.Type {
		case strategy.ActionBuy:
			order.Side = domain.SideBuy
		case strategy.ActionSell:
			order.Side = domain.SideSell
		default:
			slog.Warn("unknown action type", slog.Any("type", action.Type))
			continue
		}

		if err := s.registerPending(order); err != nil {
			s.metrics.RecordReject()
			slog.Warn("order rejected", slog.Any("error", err))
			continue
		}
		s.metrics.RecordOrderSubmitted()
		slog.Info("order submitted",
			slog.String("order_id", order.ID),
			slog.String("side", string(order.Side)),
			slog.String("limit", order.Price.String()),
			slog.Int64("qty", order.Qty))

		rep := s.exec.Submit(order, s.quote.Snapshot())
		switch rep.Status {
		case execution.StatusFilled:
			if followUps := s.applyFill(order.ID, rep.FilledQty); followUps != nil {
				queue = append(queue, followUps...)
			}
		case execution.StatusCanceled:
			s.handleCancel(order.ID)
		}
	}
}

func (s *Sequencer) registerPending(o domain.Order) error {
	if o.Side == domain.SideBuy {
		return s.position.RegisterPendingBuy(o.ID, o.Qty, o.Price)
	}
	return s.position.RegisterPendingSell(o.ID, o.Qty, o.Price)
}

// applyFill mutates the position for one fill and invokes the policy's
// OnFill hook. Returns any follow-up actions the policy produced.
func (s *Sequencer) applyFill(orderID string, qty int64) []strategy.Action {
	side, price, _ := s.position.PendingOrder(orderID)

	closed, err := s.position.ApplyFill(orderID, qty)
	if err != nil {
		s.metrics.RecordReject()
		slog.Warn("fill rejected", slog.Any("error", err), slog.String("order_id", orderID))
		return nil
	}
	s.metrics.RecordOrderFilled()
	if closed != nil {
		slog.Info("trade closed",
			slog.String("direction", string(closed.Direction)),
			slog.String("entry", closed.EntryPrice.String()),
			slog.String("exit", closed.ExitPrice.String()),
			slog.Int64("qty", closed.Qty),
			slog.String("pnl", closed.PnL().String()))
	}

	if s.policy == nil {
		return nil
	}
	fill := domain.Fill{OrderID: orderID, Side: side, Price: price, Qty: qty}
	return s.policy.OnFill(fill, s.position.Snapshot())
}

// handleFill consumes a fill event from an external order-management feed.
// Follow-up orders are stamped with the event's timestamp, keeping a replayed
// session deterministic.
func (s *Sequencer) handleFill(orderID string, qty int64, ts time.Time) {
	if followUps := s.applyFill(orderID, qty); len(followUps) > 0 {
		s.dispatchActions(followUps, ts)
	}
}

func (s *Sequencer) handleCancel(orderID string) {
	if err := s.position.RemovePendingOrder(orderID); err != nil {
		s.metrics.RecordReject()
		slog.Warn("cancel rejected", slog.Any("error", err), slog.String("order_id", orderID))
		return
	}
	s.metrics.RecordOrderCanceled()
}

// DumpState writes the entire internal state to a file (for post-mortem).
func (s *Sequencer) DumpState(filename string) {
	slog.Info("Dumping internal state...", slog.String("file", filename))

	data := struct {
		NextSeq  uint64                  `json:"next_seq"`
		Quote    domain.QuoteSnapshot    `json:"quote"`
		Position domain.PositionSnapshot `json:"position"`
		Metrics  infra.MetricsSnapshot   `json:"metrics"`
	}{
		NextSeq:  s.nextSeq,
		Quote:    s.quote.Snapshot(),
		Position: s.position.Snapshot(),
		Metrics:  s.metrics.Snapshot(),
	}

	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		slog.Error("Failed to marshal state", slog.Any("error", err))
		return
	}

	if err := os.WriteFile(filename, b, 0644); err != nil {
		slog.Error("Failed to write state dump", slog.Any("error", err))
	}
}
