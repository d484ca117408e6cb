package execution

import (
	"log/slog"

	"imbalance_go/internal/domain"
)

// Status of a completed submission.
type Status string

const (
	StatusFilled   Status = "FILLED"
	StatusCanceled Status = "CANCELED"
)

// Report is the synchronous outcome of a paper submission.
type Report struct {
	OrderID   string
	Status    Status
	FilledQty int64
}

// Execution is the order-routing boundary. The core only assumes a
// synchronous report per submission; a real venue adapter would instead feed
// FillEvent/CancelEvent back through the inbox.
type Execution interface {
	Submit(order domain.Order, quote domain.QuoteSnapshot) Report
}

// PaperExecution simulates an immediate-or-cancel venue deterministically:
// a marketable order fills in full at its limit price, anything else is
// cancelled. No partial fills, no queue position, no latency.
type PaperExecution struct {
	fills []Report
}

// NewPaperExecution creates a paper execution venue.
func NewPaperExecution() *PaperExecution {
	return &PaperExecution{}
}

// Submit resolves the order against the current quote.
func (p *PaperExecution) Submit(order domain.Order, quote domain.QuoteSnapshot) Report {
	marketable := (order.Side == domain.SideBuy && order.Price.GreaterThanOrEqual(quote.Ask)) ||
		(order.Side == domain.SideSell && order.Price.LessThanOrEqual(quote.Bid))

	rep := Report{OrderID: order.ID, Status: StatusCanceled}
	if marketable {
		rep.Status = StatusFilled
		rep.FilledQty = order.Qty
	}

	slog.Debug("paper submission resolved",
		slog.String("order_id", order.ID),
		slog.String("side", string(order.Side)),
		slog.String("limit", order.Price.String()),
		slog.String("status", string(rep.Status)))

	p.fills = append(p.fills, rep)
	return rep
}

// Reports returns every report issued so far (for tests and post-mortems).
func (p *PaperExecution) Reports() []Report {
	out := make([]Report, len(p.fills))
	copy(out, p.fills)
	return out
}
