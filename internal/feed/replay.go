// Package feed is the local stand-in for the market-data collaborator: it
// replays recorded quote ticks and tape prints from CSV files into the engine
// inbox, in timestamp order, with gapless sequence numbers.
package feed

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"imbalance_go/internal/event"

	"github.com/shopspring/decimal"
)

// Quote CSV columns: ts,bid,ask,bid_size,ask_size
// Print CSV columns: ts,price,size
// Timestamps are RFC 3339 (nanosecond precision accepted). A header row is
// skipped when its first column does not parse as a timestamp.

type quoteTick struct {
	ts      time.Time
	bid     decimal.Decimal
	ask     decimal.Decimal
	bidSize int64
	askSize int64
}

type printTick struct {
	ts    time.Time
	price decimal.Decimal
	size  int64
}

// Replayer merges the two recorded streams and publishes them to the inbox.
type Replayer struct {
	quotesPath string
	printsPath string // Optional; empty means quotes only
	inbox      chan<- event.Event
	seq        *event.Sequence
}

// NewReplayer creates a replay source for one session.
func NewReplayer(quotesPath, printsPath string, inbox chan<- event.Event, seq *event.Sequence) *Replayer {
	return &Replayer{
		quotesPath: quotesPath,
		printsPath: printsPath,
		inbox:      inbox,
		seq:        seq,
	}
}

// Run loads both files and publishes every event in timestamp order. At equal
// timestamps the quote goes first, so a print never acts on a stale book.
// Returns once the session is fully published or the context is cancelled.
func (r *Replayer) Run(ctx context.Context) error {
	quotes, err := loadQuotes(r.quotesPath)
	if err != nil {
		return fmt.Errorf("load quotes: %w", err)
	}

	var prints []printTick
	if r.printsPath != "" {
		prints, err = loadPrints(r.printsPath)
		if err != nil {
			return fmt.Errorf("load prints: %w", err)
		}
	}

	slog.Info("replay session loaded",
		slog.Int("quotes", len(quotes)),
		slog.Int("prints", len(prints)))

	qi, pi := 0, 0
	for qi < len(quotes) || pi < len(prints) {
		if pi >= len(prints) || (qi < len(quotes) && !quotes[qi].ts.After(prints[pi].ts)) {
			q := quotes[qi]
			qi++
			err := r.seq.Publish(ctx, r.inbox, func(seq uint64) event.Event {
				ev := event.AcquireQuoteEvent()
				ev.Seq = seq
				ev.Ts = q.ts.UnixMicro()
				ev.Bid = q.bid
				ev.Ask = q.ask
				ev.BidSize = q.bidSize
				ev.AskSize = q.askSize
				return ev
			})
			if err != nil {
				return err
			}
		} else {
			p := prints[pi]
			pi++
			err := r.seq.Publish(ctx, r.inbox, func(seq uint64) event.Event {
				ev := event.AcquireTradePrintEvent()
				ev.Seq = seq
				ev.Ts = p.ts.UnixMicro()
				ev.Price = p.price
				ev.Size = p.size
				return ev
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func loadQuotes(path string) ([]quoteTick, error) {
	var out []quoteTick
	err := readCSV(path, 5, func(line int, rec []string) error {
		ts, err := time.Parse(time.RFC3339Nano, rec[0])
		if err != nil {
			if line == 1 {
				return nil // Header row
			}
			return fmt.Errorf("line %d: bad timestamp %q", line, rec[0])
		}
		bid, err := decimal.NewFromString(rec[1])
		if err != nil {
			return fmt.Errorf("line %d: bad bid %q", line, rec[1])
		}
		ask, err := decimal.NewFromString(rec[2])
		if err != nil {
			return fmt.Errorf("line %d: bad ask %q", line, rec[2])
		}
		bidSize, err := strconv.ParseInt(rec[3], 10, 64)
		if err != nil {
			return fmt.Errorf("line %d: bad bid size %q", line, rec[3])
		}
		askSize, err := strconv.ParseInt(rec[4], 10, 64)
		if err != nil {
			return fmt.Errorf("line %d: bad ask size %q", line, rec[4])
		}
		if len(out) > 0 && ts.Before(out[len(out)-1].ts) {
			return fmt.Errorf("line %d: quotes out of chronological order", line)
		}
		out = append(out, quoteTick{ts: ts, bid: bid, ask: ask, bidSize: bidSize, askSize: askSize})
		return nil
	})
	return out, err
}

func loadPrints(path string) ([]printTick, error) {
	var out []printTick
	err := readCSV(path, 3, func(line int, rec []string) error {
		ts, err := time.Parse(time.RFC3339Nano, rec[0])
		if err != nil {
			if line == 1 {
				return nil
			}
			return fmt.Errorf("line %d: bad timestamp %q", line, rec[0])
		}
		price, err := decimal.NewFromString(rec[1])
		if err != nil {
			return fmt.Errorf("line %d: bad price %q", line, rec[1])
		}
		size, err := strconv.ParseInt(rec[2], 10, 64)
		if err != nil {
			return fmt.Errorf("line %d: bad size %q", line, rec[2])
		}
		if len(out) > 0 && ts.Before(out[len(out)-1].ts) {
			return fmt.Errorf("line %d: prints out of chronological order", line)
		}
		out = append(out, printTick{ts: ts, price: price, size: size})
		return nil
	})
	return out, err
}

func readCSV(path string, fields int, handle func(line int, rec []string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = fields
	line := 0
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		line++
		if err := handle(line, rec); err != nil {
			return err
		}
	}
}
