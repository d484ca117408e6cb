package feed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"imbalance_go/internal/event"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReplayer_MergesStreamsInOrder(t *testing.T) {
	dir := t.TempDir()
	quotes := writeFile(t, dir, "quotes.csv",
		"ts,bid,ask,bid_size,ask_size\n"+
			"2024-03-01T09:30:00Z,10.00,10.01,500,300\n"+
			"2024-03-01T09:30:02Z,10.01,10.02,400,200\n")
	prints := writeFile(t, dir, "prints.csv",
		"ts,price,size\n"+
			"2024-03-01T09:30:01Z,10.01,150\n"+
			"2024-03-01T09:30:02Z,10.02,100\n")

	inbox := make(chan event.Event, 16)
	var seq event.Sequence
	r := NewReplayer(quotes, prints, inbox, &seq)
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	close(inbox)

	var got []event.Event
	for ev := range inbox {
		got = append(got, ev)
	}
	if len(got) != 4 {
		t.Fatalf("events = %d, want 4", len(got))
	}

	// Quote, print, then quote before print at the equal 09:30:02 timestamp.
	wantTypes := []event.EventType{
		event.EventTypeQuote,
		event.EventTypeTradePrint,
		event.EventTypeQuote,
		event.EventTypeTradePrint,
	}
	for i, ev := range got {
		if ev.GetType() != wantTypes[i] {
			t.Errorf("event %d type = %s, want %s", i, ev.GetType(), wantTypes[i])
		}
		if ev.GetSeq() != uint64(i+1) {
			t.Errorf("event %d seq = %d, want %d (gapless)", i, ev.GetSeq(), i+1)
		}
	}
}

func TestReplayer_QuotesOnly(t *testing.T) {
	dir := t.TempDir()
	quotes := writeFile(t, dir, "quotes.csv",
		"2024-03-01T09:30:00Z,10.00,10.01,500,300\n") // No header is fine too

	inbox := make(chan event.Event, 4)
	var seq event.Sequence
	if err := NewReplayer(quotes, "", inbox, &seq).Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(inbox) != 1 {
		t.Errorf("events = %d, want 1", len(inbox))
	}
}

func TestReplayer_RejectsDisorder(t *testing.T) {
	dir := t.TempDir()
	quotes := writeFile(t, dir, "quotes.csv",
		"2024-03-01T09:30:02Z,10.00,10.01,500,300\n"+
			"2024-03-01T09:30:01Z,10.00,10.01,500,300\n")

	inbox := make(chan event.Event, 4)
	var seq event.Sequence
	if err := NewReplayer(quotes, "", inbox, &seq).Run(context.Background()); err == nil {
		t.Error("expected an error for out-of-order quotes")
	}
}

func TestReplayer_RejectsMalformedRows(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"bad bid":   "2024-03-01T09:30:00Z,abc,10.01,500,300\n",
		"bad size":  "2024-03-01T09:30:00Z,10.00,10.01,many,300\n",
		"bad stamp": "ts,bid,ask,bid_size,ask_size\nnot-a-time,10.00,10.01,500,300\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			quotes := writeFile(t, dir, "q_"+name+".csv", content)
			inbox := make(chan event.Event, 4)
			var seq event.Sequence
			if err := NewReplayer(quotes, "", inbox, &seq).Run(context.Background()); err == nil {
				t.Error("expected a parse error")
			}
		})
	}
}
