package service

import (
	"testing"

	"imbalance_go/internal/domain"

	"github.com/shopspring/decimal"
)

func TestSession_PublishAndRead(t *testing.T) {
	s := NewSession()

	if !s.UpdatedAt().IsZero() {
		t.Error("fresh session should have a zero update time")
	}

	q := domain.QuoteSnapshot{
		Bid: decimal.RequireFromString("10.00"),
		Ask: decimal.RequireFromString("10.01"),
	}
	p := domain.PositionSnapshot{FilledShares: 100, State: domain.StateLong}
	s.Publish(q, p)

	if got := s.Quote(); !got.Bid.Equal(q.Bid) || !got.Ask.Equal(q.Ask) {
		t.Errorf("quote = %+v, want %+v", got, q)
	}
	if got := s.Position(); got.FilledShares != 100 || got.State != domain.StateLong {
		t.Errorf("position = %+v, want %+v", got, p)
	}
	if s.UpdatedAt().IsZero() {
		t.Error("update time not recorded")
	}
}
