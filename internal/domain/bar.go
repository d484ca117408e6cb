package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bar is one historical close, the unit the performance engine consumes.
// Bars must be supplied in chronological order with no duplicate dates.
type Bar struct {
	Date  time.Time       `json:"date"`
	Close decimal.Decimal `json:"close"`
}
