package feed

import (
	"fmt"
	"time"

	"imbalance_go/internal/domain"

	"github.com/shopspring/decimal"
)

// Bar CSV columns: date,close (date as 2006-01-02).

// LoadBars reads the historical close series for the performance engine.
// Dates must be strictly increasing; duplicates and disorder are errors, not
// silently reordered.
func LoadBars(path string) ([]domain.Bar, error) {
	var out []domain.Bar
	err := readCSV(path, 2, func(line int, rec []string) error {
		date, err := time.Parse("2006-01-02", rec[0])
		if err != nil {
			if line == 1 {
				return nil // Header row
			}
			return fmt.Errorf("line %d: bad date %q", line, rec[0])
		}
		close, err := decimal.NewFromString(rec[1])
		if err != nil {
			return fmt.Errorf("line %d: bad close %q", line, rec[1])
		}
		if !close.IsPositive() {
			return fmt.Errorf("line %d: close must be positive, got %s", line, close)
		}
		if len(out) > 0 && !date.After(out[len(out)-1].Date) {
			return fmt.Errorf("line %d: bars must be strictly chronological", line)
		}
		out = append(out, domain.Bar{Date: date, Close: close})
		return nil
	})
	return out, err
}
