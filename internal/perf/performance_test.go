package perf

import (
	"errors"
	"math"
	"testing"
	"time"

	"imbalance_go/internal/domain"

	"github.com/shopspring/decimal"
)

func bars(closes ...string) []domain.Bar {
	out := make([]domain.Bar, len(closes))
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		out[i] = domain.Bar{Date: day.AddDate(0, 0, i), Close: decimal.RequireFromString(c)}
	}
	return out
}

func approx(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s = %v, want %v (±%v)", name, got, want, tol)
	}
}

func TestCalculate_KnownSeries(t *testing.T) {
	// Prices [100, 101, 99, 103]:
	//   returns = [0.01, -0.019802, 0.040404]
	//   wealth  = [1.01, 0.99, 1.03] -> cumulative = 0.03
	//   drawdown peaks at (1.01 - 0.99) / 1.01 = 0.019802 (the 101 -> 99 dip)
	res, err := Calculate(bars("100", "101", "99", "103"), Options{})
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	if len(res.DailyReturns) != 3 {
		t.Fatalf("returns len = %d, want 3", len(res.DailyReturns))
	}
	approx(t, "returns[0]", res.DailyReturns[0], 0.01, 1e-9)
	approx(t, "returns[1]", res.DailyReturns[1], -2.0/101.0, 1e-9)
	approx(t, "returns[2]", res.DailyReturns[2], 4.0/99.0, 1e-9)

	approx(t, "cumulative", res.CumulativeReturn, 0.03, 1e-9)
	approx(t, "max drawdown", res.MaxDrawdown, 2.0/101.0, 1e-9)

	// mean = 0.010200687, annualized = mean * 252
	approx(t, "annualized return", res.AnnualizedReturn, 2.570573, 1e-4)
	// sample stdev = 0.030103, annualized = stdev * sqrt(252)
	approx(t, "annualized volatility", res.AnnualizedVolatility, 0.477877, 1e-4)

	sharpe, err := res.Sharpe()
	if err != nil {
		t.Fatalf("Sharpe: %v", err)
	}
	approx(t, "sharpe", sharpe, 2.570573/0.477877, 1e-3)

	// Only one negative return: the downside deviation is undefined.
	if _, err := res.Sortino(); !errors.Is(err, domain.ErrUndefinedRatio) {
		t.Errorf("Sortino err = %v, want ErrUndefinedRatio", err)
	}
}

func TestCalculate_FlatSeries(t *testing.T) {
	// All equal prices: cumulative return 0 and zero volatility, so both
	// ratios are undefined rather than silently coerced.
	res, err := Calculate(bars("50", "50", "50", "50"), Options{})
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	approx(t, "cumulative", res.CumulativeReturn, 0, 1e-12)
	approx(t, "max drawdown", res.MaxDrawdown, 0, 1e-12)

	if _, err := res.Sharpe(); !errors.Is(err, domain.ErrUndefinedRatio) {
		t.Errorf("Sharpe err = %v, want ErrUndefinedRatio", err)
	}
	if _, err := res.Sortino(); !errors.Is(err, domain.ErrUndefinedRatio) {
		t.Errorf("Sortino err = %v, want ErrUndefinedRatio", err)
	}
}

func TestCalculate_Sortino(t *testing.T) {
	// Two negative returns make the downside deviation well-defined:
	// prices [100, 110, 99, 108.9, 98.01] -> returns [0.1, -0.1, 0.1, -0.1]
	// downside sample stdev of [-0.1, -0.1] = 0.
	res, err := Calculate(bars("100", "110", "99", "108.9", "98.01"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := res.Sortino(); !errors.Is(err, domain.ErrUndefinedRatio) {
		t.Errorf("identical downside returns: err = %v, want ErrUndefinedRatio", err)
	}

	// Distinct negative returns -> a finite ratio.
	res, err = Calculate(bars("100", "110", "99", "108.9", "103.455"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	sortino, err := res.Sortino()
	if err != nil {
		t.Fatalf("Sortino: %v", err)
	}
	if math.IsNaN(sortino) || math.IsInf(sortino, 0) {
		t.Errorf("sortino = %v, want finite", sortino)
	}
}

func TestCalculate_RiskFreeRate(t *testing.T) {
	res, err := Calculate(bars("100", "101", "99", "103"), Options{RiskFreeRate: 0.05})
	if err != nil {
		t.Fatal(err)
	}
	sharpe, err := res.Sharpe()
	if err != nil {
		t.Fatal(err)
	}
	approx(t, "sharpe with rf", sharpe, (res.AnnualizedReturn-0.05)/res.AnnualizedVolatility, 1e-12)
}

func TestCalculate_RejectsDisorderedBars(t *testing.T) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bar := func(offset int, close string) domain.Bar {
		return domain.Bar{Date: day.AddDate(0, 0, offset), Close: decimal.RequireFromString(close)}
	}

	cases := map[string][]domain.Bar{
		"duplicate date": {bar(0, "100"), bar(1, "101"), bar(1, "99")},
		"out of order":   {bar(0, "100"), bar(2, "101"), bar(1, "99")},
	}
	for name, series := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Calculate(series, Options{}); !errors.Is(err, domain.ErrInsufficientData) {
				t.Errorf("err = %v, want ErrInsufficientData", err)
			}
		})
	}
}

func TestCalculate_InsufficientData(t *testing.T) {
	for _, n := range []int{0, 1} {
		series := bars("100", "101")[:n]
		if _, err := Calculate(series, Options{}); !errors.Is(err, domain.ErrInsufficientData) {
			t.Errorf("%d bars: err = %v, want ErrInsufficientData", n, err)
		}
	}
}
