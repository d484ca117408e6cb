// Package perf computes return and risk statistics from a historical price
// series. Everything here is a pure pass over already-materialized data;
// nothing blocks and nothing is stored.
package perf

import (
	"fmt"
	"math"

	"imbalance_go/internal/domain"
)

// Options tune the annualization. Zero values select the defaults.
type Options struct {
	RiskFreeRate   float64 // Annualized. Default 0.
	PeriodsPerYear int     // Default 252 (trading days).
}

const defaultPeriodsPerYear = 252

// Result holds the derived statistics. The ratio accessors return
// ErrUndefinedRatio instead of coercing a zero denominator to anything.
type Result struct {
	DailyReturns         []float64
	CumulativeReturn     float64
	AnnualizedReturn     float64
	AnnualizedVolatility float64 // NaN when fewer than two returns exist
	MaxDrawdown          float64 // Non-negative fraction off the running peak

	downsideDeviation float64
	downsideDefined   bool
	riskFree          float64
}

// Calculate derives the full statistics set from a chronological close
// series. Fails with ErrInsufficientData when fewer than two prices exist.
func Calculate(bars []domain.Bar, opts Options) (Result, error) {
	if len(bars) < 2 {
		return Result{}, fmt.Errorf("%w: need at least 2 prices, got %d", domain.ErrInsufficientData, len(bars))
	}
	if opts.PeriodsPerYear == 0 {
		opts.PeriodsPerYear = defaultPeriodsPerYear
	}
	// The return arithmetic assumes an ordered series; a disordered or
	// duplicate-date input would silently produce wrong statistics.
	for i := 1; i < len(bars); i++ {
		if !bars[i].Date.After(bars[i-1].Date) {
			return Result{}, fmt.Errorf("%w: bars must be strictly chronological (index %d)", domain.ErrInsufficientData, i)
		}
	}

	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close.InexactFloat64()
	}

	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		returns = append(returns, closes[i]/closes[i-1]-1)
	}

	periods := float64(opts.PeriodsPerYear)
	res := Result{
		DailyReturns:     returns,
		AnnualizedReturn: mean(returns) * periods,
		riskFree:         opts.RiskFreeRate,
	}

	// Cumulative wealth curve doubles as the drawdown base.
	wealth := 1.0
	peak := 1.0
	for _, r := range returns {
		wealth *= 1 + r
		if wealth > peak {
			peak = wealth
		}
		if dd := (peak - wealth) / peak; dd > res.MaxDrawdown {
			res.MaxDrawdown = dd
		}
	}
	res.CumulativeReturn = wealth - 1

	res.AnnualizedVolatility = sampleStdev(returns) * math.Sqrt(periods)

	var negatives []float64
	for _, r := range returns {
		if r < 0 {
			negatives = append(negatives, r)
		}
	}
	// Sample deviation needs at least two points; with fewer, the downside
	// deviation (and so the Sortino ratio) is undefined.
	if len(negatives) >= 2 {
		res.downsideDeviation = sampleStdev(negatives) * math.Sqrt(periods)
		res.downsideDefined = true
	}

	return res, nil
}

// Sharpe returns the Sharpe ratio, or ErrUndefinedRatio for a flat series
// (zero or undefined volatility). Callers must handle the error explicitly.
func (r Result) Sharpe() (float64, error) {
	if !(r.AnnualizedVolatility > 0) {
		return 0, fmt.Errorf("%w: annualized volatility is zero", domain.ErrUndefinedRatio)
	}
	return (r.AnnualizedReturn - r.riskFree) / r.AnnualizedVolatility, nil
}

// Sortino returns the Sortino ratio, or ErrUndefinedRatio when the downside
// deviation is zero or undefined (fewer than two negative returns).
func (r Result) Sortino() (float64, error) {
	if !r.downsideDefined || !(r.downsideDeviation > 0) {
		return 0, fmt.Errorf("%w: downside deviation is zero or undefined", domain.ErrUndefinedRatio)
	}
	return (r.AnnualizedReturn - r.riskFree) / r.downsideDeviation, nil
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// sampleStdev uses the N-1 denominator for consistency with standard finance
// libraries. NaN when fewer than two points exist.
func sampleStdev(xs []float64) float64 {
	if len(xs) < 2 {
		return math.NaN()
	}
	m := mean(xs)
	var ss float64
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}
