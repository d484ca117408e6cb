package app

import (
	"log/slog"

	"imbalance_go/internal/domain"
	"imbalance_go/internal/feed"
	"imbalance_go/internal/infra"
)

// Bootstrap orchestrates the application startup sequence
type Bootstrap struct {
	Config    *infra.Config
	Bars      []domain.Bar
	MaxShares int64
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize loads config, wires the logger, and materializes the historical
// series the run needs for sizing and end-of-run performance.
func (b *Bootstrap) Initialize(configPath string) error {
	cfg, err := infra.LoadConfig(configPath)
	if err != nil {
		return err // Let main handle the error
	}
	b.Config = cfg

	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)
	slog.Info("🚀 Bootstrapping imbalance core...",
		slog.String("symbol", cfg.Instrument.Symbol),
		slog.String("tick", cfg.Instrument.TickSize.String()))

	if cfg.Feed.BarsPath != "" {
		bars, err := feed.LoadBars(cfg.Feed.BarsPath)
		if err != nil {
			return err
		}
		b.Bars = bars
		slog.Info("✅ Historical bars loaded", slog.Int("bars", len(bars)))
	}

	b.MaxShares = b.resolveMaxShares()
	slog.Info("✅ Position cap resolved", slog.Int64("max_shares", b.MaxShares))

	return nil
}

// resolveMaxShares returns the configured cap, or derives one from the cash
// balance against the latest close, rounded down to whole lots.
func (b *Bootstrap) resolveMaxShares() int64 {
	cfg := b.Config
	if cfg.Instrument.MaxShares > 0 {
		return cfg.Instrument.MaxShares
	}
	if len(b.Bars) == 0 {
		// No price to size against; one lot is the floor.
		return cfg.Instrument.LotSize
	}
	lastClose := b.Bars[len(b.Bars)-1].Close
	shares := cfg.Instrument.CashBalance.Div(lastClose).IntPart()
	lots := shares / cfg.Instrument.LotSize
	if lots < 1 {
		lots = 1
	}
	return lots * cfg.Instrument.LotSize
}
