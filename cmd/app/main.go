package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"imbalance_go/internal/app"
	"imbalance_go/internal/domain"
	"imbalance_go/internal/engine"
	"imbalance_go/internal/event"
	"imbalance_go/internal/execution"
	"imbalance_go/internal/feed"
	"imbalance_go/internal/infra"
	"imbalance_go/internal/perf"
	"imbalance_go/internal/service"
	"imbalance_go/internal/strategy"

	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(*configPath); err != nil {
		slog.Error("❌ Bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}
	cfg := bootstrap.Config

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	event.Warmup()

	// Owned instances, passed by reference into the event loop. No singletons.
	quote := domain.NewQuoteState(cfg.Instrument.TickSize.Decimal)
	position := domain.NewPosition()
	policy := strategy.NewImbalancePolicy(cfg.Instrument.LotSize, bootstrap.MaxShares)
	paper := execution.NewPaperExecution()
	metrics := infra.NewMetrics()
	session := service.NewSession()

	seq := engine.NewSequencer(cfg.Engine.InboxSize, quote, position, policy, paper, metrics, session.Publish)

	var seqNums event.Sequence
	replayer := feed.NewReplayer(cfg.Feed.QuotesPath, cfg.Feed.PrintsPath, seq.Inbox(), &seqNums)

	runCtx, cancel := context.WithCancel(ctx)
	g, _ := errgroup.WithContext(runCtx)

	g.Go(func() error {
		seq.Run(runCtx)
		return nil
	})
	g.Go(func() error {
		defer cancel() // Replay done (or failed): let the sequencer drain and stop
		return replayer.Run(runCtx)
	})

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("❌ Session failed", slog.Any("error", err))
		os.Exit(1)
	}

	report(bootstrap, position, metrics, session)
}

// report logs the end-of-run statistics as plain structured data.
func report(bootstrap *app.Bootstrap, position *domain.Position, metrics *infra.Metrics, session *service.Session) {
	cfg := bootstrap.Config

	snap := metrics.Snapshot()
	slog.Info("session finished",
		slog.Uint64("quotes", snap.QuotesProcessed),
		slog.Uint64("level_changes", snap.LevelChanges),
		slog.Uint64("prints", snap.TradePrints),
		slog.Uint64("orders_submitted", snap.OrdersSubmitted),
		slog.Uint64("orders_filled", snap.OrdersFilled),
		slog.Uint64("orders_canceled", snap.OrdersCanceled),
		slog.Uint64("rejects", snap.RejectsTotal))

	pos := session.Position()
	pm := position.Metrics()
	slog.Info("position metrics",
		slog.Int64("filled_shares", pos.FilledShares),
		slog.Int64("pending_buy", pos.PendingBuyShares),
		slog.Int64("pending_sell", pos.PendingSellShares),
		slog.Int("num_wins", pm.NumWins),
		slog.Int("num_losses", pm.NumLosses),
		slog.Float64("win_rate", pm.WinRate))

	if len(bootstrap.Bars) == 0 {
		return
	}
	result, err := perf.Calculate(bootstrap.Bars, perf.Options{
		RiskFreeRate:   cfg.Performance.RiskFreeRate,
		PeriodsPerYear: cfg.Performance.PeriodsPerYear,
	})
	if err != nil {
		slog.Warn("performance not available", slog.Any("error", err))
		return
	}

	attrs := []any{
		slog.Float64("cumulative_return", result.CumulativeReturn),
		slog.Float64("annualized_return", result.AnnualizedReturn),
		slog.Float64("annualized_volatility", result.AnnualizedVolatility),
		slog.Float64("max_drawdown", result.MaxDrawdown),
	}
	// Undefined ratios are reported as absent, never as zero.
	if sharpe, err := result.Sharpe(); err == nil {
		attrs = append(attrs, slog.Float64("sharpe", sharpe))
	} else {
		slog.Warn("sharpe undefined", slog.Any("error", err))
	}
	if sortino, err := result.Sortino(); err == nil {
		attrs = append(attrs, slog.Float64("sortino", sortino))
	} else {
		slog.Warn("sortino undefined", slog.Any("error", err))
	}
	slog.Info("performance", attrs...)
}
