package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/silverfox-lab/silverfox/internal/blacklist"
	"github.com/silverfox-lab/silverfox/internal/broker"
	"github.com/silverfox-lab/silverfox/internal/config"
	"github.com/silverfox-lab/silverfox/internal/engine"
	"github.com/silverfox-lab/silverfox/internal/feed"
	"github.com/silverfox-lab/silverfox/internal/indicator"
	"github.com/silverfox-lab/silverfox/internal/logger"
	"github.com/silverfox-lab/silverfox/internal/market"
	"github.com/silverfox-lab/silverfox/internal/store"
	"github.com/silverfox-lab/silverfox/internal/types"
	"github.com/silverfox-lab/silverfox/internal/version"
)

func main() {
	cmd := &cli.Command{
		Name:    "silverfox",
		Usage:   "Silver Fox No.2 intraday decision engine",
		Version: version.GetVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML configuration file (defaults apply if omitted)",
			},
			&cli.StringFlag{
				Name:  "data",
				Value: "data/market.db",
				Usage: "Path to the market data DuckDB database",
			},
			&cli.StringFlag{
				Name:  "state",
				Value: "data/state.db",
				Usage: "Path to the durable state DuckDB database",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Also write logs to this file",
			},
			&cli.FloatFlag{
				Name:  "cash",
				Value: 100_000,
				Usage: "Starting cash for the paper gateway",
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	log, err := buildLogger(cmd.String("log-file"))
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}

	kv, err := store.NewDuckDBKV(cmd.String("state"))
	if err != nil {
		return err
	}
	defer kv.Close() //nolint:errcheck

	mkt, err := market.NewDuckDBMarket(cmd.String("data"), log)
	if err != nil {
		return err
	}
	defer mkt.Close() //nolint:errcheck

	positions, err := store.NewPositionStore(kv)
	if err != nil {
		return err
	}

	ledger, err := store.NewSelectionLedger(kv)
	if err != nil {
		return err
	}

	cache := indicator.NewCache(mkt, mkt, kv, log, cfg.Buy.DayCount, cfg.Buy.TargetPrefixes)

	bl := blacklist.NewFilter(log,
		blacklist.Source{Name: "restricted", Fetch: mkt.RestrictedSymbols},
		blacklist.Source{Name: "oversized", Fetch: func(ctx context.Context) ([]string, error) {
			return mkt.SymbolsAboveMarketCap(ctx, cfg.Buy.MarketCapCeiling)
		}})

	eng := engine.NewEngine(cfg, log)
	gateway := broker.NewPaperGateway(cmd.Float("cash"), eng.Callbacks(), log)

	eng.SetGateway(gateway)
	eng.SetNotifier(broker.NewLogNotifier(log))
	eng.SetFeed(buildReplayFeed(ctx, mkt, cfg, log))
	eng.SetCalendar(mkt)
	eng.SetCache(cache)
	eng.SetBlacklist(bl)
	eng.SetPositionStore(positions)
	eng.SetLedger(ledger)

	if err := eng.Initialize(); err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := eng.Run(runCtx); err != nil && err != context.Canceled {
		return err
	}

	return nil
}

func buildLogger(path string) (*logger.Logger, error) {
	if path != "" {
		return logger.NewLoggerWithFile(path)
	}

	return logger.NewLogger()
}

// buildReplayFeed synthesizes the push stream from the last recorded
// session, replayed once per second. Stands in for the broker's live feed
// in paper runs; an empty database simply yields a silent feed.
func buildReplayFeed(ctx context.Context, mkt *market.DuckDBMarket, cfg *config.Config, log *logger.Logger) *feed.ReplayFeed {
	const sessionSeconds = 4 * 60 * 60

	today := time.Now().Format("2006-01-02")

	frame, err := latestFrame(ctx, mkt, cfg, today)
	if err != nil {
		log.Warn("No replay data available", zap.Error(err))

		return feed.NewReplayFeed(nil, time.Second)
	}

	frames := make([][]types.Quote, sessionSeconds)
	for i := range frames {
		frames[i] = frame
	}

	return feed.NewReplayFeed(frames, time.Second)
}

func latestFrame(ctx context.Context, mkt *market.DuckDBMarket, cfg *config.Config, date string) ([]types.Quote, error) {
	symbols, err := mkt.ListSymbols(ctx, cfg.Buy.TargetPrefixes)
	if err != nil {
		return nil, err
	}

	startDate, err := mkt.PrevTradingDay(ctx, date, 2)
	if err != nil {
		return nil, err
	}

	endDate, err := mkt.PrevTradingDay(ctx, date, 1)
	if err != nil {
		return nil, err
	}

	bars, err := mkt.FetchDailyBars(ctx, symbols, startDate, endDate)
	if err != nil {
		return nil, err
	}

	frame := make([]types.Quote, 0, len(bars))

	for symbol, daily := range bars {
		if len(daily) < 2 {
			continue
		}

		last := daily[len(daily)-1]
		prev := daily[len(daily)-2]

		frame = append(frame, types.Quote{
			Symbol:    symbol,
			LastPrice: last.Close,
			Open:      last.Open,
			PrevClose: prev.Close,
			High:      last.High,
			Low:       last.Low,
			Volume:    last.Volume,
			Amount:    last.Amount,
		})
	}

	return frame, nil
}
