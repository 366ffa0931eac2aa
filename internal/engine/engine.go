// Package engine ties the feed, selector, seller, stores, and broker
// gateway into the per-second decision loop, and owns the daily schedule
// around it (held-day bump, blacklist refresh, indicator rebuild,
// subscription management).
package engine

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/silverfox-lab/silverfox/internal/blacklist"
	"github.com/silverfox-lab/silverfox/internal/broker"
	"github.com/silverfox-lab/silverfox/internal/config"
	"github.com/silverfox-lab/silverfox/internal/feed"
	"github.com/silverfox-lab/silverfox/internal/indicator"
	"github.com/silverfox-lab/silverfox/internal/logger"
	"github.com/silverfox-lab/silverfox/internal/market"
	"github.com/silverfox-lab/silverfox/internal/selector"
	"github.com/silverfox-lab/silverfox/internal/seller"
	"github.com/silverfox-lab/silverfox/internal/store"
	"github.com/silverfox-lab/silverfox/internal/types"
	"github.com/silverfox-lab/silverfox/pkg/errors"
)

// Engine is the live decision engine. Collaborators are injected via the
// setters; Initialize wires the internals and Run drives the loop.
type Engine struct {
	cfg    *config.Config
	logger *logger.Logger

	gateway   broker.Gateway
	notifier  broker.Notifier
	quoteFeed feed.Feed
	calendar  market.Calendar
	cache     *indicator.Cache
	blacklist *blacklist.Filter
	positions *store.PositionStore
	ledger    *store.SelectionLedger

	selector   *selector.Selector
	allocator  *selector.Allocator
	chain      *seller.Chain
	aggregator *feed.Aggregator

	mu          sync.Mutex
	jobsDone    map[string]string // job name -> date it last ran
	tradingDay  map[string]bool   // date -> calendar answer
	subscribed  bool
	initialized bool

	now func() time.Time
}

// NewEngine creates an engine with no collaborators attached.
func NewEngine(cfg *config.Config, log *logger.Logger) *Engine {
	return &Engine{
		cfg:        cfg,
		logger:     log,
		jobsDone:   make(map[string]string),
		tradingDay: make(map[string]bool),
		now:        time.Now,
	}
}

func (e *Engine) SetGateway(g broker.Gateway)            { e.gateway = g }
func (e *Engine) SetNotifier(n broker.Notifier)          { e.notifier = n }
func (e *Engine) SetFeed(f feed.Feed)                    { e.quoteFeed = f }
func (e *Engine) SetCalendar(c market.Calendar)          { e.calendar = c }
func (e *Engine) SetCache(c *indicator.Cache)            { e.cache = c }
func (e *Engine) SetBlacklist(b *blacklist.Filter)       { e.blacklist = b }
func (e *Engine) SetPositionStore(s *store.PositionStore) { e.positions = s }
func (e *Engine) SetLedger(l *store.SelectionLedger)     { e.ledger = l }

// Initialize builds the selector, allocator, sell chain, and aggregator
// from the injected collaborators. Must be called before Run.
func (e *Engine) Initialize() error {
	if err := e.preRunCheck(); err != nil {
		return err
	}

	e.selector = selector.NewSelector(e.cfg, e.cache, e.blacklist, e.logger)
	e.allocator = selector.NewAllocator(e.cfg, e.ledger, e.logger)

	chain, err := seller.NewChain(e.cfg, e.positions, e.logger)
	if err != nil {
		return err
	}
	e.chain = chain

	e.aggregator = feed.NewAggregator(e.OnCycle, e.logger)
	e.initialized = true

	return nil
}

// preRunCheck validates that all required collaborators are configured.
func (e *Engine) preRunCheck() error {
	if e.gateway == nil {
		return errors.New(errors.ErrCodeEngineInitFailed, "gateway not set - call SetGateway() first")
	}

	if e.notifier == nil {
		return errors.New(errors.ErrCodeEngineInitFailed, "notifier not set - call SetNotifier() first")
	}

	if e.quoteFeed == nil {
		return errors.New(errors.ErrCodeEngineInitFailed, "feed not set - call SetFeed() first")
	}

	if e.calendar == nil {
		return errors.New(errors.ErrCodeEngineInitFailed, "calendar not set - call SetCalendar() first")
	}

	if e.cache == nil {
		return errors.New(errors.ErrCodeEngineInitFailed, "indicator cache not set - call SetCache() first")
	}

	if e.blacklist == nil {
		return errors.New(errors.ErrCodeEngineInitFailed, "blacklist not set - call SetBlacklist() first")
	}

	if e.positions == nil || e.ledger == nil {
		return errors.New(errors.ErrCodeEngineInitFailed, "stores not set - call SetPositionStore()/SetLedger() first")
	}

	return nil
}

// Callbacks returns the broker callback set keeping the position store in
// step with fills.
func (e *Engine) Callbacks() broker.Callbacks {
	return broker.Callbacks{
		OnFill:         e.onFill,
		OnOrderFailure: e.onOrderFailure,
	}
}

func (e *Engine) onFill(fill types.Fill) {
	var err error

	switch fill.Side {
	case types.SideBuy:
		err = e.positions.RecordBuyFill(fill.Symbol)
	case types.SideSell:
		err = e.positions.RecordSellFill(fill.Symbol)
	}

	if err != nil {
		e.logger.Error("Failed to record fill",
			zap.String("symbol", fill.Symbol),
			zap.String("side", string(fill.Side)),
			zap.Error(err))
	}

	e.logger.Info("Fill",
		zap.String("symbol", fill.Symbol),
		zap.String("side", string(fill.Side)),
		zap.Float64("price", fill.Price),
		zap.Int("quantity", fill.Quantity))

	e.notify("FILL", fill.Symbol)
}

func (e *Engine) onOrderFailure(failure types.OrderFailure) {
	e.logger.Warn("Order failed",
		zap.String("symbol", failure.Symbol),
		zap.String("order_id", failure.OrderID),
		zap.String("message", failure.Message))

	e.notify("ORDER-FAILED", failure.Symbol+" "+failure.Message)
}

// OnCycle is the aggregator trigger: one decision pass over one second's
// merged quotes. Sells run through the whole session window; buys only in
// the morning, after the opening auction settles.
func (e *Engine) OnCycle(now time.Time, quotes map[string]types.Quote) {
	date := now.Format("2006-01-02")
	clock := now.Format("15:04")

	if !e.inSellWindow(clock) {
		return
	}

	positions, err := e.gateway.QueryPositions()
	if err != nil {
		e.logger.Error("Position query failed", zap.Error(err))

		return
	}

	sellOrders := e.chain.Evaluate(date, clock, positions, quotes, e.cache.Get)
	for _, order := range sellOrders {
		e.submit(order)
	}

	if e.inBuyWindow(clock) {
		e.scanBuy(date, quotes, positions)
	}
}

func (e *Engine) scanBuy(date string, quotes map[string]types.Quote, positions []types.Position) {
	candidates := e.selector.Select(quotes)
	if len(candidates) == 0 {
		return
	}

	cash, err := e.gateway.QueryCash()
	if err != nil {
		e.logger.Error("Cash query failed", zap.Error(err))

		return
	}

	orders, err := e.allocator.PlanBuys(date, candidates, positions, cash)
	if err != nil {
		e.logger.Error("Buy planning failed", zap.Error(err))

		return
	}

	for _, order := range orders {
		e.submit(order)
	}
}

// submit hands one order to the gateway. Submission errors are logged and
// surfaced, never retried; the next cycle re-decides from fresh state.
func (e *Engine) submit(order types.ExecuteOrder) {
	if err := e.gateway.SubmitOrder(order); err != nil {
		e.logger.Error("Order submission failed",
			zap.String("symbol", order.Symbol),
			zap.String("side", string(order.Side)),
			zap.Error(err))

		e.notify("SUBMIT-FAILED", order.Symbol)

		return
	}

	e.logger.Info("Order submitted",
		zap.String("symbol", order.Symbol),
		zap.String("side", string(order.Side)),
		zap.Float64("price", order.Price),
		zap.Int("quantity", order.Quantity),
		zap.String("remark", order.Remark))
}

func (e *Engine) inSellWindow(clock string) bool {
	s := e.cfg.Session

	return (s.MorningOpen <= clock && clock <= s.MorningClose) ||
		(s.AfternoonOpen <= clock && clock <= s.AfternoonClose)
}

func (e *Engine) inBuyWindow(clock string) bool {
	s := e.cfg.Session

	return s.BuyBegin <= clock && clock <= s.MorningClose
}

// Run drives the engine until the context is cancelled: a one-second tick
// feeds the aggregator heartbeat and dispatches due scheduled jobs. On a
// mid-session start the due jobs all fire on the first tick, which is the
// restart recovery path.
func (e *Engine) Run(ctx context.Context) error {
	if !e.initialized {
		return errors.New(errors.ErrCodeEngineInitFailed, "engine not initialized - call Initialize() first")
	}

	e.logger.Info("Engine running", zap.String("strategy", e.cfg.StrategyName))

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.shutdown()

			return ctx.Err()
		case <-ticker.C:
			e.RunScheduledJobs(ctx)
			e.aggregator.Tick()
		}
	}
}

func (e *Engine) shutdown() {
	if err := e.quoteFeed.Unsubscribe(context.Background()); err != nil {
		e.logger.Warn("Unsubscribe on shutdown failed", zap.Error(err))
	}

	e.logger.Info("Engine stopped")
}

// RunScheduledJobs executes every daily job whose time has passed and that
// has not run today. All jobs are no-ops on non-trading days.
func (e *Engine) RunScheduledJobs(ctx context.Context) {
	now := e.now()
	date := now.Format("2006-01-02")
	clock := now.Format("15:04")

	open, err := e.isTradingDay(ctx, date)
	if err != nil {
		e.logger.Error("Trading-day check failed", zap.Error(err))

		return
	}

	if !open {
		return
	}

	s := e.cfg.Session

	e.runJob("bump", date, clock, s.BumpHeldAt, func() error {
		return e.positions.BumpAllHeldDays(date)
	})

	e.runJob("blacklist", date, clock, s.BlacklistAt, func() error {
		return e.blacklist.Refresh(ctx)
	})

	e.runJob("indicators", date, clock, s.IndicatorsAt, func() error {
		return e.cache.Rebuild(ctx, date)
	})

	if clock <= s.ResubscribeUpTo {
		e.runJob("subscribe", date, clock, s.SubscribeAt, func() error {
			return e.subscribe(ctx)
		})
	}

	e.runJob("unsubscribe", date, clock, s.UnsubscribeAt, func() error {
		e.mu.Lock()
		e.subscribed = false
		e.mu.Unlock()

		return e.quoteFeed.Unsubscribe(ctx)
	})
}

// runJob fires fn once per date, at or after its scheduled time.
func (e *Engine) runJob(name, date, clock, at string, fn func() error) {
	if clock < at {
		return
	}

	e.mu.Lock()
	done := e.jobsDone[name] == date
	if !done {
		e.jobsDone[name] = date
	}
	e.mu.Unlock()

	if done {
		return
	}

	e.logger.Info("Running scheduled job", zap.String("job", name), zap.String("date", date))

	if err := fn(); err != nil {
		e.logger.Error("Scheduled job failed",
			zap.String("job", name),
			zap.Error(err))

		e.notify("JOB-FAILED", name)
	}
}

// subscribe opens the push stream for the cached universe plus anything
// currently held, so positions bought on a day their symbol later left the
// cache still receive quotes.
func (e *Engine) subscribe(ctx context.Context) error {
	universe := e.cache.Symbols()

	seen := make(map[string]struct{}, len(universe))
	for _, symbol := range universe {
		seen[symbol] = struct{}{}
	}

	for _, symbol := range e.positions.TrackedSymbols() {
		if _, ok := seen[symbol]; !ok {
			universe = append(universe, symbol)
		}
	}

	if err := e.quoteFeed.Subscribe(ctx, universe, e.aggregator.Push); err != nil {
		return err
	}

	e.mu.Lock()
	e.subscribed = true
	e.mu.Unlock()

	e.logger.Info("Subscribed", zap.Int("symbols", len(universe)))

	return nil
}

func (e *Engine) isTradingDay(ctx context.Context, date string) (bool, error) {
	e.mu.Lock()
	open, ok := e.tradingDay[date]
	e.mu.Unlock()

	if ok {
		return open, nil
	}

	open, err := e.calendar.IsTradingDay(ctx, date)
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeCalendarFailed, "trading-day lookup failed", err)
	}

	e.mu.Lock()
	e.tradingDay[date] = open
	e.mu.Unlock()

	return open, nil
}

func (e *Engine) notify(tag, message string) {
	if err := e.notifier.Notify(tag, message); err != nil {
		e.logger.Warn("Notification failed", zap.Error(err))
	}
}
