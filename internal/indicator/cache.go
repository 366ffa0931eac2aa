package indicator

import (
	"context"
	"sync"

	"github.com/cenkalti/backoff/v4"
	"github.com/moznion/go-optional"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/silverfox-lab/silverfox/internal/logger"
	"github.com/silverfox-lab/silverfox/internal/market"
	"github.com/silverfox-lab/silverfox/internal/store"
	"github.com/silverfox-lab/silverfox/internal/types"
	"github.com/silverfox-lab/silverfox/pkg/errors"
)

const (
	snapshotKeyPrefix = "indicators:"

	// fetchRowBudget caps the rows requested per provider call. The batch
	// size is derived from it so longer windows mean smaller batches.
	fetchRowBudget = 6000
	maxBatchSize   = 300
	fetchRetries   = 3
)

// Cache holds one immutable BarWindow per symbol, built once before the
// open and read concurrently by the selector and seller for the rest of
// the session.
type Cache struct {
	mu       sync.RWMutex
	windows  map[string]types.BarWindow
	provider market.Provider
	calendar market.Calendar
	kv       store.KV
	logger   *logger.Logger

	dayCount int
	prefixes []string
	progress bool
}

// cacheSnapshot is the persisted form of a finished rebuild. The date makes
// a stale snapshot from a previous session unusable.
type cacheSnapshot struct {
	Date    string                     `json:"date"`
	Windows map[string]types.BarWindow `json:"windows"`
}

// NewCache creates an empty cache. Call Rebuild before the open.
func NewCache(provider market.Provider, calendar market.Calendar, kv store.KV, log *logger.Logger, dayCount int, prefixes []string) *Cache {
	return &Cache{
		windows:  make(map[string]types.BarWindow),
		provider: provider,
		calendar: calendar,
		kv:       kv,
		logger:   log,
		dayCount: dayCount,
		prefixes: prefixes,
		progress: true,
	}
}

// Get returns the window for a symbol, if the rebuild included it.
func (c *Cache) Get(symbol string) optional.Option[types.BarWindow] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	w, ok := c.windows[symbol]
	if !ok {
		return optional.None[types.BarWindow]()
	}

	return optional.Some(w)
}

// Size returns the number of cached windows.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.windows)
}

// Symbols returns every symbol with a cached window.
func (c *Cache) Symbols() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	symbols := make([]string, 0, len(c.windows))
	for symbol := range c.windows {
		symbols = append(symbols, symbol)
	}

	return symbols
}

// Rebuild fills the cache with trailing windows ending the session before
// date. A snapshot persisted for the same date is reused outright, so a
// mid-morning restart does not refetch the whole universe. Batches that
// keep failing after retries are logged and skipped; their symbols are
// simply absent for the day.
func (c *Cache) Rebuild(ctx context.Context, date string) error {
	var snapshot cacheSnapshot

	ok, err := c.kv.Get(snapshotKeyPrefix+date, &snapshot)
	if err != nil {
		return errors.Wrap(errors.ErrCodeSnapshotFailed, "failed to read indicator snapshot", err)
	}

	if ok && snapshot.Date == date && len(snapshot.Windows) > 0 {
		c.mu.Lock()
		c.windows = snapshot.Windows
		c.mu.Unlock()

		c.logger.Info("Reusing indicator snapshot",
			zap.String("date", date),
			zap.Int("symbols", len(snapshot.Windows)))

		return nil
	}

	symbols, err := c.provider.ListSymbols(ctx, c.prefixes)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIndicatorRebuild, "failed to list symbols", err)
	}

	startDate, err := c.calendar.PrevTradingDay(ctx, date, c.dayCount)
	if err != nil {
		return errors.Wrap(errors.ErrCodeCalendarFailed, "failed to resolve window start", err)
	}

	endDate, err := c.calendar.PrevTradingDay(ctx, date, 1)
	if err != nil {
		return errors.Wrap(errors.ErrCodeCalendarFailed, "failed to resolve window end", err)
	}

	batchSize := fetchRowBudget / c.dayCount
	if batchSize > maxBatchSize {
		batchSize = maxBatchSize
	}
	if batchSize < 1 {
		batchSize = 1
	}

	windows := make(map[string]types.BarWindow, len(symbols))

	var bar *progressbar.ProgressBar
	if c.progress {
		bar = progressbar.Default(int64(len(symbols)), "Building indicator windows")
	}

	for begin := 0; begin < len(symbols); begin += batchSize {
		end := begin + batchSize
		if end > len(symbols) {
			end = len(symbols)
		}
		batch := symbols[begin:end]

		bars, err := c.fetchBatch(ctx, batch, startDate, endDate)
		if err != nil {
			// Keep going; a missing batch costs candidates, not the day.
			c.logger.Error("Failed to fetch bar batch",
				zap.String("first_symbol", batch[0]),
				zap.Int("batch_size", len(batch)),
				zap.Error(err))

			if bar != nil {
				_ = bar.Add(len(batch))
			}

			continue
		}

		for symbol, daily := range bars {
			if !c.usable(daily) {
				continue
			}

			windows[symbol] = types.NewBarWindow(symbol, daily)
		}

		if bar != nil {
			_ = bar.Add(len(batch))
		}
	}

	c.mu.Lock()
	c.windows = windows
	c.mu.Unlock()

	c.logger.Info("Indicator rebuild finished",
		zap.String("date", date),
		zap.Int("universe", len(symbols)),
		zap.Int("cached", len(windows)))

	if err := c.kv.Put(snapshotKeyPrefix+date, cacheSnapshot{Date: date, Windows: windows}); err != nil {
		return errors.Wrap(errors.ErrCodeSnapshotFailed, "failed to persist indicator snapshot", err)
	}

	return nil
}

func (c *Cache) fetchBatch(ctx context.Context, symbols []string, startDate, endDate string) (map[string][]types.DailyBar, error) {
	var result map[string][]types.DailyBar

	operation := func() error {
		bars, err := c.provider.FetchDailyBars(ctx, symbols, startDate, endDate)
		if err != nil {
			return err
		}

		result = bars

		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), fetchRetries),
		ctx)

	if err := backoff.Retry(operation, policy); err != nil {
		return nil, errors.Wrap(errors.ErrCodeHistoricalDataFailed, "batch fetch exhausted retries", err)
	}

	return result, nil
}

// usable requires a complete window: exactly dayCount bars and strictly
// positive closes. Symbols listed too recently, or suspended inside the
// window, fall short and are left out for the day.
func (c *Cache) usable(daily []types.DailyBar) bool {
	if len(daily) != c.dayCount {
		return false
	}

	for _, bar := range daily {
		if bar.Close <= 0 {
			return false
		}
	}

	return true
}
