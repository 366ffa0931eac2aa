// Package feed delivers live quotes to the decision engine. Broker pushes
// arrive in bursts of partial batches; the aggregator coalesces everything
// observed within one wall-clock second into a single decision cycle.
package feed

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/silverfox-lab/silverfox/internal/logger"
	"github.com/silverfox-lab/silverfox/internal/types"
)

// Feed is a live quote source for a subscribed symbol set.
type Feed interface {
	// Subscribe starts pushing quote batches for symbols to handler.
	// Replaces any previous subscription.
	Subscribe(ctx context.Context, symbols []string, handler func([]types.Quote)) error
	// Unsubscribe stops the push stream.
	Unsubscribe(ctx context.Context) error
}

// Trigger receives one decision cycle: every quote observed since the last
// cycle, keyed by symbol, with only the freshest value per symbol kept. It
// is invoked with the aggregator lock held, so cycles never overlap.
type Trigger func(now time.Time, quotes map[string]types.Quote)

// Aggregator throttles the raw push stream to at most one trigger per
// wall-clock second. Batches landing within the same second are merged;
// a later quote for a symbol replaces the earlier one.
type Aggregator struct {
	mu         sync.Mutex
	pending    map[string]types.Quote
	lastSecond string
	lastMinute string
	trigger    Trigger
	logger     *logger.Logger
	now        func() time.Time
}

// NewAggregator creates an aggregator firing trigger once per second.
func NewAggregator(trigger Trigger, log *logger.Logger) *Aggregator {
	return &Aggregator{
		pending: make(map[string]types.Quote),
		trigger: trigger,
		logger:  log,
		now:     time.Now,
	}
}

// Push merges a quote batch and fires the trigger if the wall second has
// rolled over since the last cycle.
func (a *Aggregator) Push(batch []types.Quote) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, q := range batch {
		a.pending[q.Symbol] = q
	}

	a.fireLocked(a.now())
}

// Tick fires the trigger from a timer instead of a quote push, so a quiet
// stream still produces a cycle for the quotes already pending.
func (a *Aggregator) Tick() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.fireLocked(a.now())
}

func (a *Aggregator) fireLocked(now time.Time) {
	second := now.Format("15:04:05")
	if second == a.lastSecond || len(a.pending) == 0 {
		return
	}

	a.lastSecond = second

	if minute := now.Format("15:04"); minute != a.lastMinute {
		a.lastMinute = minute
		a.logger.Debug("Cycle heartbeat",
			zap.String("minute", minute),
			zap.Int("pending", len(a.pending)))
	}

	quotes := a.pending
	a.pending = make(map[string]types.Quote)

	a.trigger(now, quotes)
}
