// Package seller implements the priority-ordered sell-rule chain. Each rule
// inspects one held position against the live quote and either declines or
// produces a sell order; the first rule to fire wins and the rest of the
// chain is skipped for that symbol.
package seller

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"github.com/silverfox-lab/silverfox/internal/config"
	"github.com/silverfox-lab/silverfox/internal/logger"
	"github.com/silverfox-lab/silverfox/internal/store"
	"github.com/silverfox-lab/silverfox/internal/types"
	"github.com/silverfox-lab/silverfox/pkg/errors"
)

// Context carries everything a rule may consult for one position. MaxPrice
// and Window are optional: a rule needing either must decline when absent.
type Context struct {
	Symbol   string
	Quote    types.Quote
	Date     string
	// Clock is the exchange-local wall time, HH:MM
	Clock    string
	Position types.Position
	HeldDays int
	MaxPrice optional.Option[float64]
	Window   optional.Option[types.BarWindow]
	Cfg      *config.Config
}

// SellOrder builds a full-exit order for the position at the live price.
func (c *Context) SellOrder(remark string) types.ExecuteOrder {
	return types.ExecuteOrder{
		ID:          uuid.NewString(),
		Symbol:      c.Symbol,
		Side:        types.SideSell,
		Price:       c.Quote.LastPrice,
		Quantity:    c.Position.SellableVolume,
		Remark:      remark,
		PriceBuffer: c.Cfg.Sizing.OrderPremium,
		StrategyTag: c.Cfg.StrategyName,
	}
}

// Rule is one sell condition. CheckSell returns None to decline.
type Rule interface {
	Name() string
	CheckSell(c *Context) optional.Option[types.ExecuteOrder]
}

// ruleFactories maps config rule names to constructors.
var ruleFactories = map[string]func(*config.Config) Rule{
	"hard":       func(cfg *config.Config) Rule { return &hardRule{cfg: cfg} },
	"switch":     func(cfg *config.Config) Rule { return &switchRule{cfg: cfg} },
	"fall":       func(cfg *config.Config) Rule { return &fallRule{cfg: cfg} },
	"return":     func(cfg *config.Config) Rule { return &returnRule{cfg: cfg} },
	"atr":        func(cfg *config.Config) Rule { return &atrRule{cfg: cfg} },
	"tailcap":    func(cfg *config.Config) Rule { return &tailCapRule{cfg: cfg} },
	"openday":    func(cfg *config.Config) Rule { return &openDayRule{cfg: cfg} },
	"mabreak":    func(cfg *config.Config) Rule { return &maBreakRule{cfg: cfg} },
	"cci":        func(cfg *config.Config) Rule { return &cciRule{cfg: cfg} },
	"volumedrop": func(cfg *config.Config) Rule { return &volumeDropRule{cfg: cfg} },
}

// Chain evaluates held positions against the configured rules in order.
type Chain struct {
	cfg    *config.Config
	rules  []Rule
	store  *store.PositionStore
	logger *logger.Logger
}

// NewChain builds the rule chain from the configured order.
func NewChain(cfg *config.Config, st *store.PositionStore, log *logger.Logger) (*Chain, error) {
	rules := make([]Rule, 0, len(cfg.Sell.RuleOrder))

	for _, name := range cfg.Sell.RuleOrder {
		factory, ok := ruleFactories[name]
		if !ok {
			return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "unknown sell rule %q", name)
		}

		rules = append(rules, factory(cfg))
	}

	return &Chain{
		cfg:    cfg,
		rules:  rules,
		store:  st,
		logger: log,
	}, nil
}

// RuleNames returns the chain order.
func (c *Chain) RuleNames() []string {
	names := make([]string, 0, len(c.rules))
	for _, r := range c.rules {
		names = append(names, r.Name())
	}

	return names
}

// Evaluate runs one sell scan. Max prices are refreshed first so rules in
// the same cycle already see the current tick's high-water mark. Failures
// are isolated per symbol: one bad position never blocks the rest.
func (c *Chain) Evaluate(date, clock string, positions []types.Position, quotes map[string]types.Quote, windowOf func(string) optional.Option[types.BarWindow]) []types.ExecuteOrder {
	for _, position := range positions {
		quote, ok := quotes[position.Symbol]
		if !ok {
			continue
		}

		if _, tracked := c.store.HeldDays(position.Symbol); !tracked {
			continue
		}

		if err := c.store.UpdateMaxPrice(position.Symbol, quote.LastPrice); err != nil {
			c.logger.Error("Failed to update max price",
				zap.String("symbol", position.Symbol),
				zap.Error(err))
		}
	}

	orders := make([]types.ExecuteOrder, 0)

	for _, position := range positions {
		if !position.IsOpen() || position.SellableVolume <= 0 {
			continue
		}

		quote, ok := quotes[position.Symbol]
		if !ok {
			continue
		}

		heldDays, tracked := c.store.HeldDays(position.Symbol)
		if !tracked {
			continue
		}

		ctx := &Context{
			Symbol:   position.Symbol,
			Quote:    quote,
			Date:     date,
			Clock:    clock,
			Position: position,
			HeldDays: heldDays,
			MaxPrice: c.store.MaxPrice(position.Symbol),
			Window:   windowOf(position.Symbol),
			Cfg:      c.cfg,
		}

		if order, matched := c.evaluateOne(ctx); matched {
			orders = append(orders, order)
		}
	}

	return orders
}

func (c *Chain) evaluateOne(ctx *Context) (order types.ExecuteOrder, matched bool) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Sell rule panicked",
				zap.String("symbol", ctx.Symbol),
				zap.String("panic", fmt.Sprint(r)))

			matched = false
		}
	}()

	for _, rule := range c.rules {
		result := rule.CheckSell(ctx)
		if result.IsNone() {
			continue
		}

		order = result.Unwrap()

		c.logger.Info("Sell rule fired",
			zap.String("rule", rule.Name()),
			zap.String("symbol", ctx.Symbol),
			zap.Float64("price", ctx.Quote.LastPrice),
			zap.Int("held_days", ctx.HeldDays),
			zap.String("remark", order.Remark))

		return order, true
	}

	return types.ExecuteOrder{}, false
}

// decline is the shared no-sale result.
func decline() optional.Option[types.ExecuteOrder] {
	return optional.None[types.ExecuteOrder]()
}

func approve(order types.ExecuteOrder) optional.Option[types.ExecuteOrder] {
	return optional.Some(order)
}
