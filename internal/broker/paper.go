package broker

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/silverfox-lab/silverfox/internal/logger"
	"github.com/silverfox-lab/silverfox/internal/types"
	"github.com/silverfox-lab/silverfox/pkg/errors"
)

// PaperGateway simulates the counter in-process: every valid order fills
// immediately at its limit price. Used for dry runs and tests; the account
// math (cash, T+1 sellable lock) follows the real counter's rules.
type PaperGateway struct {
	mu        sync.Mutex
	cash      float64
	positions map[string]*types.Position
	callbacks Callbacks
	logger    *logger.Logger
}

// NewPaperGateway creates a paper account with the given starting cash.
func NewPaperGateway(cash float64, callbacks Callbacks, log *logger.Logger) *PaperGateway {
	return &PaperGateway{
		cash:      cash,
		positions: make(map[string]*types.Position),
		callbacks: callbacks,
		logger:    log,
	}
}

// SubmitOrder implements Gateway.
func (g *PaperGateway) SubmitOrder(order types.ExecuteOrder) error {
	if err := order.Validate(); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	switch order.Side {
	case types.SideBuy:
		return g.fillBuyLocked(order)
	case types.SideSell:
		return g.fillSellLocked(order)
	default:
		return errors.Newf(errors.ErrCodeInvalidOrder, "unsupported side %q", order.Side)
	}
}

func (g *PaperGateway) fillBuyLocked(order types.ExecuteOrder) error {
	notional := order.Price * float64(order.Quantity)
	if notional > g.cash {
		g.reject(order, "insufficient cash")

		return nil
	}

	g.cash -= notional

	p, ok := g.positions[order.Symbol]
	if !ok {
		p = &types.Position{Symbol: order.Symbol}
		g.positions[order.Symbol] = p
	}

	// average in; new shares stay locked until the next session
	total := p.CostPrice*float64(p.Volume) + notional
	p.Volume += order.Quantity
	p.CostPrice = total / float64(p.Volume)

	g.fill(order)

	return nil
}

func (g *PaperGateway) fillSellLocked(order types.ExecuteOrder) error {
	p, ok := g.positions[order.Symbol]
	if !ok || p.SellableVolume < order.Quantity {
		g.reject(order, "insufficient sellable volume")

		return nil
	}

	p.Volume -= order.Quantity
	p.SellableVolume -= order.Quantity
	g.cash += order.Price * float64(order.Quantity)

	if p.Volume == 0 {
		delete(g.positions, order.Symbol)
	}

	g.fill(order)

	return nil
}

func (g *PaperGateway) fill(order types.ExecuteOrder) {
	g.logger.Info("Paper fill",
		zap.String("symbol", order.Symbol),
		zap.String("side", string(order.Side)),
		zap.Float64("price", order.Price),
		zap.Int("quantity", order.Quantity))

	if g.callbacks.OnOrderAck != nil {
		g.callbacks.OnOrderAck(order.ID)
	}

	if g.callbacks.OnFill != nil {
		g.callbacks.OnFill(types.Fill{
			OrderID:  order.ID,
			Symbol:   order.Symbol,
			Side:     order.Side,
			Price:    order.Price,
			Quantity: order.Quantity,
			Time:     time.Now(),
		})
	}
}

func (g *PaperGateway) reject(order types.ExecuteOrder, reason string) {
	g.logger.Warn("Paper reject",
		zap.String("symbol", order.Symbol),
		zap.String("reason", reason))

	if g.callbacks.OnOrderFailure != nil {
		g.callbacks.OnOrderFailure(types.OrderFailure{
			OrderID: order.ID,
			Symbol:  order.Symbol,
			Message: reason,
		})
	}
}

// QueryPositions implements Gateway.
func (g *PaperGateway) QueryPositions() ([]types.Position, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]types.Position, 0, len(g.positions))
	for _, p := range g.positions {
		out = append(out, *p)
	}

	return out, nil
}

// QueryCash implements Gateway.
func (g *PaperGateway) QueryCash() (float64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.cash, nil
}

// SettleOvernight unlocks T+1 shares, as the counter does before each open.
func (g *PaperGateway) SettleOvernight() {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, p := range g.positions {
		p.SellableVolume = p.Volume
	}
}

// LogNotifier is the default Notifier: operator messages go to the log.
type LogNotifier struct {
	logger *logger.Logger
}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{logger: log}
}

// Notify implements Notifier.
func (n *LogNotifier) Notify(tag, message string) error {
	n.logger.Info("Operator notice",
		zap.String("tag", tag),
		zap.String("message", message))

	return nil
}

// Interface assertions.
var (
	_ Gateway  = (*PaperGateway)(nil)
	_ Notifier = (*LogNotifier)(nil)
)
