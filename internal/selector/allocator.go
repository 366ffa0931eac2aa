package selector

import (
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/silverfox-lab/silverfox/internal/config"
	"github.com/silverfox-lab/silverfox/internal/logger"
	"github.com/silverfox-lab/silverfox/internal/store"
	"github.com/silverfox-lab/silverfox/internal/types"
)

// Allocator turns ranked candidates into buy orders within the cycle's
// budgets: free position slots, available cash, and the per-cycle order cap.
type Allocator struct {
	cfg    *config.Config
	ledger *store.SelectionLedger
	logger *logger.Logger
}

// NewAllocator creates an allocator over the day's selection ledger.
func NewAllocator(cfg *config.Config, ledger *store.SelectionLedger, log *logger.Logger) *Allocator {
	return &Allocator{
		cfg:    cfg,
		ledger: ledger,
		logger: log,
	}
}

// PlanBuys walks the ranked candidates and emits at most slots orders,
// where slots is the tightest of free position slots, cash divided by the
// per-position budget, the candidate count, and the per-cycle cap. A
// candidate that is already held, already in the ledger, or too expensive
// for a single board lot is passed over without consuming a slot. Every
// candidate considered is recorded in the ledger so it is seen once per day.
func (a *Allocator) PlanBuys(date string, candidates []Candidate, positions []types.Position, cash float64) ([]types.ExecuteOrder, error) {
	slots := a.cfg.Sizing.MaxCount - types.CountOpenPositions(positions)

	if byCash := int(cash / a.cfg.Sizing.AmountEach); byCash < slots {
		slots = byCash
	}

	if len(candidates) < slots {
		slots = len(candidates)
	}

	if a.cfg.Sizing.UpperBuyCount < slots {
		slots = a.cfg.Sizing.UpperBuyCount
	}

	if slots <= 0 {
		return nil, nil
	}

	held := make(map[string]struct{}, len(positions))
	for _, p := range positions {
		if p.IsOpen() {
			held[p.Symbol] = struct{}{}
		}
	}

	orders := make([]types.ExecuteOrder, 0, slots)
	seen := make([]string, 0, len(candidates))

	for _, candidate := range candidates {
		if len(orders) == slots {
			break
		}

		if a.ledger.IsSelected(date, candidate.Symbol) {
			continue
		}

		seen = append(seen, candidate.Symbol)

		a.logger.Info("Buy candidate",
			zap.String("symbol", candidate.Symbol),
			zap.Float64("price", candidate.Price),
			zap.Float64("hma_short", candidate.HMAShort),
			zap.Float64("hma_mid", candidate.HMAMid),
			zap.Float64("hma_long", candidate.HMALong))

		if _, ok := held[candidate.Symbol]; ok {
			continue
		}

		lot := boardLot(a.cfg.Sizing.AmountEach, candidate.Price)
		if lot <= 0 {
			continue
		}

		orders = append(orders, types.ExecuteOrder{
			ID:          uuid.NewString(),
			Symbol:      candidate.Symbol,
			Side:        types.SideBuy,
			Price:       candidate.Price,
			Quantity:    lot,
			Remark:      "hma-breakout",
			PriceBuffer: a.cfg.Sizing.OrderPremium,
			StrategyTag: a.cfg.StrategyName,
		})
	}

	if len(seen) > 0 {
		if err := a.ledger.MarkSelected(date, seen); err != nil {
			return nil, err
		}
	}

	return orders, nil
}

// boardLot is the largest 100-share multiple affordable within budget.
func boardLot(budget, price float64) int {
	return int(math.Floor(budget/price/100)) * 100
}
