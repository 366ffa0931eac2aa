package seller

import (
	"github.com/moznion/go-optional"

	"github.com/silverfox-lab/silverfox/internal/config"
	"github.com/silverfox-lab/silverfox/internal/types"
)

// switchRule rotates out stale positions: past the minimum holding period,
// a name that has not delivered its demanded daily gain is sold to free the
// slot for a fresh candidate.
type switchRule struct {
	cfg *config.Config
}

func (r *switchRule) Name() string { return "switch" }

func (r *switchRule) CheckSell(c *Context) optional.Option[types.ExecuteOrder] {
	if c.HeldDays <= r.cfg.Sizing.HoldDays || c.Clock < r.cfg.Sell.SwitchBegin {
		return decline()
	}

	demanded := c.Position.CostPrice * (1 + float64(c.HeldDays)*r.cfg.Sell.SwitchDemandDailyUp)
	if c.Quote.LastPrice < demanded {
		return approve(c.SellOrder("rotation"))
	}

	return decline()
}
