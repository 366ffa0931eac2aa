package seller

import (
	"github.com/moznion/go-optional"

	"github.com/silverfox-lab/silverfox/internal/config"
	"github.com/silverfox-lab/silverfox/internal/types"
)

// hardRule is the absolute stop and take: the floor rises a little with
// every held day, the ceiling is a fixed multiple of cost.
type hardRule struct {
	cfg *config.Config
}

func (r *hardRule) Name() string { return "hard" }

func (r *hardRule) CheckSell(c *Context) optional.Option[types.ExecuteOrder] {
	if c.HeldDays <= 0 {
		return decline()
	}

	price := c.Quote.LastPrice
	cost := c.Position.CostPrice

	floor := cost * (r.cfg.Sell.RiskLimit + float64(c.HeldDays)*r.cfg.Sell.RiskTight)
	if price <= floor {
		return approve(c.SellOrder("hard stop"))
	}

	if price >= cost*r.cfg.Sell.EarnLimit {
		return approve(c.SellOrder("hard take"))
	}

	return decline()
}
