package seller

import (
	"fmt"

	"github.com/moznion/go-optional"

	"github.com/silverfox-lab/silverfox/internal/config"
	"github.com/silverfox-lab/silverfox/internal/types"
)

// returnRule guards realized gains: once the price has given back a banded
// fraction of the profit between cost and the high-water mark, sell.
type returnRule struct {
	cfg *config.Config
}

func (r *returnRule) Name() string { return "return" }

func (r *returnRule) CheckSell(c *Context) optional.Option[types.ExecuteOrder] {
	if c.HeldDays <= 0 || c.MaxPrice.IsNone() {
		return decline()
	}

	price := c.Quote.LastPrice
	cost := c.Position.CostPrice
	max := c.MaxPrice.Unwrap()

	for _, tier := range r.cfg.Sell.ReturnOfProfit {
		if cost*tier.GainLow <= max && max < cost*tier.GainHigh &&
			price < max-(max-cost)*tier.Threshold {
			return approve(c.SellOrder(
				fmt.Sprintf("gave back %.0f%% of gain", tier.Threshold*100)))
		}
	}

	return decline()
}
