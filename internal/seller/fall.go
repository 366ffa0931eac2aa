package seller

import (
	"fmt"

	"github.com/moznion/go-optional"

	"github.com/silverfox-lab/silverfox/internal/config"
	"github.com/silverfox-lab/silverfox/internal/types"
)

// fallRule takes profit on a pullback from the high-water mark. The
// tolerated pullback widens with the gain band the maximum reached.
type fallRule struct {
	cfg *config.Config
}

func (r *fallRule) Name() string { return "fall" }

func (r *fallRule) CheckSell(c *Context) optional.Option[types.ExecuteOrder] {
	if c.HeldDays <= 0 || c.MaxPrice.IsNone() {
		return decline()
	}

	price := c.Quote.LastPrice
	cost := c.Position.CostPrice
	max := c.MaxPrice.Unwrap()

	for _, tier := range r.cfg.Sell.FallFromTop {
		if cost*tier.GainLow <= max && max < cost*tier.GainHigh &&
			price < max*(1-tier.Threshold) {
			return approve(c.SellOrder(
				fmt.Sprintf("fell %.0f%% band", (tier.GainLow-1)*100)))
		}
	}

	return decline()
}
