package seller

import (
	"github.com/moznion/go-optional"

	"github.com/silverfox-lab/silverfox/internal/config"
	"github.com/silverfox-lab/silverfox/internal/indicator"
	"github.com/silverfox-lab/silverfox/internal/types"
)

// maBreakRule sells once the live price closes under the short moving
// average, with a one-cent margin against flickering.
type maBreakRule struct {
	cfg *config.Config
}

func (r *maBreakRule) Name() string { return "mabreak" }

func (r *maBreakRule) CheckSell(c *Context) optional.Option[types.ExecuteOrder] {
	if c.HeldDays <= 0 || c.Window.IsNone() {
		return decline()
	}

	closes := c.Window.Unwrap().CloseWith(c.Quote.LastPrice)

	sma, err := indicator.SMA(closes, r.cfg.Sell.MAAbove)
	if err != nil {
		return decline()
	}

	if c.Quote.LastPrice < sma-0.01 {
		return approve(c.SellOrder("under moving average"))
	}

	return decline()
}
