package seller

import (
	"github.com/moznion/go-optional"

	"github.com/silverfox-lab/silverfox/internal/config"
	"github.com/silverfox-lab/silverfox/internal/types"
)

// volumeDropRule takes modest profits when the follow-through day trades a
// small fraction of the entry day's volume: the crowd moved on. Checked at
// one configured minute; a price near the ceiling is left to run.
type volumeDropRule struct {
	cfg *config.Config
}

func (r *volumeDropRule) Name() string { return "volumedrop" }

func (r *volumeDropRule) CheckSell(c *Context) optional.Option[types.ExecuteOrder] {
	if c.Window.IsNone() || c.Clock != r.cfg.Sell.VolDecMinute {
		return decline()
	}

	window := c.Window.Unwrap()
	if c.HeldDays <= 0 || c.HeldDays >= window.Len() {
		return decline()
	}

	price := c.Quote.LastPrice
	cost := c.Position.CostPrice
	entryVolume := window.Volume[window.Len()-c.HeldDays]

	if c.Quote.Volume < entryVolume*r.cfg.Sell.VolDecThreshold &&
		cost < price && price < c.Quote.PrevClose*r.cfg.Sell.VolDecLimit {
		return approve(c.SellOrder("volume dried up"))
	}

	return decline()
}
