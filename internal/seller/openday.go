package seller

import (
	"github.com/moznion/go-optional"

	"github.com/silverfox-lab/silverfox/internal/config"
	"github.com/silverfox-lab/silverfox/internal/types"
)

// openDayRule stops out against the entry day's bar: breaking under that
// day's low invalidates the setup, and a late-session volume far below the
// entry day's (without a limit-up excusing it) means the move is done.
type openDayRule struct {
	cfg *config.Config
}

func (r *openDayRule) Name() string { return "openday" }

func (r *openDayRule) CheckSell(c *Context) optional.Option[types.ExecuteOrder] {
	if c.Window.IsNone() {
		return decline()
	}

	window := c.Window.Unwrap()
	if c.HeldDays <= 0 || c.HeldDays >= window.Len() {
		return decline()
	}

	price := c.Quote.LastPrice
	entryIdx := window.Len() - c.HeldDays

	if price < window.Low[entryIdx]*r.cfg.Sell.OpenLowRate {
		return approve(c.SellOrder("broke entry-day low"))
	}

	if c.Clock >= r.cfg.Sell.TailVolTime &&
		price < LimitUpPrice(c.Symbol, c.Quote.PrevClose) &&
		c.Quote.Volume < window.Volume[entryIdx]*r.cfg.Sell.OpenVolRate {
		return approve(c.SellOrder("entry-day volume faded"))
	}

	return decline()
}
