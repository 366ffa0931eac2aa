package seller

import (
	"github.com/moznion/go-optional"

	"github.com/silverfox-lab/silverfox/internal/config"
	"github.com/silverfox-lab/silverfox/internal/types"
)

// tailCapRule sells into a late-session limit-up. A name pinned at the
// ceiling near the close tends to gap down the next morning once the
// speculative bid evaporates.
type tailCapRule struct {
	cfg *config.Config
}

func (r *tailCapRule) Name() string { return "tailcap" }

func (r *tailCapRule) CheckSell(c *Context) optional.Option[types.ExecuteOrder] {
	if c.HeldDays <= 0 || c.Window.IsNone() || c.Clock < r.cfg.Sell.TailCapBegin {
		return decline()
	}

	window := c.Window.Unwrap()
	prevClose := window.Close[window.Len()-1]

	if c.Quote.LastPrice >= LimitUpPrice(c.Symbol, prevClose) {
		return approve(c.SellOrder("limit-up into close"))
	}

	return decline()
}
