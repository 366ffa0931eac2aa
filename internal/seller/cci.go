package seller

import (
	"strconv"

	"github.com/moznion/go-optional"

	"github.com/silverfox-lab/silverfox/internal/config"
	"github.com/silverfox-lab/silverfox/internal/indicator"
	"github.com/silverfox-lab/silverfox/internal/types"
)

// cciRule exits on a Commodity Channel Index threshold crossing. It only
// samples every fifth minute; minute-to-minute CCI is too noisy to act on.
type cciRule struct {
	cfg *config.Config
}

func (r *cciRule) Name() string { return "cci" }

func (r *cciRule) CheckSell(c *Context) optional.Option[types.ExecuteOrder] {
	if c.HeldDays <= 0 || c.Window.IsNone() || !onFifthMinute(c.Clock) {
		return decline()
	}

	window := c.Window.Unwrap()

	prev, curr, err := indicator.CCI(
		window.HighWith(c.Quote.High),
		window.LowWith(c.Quote.Low),
		window.CloseWith(c.Quote.LastPrice),
		r.cfg.Sell.CCIPeriod)
	if err != nil {
		return decline()
	}

	if prev > r.cfg.Sell.CCILower && r.cfg.Sell.CCILower > curr {
		return approve(c.SellOrder("cci down-cross"))
	}

	if prev < r.cfg.Sell.CCIUpper && r.cfg.Sell.CCIUpper < curr {
		return approve(c.SellOrder("cci overshoot"))
	}

	return decline()
}

func onFifthMinute(clock string) bool {
	if len(clock) < 5 {
		return false
	}

	minute, err := strconv.Atoi(clock[len(clock)-2:])
	if err != nil {
		return false
	}

	return minute%5 == 0
}
