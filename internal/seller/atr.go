package seller

import (
	"github.com/moznion/go-optional"

	"github.com/silverfox-lab/silverfox/internal/config"
	"github.com/silverfox-lab/silverfox/internal/indicator"
	"github.com/silverfox-lab/silverfox/internal/types"
)

// atrRule is a volatility-scaled stop and take around a short moving
// average of the last few sessions plus the live tick. The take band is
// wider for positions already well in profit and tightens a little each
// held day; the stop band is fixed.
type atrRule struct {
	cfg *config.Config
}

func (r *atrRule) Name() string { return "atr" }

func (r *atrRule) CheckSell(c *Context) optional.Option[types.ExecuteOrder] {
	if c.HeldDays <= 0 || c.Window.IsNone() {
		return decline()
	}

	window := c.Window.Unwrap()
	if window.Len() < r.cfg.Sell.ATRTimePeriod {
		return decline()
	}

	closes := tail(window.CloseWith(c.Quote.LastPrice), r.cfg.Sell.ATRTimePeriod+1)
	highs := tail(window.HighWith(c.Quote.High), r.cfg.Sell.ATRTimePeriod+1)
	lows := tail(window.LowWith(c.Quote.Low), r.cfg.Sell.ATRTimePeriod+1)

	sma, err := indicator.SMA(closes, r.cfg.Sell.SMATimePeriod)
	if err != nil {
		return decline()
	}

	atr, err := indicator.ATR(highs, lows, closes, r.cfg.Sell.ATRTimePeriod)
	if err != nil {
		return decline()
	}

	price := c.Quote.LastPrice
	cost := c.Position.CostPrice

	if price <= sma-atr*r.cfg.Sell.ATRMinRatio {
		return approve(c.SellOrder("atr stop"))
	}

	ratio := r.cfg.Sell.ATRMaxLRatio
	if price >= cost*r.cfg.Sell.ATRThreshold {
		ratio = r.cfg.Sell.ATRMaxHRatio
	}

	mult := ratio - float64(c.HeldDays)*r.cfg.Sell.ATRMaxDrop
	if price >= sma+atr*mult {
		return approve(c.SellOrder("atr take"))
	}

	return decline()
}

func tail(series []float64, n int) []float64 {
	if len(series) <= n {
		return series
	}

	return series[len(series)-n:]
}
