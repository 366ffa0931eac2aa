package indicator

import (
	"math"

	"github.com/silverfox-lab/silverfox/pkg/errors"
)

// ATR returns the most recent Average True Range over the given period using
// Wilder smoothing. The first true range needs a previous close, so the
// series must hold at least period+1 bars.
func ATR(high, low, close []float64, period int) (float64, error) {
	if len(high) != len(low) || len(low) != len(close) {
		return 0, errors.New(errors.ErrCodeInvalidParameter, "ATR requires equal-length high/low/close series")
	}

	if err := checkPeriod("ATR", len(close), period, period+1); err != nil {
		return 0, err
	}

	trs := make([]float64, 0, len(close)-1)
	for i := 1; i < len(close); i++ {
		tr := math.Max(high[i]-low[i],
			math.Max(math.Abs(high[i]-close[i-1]), math.Abs(low[i]-close[i-1])))
		trs = append(trs, tr)
	}

	// Seed with the mean of the first period, then Wilder-smooth the rest.
	atr := 0.0
	for _, tr := range trs[:period] {
		atr += tr
	}
	atr /= float64(period)

	for _, tr := range trs[period:] {
		atr = (atr*float64(period-1) + tr) / float64(period)
	}

	return atr, nil
}
