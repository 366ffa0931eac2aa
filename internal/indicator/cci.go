package indicator

import (
	"math"

	"github.com/silverfox-lab/silverfox/pkg/errors"
)

// cciScale is the conventional Commodity Channel Index scaling constant.
const cciScale = 0.015

// CCI returns the previous and current Commodity Channel Index values over
// the given period. Two values are needed because the sell rule looks for a
// threshold crossing between consecutive readings.
func CCI(high, low, close []float64, period int) (prev, curr float64, err error) {
	if len(high) != len(low) || len(low) != len(close) {
		return 0, 0, errors.New(errors.ErrCodeInvalidParameter, "CCI requires equal-length high/low/close series")
	}

	if err := checkPeriod("CCI", len(close), period, period+1); err != nil {
		return 0, 0, err
	}

	typical := make([]float64, len(close))
	for i := range close {
		typical[i] = (high[i] + low[i] + close[i]) / 3
	}

	prev = cciAt(typical, len(typical)-2, period)
	curr = cciAt(typical, len(typical)-1, period)

	return prev, curr, nil
}

// cciAt computes the CCI value for the window ending at index i.
func cciAt(typical []float64, i, period int) float64 {
	window := typical[i-period+1 : i+1]

	mean := 0.0
	for _, v := range window {
		mean += v
	}
	mean /= float64(period)

	dev := 0.0
	for _, v := range window {
		dev += math.Abs(v - mean)
	}
	dev /= float64(period)

	if dev == 0 {
		return 0
	}

	return (typical[i] - mean) / (cciScale * dev)
}
