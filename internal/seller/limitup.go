package seller

import (
	"math"
	"strings"
)

// LimitUpPrice returns the exchange daily price ceiling for a symbol given
// the previous close: 20% on the ChiNext and STAR boards, 10% elsewhere,
// rounded half-up to the cent.
func LimitUpPrice(symbol string, prevClose float64) float64 {
	rate := 1.10

	for _, prefix := range []string{"300", "301", "688", "689"} {
		if strings.HasPrefix(symbol, prefix) {
			rate = 1.20

			break
		}
	}

	return math.Floor(prevClose*rate*100+0.5) / 100
}
