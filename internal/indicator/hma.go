package indicator

// HMA returns the most recent Hull moving average of the given period:
// WMA(2*WMA(values, n/2) - WMA(values, n), isqrt(n)). Both the half period
// and the smoothing period use integer truncation, matching the classic
// formulation.
func HMA(values []float64, period int) (float64, error) {
	smooth := isqrt(period)
	required := period + smooth - 1

	if err := checkPeriod("HMA", len(values), period, required); err != nil {
		return 0, err
	}

	half, err := WMASeries(values, period/2)
	if err != nil {
		return 0, err
	}

	full, err := WMASeries(values, period)
	if err != nil {
		return 0, err
	}

	// Align both series at the most recent entry.
	diff := make([]float64, len(full))
	offset := len(half) - len(full)

	for i := range full {
		diff[i] = 2*half[i+offset] - full[i]
	}

	return WMA(diff, smooth)
}

// isqrt is the integer square root.
func isqrt(n int) int {
	r := 0
	for (r+1)*(r+1) <= n {
		r++
	}

	return r
}
