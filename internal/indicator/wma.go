package indicator

// WMASeries computes a linearly weighted moving average over values. The
// result has len(values)-period+1 entries; entry i covers values[i:i+period]
// with the most recent observation weighted heaviest.
func WMASeries(values []float64, period int) ([]float64, error) {
	if err := checkPeriod("WMA", len(values), period, period); err != nil {
		return nil, err
	}

	denom := float64(period*(period+1)) / 2
	out := make([]float64, 0, len(values)-period+1)

	for i := period - 1; i < len(values); i++ {
		sum := 0.0
		for j := 0; j < period; j++ {
			sum += values[i-period+1+j] * float64(j+1)
		}

		out = append(out, sum/denom)
	}

	return out, nil
}

// WMA returns the most recent weighted moving average value.
func WMA(values []float64, period int) (float64, error) {
	series, err := WMASeries(values, period)
	if err != nil {
		return 0, err
	}

	return series[len(series)-1], nil
}
