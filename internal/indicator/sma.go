package indicator

// SMA returns the most recent simple moving average value.
func SMA(values []float64, period int) (float64, error) {
	if err := checkPeriod("SMA", len(values), period, period); err != nil {
		return 0, err
	}

	sum := 0.0
	for _, v := range values[len(values)-period:] {
		sum += v
	}

	return sum / float64(period), nil
}
