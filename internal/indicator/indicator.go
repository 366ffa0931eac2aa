// Package indicator implements the technical indicator math the buy and sell
// sides evaluate each cycle, plus the per-day cache of trailing bar windows
// the computations run against. All series functions treat the last element
// as the most recent observation and return InsufficientDataError when the
// input is shorter than the period requires.
package indicator

import (
	"github.com/silverfox-lab/silverfox/pkg/errors"
)

// checkPeriod validates a period against the available data length.
func checkPeriod(name string, length, period, required int) error {
	if period <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "%s period must be positive, got %d", name, period)
	}

	if length < required {
		return errors.NewInsufficientDataErrorf(required, length, "",
			"%s requires %d data points, got %d", name, required, length)
	}

	return nil
}
