package types

// Position is a point-in-time snapshot of one holding as reported by the
// broker. The engine never assumes authority over it; the authoritative
// copy lives with the account.
type Position struct {
	Symbol string `json:"symbol" yaml:"symbol"`
	// CostPrice is the average entry price
	CostPrice float64 `json:"cost_price" yaml:"cost_price"`
	// Volume is the total open quantity in shares
	Volume int `json:"volume" yaml:"volume"`
	// SellableVolume excludes shares locked by T+1 settlement
	SellableVolume int `json:"sellable_volume" yaml:"sellable_volume"`
}

// IsOpen reports whether the position still holds shares.
func (p Position) IsOpen() bool {
	return p.Volume > 0
}

// AccountInfo represents the current account state.
type AccountInfo struct {
	// Cash is the balance available for new purchases
	Cash float64 `json:"cash" yaml:"cash"`
	// FrozenCash is held against pending orders
	FrozenCash float64 `json:"frozen_cash" yaml:"frozen_cash"`
	// MarketValue is the total value of open positions
	MarketValue float64 `json:"market_value" yaml:"market_value"`
}

// CountOpenPositions counts snapshot entries that still hold shares.
func CountOpenPositions(positions []Position) int {
	count := 0

	for _, p := range positions {
		if p.IsOpen() {
			count++
		}
	}

	return count
}
