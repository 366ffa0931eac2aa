package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBarWindow(t *testing.T) {
	bars := []DailyBar{
		{Date: "2024-01-02", Open: 9.8, Close: 10.0, High: 10.2, Low: 9.7, Volume: 1000},
		{Date: "2024-01-03", Open: 10.0, Close: 10.5, High: 10.6, Low: 9.9, Volume: 1200},
	}

	w := NewBarWindow("000001", bars)

	assert.Equal(t, "000001", w.Symbol)
	assert.Equal(t, 2, w.Len())
	assert.Equal(t, []string{"2024-01-02", "2024-01-03"}, w.Dates)
	assert.Equal(t, []float64{10.0, 10.5}, w.Close)
	assert.Equal(t, []float64{10.2, 10.6}, w.High)
	assert.Equal(t, []float64{9.7, 9.9}, w.Low)
	assert.Equal(t, []float64{1000, 1200}, w.Volume)
}

func TestBarWindowAppendDoesNotAlias(t *testing.T) {
	w := NewBarWindow("000001", []DailyBar{
		{Date: "2024-01-02", Close: 10.0, High: 10.2, Low: 9.7},
	})

	closes := w.CloseWith(10.3)
	closes[0] = 99.0

	assert.Equal(t, []float64{10.0}, w.Close, "window must stay immutable")
	assert.Equal(t, []float64{10.0, 10.3}, w.CloseWith(10.3))
	assert.Equal(t, []float64{10.2, 10.8}, w.HighWith(10.8))
	assert.Equal(t, []float64{9.7, 9.6}, w.LowWith(9.6))
}

func TestCountOpenPositions(t *testing.T) {
	positions := []Position{
		{Symbol: "000001", Volume: 100, SellableVolume: 100},
		{Symbol: "600519", Volume: 0, SellableVolume: 0},
		{Symbol: "002415", Volume: 200, SellableVolume: 0},
	}

	assert.Equal(t, 2, CountOpenPositions(positions))
}
