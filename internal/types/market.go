package types

// Quote is one live tick snapshot for a symbol. The feed replaces it every
// cycle; only the most recent value within a second is ever observed.
type Quote struct {
	Symbol string `json:"symbol" yaml:"symbol"`
	// LastPrice is the latest traded price
	LastPrice float64 `json:"last_price" yaml:"last_price"`
	// Open is today's opening price
	Open float64 `json:"open" yaml:"open"`
	// PrevClose is the previous trading day's close
	PrevClose float64 `json:"prev_close" yaml:"prev_close"`
	High float64 `json:"high" yaml:"high"`
	Low  float64 `json:"low" yaml:"low"`
	// Volume is the cumulative traded volume since today's open
	Volume float64 `json:"volume" yaml:"volume"`
	// Amount is the cumulative traded amount since today's open
	Amount float64 `json:"amount" yaml:"amount"`
}

// DailyBar is one historical daily candle.
type DailyBar struct {
	// Date is the trading date in YYYY-MM-DD form
	Date   string  `json:"date" yaml:"date"`
	Open   float64 `json:"open" yaml:"open"`
	Close  float64 `json:"close" yaml:"close"`
	High   float64 `json:"high" yaml:"high"`
	Low    float64 `json:"low" yaml:"low"`
	Volume float64 `json:"volume" yaml:"volume"`
	Amount float64 `json:"amount" yaml:"amount"`
}

// BarWindow is a fixed-length trailing window of daily bars for one symbol,
// stored column-wise so indicator code can append the live tick and compute
// over plain slices. Immutable once built for the day.
type BarWindow struct {
	Symbol string    `json:"symbol"`
	Dates  []string  `json:"dates"`
	Close  []float64 `json:"close"`
	High   []float64 `json:"high"`
	Low    []float64 `json:"low"`
	Volume []float64 `json:"volume"`
}

// NewBarWindow builds a column-wise window from daily bars.
func NewBarWindow(symbol string, bars []DailyBar) BarWindow {
	w := BarWindow{
		Symbol: symbol,
		Dates:  make([]string, 0, len(bars)),
		Close:  make([]float64, 0, len(bars)),
		High:   make([]float64, 0, len(bars)),
		Low:    make([]float64, 0, len(bars)),
		Volume: make([]float64, 0, len(bars)),
	}

	for _, bar := range bars {
		w.Dates = append(w.Dates, bar.Date)
		w.Close = append(w.Close, bar.Close)
		w.High = append(w.High, bar.High)
		w.Low = append(w.Low, bar.Low)
		w.Volume = append(w.Volume, bar.Volume)
	}

	return w
}

// Len returns the number of bars in the window.
func (w BarWindow) Len() int {
	return len(w.Close)
}

// CloseWith returns the close series with the live price appended.
func (w BarWindow) CloseWith(price float64) []float64 {
	return appendCopy(w.Close, price)
}

// HighWith returns the high series with today's high appended.
func (w BarWindow) HighWith(high float64) []float64 {
	return appendCopy(w.High, high)
}

// LowWith returns the low series with today's low appended.
func (w BarWindow) LowWith(low float64) []float64 {
	return appendCopy(w.Low, low)
}

// appendCopy never aliases the window's backing array; windows are shared
// read-only across the whole session.
func appendCopy(series []float64, v float64) []float64 {
	out := make([]float64, len(series)+1)
	copy(out, series)
	out[len(series)] = v

	return out
}
