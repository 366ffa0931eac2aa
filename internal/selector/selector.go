// Package selector implements the buy side: scanning the live quote map for
// names whose price sits above all three Hull moving averages, ranking them,
// and planning the cycle's buy orders within the capital and slot budgets.
package selector

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/silverfox-lab/silverfox/internal/blacklist"
	"github.com/silverfox-lab/silverfox/internal/config"
	"github.com/silverfox-lab/silverfox/internal/indicator"
	"github.com/silverfox-lab/silverfox/internal/logger"
	"github.com/silverfox-lab/silverfox/internal/types"
)

// Candidate is one symbol that passed the buy predicate this cycle.
type Candidate struct {
	Symbol   string
	Price    float64
	HMAShort float64
	HMAMid   float64
	HMALong  float64
}

// Selector screens the live quote map against the buy predicate.
type Selector struct {
	cfg       *config.Config
	cache     *indicator.Cache
	blacklist *blacklist.Filter
	logger    *logger.Logger
}

// NewSelector creates a buy selector.
func NewSelector(cfg *config.Config, cache *indicator.Cache, bl *blacklist.Filter, log *logger.Logger) *Selector {
	return &Selector{
		cfg:       cfg,
		cache:     cache,
		blacklist: bl,
		logger:    log,
	}
}

// Select returns every quote passing the buy predicate, ranked cheapest
// first. A symbol with no cached window, or on the blacklist, is silently
// ignored.
func (s *Selector) Select(quotes map[string]types.Quote) []Candidate {
	candidates := make([]Candidate, 0)

	for symbol, quote := range quotes {
		if !s.hasTargetPrefix(symbol) {
			continue
		}

		window := s.cache.Get(symbol)
		if window.IsNone() {
			continue
		}

		if s.blacklist.Contains(symbol) {
			continue
		}

		candidate, ok := s.evaluate(symbol, quote, window.Unwrap())
		if !ok {
			continue
		}

		candidates = append(candidates, candidate)
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Price < candidates[j].Price
	})

	return candidates
}

// evaluate applies the predicate: a minimum price, a bounded gap over the
// previous close, and the live price clearing all three Hull averages with
// the open below each. The longest period runs first since it rejects most.
func (s *Selector) evaluate(symbol string, quote types.Quote, window types.BarWindow) (Candidate, bool) {
	price := quote.LastPrice

	if price <= s.cfg.Buy.MinPrice {
		return Candidate{}, false
	}

	if quote.Open <= 0 || price <= quote.Open {
		return Candidate{}, false
	}

	if quote.PrevClose <= 0 || price >= quote.PrevClose*s.cfg.Buy.IncLimit {
		return Candidate{}, false
	}

	closes := window.CloseWith(price)

	hmaLong, ok := s.hmaAbove(symbol, closes, s.cfg.Buy.HMALong, quote)
	if !ok {
		return Candidate{}, false
	}

	hmaMid, ok := s.hmaAbove(symbol, closes, s.cfg.Buy.HMAMid, quote)
	if !ok {
		return Candidate{}, false
	}

	hmaShort, ok := s.hmaAbove(symbol, closes, s.cfg.Buy.HMAShort, quote)
	if !ok {
		return Candidate{}, false
	}

	return Candidate{
		Symbol:   symbol,
		Price:    price,
		HMAShort: hmaShort,
		HMAMid:   hmaMid,
		HMALong:  hmaLong,
	}, true
}

func (s *Selector) hmaAbove(symbol string, closes []float64, period int, quote types.Quote) (float64, bool) {
	hma, err := indicator.HMA(closes, period)
	if err != nil {
		s.logger.Debug("HMA unavailable",
			zap.String("symbol", symbol),
			zap.Int("period", period),
			zap.Error(err))

		return 0, false
	}

	if quote.Open >= hma || hma >= quote.LastPrice {
		return 0, false
	}

	return hma, true
}

func (s *Selector) hasTargetPrefix(symbol string) bool {
	for _, prefix := range s.cfg.Buy.TargetPrefixes {
		if strings.HasPrefix(symbol, prefix) {
			return true
		}
	}

	return false
}
