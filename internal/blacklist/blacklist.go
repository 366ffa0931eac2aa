// Package blacklist maintains the set of symbols the buy side must never
// touch: risk-warning and delisting boards, oversized floats, and manual
// exclusions. The set is rebuilt once before the open and read on every
// selection cycle.
package blacklist

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/silverfox-lab/silverfox/internal/logger"
	"github.com/silverfox-lab/silverfox/pkg/errors"
)

// Source yields one contribution to the blacklist.
type Source struct {
	Name  string
	Fetch func(ctx context.Context) ([]string, error)
}

// Filter is the merged blacklist. Refresh replaces the whole set, so a
// symbol leaving every source becomes buyable again the next day.
type Filter struct {
	mu      sync.RWMutex
	blocked map[string]struct{}
	sources []Source
	logger  *logger.Logger
}

// NewFilter creates an empty filter over the given sources.
func NewFilter(log *logger.Logger, sources ...Source) *Filter {
	return &Filter{
		blocked: make(map[string]struct{}),
		sources: sources,
		logger:  log,
	}
}

// Contains reports whether the symbol is blacklisted.
func (f *Filter) Contains(symbol string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	_, ok := f.blocked[symbol]

	return ok
}

// Size returns the number of blacklisted symbols.
func (f *Filter) Size() int {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return len(f.blocked)
}

// Refresh rebuilds the set from every source. A failing source is logged
// and skipped so one flaky upstream does not block the open; the error is
// still returned after all sources were attempted.
func (f *Filter) Refresh(ctx context.Context) error {
	merged := make(map[string]struct{})

	var firstErr error

	for _, source := range f.sources {
		symbols, err := source.Fetch(ctx)
		if err != nil {
			f.logger.Error("Blacklist source failed",
				zap.String("source", source.Name),
				zap.Error(err))

			if firstErr == nil {
				firstErr = errors.Wrapf(errors.ErrCodeBlacklistRefresh, err, "source %s failed", source.Name)
			}

			continue
		}

		for _, symbol := range symbols {
			merged[symbol] = struct{}{}
		}
	}

	f.mu.Lock()
	f.blocked = merged
	f.mu.Unlock()

	f.logger.Info("Blacklist refreshed", zap.Int("symbols", len(merged)))

	return firstErr
}
