// Package market defines the historical market-data and trading-calendar
// collaborators. The live quote feed is a separate concern (internal/feed);
// this package only serves daily bars and session-calendar lookups.
package market

import (
	"context"

	"github.com/silverfox-lab/silverfox/internal/types"
)

// Provider serves historical daily bars and the tradable symbol universe.
type Provider interface {
	// FetchDailyBars returns daily bars per symbol for the inclusive date
	// range, ordered oldest first. Symbols with no data are simply absent
	// from the result.
	FetchDailyBars(ctx context.Context, symbols []string, startDate, endDate string) (map[string][]types.DailyBar, error)
	// ListSymbols returns every known symbol matching one of the prefixes.
	ListSymbols(ctx context.Context, prefixes []string) ([]string, error)
}

// Calendar answers exchange session-calendar questions.
type Calendar interface {
	// IsTradingDay reports whether the exchange is open on the given date
	// (YYYY-MM-DD).
	IsTradingDay(ctx context.Context, date string) (bool, error)
	// PrevTradingDay returns the trading day offset sessions before date.
	// Offset 1 is the most recent session strictly before date.
	PrevTradingDay(ctx context.Context, date string, offset int) (string, error)
}

// ListingProvider exposes the administrative listing facts the blacklist is
// built from.
type ListingProvider interface {
	// RestrictedSymbols returns symbols under administrative restriction
	// (risk-warning boards, delisting queues, manual exclusions).
	RestrictedSymbols(ctx context.Context) ([]string, error)
	// SymbolsAboveMarketCap returns symbols whose float market value
	// exceeds the ceiling.
	SymbolsAboveMarketCap(ctx context.Context, ceiling float64) ([]string, error)
}
