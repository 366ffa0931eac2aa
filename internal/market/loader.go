package market

import (
	"context"

	"github.com/silverfox-lab/silverfox/internal/types"
	"github.com/silverfox-lab/silverfox/pkg/errors"
)

// The load helpers below are the import surface for the nightly data
// pipeline; tests use them to seed fixture databases.

// LoadDailyBars upserts daily bars for a symbol.
func (m *DuckDBMarket) LoadDailyBars(ctx context.Context, symbol string, bars []types.DailyBar) error {
	for _, bar := range bars {
		query, args, err := m.sq.
			Insert("daily_bars").
			Columns("symbol", "date", "open", "close", "high", "low", "volume", "amount").
			Values(symbol, bar.Date, bar.Open, bar.Close, bar.High, bar.Low, bar.Volume, bar.Amount).
			Suffix("ON CONFLICT (symbol, date) DO UPDATE SET open = excluded.open, close = excluded.close, high = excluded.high, low = excluded.low, volume = excluded.volume, amount = excluded.amount").
			ToSql()
		if err != nil {
			return errors.Wrap(errors.ErrCodeQueryFailed, "failed to build bar insert", err)
		}

		if _, err := m.db.ExecContext(ctx, query, args...); err != nil {
			return errors.Wrap(errors.ErrCodeQueryFailed, "failed to insert daily bar", err)
		}
	}

	return nil
}

// LoadTradingDays upserts calendar dates.
func (m *DuckDBMarket) LoadTradingDays(ctx context.Context, dates []string) error {
	for _, date := range dates {
		query, args, err := m.sq.
			Insert("trading_days").
			Columns("date").
			Values(date).
			Suffix("ON CONFLICT (date) DO NOTHING").
			ToSql()
		if err != nil {
			return errors.Wrap(errors.ErrCodeQueryFailed, "failed to build calendar insert", err)
		}

		if _, err := m.db.ExecContext(ctx, query, args...); err != nil {
			return errors.Wrap(errors.ErrCodeQueryFailed, "failed to insert trading day", err)
		}
	}

	return nil
}

// LoadListing upserts one symbol's listing facts.
func (m *DuckDBMarket) LoadListing(ctx context.Context, symbol string, restricted bool, marketCap float64) error {
	query, args, err := m.sq.
		Insert("listings").
		Columns("symbol", "restricted", "market_cap").
		Values(symbol, restricted, marketCap).
		Suffix("ON CONFLICT (symbol) DO UPDATE SET restricted = excluded.restricted, market_cap = excluded.market_cap").
		ToSql()
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to build listing insert", err)
	}

	if _, err := m.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to insert listing", err)
	}

	return nil
}
