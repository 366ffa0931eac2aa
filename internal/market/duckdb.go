package market

import (
	"context"
	"database/sql"
	"strings"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"

	"github.com/silverfox-lab/silverfox/internal/logger"
	"github.com/silverfox-lab/silverfox/internal/types"
	"github.com/silverfox-lab/silverfox/pkg/errors"
)

// DuckDBMarket serves daily bars, the symbol universe, listing facts, and
// the trading calendar from a local DuckDB file maintained by the data
// pipeline. It implements Provider, Calendar, and ListingProvider.
type DuckDBMarket struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

const marketSchema = `
CREATE TABLE IF NOT EXISTS daily_bars (
	symbol VARCHAR NOT NULL,
	date   VARCHAR NOT NULL,
	open   DOUBLE,
	close  DOUBLE,
	high   DOUBLE,
	low    DOUBLE,
	volume DOUBLE,
	amount DOUBLE,
	PRIMARY KEY (symbol, date)
);
CREATE TABLE IF NOT EXISTS trading_days (
	date VARCHAR PRIMARY KEY
);
CREATE TABLE IF NOT EXISTS listings (
	symbol     VARCHAR PRIMARY KEY,
	restricted BOOLEAN NOT NULL DEFAULT FALSE,
	market_cap DOUBLE NOT NULL DEFAULT 0
);
`

// NewDuckDBMarket opens (creating if needed) the market database at path.
func NewDuckDBMarket(path string, log *logger.Logger) (*DuckDBMarket, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, "failed to open market database", err)
	}

	if _, err := db.Exec(marketSchema); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, "failed to create market schema", err)
	}

	return &DuckDBMarket{
		db:     db,
		logger: log,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

// FetchDailyBars implements Provider.
func (m *DuckDBMarket) FetchDailyBars(ctx context.Context, symbols []string, startDate, endDate string) (map[string][]types.DailyBar, error) {
	if len(symbols) == 0 {
		return map[string][]types.DailyBar{}, nil
	}

	query, args, err := m.sq.
		Select("symbol", "date", "open", "close", "high", "low", "volume", "amount").
		From("daily_bars").
		Where(squirrel.Eq{"symbol": symbols}).
		Where(squirrel.GtOrEq{"date": startDate}).
		Where(squirrel.LtOrEq{"date": endDate}).
		OrderBy("symbol", "date").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build daily bars query", err)
	}

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeHistoricalDataFailed, "failed to query daily bars", err)
	}
	defer rows.Close()

	result := make(map[string][]types.DailyBar)

	for rows.Next() {
		var symbol string

		var bar types.DailyBar
		if err := rows.Scan(&symbol, &bar.Date, &bar.Open, &bar.Close, &bar.High, &bar.Low, &bar.Volume, &bar.Amount); err != nil {
			return nil, errors.Wrap(errors.ErrCodeHistoricalDataFailed, "failed to scan daily bar", err)
		}

		result[symbol] = append(result[symbol], bar)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeHistoricalDataFailed, "daily bars iteration failed", err)
	}

	return result, nil
}

// ListSymbols implements Provider.
func (m *DuckDBMarket) ListSymbols(ctx context.Context, prefixes []string) ([]string, error) {
	rows, err := m.db.QueryContext(ctx, "SELECT DISTINCT symbol FROM daily_bars ORDER BY symbol")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to list symbols", err)
	}
	defer rows.Close()

	var symbols []string

	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan symbol", err)
		}

		if matchesPrefix(symbol, prefixes) {
			symbols = append(symbols, symbol)
		}
	}

	return symbols, rows.Err()
}

// IsTradingDay implements Calendar.
func (m *DuckDBMarket) IsTradingDay(ctx context.Context, date string) (bool, error) {
	query, args, err := m.sq.
		Select("COUNT(*)").
		From("trading_days").
		Where(squirrel.Eq{"date": date}).
		ToSql()
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build calendar query", err)
	}

	var count int
	if err := m.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, errors.Wrap(errors.ErrCodeCalendarFailed, "failed to query trading day", err)
	}

	return count > 0, nil
}

// PrevTradingDay implements Calendar.
func (m *DuckDBMarket) PrevTradingDay(ctx context.Context, date string, offset int) (string, error) {
	if offset <= 0 {
		return "", errors.Newf(errors.ErrCodeInvalidParameter, "offset must be positive, got %d", offset)
	}

	query, args, err := m.sq.
		Select("date").
		From("trading_days").
		Where(squirrel.Lt{"date": date}).
		OrderBy("date DESC").
		Limit(1).
		Offset(uint64(offset - 1)).
		ToSql()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeQueryFailed, "failed to build calendar query", err)
	}

	var prev string
	if err := m.db.QueryRowContext(ctx, query, args...).Scan(&prev); err != nil {
		if err == sql.ErrNoRows {
			return "", errors.Newf(errors.ErrCodeCalendarFailed, "no trading day %d sessions before %s", offset, date)
		}

		return "", errors.Wrap(errors.ErrCodeCalendarFailed, "failed to query previous trading day", err)
	}

	return prev, nil
}

// RestrictedSymbols implements ListingProvider.
func (m *DuckDBMarket) RestrictedSymbols(ctx context.Context) ([]string, error) {
	query, args, err := m.sq.
		Select("symbol").
		From("listings").
		Where(squirrel.Eq{"restricted": true}).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build listings query", err)
	}

	return m.querySymbols(ctx, query, args)
}

// SymbolsAboveMarketCap implements ListingProvider.
func (m *DuckDBMarket) SymbolsAboveMarketCap(ctx context.Context, ceiling float64) ([]string, error) {
	query, args, err := m.sq.
		Select("symbol").
		From("listings").
		Where(squirrel.Gt{"market_cap": ceiling}).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build listings query", err)
	}

	return m.querySymbols(ctx, query, args)
}

// Close releases the underlying database handle.
func (m *DuckDBMarket) Close() error {
	return m.db.Close()
}

func (m *DuckDBMarket) querySymbols(ctx context.Context, query string, args []any) ([]string, error) {
	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query symbols", err)
	}
	defer rows.Close()

	var symbols []string

	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan symbol", err)
		}

		symbols = append(symbols, symbol)
	}

	return symbols, rows.Err()
}

func matchesPrefix(symbol string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(symbol, prefix) {
			return true
		}
	}

	return false
}

// Interface assertions.
var (
	_ Provider        = (*DuckDBMarket)(nil)
	_ Calendar        = (*DuckDBMarket)(nil)
	_ ListingProvider = (*DuckDBMarket)(nil)
)
