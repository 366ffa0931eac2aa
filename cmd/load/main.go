package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"

	"github.com/silverfox-lab/silverfox/internal/logger"
	"github.com/silverfox-lab/silverfox/internal/market"
	"github.com/silverfox-lab/silverfox/internal/types"
	"github.com/silverfox-lab/silverfox/internal/version"
)

// loadAction imports CSV exports from the nightly data pipeline into the
// market database. Each input is optional so partial refreshes work.
func loadAction(ctx context.Context, cmd *cli.Command) error {
	lg, err := logger.NewLogger()
	if err != nil {
		return err
	}
	defer lg.Sync() //nolint:errcheck

	mkt, err := market.NewDuckDBMarket(cmd.String("data"), lg)
	if err != nil {
		return err
	}
	defer mkt.Close() //nolint:errcheck

	if path := cmd.String("calendar"); path != "" {
		if err := loadCalendar(ctx, mkt, path); err != nil {
			return fmt.Errorf("calendar import failed: %w", err)
		}
	}

	if path := cmd.String("listings"); path != "" {
		if err := loadListings(ctx, mkt, path); err != nil {
			return fmt.Errorf("listings import failed: %w", err)
		}
	}

	if path := cmd.String("bars"); path != "" {
		if err := loadBars(ctx, mkt, path); err != nil {
			return fmt.Errorf("bar import failed: %w", err)
		}
	}

	log.Println("Import completed successfully.")

	return nil
}

// loadCalendar reads one trading date per row (YYYY-MM-DD).
func loadCalendar(ctx context.Context, mkt *market.DuckDBMarket, path string) error {
	rows, err := readCSV(path)
	if err != nil {
		return err
	}

	dates := make([]string, 0, len(rows))
	for _, row := range rows {
		dates = append(dates, row[0])
	}

	return mkt.LoadTradingDays(ctx, dates)
}

// loadListings reads symbol,restricted,market_cap rows.
func loadListings(ctx context.Context, mkt *market.DuckDBMarket, path string) error {
	rows, err := readCSV(path)
	if err != nil {
		return err
	}

	bar := progressbar.Default(int64(len(rows)), "Importing listings")

	for i, row := range rows {
		if len(row) < 3 {
			return fmt.Errorf("row %d: expected symbol,restricted,market_cap", i+1)
		}

		restricted, err := strconv.ParseBool(row[1])
		if err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}

		marketCap, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}

		if err := mkt.LoadListing(ctx, row[0], restricted, marketCap); err != nil {
			return err
		}

		bar.Add(1) //nolint:errcheck
	}

	return nil
}

// loadBars reads symbol,date,open,close,high,low,volume,amount rows and
// groups them per symbol before inserting.
func loadBars(ctx context.Context, mkt *market.DuckDBMarket, path string) error {
	rows, err := readCSV(path)
	if err != nil {
		return err
	}

	grouped := make(map[string][]types.DailyBar)

	for i, row := range rows {
		if len(row) < 8 {
			return fmt.Errorf("row %d: expected symbol,date,open,close,high,low,volume,amount", i+1)
		}

		fields := make([]float64, 6)
		for j, raw := range row[2:8] {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return fmt.Errorf("row %d: %w", i+1, err)
			}

			fields[j] = v
		}

		grouped[row[0]] = append(grouped[row[0]], types.DailyBar{
			Date:   row[1],
			Open:   fields[0],
			Close:  fields[1],
			High:   fields[2],
			Low:    fields[3],
			Volume: fields[4],
			Amount: fields[5],
		})
	}

	bar := progressbar.Default(int64(len(grouped)), "Importing daily bars")

	for symbol, bars := range grouped {
		if err := mkt.LoadDailyBars(ctx, symbol, bars); err != nil {
			return fmt.Errorf("symbol %s: %w", symbol, err)
		}

		bar.Add(1) //nolint:errcheck
	}

	return nil
}

// readCSV returns all data rows, skipping a header row when the first
// cell does not look like data.
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(rows) > 0 && len(rows[0]) > 0 && (rows[0][0] == "symbol" || rows[0][0] == "date") {
		rows = rows[1:]
	}

	return rows, nil
}

func main() {
	cmd := &cli.Command{
		Name:    "load",
		Usage:   "Import market data CSV exports into the market database",
		Version: version.GetVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "data",
				Value: "data/market.db",
				Usage: "Path to the market data DuckDB database",
			},
			&cli.StringFlag{
				Name:  "bars",
				Usage: "CSV of daily bars (symbol,date,open,close,high,low,volume,amount)",
			},
			&cli.StringFlag{
				Name:  "calendar",
				Usage: "CSV of trading dates, one YYYY-MM-DD per row",
			},
			&cli.StringFlag{
				Name:  "listings",
				Usage: "CSV of listings (symbol,restricted,market_cap)",
			},
		},
		Action: loadAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatalf("Import failed: %v", err)
	}
}
