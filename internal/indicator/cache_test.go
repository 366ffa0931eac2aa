package indicator

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silverfox-lab/silverfox/internal/logger"
	"github.com/silverfox-lab/silverfox/internal/store"
	"github.com/silverfox-lab/silverfox/internal/types"
)

type fakeProvider struct {
	bars       map[string][]types.DailyBar
	fetchCalls int
	failures   int
}

func (p *fakeProvider) FetchDailyBars(_ context.Context, symbols []string, _, _ string) (map[string][]types.DailyBar, error) {
	p.fetchCalls++

	if p.failures > 0 {
		p.failures--

		return nil, fmt.Errorf("upstream unavailable")
	}

	out := make(map[string][]types.DailyBar)
	for _, s := range symbols {
		if bars, ok := p.bars[s]; ok {
			out[s] = bars
		}
	}

	return out, nil
}

func (p *fakeProvider) ListSymbols(_ context.Context, _ []string) ([]string, error) {
	symbols := make([]string, 0, len(p.bars))
	for s := range p.bars {
		symbols = append(symbols, s)
	}

	return symbols, nil
}

type fakeCalendar struct{}

func (fakeCalendar) IsTradingDay(context.Context, string) (bool, error) {
	return true, nil
}

func (fakeCalendar) PrevTradingDay(_ context.Context, date string, offset int) (string, error) {
	return fmt.Sprintf("%s-minus-%d", date, offset), nil
}

func makeBars(n int, base float64) []types.DailyBar {
	bars := make([]types.DailyBar, 0, n)
	for i := 0; i < n; i++ {
		price := base + float64(i)*0.01
		bars = append(bars, types.DailyBar{
			Date:   fmt.Sprintf("d%03d", i),
			Open:   price,
			Close:  price,
			High:   price + 0.05,
			Low:    price - 0.05,
			Volume: 1000,
		})
	}

	return bars
}

func newTestCache(p *fakeProvider, kv store.KV, dayCount int) *Cache {
	c := NewCache(p, fakeCalendar{}, kv, logger.NewNopLogger(), dayCount, []string{"000"})
	c.progress = false

	return c
}

func TestRebuildKeepsOnlyCompleteWindows(t *testing.T) {
	p := &fakeProvider{bars: map[string][]types.DailyBar{
		"000001": makeBars(5, 10.0),
		"000002": makeBars(3, 8.0), // listed too recently
	}}
	c := newTestCache(p, store.NewMemoryKV(), 5)

	require.NoError(t, c.Rebuild(context.Background(), "2026-08-28"))

	assert.Equal(t, 1, c.Size())
	assert.True(t, c.Get("000001").IsSome())
	assert.True(t, c.Get("000002").IsNone())

	w := c.Get("000001").Unwrap()
	assert.Equal(t, 5, w.Len())
	assert.Equal(t, "000001", w.Symbol)
}

func TestRebuildRejectsNonPositiveCloses(t *testing.T) {
	bars := makeBars(5, 10.0)
	bars[2].Close = 0

	p := &fakeProvider{bars: map[string][]types.DailyBar{"000001": bars}}
	c := newTestCache(p, store.NewMemoryKV(), 5)

	require.NoError(t, c.Rebuild(context.Background(), "2026-08-28"))
	assert.True(t, c.Get("000001").IsNone())
}

func TestRebuildReusesSnapshotForSameDate(t *testing.T) {
	kv := store.NewMemoryKV()
	p := &fakeProvider{bars: map[string][]types.DailyBar{"000001": makeBars(5, 10.0)}}

	c := newTestCache(p, kv, 5)
	require.NoError(t, c.Rebuild(context.Background(), "2026-08-28"))

	fetched := p.fetchCalls

	// A fresh cache over the same store must come back from the snapshot
	// without touching the provider.
	restarted := newTestCache(p, kv, 5)
	require.NoError(t, restarted.Rebuild(context.Background(), "2026-08-28"))

	assert.Equal(t, fetched, p.fetchCalls)
	assert.Equal(t, 1, restarted.Size())
	assert.True(t, restarted.Get("000001").IsSome())
}

func TestRebuildRetriesTransientFailures(t *testing.T) {
	p := &fakeProvider{
		bars:     map[string][]types.DailyBar{"000001": makeBars(5, 10.0)},
		failures: 2,
	}
	c := newTestCache(p, store.NewMemoryKV(), 5)

	require.NoError(t, c.Rebuild(context.Background(), "2026-08-28"))
	assert.True(t, c.Get("000001").IsSome())
}
