package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionStoreTracksBuyAndSell(t *testing.T) {
	kv := NewMemoryKV()

	s, err := NewPositionStore(kv)
	require.NoError(t, err)

	_, ok := s.HeldDays("000001")
	assert.False(t, ok)

	require.NoError(t, s.RecordBuyFill("000001"))

	days, ok := s.HeldDays("000001")
	require.True(t, ok)
	assert.Equal(t, 0, days)

	require.NoError(t, s.RecordSellFill("000001"))

	_, ok = s.HeldDays("000001")
	assert.False(t, ok)
}

func TestPositionStoreBuyFillKeepsExistingMeta(t *testing.T) {
	kv := NewMemoryKV()

	s, err := NewPositionStore(kv)
	require.NoError(t, err)

	require.NoError(t, s.RecordBuyFill("600519"))
	require.NoError(t, s.BumpAllHeldDays("2026-08-28"))
	require.NoError(t, s.UpdateMaxPrice("600519", 1500.0))

	// a second fill for a tracked symbol must not reset the meta
	require.NoError(t, s.RecordBuyFill("600519"))

	days, ok := s.HeldDays("600519")
	require.True(t, ok)
	assert.Equal(t, 1, days)
	assert.Equal(t, 1500.0, s.MaxPrice("600519").Unwrap())
}

func TestBumpAllHeldDaysIsIdempotentPerDate(t *testing.T) {
	kv := NewMemoryKV()

	s, err := NewPositionStore(kv)
	require.NoError(t, err)

	require.NoError(t, s.RecordBuyFill("000001"))
	require.NoError(t, s.RecordBuyFill("000002"))

	require.NoError(t, s.BumpAllHeldDays("2026-08-28"))
	require.NoError(t, s.BumpAllHeldDays("2026-08-28"))

	days, _ := s.HeldDays("000001")
	assert.Equal(t, 1, days)
	days, _ = s.HeldDays("000002")
	assert.Equal(t, 1, days)

	require.NoError(t, s.BumpAllHeldDays("2026-08-31"))

	days, _ = s.HeldDays("000001")
	assert.Equal(t, 2, days)
}

func TestUpdateMaxPriceIsMonotonic(t *testing.T) {
	kv := NewMemoryKV()

	s, err := NewPositionStore(kv)
	require.NoError(t, err)

	require.NoError(t, s.RecordBuyFill("000001"))

	assert.True(t, s.MaxPrice("000001").IsNone())

	require.NoError(t, s.UpdateMaxPrice("000001", 10.5))
	assert.Equal(t, 10.5, s.MaxPrice("000001").Unwrap())

	require.NoError(t, s.UpdateMaxPrice("000001", 10.2))
	assert.Equal(t, 10.5, s.MaxPrice("000001").Unwrap())

	require.NoError(t, s.UpdateMaxPrice("000001", 11.0))
	assert.Equal(t, 11.0, s.MaxPrice("000001").Unwrap())

	// untracked symbols are ignored
	require.NoError(t, s.UpdateMaxPrice("999999", 5.0))
	assert.True(t, s.MaxPrice("999999").IsNone())
}

func TestPositionStoreSurvivesRestart(t *testing.T) {
	kv := NewMemoryKV()

	s, err := NewPositionStore(kv)
	require.NoError(t, err)

	require.NoError(t, s.RecordBuyFill("000001"))
	require.NoError(t, s.RecordBuyFill("600519"))
	require.NoError(t, s.BumpAllHeldDays("2026-08-28"))
	require.NoError(t, s.UpdateMaxPrice("000001", 12.34))

	reloaded, err := NewPositionStore(kv)
	require.NoError(t, err)

	days, ok := reloaded.HeldDays("000001")
	require.True(t, ok)
	assert.Equal(t, 1, days)
	assert.Equal(t, 12.34, reloaded.MaxPrice("000001").Unwrap())
	assert.True(t, reloaded.MaxPrice("600519").IsNone())

	// the bump marker survives too
	require.NoError(t, reloaded.BumpAllHeldDays("2026-08-28"))

	days, _ = reloaded.HeldDays("000001")
	assert.Equal(t, 1, days)

	assert.ElementsMatch(t, []string{"000001", "600519"}, reloaded.TrackedSymbols())
}
