package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silverfox-lab/silverfox/internal/logger"
	"github.com/silverfox-lab/silverfox/internal/types"
)

type recordedCycle struct {
	at     time.Time
	quotes map[string]types.Quote
}

func newRecordingAggregator() (*Aggregator, *[]recordedCycle, *time.Time) {
	cycles := &[]recordedCycle{}
	clock := time.Date(2026, 8, 28, 9, 35, 0, 0, time.Local)
	now := &clock

	a := NewAggregator(func(at time.Time, quotes map[string]types.Quote) {
		*cycles = append(*cycles, recordedCycle{at: at, quotes: quotes})
	}, logger.NewNopLogger())
	a.now = func() time.Time { return *now }

	return a, cycles, now
}

func TestPushFiresOncePerSecond(t *testing.T) {
	a, cycles, now := newRecordingAggregator()

	a.Push([]types.Quote{{Symbol: "000001", LastPrice: 10.0}})
	require.Len(t, *cycles, 1)

	// same second: accumulate only
	a.Push([]types.Quote{{Symbol: "600519", LastPrice: 1500.0}})
	a.Push([]types.Quote{{Symbol: "000002", LastPrice: 8.0}})
	require.Len(t, *cycles, 1)

	*now = now.Add(time.Second)
	a.Push([]types.Quote{{Symbol: "000001", LastPrice: 10.1}})
	require.Len(t, *cycles, 2)

	second := (*cycles)[1]
	assert.Len(t, second.quotes, 3)
	assert.Equal(t, 1500.0, second.quotes["600519"].LastPrice)
	assert.Equal(t, 8.0, second.quotes["000002"].LastPrice)
	assert.Equal(t, 10.1, second.quotes["000001"].LastPrice)
}

func TestLaterQuoteReplacesEarlierWithinCycle(t *testing.T) {
	a, cycles, now := newRecordingAggregator()

	a.Push([]types.Quote{{Symbol: "000001", LastPrice: 10.0}})
	a.Push([]types.Quote{{Symbol: "000001", LastPrice: 10.3}})
	a.Push([]types.Quote{{Symbol: "000001", LastPrice: 10.2}})

	*now = now.Add(time.Second)
	a.Tick()

	require.Len(t, *cycles, 2)
	assert.Equal(t, 10.2, (*cycles)[1].quotes["000001"].LastPrice)
}

func TestTickWithoutPendingIsSilent(t *testing.T) {
	a, cycles, now := newRecordingAggregator()

	a.Tick()
	*now = now.Add(time.Second)
	a.Tick()

	assert.Empty(t, *cycles)
}

func TestTickDrainsQuietStream(t *testing.T) {
	a, cycles, now := newRecordingAggregator()

	a.Push([]types.Quote{{Symbol: "000001", LastPrice: 10.0}})
	require.Len(t, *cycles, 1)

	a.Push([]types.Quote{{Symbol: "600519", LastPrice: 1500.0}})

	// no further pushes; the heartbeat delivers the stragglers
	*now = now.Add(time.Second)
	a.Tick()

	require.Len(t, *cycles, 2)
	assert.Len(t, (*cycles)[1].quotes, 1)
	assert.Contains(t, (*cycles)[1].quotes, "600519")
}

func TestCycleMapIsDetachedFromPending(t *testing.T) {
	a, cycles, now := newRecordingAggregator()

	a.Push([]types.Quote{{Symbol: "000001", LastPrice: 10.0}})

	*now = now.Add(time.Second)
	a.Push([]types.Quote{{Symbol: "000001", LastPrice: 10.5}})

	first := (*cycles)[0].quotes
	assert.Equal(t, 10.0, first["000001"].LastPrice)
	assert.Len(t, first, 1)
}
