package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectionLedgerMarksOncePerDay(t *testing.T) {
	kv := NewMemoryKV()

	l, err := NewSelectionLedger(kv)
	require.NoError(t, err)

	assert.False(t, l.IsSelected("2026-08-28", "000001"))

	require.NoError(t, l.MarkSelected("2026-08-28", []string{"000001", "600519"}))

	assert.True(t, l.IsSelected("2026-08-28", "000001"))
	assert.True(t, l.IsSelected("2026-08-28", "600519"))
	assert.False(t, l.IsSelected("2026-08-28", "000002"))
	assert.Equal(t, 2, l.Count("2026-08-28"))
}

func TestSelectionLedgerRollsOverOnNewDate(t *testing.T) {
	kv := NewMemoryKV()

	l, err := NewSelectionLedger(kv)
	require.NoError(t, err)

	require.NoError(t, l.MarkSelected("2026-08-28", []string{"000001"}))
	require.NoError(t, l.MarkSelected("2026-08-31", []string{"600519"}))

	assert.False(t, l.IsSelected("2026-08-28", "000001"))
	assert.False(t, l.IsSelected("2026-08-31", "000001"))
	assert.True(t, l.IsSelected("2026-08-31", "600519"))
	assert.Equal(t, 0, l.Count("2026-08-28"))
}

func TestSelectionLedgerSurvivesRestart(t *testing.T) {
	kv := NewMemoryKV()

	l, err := NewSelectionLedger(kv)
	require.NoError(t, err)
	require.NoError(t, l.MarkSelected("2026-08-28", []string{"000001", "000002"}))

	reloaded, err := NewSelectionLedger(kv)
	require.NoError(t, err)

	assert.True(t, reloaded.IsSelected("2026-08-28", "000001"))
	assert.True(t, reloaded.IsSelected("2026-08-28", "000002"))
	assert.False(t, reloaded.IsSelected("2026-08-28", "600519"))
}
