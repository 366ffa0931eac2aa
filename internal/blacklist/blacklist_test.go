package blacklist

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silverfox-lab/silverfox/internal/logger"
	"github.com/silverfox-lab/silverfox/pkg/errors"
)

func fixedSource(name string, symbols ...string) Source {
	return Source{
		Name: name,
		Fetch: func(context.Context) ([]string, error) {
			return symbols, nil
		},
	}
}

func failingSource(name string) Source {
	return Source{
		Name: name,
		Fetch: func(context.Context) ([]string, error) {
			return nil, fmt.Errorf("upstream down")
		},
	}
}

func TestRefreshMergesSources(t *testing.T) {
	f := NewFilter(logger.NewNopLogger(),
		fixedSource("restricted", "000001", "600519"),
		fixedSource("oversized", "600519", "601398"))

	require.NoError(t, f.Refresh(context.Background()))

	assert.True(t, f.Contains("000001"))
	assert.True(t, f.Contains("600519"))
	assert.True(t, f.Contains("601398"))
	assert.False(t, f.Contains("000002"))
	assert.Equal(t, 3, f.Size())
}

func TestRefreshReplacesPreviousSet(t *testing.T) {
	current := []string{"000001"}
	f := NewFilter(logger.NewNopLogger(), Source{
		Name: "restricted",
		Fetch: func(context.Context) ([]string, error) {
			return current, nil
		},
	})

	require.NoError(t, f.Refresh(context.Background()))
	assert.True(t, f.Contains("000001"))

	current = []string{"000002"}
	require.NoError(t, f.Refresh(context.Background()))

	assert.False(t, f.Contains("000001"))
	assert.True(t, f.Contains("000002"))
}

func TestRefreshKeepsGoingPastFailedSource(t *testing.T) {
	f := NewFilter(logger.NewNopLogger(),
		failingSource("restricted"),
		fixedSource("manual", "300750"))

	err := f.Refresh(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeBlacklistRefresh))

	// the healthy source still contributed
	assert.True(t, f.Contains("300750"))
}

func TestEmptyFilterBlocksNothing(t *testing.T) {
	f := NewFilter(logger.NewNopLogger())
	assert.False(t, f.Contains("000001"))
	assert.Zero(t, f.Size())
}
