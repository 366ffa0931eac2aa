package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLogger(t *testing.T) {
	log, err := NewLogger()
	require.NoError(t, err)
	require.NotNil(t, log)
	require.NotNil(t, log.Logger)

	// none of these should panic
	log.Debug("debug line")
	log.Info("info line", zap.String("symbol", "000001"))
	log.Warn("warn line")
	log.Error("error line", zap.Error(os.ErrNotExist))
}

func TestSyncNilInnerLogger(t *testing.T) {
	log := &Logger{}
	assert.NoError(t, log.Sync())
}

func TestNewLoggerWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "silverfox.log")

	log, err := NewLoggerWithFile(path)
	require.NoError(t, err)

	log.Info("written to file", zap.String("key", "value"))
	log.Sync() //nolint:errcheck

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}

func TestNewNopLogger(t *testing.T) {
	log := NewNopLogger()
	require.NotNil(t, log)
	log.Info("discarded")
}
