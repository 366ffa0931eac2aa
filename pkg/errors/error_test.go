package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndNewf(t *testing.T) {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	require.NotNil(t, err)
	assert.Equal(t, ErrCodeInvalidParameter, err.Code)
	assert.Equal(t, "invalid parameter", err.Message)
	assert.Nil(t, err.Cause)
	assert.Equal(t, "[100] invalid parameter", err.Error())

	err = Newf(ErrCodeDataNotFound, "no bars for %s", "000001")
	assert.Equal(t, "no bars for 000001", err.Message)
}

func TestWrapKeepsCause(t *testing.T) {
	cause := stderrors.New("disk full")

	err := Wrap(ErrCodeSnapshotFailed, "snapshot write failed", cause)
	assert.Equal(t, ErrCodeSnapshotFailed, err.Code)
	assert.Equal(t, "[204] snapshot write failed: disk full", err.Error())
	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, stderrors.Is(err, cause))

	err = Wrapf(ErrCodeQueryFailed, cause, "query for %s failed", "600519")
	assert.Equal(t, "query for 600519 failed", err.Message)
	assert.Equal(t, cause, err.Cause)
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, ErrCodeInvalidOrder, GetCode(New(ErrCodeInvalidOrder, "bad order")))

	// outermost code wins on nested coded errors
	inner := New(ErrCodeDataNotFound, "missing")
	outer := Wrap(ErrCodeIndicatorRebuild, "rebuild failed", inner)
	assert.Equal(t, ErrCodeIndicatorRebuild, GetCode(outer))

	assert.Equal(t, ErrCodeUnknown, GetCode(stderrors.New("plain")))
}

func TestHasCode(t *testing.T) {
	err := New(ErrCodeSellRuleFailed, "rule blew up")
	assert.True(t, HasCode(err, ErrCodeSellRuleFailed))
	assert.False(t, HasCode(err, ErrCodeOrderSubmitFailed))
}

func TestCategoryAnchors(t *testing.T) {
	assert.Equal(t, ErrorCode(1), ErrCodeUnknown)
	assert.Equal(t, ErrorCode(100), ErrCodeInvalidParameter)
	assert.Equal(t, ErrorCode(200), ErrCodeDataNotFound)
	assert.Equal(t, ErrorCode(300), ErrCodeInsufficientData)
	assert.Equal(t, ErrorCode(400), ErrCodeSelectionFailed)
	assert.Equal(t, ErrorCode(500), ErrCodeSellRuleFailed)
	assert.Equal(t, ErrorCode(600), ErrCodeOrderSubmitFailed)
	assert.Equal(t, ErrorCode(700), ErrCodeEngineInitFailed)
}

func TestInsufficientDataError(t *testing.T) {
	err := NewInsufficientDataErrorf(29, 12, "000001", "hma needs %d closes, have %d", 29, 12)
	assert.Equal(t, 29, err.Required)
	assert.Equal(t, 12, err.Actual)
	assert.Equal(t, "000001", err.Symbol)
	assert.Equal(t, "hma needs 29 closes, have 12", err.Error())

	assert.True(t, IsInsufficientDataError(err))

	// detected through a coded wrapper as well
	wrapped := Wrap(ErrCodeIndicatorRebuild, "window too short", err)
	assert.True(t, IsInsufficientDataError(wrapped))

	assert.False(t, IsInsufficientDataError(stderrors.New("plain")))
	assert.False(t, IsInsufficientDataError(nil))
	assert.False(t, IsInsufficientDataError(New(ErrCodeInsufficientData, "coded but untyped")))
}
