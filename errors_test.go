package dawg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessages(t *testing.T) {
	assert.Contains(t, mismatchErr(2, 1).Error(), "expected 2, got 1")
	assert.Contains(t, columnCountErr(3, 1).Error(), "expected 3, got 1")
	assert.Contains(t, keyNotFoundErr("foo").Error(), `"foo"`)
	assert.Contains(t, engineErr(KindEngineUnknown, 5, "disk I/O error").Error(), "disk I/O error")
}

func TestIsNoRows(t *testing.T) {
	err := newErr(KindNoRowsFetched, "query returned no rows")
	assert.True(t, IsNoRows(err))
	assert.False(t, IsNoRows(newErr(KindEmptyQuery, "x")))
	assert.False(t, IsNoRows(nil))
}

func TestErrorUnwrap(t *testing.T) {
	err := engineErr(KindEngineUnknown, 1, "disk I/O error")
	require.Error(t, err.Unwrap())
	assert.Equal(t, "disk I/O error", err.Unwrap().Error())
}
