package dawg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRow() Row {
	return newRow(
		[]string{"id", "name"},
		[]Value{IntegerValue(1), TextValue("alice")},
	)
}

func TestRowLenAndAt(t *testing.T) {
	r := sampleRow()
	assert.Equal(t, 2, r.Len())
	name, v := r.At(1)
	assert.Equal(t, "name", name)
	assert.True(t, v.Equal(TextValue("alice")))
}

func TestRowGet(t *testing.T) {
	r := sampleRow()
	v, ok := r.Get("id")
	require.True(t, ok)
	assert.True(t, v.Equal(IntegerValue(1)))

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestRowGetFirstMatchOnDuplicateNames(t *testing.T) {
	r := newRow([]string{"x", "x"}, []Value{IntegerValue(1), IntegerValue(2)})
	v, ok := r.Get("x")
	require.True(t, ok)
	assert.True(t, v.Equal(IntegerValue(1)))
}

func TestDecodeAtAndDecodeNamed(t *testing.T) {
	r := sampleRow()
	id, err := DecodeAt[int64](r, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	name, err := DecodeNamed[string](r, "name")
	require.NoError(t, err)
	assert.Equal(t, "alice", name)

	_, err = DecodeNamed[string](r, "nope")
	require.Error(t, err)
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, KindDecodeKeyNotFound, e.Kind)

	_, err = DecodeAt[int64](r, 99)
	require.Error(t, err)
}

func TestRowScanTuple(t *testing.T) {
	r := sampleRow()
	var id int64
	var name string
	require.NoError(t, r.Scan(&id, &name))
	assert.Equal(t, int64(1), id)
	assert.Equal(t, "alice", name)
}

func TestRowScanRejectsNonPointer(t *testing.T) {
	r := sampleRow()
	var id int64
	err := r.Scan(id)
	require.Error(t, err)
}

func TestDecodePair(t *testing.T) {
	r := sampleRow()
	p, err := DecodePair[int64, string](r)
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.First)
	assert.Equal(t, "alice", p.Second)
}

func TestDecodePairColumnCountMismatch(t *testing.T) {
	r := newRow([]string{"a"}, []Value{IntegerValue(1)})
	_, err := DecodePair[int64, string](r)
	require.Error(t, err)
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, KindColumnCountMismatch, e.Kind)
	assert.Equal(t, 2, e.Expected)
	assert.Equal(t, 1, e.Got)
}

func TestDecodeTriple(t *testing.T) {
	r := newRow([]string{"a", "b", "c"}, []Value{IntegerValue(1), TextValue("x"), FloatValue(2.5)})
	tr, err := DecodeTriple[int64, string, float64](r)
	require.NoError(t, err)
	assert.Equal(t, int64(1), tr.First)
	assert.Equal(t, "x", tr.Second)
	assert.Equal(t, 2.5, tr.Third)
}
