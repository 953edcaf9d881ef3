package dawg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueKindString(t *testing.T) {
	assert.Equal(t, "null", Null.String())
	assert.Equal(t, "integer", Integer.String())
	assert.Equal(t, "float", Float.String())
	assert.Equal(t, "text", Text.String())
	assert.Equal(t, "blob", BlobKind.String())
}

func TestValueConstructorsAndAccessors(t *testing.T) {
	assert.True(t, NullValue().IsNull())
	assert.Equal(t, Null, NullValue().Kind())

	v := IntegerValue(42)
	n, ok := v.AsInteger()
	assert.True(t, ok)
	assert.Equal(t, int64(42), n)
	_, ok = v.AsFloat()
	assert.False(t, ok)

	v = FloatValue(3.5)
	f, ok := v.AsFloat()
	assert.True(t, ok)
	assert.Equal(t, 3.5, f)

	v = TextValue("hello")
	s, ok := v.AsText()
	assert.True(t, ok)
	assert.Equal(t, "hello", s)

	v = BlobValue(LoadedBlob([]byte{1, 2, 3}))
	b, ok := v.AsBlob()
	assert.True(t, ok)
	assert.True(t, b.IsLoaded())
	assert.Equal(t, []byte{1, 2, 3}, b.Bytes())
}

func TestBlobEmptyVsLoaded(t *testing.T) {
	e := EmptyBlob()
	assert.False(t, e.IsLoaded())
	assert.Nil(t, e.Bytes())

	l := LoadedBlob([]byte{})
	assert.True(t, l.IsLoaded())
}

func TestValueEqual(t *testing.T) {
	assert.True(t, NullValue().Equal(NullValue()))
	assert.True(t, IntegerValue(1).Equal(IntegerValue(1)))
	assert.False(t, IntegerValue(1).Equal(IntegerValue(2)))
	assert.False(t, IntegerValue(1).Equal(FloatValue(1)))
	assert.True(t, BlobValue(EmptyBlob()).Equal(BlobValue(EmptyBlob())))
	assert.False(t, BlobValue(EmptyBlob()).Equal(BlobValue(LoadedBlob(nil))))
	assert.True(t, BlobValue(LoadedBlob([]byte{1, 2})).Equal(BlobValue(LoadedBlob([]byte{1, 2}))))
	assert.False(t, BlobValue(LoadedBlob([]byte{1, 2})).Equal(BlobValue(LoadedBlob([]byte{1, 3}))))
}
