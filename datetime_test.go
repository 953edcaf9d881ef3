package dawg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTimeFromInteger(t *testing.T) {
	got, err := DecodeTime(IntegerValue(1700000000))
	require.NoError(t, err)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), got)
}

func TestDecodeTimeFromFloat(t *testing.T) {
	got, err := DecodeTime(FloatValue(1700000000.5))
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000), got.Unix())
	assert.InDelta(t, 500_000_000, got.Nanosecond(), 1_000_000)
}

func TestDecodeTimeFromTextVariants(t *testing.T) {
	cases := []struct {
		text string
		want time.Time
	}{
		{"2024-03-05 12:30:00", time.Date(2024, 3, 5, 12, 30, 0, 0, time.UTC)},
		{"2024-03-05T12:30:00", time.Date(2024, 3, 5, 12, 30, 0, 0, time.UTC)},
		{"2024-03-05T12:30:00Z", time.Date(2024, 3, 5, 12, 30, 0, 0, time.UTC)},
		{"2024-03-05T12:30:00.250", time.Date(2024, 3, 5, 12, 30, 0, 250_000_000, time.UTC)},
		{"2024-03-05T12:30:00+02:00", time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC)},
		{"2024-03-05T12:30:00+0200", time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC)},
		{"2024-03-05T12:30:00-05", time.Date(2024, 3, 5, 17, 30, 0, 0, time.UTC)},
	}
	for _, c := range cases {
		t.Run(c.text, func(t *testing.T) {
			got, err := DecodeTime(TextValue(c.text))
			require.NoError(t, err)
			assert.True(t, c.want.Equal(got), "got %v want %v", got, c.want)
		})
	}
}

func TestDecodeTimeRejectsGarbage(t *testing.T) {
	_, err := DecodeTime(TextValue("not-a-date"))
	require.Error(t, err)

	_, err = DecodeTime(BlobValue(EmptyBlob()))
	require.Error(t, err)
}
