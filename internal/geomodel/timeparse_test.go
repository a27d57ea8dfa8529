package geomodel

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp_AcceptedLayouts(t *testing.T) {
	want := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	wantFrac := time.Date(2020, 1, 1, 0, 0, 0, 123456000, time.UTC)

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"offset no colon", "2020-01-01T00:00:00+0000", want},
		{"offset no colon fractional", "2020-01-01T00:00:00.123456+0000", wantFrac},
		{"offset colon", "2020-01-01T00:00:00+00:00", want},
		{"offset colon fractional", "2020-01-01T00:00:00.123456+00:00", wantFrac},
		{"naive", "2020-01-01T00:00:00", want},
		{"naive fractional", "2020-01-01T00:00:00.123456", wantFrac},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestParseTimestamp_NonUTCOffsetNormalized(t *testing.T) {
	got, err := ParseTimestamp("2020-01-01T02:00:00+02:00")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestParseTimestamp_Invalid(t *testing.T) {
	for _, input := range []string{"", "not a timestamp", "2020/01/01 00:00:00", "01-01-2020T00:00:00"} {
		_, err := ParseTimestamp(input)
		require.Error(t, err, "input %q", input)
		assert.True(t, errors.Is(err, ErrInvalidTimestamp))
	}
}

func TestFormatTimestamp_RoundTrips(t *testing.T) {
	instant := time.Date(2021, 6, 15, 10, 30, 45, 500000000, time.UTC)

	text := FormatTimestamp(instant)
	assert.Equal(t, "2021-06-15T10:30:45.500000+00:00", text)

	back, err := ParseTimestamp(text)
	require.NoError(t, err)
	assert.True(t, back.Equal(instant))
}
