package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2025-01-01T00:00:00", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"2025-06-15T08:30:45", time.Date(2025, 6, 15, 8, 30, 45, 0, time.UTC)},
		{"2025-06-15", time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)},
		{"2025-06-15T08:30:45Z", time.Date(2025, 6, 15, 8, 30, 45, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, err := ParseTimestamp(tc.in)
		require.NoError(t, err, tc.in)
		assert.True(t, tc.want.Equal(got), tc.in)
	}
}

func TestParseTimestamp_Invalid(t *testing.T) {
	for _, in := range []string{"", "next tuesday", "2025-13-01T00:00:00", "01/02/2025"} {
		_, err := ParseTimestamp(in)
		assert.ErrorIs(t, err, ErrBadTimestamp, in)
	}
}

// A naive timestamp survives a parse/format round trip unchanged.
func TestTimestampRoundTrip(t *testing.T) {
	in := "2025-01-01T00:00:00"
	parsed, err := ParseTimestamp(in)
	require.NoError(t, err)
	assert.Equal(t, in, FormatTimestamp(parsed))
}
