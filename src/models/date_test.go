package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-07-01")
	require.NoError(t, err)
	assert.Equal(t, 2024, d.Year())
	assert.Equal(t, time.July, d.Month())
	assert.Equal(t, 1, d.Day())
	assert.Equal(t, "2024-07-01", d.String())
}

func TestParseDate_Invalid(t *testing.T) {
	_, err := ParseDate("01/07/2024")
	require.Error(t, err)
	_, err = ParseDate("not-a-date")
	require.Error(t, err)
}

func TestDate_DaysUntil(t *testing.T) {
	tests := []struct {
		from, to string
		want     int
	}{
		{"2024-01-01", "2025-01-01", 366}, // leap year
		{"2024-01-01", "2024-12-31", 365},
		{"2024-07-01", "2024-12-31", 183},
		{"2024-06-01", "2024-06-01", 0},
		{"2024-12-31", "2024-01-01", -365},
	}
	for _, tt := range tests {
		got := MustParseDate(tt.from).DaysUntil(MustParseDate(tt.to))
		assert.Equal(t, tt.want, got, "%s -> %s", tt.from, tt.to)
	}
}

func TestDate_MinMax(t *testing.T) {
	a := MustParseDate("2024-01-01")
	b := MustParseDate("2024-07-01")
	assert.True(t, a.Max(b).Equal(b))
	assert.True(t, b.Max(a).Equal(b))
	assert.True(t, a.Min(b).Equal(a))
	assert.True(t, b.Min(a).Equal(a))
}

func TestDate_JSONRoundTrip(t *testing.T) {
	d := MustParseDate("2024-04-06")
	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-04-06"`, string(data))

	var parsed Date
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.True(t, parsed.Equal(d))
}

func TestDate_ScanValue(t *testing.T) {
	d := MustParseDate("2024-04-06")
	v, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-04-06", v)

	var scanned Date
	require.NoError(t, scanned.Scan("2024-04-06"))
	assert.True(t, scanned.Equal(d))

	var fromNil Date
	require.NoError(t, fromNil.Scan(nil))
	assert.True(t, fromNil.IsZero())
}
