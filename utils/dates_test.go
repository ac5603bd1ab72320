package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-06-01")
	require.NoError(t, err)
	assert.Equal(t, 2025, d.Year())
	assert.Equal(t, time.June, d.Month())
	assert.Equal(t, 1, d.Day())
	assert.Equal(t, 0, d.Hour())

	_, err = ParseDate("01/06/2025")
	assert.Error(t, err)

	_, err = ParseDate("")
	assert.Error(t, err)
}

func TestCombineDateTime(t *testing.T) {
	date, err := ParseDate("2025-06-01")
	require.NoError(t, err)

	got, err := CombineDateTime(date, "10:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC), got)

	_, err = CombineDateTime(date, "25:00")
	assert.Error(t, err)

	_, err = CombineDateTime(date, "10:30:00")
	assert.Error(t, err)
}

func TestBeginningAndEndOfDay(t *testing.T) {
	now := time.Date(2025, 6, 1, 14, 45, 12, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), BeginningOfDay(now))
	assert.Equal(t, time.Date(2025, 6, 1, 23, 59, 59, 0, time.UTC), EndOfDay(now))
}
