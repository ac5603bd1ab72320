package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, min int) time.Time {
	return time.Date(2025, 6, 1, hour, min, 0, 0, time.UTC)
}

func TestIntervalsConflict(t *testing.T) {
	tests := []struct {
		name                       string
		existingStart, existingEnd time.Time
		candStart, candEnd         time.Time
		want                       bool
	}{
		{"candidate starts inside existing", at(10, 0), at(11, 0), at(10, 30), at(11, 30), true},
		{"candidate ends inside existing", at(10, 0), at(11, 0), at(9, 30), at(10, 30), true},
		{"candidate swallows existing", at(10, 0), at(11, 0), at(9, 0), at(12, 0), true},
		{"existing swallows candidate", at(10, 0), at(12, 0), at(10, 30), at(11, 0), true},
		{"identical intervals", at(10, 0), at(11, 0), at(10, 0), at(11, 0), true},
		{"back-to-back after", at(10, 0), at(11, 0), at(11, 0), at(12, 0), false},
		{"back-to-back before", at(10, 0), at(11, 0), at(9, 0), at(10, 0), false},
		{"fully before", at(10, 0), at(11, 0), at(8, 0), at(9, 0), false},
		{"fully after", at(10, 0), at(11, 0), at(12, 0), at(13, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := intervalsConflict(tt.existingStart, tt.existingEnd, tt.candStart, tt.candEnd)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSchedule(t *testing.T) {
	date, start, end, err := parseSchedule("2025-06-01", "10:00", "11:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), date)
	assert.Equal(t, at(10, 0), start)
	assert.Equal(t, at(11, 0), end)

	_, _, _, err = parseSchedule("2025-06-01", "11:00", "10:00")
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)

	// equal start and end is rejected too
	_, _, _, err = parseSchedule("2025-06-01", "10:00", "10:00")
	require.ErrorAs(t, err, &validationErr)

	_, _, _, err = parseSchedule("June 1st", "10:00", "11:00")
	require.ErrorAs(t, err, &validationErr)

	_, _, _, err = parseSchedule("2025-06-01", "10am", "11:00")
	require.ErrorAs(t, err, &validationErr)
}

func TestClockOf(t *testing.T) {
	assert.Equal(t, "10:00", clockOf(at(10, 0)))

	// the same instant seen through a negative-offset zone reads as the
	// previous calendar day locally; the derived clock must not move
	bogota := time.FixedZone("America/Bogota", -5*3600)
	assert.Equal(t, "01:30", clockOf(time.Date(2025, 6, 1, 1, 30, 0, 0, time.UTC).In(bogota)))
	assert.Equal(t, "23:00", clockOf(time.Date(2025, 6, 1, 23, 0, 0, 0, time.UTC).In(bogota)))
}

func TestAppendCancellationReason(t *testing.T) {
	assert.Equal(t, "Cancellation reason: client sick",
		appendCancellationReason("", "client sick"))
	assert.Equal(t, "prefers mornings\nCancellation reason: client sick",
		appendCancellationReason("prefers mornings", "client sick"))
	assert.Equal(t, "prefers mornings", appendCancellationReason("prefers mornings", ""))
}

func TestAppointmentFiltersOrderClause(t *testing.T) {
	assert.Equal(t, "appointments.date DESC, appointments.start_time DESC",
		AppointmentFilters{}.orderClause())
	// sorting by start time needs no tiebreaker
	assert.Equal(t, "appointments.start_time ASC",
		AppointmentFilters{SortBy: "startTime", SortOrder: "asc"}.orderClause())
	// unknown sort columns fall back to the date ordering
	assert.Equal(t, "appointments.date DESC, appointments.start_time DESC",
		AppointmentFilters{SortBy: "password"}.orderClause())
}
