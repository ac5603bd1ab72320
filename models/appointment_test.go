package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppointmentStatusValid(t *testing.T) {
	for _, s := range []AppointmentStatus{
		AppointmentScheduled, AppointmentConfirmed, AppointmentInProgress,
		AppointmentCompleted, AppointmentCancelled, AppointmentNoShow,
	} {
		assert.True(t, s.Valid(), "expected %s to be a recognized status", s)
	}

	assert.False(t, AppointmentStatus("PENDING").Valid())
	assert.False(t, AppointmentStatus("scheduled").Valid())
	assert.False(t, AppointmentStatus("").Valid())
}

func TestAppointmentTransitions(t *testing.T) {
	tests := []struct {
		from    AppointmentStatus
		to      AppointmentStatus
		allowed bool
	}{
		{AppointmentScheduled, AppointmentConfirmed, true},
		{AppointmentScheduled, AppointmentCancelled, true},
		{AppointmentScheduled, AppointmentInProgress, true},
		{AppointmentScheduled, AppointmentCompleted, false},
		{AppointmentScheduled, AppointmentNoShow, false},

		{AppointmentConfirmed, AppointmentInProgress, true},
		{AppointmentConfirmed, AppointmentCancelled, true},
		{AppointmentConfirmed, AppointmentNoShow, true},
		{AppointmentConfirmed, AppointmentCompleted, false},
		{AppointmentConfirmed, AppointmentScheduled, false},

		{AppointmentInProgress, AppointmentCompleted, true},
		{AppointmentInProgress, AppointmentCancelled, true},
		{AppointmentInProgress, AppointmentConfirmed, false},

		// COMPLETED is terminal
		{AppointmentCompleted, AppointmentScheduled, false},
		{AppointmentCompleted, AppointmentCancelled, false},
		{AppointmentCompleted, AppointmentConfirmed, false},

		// CANCELLED and NO_SHOW only re-enter via rebooking
		{AppointmentCancelled, AppointmentScheduled, true},
		{AppointmentCancelled, AppointmentConfirmed, false},
		{AppointmentCancelled, AppointmentInProgress, false},
		{AppointmentNoShow, AppointmentScheduled, true},
		{AppointmentNoShow, AppointmentConfirmed, false},

		// self-transitions are not in the allow-list
		{AppointmentScheduled, AppointmentScheduled, false},
		{AppointmentCancelled, AppointmentCancelled, false},
	}

	for _, tt := range tests {
		got := tt.from.CanTransitionTo(tt.to)
		assert.Equal(t, tt.allowed, got, "%s -> %s", tt.from, tt.to)
	}
}
