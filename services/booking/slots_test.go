package booking

import (
	"testing"

	"eclinic/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaimAndReleaseHour(t *testing.T) {
	day := &models.TimeslotDay{
		Date:      "2025-06-26",
		Timeslots: []models.Timeslot{{Hour: "09:00"}, {Hour: "10:00"}},
	}
	summary := models.NewAvailabilitySummary("doc1")
	summary.SetDay(day.Date, day.FreeHours())

	require.NoError(t, claimHour(day, summary, "10:00"))
	assert.True(t, day.Timeslots[1].Booked)
	assert.Equal(t, []string{"09:00"}, summary.Availability[day.Date])

	assert.ErrorIs(t, claimHour(day, summary, "10:00"), ErrSlotAlreadyBooked)
	assert.ErrorIs(t, claimHour(day, summary, "11:00"), ErrSlotNotFound)

	require.NoError(t, releaseHour(day, summary, "10:00"))
	require.NoError(t, releaseHour(day, summary, "10:00"))
	assert.False(t, day.Timeslots[1].Booked)
	assert.Equal(t, []string{"09:00", "10:00"}, summary.Availability[day.Date])
}

func TestKind(t *testing.T) {
	cases := []struct {
		err  error
		want ErrorKind
	}{
		{ErrSlotAlreadyBooked, KindConflict},
		{ErrSlotNotFound, KindNotFound},
		{ErrBookingMismatch, KindNotFound},
		{ErrInvalidArgument, KindInvalid},
		{ErrForbidden, KindForbidden},
		{assert.AnError, KindBackend},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Kind(tc.err), tc.err.Error())
	}
}
