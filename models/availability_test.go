package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAvailabilitySummary_AddRemove(t *testing.T) {
	a := NewAvailabilitySummary("doc1")

	a.AddHour("2025-06-26", "10:00")
	a.AddHour("2025-06-26", "09:00")
	a.AddHour("2025-06-26", "10:00")
	assert.Equal(t, []string{"09:00", "10:00"}, a.Availability["2025-06-26"])

	a.RemoveHour("2025-06-26", "09:00")
	assert.Equal(t, []string{"10:00"}, a.Availability["2025-06-26"])

	a.RemoveHour("2025-06-26", "10:00")
	assert.NotContains(t, a.Availability, "2025-06-26")

	a.RemoveHour("2025-06-27", "10:00")
	assert.Empty(t, a.Availability)
}

func TestAvailabilitySummary_CloneIsIndependent(t *testing.T) {
	a := NewAvailabilitySummary("doc1")
	a.SetDay("2025-06-26", []string{"09:00"})

	b := a.Clone()
	b.AddHour("2025-06-26", "10:00")

	assert.Equal(t, []string{"09:00"}, a.Availability["2025-06-26"])
	assert.Equal(t, []string{"09:00", "10:00"}, b.Availability["2025-06-26"])
}

func TestTimeslotDay(t *testing.T) {
	d := &TimeslotDay{Date: "2025-06-26", Specialization: "Cardiology", DoctorID: "doc1",
		Timeslots: []Timeslot{{Hour: "10:00", Booked: true}, {Hour: "09:00"}}}

	assert.Equal(t, "2025-06-26/Cardiology/doc1", d.Key().ID())
	assert.Equal(t, 1, d.Find("09:00"))
	assert.Equal(t, -1, d.Find("11:00"))
	assert.Equal(t, []string{"09:00"}, d.FreeHours())

	c := d.Clone()
	SortTimeslots(c.Timeslots)
	assert.Equal(t, "09:00", c.Timeslots[0].Hour)
	assert.Equal(t, "10:00", d.Timeslots[0].Hour)
}

func TestChatID(t *testing.T) {
	assert.Equal(t, "doc1_pat1", ChatID("pat1", "doc1"))
	assert.Equal(t, ChatID("pat1", "doc1"), ChatID("doc1", "pat1"))
}
