package models

// SaveScheduleRequest publishes the hours a doctor works on each date.
type SaveScheduleRequest struct {
	Specialization string              `json:"specialization" binding:"required"`
	Hours          map[string][]string `json:"hours" binding:"required"` // date -> ["HH:mm", ...]
}

// AppointmentDay is one entry of a rebuilt schedule.
type AppointmentDay struct {
	Date      string     `json:"date"`
	Timeslots []Timeslot `json:"timeslots"`
}
