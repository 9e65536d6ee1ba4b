package models

import "sort"

// AvailabilitySummary is the per-doctor view of free hours by date, derived from TimeslotDay.
type AvailabilitySummary struct {
	DoctorID     string              `bson:"_id" firestore:"-" json:"doctorId"`
	Availability map[string][]string `bson:"availability" firestore:"availability" json:"availability"`
}

func NewAvailabilitySummary(doctorID string) *AvailabilitySummary {
	return &AvailabilitySummary{DoctorID: doctorID, Availability: map[string][]string{}}
}

// RemoveHour drops hour from date and removes the date key once it has no hours left.
func (a *AvailabilitySummary) RemoveHour(date, hour string) {
	hours := a.Availability[date]
	kept := hours[:0:0]
	for _, h := range hours {
		if h != hour {
			kept = append(kept, h)
		}
	}
	if len(kept) == 0 {
		delete(a.Availability, date)
		return
	}
	a.Availability[date] = kept
}

// AddHour inserts hour under date unless it is already listed.
func (a *AvailabilitySummary) AddHour(date, hour string) {
	if a.Availability == nil {
		a.Availability = map[string][]string{}
	}
	hours := a.Availability[date]
	for _, h := range hours {
		if h == hour {
			return
		}
	}
	hours = append(append([]string(nil), hours...), hour)
	sort.Strings(hours)
	a.Availability[date] = hours
}

// SetDay replaces the hours for date; an empty list removes the key.
func (a *AvailabilitySummary) SetDay(date string, hours []string) {
	if a.Availability == nil {
		a.Availability = map[string][]string{}
	}
	if len(hours) == 0 {
		delete(a.Availability, date)
		return
	}
	a.Availability[date] = append([]string(nil), hours...)
}

func (a *AvailabilitySummary) Clone() *AvailabilitySummary {
	out := &AvailabilitySummary{DoctorID: a.DoctorID, Availability: make(map[string][]string, len(a.Availability))}
	for date, hours := range a.Availability {
		out.Availability[date] = append([]string(nil), hours...)
	}
	return out
}
