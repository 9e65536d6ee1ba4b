package models

import "sort"

// Timeslot is a single bookable hour inside a doctor's day.
type Timeslot struct {
	Hour   string `bson:"hour" firestore:"hour" json:"hour"`       // "HH:mm"
	Booked bool   `bson:"booked" firestore:"booked" json:"booked"` // true once a booking holds the hour
}

// TimeslotKey identifies one TimeslotDay document.
type TimeslotKey struct {
	Date           string `json:"date"` // "YYYY-MM-DD"
	Specialization string `json:"specialization"`
	DoctorID       string `json:"doctorId"`
}

// ID is the flat document id used by stores without sub-collections.
func (k TimeslotKey) ID() string {
	return k.Date + "/" + k.Specialization + "/" + k.DoctorID
}

// TimeslotDay holds the booking state of every hour a doctor offers on a date.
type TimeslotDay struct {
	ID             string     `bson:"_id" firestore:"-" json:"-"`
	Date           string     `bson:"date" firestore:"date" json:"date"`
	Specialization string     `bson:"specialization" firestore:"specialization" json:"specialization"`
	DoctorID       string     `bson:"doctorId" firestore:"doctorId" json:"doctorId"`
	Timeslots      []Timeslot `bson:"timeslots" firestore:"timeslots" json:"timeslots"`
}

func (d *TimeslotDay) Key() TimeslotKey {
	return TimeslotKey{Date: d.Date, Specialization: d.Specialization, DoctorID: d.DoctorID}
}

// Find returns the index of hour in the list, or -1.
func (d *TimeslotDay) Find(hour string) int {
	for i, ts := range d.Timeslots {
		if ts.Hour == hour {
			return i
		}
	}
	return -1
}

// FreeHours returns the unbooked hours in list order.
func (d *TimeslotDay) FreeHours() []string {
	free := make([]string, 0, len(d.Timeslots))
	for _, ts := range d.Timeslots {
		if !ts.Booked {
			free = append(free, ts.Hour)
		}
	}
	return free
}

// Clone returns a deep copy so transaction code can mutate freely.
func (d *TimeslotDay) Clone() *TimeslotDay {
	out := *d
	out.Timeslots = append([]Timeslot(nil), d.Timeslots...)
	return &out
}

// SortTimeslots orders entries by hour. "HH:mm" sorts lexically.
func SortTimeslots(slots []Timeslot) {
	sort.SliceStable(slots, func(i, j int) bool { return slots[i].Hour < slots[j].Hour })
}
