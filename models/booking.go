package models

import "time"

const (
	BookingStatusBooked    = "booked"
	BookingStatusCancelled = "cancelled"
)

// Booking represents an appointment between a patient and a doctor.
// The same record is stored globally and under both participants.
type Booking struct {
	ID             string    `bson:"_id" firestore:"-" json:"id"`
	OwnerID        string    `bson:"ownerId,omitempty" firestore:"-" json:"-"` // set on per-participant copies in Mongo
	DoctorID       string    `bson:"doctorId" firestore:"doctorId" json:"doctorId"`
	DoctorName     string    `bson:"doctorName" firestore:"doctorName" json:"doctorName"`
	PatientID      string    `bson:"patientId" firestore:"patientId" json:"patientId"`
	PatientName    string    `bson:"patientName" firestore:"patientName" json:"patientName"`
	Specialization string    `bson:"specialization" firestore:"specialization" json:"specialization"`
	Date           string    `bson:"date" firestore:"date" json:"date"` // "YYYY-MM-DD"
	Time           string    `bson:"time" firestore:"time" json:"time"` // "HH:mm"
	Description    string    `bson:"description" firestore:"description" json:"description"`
	Status         string    `bson:"status" firestore:"status" json:"status"`
	BookedAt       time.Time `bson:"bookedAt" firestore:"bookedAt" json:"bookedAt"`
}

func (b *Booking) Cancelled() bool {
	return b.Status == BookingStatusCancelled
}

// ClaimRequest carries everything needed to book one slot.
type ClaimRequest struct {
	DoctorID       string `json:"doctorId" binding:"required"`
	Specialization string `json:"specialization" binding:"required"`
	Date           string `json:"date" binding:"required"`
	Hour           string `json:"hour" binding:"required"`
	PatientID      string `json:"patientId"`
	PatientName    string `json:"patientName"`
	Description    string `json:"description"`
}

// ReleaseRequest identifies a booking and the slot it holds.
type ReleaseRequest struct {
	BookingID      string `json:"-"`
	PatientID      string `json:"patientId" binding:"required"`
	DoctorID       string `json:"doctorId" binding:"required"`
	Date           string `json:"date" binding:"required"`
	Specialization string `json:"specialization" binding:"required"`
	Hour           string `json:"hour" binding:"required"`
}

// CancelByTimeRequest is used by doctors and admins who know the slot but not the booking id.
type CancelByTimeRequest struct {
	DoctorID       string `json:"doctorId" binding:"required"`
	Date           string `json:"date" binding:"required"`
	Specialization string `json:"specialization" binding:"required"`
	Hour           string `json:"hour" binding:"required"`
}
