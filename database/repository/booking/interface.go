package bookingRepo

import (
	"context"
	"errors"

	"eclinic/models"
)

// ErrNotFound is returned when a referenced document does not exist.
var ErrNotFound = errors.New("document not found")

// Tx is the set of reads and writes available inside one store transaction.
// Implementations must perform every read before the first write, and apply either all
// writes or none of them.
type Tx interface {
	// GetTimeslotDay returns ErrNotFound when no slots are defined for the key.
	GetTimeslotDay(ctx context.Context, key models.TimeslotKey) (*models.TimeslotDay, error)
	// GetAvailability returns an empty summary when the doctor has none yet.
	GetAvailability(ctx context.Context, doctorID string) (*models.AvailabilitySummary, error)
	GetBooking(ctx context.Context, bookingID string) (*models.Booking, error)

	PutTimeslotDay(ctx context.Context, day *models.TimeslotDay) error
	PutAvailability(ctx context.Context, summary *models.AvailabilitySummary) error
	// CreateBooking writes the global, doctor and patient copies and appends the id to
	// both participants' bookings array.
	CreateBooking(ctx context.Context, booking *models.Booking) error
	// SetBookingStatus updates the status on all three copies.
	SetBookingStatus(ctx context.Context, booking *models.Booking, status string) error
}

// TxFunc is run by RunTransaction. Returning an error aborts the transaction.
// It may be invoked more than once when the store retries on contention.
type TxFunc func(ctx context.Context, tx Tx) error

type BookingRepository interface {
	RunTransaction(ctx context.Context, fn TxFunc) error

	GetTimeslotDay(ctx context.Context, key models.TimeslotKey) (*models.TimeslotDay, error)
	GetAvailability(ctx context.Context, doctorID string) (*models.AvailabilitySummary, error)
	GetBooking(ctx context.Context, bookingID string) (*models.Booking, error)
	// FindActiveBooking returns the booked (not cancelled) booking holding the slot.
	FindActiveBooking(ctx context.Context, doctorID, date, hour string) (*models.Booking, error)
	ListDoctorBookings(ctx context.Context, doctorID string) ([]models.Booking, error)
	ListPatientBookings(ctx context.Context, patientID string) ([]models.Booking, error)
}
