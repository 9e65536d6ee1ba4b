package booking

import (
	"errors"

	bookingRepo "eclinic/database/repository/booking"
	profileRepo "eclinic/database/repository/profile"
)

var (
	ErrSlotNotFound      = errors.New("timeslot not found")
	ErrSlotAlreadyBooked = errors.New("timeslot already booked")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrBookingMismatch   = errors.New("booking does not match the requested slot")
	ErrDoctorNotFound    = errors.New("doctor not found")
	ErrPatientNotFound   = errors.New("patient not found")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrForbidden         = errors.New("not allowed for this session")
)

// ErrorKind groups errors by how callers should react to them.
type ErrorKind int

const (
	KindBackend ErrorKind = iota
	KindConflict
	KindNotFound
	KindInvalid
	KindForbidden
)

func (k ErrorKind) String() string {
	switch k {
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindInvalid:
		return "invalid"
	case KindForbidden:
		return "forbidden"
	default:
		return "backend"
	}
}

// Kind classifies err. Anything unrecognised is a backend failure.
func Kind(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrSlotAlreadyBooked):
		return KindConflict
	case errors.Is(err, ErrSlotNotFound),
		errors.Is(err, ErrBookingNotFound),
		errors.Is(err, ErrBookingMismatch),
		errors.Is(err, ErrDoctorNotFound),
		errors.Is(err, ErrPatientNotFound),
		errors.Is(err, bookingRepo.ErrNotFound),
		errors.Is(err, profileRepo.ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidArgument):
		return KindInvalid
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	default:
		return KindBackend
	}
}
