package booking

import (
	"fmt"

	"eclinic/models"
	"eclinic/utils"
)

// claimHour marks hour booked in day and removes it from the summary.
func claimHour(day *models.TimeslotDay, summary *models.AvailabilitySummary, hour string) error {
	idx := day.Find(hour)
	if idx < 0 {
		return fmt.Errorf("%s on %s: %w", hour, day.Date, ErrSlotNotFound)
	}
	if day.Timeslots[idx].Booked {
		return fmt.Errorf("%s on %s: %w", hour, day.Date, ErrSlotAlreadyBooked)
	}
	day.Timeslots[idx].Booked = true
	summary.RemoveHour(day.Date, hour)
	return nil
}

// releaseHour frees hour in day and lists it in the summary again.
func releaseHour(day *models.TimeslotDay, summary *models.AvailabilitySummary, hour string) error {
	idx := day.Find(hour)
	if idx < 0 {
		return fmt.Errorf("%s on %s: %w", hour, day.Date, ErrSlotNotFound)
	}
	day.Timeslots[idx].Booked = false
	summary.AddHour(day.Date, hour)
	return nil
}

// matchesRelease reports whether the stored booking holds the slot named by req.
func matchesRelease(b *models.Booking, req models.ReleaseRequest) bool {
	return b.PatientID == req.PatientID &&
		b.DoctorID == req.DoctorID &&
		b.Date == req.Date &&
		b.Specialization == req.Specialization &&
		b.Time == req.Hour
}

func validateSlot(date, hour string) error {
	if _, err := utils.ParseDate(date); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	if err := utils.ValidateHour(hour); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return nil
}
