package booking

import (
	"context"
	"errors"
	"fmt"

	bookingRepo "eclinic/database/repository/booking"
	profileRepo "eclinic/database/repository/profile"
	"eclinic/models"

	"go.uber.org/zap"
)

// ClaimSlot books req.Hour for the patient and returns the new booking id.
// Patients always book for themselves; admins must name the patient.
func (s *DefaultBookingService) ClaimSlot(ctx context.Context, session models.Session, req models.ClaimRequest) (string, error) {
	switch session.Role {
	case models.RolePatient:
		if req.PatientID != "" && req.PatientID != session.UserID {
			return "", fmt.Errorf("patients can only book for themselves: %w", ErrForbidden)
		}
		req.PatientID = session.UserID
		if req.PatientName == "" {
			req.PatientName = session.Name
		}
	case models.RoleAdmin:
		if req.PatientID == "" {
			return "", fmt.Errorf("%w: patientId is required", ErrInvalidArgument)
		}
	default:
		return "", fmt.Errorf("role %q cannot book appointments: %w", session.Role, ErrForbidden)
	}
	if req.DoctorID == "" || req.Specialization == "" {
		return "", fmt.Errorf("%w: doctorId and specialization are required", ErrInvalidArgument)
	}
	if err := validateSlot(req.Date, req.Hour); err != nil {
		return "", err
	}

	doctor, err := s.Profiles.GetDoctor(ctx, req.DoctorID)
	if err != nil {
		if errors.Is(err, profileRepo.ErrNotFound) {
			return "", fmt.Errorf("%s: %w", req.DoctorID, ErrDoctorNotFound)
		}
		return "", fmt.Errorf("failed to load doctor: %w", err)
	}
	// Retired doctors are no longer listed for booking.
	if doctor.Retired {
		return "", fmt.Errorf("%s is retired: %w", req.DoctorID, ErrDoctorNotFound)
	}
	patient, err := s.Profiles.GetPatient(ctx, req.PatientID)
	if err != nil {
		if errors.Is(err, profileRepo.ErrNotFound) {
			return "", fmt.Errorf("%s: %w", req.PatientID, ErrPatientNotFound)
		}
		return "", fmt.Errorf("failed to load patient: %w", err)
	}
	if req.PatientName == "" {
		req.PatientName = patient.Name
	}

	booking := &models.Booking{
		ID:             s.NewID(),
		DoctorID:       req.DoctorID,
		DoctorName:     doctor.Name,
		PatientID:      req.PatientID,
		PatientName:    req.PatientName,
		Specialization: req.Specialization,
		Date:           req.Date,
		Time:           req.Hour,
		Description:    req.Description,
		Status:         models.BookingStatusBooked,
		BookedAt:       s.Now().UTC(),
	}
	key := models.TimeslotKey{Date: req.Date, Specialization: req.Specialization, DoctorID: req.DoctorID}

	err = s.Repo.RunTransaction(ctx, func(ctx context.Context, tx bookingRepo.Tx) error {
		day, err := tx.GetTimeslotDay(ctx, key)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrNotFound) {
				return fmt.Errorf("no timeslots for %s: %w", key.ID(), ErrSlotNotFound)
			}
			return err
		}
		summary, err := tx.GetAvailability(ctx, req.DoctorID)
		if err != nil {
			return err
		}

		if err := claimHour(day, summary, req.Hour); err != nil {
			return err
		}

		if err := tx.PutTimeslotDay(ctx, day); err != nil {
			return err
		}
		if err := tx.PutAvailability(ctx, summary); err != nil {
			return err
		}
		return tx.CreateBooking(ctx, booking)
	})
	if err != nil {
		if Kind(err) == KindBackend {
			s.Logger.Error("claim transaction failed",
				zap.String("doctorId", req.DoctorID),
				zap.String("date", req.Date),
				zap.String("hour", req.Hour),
				zap.Error(err),
			)
			return "", fmt.Errorf("failed to claim slot: %w", err)
		}
		s.Logger.Info("claim rejected",
			zap.String("doctorId", req.DoctorID),
			zap.String("date", req.Date),
			zap.String("hour", req.Hour),
			zap.String("reason", Kind(err).String()),
		)
		return "", err
	}

	s.Logger.Info("slot claimed",
		zap.String("bookingId", booking.ID),
		zap.String("doctorId", booking.DoctorID),
		zap.String("patientId", booking.PatientID),
		zap.String("date", booking.Date),
		zap.String("hour", booking.Time),
	)
	s.afterCommit(ctx, booking.DoctorID)
	s.notifyDoctor(ctx, doctor, booking, "New appointment",
		fmt.Sprintf("%s booked %s at %s", booking.PatientName, booking.Date, booking.Time))

	return booking.ID, nil
}

// ReleaseSlot cancels the booking and frees its hour. Releasing a cancelled booking is a no-op.
func (s *DefaultBookingService) ReleaseSlot(ctx context.Context, session models.Session, req models.ReleaseRequest) error {
	if req.BookingID == "" {
		return fmt.Errorf("%w: booking id is required", ErrInvalidArgument)
	}
	if !session.Owns(req.PatientID) && !session.Owns(req.DoctorID) {
		return fmt.Errorf("booking %s: %w", req.BookingID, ErrForbidden)
	}
	return s.release(ctx, req)
}

func (s *DefaultBookingService) release(ctx context.Context, req models.ReleaseRequest) error {
	key := models.TimeslotKey{Date: req.Date, Specialization: req.Specialization, DoctorID: req.DoctorID}

	var (
		released *models.Booking
		noop     bool
	)
	err := s.Repo.RunTransaction(ctx, func(ctx context.Context, tx bookingRepo.Tx) error {
		// The function may run more than once.
		released, noop = nil, false

		booking, err := tx.GetBooking(ctx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrNotFound) {
				return fmt.Errorf("%s: %w", req.BookingID, ErrBookingNotFound)
			}
			return err
		}
		if !matchesRelease(booking, req) {
			return fmt.Errorf("%s: %w", req.BookingID, ErrBookingMismatch)
		}
		if booking.Cancelled() {
			noop = true
			return nil
		}
		day, err := tx.GetTimeslotDay(ctx, key)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrNotFound) {
				return fmt.Errorf("no timeslots for %s: %w", key.ID(), ErrSlotNotFound)
			}
			return err
		}
		summary, err := tx.GetAvailability(ctx, req.DoctorID)
		if err != nil {
			return err
		}

		if err := releaseHour(day, summary, req.Hour); err != nil {
			return err
		}

		if err := tx.PutTimeslotDay(ctx, day); err != nil {
			return err
		}
		if err := tx.PutAvailability(ctx, summary); err != nil {
			return err
		}
		if err := tx.SetBookingStatus(ctx, booking, models.BookingStatusCancelled); err != nil {
			return err
		}
		released = booking
		return nil
	})
	if err != nil {
		if Kind(err) == KindBackend {
			s.Logger.Error("release transaction failed", zap.String("bookingId", req.BookingID), zap.Error(err))
			return fmt.Errorf("failed to release slot: %w", err)
		}
		return err
	}
	if noop {
		s.Logger.Debug("booking already cancelled", zap.String("bookingId", req.BookingID))
		return nil
	}

	s.Logger.Info("slot released",
		zap.String("bookingId", released.ID),
		zap.String("doctorId", released.DoctorID),
		zap.String("date", released.Date),
		zap.String("hour", released.Time),
	)
	s.afterCommit(ctx, released.DoctorID)
	if doctor, err := s.Profiles.GetDoctor(ctx, released.DoctorID); err == nil {
		s.notifyDoctor(ctx, doctor, released, "Appointment cancelled",
			fmt.Sprintf("%s on %s at %s was cancelled", released.PatientName, released.Date, released.Time))
	}
	return nil
}

// CancelByTime releases the active booking holding the doctor's hour.
func (s *DefaultBookingService) CancelByTime(ctx context.Context, session models.Session, req models.CancelByTimeRequest) error {
	if session.Role != models.RoleAdmin && !(session.Role == models.RoleDoctor && session.UserID == req.DoctorID) {
		return fmt.Errorf("cancel by time: %w", ErrForbidden)
	}
	if err := validateSlot(req.Date, req.Hour); err != nil {
		return err
	}

	booking, err := s.Repo.FindActiveBooking(ctx, req.DoctorID, req.Date, req.Hour)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return fmt.Errorf("%s %s %s: %w", req.DoctorID, req.Date, req.Hour, ErrBookingNotFound)
		}
		return fmt.Errorf("failed to find booking: %w", err)
	}

	return s.release(ctx, models.ReleaseRequest{
		BookingID:      booking.ID,
		PatientID:      booking.PatientID,
		DoctorID:       req.DoctorID,
		Date:           req.Date,
		Specialization: req.Specialization,
		Hour:           req.Hour,
	})
}

func (s *DefaultBookingService) GetBooking(ctx context.Context, session models.Session, bookingID string) (*models.Booking, error) {
	booking, err := s.Repo.GetBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", bookingID, ErrBookingNotFound)
		}
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	if !session.Owns(booking.PatientID) && !session.Owns(booking.DoctorID) {
		return nil, fmt.Errorf("booking %s: %w", bookingID, ErrForbidden)
	}
	return booking, nil
}

func (s *DefaultBookingService) ListDoctorBookings(ctx context.Context, session models.Session, doctorID string) ([]models.Booking, error) {
	if !session.Owns(doctorID) {
		return nil, fmt.Errorf("bookings of %s: %w", doctorID, ErrForbidden)
	}
	bookings, err := s.Repo.ListDoctorBookings(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctor bookings: %w", err)
	}
	return bookings, nil
}

func (s *DefaultBookingService) ListPatientBookings(ctx context.Context, session models.Session, patientID string) ([]models.Booking, error) {
	if !session.Owns(patientID) {
		return nil, fmt.Errorf("bookings of %s: %w", patientID, ErrForbidden)
	}
	bookings, err := s.Repo.ListPatientBookings(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list patient bookings: %w", err)
	}
	return bookings, nil
}

// afterCommit drops the cached availability; the next read reloads it from the store.
func (s *DefaultBookingService) afterCommit(ctx context.Context, doctorID string) {
	if err := s.Cache.Invalidate(ctx, doctorID); err != nil {
		s.Logger.Warn("failed to invalidate availability cache", zap.String("doctorId", doctorID), zap.Error(err))
	}
}

func (s *DefaultBookingService) notifyDoctor(ctx context.Context, doctor *models.Doctor, booking *models.Booking, title, body string) {
	if doctor.FCMToken == "" {
		return
	}
	s.Notifier.Notify(ctx, models.PushRequest{
		Token:    doctor.FCMToken,
		Title:    title,
		Body:     body,
		ChatID:   models.ChatID(booking.PatientID, booking.DoctorID),
		SenderID: booking.PatientID,
	})
}
