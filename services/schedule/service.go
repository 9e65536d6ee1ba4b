package schedule

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	bookingRepo "eclinic/database/repository/booking"
	"eclinic/models"
	"eclinic/services/booking"
	"eclinic/services/cache"
	"eclinic/utils"

	"go.uber.org/zap"
)

// DefaultWorkingHours are offered when a doctor has not picked hours for a day.
var DefaultWorkingHours = []string{
	"08:00", "09:00", "10:00", "11:00",
	"13:00", "14:00", "15:00", "16:00", "17:00",
}

// ScheduleService publishes doctors' working hours and serves availability.
type ScheduleService interface {
	SaveSchedule(ctx context.Context, session models.Session, doctorID string, req models.SaveScheduleRequest) ([]models.AppointmentDay, error)
	LoadTimeslots(ctx context.Context, key models.TimeslotKey) ([]models.Timeslot, error)
	RebuildAvailability(ctx context.Context, session models.Session, doctorID, specialization string, from time.Time) (*models.AvailabilitySummary, error)
	Availability(ctx context.Context, doctorID string) (*models.AvailabilitySummary, error)
}

type DefaultScheduleService struct {
	Repo       bookingRepo.BookingRepository
	Cache      cache.AvailabilityCache
	Logger     *zap.Logger
	WindowDays int
}

func NewScheduleService(repo bookingRepo.BookingRepository, availabilityCache cache.AvailabilityCache, logger *zap.Logger, windowDays int) *DefaultScheduleService {
	if availabilityCache == nil {
		availabilityCache = cache.NoopAvailabilityCache{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if windowDays <= 0 {
		windowDays = 30
	}
	return &DefaultScheduleService{Repo: repo, Cache: availabilityCache, Logger: logger, WindowDays: windowDays}
}

// DefaultSchedule maps every working day of the window starting at from to DefaultWorkingHours.
func (s *DefaultScheduleService) DefaultSchedule(from time.Time) map[string][]string {
	hours := make(map[string][]string)
	for _, date := range utils.WorkingDays(from, s.WindowDays) {
		hours[date] = append([]string(nil), DefaultWorkingHours...)
	}
	return hours
}

// SaveSchedule writes each date in its own transaction, in date order. Hours already
// booked keep their booking; removing one fails with ErrSlotAlreadyBooked.
func (s *DefaultScheduleService) SaveSchedule(ctx context.Context, session models.Session, doctorID string, req models.SaveScheduleRequest) ([]models.AppointmentDay, error) {
	if !session.Owns(doctorID) || (session.Role != models.RoleDoctor && !session.IsAdmin()) {
		return nil, fmt.Errorf("schedule of %s: %w", doctorID, booking.ErrForbidden)
	}
	if req.Specialization == "" {
		return nil, fmt.Errorf("%w: specialization is required", booking.ErrInvalidArgument)
	}

	dates := make([]string, 0, len(req.Hours))
	normalized := make(map[string][]string, len(req.Hours))
	for date, hours := range req.Hours {
		if _, err := utils.ParseDate(date); err != nil {
			return nil, fmt.Errorf("%w: %v", booking.ErrInvalidArgument, err)
		}
		clean, err := utils.NormalizeHours(hours)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", booking.ErrInvalidArgument, err)
		}
		dates = append(dates, date)
		normalized[date] = clean
	}
	sort.Strings(dates)

	defer s.invalidate(ctx, doctorID)

	saved := make([]models.AppointmentDay, 0, len(dates))
	for _, date := range dates {
		day, err := s.saveDay(ctx, models.TimeslotKey{Date: date, Specialization: req.Specialization, DoctorID: doctorID}, normalized[date])
		if err != nil {
			return saved, err
		}
		saved = append(saved, models.AppointmentDay{Date: date, Timeslots: day.Timeslots})
	}

	s.Logger.Info("schedule saved",
		zap.String("doctorId", doctorID),
		zap.String("specialization", req.Specialization),
		zap.Int("days", len(saved)),
	)
	return saved, nil
}

func (s *DefaultScheduleService) saveDay(ctx context.Context, key models.TimeslotKey, hours []string) (*models.TimeslotDay, error) {
	var written *models.TimeslotDay
	err := s.Repo.RunTransaction(ctx, func(ctx context.Context, tx bookingRepo.Tx) error {
		existing, err := tx.GetTimeslotDay(ctx, key)
		if err != nil && !errors.Is(err, bookingRepo.ErrNotFound) {
			return err
		}
		summary, err := tx.GetAvailability(ctx, key.DoctorID)
		if err != nil {
			return err
		}

		day, err := mergeHours(key, existing, hours)
		if err != nil {
			return err
		}
		summary.SetDay(key.Date, day.FreeHours())

		if err := tx.PutTimeslotDay(ctx, day); err != nil {
			return err
		}
		if err := tx.PutAvailability(ctx, summary); err != nil {
			return err
		}
		written = day
		return nil
	})
	if err != nil {
		if booking.Kind(err) == booking.KindBackend {
			return nil, fmt.Errorf("failed to save schedule for %s: %w", key.Date, err)
		}
		return nil, err
	}
	return written, nil
}

// mergeHours builds the new day from hours, carrying the booked flag over from existing.
func mergeHours(key models.TimeslotKey, existing *models.TimeslotDay, hours []string) (*models.TimeslotDay, error) {
	booked := map[string]bool{}
	if existing != nil {
		for _, ts := range existing.Timeslots {
			if ts.Booked {
				booked[ts.Hour] = true
			}
		}
	}

	day := &models.TimeslotDay{
		Date:           key.Date,
		Specialization: key.Specialization,
		DoctorID:       key.DoctorID,
		Timeslots:      make([]models.Timeslot, 0, len(hours)),
	}
	for _, h := range hours {
		day.Timeslots = append(day.Timeslots, models.Timeslot{Hour: h, Booked: booked[h]})
		delete(booked, h)
	}
	if len(booked) > 0 {
		dropped := make([]string, 0, len(booked))
		for h := range booked {
			dropped = append(dropped, h)
		}
		sort.Strings(dropped)
		return nil, fmt.Errorf("cannot remove %v on %s: %w", dropped, key.Date, booking.ErrSlotAlreadyBooked)
	}
	models.SortTimeslots(day.Timeslots)
	return day, nil
}

// LoadTimeslots returns the day's entries, or an empty list when none are defined.
func (s *DefaultScheduleService) LoadTimeslots(ctx context.Context, key models.TimeslotKey) ([]models.Timeslot, error) {
	if _, err := utils.ParseDate(key.Date); err != nil {
		return nil, fmt.Errorf("%w: %v", booking.ErrInvalidArgument, err)
	}
	day, err := s.Repo.GetTimeslotDay(ctx, key)
	if errors.Is(err, bookingRepo.ErrNotFound) {
		return []models.Timeslot{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load timeslots: %w", err)
	}
	return day.Timeslots, nil
}

// RebuildAvailability recomputes the summary for the working days of the window from the
// TimeslotDay documents. Dates before from are dropped.
func (s *DefaultScheduleService) RebuildAvailability(ctx context.Context, session models.Session, doctorID, specialization string, from time.Time) (*models.AvailabilitySummary, error) {
	if !session.Owns(doctorID) || (session.Role != models.RoleDoctor && !session.IsAdmin()) {
		return nil, fmt.Errorf("availability of %s: %w", doctorID, booking.ErrForbidden)
	}
	if specialization == "" {
		return nil, fmt.Errorf("%w: specialization is required", booking.ErrInvalidArgument)
	}
	dates := utils.WorkingDays(from, s.WindowDays)
	start := from.UTC().Format(utils.DateLayout)

	var rebuilt *models.AvailabilitySummary
	err := s.Repo.RunTransaction(ctx, func(ctx context.Context, tx bookingRepo.Tx) error {
		summary, err := tx.GetAvailability(ctx, doctorID)
		if err != nil {
			return err
		}
		free := make(map[string][]string, len(dates))
		for _, date := range dates {
			day, err := tx.GetTimeslotDay(ctx, models.TimeslotKey{Date: date, Specialization: specialization, DoctorID: doctorID})
			if errors.Is(err, bookingRepo.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			free[date] = day.FreeHours()
		}

		for date := range summary.Availability {
			if date < start {
				delete(summary.Availability, date)
			}
		}
		for _, date := range dates {
			summary.SetDay(date, free[date])
		}

		if err := tx.PutAvailability(ctx, summary); err != nil {
			return err
		}
		rebuilt = summary
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild availability: %w", err)
	}

	s.invalidate(ctx, doctorID)
	s.Logger.Info("availability rebuilt", zap.String("doctorId", doctorID), zap.Int("dates", len(rebuilt.Availability)))
	return rebuilt, nil
}

// Availability reads the summary through the cache. The refill is skipped when a
// commit invalidated the doctor's entry while the store read was in flight.
func (s *DefaultScheduleService) Availability(ctx context.Context, doctorID string) (*models.AvailabilitySummary, error) {
	cached, ok, err := s.Cache.Get(ctx, doctorID)
	if err != nil {
		s.Logger.Warn("availability cache unavailable", zap.String("doctorId", doctorID), zap.Error(err))
	}
	if ok {
		return cached, nil
	}

	generation, err := s.Cache.Generation(ctx, doctorID)
	if err != nil {
		s.Logger.Warn("availability cache unavailable", zap.String("doctorId", doctorID), zap.Error(err))
		summary, err := s.Repo.GetAvailability(ctx, doctorID)
		if err != nil {
			return nil, fmt.Errorf("failed to load availability: %w", err)
		}
		return summary, nil
	}

	summary, err := s.Repo.GetAvailability(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load availability: %w", err)
	}
	if err := s.Cache.Set(ctx, summary, generation); err != nil {
		s.Logger.Warn("failed to cache availability", zap.String("doctorId", doctorID), zap.Error(err))
	}
	return summary, nil
}

func (s *DefaultScheduleService) invalidate(ctx context.Context, doctorID string) {
	if err := s.Cache.Invalidate(ctx, doctorID); err != nil {
		s.Logger.Warn("failed to invalidate availability cache", zap.String("doctorId", doctorID), zap.Error(err))
	}
}
