package booking

import (
	"context"
	"time"

	bookingRepo "eclinic/database/repository/booking"
	profileRepo "eclinic/database/repository/profile"
	"eclinic/models"
	"eclinic/services/cache"
	"eclinic/services/notification"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookingService claims and releases appointment slots and serves booking history.
type BookingService interface {
	ClaimSlot(ctx context.Context, session models.Session, req models.ClaimRequest) (string, error)
	ReleaseSlot(ctx context.Context, session models.Session, req models.ReleaseRequest) error
	CancelByTime(ctx context.Context, session models.Session, req models.CancelByTimeRequest) error
	GetBooking(ctx context.Context, session models.Session, bookingID string) (*models.Booking, error)
	ListDoctorBookings(ctx context.Context, session models.Session, doctorID string) ([]models.Booking, error)
	ListPatientBookings(ctx context.Context, session models.Session, patientID string) ([]models.Booking, error)
}

// DefaultBookingService implements BookingService on top of a transactional repository.
type DefaultBookingService struct {
	Repo     bookingRepo.BookingRepository
	Profiles profileRepo.ProfileRepository
	Cache    cache.AvailabilityCache
	Notifier notification.Notifier
	Logger   *zap.Logger

	Now   func() time.Time
	NewID func() string
}

func NewBookingService(repo bookingRepo.BookingRepository, profiles profileRepo.ProfileRepository, availabilityCache cache.AvailabilityCache, notifier notification.Notifier, logger *zap.Logger) *DefaultBookingService {
	if availabilityCache == nil {
		availabilityCache = cache.NoopAvailabilityCache{}
	}
	if notifier == nil {
		notifier = notification.NoopNotifier{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultBookingService{
		Repo:     repo,
		Profiles: profiles,
		Cache:    availabilityCache,
		Notifier: notifier,
		Logger:   logger,
		Now:      time.Now,
		NewID:    uuid.NewString,
	}
}
