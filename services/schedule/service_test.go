package schedule

import (
	"context"
	"sync"
	"testing"
	"time"

	bookingRepo "eclinic/database/repository/booking"
	"eclinic/models"
	"eclinic/services/booking"
	"eclinic/services/cache"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var doctor = models.Session{UserID: "doc1", Name: "Dr. Otieno", Role: models.RoleDoctor}

type countingCache struct {
	stored      map[string]*models.AvailabilitySummary
	generations map[string]int64
	gets        int
	invalidated int
}

func newCountingCache() *countingCache {
	return &countingCache{stored: map[string]*models.AvailabilitySummary{}, generations: map[string]int64{}}
}

func (c *countingCache) Get(_ context.Context, doctorID string) (*models.AvailabilitySummary, bool, error) {
	c.gets++
	s, ok := c.stored[doctorID]
	if !ok {
		return nil, false, nil
	}
	return s.Clone(), true, nil
}

func (c *countingCache) Generation(_ context.Context, doctorID string) (int64, error) {
	return c.generations[doctorID], nil
}

func (c *countingCache) Set(_ context.Context, summary *models.AvailabilitySummary, generation int64) error {
	if c.generations[summary.DoctorID] == generation {
		c.stored[summary.DoctorID] = summary.Clone()
	}
	return nil
}

func (c *countingCache) Invalidate(_ context.Context, doctorID string) error {
	c.invalidated++
	c.generations[doctorID]++
	delete(c.stored, doctorID)
	return nil
}

func newService(t *testing.T) (*DefaultScheduleService, *bookingRepo.MemoryBookingRepo, *countingCache) {
	t.Helper()
	repo := bookingRepo.NewMemoryBookingRepo()
	c := newCountingCache()
	return NewScheduleService(repo, c, zap.NewNop(), 14), repo, c
}

func TestSaveSchedule_WritesDaysAndAvailability(t *testing.T) {
	svc, repo, _ := newService(t)
	ctx := context.Background()

	days, err := svc.SaveSchedule(ctx, doctor, "doc1", models.SaveScheduleRequest{
		Specialization: "Cardiology",
		Hours: map[string][]string{
			"2025-06-27": {"10:00", "09:00", "10:00"},
			"2025-06-26": {"13:00"},
		},
	})
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, "2025-06-26", days[0].Date)
	assert.Equal(t, []models.Timeslot{{Hour: "09:00"}, {Hour: "10:00"}}, days[1].Timeslots)

	slots, err := svc.LoadTimeslots(ctx, models.TimeslotKey{Date: "2025-06-27", Specialization: "Cardiology", DoctorID: "doc1"})
	require.NoError(t, err)
	assert.Len(t, slots, 2)

	summary, err := repo.GetAvailability(ctx, "doc1")
	require.NoError(t, err)
	assert.Equal(t, []string{"13:00"}, summary.Availability["2025-06-26"])
	assert.Equal(t, []string{"09:00", "10:00"}, summary.Availability["2025-06-27"])
}

func TestSaveSchedule_PreservesBookedHours(t *testing.T) {
	svc, repo, _ := newService(t)
	ctx := context.Background()
	key := models.TimeslotKey{Date: "2025-06-26", Specialization: "Cardiology", DoctorID: "doc1"}

	require.NoError(t, repo.RunTransaction(ctx, func(ctx context.Context, tx bookingRepo.Tx) error {
		return tx.PutTimeslotDay(ctx, &models.TimeslotDay{
			Date: key.Date, Specialization: key.Specialization, DoctorID: key.DoctorID,
			Timeslots: []models.Timeslot{{Hour: "09:00", Booked: true}, {Hour: "10:00"}},
		})
	}))

	_, err := svc.SaveSchedule(ctx, doctor, "doc1", models.SaveScheduleRequest{
		Specialization: "Cardiology",
		Hours:          map[string][]string{key.Date: {"09:00", "11:00"}},
	})
	require.NoError(t, err)

	slots, err := svc.LoadTimeslots(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []models.Timeslot{{Hour: "09:00", Booked: true}, {Hour: "11:00"}}, slots)

	summary, err := repo.GetAvailability(ctx, "doc1")
	require.NoError(t, err)
	assert.Equal(t, []string{"11:00"}, summary.Availability[key.Date])

	_, err = svc.SaveSchedule(ctx, doctor, "doc1", models.SaveScheduleRequest{
		Specialization: "Cardiology",
		Hours:          map[string][]string{key.Date: {"11:00"}},
	})
	require.ErrorIs(t, err, booking.ErrSlotAlreadyBooked)

	slots, err = svc.LoadTimeslots(ctx, key)
	require.NoError(t, err)
	assert.Len(t, slots, 2)
}

func TestSaveSchedule_Validation(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.SaveSchedule(ctx, doctor, "doc1", models.SaveScheduleRequest{
		Specialization: "Cardiology",
		Hours:          map[string][]string{"2025-06-26": {"25:00"}},
	})
	assert.Equal(t, booking.KindInvalid, booking.Kind(err))

	_, err = svc.SaveSchedule(ctx, doctor, "doc1", models.SaveScheduleRequest{
		Specialization: "Cardiology",
		Hours:          map[string][]string{"26/06/2025": {"09:00"}},
	})
	assert.Equal(t, booking.KindInvalid, booking.Kind(err))

	_, err = svc.SaveSchedule(ctx, doctor, "doc2", models.SaveScheduleRequest{
		Specialization: "Cardiology",
		Hours:          map[string][]string{"2025-06-26": {"09:00"}},
	})
	assert.Equal(t, booking.KindForbidden, booking.Kind(err))

	_, err = svc.SaveSchedule(ctx, models.Session{UserID: "doc1", Role: models.RolePatient}, "doc1", models.SaveScheduleRequest{
		Specialization: "Cardiology",
		Hours:          map[string][]string{"2025-06-26": {"09:00"}},
	})
	assert.Equal(t, booking.KindForbidden, booking.Kind(err))
}

func TestLoadTimeslots_EmptyWhenUndefined(t *testing.T) {
	svc, _, _ := newService(t)

	slots, err := svc.LoadTimeslots(context.Background(), models.TimeslotKey{Date: "2025-06-26", Specialization: "Cardiology", DoctorID: "doc1"})
	require.NoError(t, err)
	assert.NotNil(t, slots)
	assert.Empty(t, slots)
}

func TestRebuildAvailability(t *testing.T) {
	svc, repo, _ := newService(t)
	ctx := context.Background()

	// Thursday 2025-06-26; the window of 14 days holds 10 weekdays.
	from := time.Date(2025, 6, 26, 0, 0, 0, 0, time.UTC)
	_, err := svc.SaveSchedule(ctx, doctor, "doc1", models.SaveScheduleRequest{
		Specialization: "Cardiology",
		Hours: map[string][]string{
			"2025-06-20": {"09:00"},
			"2025-06-26": {"09:00", "10:00"},
			"2025-06-30": {"08:00"},
		},
	})
	require.NoError(t, err)

	// Drift the summary away from the timeslot documents.
	require.NoError(t, repo.RunTransaction(ctx, func(ctx context.Context, tx bookingRepo.Tx) error {
		summary, err := tx.GetAvailability(ctx, "doc1")
		if err != nil {
			return err
		}
		summary.SetDay("2025-06-27", []string{"15:00"})
		summary.RemoveHour("2025-06-26", "10:00")
		return tx.PutAvailability(ctx, summary)
	}))

	summary, err := svc.RebuildAvailability(ctx, doctor, "doc1", "Cardiology", from)
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{
		"2025-06-26": {"09:00", "10:00"},
		"2025-06-30": {"08:00"},
	}, summary.Availability)

	stored, err := repo.GetAvailability(ctx, "doc1")
	require.NoError(t, err)
	assert.Equal(t, summary.Availability, stored.Availability)
}

func TestAvailability_ReadsThroughCache(t *testing.T) {
	svc, _, c := newService(t)
	ctx := context.Background()

	_, err := svc.SaveSchedule(ctx, doctor, "doc1", models.SaveScheduleRequest{
		Specialization: "Cardiology",
		Hours:          map[string][]string{"2025-06-26": {"09:00"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, c.invalidated)

	first, err := svc.Availability(ctx, "doc1")
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00"}, first.Availability["2025-06-26"])
	require.Contains(t, c.stored, "doc1")

	second, err := svc.Availability(ctx, "doc1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 2, c.gets)

	_, err = svc.SaveSchedule(ctx, doctor, "doc1", models.SaveScheduleRequest{
		Specialization: "Cardiology",
		Hours:          map[string][]string{"2025-06-26": {"09:00", "10:00"}},
	})
	require.NoError(t, err)
	assert.NotContains(t, c.stored, "doc1")

	third, err := svc.Availability(ctx, "doc1")
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "10:00"}, third.Availability["2025-06-26"])
}

// stallingRepo holds the first plain availability read until resume is closed.
type stallingRepo struct {
	*bookingRepo.MemoryBookingRepo
	once   sync.Once
	loaded chan struct{}
	resume chan struct{}
}

func (r *stallingRepo) GetAvailability(ctx context.Context, doctorID string) (*models.AvailabilitySummary, error) {
	summary, err := r.MemoryBookingRepo.GetAvailability(ctx, doctorID)
	r.once.Do(func() {
		close(r.loaded)
		<-r.resume
	})
	return summary, err
}

func TestAvailability_DoesNotCacheSummaryInvalidatedMidRead(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	redisCache := cache.NewRedisAvailabilityCache(client, 10*time.Minute)

	repo := &stallingRepo{
		MemoryBookingRepo: bookingRepo.NewMemoryBookingRepo(),
		loaded:            make(chan struct{}),
		resume:            make(chan struct{}),
	}
	svc := NewScheduleService(repo, redisCache, zap.NewNop(), 14)
	ctx := context.Background()

	_, err := svc.SaveSchedule(ctx, doctor, "doc1", models.SaveScheduleRequest{
		Specialization: "Cardiology",
		Hours:          map[string][]string{"2025-06-26": {"09:00"}},
	})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Availability(ctx, "doc1")
		done <- err
	}()

	<-repo.loaded
	_, err = svc.SaveSchedule(ctx, doctor, "doc1", models.SaveScheduleRequest{
		Specialization: "Cardiology",
		Hours:          map[string][]string{"2025-06-26": {"09:00", "10:00"}},
	})
	require.NoError(t, err)
	close(repo.resume)
	require.NoError(t, <-done)

	_, ok, err := redisCache.Get(ctx, "doc1")
	require.NoError(t, err)
	assert.False(t, ok, "summary read before the save must not be cached")

	fresh, err := svc.Availability(ctx, "doc1")
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "10:00"}, fresh.Availability["2025-06-26"])

	cached, ok, err := redisCache.Get(ctx, "doc1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, fresh.Availability, cached.Availability)
}

func TestDefaultSchedule(t *testing.T) {
	svc, _, _ := newService(t)

	hours := svc.DefaultSchedule(time.Date(2025, 6, 26, 0, 0, 0, 0, time.UTC))
	assert.Len(t, hours, 10)
	assert.Equal(t, DefaultWorkingHours, hours["2025-06-26"])
	assert.NotContains(t, hours, "2025-06-28")
}
