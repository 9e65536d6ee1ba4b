package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"eclinic/models"
)

var errReadAfterWrite = errors.New("transaction reads must happen before writes")

// MemoryBookingRepo keeps every document in process memory. A single mutex serializes
// transactions and writes are buffered until the transaction function returns nil.
// It backs local runs (STORE_BACKEND=memory) and tests.
type MemoryBookingRepo struct {
	mu              sync.Mutex
	timeslots       map[string]*models.TimeslotDay
	availability    map[string]*models.AvailabilitySummary
	bookings        map[string]models.Booking
	doctorBookings  map[string]map[string]models.Booking
	patientBookings map[string]map[string]models.Booking
	doctorRefs      map[string][]string
	patientRefs     map[string][]string
}

func NewMemoryBookingRepo() *MemoryBookingRepo {
	return &MemoryBookingRepo{
		timeslots:       map[string]*models.TimeslotDay{},
		availability:    map[string]*models.AvailabilitySummary{},
		bookings:        map[string]models.Booking{},
		doctorBookings:  map[string]map[string]models.Booking{},
		patientBookings: map[string]map[string]models.Booking{},
		doctorRefs:      map[string][]string{},
		patientRefs:     map[string][]string{},
	}
}

func (repo *MemoryBookingRepo) RunTransaction(ctx context.Context, fn TxFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	repo.mu.Lock()
	defer repo.mu.Unlock()

	tx := &memoryTx{
		repo:         repo,
		timeslots:    map[string]*models.TimeslotDay{},
		availability: map[string]*models.AvailabilitySummary{},
		statuses:     map[string]string{},
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

func (repo *MemoryBookingRepo) GetTimeslotDay(_ context.Context, key models.TimeslotKey) (*models.TimeslotDay, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	day, ok := repo.timeslots[key.ID()]
	if !ok {
		return nil, ErrNotFound
	}
	return day.Clone(), nil
}

func (repo *MemoryBookingRepo) GetAvailability(_ context.Context, doctorID string) (*models.AvailabilitySummary, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	return repo.availabilityLocked(doctorID), nil
}

func (repo *MemoryBookingRepo) GetBooking(_ context.Context, bookingID string) (*models.Booking, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	booking, ok := repo.bookings[bookingID]
	if !ok {
		return nil, ErrNotFound
	}
	return &booking, nil
}

func (repo *MemoryBookingRepo) FindActiveBooking(_ context.Context, doctorID, date, hour string) (*models.Booking, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, b := range repo.bookings {
		if b.DoctorID == doctorID && b.Date == date && b.Time == hour && b.Status == models.BookingStatusBooked {
			found := b
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (repo *MemoryBookingRepo) ListDoctorBookings(_ context.Context, doctorID string) ([]models.Booking, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	return sortedBookings(repo.doctorBookings[doctorID]), nil
}

func (repo *MemoryBookingRepo) ListPatientBookings(_ context.Context, patientID string) ([]models.Booking, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	return sortedBookings(repo.patientBookings[patientID]), nil
}

// BookingRefs returns the booking ids referenced from the doctor and patient profiles.
func (repo *MemoryBookingRepo) BookingRefs(doctorID, patientID string) (doctorRefs, patientRefs []string) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	return append([]string(nil), repo.doctorRefs[doctorID]...), append([]string(nil), repo.patientRefs[patientID]...)
}

// BookingCopies returns the global, doctor and patient copies of a booking; missing copies are nil.
func (repo *MemoryBookingRepo) BookingCopies(bookingID string) (global, doctor, patient *models.Booking) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	b, ok := repo.bookings[bookingID]
	if !ok {
		return nil, nil, nil
	}
	global = &b
	if d, ok := repo.doctorBookings[b.DoctorID][bookingID]; ok {
		doctor = &d
	}
	if p, ok := repo.patientBookings[b.PatientID][bookingID]; ok {
		patient = &p
	}
	return global, doctor, patient
}

func (repo *MemoryBookingRepo) availabilityLocked(doctorID string) *models.AvailabilitySummary {
	summary, ok := repo.availability[doctorID]
	if !ok {
		return models.NewAvailabilitySummary(doctorID)
	}
	return summary.Clone()
}

func sortedBookings(owned map[string]models.Booking) []models.Booking {
	out := make([]models.Booking, 0, len(owned))
	for _, b := range owned {
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].BookedAt.Equal(out[j].BookedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].BookedAt.After(out[j].BookedAt)
	})
	return out
}

// memoryTx stages writes and applies them on commit. Reads see staged writes.
type memoryTx struct {
	repo         *MemoryBookingRepo
	wrote        bool
	timeslots    map[string]*models.TimeslotDay
	availability map[string]*models.AvailabilitySummary
	created      []models.Booking
	statuses     map[string]string
}

func (tx *memoryTx) GetTimeslotDay(_ context.Context, key models.TimeslotKey) (*models.TimeslotDay, error) {
	if tx.wrote {
		return nil, errReadAfterWrite
	}
	if day, ok := tx.timeslots[key.ID()]; ok {
		return day.Clone(), nil
	}
	day, ok := tx.repo.timeslots[key.ID()]
	if !ok {
		return nil, ErrNotFound
	}
	return day.Clone(), nil
}

func (tx *memoryTx) GetAvailability(_ context.Context, doctorID string) (*models.AvailabilitySummary, error) {
	if tx.wrote {
		return nil, errReadAfterWrite
	}
	if summary, ok := tx.availability[doctorID]; ok {
		return summary.Clone(), nil
	}
	return tx.repo.availabilityLocked(doctorID), nil
}

func (tx *memoryTx) GetBooking(_ context.Context, bookingID string) (*models.Booking, error) {
	if tx.wrote {
		return nil, errReadAfterWrite
	}
	booking, ok := tx.repo.bookings[bookingID]
	if !ok {
		return nil, ErrNotFound
	}
	return &booking, nil
}

func (tx *memoryTx) PutTimeslotDay(_ context.Context, day *models.TimeslotDay) error {
	tx.wrote = true
	stored := day.Clone()
	stored.ID = day.Key().ID()
	tx.timeslots[stored.ID] = stored
	return nil
}

func (tx *memoryTx) PutAvailability(_ context.Context, summary *models.AvailabilitySummary) error {
	tx.wrote = true
	tx.availability[summary.DoctorID] = summary.Clone()
	return nil
}

func (tx *memoryTx) CreateBooking(_ context.Context, booking *models.Booking) error {
	tx.wrote = true
	if _, exists := tx.repo.bookings[booking.ID]; exists {
		return fmt.Errorf("booking %s already exists", booking.ID)
	}
	tx.created = append(tx.created, *booking)
	return nil
}

func (tx *memoryTx) SetBookingStatus(_ context.Context, booking *models.Booking, status string) error {
	tx.wrote = true
	if _, exists := tx.repo.bookings[booking.ID]; !exists {
		staged := false
		for _, b := range tx.created {
			if b.ID == booking.ID {
				staged = true
				break
			}
		}
		if !staged {
			return fmt.Errorf("booking %s: %w", booking.ID, ErrNotFound)
		}
	}
	tx.statuses[booking.ID] = status
	return nil
}

func (tx *memoryTx) commit() {
	repo := tx.repo
	for id, day := range tx.timeslots {
		repo.timeslots[id] = day
	}
	for id, summary := range tx.availability {
		repo.availability[id] = summary
	}
	for _, b := range tx.created {
		global := b
		global.OwnerID = ""
		repo.bookings[b.ID] = global

		doctorCopy := b
		doctorCopy.OwnerID = b.DoctorID
		if repo.doctorBookings[b.DoctorID] == nil {
			repo.doctorBookings[b.DoctorID] = map[string]models.Booking{}
		}
		repo.doctorBookings[b.DoctorID][b.ID] = doctorCopy

		patientCopy := b
		patientCopy.OwnerID = b.PatientID
		if repo.patientBookings[b.PatientID] == nil {
			repo.patientBookings[b.PatientID] = map[string]models.Booking{}
		}
		repo.patientBookings[b.PatientID][b.ID] = patientCopy

		repo.doctorRefs[b.DoctorID] = appendUnique(repo.doctorRefs[b.DoctorID], b.ID)
		repo.patientRefs[b.PatientID] = appendUnique(repo.patientRefs[b.PatientID], b.ID)
	}
	for id, status := range tx.statuses {
		b := repo.bookings[id]
		b.Status = status
		repo.bookings[id] = b
		if d, ok := repo.doctorBookings[b.DoctorID][id]; ok {
			d.Status = status
			repo.doctorBookings[b.DoctorID][id] = d
		}
		if p, ok := repo.patientBookings[b.PatientID][id]; ok {
			p.Status = status
			repo.patientBookings[b.PatientID][id] = p
		}
	}
}

func appendUnique(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}
