package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"eclinic/models"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreBookingRepo implements BookingRepository on Cloud Firestore using the
// appointments/{date}/{specialization}/{doctorId} key layout.
type FirestoreBookingRepo struct {
	client *firestore.Client
}

func NewFirestoreBookingRepo(client *firestore.Client) *FirestoreBookingRepo {
	return &FirestoreBookingRepo{client: client}
}

func (repo *FirestoreBookingRepo) timeslotRef(key models.TimeslotKey) *firestore.DocumentRef {
	return repo.client.Collection("appointments").Doc(key.Date).Collection(key.Specialization).Doc(key.DoctorID)
}

func (repo *FirestoreBookingRepo) availabilityRef(doctorID string) *firestore.DocumentRef {
	return repo.client.Collection("doctor_availability").Doc(doctorID)
}

func (repo *FirestoreBookingRepo) bookingRef(bookingID string) *firestore.DocumentRef {
	return repo.client.Collection("bookings").Doc(bookingID)
}

func (repo *FirestoreBookingRepo) doctorRef(doctorID string) *firestore.DocumentRef {
	return repo.client.Collection("doctors").Doc(doctorID)
}

func (repo *FirestoreBookingRepo) patientRef(patientID string) *firestore.DocumentRef {
	return repo.client.Collection("patients").Doc(patientID)
}

func (repo *FirestoreBookingRepo) doctorBookingRef(doctorID, bookingID string) *firestore.DocumentRef {
	return repo.doctorRef(doctorID).Collection("bookings").Doc(bookingID)
}

func (repo *FirestoreBookingRepo) patientBookingRef(patientID, bookingID string) *firestore.DocumentRef {
	return repo.patientRef(patientID).Collection("bookings").Doc(bookingID)
}

// RunTransaction runs fn in a Firestore transaction; the client retries fn on contention.
// A commit rejected because an updated document is missing surfaces as ErrNotFound.
func (repo *FirestoreBookingRepo) RunTransaction(ctx context.Context, fn TxFunc) error {
	err := repo.client.RunTransaction(ctx, func(ctx context.Context, t *firestore.Transaction) error {
		return fn(ctx, &firestoreTx{repo: repo, tx: t})
	})
	return commitError(err)
}

func commitError(err error) error {
	if err != nil && isNotFound(err) {
		return fmt.Errorf("transaction commit: %v: %w", err, ErrNotFound)
	}
	return err
}

func (repo *FirestoreBookingRepo) GetTimeslotDay(ctx context.Context, key models.TimeslotKey) (*models.TimeslotDay, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	snap, err := repo.timeslotRef(key).Get(ctx)
	return decodeTimeslotDay(key, snap, err)
}

func (repo *FirestoreBookingRepo) GetAvailability(ctx context.Context, doctorID string) (*models.AvailabilitySummary, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	snap, err := repo.availabilityRef(doctorID).Get(ctx)
	return decodeAvailability(doctorID, snap, err)
}

func (repo *FirestoreBookingRepo) GetBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	snap, err := repo.bookingRef(bookingID).Get(ctx)
	return decodeBooking(bookingID, snap, err)
}

func (repo *FirestoreBookingRepo) FindActiveBooking(ctx context.Context, doctorID, date, hour string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	snaps, err := repo.client.Collection("bookings").
		Where("doctorId", "==", doctorID).
		Where("date", "==", date).
		Where("time", "==", hour).
		Where("status", "==", models.BookingStatusBooked).
		Limit(1).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("error finding booking for %s %s %s: %w", doctorID, date, hour, err)
	}
	if len(snaps) == 0 {
		return nil, ErrNotFound
	}
	return decodeBooking(snaps[0].Ref.ID, snaps[0], nil)
}

func (repo *FirestoreBookingRepo) ListDoctorBookings(ctx context.Context, doctorID string) ([]models.Booking, error) {
	return repo.listOwned(ctx, repo.doctorRef(doctorID).Collection("bookings"), doctorID)
}

func (repo *FirestoreBookingRepo) ListPatientBookings(ctx context.Context, patientID string) ([]models.Booking, error) {
	return repo.listOwned(ctx, repo.patientRef(patientID).Collection("bookings"), patientID)
}

func (repo *FirestoreBookingRepo) listOwned(ctx context.Context, coll *firestore.CollectionRef, ownerID string) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	snaps, err := coll.OrderBy("bookedAt", firestore.Desc).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("error listing bookings for %s: %w", ownerID, err)
	}
	bookings := make([]models.Booking, 0, len(snaps))
	for _, snap := range snaps {
		b, err := decodeBooking(snap.Ref.ID, snap, nil)
		if err != nil {
			return nil, err
		}
		b.OwnerID = ownerID
		bookings = append(bookings, *b)
	}
	return bookings, nil
}

type firestoreTx struct {
	repo *FirestoreBookingRepo
	tx   *firestore.Transaction
}

func (t *firestoreTx) GetTimeslotDay(_ context.Context, key models.TimeslotKey) (*models.TimeslotDay, error) {
	snap, err := t.tx.Get(t.repo.timeslotRef(key))
	return decodeTimeslotDay(key, snap, err)
}

func (t *firestoreTx) GetAvailability(_ context.Context, doctorID string) (*models.AvailabilitySummary, error) {
	snap, err := t.tx.Get(t.repo.availabilityRef(doctorID))
	return decodeAvailability(doctorID, snap, err)
}

func (t *firestoreTx) GetBooking(_ context.Context, bookingID string) (*models.Booking, error) {
	snap, err := t.tx.Get(t.repo.bookingRef(bookingID))
	return decodeBooking(bookingID, snap, err)
}

func (t *firestoreTx) PutTimeslotDay(_ context.Context, day *models.TimeslotDay) error {
	if err := t.tx.Set(t.repo.timeslotRef(day.Key()), day); err != nil {
		return fmt.Errorf("failed to write timeslots %s: %w", day.Key().ID(), err)
	}
	return nil
}

func (t *firestoreTx) PutAvailability(_ context.Context, summary *models.AvailabilitySummary) error {
	if err := t.tx.Set(t.repo.availabilityRef(summary.DoctorID), summary); err != nil {
		return fmt.Errorf("failed to write availability for doctor %s: %w", summary.DoctorID, err)
	}
	return nil
}

func (t *firestoreTx) CreateBooking(_ context.Context, booking *models.Booking) error {
	refs := []*firestore.DocumentRef{
		t.repo.bookingRef(booking.ID),
		t.repo.doctorBookingRef(booking.DoctorID, booking.ID),
		t.repo.patientBookingRef(booking.PatientID, booking.ID),
	}
	for _, ref := range refs {
		if err := t.tx.Create(ref, booking); err != nil {
			return fmt.Errorf("failed to create booking at %s: %w", ref.Path, err)
		}
	}

	// Update rather than Set: the commit fails with NotFound when a profile is missing.
	backRef := []firestore.Update{{Path: "bookings", Value: firestore.ArrayUnion(booking.ID)}}
	if err := t.tx.Update(t.repo.doctorRef(booking.DoctorID), backRef); err != nil {
		return fmt.Errorf("failed to reference booking on doctor %s: %w", booking.DoctorID, err)
	}
	if err := t.tx.Update(t.repo.patientRef(booking.PatientID), backRef); err != nil {
		return fmt.Errorf("failed to reference booking on patient %s: %w", booking.PatientID, err)
	}
	return nil
}

func (t *firestoreTx) SetBookingStatus(_ context.Context, booking *models.Booking, status string) error {
	updates := []firestore.Update{{Path: "status", Value: status}}
	refs := []*firestore.DocumentRef{
		t.repo.bookingRef(booking.ID),
		t.repo.doctorBookingRef(booking.DoctorID, booking.ID),
		t.repo.patientBookingRef(booking.PatientID, booking.ID),
	}
	for _, ref := range refs {
		if err := t.tx.Update(ref, updates); err != nil {
			return fmt.Errorf("failed to update status at %s: %w", ref.Path, err)
		}
	}
	return nil
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

func decodeTimeslotDay(key models.TimeslotKey, snap *firestore.DocumentSnapshot, err error) (*models.TimeslotDay, error) {
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching timeslots %s: %w", key.ID(), err)
	}
	var day models.TimeslotDay
	if err := snap.DataTo(&day); err != nil {
		return nil, fmt.Errorf("invalid timeslot data at %s: %w", key.ID(), err)
	}
	fillTimeslotKey(&day, key)
	return &day, nil
}

// fillTimeslotKey sets the key fields from the document path. Older documents only
// carry the timeslots field.
func fillTimeslotKey(day *models.TimeslotDay, key models.TimeslotKey) {
	day.Date, day.Specialization, day.DoctorID = key.Date, key.Specialization, key.DoctorID
	day.ID = key.ID()
}

func decodeAvailability(doctorID string, snap *firestore.DocumentSnapshot, err error) (*models.AvailabilitySummary, error) {
	if err != nil {
		if isNotFound(err) {
			return models.NewAvailabilitySummary(doctorID), nil
		}
		return nil, fmt.Errorf("error fetching availability for doctor %s: %w", doctorID, err)
	}
	var summary models.AvailabilitySummary
	if err := snap.DataTo(&summary); err != nil {
		return nil, fmt.Errorf("invalid availability data for doctor %s: %w", doctorID, err)
	}
	summary.DoctorID = doctorID
	if summary.Availability == nil {
		summary.Availability = map[string][]string{}
	}
	return &summary, nil
}

func decodeBooking(bookingID string, snap *firestore.DocumentSnapshot, err error) (*models.Booking, error) {
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching booking with id %s: %w", bookingID, err)
	}
	var booking models.Booking
	if err := snap.DataTo(&booking); err != nil {
		return nil, fmt.Errorf("invalid booking data %s: %w", bookingID, err)
	}
	booking.ID = bookingID
	return &booking, nil
}
