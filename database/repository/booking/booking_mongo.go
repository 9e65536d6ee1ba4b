package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"eclinic/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	client             *mongo.Client
	timeslotColl       *mongo.Collection
	availabilityColl   *mongo.Collection
	bookingColl        *mongo.Collection
	doctorBookingColl  *mongo.Collection
	patientBookingColl *mongo.Collection
	doctorColl         *mongo.Collection
	patientColl        *mongo.Collection
}

// NewMongoBookingRepo constructs a new instance of MongoBookingRepo.
func NewMongoBookingRepo(db *mongo.Database) *MongoBookingRepo {
	return &MongoBookingRepo{
		client:             db.Client(),
		timeslotColl:       db.Collection("appointments"),
		availabilityColl:   db.Collection("doctor_availability"),
		bookingColl:        db.Collection("bookings"),
		doctorBookingColl:  db.Collection("doctor_bookings"),
		patientBookingColl: db.Collection("patient_bookings"),
		doctorColl:         db.Collection("doctors"),
		patientColl:        db.Collection("patients"),
	}
}

// RunTransaction runs fn inside a session transaction. The driver re-runs fn on
// TransientTransactionError, which is how write conflicts on the timeslot document surface.
func (repo *MongoBookingRepo) RunTransaction(ctx context.Context, fn TxFunc) error {
	sess, err := repo.client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc, &mongoTx{repo: repo})
	}, txnOpts)
	return err
}

func (repo *MongoBookingRepo) GetTimeslotDay(ctx context.Context, key models.TimeslotKey) (*models.TimeslotDay, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return repo.findTimeslotDay(ctx, key)
}

func (repo *MongoBookingRepo) GetAvailability(ctx context.Context, doctorID string) (*models.AvailabilitySummary, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return repo.findAvailability(ctx, doctorID)
}

func (repo *MongoBookingRepo) GetBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return repo.findBooking(ctx, bookingID)
}

func (repo *MongoBookingRepo) FindActiveBooking(ctx context.Context, doctorID, date, hour string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"doctorId": doctorID,
		"date":     date,
		"time":     hour,
		"status":   models.BookingStatusBooked,
	}
	var booking models.Booking
	if err := repo.bookingColl.FindOne(ctx, filter).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error finding booking for %s %s %s: %w", doctorID, date, hour, err)
	}
	return &booking, nil
}

func (repo *MongoBookingRepo) ListDoctorBookings(ctx context.Context, doctorID string) ([]models.Booking, error) {
	return repo.listOwned(ctx, repo.doctorBookingColl, doctorID)
}

func (repo *MongoBookingRepo) ListPatientBookings(ctx context.Context, patientID string) ([]models.Booking, error) {
	return repo.listOwned(ctx, repo.patientBookingColl, patientID)
}

func (repo *MongoBookingRepo) listOwned(ctx context.Context, coll *mongo.Collection, ownerID string) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "bookedAt", Value: -1}})
	cursor, err := coll.Find(ctx, bson.M{"ownerId": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing bookings for %s: %w", ownerID, err)
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings for %s: %w", ownerID, err)
	}
	sort.SliceStable(bookings, func(i, j int) bool { return bookings[i].BookedAt.After(bookings[j].BookedAt) })
	return bookings, nil
}

func (repo *MongoBookingRepo) findTimeslotDay(ctx context.Context, key models.TimeslotKey) (*models.TimeslotDay, error) {
	var day models.TimeslotDay
	if err := repo.timeslotColl.FindOne(ctx, bson.M{"_id": key.ID()}).Decode(&day); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching timeslots %s: %w", key.ID(), err)
	}
	return &day, nil
}

func (repo *MongoBookingRepo) findAvailability(ctx context.Context, doctorID string) (*models.AvailabilitySummary, error) {
	var summary models.AvailabilitySummary
	if err := repo.availabilityColl.FindOne(ctx, bson.M{"_id": doctorID}).Decode(&summary); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.NewAvailabilitySummary(doctorID), nil
		}
		return nil, fmt.Errorf("error fetching availability for doctor %s: %w", doctorID, err)
	}
	if summary.Availability == nil {
		summary.Availability = map[string][]string{}
	}
	return &summary, nil
}

func (repo *MongoBookingRepo) findBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	var booking models.Booking
	if err := repo.bookingColl.FindOne(ctx, bson.M{"_id": bookingID}).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching booking with id %s: %w", bookingID, err)
	}
	return &booking, nil
}

// mongoTx binds repository operations to the session context handed to it.
type mongoTx struct {
	repo *MongoBookingRepo
}

func (tx *mongoTx) GetTimeslotDay(ctx context.Context, key models.TimeslotKey) (*models.TimeslotDay, error) {
	return tx.repo.findTimeslotDay(ctx, key)
}

func (tx *mongoTx) GetAvailability(ctx context.Context, doctorID string) (*models.AvailabilitySummary, error) {
	return tx.repo.findAvailability(ctx, doctorID)
}

func (tx *mongoTx) GetBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	return tx.repo.findBooking(ctx, bookingID)
}

func (tx *mongoTx) PutTimeslotDay(ctx context.Context, day *models.TimeslotDay) error {
	day.ID = day.Key().ID()
	opts := options.Replace().SetUpsert(true)
	if _, err := tx.repo.timeslotColl.ReplaceOne(ctx, bson.M{"_id": day.ID}, day, opts); err != nil {
		return fmt.Errorf("failed to write timeslots %s: %w", day.ID, err)
	}
	return nil
}

func (tx *mongoTx) PutAvailability(ctx context.Context, summary *models.AvailabilitySummary) error {
	opts := options.Replace().SetUpsert(true)
	if _, err := tx.repo.availabilityColl.ReplaceOne(ctx, bson.M{"_id": summary.DoctorID}, summary, opts); err != nil {
		return fmt.Errorf("failed to write availability for doctor %s: %w", summary.DoctorID, err)
	}
	return nil
}

func (tx *mongoTx) CreateBooking(ctx context.Context, booking *models.Booking) error {
	global := *booking
	global.OwnerID = ""
	if _, err := tx.repo.bookingColl.InsertOne(ctx, global); err != nil {
		return fmt.Errorf("insert booking failed: %w", err)
	}

	doctorCopy := *booking
	doctorCopy.OwnerID = booking.DoctorID
	if _, err := tx.repo.doctorBookingColl.InsertOne(ctx, doctorCopy); err != nil {
		return fmt.Errorf("insert doctor booking failed: %w", err)
	}

	patientCopy := *booking
	patientCopy.OwnerID = booking.PatientID
	if _, err := tx.repo.patientBookingColl.InsertOne(ctx, patientCopy); err != nil {
		return fmt.Errorf("insert patient booking failed: %w", err)
	}

	// Profiles must already exist; a missing one aborts the whole booking.
	refUpdate := bson.M{"$addToSet": bson.M{"bookings": booking.ID}}
	for _, owner := range []struct {
		name string
		coll *mongo.Collection
		id   string
	}{
		{"doctor", tx.repo.doctorColl, booking.DoctorID},
		{"patient", tx.repo.patientColl, booking.PatientID},
	} {
		res, err := owner.coll.UpdateOne(ctx, bson.M{"_id": owner.id}, refUpdate)
		if err != nil {
			return fmt.Errorf("failed to reference booking on %s %s: %w", owner.name, owner.id, err)
		}
		if res.MatchedCount == 0 {
			return fmt.Errorf("%s %s: %w", owner.name, owner.id, ErrNotFound)
		}
	}
	return nil
}

func (tx *mongoTx) SetBookingStatus(ctx context.Context, booking *models.Booking, status string) error {
	update := bson.M{"$set": bson.M{"status": status}}
	for name, coll := range map[string]*mongo.Collection{
		"global":  tx.repo.bookingColl,
		"doctor":  tx.repo.doctorBookingColl,
		"patient": tx.repo.patientBookingColl,
	} {
		res, err := coll.UpdateOne(ctx, bson.M{"_id": booking.ID}, update)
		if err != nil {
			return fmt.Errorf("error updating %s copy of booking %s: %w", name, booking.ID, err)
		}
		if res.MatchedCount == 0 {
			return fmt.Errorf("%s copy of booking %s: %w", name, booking.ID, ErrNotFound)
		}
	}
	return nil
}
