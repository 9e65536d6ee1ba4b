package bookingRepo

import (
	"context"
	"testing"
	"time"

	"eclinic/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

var mongoKey = models.TimeslotKey{Date: "2025-06-26", Specialization: "Cardiology", DoctorID: "doc1"}

func emptyCursor(coll string) bson.D {
	return mtest.CreateCursorResponse(0, mtest.TestDb+"."+coll, mtest.FirstBatch)
}

func matched(n int) bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "n", Value: n}, bson.E{Key: "nModified", Value: n})
}

func startedOn(evt *event.CommandStartedEvent) (string, string) {
	return evt.CommandName, evt.Command.Lookup(evt.CommandName).StringValue()
}

func testBooking() *models.Booking {
	return &models.Booking{
		ID:             "b1",
		DoctorID:       "doc1",
		DoctorName:     "Dr. Otieno",
		PatientID:      "pat1",
		PatientName:    "Amina",
		Specialization: "Cardiology",
		Date:           "2025-06-26",
		Time:           "09:00",
		Status:         models.BookingStatusBooked,
		BookedAt:       time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestMongoBookingRepo_Reads(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("missing timeslot day", func(mt *mtest.T) {
		repo := NewMongoBookingRepo(mt.DB)
		mt.AddMockResponses(emptyCursor("appointments"))

		_, err := repo.GetTimeslotDay(ctx, mongoKey)
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("timeslot day", func(mt *mtest.T) {
		repo := NewMongoBookingRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mtest.TestDb+".appointments", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: mongoKey.ID()},
			{Key: "date", Value: mongoKey.Date},
			{Key: "specialization", Value: mongoKey.Specialization},
			{Key: "doctorId", Value: mongoKey.DoctorID},
			{Key: "timeslots", Value: bson.A{
				bson.D{{Key: "hour", Value: "09:00"}, {Key: "booked", Value: true}},
				bson.D{{Key: "hour", Value: "10:00"}, {Key: "booked", Value: false}},
			}},
		}))

		day, err := repo.GetTimeslotDay(ctx, mongoKey)
		require.NoError(mt, err)
		assert.Equal(mt, mongoKey, day.Key())
		assert.Equal(mt, []string{"10:00"}, day.FreeHours())

		cmd, coll := startedOn(mt.GetStartedEvent())
		assert.Equal(mt, "find", cmd)
		assert.Equal(mt, "appointments", coll)
	})

	mt.Run("missing availability is empty", func(mt *mtest.T) {
		repo := NewMongoBookingRepo(mt.DB)
		mt.AddMockResponses(emptyCursor("doctor_availability"))

		summary, err := repo.GetAvailability(ctx, "doc1")
		require.NoError(mt, err)
		assert.Equal(mt, "doc1", summary.DoctorID)
		assert.Empty(mt, summary.Availability)
		assert.NotNil(mt, summary.Availability)
	})

	mt.Run("missing booking", func(mt *mtest.T) {
		repo := NewMongoBookingRepo(mt.DB)
		mt.AddMockResponses(emptyCursor("bookings"))

		_, err := repo.GetBooking(ctx, "nope")
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("no active booking", func(mt *mtest.T) {
		repo := NewMongoBookingRepo(mt.DB)
		mt.AddMockResponses(emptyCursor("bookings"))

		_, err := repo.FindActiveBooking(ctx, "doc1", "2025-06-26", "09:00")
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("server error is not a miss", func(mt *mtest.T) {
		repo := NewMongoBookingRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Name: "BadValue", Message: "bad value"}))

		_, err := repo.GetBooking(ctx, "b1")
		require.Error(mt, err)
		assert.NotErrorIs(mt, err, ErrNotFound)
	})
}

func TestMongoTx_CreateBooking(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("writes three copies and both references", func(mt *mtest.T) {
		tx := &mongoTx{repo: NewMongoBookingRepo(mt.DB)}
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(),
			matched(1),
			matched(1),
		)

		require.NoError(mt, tx.CreateBooking(ctx, testBooking()))

		for _, want := range []string{"bookings", "doctor_bookings", "patient_bookings"} {
			cmd, coll := startedOn(mt.GetStartedEvent())
			assert.Equal(mt, "insert", cmd)
			assert.Equal(mt, want, coll)
		}
		for _, want := range []string{"doctors", "patients"} {
			evt := mt.GetStartedEvent()
			cmd, coll := startedOn(evt)
			assert.Equal(mt, "update", cmd)
			assert.Equal(mt, want, coll)

			update := evt.Command.Lookup("updates").Array().Index(0).Value().Document()
			assert.Equal(mt, "b1", update.Lookup("u", "$addToSet", "bookings").StringValue())
			if upsert, err := update.LookupErr("upsert"); err == nil {
				assert.False(mt, upsert.Boolean())
			}
		}
	})

	mt.Run("missing patient profile aborts", func(mt *mtest.T) {
		tx := &mongoTx{repo: NewMongoBookingRepo(mt.DB)}
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(),
			matched(1),
			matched(0),
		)

		err := tx.CreateBooking(ctx, testBooking())
		assert.ErrorIs(mt, err, ErrNotFound)
		assert.Contains(mt, err.Error(), "patient pat1")
	})

	mt.Run("duplicate id is a backend error", func(mt *mtest.T) {
		tx := &mongoTx{repo: NewMongoBookingRepo(mt.DB)}
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key"}))

		err := tx.CreateBooking(ctx, testBooking())
		require.Error(mt, err)
		assert.NotErrorIs(mt, err, ErrNotFound)
		assert.Len(mt, mt.GetAllStartedEvents(), 1)
	})
}

func TestMongoTx_SetBookingStatus(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("updates every copy", func(mt *mtest.T) {
		tx := &mongoTx{repo: NewMongoBookingRepo(mt.DB)}
		mt.AddMockResponses(matched(1), matched(1), matched(1))

		require.NoError(mt, tx.SetBookingStatus(ctx, testBooking(), models.BookingStatusCancelled))

		colls := map[string]bool{}
		for _, evt := range mt.GetAllStartedEvents() {
			cmd, coll := startedOn(evt)
			assert.Equal(mt, "update", cmd)
			colls[coll] = true
			update := evt.Command.Lookup("updates").Array().Index(0).Value().Document()
			assert.Equal(mt, models.BookingStatusCancelled, update.Lookup("u", "$set", "status").StringValue())
		}
		assert.Equal(mt, map[string]bool{"bookings": true, "doctor_bookings": true, "patient_bookings": true}, colls)
	})

	mt.Run("missing copy", func(mt *mtest.T) {
		tx := &mongoTx{repo: NewMongoBookingRepo(mt.DB)}
		mt.AddMockResponses(matched(0))

		err := tx.SetBookingStatus(ctx, testBooking(), models.BookingStatusCancelled)
		assert.ErrorIs(mt, err, ErrNotFound)
	})
}

func TestMongoTx_PutTimeslotDaySetsID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("upserts by key", func(mt *mtest.T) {
		tx := &mongoTx{repo: NewMongoBookingRepo(mt.DB)}
		mt.AddMockResponses(matched(1))

		day := &models.TimeslotDay{Date: mongoKey.Date, Specialization: mongoKey.Specialization, DoctorID: mongoKey.DoctorID}
		require.NoError(mt, tx.PutTimeslotDay(context.Background(), day))
		assert.Equal(mt, mongoKey.ID(), day.ID)

		evt := mt.GetStartedEvent()
		update := evt.Command.Lookup("updates").Array().Index(0).Value().Document()
		assert.Equal(mt, mongoKey.ID(), update.Lookup("q", "_id").StringValue())
		assert.True(mt, update.Lookup("upsert").Boolean())
	})
}
