// FILE: database/repository/booking/indexes.go
package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes backing history and cancel-by-time queries.
func (repo *MongoBookingRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	globalIndexes := []mongo.IndexModel{
		// Slot lookup used by cancel-by-time.
		{
			Keys:    bson.D{{Key: "doctorId", Value: 1}, {Key: "date", Value: 1}, {Key: "time", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("doctor_date_time_status_idx"),
		},
		{
			Keys:    bson.D{{Key: "doctorId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetName("doctor_date_idx"),
		},
		{
			Keys:    bson.D{{Key: "patientId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetName("patient_date_idx"),
		},
	}
	if _, err := repo.bookingColl.Indexes().CreateMany(ctx, globalIndexes); err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}

	ownerIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "bookedAt", Value: -1}},
		Options: options.Index().SetName("owner_booked_at_idx"),
	}
	for _, coll := range []*mongo.Collection{repo.doctorBookingColl, repo.patientBookingColl} {
		if _, err := coll.Indexes().CreateOne(ctx, ownerIndex); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", coll.Name(), err)
		}
	}
	return nil
}
