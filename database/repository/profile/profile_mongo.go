package profileRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eclinic/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoProfileRepo struct {
	doctorColl  *mongo.Collection
	patientColl *mongo.Collection
}

func NewMongoProfileRepo(db *mongo.Database) *MongoProfileRepo {
	return &MongoProfileRepo{
		doctorColl:  db.Collection("doctors"),
		patientColl: db.Collection("patients"),
	}
}

func (repo *MongoProfileRepo) GetDoctor(ctx context.Context, doctorID string) (*models.Doctor, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doctor models.Doctor
	if err := repo.doctorColl.FindOne(ctx, bson.M{"_id": doctorID}).Decode(&doctor); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching doctor with id %s: %w", doctorID, err)
	}
	return &doctor, nil
}

func (repo *MongoProfileRepo) GetPatient(ctx context.Context, patientID string) (*models.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var patient models.Patient
	if err := repo.patientColl.FindOne(ctx, bson.M{"_id": patientID}).Decode(&patient); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching patient with id %s: %w", patientID, err)
	}
	return &patient, nil
}
