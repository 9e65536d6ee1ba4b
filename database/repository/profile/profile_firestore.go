package profileRepo

import (
	"context"
	"fmt"
	"time"

	"eclinic/models"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type FirestoreProfileRepo struct {
	client *firestore.Client
}

func NewFirestoreProfileRepo(client *firestore.Client) *FirestoreProfileRepo {
	return &FirestoreProfileRepo{client: client}
}

func (repo *FirestoreProfileRepo) GetDoctor(ctx context.Context, doctorID string) (*models.Doctor, error) {
	var doctor models.Doctor
	if err := repo.get(ctx, "doctors", doctorID, &doctor); err != nil {
		return nil, err
	}
	doctor.ID = doctorID
	return &doctor, nil
}

func (repo *FirestoreProfileRepo) GetPatient(ctx context.Context, patientID string) (*models.Patient, error) {
	var patient models.Patient
	if err := repo.get(ctx, "patients", patientID, &patient); err != nil {
		return nil, err
	}
	patient.ID = patientID
	return &patient, nil
}

func (repo *FirestoreProfileRepo) get(ctx context.Context, collection, id string, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	snap, err := repo.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return ErrNotFound
		}
		return fmt.Errorf("error fetching %s/%s: %w", collection, id, err)
	}
	if err := snap.DataTo(out); err != nil {
		return fmt.Errorf("invalid profile data at %s/%s: %w", collection, id, err)
	}
	return nil
}
