package profileRepo

import (
	"context"
	"errors"

	"eclinic/models"
)

// ErrNotFound is returned when the profile document does not exist.
var ErrNotFound = errors.New("profile not found")

// ProfileRepository reads the doctor and patient profiles the booking flows denormalize from.
type ProfileRepository interface {
	GetDoctor(ctx context.Context, doctorID string) (*models.Doctor, error)
	GetPatient(ctx context.Context, patientID string) (*models.Patient, error)
}
