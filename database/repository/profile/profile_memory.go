package profileRepo

import (
	"context"
	"sync"

	"eclinic/models"
)

// MemoryProfileRepo holds profiles in process memory for local runs and tests.
type MemoryProfileRepo struct {
	mu       sync.RWMutex
	doctors  map[string]models.Doctor
	patients map[string]models.Patient
}

func NewMemoryProfileRepo() *MemoryProfileRepo {
	return &MemoryProfileRepo{
		doctors:  map[string]models.Doctor{},
		patients: map[string]models.Patient{},
	}
}

func (repo *MemoryProfileRepo) PutDoctor(doctor models.Doctor) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.doctors[doctor.ID] = doctor
}

func (repo *MemoryProfileRepo) PutPatient(patient models.Patient) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.patients[patient.ID] = patient
}

func (repo *MemoryProfileRepo) GetDoctor(_ context.Context, doctorID string) (*models.Doctor, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	doctor, ok := repo.doctors[doctorID]
	if !ok {
		return nil, ErrNotFound
	}
	return &doctor, nil
}

func (repo *MemoryProfileRepo) GetPatient(_ context.Context, patientID string) (*models.Patient, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	patient, ok := repo.patients[patientID]
	if !ok {
		return nil, ErrNotFound
	}
	return &patient, nil
}
