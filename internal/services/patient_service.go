package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/carepulse/carepulse/internal/models"
	"github.com/carepulse/carepulse/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// PatientService encapsulates the business logic for patients.
type PatientService struct {
	repo      *repository.PatientRepository
	groupRepo *repository.GroupRepository
}

// NewPatientService creates a new instance of PatientService.
func NewPatientService(repo *repository.PatientRepository, groupRepo *repository.GroupRepository) *PatientService {
	return &PatientService{
		repo:      repo,
		groupRepo: groupRepo,
	}
}

// CreatePatient inserts a patient scoped to the acting user's group and
// registers it on the group's patient list.
func (s *PatientService) CreatePatient(ctx context.Context, user *models.User, patient *models.Patient) (*models.Patient, error) {
	if user.Group == nil {
		return nil, validationError("Please join a care group first")
	}
	patient.Group = *user.Group

	created, err := s.repo.CreatePatient(ctx, patient)
	if err != nil {
		return nil, fmt.Errorf("failed to create patient: %v", err)
	}

	if err := s.groupRepo.AddPatient(ctx, patient.Group, created.ID); err != nil {
		logrus.WithField("patientID", created.ID.Hex()).WithError(err).Warn("Failed to register patient on group")
	}

	return created, nil
}

// GetPatient retrieves a patient by hex ID.
func (s *PatientService) GetPatient(ctx context.Context, id string) (*models.Patient, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, validationError("invalid patient ID")
	}

	patient, err := s.repo.GetPatientByID(ctx, objID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFoundError("Patient not found")
		}
		return nil, fmt.Errorf("failed to get patient: %v", err)
	}
	return patient, nil
}

// GetPatients lists the patients of the acting user's group.
func (s *PatientService) GetPatients(ctx context.Context, user *models.User) ([]models.Patient, error) {
	if user.Group == nil {
		return []models.Patient{}, nil
	}

	patients, err := s.repo.GetPatientsByGroup(ctx, *user.Group)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch patients: %v", err)
	}
	return patients, nil
}

// UpdatePatient merges changes into an existing patient.
func (s *PatientService) UpdatePatient(ctx context.Context, id string, updated *models.Patient) (*models.Patient, error) {
	existing, err := s.GetPatient(ctx, id)
	if err != nil {
		return nil, err
	}

	// Group assignment and child reference lists are managed elsewhere.
	updated.ID = existing.ID
	updated.Group = existing.Group
	updated.Medications = existing.Medications
	updated.Appointments = existing.Appointments
	updated.Symptoms = existing.Symptoms
	updated.CreatedAt = existing.CreatedAt

	result, err := s.repo.UpdatePatient(ctx, existing.ID, updated)
	if err != nil {
		return nil, fmt.Errorf("failed to update patient: %v", err)
	}
	return result, nil
}

// DeletePatient removes a patient and its reference on the owning group.
func (s *PatientService) DeletePatient(ctx context.Context, id string) error {
	patient, err := s.GetPatient(ctx, id)
	if err != nil {
		return err
	}

	if err := s.groupRepo.RemovePatient(ctx, patient.Group, patient.ID); err != nil {
		logrus.WithField("patientID", patient.ID.Hex()).WithError(err).Warn("Failed to remove patient from group")
	}

	if err := s.repo.DeletePatient(ctx, patient.ID); err != nil {
		return fmt.Errorf("failed to delete patient: %v", err)
	}
	return nil
}
