package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/carepulse/carepulse/internal/models"
	"github.com/carepulse/carepulse/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MedicationService encapsulates the business logic for medications.
type MedicationService struct {
	repo        *repository.MedicationRepository
	patientRepo *repository.PatientRepository
}

// NewMedicationService creates a new instance of MedicationService.
func NewMedicationService(repo *repository.MedicationRepository, patientRepo *repository.PatientRepository) *MedicationService {
	return &MedicationService{
		repo:        repo,
		patientRepo: patientRepo,
	}
}

// CreateMedication inserts a medication and pushes its id onto the owning
// patient's list. A missing patient does not fail the create; the nightly
// reconcile job repairs the reference later.
func (s *MedicationService) CreateMedication(ctx context.Context, med *models.Medication) (*models.Medication, error) {
	created, err := s.repo.CreateMedication(ctx, med)
	if err != nil {
		return nil, fmt.Errorf("failed to create medication: %v", err)
	}

	if err := s.patientRepo.PushRef(ctx, created.Patient, repository.PatientRefMedications, created.ID); err != nil {
		logrus.WithFields(logrus.Fields{
			"medicationID": created.ID.Hex(),
			"patientID":    created.Patient.Hex(),
		}).WithError(err).Warn("Patient not updated for new medication")
	}

	return created, nil
}

// GetMedication retrieves a medication by hex ID.
func (s *MedicationService) GetMedication(ctx context.Context, id string) (*models.Medication, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, validationError("invalid medication ID")
	}

	med, err := s.repo.GetMedicationByID(ctx, objID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFoundError("Medication not found")
		}
		return nil, fmt.Errorf("failed to get medication: %v", err)
	}
	return med, nil
}

// GetMedications lists medications, optionally scoped to one patient,
// sorted by next due ascending.
func (s *MedicationService) GetMedications(ctx context.Context, patientID string) ([]models.Medication, error) {
	var filter *primitive.ObjectID
	if patientID != "" {
		objID, err := primitive.ObjectIDFromHex(patientID)
		if err != nil {
			return nil, validationError("invalid patient ID")
		}
		filter = &objID
	}

	meds, err := s.repo.GetMedications(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch medications: %v", err)
	}
	return meds, nil
}

// UpdateMedication merges changes into an existing medication. Dose
// history and the missed-dose count are only mutable through MarkDose.
func (s *MedicationService) UpdateMedication(ctx context.Context, id string, updated *models.Medication) (*models.Medication, error) {
	existing, err := s.GetMedication(ctx, id)
	if err != nil {
		return nil, err
	}

	updated.ID = existing.ID
	updated.Patient = existing.Patient
	updated.History = existing.History
	updated.MissedDoses = existing.MissedDoses
	updated.CreatedAt = existing.CreatedAt

	result, err := s.repo.UpdateMedication(ctx, existing.ID, updated)
	if err != nil {
		return nil, fmt.Errorf("failed to update medication: %v", err)
	}
	return result, nil
}

// DeleteMedication removes a medication and pulls its id from the owning
// patient's list.
func (s *MedicationService) DeleteMedication(ctx context.Context, id string) error {
	med, err := s.GetMedication(ctx, id)
	if err != nil {
		return err
	}

	if err := s.patientRepo.PullRef(ctx, med.Patient, repository.PatientRefMedications, med.ID); err != nil {
		logrus.WithField("medicationID", med.ID.Hex()).WithError(err).Warn("Failed to pull medication ref from patient")
	}

	if err := s.repo.DeleteMedication(ctx, med.ID); err != nil {
		return fmt.Errorf("failed to delete medication: %v", err)
	}
	return nil
}

// MarkDose upserts a dose-history entry by dose id. Marking a dose not
// taken increments the missed-dose count by exactly one per call.
func (s *MedicationService) MarkDose(ctx context.Context, id, doseID string, taken bool, notes string, actingUser primitive.ObjectID) (*models.Medication, error) {
	med, err := s.GetMedication(ctx, id)
	if err != nil {
		return nil, err
	}

	med.ApplyDose(doseID, taken, notes, actingUser, time.Now())

	result, err := s.repo.UpdateMedication(ctx, med.ID, med)
	if err != nil {
		return nil, fmt.Errorf("failed to record dose: %v", err)
	}

	logrus.WithFields(logrus.Fields{
		"medicationID": med.ID.Hex(),
		"doseID":       doseID,
		"taken":        taken,
	}).Info("Dose recorded")
	return result, nil
}

// GetHistory returns a medication's dose history, optionally bounded by
// scheduled time.
func (s *MedicationService) GetHistory(ctx context.Context, id string, start, end time.Time) ([]models.DoseEntry, error) {
	med, err := s.GetMedication(ctx, id)
	if err != nil {
		return nil, err
	}
	return med.HistoryBetween(start, end), nil
}
