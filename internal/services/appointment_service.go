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

// AppointmentService encapsulates the business logic for appointments.
type AppointmentService struct {
	repo        *repository.AppointmentRepository
	patientRepo *repository.PatientRepository
}

// NewAppointmentService creates a new instance of AppointmentService.
func NewAppointmentService(repo *repository.AppointmentRepository, patientRepo *repository.PatientRepository) *AppointmentService {
	return &AppointmentService{
		repo:        repo,
		patientRepo: patientRepo,
	}
}

// CreateAppointment inserts an appointment and pushes its id onto the
// owning patient's list, best-effort.
func (s *AppointmentService) CreateAppointment(ctx context.Context, appt *models.Appointment) (*models.Appointment, error) {
	created, err := s.repo.CreateAppointment(ctx, appt)
	if err != nil {
		return nil, fmt.Errorf("failed to create appointment: %v", err)
	}

	if err := s.patientRepo.PushRef(ctx, created.Patient, repository.PatientRefAppointments, created.ID); err != nil {
		logrus.WithFields(logrus.Fields{
			"appointmentID": created.ID.Hex(),
			"patientID":     created.Patient.Hex(),
		}).WithError(err).Warn("Patient not updated for new appointment")
	}

	return created, nil
}

// GetAppointment retrieves an appointment by hex ID.
func (s *AppointmentService) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, validationError("invalid appointment ID")
	}

	appt, err := s.repo.GetAppointmentByID(ctx, objID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFoundError("Appointment not found")
		}
		return nil, fmt.Errorf("failed to get appointment: %v", err)
	}
	return appt, nil
}

// GetAppointments lists appointments filtered by patient and date range,
// soonest first.
func (s *AppointmentService) GetAppointments(ctx context.Context, patientID string, start, end time.Time) ([]models.Appointment, error) {
	var filter *primitive.ObjectID
	if patientID != "" {
		objID, err := primitive.ObjectIDFromHex(patientID)
		if err != nil {
			return nil, validationError("invalid patient ID")
		}
		filter = &objID
	}

	appts, err := s.repo.GetAppointments(ctx, filter, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch appointments: %v", err)
	}
	return appts, nil
}

// UpdateAppointment merges changes into an existing appointment. The
// checklist is only mutable through CompleteChecklistItem.
func (s *AppointmentService) UpdateAppointment(ctx context.Context, id string, updated *models.Appointment) (*models.Appointment, error) {
	existing, err := s.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}

	updated.ID = existing.ID
	updated.Patient = existing.Patient
	updated.Checklist = existing.Checklist
	updated.CreatedAt = existing.CreatedAt

	result, err := s.repo.UpdateAppointment(ctx, existing.ID, updated)
	if err != nil {
		return nil, fmt.Errorf("failed to update appointment: %v", err)
	}
	return result, nil
}

// DeleteAppointment removes an appointment and pulls its id from the
// owning patient's list.
func (s *AppointmentService) DeleteAppointment(ctx context.Context, id string) error {
	appt, err := s.GetAppointment(ctx, id)
	if err != nil {
		return err
	}

	if err := s.patientRepo.PullRef(ctx, appt.Patient, repository.PatientRefAppointments, appt.ID); err != nil {
		logrus.WithField("appointmentID", appt.ID.Hex()).WithError(err).Warn("Failed to pull appointment ref from patient")
	}

	if err := s.repo.DeleteAppointment(ctx, appt.ID); err != nil {
		return fmt.Errorf("failed to delete appointment: %v", err)
	}
	return nil
}

// CompleteChecklistItem upserts a checklist entry by its label.
func (s *AppointmentService) CompleteChecklistItem(ctx context.Context, id, item string, completed bool, actingUser primitive.ObjectID) (*models.Appointment, error) {
	appt, err := s.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}

	appt.SetChecklistItem(item, completed, actingUser, time.Now())

	result, err := s.repo.UpdateAppointment(ctx, appt.ID, appt)
	if err != nil {
		return nil, fmt.Errorf("failed to update checklist: %v", err)
	}
	return result, nil
}
