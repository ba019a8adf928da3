package jobs

import (
	"context"
	"fmt"

	"github.com/carepulse/carepulse/internal/repository"
	"github.com/sirupsen/logrus"
)

// PatientRefReconciler repairs patient reference lists. Child records
// created while their patient document was missing or unreachable leave
// no back-reference; this job re-adds every child ID to its patient.
// PushRef uses $addToSet, so re-running over healthy records is a no-op.
type PatientRefReconciler struct {
	PatientRepo     *repository.PatientRepository
	MedicationRepo  *repository.MedicationRepository
	AppointmentRepo *repository.AppointmentRepository
	SymptomRepo     *repository.SymptomRepository
}

// NewPatientRefReconciler creates a new instance of PatientRefReconciler.
func NewPatientRefReconciler(
	patientRepo *repository.PatientRepository,
	medicationRepo *repository.MedicationRepository,
	appointmentRepo *repository.AppointmentRepository,
	symptomRepo *repository.SymptomRepository,
) *PatientRefReconciler {
	return &PatientRefReconciler{
		PatientRepo:     patientRepo,
		MedicationRepo:  medicationRepo,
		AppointmentRepo: appointmentRepo,
		SymptomRepo:     symptomRepo,
	}
}

// Run walks all child collections and restores missing patient references.
func (j *PatientRefReconciler) Run(ctx context.Context) error {
	var repaired, orphaned int

	meds, err := j.MedicationRepo.GetAllMedications(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch medications: %v", err)
	}
	for _, med := range meds {
		if err := j.PatientRepo.PushRef(ctx, med.Patient, repository.PatientRefMedications, med.ID); err != nil {
			orphaned++
		} else {
			repaired++
		}
	}

	appts, err := j.AppointmentRepo.GetAllAppointments(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch appointments: %v", err)
	}
	for _, appt := range appts {
		if err := j.PatientRepo.PushRef(ctx, appt.Patient, repository.PatientRefAppointments, appt.ID); err != nil {
			orphaned++
		} else {
			repaired++
		}
	}

	symptoms, err := j.SymptomRepo.GetAllSymptoms(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch symptoms: %v", err)
	}
	for _, symptom := range symptoms {
		if err := j.PatientRepo.PushRef(ctx, symptom.Patient, repository.PatientRefSymptoms, symptom.ID); err != nil {
			orphaned++
		} else {
			repaired++
		}
	}

	logrus.WithFields(logrus.Fields{"checked": repaired, "orphaned": orphaned}).Info("Patient reference reconcile completed")
	return nil
}
