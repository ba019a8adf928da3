package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/carepulse/carepulse/internal/models"
	"github.com/carepulse/carepulse/internal/repository"
	"github.com/carepulse/carepulse/internal/services"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MedicationReminder raises a medication alert for every dose coming due
// within the next hour. A patient gets at most one open medication alert
// per hour, so back-to-back scans do not stack duplicates.
type MedicationReminder struct {
	MedicationRepo *repository.MedicationRepository
	PatientRepo    *repository.PatientRepository
	AlertRepo      *repository.AlertRepository
	AlertService   *services.AlertService
}

// NewMedicationReminder creates a new instance of MedicationReminder.
func NewMedicationReminder(
	medicationRepo *repository.MedicationRepository,
	patientRepo *repository.PatientRepository,
	alertRepo *repository.AlertRepository,
	alertService *services.AlertService,
) *MedicationReminder {
	return &MedicationReminder{
		MedicationRepo: medicationRepo,
		PatientRepo:    patientRepo,
		AlertRepo:      alertRepo,
		AlertService:   alertService,
	}
}

// Run scans for doses due in the next hour and raises alerts for them.
func (j *MedicationReminder) Run(ctx context.Context) error {
	now := time.Now()
	meds, err := j.MedicationRepo.GetMedicationsDueBetween(ctx, now, now.Add(time.Hour))
	if err != nil {
		return fmt.Errorf("failed to fetch due medications: %v", err)
	}

	var raised int
	for _, med := range meds {
		if med.EndDate != nil && med.EndDate.Before(now) {
			continue
		}

		if j.recentlyAlerted(ctx, med.Patient, now) {
			continue
		}

		patient, err := j.PatientRepo.GetPatientByID(ctx, med.Patient)
		if err != nil {
			logrus.WithError(err).WithField("medicationID", med.ID.Hex()).Warn("Skipping reminder for medication with unknown patient")
			continue
		}

		patientID := med.Patient
		alert := &models.Alert{
			Type:    "medication",
			Urgency: "medium",
			Title:   "Medication due",
			Message: fmt.Sprintf("%s (%s) is due for %s at %s.", med.Name, med.Dose, patient.Name, med.NextDue.Format("3:04 PM")),
			Patient: &patientID,
			Group:   patient.Group,
		}
		if _, err := j.AlertService.CreateSystemAlert(ctx, alert); err != nil {
			logrus.WithError(err).WithField("medicationID", med.ID.Hex()).Error("Failed to create medication reminder alert")
			continue
		}
		raised++
	}

	logrus.WithFields(logrus.Fields{"due": len(meds), "raised": raised}).Info("Medication reminder scan completed")
	return nil
}

// recentlyAlerted reports whether the patient already has an unresolved
// medication alert from within the last hour.
func (j *MedicationReminder) recentlyAlerted(ctx context.Context, patientID primitive.ObjectID, now time.Time) bool {
	latest, err := j.AlertRepo.GetLatestAlertByTypeAndPatient(ctx, "medication", patientID)
	if err != nil || latest == nil {
		return false
	}
	return !latest.Resolved && latest.CreatedAt.After(now.Add(-time.Hour))
}
