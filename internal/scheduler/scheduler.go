package cron

import (
	"context"

	"github.com/carepulse/carepulse/internal/jobs"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// StartBackgroundJobs schedules the recurring maintenance jobs and
// returns the running cron instance so the caller can stop it on shutdown.
func StartBackgroundJobs(reminder *jobs.MedicationReminder, reconciler *jobs.PatientRefReconciler) *cron.Cron {
	c := cron.New()

	// Medication dose reminders
	_, err := c.AddFunc("@hourly", func() {
		if err := reminder.Run(context.Background()); err != nil {
			logrus.WithError(err).Error("Medication reminder scan failed")
		}
	})
	if err != nil {
		logrus.WithError(err).Error("Failed to schedule medication reminder")
	}

	// Patient reference repair, nightly during quiet hours
	_, err = c.AddFunc("0 3 * * *", func() {
		if err := reconciler.Run(context.Background()); err != nil {
			logrus.WithError(err).Error("Patient reference reconcile failed")
		}
	})
	if err != nil {
		logrus.WithError(err).Error("Failed to schedule patient reference reconcile")
	}

	c.Start()
	return c
}
