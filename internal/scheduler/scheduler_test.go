package cron

import (
	"testing"

	"github.com/carepulse/carepulse/internal/jobs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Both cron expressions must parse, or a job silently never runs.
func TestStartBackgroundJobs_SchedulesBothJobs(t *testing.T) {
	reminder := jobs.NewMedicationReminder(nil, nil, nil, nil)
	reconciler := jobs.NewPatientRefReconciler(nil, nil, nil, nil)

	c := StartBackgroundJobs(reminder, reconciler)
	require.NotNil(t, c)
	defer c.Stop()

	assert.Len(t, c.Entries(), 2)
}
