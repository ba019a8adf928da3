package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestApplyDose_AppendsNewEntry(t *testing.T) {
	med := &Medication{Name: "Lisinopril"}
	user := primitive.NewObjectID()
	now := time.Now()

	med.ApplyDose("2024-05-01-morning", true, "with breakfast", user, now)

	require.Len(t, med.History, 1)
	entry := med.History[0]
	assert.Equal(t, "2024-05-01-morning", entry.DoseID)
	assert.True(t, entry.Taken)
	assert.Equal(t, "with breakfast", entry.Notes)
	require.NotNil(t, entry.TakenBy)
	assert.Equal(t, user, *entry.TakenBy)
	assert.Equal(t, 0, med.MissedDoses)
}

func TestApplyDose_UpsertsByDoseID(t *testing.T) {
	med := &Medication{}
	user := primitive.NewObjectID()
	now := time.Now()

	med.ApplyDose("dose-1", false, "", user, now)
	med.ApplyDose("dose-1", true, "late", user, now.Add(time.Hour))

	require.Len(t, med.History, 1, "same doseId must update in place, not append")
	assert.True(t, med.History[0].Taken)
	assert.Equal(t, "late", med.History[0].Notes)
}

func TestApplyDose_NotTakenIncrementsMissedDoses(t *testing.T) {
	med := &Medication{}
	user := primitive.NewObjectID()
	now := time.Now()

	med.ApplyDose("dose-1", false, "", user, now)
	assert.Equal(t, 1, med.MissedDoses)

	// every not-taken call counts, even on the same dose
	med.ApplyDose("dose-1", false, "", user, now)
	assert.Equal(t, 2, med.MissedDoses)

	med.ApplyDose("dose-1", true, "", user, now)
	assert.Equal(t, 2, med.MissedDoses, "taken must not change the count")
}

func TestHistoryBetween(t *testing.T) {
	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	med := &Medication{History: []DoseEntry{
		{DoseID: "a", ScheduledTime: base},
		{DoseID: "b", ScheduledTime: base.Add(24 * time.Hour)},
		{DoseID: "c", ScheduledTime: base.Add(48 * time.Hour)},
	}}

	got := med.HistoryBetween(base.Add(time.Hour), base.Add(30*time.Hour))
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].DoseID)

	all := med.HistoryBetween(time.Time{}, time.Time{})
	assert.Len(t, all, 3, "zero bounds are open")
}
