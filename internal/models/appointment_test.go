package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSetChecklistItem_Upserts(t *testing.T) {
	appt := &Appointment{}
	user := primitive.NewObjectID()
	now := time.Now()

	appt.SetChecklistItem("fasting", true, user, now)
	require.Len(t, appt.Checklist, 1)
	assert.True(t, appt.Checklist[0].Completed)
	require.NotNil(t, appt.Checklist[0].CompletedBy)
	assert.Equal(t, user, *appt.Checklist[0].CompletedBy)

	// same label flips the entry instead of appending
	appt.SetChecklistItem("fasting", false, user, now.Add(time.Minute))
	require.Len(t, appt.Checklist, 1)
	assert.False(t, appt.Checklist[0].Completed)
	assert.Nil(t, appt.Checklist[0].CompletedAt)
	assert.Nil(t, appt.Checklist[0].CompletedBy)
}

func TestSetChecklistItem_DistinctLabelsAppend(t *testing.T) {
	appt := &Appointment{}
	user := primitive.NewObjectID()
	now := time.Now()

	appt.SetChecklistItem("fasting", true, user, now)
	appt.SetChecklistItem("bring insurance card", true, user, now)

	assert.Len(t, appt.Checklist, 2)
}
