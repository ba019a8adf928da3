package services

import (
	"testing"
	"time"

	"github.com/carepulse/carepulse/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSortAlerts_UrgencyThenRecency(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	alerts := []models.Alert{
		{Title: "old low", Urgency: "low", CreatedAt: base},
		{Title: "new critical", Urgency: "critical", CreatedAt: base.Add(3 * time.Hour)},
		{Title: "old critical", Urgency: "critical", CreatedAt: base.Add(time.Hour)},
		{Title: "new medium", Urgency: "medium", CreatedAt: base.Add(2 * time.Hour)},
	}

	SortAlerts(alerts)

	titles := make([]string, len(alerts))
	for i, a := range alerts {
		titles[i] = a.Title
	}
	assert.Equal(t, []string{"new critical", "old critical", "new medium", "old low"}, titles)
}

func TestApplyAlertUpdate_ResolvePreservesFields(t *testing.T) {
	existing := &models.Alert{
		Type:    "emergency",
		Urgency: "critical",
		Title:   "Fall",
		Message: "Grandpa fell in the kitchen",
	}
	user := primitive.NewObjectID()
	now := time.Now()

	applyAlertUpdate(existing, &models.Alert{Resolved: true}, user, now)

	assert.Equal(t, "emergency", existing.Type)
	assert.Equal(t, "critical", existing.Urgency)
	assert.Equal(t, "Fall", existing.Title)
	assert.Equal(t, "Grandpa fell in the kitchen", existing.Message)
	assert.True(t, existing.Resolved)
	require.NotNil(t, existing.ResolvedBy)
	assert.Equal(t, user, *existing.ResolvedBy)
}

func TestApplyAlertUpdate_PartialFieldChange(t *testing.T) {
	existing := &models.Alert{Type: "symptom", Urgency: "low", Title: "Headache", Message: "Mild"}
	user := primitive.NewObjectID()

	applyAlertUpdate(existing, &models.Alert{Urgency: "high"}, user, time.Now())

	assert.Equal(t, "high", existing.Urgency)
	assert.Equal(t, "Headache", existing.Title)
	assert.False(t, existing.Resolved)
	assert.Nil(t, existing.ResolvedBy)
}

func TestApplyAlertUpdate_ResolveIsNotRepeated(t *testing.T) {
	first := primitive.NewObjectID()
	second := primitive.NewObjectID()
	existing := &models.Alert{Title: "Fall"}

	applyAlertUpdate(existing, &models.Alert{Resolved: true}, first, time.Now())
	applyAlertUpdate(existing, &models.Alert{Resolved: true}, second, time.Now().Add(time.Hour))

	require.NotNil(t, existing.ResolvedBy)
	assert.Equal(t, first, *existing.ResolvedBy, "an already-resolved alert keeps its original resolver")
}

func TestSortAlerts_UnknownUrgencyRanksLast(t *testing.T) {
	alerts := []models.Alert{
		{Title: "weird", Urgency: "??"},
		{Title: "low", Urgency: "low"},
	}

	SortAlerts(alerts)

	assert.Equal(t, "low", alerts[0].Title)
}
