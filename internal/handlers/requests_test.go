package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRegisterRequestValidate(t *testing.T) {
	valid := registerRequest{Name: "A", Email: "a@x.com", Password: "secret1", Role: "family"}
	assert.NoError(t, valid.Validate())

	assert.Error(t, registerRequest{Email: "a@x.com", Password: "secret1"}.Validate(), "name is required")
	assert.Error(t, registerRequest{Name: "A", Email: "not-an-email", Password: "secret1"}.Validate())
	assert.Error(t, registerRequest{Name: "A", Email: "a@x.com", Password: "short"}.Validate(), "password under 6 chars")
	assert.Error(t, registerRequest{Name: "A", Email: "a@x.com", Password: "secret1", Role: "superadmin"}.Validate())

	// role is optional; the service defaults it
	assert.NoError(t, registerRequest{Name: "A", Email: "a@x.com", Password: "secret1"}.Validate())
}

func TestLoginRequestValidate(t *testing.T) {
	assert.NoError(t, loginRequest{Email: "a@x.com", Password: "secret1"}.Validate())
	assert.Error(t, loginRequest{Email: "a@x.com"}.Validate())
	assert.Error(t, loginRequest{Password: "secret1"}.Validate())
}

func TestMedicationRequestValidate(t *testing.T) {
	now := time.Now()
	valid := medicationRequest{
		Name:      "Lisinopril",
		Dose:      "10mg",
		Frequency: "Once daily",
		StartDate: now,
		NextDue:   now.Add(time.Hour),
		Patient:   "665f1f77bcf86cd799439011",
	}
	assert.NoError(t, valid.Validate())

	missingPatient := valid
	missingPatient.Patient = ""
	assert.Error(t, missingPatient.Validate())

	badFrequency := valid
	badFrequency.Frequency = "whenever"
	assert.Error(t, badFrequency.Validate())
}

func TestMedicationRequestToModel_InvalidPatientID(t *testing.T) {
	req := medicationRequest{Patient: "nope"}
	_, err := req.toModel()
	assert.Error(t, err)
}

func TestMarkDoseRequestValidate(t *testing.T) {
	assert.NoError(t, markDoseRequest{DoseID: "2024-05-01-morning", Taken: true}.Validate())
	assert.Error(t, markDoseRequest{Taken: true}.Validate())
}

func TestSymptomRequestValidate(t *testing.T) {
	valid := symptomRequest{Patient: "665f1f77bcf86cd799439011", Severity: 5, Mood: "tired"}
	assert.NoError(t, valid.Validate())

	tooHigh := valid
	tooHigh.Severity = 11
	assert.Error(t, tooHigh.Validate())

	tooLow := valid
	tooLow.Severity = 0
	assert.Error(t, tooLow.Validate())

	badMood := valid
	badMood.Mood = "ecstatic"
	assert.Error(t, badMood.Validate())
}

func TestFeedItemRequestValidate(t *testing.T) {
	assert.NoError(t, feedItemRequest{Type: "note", Content: "Walked today"}.Validate())
	assert.Error(t, feedItemRequest{Type: "gossip", Content: "x"}.Validate())
	assert.Error(t, feedItemRequest{Type: "note"}.Validate(), "content is required")
}

func TestAlertRequestValidate(t *testing.T) {
	valid := alertRequest{Type: "emergency", Urgency: "critical", Title: "Fall", Message: "Grandpa fell"}
	assert.NoError(t, valid.Validate())

	badUrgency := valid
	badUrgency.Urgency = "severe"
	assert.Error(t, badUrgency.Validate())

	noTitle := valid
	noTitle.Title = ""
	assert.Error(t, noTitle.Validate())
}

func TestUpdateAlertRequestValidate(t *testing.T) {
	resolved := true

	// a bare resolve action carries no other fields and must pass
	assert.NoError(t, updateAlertRequest{Resolved: &resolved}.Validate())

	assert.NoError(t, updateAlertRequest{Urgency: "high"}.Validate())
	assert.Error(t, updateAlertRequest{Urgency: "severe"}.Validate())
	assert.Error(t, updateAlertRequest{Type: "gossip"}.Validate())
}

func TestParseTimeParam(t *testing.T) {
	zero, err := parseTimeParam("")
	assert.NoError(t, err)
	assert.True(t, zero.IsZero())

	day, err := parseTimeParam("2024-05-01")
	assert.NoError(t, err)
	assert.Equal(t, 2024, day.Year())

	full, err := parseTimeParam("2024-05-01T08:30:00Z")
	assert.NoError(t, err)
	assert.Equal(t, 8, full.Hour())

	_, err = parseTimeParam("yesterday")
	assert.Error(t, err)
}
