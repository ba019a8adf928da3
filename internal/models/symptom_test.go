package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildSymptomTrends(t *testing.T) {
	base := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	symptoms := []Symptom{
		{Timestamp: base, Severity: 3},
		{Timestamp: base.Add(24 * time.Hour), Severity: 7},
		{Timestamp: base.Add(48 * time.Hour), Severity: 5},
	}

	trends := BuildSymptomTrends(symptoms)

	assert.Equal(t, []string{"2024-05-01", "2024-05-02", "2024-05-03"}, trends.Dates)
	assert.Equal(t, []int{3, 7, 5}, trends.Severities)
	assert.Len(t, trends.Symptoms, 3)
}

func TestBuildSymptomTrends_Empty(t *testing.T) {
	trends := BuildSymptomTrends(nil)

	assert.Empty(t, trends.Dates)
	assert.Empty(t, trends.Severities)
}
