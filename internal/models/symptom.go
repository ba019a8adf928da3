package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Symptom moods.
var SymptomMoods = []string{"happy", "neutral", "sad", "anxious", "tired", "sick"}

// Symptom is a single severity/mood observation for a patient.
// Severity is bounded to [1,10].
type Symptom struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Patient   primitive.ObjectID `bson:"patient" json:"patient"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
	Severity  int                `bson:"severity" json:"severity"`
	Mood      string             `bson:"mood" json:"mood"`
	Note      string             `bson:"note,omitempty" json:"note,omitempty"`
	VoiceNote string             `bson:"voice_note,omitempty" json:"voice_note,omitempty"`
	EnteredBy primitive.ObjectID `bson:"entered_by" json:"entered_by"`
	Tags      []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// SymptomTrends is the chart-ready aggregation returned by the trends endpoint.
type SymptomTrends struct {
	Dates      []string  `json:"dates"`
	Severities []int     `json:"severities"`
	Symptoms   []Symptom `json:"symptoms"`
}

// BuildSymptomTrends formats a time-ascending symptom slice for charting.
func BuildSymptomTrends(symptoms []Symptom) SymptomTrends {
	trends := SymptomTrends{
		Dates:      make([]string, 0, len(symptoms)),
		Severities: make([]int, 0, len(symptoms)),
		Symptoms:   symptoms,
	}
	for _, s := range symptoms {
		trends.Dates = append(trends.Dates, s.Timestamp.UTC().Format("2006-01-02"))
		trends.Severities = append(trends.Severities, s.Severity)
	}
	return trends
}
