package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Medication frequencies.
var MedicationFrequencies = []string{
	"Once daily",
	"Twice daily",
	"Three times daily",
	"Four times daily",
	"As needed",
}

// DoseEntry is a single entry in a medication's dose history, keyed by DoseID.
type DoseEntry struct {
	DoseID        string              `bson:"dose_id" json:"dose_id"`
	ScheduledTime time.Time           `bson:"scheduled_time" json:"scheduled_time"`
	Taken         bool                `bson:"taken" json:"taken"`
	TakenAt       *time.Time          `bson:"taken_at,omitempty" json:"taken_at,omitempty"`
	TakenBy       *primitive.ObjectID `bson:"taken_by,omitempty" json:"taken_by,omitempty"`
	Notes         string              `bson:"notes,omitempty" json:"notes,omitempty"`
}

// Medication belongs to one patient. MissedDoses increments only on an
// explicit "not taken" action.
type Medication struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name            string              `bson:"name" json:"name"`
	Dose            string              `bson:"dose" json:"dose"`
	Frequency       string              `bson:"frequency" json:"frequency"`
	StartDate       time.Time           `bson:"start_date" json:"start_date"`
	EndDate         *time.Time          `bson:"end_date,omitempty" json:"end_date,omitempty"`
	NextDue         time.Time           `bson:"next_due" json:"next_due"`
	PrescribedBy    string              `bson:"prescribed_by,omitempty" json:"prescribed_by,omitempty"`
	Notes           string              `bson:"notes,omitempty" json:"notes,omitempty"`
	Patient         primitive.ObjectID  `bson:"patient" json:"patient"`
	ResponsibleUser *primitive.ObjectID `bson:"responsible_user,omitempty" json:"responsible_user,omitempty"`
	History         []DoseEntry         `bson:"history" json:"history"`
	MissedDoses     int                 `bson:"missed_doses" json:"missed_doses"`
	CreatedAt       time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time           `bson:"updated_at" json:"updated_at"`
}

// ApplyDose upserts a history entry by doseID. An existing entry is updated
// in place; otherwise a new one is appended with the current time as its
// scheduled time. MissedDoses increments by one for every not-taken call.
func (m *Medication) ApplyDose(doseID string, taken bool, notes string, by primitive.ObjectID, now time.Time) {
	var entry *DoseEntry
	for i := range m.History {
		if m.History[i].DoseID == doseID {
			entry = &m.History[i]
			break
		}
	}

	if entry == nil {
		m.History = append(m.History, DoseEntry{
			DoseID:        doseID,
			ScheduledTime: now,
		})
		entry = &m.History[len(m.History)-1]
	}

	entry.Taken = taken
	entry.Notes = notes
	if taken {
		entry.TakenAt = &now
		entry.TakenBy = &by
	} else {
		entry.TakenAt = nil
		entry.TakenBy = nil
		m.MissedDoses++
	}
}

// HistoryBetween filters dose history by scheduled time. Zero bounds are open.
func (m *Medication) HistoryBetween(start, end time.Time) []DoseEntry {
	filtered := make([]DoseEntry, 0, len(m.History))
	for _, entry := range m.History {
		if !start.IsZero() && entry.ScheduledTime.Before(start) {
			continue
		}
		if !end.IsZero() && entry.ScheduledTime.After(end) {
			continue
		}
		filtered = append(filtered, entry)
	}
	return filtered
}
