package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChecklistItem is a named, completable task attached to an appointment,
// keyed by its free-text label.
type ChecklistItem struct {
	Item        string              `bson:"item" json:"item"`
	Completed   bool                `bson:"completed" json:"completed"`
	CompletedAt *time.Time          `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	CompletedBy *primitive.ObjectID `bson:"completed_by,omitempty" json:"completed_by,omitempty"`
}

// Appointment belongs to one patient.
type Appointment struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Datetime    time.Time          `bson:"datetime" json:"datetime"`
	Doctor      string             `bson:"doctor" json:"doctor"`
	Location    string             `bson:"location" json:"location"`
	Reason      string             `bson:"reason" json:"reason"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Patient     primitive.ObjectID `bson:"patient" json:"patient"`
	Checklist   []ChecklistItem    `bson:"checklist" json:"checklist"`
	Suggestions []string           `bson:"suggestions,omitempty" json:"suggestions,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// SetChecklistItem upserts a checklist entry by item label.
func (a *Appointment) SetChecklistItem(item string, completed bool, by primitive.ObjectID, now time.Time) {
	var entry *ChecklistItem
	for i := range a.Checklist {
		if a.Checklist[i].Item == item {
			entry = &a.Checklist[i]
			break
		}
	}

	if entry == nil {
		a.Checklist = append(a.Checklist, ChecklistItem{Item: item})
		entry = &a.Checklist[len(a.Checklist)-1]
	}

	entry.Completed = completed
	if completed {
		entry.CompletedAt = &now
		entry.CompletedBy = &by
	} else {
		entry.CompletedAt = nil
		entry.CompletedBy = nil
	}
}
