package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Patient is always associated with exactly one group. The Medications,
// Appointments and Symptoms lists hold references to the child records.
type Patient struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name             string               `bson:"name" json:"name"`
	DateOfBirth      time.Time            `bson:"date_of_birth" json:"date_of_birth"`
	Conditions       []string             `bson:"conditions,omitempty" json:"conditions,omitempty"`
	Medications      []primitive.ObjectID `bson:"medications,omitempty" json:"medications,omitempty"`
	Appointments     []primitive.ObjectID `bson:"appointments,omitempty" json:"appointments,omitempty"`
	Symptoms         []primitive.ObjectID `bson:"symptoms,omitempty" json:"symptoms,omitempty"`
	Group            primitive.ObjectID   `bson:"group" json:"group"`
	PrimaryCaregiver *primitive.ObjectID  `bson:"primary_caregiver,omitempty" json:"primary_caregiver,omitempty"`
	Notes            string               `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt        time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time            `bson:"updated_at" json:"updated_at"`
}
