package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group is the unit of data isolation: patients, feed items, chats and
// alerts are all scoped to exactly one group. InviteCode is globally unique.
type Group struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name       string               `bson:"name" json:"name"`
	InviteCode string               `bson:"invite_code" json:"invite_code"`
	Members    []primitive.ObjectID `bson:"members" json:"members"`
	Patients   []primitive.ObjectID `bson:"patients" json:"patients"`
	CreatedBy  primitive.ObjectID   `bson:"created_by" json:"created_by"`
	CreatedAt  time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time            `bson:"updated_at" json:"updated_at"`
}
