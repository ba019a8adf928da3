package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Alert types and urgencies.
var (
	AlertTypes     = []string{"medication", "appointment", "symptom", "emergency", "system"}
	AlertUrgencies = []string{"low", "medium", "high", "critical"}
)

// urgencyRank orders urgencies for list sorting; higher is more urgent.
// The enum strings sort alphabetically, so ranking has to happen here.
var urgencyRank = map[string]int{
	"critical": 4,
	"high":     3,
	"medium":   2,
	"low":      1,
}

// UrgencyRank returns the sort rank of an urgency value; unknown values rank lowest.
func UrgencyRank(urgency string) int {
	return urgencyRank[urgency]
}

// Acknowledgement records a user acknowledging an alert.
type Acknowledgement struct {
	User           primitive.ObjectID `bson:"user" json:"user"`
	AcknowledgedAt time.Time          `bson:"acknowledged_at" json:"acknowledged_at"`
}

// Alert is a group-scoped notification about a patient or the system.
// A user may acknowledge an alert at most once.
type Alert struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Type           string              `bson:"type" json:"type"`
	Urgency        string              `bson:"urgency" json:"urgency"`
	Title          string              `bson:"title" json:"title"`
	Message        string              `bson:"message" json:"message"`
	Patient        *primitive.ObjectID `bson:"patient,omitempty" json:"patient,omitempty"`
	Group          primitive.ObjectID  `bson:"group" json:"group"`
	TriggeredBy    *primitive.ObjectID `bson:"triggered_by,omitempty" json:"triggered_by,omitempty"`
	AcknowledgedBy []Acknowledgement   `bson:"acknowledged_by" json:"acknowledged_by"`
	Resolved       bool                `bson:"resolved" json:"resolved"`
	ResolvedAt     *time.Time          `bson:"resolved_at,omitempty" json:"resolved_at,omitempty"`
	ResolvedBy     *primitive.ObjectID `bson:"resolved_by,omitempty" json:"resolved_by,omitempty"`
	CreatedAt      time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time           `bson:"updated_at" json:"updated_at"`
}

// Acknowledge appends the user to AcknowledgedBy unless already present.
// Returns false when the user had already acknowledged.
func (a *Alert) Acknowledge(user primitive.ObjectID, now time.Time) bool {
	for _, ack := range a.AcknowledgedBy {
		if ack.User == user {
			return false
		}
	}
	a.AcknowledgedBy = append(a.AcknowledgedBy, Acknowledgement{User: user, AcknowledgedAt: now})
	return true
}

// Resolve marks the alert resolved by the given user.
func (a *Alert) Resolve(by primitive.ObjectID, now time.Time) {
	a.Resolved = true
	a.ResolvedAt = &now
	a.ResolvedBy = &by
}
