package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Feed item types.
var FeedTypes = []string{"medication", "appointment", "symptom", "note", "alert"}

// Comment is a timestamped comment on a feed item.
type Comment struct {
	User      primitive.ObjectID `bson:"user" json:"user"`
	Comment   string             `bson:"comment" json:"comment"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

// FeedItem is a free-form update shared with the author's group.
type FeedItem struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Type      string               `bson:"type" json:"type"`
	Content   string               `bson:"content" json:"content"`
	User      primitive.ObjectID   `bson:"user" json:"user"`
	Patient   *primitive.ObjectID  `bson:"patient,omitempty" json:"patient,omitempty"`
	Group     primitive.ObjectID   `bson:"group" json:"group"`
	Urgent    bool                 `bson:"urgent" json:"urgent"`
	Tags      []string             `bson:"tags,omitempty" json:"tags,omitempty"`
	Likes     []primitive.ObjectID `bson:"likes,omitempty" json:"likes,omitempty"`
	Comments  []Comment            `bson:"comments" json:"comments"`
	CreatedAt time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time            `bson:"updated_at" json:"updated_at"`
}

// AddComment appends a timestamped comment.
func (f *FeedItem) AddComment(user primitive.ObjectID, text string, now time.Time) Comment {
	comment := Comment{User: user, Comment: text, Timestamp: now}
	f.Comments = append(f.Comments, comment)
	return comment
}
