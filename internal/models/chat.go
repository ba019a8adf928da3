package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Attachment is a file reference embedded in a chat message.
type Attachment struct {
	URL      string `bson:"url" json:"url"`
	FileType string `bson:"file_type,omitempty" json:"file_type,omitempty"`
}

// ChatMessage is a single message embedded in a thread. Messages are
// ordered by append time.
type ChatMessage struct {
	Sender      primitive.ObjectID `bson:"sender" json:"sender"`
	Content     string             `bson:"content" json:"content"`
	Attachments []Attachment       `bson:"attachments" json:"attachments"`
	Timestamp   time.Time          `bson:"timestamp" json:"timestamp"`
}

// ChatThread is a group-scoped conversation with an embedded message list.
type ChatThread struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title        string               `bson:"title" json:"title"`
	Group        primitive.ObjectID   `bson:"group" json:"group"`
	Participants []primitive.ObjectID `bson:"participants" json:"participants"`
	Messages     []ChatMessage        `bson:"messages" json:"messages"`
	LastMessage  time.Time            `bson:"last_message" json:"last_message"`
	CreatedAt    time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time            `bson:"updated_at" json:"updated_at"`
}

// AppendMessage adds a message to the thread and refreshes LastMessage.
func (t *ChatThread) AppendMessage(sender primitive.ObjectID, content string, now time.Time) ChatMessage {
	message := ChatMessage{
		Sender:      sender,
		Content:     content,
		Attachments: []Attachment{},
		Timestamp:   now,
	}
	t.Messages = append(t.Messages, message)
	t.LastMessage = now
	return message
}
