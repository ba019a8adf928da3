package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAppendMessage(t *testing.T) {
	thread := &ChatThread{}
	sender := primitive.NewObjectID()
	now := time.Now()

	msg := thread.AppendMessage(sender, "Grandma took her meds", now)

	require.Len(t, thread.Messages, 1)
	assert.Equal(t, sender, msg.Sender)
	assert.Equal(t, "Grandma took her meds", msg.Content)
	assert.Equal(t, now, thread.LastMessage, "LastMessage tracks the newest append")

	later := now.Add(time.Minute)
	thread.AppendMessage(sender, "and her vitamins", later)
	assert.Len(t, thread.Messages, 2)
	assert.Equal(t, later, thread.LastMessage)
}
