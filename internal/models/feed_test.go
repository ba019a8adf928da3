package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAddComment(t *testing.T) {
	item := &FeedItem{}
	user := primitive.NewObjectID()
	now := time.Now()

	comment := item.AddComment(user, "Feeling better today", now)

	require.Len(t, item.Comments, 1)
	assert.Equal(t, user, comment.User)
	assert.Equal(t, "Feeling better today", comment.Comment)
	assert.Equal(t, now, comment.Timestamp)

	item.AddComment(user, "second", now.Add(time.Second))
	assert.Len(t, item.Comments, 2)
}
